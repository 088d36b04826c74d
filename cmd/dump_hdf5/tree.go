package main

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/scigolib/hdf5"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// treeEntry is one object in the file, as printed by the tree command.
type treeEntry struct {
	Path string `yaml:"path" json:"path"`
	Kind string `yaml:"kind" json:"kind"`
	Info string `yaml:"info,omitempty" json:"info,omitempty"`
}

func newTreeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tree <file.h5>",
		Short: "List groups and datasets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := hdf5.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer func() { _ = f.Close() }()

			return writeTree(cmd.OutOrStdout(), collectTree(f), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, yaml or json")
	return cmd
}

// collectTree walks the file depth-first. Datasets whose metadata cannot
// be decoded are listed with the error in place of their info.
func collectTree(f *hdf5.File) []treeEntry {
	var entries []treeEntry
	f.Walk(func(path string, obj hdf5.Object) {
		switch o := obj.(type) {
		case *hdf5.Group:
			entries = append(entries, treeEntry{Path: path, Kind: "group"})
		case *hdf5.Dataset:
			info, err := o.Info()
			if err != nil {
				info = "error: " + err.Error()
			}
			entries = append(entries, treeEntry{Path: path, Kind: "dataset", Info: info})
		}
	})
	return entries
}

func writeTree(w io.Writer, entries []treeEntry, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()

	case "json":
		if err := json.MarshalWrite(w, entries, jsontext.WithIndent("  ")); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err := fmt.Fprintln(w)
		return err

	case "text":
		for _, e := range entries {
			if e.Info == "" {
				fmt.Fprintf(w, "%-8s %s\n", e.Kind, e.Path)
			} else {
				fmt.Fprintf(w, "%-8s %s  %s\n", e.Kind, e.Path, e.Info)
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}
}
