// Package main provides a command-line utility to inspect HDF5 files.
// It dumps raw bytes, lists the object tree and prints content digests.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "dump_hdf5",
	Short:         "Inspect HDF5 files: raw bytes, object tree, content digest",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newHexCmd(), newTreeCmd(), newDigestCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
