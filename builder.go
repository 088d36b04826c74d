package h5sample

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scigolib/h5sample/internal/core"
	"github.com/scigolib/h5sample/internal/utils"
	"github.com/scigolib/h5sample/internal/writer"
)

// Build writes the fixture to path, truncating any existing file.
//
// The file is written in one pass and closed before Build returns, on
// success and on failure. A failed build may leave a partial file behind.
// Every error wraps ErrFixtureGeneration.
func Build(path string, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFixtureGeneration, err)
	}

	if err := build(path, Schema(), cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrFixtureGeneration, err)
	}

	return nil
}

// build writes groups under the root group. Allocation order:
// superblock space, then per group each dataset's data and header, then
// the group header, and finally the root group header. The superblock is
// written last, once the root address and end of file are known.
func build(path string, groups []Group, cfg *config) (err error) {
	fw, err := writer.NewFileWriter(path, core.SuperblockSize)
	if err != nil {
		return err
	}

	defer func() {
		flushErr := fw.Flush()
		closeErr := fw.Close()
		if err == nil {
			err = errors.Join(flushErr, closeErr)
		}
	}()

	rootLinks := make([]*core.LinkMessage, 0, len(groups))
	for _, g := range groups {
		addr, err := writeGroup(fw, g, cfg)
		if err != nil {
			return err
		}
		rootLinks = append(rootLinks, &core.LinkMessage{Name: g.Name, Address: addr})
	}

	rootHeader, err := core.NewGroupHeader(rootLinks)
	if err != nil {
		return utils.WrapPathError("encode group", "/", err)
	}

	rootAddr, err := writeHeader(fw, rootHeader, "group /")
	if err != nil {
		return err
	}

	if err := fw.Allocator().ValidateNoOverlaps(); err != nil {
		return utils.WrapError("allocation check failed", err)
	}

	sb := core.NewSuperblock(rootAddr)
	if err := sb.WriteTo(fw, fw.EndOfFile()); err != nil {
		return err
	}

	cfg.logger.Info("fixture written",
		"path", path,
		"size", fw.EndOfFile(),
		"root", rootAddr,
		"layout", cfg.layout.String())

	if cfg.logger.Enabled(context.Background(), slog.LevelDebug) {
		for _, b := range fw.Allocator().Blocks() {
			cfg.logger.Debug("block", "label", b.Label, "offset", b.Offset, "size", b.Size)
		}
	}

	return nil
}

func writeGroup(fw *writer.FileWriter, g Group, cfg *config) (uint64, error) {
	if g.Name == "" {
		return 0, errors.New("group name cannot be empty")
	}

	seen := make(map[string]bool, len(g.Datasets))
	links := make([]*core.LinkMessage, 0, len(g.Datasets))

	for _, d := range g.Datasets {
		path := "/" + g.Name + "/" + d.Name
		if seen[d.Name] {
			return 0, utils.WrapPathError("write dataset", path, errors.New("duplicate name"))
		}
		seen[d.Name] = true

		addr, err := writeDataset(fw, d, cfg.layout, path)
		if err != nil {
			return 0, utils.WrapPathError("write dataset", path, err)
		}

		cfg.logger.Debug("dataset written",
			"group", g.Name,
			"dataset", d.Name,
			"type", d.Type.String(),
			"shape", shapeString(d.Shape),
			"address", addr,
			"layout", cfg.layout.String())

		links = append(links, &core.LinkMessage{Name: d.Name, Address: addr})
	}

	header, err := core.NewGroupHeader(links)
	if err != nil {
		return 0, utils.WrapPathError("encode group", "/"+g.Name, err)
	}

	addr, err := writeHeader(fw, header, "group /"+g.Name)
	if err != nil {
		return 0, err
	}

	cfg.logger.Debug("group written", "group", g.Name, "datasets", len(g.Datasets), "address", addr)
	return addr, nil
}

// writeDataset writes one dataset and returns its object header address.
// Contiguous data is allocated ahead of the header.
func writeDataset(fw *writer.FileWriter, d Dataset, layout Layout, path string) (uint64, error) {
	enc, err := encodeDataset(d)
	if err != nil {
		return 0, err
	}

	var layoutMsg *core.DataLayoutMessage
	switch layout {
	case LayoutCompact:
		layoutMsg, err = core.NewCompactLayout(enc.raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrUnsupportedType, err)
		}
	default:
		dataAddr, err := fw.WriteAtWithAllocation(enc.raw, "data "+path)
		if err != nil {
			return 0, err
		}
		layoutMsg = core.NewContiguousLayout(dataAddr, uint64(len(enc.raw)))
	}

	header, err := core.NewDatasetHeader(enc.datatype, enc.dataspace, core.NewFillValueMessage(layoutMsg.Class), layoutMsg)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnsupportedType, err)
	}

	return writeHeader(fw, header, "dataset "+path)
}

func writeHeader(fw *writer.FileWriter, header *core.ObjectHeaderWriter, label string) (uint64, error) {
	addr, err := fw.Allocate(header.Size(), label)
	if err != nil {
		return 0, utils.WrapError("allocate "+label, err)
	}

	if _, err := header.WriteTo(fw, addr); err != nil {
		return 0, utils.WrapError("write "+label, err)
	}

	return addr, nil
}
