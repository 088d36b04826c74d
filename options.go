// Copyright (c) 2025 SciGo HDF5 Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package h5sample

import (
	"fmt"
	"log/slog"
)

// Layout selects how dataset raw data is stored.
type Layout int

const (
	// LayoutContiguous stores each dataset's data in its own block, written
	// before the dataset's object header. This is the default.
	LayoutContiguous Layout = iota

	// LayoutCompact stores data inline in the dataset's object header.
	LayoutCompact
)

func (l Layout) String() string {
	switch l {
	case LayoutContiguous:
		return "contiguous"
	case LayoutCompact:
		return "compact"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// Option configures Build. Options never change the schema or its values.
//
// This follows the Functional Options Pattern.
//
// Example:
//
//	err := h5sample.Build("sample.h5",
//	    h5sample.WithLayout(h5sample.LayoutCompact),
//	    h5sample.WithLogger(slog.Default()),
//	)
type Option func(*config) error

type config struct {
	layout Layout
	logger *slog.Logger
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		layout: LayoutContiguous,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// WithLayout selects the storage layout for every dataset.
func WithLayout(layout Layout) Option {
	return func(cfg *config) error {
		switch layout {
		case LayoutContiguous, LayoutCompact:
			cfg.layout = layout
			return nil
		default:
			return fmt.Errorf("invalid layout: %s", layout)
		}
	}
}

// WithLogger sets the logger for progress records. A nil logger discards
// output, which is also the default.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		cfg.logger = logger
		return nil
	}
}
