// Command make_sample writes the sample HDF5 fixture to sample.h5 in the
// working directory, replacing any existing file. It takes no arguments.
package main

import (
	"log/slog"
	"os"

	"github.com/scigolib/h5sample"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := h5sample.Build(h5sample.DefaultPath, h5sample.WithLogger(logger)); err != nil {
		logger.Error("make_sample failed", "error", err)
		os.Exit(1)
	}
}
