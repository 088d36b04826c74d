package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newHexCmd() *cobra.Command {
	var offset int64
	var length int

	cmd := &cobra.Command{
		Use:   "hex <file.h5>",
		Short: "Dump raw bytes as hex and ASCII",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			//nolint:gosec // G304: inspecting a user-named file is the point
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer func() { _ = f.Close() }()

			fileInfo, err := f.Stat()
			if err != nil {
				return fmt.Errorf("failed to get file info: %w", err)
			}

			return dumpHex(cmd.OutOrStdout(), f, args[0], fileInfo.Size(), offset, length)
		},
	}

	cmd.Flags().Int64Var(&offset, "offset", 0, "Offset in file to start dumping from")
	cmd.Flags().IntVar(&length, "length", 128, "Number of bytes to dump")
	return cmd
}

// dumpHex writes length bytes starting at offset, 16 per line.
func dumpHex(w io.Writer, r io.ReaderAt, name string, fileSize, offset int64, length int) error {
	if offset < 0 || offset >= fileSize {
		return fmt.Errorf("invalid offset: %d (file size: %d)", offset, fileSize)
	}

	if length < 1 {
		return fmt.Errorf("invalid length: %d", length)
	}

	remaining := fileSize - offset
	readLength := int64(length)
	if readLength > remaining {
		readLength = remaining
		fmt.Fprintf(w, "Warning: requested length %d exceeds available bytes (%d). Dumping %d bytes.\n",
			length, remaining, readLength)
	}

	buf := make([]byte, readLength)
	n, err := r.ReadAt(buf, offset)
	if err != nil && n < len(buf) {
		return fmt.Errorf("read error: %w (read %d of %d bytes)", err, n, readLength)
	}

	fmt.Fprintf(w, "Dumping %d bytes at offset 0x%x (%d) of %s (size: %d bytes):\n",
		n, offset, offset, name, fileSize)

	for i := 0; i < n; i += 16 {
		end := min(i+16, n)
		chunk := buf[i:end]

		fmt.Fprintf(w, "%08x: ", offset+int64(i))
		for j := 0; j < 16; j++ {
			if j < len(chunk) {
				fmt.Fprintf(w, "%02x ", chunk[j])
			} else {
				fmt.Fprint(w, "   ")
			}
			if j == 7 {
				fmt.Fprint(w, " ")
			}
		}
		fmt.Fprint(w, " |")

		for _, b := range chunk {
			if b >= 32 && b <= 126 {
				fmt.Fprintf(w, "%c", b)
			} else {
				fmt.Fprint(w, ".")
			}
		}
		fmt.Fprintln(w, "|")
	}

	return nil
}
