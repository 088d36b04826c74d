package writer

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrClosed is returned by every operation on a closed FileWriter.
var ErrClosed = errors.New("writer is closed")

// FileWriter wraps an os.File for writing HDF5 files.
// It provides:
//   - Space allocation tracking (via Allocator)
//   - Write-at-address operations
//   - End-of-file tracking
//   - Flush control
//
// Not thread-safe.
type FileWriter struct {
	file      *os.File
	allocator *Allocator
	path      string
}

// NewFileWriter creates (or truncates) path and returns a writer whose
// allocations start at initialOffset. The region below initialOffset is
// reserved for the superblock, which is written last.
func NewFileWriter(path string, initialOffset uint64) (*FileWriter, error) {
	//nolint:gosec // G304: output path is chosen by the caller on purpose
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &FileWriter{
		file:      f,
		allocator: NewAllocator(initialOffset),
		path:      path,
	}, nil
}

// Path returns the path the writer was opened with.
func (w *FileWriter) Path() string {
	return w.path
}

// Allocate reserves a block of space in the file and returns its address.
// The space is not zeroed; the caller must write it.
func (w *FileWriter) Allocate(size uint64, label string) (uint64, error) {
	if w.file == nil {
		return 0, ErrClosed
	}

	return w.allocator.Allocate(size, label)
}

// WriteAt writes data at a specific offset. Implements io.WriterAt.
func (w *FileWriter) WriteAt(data []byte, offset int64) (int, error) {
	if w.file == nil {
		return 0, ErrClosed
	}

	if len(data) == 0 {
		return 0, nil
	}

	n, err := w.file.WriteAt(data, offset)
	if err != nil {
		return n, fmt.Errorf("write at address %d failed: %w", offset, err)
	}

	if n != len(data) {
		return n, fmt.Errorf("incomplete write at address %d: wrote %d of %d bytes", offset, n, len(data))
	}

	return n, nil
}

// WriteAtAddress writes data at a specific address (convenience method with uint64 address).
func (w *FileWriter) WriteAtAddress(data []byte, addr uint64) error {
	_, err := w.WriteAt(data, int64(addr)) //nolint:gosec // G115: addresses come from the allocator
	return err
}

// WriteAtWithAllocation allocates len(data) bytes and writes data there.
// Returns the address where data was written.
func (w *FileWriter) WriteAtWithAllocation(data []byte, label string) (uint64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("cannot write empty data for %q", label)
	}

	addr, err := w.Allocate(uint64(len(data)), label)
	if err != nil {
		return 0, err
	}

	if err := w.WriteAtAddress(data, addr); err != nil {
		return 0, err
	}

	return addr, nil
}

// ReadAt reads back previously written bytes. Implements io.ReaderAt.
func (w *FileWriter) ReadAt(buf []byte, offset int64) (int, error) {
	if w.file == nil {
		return 0, ErrClosed
	}

	return w.file.ReadAt(buf, offset)
}

// EndOfFile returns the current end-of-file address.
func (w *FileWriter) EndOfFile() uint64 {
	return w.allocator.EndOfFile()
}

// Allocator returns the space allocator.
func (w *FileWriter) Allocator() *Allocator {
	return w.allocator
}

// Flush commits all writes to stable storage.
func (w *FileWriter) Flush() error {
	if w.file == nil {
		return ErrClosed
	}

	return w.file.Sync()
}

// Close closes the underlying file. It does not flush; call Flush first
// when durability matters. Closing twice is a no-op.
func (w *FileWriter) Close() error {
	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	return err
}

var (
	_ io.ReaderAt = (*FileWriter)(nil)
	_ io.WriterAt = (*FileWriter)(nil)
)
