// Package testing provides test utilities for the encoder packages.
package testing

import (
	"errors"
	"io"
)

// MemFile is an in-memory io.ReaderAt and io.WriterAt. Writes past the end
// grow the buffer, zero-filling any gap.
type MemFile struct {
	data []byte
}

// NewMemFile creates a file holding a copy of data.
func NewMemFile(data []byte) *MemFile {
	return &MemFile{data: append([]byte(nil), data...)}
}

// ReadAt implements io.ReaderAt. Reads that end past the data return io.EOF.
func (m *MemFile) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, errors.New("negative offset")
	}

	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}

	n = copy(p, m.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return
}

// WriteAt implements io.WriterAt.
func (m *MemFile) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("negative offset")
	}

	end := int(off) + len(p)
	if end > len(m.data) {
		m.data = append(m.data, make([]byte, end-len(m.data))...)
	}
	return copy(m.data[off:], p), nil
}

// Bytes returns the current contents.
func (m *MemFile) Bytes() []byte {
	return m.data
}

// Len returns the current size.
func (m *MemFile) Len() int {
	return len(m.data)
}
