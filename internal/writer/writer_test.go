package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileWriter(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name          string
		filename      string
		setupExisting bool
		wantErr       bool
	}{
		{name: "create new file", filename: "new.h5"},
		{name: "truncate existing file", filename: "existing.h5", setupExisting: true},
		{name: "missing parent directory", filename: filepath.Join("missing", "dir", "out.h5"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.filename)

			if tt.setupExisting {
				require.NoError(t, os.WriteFile(path, []byte("existing content"), 0o600))
			}

			w, err := NewFileWriter(path, 48)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, w)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, w)
			defer w.Close()

			assert.Equal(t, path, w.Path())
			assert.Equal(t, uint64(48), w.EndOfFile())

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, int64(0), info.Size(), "file must start empty")
		})
	}
}

func TestFileWriter_WriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rw.h5")
	w, err := NewFileWriter(path, 48)
	require.NoError(t, err)
	defer w.Close()

	addr, err := w.WriteAtWithAllocation([]byte("OHDR-payload"), "header")
	require.NoError(t, err)
	assert.Equal(t, uint64(48), addr)
	assert.Equal(t, uint64(60), w.EndOfFile())

	buf := make([]byte, 12)
	_, err = w.ReadAt(buf, int64(addr))
	require.NoError(t, err)
	assert.Equal(t, "OHDR-payload", string(buf))

	require.NoError(t, w.WriteAtAddress([]byte{0x89, 'H', 'D', 'F'}, 0))
	require.NoError(t, w.Flush())

	blocks := w.Allocator().Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "header", blocks[0].Label)
}

func TestFileWriter_EmptyWrites(t *testing.T) {
	w, err := NewFileWriter(filepath.Join(t.TempDir(), "empty.h5"), 48)
	require.NoError(t, err)
	defer w.Close()

	n, err := w.WriteAt(nil, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = w.WriteAtWithAllocation(nil, "nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot write empty data")
}

func TestFileWriter_Closed(t *testing.T) {
	w, err := NewFileWriter(filepath.Join(t.TempDir(), "closed.h5"), 48)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "second close is a no-op")

	_, err = w.Allocate(8, "late")
	assert.ErrorIs(t, err, ErrClosed)

	_, err = w.WriteAt([]byte{1}, 0)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = w.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, w.Flush(), ErrClosed)
}
