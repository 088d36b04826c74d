package h5sample

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/h5sample/internal/core"
)

// storedDataset is a dataset decoded with the in-repo parsers.
type storedDataset struct {
	header    *core.ObjectHeader
	datatype  *core.DatatypeMessage
	dataspace *core.DataspaceMessage
	layout    *core.DataLayoutMessage
	fill      *core.FillValueMessage
	raw       []byte
}

// storedFile is a fixture decoded down to raw dataset bytes.
type storedFile struct {
	superblock *core.Superblock
	size       int64
	groups     []string            // root children in link order
	children   map[string][]string // group -> dataset names in link order
	datasets   map[string]*storedDataset
}

func readStored(t *testing.T, path string) *storedFile {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)

	sb, err := core.ReadSuperblock(f)
	require.NoError(t, err)

	sf := &storedFile{
		superblock: sb,
		size:       info.Size(),
		children:   make(map[string][]string),
		datasets:   make(map[string]*storedDataset),
	}

	root, err := core.ReadObjectHeader(f, sb.RootGroup)
	require.NoError(t, err)
	require.Equal(t, core.ObjectTypeGroup, root.Type)

	for _, groupLink := range links(t, root) {
		sf.groups = append(sf.groups, groupLink.Name)

		group, err := core.ReadObjectHeader(f, groupLink.Address)
		require.NoError(t, err)
		require.Equal(t, core.ObjectTypeGroup, group.Type, groupLink.Name)

		for _, dsLink := range links(t, group) {
			sf.children[groupLink.Name] = append(sf.children[groupLink.Name], dsLink.Name)
			sf.datasets[groupLink.Name+"/"+dsLink.Name] = readStoredDataset(t, f, dsLink.Address)
		}
	}

	return sf
}

func links(t *testing.T, oh *core.ObjectHeader) []*core.LinkMessage {
	t.Helper()

	linkInfo := oh.Find(core.MsgLinkInfo)
	require.NotNil(t, linkInfo)
	lim, err := core.ParseLinkInfoMessage(linkInfo.Data)
	require.NoError(t, err)
	require.True(t, lim.IsCompact())
	require.NotNil(t, oh.Find(core.MsgGroupInfo))

	var out []*core.LinkMessage
	for _, msg := range oh.FindAll(core.MsgLinkMessage) {
		lm, err := core.ParseLinkMessage(msg.Data)
		require.NoError(t, err)
		out = append(out, lm)
	}
	return out
}

func readStoredDataset(t *testing.T, f *os.File, addr uint64) *storedDataset {
	t.Helper()

	oh, err := core.ReadObjectHeader(f, addr)
	require.NoError(t, err)
	require.Equal(t, core.ObjectTypeDataset, oh.Type)

	sd := &storedDataset{header: oh}

	sd.datatype, err = core.ParseDatatypeMessage(oh.Find(core.MsgDatatype).Data)
	require.NoError(t, err)
	sd.dataspace, err = core.ParseDataspaceMessage(oh.Find(core.MsgDataspace).Data)
	require.NoError(t, err)
	sd.layout, err = core.ParseDataLayoutMessage(oh.Find(core.MsgDataLayout).Data)
	require.NoError(t, err)
	sd.fill, err = core.ParseFillValueMessage(oh.Find(core.MsgFillValue).Data)
	require.NoError(t, err)

	want := sd.dataspace.TotalElements() * uint64(sd.datatype.Size)
	require.Equal(t, want, sd.layout.DataSize)

	if sd.layout.IsCompact() {
		sd.raw = sd.layout.CompactData
	} else {
		sd.raw = make([]byte, sd.layout.DataSize)
		_, err = f.ReadAt(sd.raw, int64(sd.layout.DataAddress))
		require.NoError(t, err)
	}

	return sd
}

func (sd *storedDataset) floats(t *testing.T) []float64 {
	t.Helper()
	size := int(sd.datatype.Size)
	out := make([]float64, 0, len(sd.raw)/size)
	for off := 0; off < len(sd.raw); off += size {
		v, err := core.DecodeFloat(sd.raw[off:off+size], sd.datatype)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func (sd *storedDataset) ints(t *testing.T) []int64 {
	t.Helper()
	size := int(sd.datatype.Size)
	out := make([]int64, 0, len(sd.raw)/size)
	for off := 0; off < len(sd.raw); off += size {
		v, err := core.DecodeInteger(sd.raw[off:off+size], sd.datatype)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}
