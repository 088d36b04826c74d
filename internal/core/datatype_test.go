package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInt32(t *testing.T) *DatatypeMessage {
	t.Helper()
	dt, err := NewIntType(4, true)
	require.NoError(t, err)
	return dt
}

func TestDatatype_EncodeExactBytes(t *testing.T) {
	f64, err := NewFloatType(8)
	require.NoError(t, err)
	f32, err := NewFloatType(4)
	require.NoError(t, err)
	i64, err := NewIntType(8, true)
	require.NoError(t, err)
	str, err := NewStringType(17, CharsetUTF8)
	require.NoError(t, err)

	tests := []struct {
		name string
		dt   *DatatypeMessage
		want []byte
	}{
		{
			name: "float64",
			dt:   f64,
			want: []byte{
				0x11, 0x20, 0x3F, 0x00, 8, 0, 0, 0,
				0, 0, 64, 0, 52, 11, 0, 52, 0xFF, 0x03, 0, 0,
			},
		},
		{
			name: "float32",
			dt:   f32,
			want: []byte{
				0x11, 0x20, 0x1F, 0x00, 4, 0, 0, 0,
				0, 0, 32, 0, 23, 8, 0, 23, 127, 0, 0, 0,
			},
		},
		{
			name: "int32",
			dt:   mustInt32(t),
			want: []byte{0x10, 0x08, 0, 0, 4, 0, 0, 0, 0, 0, 32, 0},
		},
		{
			name: "int64",
			dt:   i64,
			want: []byte{0x10, 0x08, 0, 0, 8, 0, 0, 0, 0, 0, 64, 0},
		},
		{
			name: "utf-8 string",
			dt:   str,
			want: []byte{0x13, 0x10, 0, 0, 17, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.dt.Encode()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatatype_EnumEncoding(t *testing.T) {
	members := []EnumMember{{Name: "A", Value: 1}, {Name: "B", Value: 2}, {Name: "C", Value: 3}}
	dt, err := NewEnumType(mustInt32(t), members)
	require.NoError(t, err)

	data, err := dt.Encode()
	require.NoError(t, err)

	want := []byte{0x38, 3, 0, 0, 4, 0, 0, 0}
	want = append(want, 0x10, 0x08, 0, 0, 4, 0, 0, 0, 0, 0, 32, 0)
	want = append(want, 'A', 0, 'B', 0, 'C', 0)
	want = append(want, 1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0)
	assert.Equal(t, want, data)

	parsed, err := ParseDatatypeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, DatatypeEnum, parsed.Class)
	assert.Equal(t, uint8(3), parsed.Version)
	assert.Equal(t, uint32(4), parsed.Size)
	require.NotNil(t, parsed.Base)
	assert.True(t, parsed.Base.IsInt32())
	assert.Equal(t, members, parsed.Members)
	assert.Equal(t, "enum(int32)", parsed.String())
}

func TestDatatype_EnumVersion2NamesArePadded(t *testing.T) {
	members := []EnumMember{{Name: "LOW", Value: -1}, {Name: "HIGH", Value: 7}}
	dt, err := NewEnumType(mustInt32(t), members)
	require.NoError(t, err)
	dt.Version = 2

	data, err := dt.Encode()
	require.NoError(t, err)
	// header + base + two 8-byte padded names + two int32 values
	assert.Len(t, data, 8+12+16+8)

	parsed, err := ParseDatatypeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, members, parsed.Members)
}

func TestDatatype_ParseRoundTrip(t *testing.T) {
	f32, err := NewFloatType(4)
	require.NoError(t, err)
	str, err := NewStringType(17, CharsetUTF8)
	require.NoError(t, err)

	for _, dt := range []*DatatypeMessage{f32, mustInt32(t), str} {
		t.Run(dt.String(), func(t *testing.T) {
			data, err := dt.Encode()
			require.NoError(t, err)

			parsed, err := ParseDatatypeMessage(data)
			require.NoError(t, err)
			assert.Equal(t, dt.Class, parsed.Class)
			assert.Equal(t, dt.Size, parsed.Size)
			assert.Equal(t, dt.ClassBitField, parsed.ClassBitField)
			assert.Equal(t, dt.String(), parsed.String())
		})
	}

	parsed, err := ParseDatatypeMessage([]byte{0x13, 0x10, 0, 0, 17, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, CharsetUTF8, parsed.Charset())
	assert.Equal(t, PadNullTerminate, parsed.Padding())
	assert.Equal(t, "string[17, utf-8]", parsed.String())
}

func TestDatatype_ConstructorErrors(t *testing.T) {
	_, err := NewFloatType(2)
	require.ErrorIs(t, err, ErrUnsupportedDatatype)

	_, err = NewIntType(3, true)
	require.ErrorIs(t, err, ErrUnsupportedDatatype)

	_, err = NewStringType(0, CharsetUTF8)
	require.ErrorIs(t, err, ErrUnsupportedDatatype)

	_, err = NewStringType(4, 7)
	require.ErrorIs(t, err, ErrUnsupportedDatatype)

	f32, err := NewFloatType(4)
	require.NoError(t, err)

	tests := []struct {
		name    string
		base    *DatatypeMessage
		members []EnumMember
	}{
		{name: "float base", base: f32, members: []EnumMember{{Name: "A", Value: 1}}},
		{name: "nil base", base: nil, members: []EnumMember{{Name: "A", Value: 1}}},
		{name: "no members", base: mustInt32(t)},
		{name: "duplicate", base: mustInt32(t), members: []EnumMember{{Name: "A", Value: 1}, {Name: "A", Value: 2}}},
		{name: "empty name", base: mustInt32(t), members: []EnumMember{{Name: "", Value: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEnumType(tt.base, tt.members)
			require.ErrorIs(t, err, ErrUnsupportedDatatype)
		})
	}
}

func TestDatatype_EnumValueOutOfRange(t *testing.T) {
	dt, err := NewEnumType(mustInt32(t), []EnumMember{{Name: "BIG", Value: 1 << 40}})
	require.NoError(t, err)

	_, err = dt.Encode()
	require.ErrorIs(t, err, ErrUnsupportedDatatype)
}

func TestParseDatatypeMessage_Errors(t *testing.T) {
	_, err := ParseDatatypeMessage([]byte{1, 2, 3})
	require.Error(t, err)

	// Compound class is never produced.
	_, err = ParseDatatypeMessage([]byte{0x16, 0, 0, 0, 8, 0, 0, 0})
	require.ErrorIs(t, err, ErrUnsupportedDatatype)

	// Float header without properties.
	_, err = ParseDatatypeMessage([]byte{0x11, 0x20, 0x3F, 0, 8, 0, 0, 0})
	require.Error(t, err)
}
