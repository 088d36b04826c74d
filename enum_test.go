package h5sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumMapping_Lookups(t *testing.T) {
	m := EnumMapping{{"A", 1}, {"B", 2}, {"C", 3}, {"D", 4}}

	_, ok := m.Value("nonexistent")
	assert.False(t, ok)

	for _, l := range m {
		v, ok := m.Value(l.Name)
		require.True(t, ok)
		assert.Equal(t, l.Value, v)

		name, ok := m.Name(l.Value)
		require.True(t, ok)
		assert.Equal(t, l.Name, name)
	}

	_, ok = m.Name(0)
	assert.False(t, ok)
	assert.True(t, m.Contains(4))
	assert.False(t, m.Contains(5))
}

func TestEnumMapping_Equal(t *testing.T) {
	truth := SampleEnumMapping()

	tests := []struct {
		name  string
		other EnumMapping
		want  bool
	}{
		{name: "same", other: EnumMapping{{"A", 1}, {"B", 2}, {"C", 3}}, want: true},
		{name: "reordered", other: EnumMapping{{"C", 3}, {"A", 1}, {"B", 2}}, want: true},
		{name: "wrong key", other: EnumMapping{{"X", 1}, {"Y", 2}, {"Z", 3}}, want: false},
		{name: "wrong value", other: EnumMapping{{"A", 0}, {"B", 1}, {"C", 2}}, want: false},
		{name: "missing member", other: EnumMapping{{"A", 1}, {"C", 3}}, want: false},
		{name: "extra member", other: EnumMapping{{"A", 1}, {"B", 2}, {"C", 3}, {"D", 4}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truth.Equal(tt.other))
			assert.Equal(t, tt.want, tt.other.Equal(truth))
		})
	}
}

func TestEnumMapping_Validate(t *testing.T) {
	require.NoError(t, SampleEnumMapping().Validate())

	tests := []struct {
		name string
		m    EnumMapping
	}{
		{name: "empty", m: EnumMapping{}},
		{name: "unnamed", m: EnumMapping{{"", 1}}},
		{name: "duplicate name", m: EnumMapping{{"A", 1}, {"A", 2}}},
		{name: "duplicate value", m: EnumMapping{{"A", 1}, {"B", 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.m.Validate(), ErrUnsupportedType)
		})
	}
}

func TestEnumMapping_Clone(t *testing.T) {
	m := SampleEnumMapping()
	c := m.Clone()
	c[0].Value = 99
	assert.Equal(t, int32(1), m[0].Value)
}

func TestSampleEnum(t *testing.T) {
	assert.Equal(t, "A", SampleA.String())
	assert.Equal(t, "B", SampleB.String())
	assert.Equal(t, "C", SampleC.String())
	assert.Equal(t, "SampleEnum(7)", SampleEnum(7).String())

	e, err := ParseSampleEnum("C")
	require.NoError(t, err)
	assert.Equal(t, SampleC, e)

	_, err = ParseSampleEnum("D")
	require.Error(t, err)
}
