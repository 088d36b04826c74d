package h5sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Layout(t *testing.T) {
	groups := Schema()
	require.Len(t, groups, 2)
	assert.Equal(t, "scalar", groups[0].Name)
	assert.Equal(t, "simple", groups[1].Name)

	for _, g := range groups {
		seen := make(map[string]bool)
		for _, d := range g.Datasets {
			assert.False(t, seen[d.Name], "duplicate %s/%s", g.Name, d.Name)
			seen[d.Name] = true

			enc, err := encodeDataset(d)
			require.NoError(t, err, "%s/%s", g.Name, d.Name)
			assert.Equal(t, uint64(d.Len()), enc.dataspace.TotalElements())
		}
	}
}

func TestSchema_Types(t *testing.T) {
	groups := Schema()

	tests := []struct {
		group, name string
		typ         ElementType
		shape       []uint64
	}{
		{"scalar", "float", Float64, nil},
		{"scalar", "int", Int64, nil},
		{"scalar", "string", String, nil},
		{"scalar", "enum", Enum, nil},
		{"simple", "float_1", Float32, []uint64{10}},
		{"simple", "float_2", Float32, []uint64{5, 10}},
		{"simple", "int_1", Int32, []uint64{10}},
		{"simple", "int_2", Int32, []uint64{10, 5}},
		{"simple", "enum", Enum, []uint64{5}},
	}

	for _, tt := range tests {
		t.Run(tt.group+"/"+tt.name, func(t *testing.T) {
			var g Group
			for _, candidate := range groups {
				if candidate.Name == tt.group {
					g = candidate
				}
			}
			d, ok := g.Dataset(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.typ, d.Type)
			assert.Equal(t, tt.shape, d.Shape)
			assert.Equal(t, tt.shape == nil, d.IsScalar())
			if d.Type == Enum {
				assert.True(t, d.Enum.Equal(SampleEnumMapping()))
			}
		})
	}
}

func TestSchema_Values(t *testing.T) {
	groups := Schema()
	simple := groups[1]

	float2, _ := simple.Dataset("float_2")
	values := float2.Values.([]float32)
	assert.Equal(t, float32(0), values[0])
	assert.Equal(t, float32(-1), values[9])
	assert.Equal(t, float32(1), values[40])

	int2, _ := simple.Dataset("int_2")
	ints := int2.Values.([]int32)
	assert.Equal(t, int32(-4), ints[4])
	assert.Equal(t, int32(9), ints[45])

	enum, _ := simple.Dataset("enum")
	assert.Equal(t, []int32{1, 2, 3, 2, 1}, enum.Values)
}

func TestSchema_FreshCopies(t *testing.T) {
	first := Schema()
	first[1].Datasets[2].Values.([]int32)[0] = 100
	first[0].Datasets[3].Enum[0].Value = 100

	second := Schema()
	assert.Equal(t, int32(0), second[1].Datasets[2].Values.([]int32)[0])
	assert.Equal(t, int32(1), second[0].Datasets[3].Enum[0].Value)
}

func TestElementType_String(t *testing.T) {
	assert.Equal(t, "float32", Float32.String())
	assert.Equal(t, "enum", Enum.String())
	assert.Equal(t, "ElementType(0)", ElementType(0).String())
}
