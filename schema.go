package h5sample

import "fmt"

// ElementType is the stored element type of a dataset.
type ElementType int

// Element types.
const (
	Float32 ElementType = iota + 1
	Float64
	Int32
	Int64
	String
	Enum
)

func (t ElementType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case String:
		return "string"
	case Enum:
		return "enum"
	default:
		return fmt.Sprintf("ElementType(%d)", int(t))
	}
}

// Dataset describes one dataset and its values.
//
// Values holds the elements in row-major order as a typed slice matching
// Type: []float32, []float64, []int32, []int64, []string, or []int32 codes
// for Enum. A nil Shape means a scalar dataset with exactly one value.
type Dataset struct {
	Name   string
	Type   ElementType
	Shape  []uint64
	Values any
	Enum   EnumMapping // Enum only
}

// IsScalar reports whether the dataset has no dimensions.
func (d Dataset) IsScalar() bool {
	return len(d.Shape) == 0
}

// Len returns the number of elements the shape holds.
func (d Dataset) Len() int {
	n := 1
	for _, dim := range d.Shape {
		n *= int(dim) //nolint:gosec // G115: fixture shapes are tiny
	}
	return n
}

// Group is a named set of datasets, written in order.
type Group struct {
	Name     string
	Datasets []Dataset
}

// Dataset returns the named dataset.
func (g Group) Dataset(name string) (Dataset, bool) {
	for _, d := range g.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return Dataset{}, false
}

// Fixture string and scalar values.
const (
	ScalarFloat  = 3.14
	ScalarInt    = 1234
	ScalarString = "This is a string"
)

// Schema returns the fixture contents. Each call builds fresh values, so
// callers may modify the result.
func Schema() []Group {
	return []Group{
		{
			Name: "scalar",
			Datasets: []Dataset{
				{Name: "float", Type: Float64, Values: []float64{ScalarFloat}},
				{Name: "int", Type: Int64, Values: []int64{ScalarInt}},
				{Name: "string", Type: String, Values: []string{ScalarString}},
				{Name: "enum", Type: Enum, Values: []int32{int32(SampleA)}, Enum: SampleEnumMapping()},
			},
		},
		{
			Name: "simple",
			Datasets: []Dataset{
				{Name: "float_1", Type: Float32, Shape: []uint64{10}, Values: float1()},
				{Name: "float_2", Type: Float32, Shape: []uint64{5, 10}, Values: float2()},
				{Name: "int_1", Type: Int32, Shape: []uint64{10}, Values: int1()},
				{Name: "int_2", Type: Int32, Shape: []uint64{10, 5}, Values: int2()},
				{
					Name:   "enum",
					Type:   Enum,
					Shape:  []uint64{5},
					Values: []int32{int32(SampleA), int32(SampleB), int32(SampleC), int32(SampleB), int32(SampleA)},
					Enum:   SampleEnumMapping(),
				},
			},
		},
	}
}

// Float values are computed in float64 and rounded once to float32.

func float1() []float32 {
	out := make([]float32, 10)
	for i := range out {
		out[i] = float32(float64(i) / 9)
	}
	return out
}

func float2() []float32 {
	out := make([]float32, 0, 5*10)
	for r := 0; r < 5; r++ {
		for c := 0; c < 10; c++ {
			out = append(out, float32(float64(r)/4-float64(c)/9))
		}
	}
	return out
}

func int1() []int32 {
	out := make([]int32, 10)
	for i := range out {
		out[i] = int32(i) //nolint:gosec // G115: 0..9
	}
	return out
}

func int2() []int32 {
	out := make([]int32, 0, 10*5)
	for r := int32(0); r < 10; r++ {
		for c := int32(0); c < 5; c++ {
			out = append(out, r-c)
		}
	}
	return out
}
