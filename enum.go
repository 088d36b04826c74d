package h5sample

import (
	"fmt"
	"slices"
)

// EnumLabel is one member of an enumerated type.
type EnumLabel struct {
	Name  string
	Value int32
}

// EnumMapping is an ordered set of enum members, stored over int32.
type EnumMapping []EnumLabel

// Value returns the code for name.
func (m EnumMapping) Value(name string) (int32, bool) {
	for _, l := range m {
		if l.Name == name {
			return l.Value, true
		}
	}
	return 0, false
}

// Name returns the label for a code.
func (m EnumMapping) Name(value int32) (string, bool) {
	for _, l := range m {
		if l.Value == value {
			return l.Name, true
		}
	}
	return "", false
}

// Contains reports whether value is a declared code.
func (m EnumMapping) Contains(value int32) bool {
	_, ok := m.Name(value)
	return ok
}

// Equal reports whether both mappings declare the same name/value pairs.
// Declaration order is ignored.
func (m EnumMapping) Equal(other EnumMapping) bool {
	if len(m) != len(other) {
		return false
	}
	for _, l := range m {
		v, ok := other.Value(l.Name)
		if !ok || v != l.Value {
			return false
		}
	}
	return true
}

// Validate rejects empty mappings, duplicate names and duplicate codes.
func (m EnumMapping) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("%w: empty enum mapping", ErrUnsupportedType)
	}

	names := make(map[string]bool, len(m))
	values := make(map[int32]bool, len(m))
	for _, l := range m {
		if l.Name == "" {
			return fmt.Errorf("%w: enum label without a name", ErrUnsupportedType)
		}
		if names[l.Name] {
			return fmt.Errorf("%w: duplicate enum name %q", ErrUnsupportedType, l.Name)
		}
		if values[l.Value] {
			return fmt.Errorf("%w: duplicate enum value %d", ErrUnsupportedType, l.Value)
		}
		names[l.Name] = true
		values[l.Value] = true
	}
	return nil
}

// Clone returns an independent copy.
func (m EnumMapping) Clone() EnumMapping {
	return slices.Clone(m)
}

// SampleEnum is the enumerated type stored by the fixture.
type SampleEnum int32

// SampleEnum members.
const (
	SampleA SampleEnum = 1
	SampleB SampleEnum = 2
	SampleC SampleEnum = 3
)

// SampleEnumMapping returns the mapping declared in the file: A=1, B=2, C=3.
func SampleEnumMapping() EnumMapping {
	return EnumMapping{
		{Name: "A", Value: int32(SampleA)},
		{Name: "B", Value: int32(SampleB)},
		{Name: "C", Value: int32(SampleC)},
	}
}

func (e SampleEnum) String() string {
	if name, ok := SampleEnumMapping().Name(int32(e)); ok {
		return name
	}
	return fmt.Sprintf("SampleEnum(%d)", int32(e))
}

// ParseSampleEnum looks a member up by label.
func ParseSampleEnum(name string) (SampleEnum, error) {
	v, ok := SampleEnumMapping().Value(name)
	if !ok {
		return 0, fmt.Errorf("unknown SampleEnum label %q", name)
	}
	return SampleEnum(v), nil
}
