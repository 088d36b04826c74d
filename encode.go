package h5sample

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/scigolib/h5sample/internal/core"
)

// encodedDataset is a dataset translated to HDF5 messages and raw bytes.
type encodedDataset struct {
	datatype  *core.DatatypeMessage
	dataspace *core.DataspaceMessage
	raw       []byte
}

// encodeDataset checks that the declared type, shape and values agree and
// produces the datatype, dataspace and little-endian raw data.
func encodeDataset(d Dataset) (*encodedDataset, error) {
	dt, err := datatypeFor(d)
	if err != nil {
		return nil, err
	}

	ds, err := dataspaceFor(d)
	if err != nil {
		return nil, err
	}

	raw, err := rawData(d, dt, int(ds.TotalElements())) //nolint:gosec // G115: validated shape
	if err != nil {
		return nil, err
	}

	return &encodedDataset{datatype: dt, dataspace: ds, raw: raw}, nil
}

func datatypeFor(d Dataset) (*core.DatatypeMessage, error) {
	var dt *core.DatatypeMessage
	var err error

	switch d.Type {
	case Float32:
		dt, err = core.NewFloatType(4)
	case Float64:
		dt, err = core.NewFloatType(8)
	case Int32:
		dt, err = core.NewIntType(4, true)
	case Int64:
		dt, err = core.NewIntType(8, true)
	case String:
		dt, err = stringType(d)
	case Enum:
		dt, err = enumType(d.Enum)
	default:
		return nil, fmt.Errorf("%w: element type %s", ErrUnsupportedType, d.Type)
	}

	if err != nil && !errors.Is(err, ErrUnsupportedType) {
		err = fmt.Errorf("%w: %w", ErrUnsupportedType, err)
	}
	return dt, err
}

// stringType sizes a fixed-length UTF-8 type to the value plus terminator.
func stringType(d Dataset) (*core.DatatypeMessage, error) {
	values, ok := d.Values.([]string)
	if !ok || len(values) != 1 || !d.IsScalar() {
		return nil, fmt.Errorf("string datasets must be scalar with one []string value, got %s %T", shapeString(d.Shape), d.Values)
	}

	if !utf8.ValidString(values[0]) {
		return nil, errors.New("string value is not valid UTF-8")
	}

	return core.NewStringType(uint32(len(values[0])+1), core.CharsetUTF8) //nolint:gosec // G115: fixture strings are short
}

func enumType(m EnumMapping) (*core.DatatypeMessage, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	base, err := core.NewIntType(4, true)
	if err != nil {
		return nil, err
	}

	members := make([]core.EnumMember, len(m))
	for i, l := range m {
		members[i] = core.EnumMember{Name: l.Name, Value: int64(l.Value)}
	}
	return core.NewEnumType(base, members)
}

func dataspaceFor(d Dataset) (*core.DataspaceMessage, error) {
	if d.IsScalar() {
		return core.NewScalarDataspace(), nil
	}

	ds, err := core.NewSimpleDataspace(d.Shape...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedType, err)
	}
	return ds, nil
}

func rawData(d Dataset, dt *core.DatatypeMessage, n int) ([]byte, error) {
	buf := make([]byte, 0, n*int(dt.Size))

	appendEach := func(count int, encode func(i int) ([]byte, error)) error {
		if count != n {
			return fmt.Errorf("%w: %s dataset %q has %d values for shape %s", ErrUnsupportedType, d.Type, d.Name, count, shapeString(d.Shape))
		}
		for i := 0; i < count; i++ {
			b, err := encode(i)
			if err != nil {
				return fmt.Errorf("%w: element %d: %w", ErrUnsupportedType, i, err)
			}
			buf = append(buf, b...)
		}
		return nil
	}

	var err error
	switch values := d.Values.(type) {
	case []float32:
		if d.Type != Float32 {
			break
		}
		err = appendEach(len(values), func(i int) ([]byte, error) {
			return core.EncodeFloat(float64(values[i]), dt)
		})
		return buf, err

	case []float64:
		if d.Type != Float64 {
			break
		}
		err = appendEach(len(values), func(i int) ([]byte, error) {
			return core.EncodeFloat(values[i], dt)
		})
		return buf, err

	case []int32:
		if d.Type != Int32 && d.Type != Enum {
			break
		}
		err = appendEach(len(values), func(i int) ([]byte, error) {
			if d.Type == Enum && !d.Enum.Contains(values[i]) {
				return nil, fmt.Errorf("enum value %d not in mapping", values[i])
			}
			return core.EncodeInteger(int64(values[i]), enumBase(dt))
		})
		return buf, err

	case []int64:
		if d.Type != Int64 {
			break
		}
		err = appendEach(len(values), func(i int) ([]byte, error) {
			return core.EncodeInteger(values[i], dt)
		})
		return buf, err

	case []string:
		if d.Type != String {
			break
		}
		err = appendEach(len(values), func(i int) ([]byte, error) {
			return core.EncodeString(values[i], dt)
		})
		return buf, err
	}

	return nil, fmt.Errorf("%w: %T values for %s dataset %q", ErrUnsupportedType, d.Values, d.Type, d.Name)
}

// enumBase returns the integer type values are stored as.
func enumBase(dt *core.DatatypeMessage) *core.DatatypeMessage {
	if dt.Class == core.DatatypeEnum {
		return dt.Base
	}
	return dt
}

func shapeString(shape []uint64) string {
	if len(shape) == 0 {
		return "scalar"
	}
	return fmt.Sprint(shape)
}
