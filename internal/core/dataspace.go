package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
)

// DataspaceType represents the type of HDF5 dataspace.
type DataspaceType uint8

// Dataspace types.
const (
	DataspaceScalar DataspaceType = 0
	DataspaceSimple DataspaceType = 1
	DataspaceNull   DataspaceType = 2
)

const dataspaceMaxRank = 32

// DataspaceMessage represents HDF5 dataspace message (version 2, no
// maximum dimensions: every extent is fixed).
type DataspaceMessage struct {
	Type       DataspaceType
	Dimensions []uint64
}

// NewScalarDataspace returns a dataspace holding exactly one element.
func NewScalarDataspace() *DataspaceMessage {
	return &DataspaceMessage{Type: DataspaceScalar}
}

// NewSimpleDataspace returns an N-dimensional dataspace. Every dimension
// must be non-zero.
func NewSimpleDataspace(dims ...uint64) (*DataspaceMessage, error) {
	if len(dims) == 0 {
		return nil, errors.New("simple dataspace needs at least one dimension")
	}

	if len(dims) > dataspaceMaxRank {
		return nil, fmt.Errorf("dataspace rank %d exceeds %d", len(dims), dataspaceMaxRank)
	}

	for i, d := range dims {
		if d == 0 {
			return nil, fmt.Errorf("dimension %d is zero", i)
		}
	}

	ds := &DataspaceMessage{Type: DataspaceSimple, Dimensions: append([]uint64(nil), dims...)}
	if _, ok := ds.elements(); !ok {
		return nil, fmt.Errorf("dataspace %v overflows the element count", dims)
	}
	return ds, nil
}

// Encode serializes the message.
//
// Version 2 layout: version (1), rank (1), flags (1), type (1), then one
// 8-byte size per dimension.
func (ds *DataspaceMessage) Encode() ([]byte, error) {
	switch ds.Type {
	case DataspaceScalar, DataspaceNull:
		if len(ds.Dimensions) != 0 {
			return nil, fmt.Errorf("%s dataspace cannot have dimensions", ds.Type)
		}
	case DataspaceSimple:
		if len(ds.Dimensions) == 0 || len(ds.Dimensions) > dataspaceMaxRank {
			return nil, fmt.Errorf("invalid simple dataspace rank %d", len(ds.Dimensions))
		}
	default:
		return nil, fmt.Errorf("unknown dataspace type %d", ds.Type)
	}

	buf := make([]byte, 4, 4+8*len(ds.Dimensions))
	buf[0] = 2
	buf[1] = uint8(len(ds.Dimensions)) //nolint:gosec // G115: rank checked above
	buf[2] = 0
	buf[3] = uint8(ds.Type)
	for _, d := range ds.Dimensions {
		buf = binary.LittleEndian.AppendUint64(buf, d)
	}
	return buf, nil
}

// ParseDataspaceMessage parses a version 1 or 2 dataspace message.
func ParseDataspaceMessage(data []byte) (*DataspaceMessage, error) {
	if len(data) < 4 {
		return nil, errors.New("dataspace message too short")
	}

	version := data[0]
	rank := int(data[1])

	ds := &DataspaceMessage{}
	offset := 0

	switch version {
	case 1:
		// Version 1 has no type field and 5 reserved bytes.
		if rank == 0 {
			ds.Type = DataspaceScalar
		} else {
			ds.Type = DataspaceSimple
		}
		offset = 8
	case 2:
		ds.Type = DataspaceType(data[3])
		offset = 4
	default:
		return nil, fmt.Errorf("unsupported dataspace version: %d", version)
	}

	if len(data) < offset+rank*8 {
		return nil, fmt.Errorf("dataspace message truncated: rank %d", rank)
	}

	if rank > 0 {
		ds.Dimensions = make([]uint64, rank)
		for i := range ds.Dimensions {
			ds.Dimensions[i] = binary.LittleEndian.Uint64(data[offset : offset+8])
			offset += 8
		}
	}

	return ds, nil
}

// TotalElements returns the number of elements (1 for scalar, 0 for null).
func (ds *DataspaceMessage) TotalElements() uint64 {
	n, _ := ds.elements()
	return n
}

func (ds *DataspaceMessage) elements() (uint64, bool) {
	switch ds.Type {
	case DataspaceScalar:
		return 1, true
	case DataspaceNull:
		return 0, true
	}

	total := uint64(1)
	for _, d := range ds.Dimensions {
		hi, lo := bits.Mul64(total, d)
		if hi != 0 {
			return 0, false
		}
		total = lo
	}
	return total, true
}

// IsScalar reports whether the dataspace is scalar.
func (ds *DataspaceMessage) IsScalar() bool {
	return ds.Type == DataspaceScalar
}

func (ds *DataspaceMessage) String() string {
	switch ds.Type {
	case DataspaceScalar:
		return "scalar"
	case DataspaceNull:
		return "null"
	default:
		return fmt.Sprintf("%v", ds.Dimensions)
	}
}

func (t DataspaceType) String() string {
	switch t {
	case DataspaceScalar:
		return "scalar"
	case DataspaceSimple:
		return "simple"
	case DataspaceNull:
		return "null"
	default:
		return fmt.Sprintf("dataspace_type_%d", uint8(t))
	}
}
