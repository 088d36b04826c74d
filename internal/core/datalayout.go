package core

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DataLayoutClass represents the storage layout class of a dataset.
type DataLayoutClass uint8

// Layout classes. Chunked storage is never written.
const (
	LayoutCompact    DataLayoutClass = 0
	LayoutContiguous DataLayoutClass = 1
	LayoutChunked    DataLayoutClass = 2
)

func (c DataLayoutClass) String() string {
	switch c {
	case LayoutCompact:
		return "compact"
	case LayoutContiguous:
		return "contiguous"
	case LayoutChunked:
		return "chunked"
	default:
		return fmt.Sprintf("layout_%d", uint8(c))
	}
}

// MaxCompactDataSize is the largest raw data block a compact layout
// message can carry.
const MaxCompactDataSize = 0xFFFF

// DataLayoutMessage represents a version 3 data layout message.
type DataLayoutMessage struct {
	Class       DataLayoutClass
	DataAddress uint64 // contiguous only
	DataSize    uint64
	CompactData []byte // compact only
}

// NewContiguousLayout points at size bytes of raw data stored at address.
func NewContiguousLayout(address, size uint64) *DataLayoutMessage {
	return &DataLayoutMessage{Class: LayoutContiguous, DataAddress: address, DataSize: size}
}

// NewCompactLayout stores data inline in the object header.
func NewCompactLayout(data []byte) (*DataLayoutMessage, error) {
	if len(data) > MaxCompactDataSize {
		return nil, fmt.Errorf("compact data of %d bytes exceeds %d", len(data), MaxCompactDataSize)
	}
	return &DataLayoutMessage{Class: LayoutCompact, DataSize: uint64(len(data)), CompactData: data}, nil
}

// Encode serializes the message.
//
// Version 3 layout:
//   - Version (1), layout class (1)
//   - Compact: size (2), raw data
//   - Contiguous: address (8), size (8)
func (dl *DataLayoutMessage) Encode() ([]byte, error) {
	switch dl.Class {
	case LayoutCompact:
		if len(dl.CompactData) > MaxCompactDataSize {
			return nil, fmt.Errorf("compact data of %d bytes exceeds %d", len(dl.CompactData), MaxCompactDataSize)
		}
		buf := []byte{3, byte(LayoutCompact)}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(dl.CompactData))) //nolint:gosec // G115: checked above
		return append(buf, dl.CompactData...), nil

	case LayoutContiguous:
		buf := []byte{3, byte(LayoutContiguous)}
		buf = binary.LittleEndian.AppendUint64(buf, dl.DataAddress)
		return binary.LittleEndian.AppendUint64(buf, dl.DataSize), nil

	default:
		return nil, fmt.Errorf("layout class %s is not supported for writing", dl.Class)
	}
}

// ParseDataLayoutMessage parses a version 3 compact or contiguous layout.
func ParseDataLayoutMessage(data []byte) (*DataLayoutMessage, error) {
	if len(data) < 2 {
		return nil, errors.New("data layout message too short")
	}

	if data[0] != 3 {
		return nil, fmt.Errorf("unsupported data layout version: %d", data[0])
	}

	dl := &DataLayoutMessage{Class: DataLayoutClass(data[1])}

	switch dl.Class {
	case LayoutCompact:
		if len(data) < 4 {
			return nil, errors.New("compact layout message too short")
		}
		size := int(binary.LittleEndian.Uint16(data[2:4]))
		if len(data) < 4+size {
			return nil, fmt.Errorf("compact layout data truncated: need %d bytes", size)
		}
		dl.DataSize = uint64(size)
		dl.CompactData = data[4 : 4+size]

	case LayoutContiguous:
		if len(data) < 18 {
			return nil, errors.New("contiguous layout message too short")
		}
		dl.DataAddress = binary.LittleEndian.Uint64(data[2:10])
		dl.DataSize = binary.LittleEndian.Uint64(data[10:18])

	default:
		return nil, fmt.Errorf("layout class %s is not supported", dl.Class)
	}

	return dl, nil
}

// IsCompact reports whether raw data is stored in the header.
func (dl *DataLayoutMessage) IsCompact() bool {
	return dl.Class == LayoutCompact
}

// IsContiguous reports whether raw data is stored in one block.
func (dl *DataLayoutMessage) IsContiguous() bool {
	return dl.Class == LayoutContiguous
}

func (dl *DataLayoutMessage) String() string {
	if dl.IsContiguous() {
		return fmt.Sprintf("contiguous(addr=%d, size=%d)", dl.DataAddress, dl.DataSize)
	}
	return fmt.Sprintf("%s(size=%d)", dl.Class, dl.DataSize)
}
