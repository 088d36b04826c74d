package core

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Raw data is little-endian. These helpers convert single elements between
// Go values and their stored bytes for a given datatype.

// EncodeInteger encodes v as a fixed-point element, rejecting values that
// do not fit the type.
func EncodeInteger(v int64, dt *DatatypeMessage) ([]byte, error) {
	if dt.Class != DatatypeFixed {
		return nil, fmt.Errorf("%w: integer value for %s", ErrUnsupportedDatatype, dt)
	}

	if dt.Size == 0 || dt.Size > 8 {
		return nil, fmt.Errorf("%w: integer of %d bytes", ErrUnsupportedDatatype, dt.Size)
	}

	bitsN := dt.Size * 8
	if dt.IsSigned() {
		if bitsN < 64 {
			lo, hi := -(int64(1) << (bitsN - 1)), int64(1)<<(bitsN-1)-1
			if v < lo || v > hi {
				return nil, fmt.Errorf("%w: %d out of range for %s", ErrUnsupportedDatatype, v, dt)
			}
		}
	} else if v < 0 || (bitsN < 64 && uint64(v) >= uint64(1)<<bitsN) {
		return nil, fmt.Errorf("%w: %d out of range for %s", ErrUnsupportedDatatype, v, dt)
	}

	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(v)) //nolint:gosec // G115: two's complement truncation is intended
	return buf[:dt.Size], nil
}

// DecodeInteger decodes a fixed-point element, sign-extending signed types.
func DecodeInteger(data []byte, dt *DatatypeMessage) (int64, error) {
	if dt.Class != DatatypeFixed && dt.Class != DatatypeEnum {
		return 0, fmt.Errorf("%w: integer value for %s", ErrUnsupportedDatatype, dt)
	}

	size := int(dt.Size)
	if size == 0 || size > 8 || len(data) < size {
		return 0, fmt.Errorf("integer element needs %d bytes, have %d", size, len(data))
	}

	signed := dt.IsSigned()
	if dt.Class == DatatypeEnum && dt.Base != nil {
		signed = dt.Base.IsSigned()
	}

	var u uint64
	for i := 0; i < size; i++ {
		u |= uint64(data[i]) << (8 * i)
	}

	if signed && size < 8 {
		shift := uint(64 - 8*size)
		return int64(u<<shift) >> shift, nil //nolint:gosec // G115: sign extension
	}

	return int64(u), nil //nolint:gosec // G115: 64-bit reinterpretation
}

// EncodeFloat encodes v as a 4- or 8-byte IEEE element.
func EncodeFloat(v float64, dt *DatatypeMessage) ([]byte, error) {
	switch {
	case dt.IsFloat32():
		return binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(v))), nil
	case dt.IsFloat64():
		return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v)), nil
	default:
		return nil, fmt.Errorf("%w: float value for %s", ErrUnsupportedDatatype, dt)
	}
}

// DecodeFloat decodes a 4- or 8-byte IEEE element.
func DecodeFloat(data []byte, dt *DatatypeMessage) (float64, error) {
	if len(data) < int(dt.Size) {
		return 0, fmt.Errorf("float element needs %d bytes, have %d", dt.Size, len(data))
	}

	switch {
	case dt.IsFloat32():
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(data))), nil
	case dt.IsFloat64():
		return math.Float64frombits(binary.LittleEndian.Uint64(data)), nil
	default:
		return 0, fmt.Errorf("%w: float value for %s", ErrUnsupportedDatatype, dt)
	}
}

// EncodeString encodes s into a fixed-length string element. The
// terminator must fit, and UTF-8 types only accept valid UTF-8.
func EncodeString(s string, dt *DatatypeMessage) ([]byte, error) {
	if dt.Class != DatatypeString {
		return nil, fmt.Errorf("%w: string value for %s", ErrUnsupportedDatatype, dt)
	}

	if dt.Charset() == CharsetUTF8 && !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: invalid UTF-8 string %q", ErrUnsupportedDatatype, s)
	}

	if uint64(len(s))+1 > uint64(dt.Size) {
		return nil, fmt.Errorf("%w: string of %d bytes does not fit %s", ErrUnsupportedDatatype, len(s), dt)
	}

	buf := make([]byte, dt.Size)
	copy(buf, s)
	return buf, nil
}

// DecodeString decodes a fixed-length string element, stopping at the
// first null byte.
func DecodeString(data []byte, dt *DatatypeMessage) (string, error) {
	if dt.Class != DatatypeString {
		return "", fmt.Errorf("%w: string value for %s", ErrUnsupportedDatatype, dt)
	}

	if len(data) > int(dt.Size) {
		data = data[:dt.Size]
	}

	for i, b := range data {
		if b == 0 {
			return string(data[:i]), nil
		}
	}

	return string(data), nil
}
