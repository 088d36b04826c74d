package core

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// DatatypeClass represents HDF5 datatype class.
type DatatypeClass uint8

// Datatype class constants. Only the classes the encoder produces are listed.
const (
	DatatypeFixed  DatatypeClass = 0 // Fixed-point (integers).
	DatatypeFloat  DatatypeClass = 1 // Floating-point.
	DatatypeString DatatypeClass = 3 // String.
	DatatypeEnum   DatatypeClass = 8 // Enumerated.
)

func (c DatatypeClass) String() string {
	switch c {
	case DatatypeFixed:
		return "integer"
	case DatatypeFloat:
		return "float"
	case DatatypeString:
		return "string"
	case DatatypeEnum:
		return "enum"
	default:
		return fmt.Sprintf("class_%d", uint8(c))
	}
}

// String character sets.
const (
	CharsetASCII uint8 = 0
	CharsetUTF8  uint8 = 1
)

// String padding types.
const (
	PadNullTerminate uint8 = 0
	PadNull          uint8 = 1
	PadSpace         uint8 = 2
)

const (
	fixedSignedBit      = 0x08
	floatMantissaNormal = 0x20 // implied most significant mantissa bit
	datatypeHeaderSize  = 8
)

// ErrUnsupportedDatatype is returned for class/size combinations the
// encoder or decoder does not handle.
var ErrUnsupportedDatatype = errors.New("unsupported datatype")

// EnumMember is one name/value pair of an enumerated type.
type EnumMember struct {
	Name  string
	Value int64
}

// DatatypeMessage represents HDF5 datatype message.
type DatatypeMessage struct {
	Class         DatatypeClass
	Version       uint8
	Size          uint32
	ClassBitField uint32
	Properties    []byte

	// Enum only.
	Base    *DatatypeMessage
	Members []EnumMember
}

// NewFloatType returns a little-endian IEEE 754 type of 4 or 8 bytes.
func NewFloatType(size uint32) (*DatatypeMessage, error) {
	// Properties: bit offset (2), bit precision (2), exponent location (1),
	// exponent size (1), mantissa location (1), mantissa size (1),
	// exponent bias (4).
	var signLoc, expLoc, expSize, mantSize uint8
	var bias uint32

	switch size {
	case 4:
		signLoc, expLoc, expSize, mantSize, bias = 31, 23, 8, 23, 127
	case 8:
		signLoc, expLoc, expSize, mantSize, bias = 63, 52, 11, 52, 1023
	default:
		return nil, fmt.Errorf("%w: float of %d bytes", ErrUnsupportedDatatype, size)
	}

	props := make([]byte, 12)
	binary.LittleEndian.PutUint16(props[0:2], 0)
	binary.LittleEndian.PutUint16(props[2:4], uint16(size*8)) //nolint:gosec // G115: 32 or 64
	props[4] = expLoc
	props[5] = expSize
	props[6] = 0
	props[7] = mantSize
	binary.LittleEndian.PutUint32(props[8:12], bias)

	return &DatatypeMessage{
		Class:         DatatypeFloat,
		Version:       1,
		Size:          size,
		ClassBitField: floatMantissaNormal | uint32(signLoc)<<8,
		Properties:    props,
	}, nil
}

// NewIntType returns a little-endian fixed-point type of 1, 2, 4 or 8 bytes.
func NewIntType(size uint32, signed bool) (*DatatypeMessage, error) {
	switch size {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("%w: integer of %d bytes", ErrUnsupportedDatatype, size)
	}

	// Properties: bit offset (2), bit precision (2).
	props := make([]byte, 4)
	binary.LittleEndian.PutUint16(props[2:4], uint16(size*8)) //nolint:gosec // G115: at most 64

	var bitField uint32
	if signed {
		bitField |= fixedSignedBit
	}

	return &DatatypeMessage{
		Class:         DatatypeFixed,
		Version:       1,
		Size:          size,
		ClassBitField: bitField,
		Properties:    props,
	}, nil
}

// NewStringType returns a fixed-length string type of size bytes,
// null-terminated, in the given character set.
func NewStringType(size uint32, charset uint8) (*DatatypeMessage, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: zero-length string", ErrUnsupportedDatatype)
	}

	if charset != CharsetASCII && charset != CharsetUTF8 {
		return nil, fmt.Errorf("%w: character set %d", ErrUnsupportedDatatype, charset)
	}

	return &DatatypeMessage{
		Class:         DatatypeString,
		Version:       1,
		Size:          size,
		ClassBitField: uint32(PadNullTerminate) | uint32(charset)<<4,
	}, nil
}

// NewEnumType returns a version 3 enumerated type over an integer base.
// Members keep their declaration order.
func NewEnumType(base *DatatypeMessage, members []EnumMember) (*DatatypeMessage, error) {
	if base == nil || base.Class != DatatypeFixed {
		return nil, fmt.Errorf("%w: enum base must be an integer type", ErrUnsupportedDatatype)
	}

	if len(members) == 0 || len(members) > 0xFFFF {
		return nil, fmt.Errorf("%w: enum with %d members", ErrUnsupportedDatatype, len(members))
	}

	names := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.Name == "" || bytes.IndexByte([]byte(m.Name), 0) >= 0 {
			return nil, fmt.Errorf("%w: invalid enum member name %q", ErrUnsupportedDatatype, m.Name)
		}
		if _, dup := names[m.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate enum member %q", ErrUnsupportedDatatype, m.Name)
		}
		names[m.Name] = struct{}{}
	}

	return &DatatypeMessage{
		Class:         DatatypeEnum,
		Version:       3,
		Size:          base.Size,
		ClassBitField: uint32(len(members)), //nolint:gosec // G115: checked above
		Base:          base,
		Members:       append([]EnumMember(nil), members...),
	}, nil
}

// Encode serializes the datatype message.
//
// Bytes 0-3 pack class (bits 0-3), version (bits 4-7) and the 24-bit class
// bit field; bytes 4-7 hold the element size; properties follow.
func (dt *DatatypeMessage) Encode() ([]byte, error) {
	props := dt.Properties
	if dt.Class == DatatypeEnum {
		var err error
		props, err = dt.encodeEnumProperties()
		if err != nil {
			return nil, err
		}
	}

	buf := make([]byte, datatypeHeaderSize, datatypeHeaderSize+len(props))
	classAndVersion := uint32(dt.Class)&0x0F | uint32(dt.Version&0x0F)<<4 | (dt.ClassBitField&0x00FFFFFF)<<8
	binary.LittleEndian.PutUint32(buf[0:4], classAndVersion)
	binary.LittleEndian.PutUint32(buf[4:8], dt.Size)
	return append(buf, props...), nil
}

func (dt *DatatypeMessage) encodeEnumProperties() ([]byte, error) {
	if dt.Base == nil {
		return nil, fmt.Errorf("%w: enum without base type", ErrUnsupportedDatatype)
	}

	props, err := dt.Base.Encode()
	if err != nil {
		return nil, fmt.Errorf("enum base type: %w", err)
	}

	// Names: null-terminated, padded to a multiple of 8 bytes before version 3.
	for _, m := range dt.Members {
		props = append(props, m.Name...)
		props = append(props, make([]byte, enumNameSize(len(m.Name), dt.Version)-len(m.Name))...)
	}

	for _, m := range dt.Members {
		value, err := EncodeInteger(m.Value, dt.Base)
		if err != nil {
			return nil, fmt.Errorf("enum member %q: %w", m.Name, err)
		}
		props = append(props, value...)
	}

	return props, nil
}

// ParseDatatypeMessage parses a datatype message from header message data.
func ParseDatatypeMessage(data []byte) (*DatatypeMessage, error) {
	dt, _, err := parseDatatype(data)
	return dt, err
}

// parseDatatype decodes one datatype and returns the number of bytes it
// occupies, so that nested base types can be skipped.
func parseDatatype(data []byte) (*DatatypeMessage, int, error) {
	if len(data) < datatypeHeaderSize {
		return nil, 0, errors.New("datatype message too short")
	}

	classAndVersion := binary.LittleEndian.Uint32(data[0:4])
	dt := &DatatypeMessage{
		//nolint:gosec // G115: HDF5 binary format unpacking
		Class: DatatypeClass(classAndVersion & 0x0F),
		//nolint:gosec // G115: HDF5 binary format unpacking
		Version:       uint8((classAndVersion >> 4) & 0x0F),
		ClassBitField: (classAndVersion >> 8) & 0x00FFFFFF,
		Size:          binary.LittleEndian.Uint32(data[4:8]),
	}

	var propLen int
	switch dt.Class {
	case DatatypeFixed:
		propLen = 4
	case DatatypeFloat:
		propLen = 12
	case DatatypeString:
		propLen = 0
	case DatatypeEnum:
		n, err := dt.parseEnumProperties(data[datatypeHeaderSize:])
		if err != nil {
			return nil, 0, err
		}
		dt.Properties = data[datatypeHeaderSize : datatypeHeaderSize+n]
		return dt, datatypeHeaderSize + n, nil
	default:
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedDatatype, dt.Class)
	}

	if len(data) < datatypeHeaderSize+propLen {
		return nil, 0, fmt.Errorf("%s datatype properties truncated", dt.Class)
	}

	dt.Properties = data[datatypeHeaderSize : datatypeHeaderSize+propLen]
	return dt, datatypeHeaderSize + propLen, nil
}

func (dt *DatatypeMessage) parseEnumProperties(props []byte) (int, error) {
	base, offset, err := parseDatatype(props)
	if err != nil {
		return 0, fmt.Errorf("enum base type: %w", err)
	}
	if base.Class != DatatypeFixed {
		return 0, fmt.Errorf("%w: enum base %s", ErrUnsupportedDatatype, base.Class)
	}
	dt.Base = base

	count := int(dt.ClassBitField & 0xFFFF)
	names := make([]string, count)
	for i := range names {
		end := bytes.IndexByte(props[offset:], 0)
		if end < 0 {
			return 0, errors.New("enum member name not terminated")
		}
		names[i] = string(props[offset : offset+end])
		offset += enumNameSize(end, dt.Version)
		if offset > len(props) {
			return 0, errors.New("enum member names truncated")
		}
	}

	size := int(base.Size)
	if len(props) < offset+count*size {
		return 0, errors.New("enum member values truncated")
	}

	dt.Members = make([]EnumMember, count)
	for i, name := range names {
		value, err := DecodeInteger(props[offset:offset+size], base)
		if err != nil {
			return 0, err
		}
		dt.Members[i] = EnumMember{Name: name, Value: value}
		offset += size
	}

	return offset, nil
}

// enumNameSize is the encoded size of a member name of nameLen bytes: the
// name plus its null terminator, padded to a multiple of 8 before version 3.
func enumNameSize(nameLen int, version uint8) int {
	n := nameLen + 1
	if version < 3 && n%8 != 0 {
		n += 8 - n%8
	}
	return n
}

// IsSigned reports whether a fixed-point type is two's complement signed.
func (dt *DatatypeMessage) IsSigned() bool {
	return dt.Class == DatatypeFixed && dt.ClassBitField&fixedSignedBit != 0
}

// IsFloat32 reports whether the type is a 4-byte float.
func (dt *DatatypeMessage) IsFloat32() bool {
	return dt.Class == DatatypeFloat && dt.Size == 4
}

// IsFloat64 reports whether the type is an 8-byte float.
func (dt *DatatypeMessage) IsFloat64() bool {
	return dt.Class == DatatypeFloat && dt.Size == 8
}

// IsInt32 reports whether the type is a signed 4-byte integer.
func (dt *DatatypeMessage) IsInt32() bool {
	return dt.IsSigned() && dt.Size == 4
}

// IsInt64 reports whether the type is a signed 8-byte integer.
func (dt *DatatypeMessage) IsInt64() bool {
	return dt.IsSigned() && dt.Size == 8
}

// Charset returns the character set of a string type.
func (dt *DatatypeMessage) Charset() uint8 {
	//nolint:gosec // G115: 4-bit field
	return uint8((dt.ClassBitField >> 4) & 0x0F)
}

// Padding returns the padding type of a string type.
func (dt *DatatypeMessage) Padding() uint8 {
	//nolint:gosec // G115: 4-bit field
	return uint8(dt.ClassBitField & 0x0F)
}

// String returns a short description such as "int32" or "enum(int32)".
func (dt *DatatypeMessage) String() string {
	switch dt.Class {
	case DatatypeFixed:
		if dt.IsSigned() {
			return fmt.Sprintf("int%d", dt.Size*8)
		}
		return fmt.Sprintf("uint%d", dt.Size*8)
	case DatatypeFloat:
		return fmt.Sprintf("float%d", dt.Size*8)
	case DatatypeString:
		charset := "ascii"
		if dt.Charset() == CharsetUTF8 {
			charset = "utf-8"
		}
		return fmt.Sprintf("string[%d, %s]", dt.Size, charset)
	case DatatypeEnum:
		if dt.Base != nil {
			return fmt.Sprintf("enum(%s)", dt.Base)
		}
		return "enum"
	default:
		return dt.Class.String()
	}
}
