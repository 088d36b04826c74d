package core

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Link message flags.
const (
	linkNameLengthSizeMask = 0x03
	linkCreationOrderFlag  = 0x04
	linkTypeFieldFlag      = 0x08
	linkCharsetFieldFlag   = 0x10
)

// LinkInfoMessage describes how a group stores its links. Only compact
// storage is written: no fractal heap and no name index.
type LinkInfoMessage struct {
	Flags            uint8
	FractalHeapAddr  uint64
	NameBTreeAddress uint64
}

// NewCompactLinkInfo returns a link info message for compact storage.
func NewCompactLinkInfo() *LinkInfoMessage {
	return &LinkInfoMessage{
		FractalHeapAddr:  UndefinedAddress,
		NameBTreeAddress: UndefinedAddress,
	}
}

// Encode serializes the message: version 0, flags, heap address, name
// B-tree address (18 bytes with no optional fields).
func (lim *LinkInfoMessage) Encode() []byte {
	buf := []byte{0, lim.Flags}
	buf = binary.LittleEndian.AppendUint64(buf, lim.FractalHeapAddr)
	return binary.LittleEndian.AppendUint64(buf, lim.NameBTreeAddress)
}

// ParseLinkInfoMessage parses a version 0 link info message.
func ParseLinkInfoMessage(data []byte) (*LinkInfoMessage, error) {
	if len(data) < 2 {
		return nil, errors.New("link info message too short")
	}

	if data[0] != 0 {
		return nil, fmt.Errorf("unsupported link info version: %d", data[0])
	}

	lim := &LinkInfoMessage{Flags: data[1]}
	offset := 2
	if lim.Flags&0x01 != 0 {
		offset += 8 // maximum creation index
	}

	if len(data) < offset+16 {
		return nil, errors.New("link info message truncated")
	}

	lim.FractalHeapAddr = binary.LittleEndian.Uint64(data[offset : offset+8])
	lim.NameBTreeAddress = binary.LittleEndian.Uint64(data[offset+8 : offset+16])
	return lim, nil
}

// IsCompact reports whether links live in the object header.
func (lim *LinkInfoMessage) IsCompact() bool {
	return lim.FractalHeapAddr == UndefinedAddress
}

// EncodeGroupInfoMessage returns a version 0 group info message with
// default link phase change and entry estimates.
func EncodeGroupInfoMessage() []byte {
	return []byte{0, 0}
}

// LinkMessage is a hard link from a group to an object header.
type LinkMessage struct {
	Name    string
	Address uint64
}

// Encode serializes a version 1 hard link. The name length field is as
// narrow as the name allows; link type, creation order and character set
// are omitted (hard link, ASCII).
func (lm *LinkMessage) Encode() ([]byte, error) {
	if lm.Name == "" {
		return nil, errors.New("link name cannot be empty")
	}

	nameLen := uint64(len(lm.Name))
	var sizeFlag uint8
	var width int
	switch {
	case nameLen <= 0xFF:
		sizeFlag, width = 0, 1
	case nameLen <= 0xFFFF:
		sizeFlag, width = 1, 2
	default:
		sizeFlag, width = 2, 4
	}

	buf := []byte{1, sizeFlag}
	buf = appendUint(buf, nameLen, width)
	buf = append(buf, lm.Name...)
	return binary.LittleEndian.AppendUint64(buf, lm.Address), nil
}

// ParseLinkMessage parses a version 1 link message. Only hard links are
// accepted.
func ParseLinkMessage(data []byte) (*LinkMessage, error) {
	if len(data) < 2 {
		return nil, errors.New("link message too short")
	}

	if data[0] != 1 {
		return nil, fmt.Errorf("unsupported link message version: %d", data[0])
	}

	flags := data[1]
	offset := 2

	if flags&linkTypeFieldFlag != 0 {
		if len(data) <= offset {
			return nil, errors.New("link message truncated")
		}
		if data[offset] != 0 {
			return nil, fmt.Errorf("unsupported link type: %d", data[offset])
		}
		offset++
	}
	if flags&linkCreationOrderFlag != 0 {
		offset += 8
	}
	if flags&linkCharsetFieldFlag != 0 {
		offset++
	}

	width := 1 << (flags & linkNameLengthSizeMask)
	if len(data) < offset+width {
		return nil, errors.New("link message truncated")
	}
	nameLen := int(readUint(data[offset:], width)) //nolint:gosec // G115: bounded by message size below
	offset += width

	if nameLen <= 0 || len(data) < offset+nameLen+8 {
		return nil, errors.New("link message truncated")
	}

	return &LinkMessage{
		Name:    string(data[offset : offset+nameLen]),
		Address: binary.LittleEndian.Uint64(data[offset+nameLen : offset+nameLen+8]),
	}, nil
}
