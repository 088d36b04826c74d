package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/scigolib/h5sample/internal/utils"
)

// MessageType identifies the type of message in an object header.
type MessageType uint16

// Message types.
const (
	MsgNil         MessageType = 0
	MsgDataspace   MessageType = 1
	MsgLinkInfo    MessageType = 2
	MsgDatatype    MessageType = 3
	MsgFillValue   MessageType = 5
	MsgLinkMessage MessageType = 6
	MsgDataLayout  MessageType = 8
	MsgGroupInfo   MessageType = 10
)

// Header message flags.
const (
	// MsgFlagConstant marks a message whose value never changes.
	MsgFlagConstant uint8 = 0x01
)

// Object header v2 prefix flags.
const (
	ohdrChunkSizeMask    = 0x03
	ohdrTrackAttrOrder   = 0x04
	ohdrAttrPhaseChange  = 0x10
	ohdrStoreTimes       = 0x20
	ohdrMessageHeaderLen = 4 // type (1) + size (2) + flags (1)
)

// ObjectType is the kind of object an object header describes.
type ObjectType uint8

// Object types.
const (
	ObjectTypeUnknown ObjectType = iota
	ObjectTypeGroup
	ObjectTypeDataset
)

func (ot ObjectType) String() string {
	switch ot {
	case ObjectTypeGroup:
		return "group"
	case ObjectTypeDataset:
		return "dataset"
	default:
		return "unknown"
	}
}

// HeaderMessage is one message inside an object header.
type HeaderMessage struct {
	Type  MessageType
	Flags uint8
	Data  []byte
}

// ObjectHeaderWriter builds a version 2 object header without timestamps.
type ObjectHeaderWriter struct {
	Messages []HeaderMessage
}

// NewGroupHeader returns the header of a group that stores its children
// as compact hard links, in the order given.
func NewGroupHeader(links []*LinkMessage) (*ObjectHeaderWriter, error) {
	ohw := &ObjectHeaderWriter{}
	ohw.Add(MsgLinkInfo, 0, NewCompactLinkInfo().Encode())
	ohw.Add(MsgGroupInfo, 0, EncodeGroupInfoMessage())

	for _, link := range links {
		data, err := link.Encode()
		if err != nil {
			return nil, utils.WrapPathError("link encode failed", link.Name, err)
		}
		ohw.Add(MsgLinkMessage, 0, data)
	}

	return ohw, nil
}

// NewDatasetHeader returns the header of a dataset. The datatype and fill
// value messages are marked constant.
func NewDatasetHeader(dt *DatatypeMessage, ds *DataspaceMessage, fv *FillValueMessage, layout *DataLayoutMessage) (*ObjectHeaderWriter, error) {
	dtData, err := dt.Encode()
	if err != nil {
		return nil, fmt.Errorf("datatype: %w", err)
	}

	dsData, err := ds.Encode()
	if err != nil {
		return nil, fmt.Errorf("dataspace: %w", err)
	}

	layoutData, err := layout.Encode()
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	ohw := &ObjectHeaderWriter{}
	ohw.Add(MsgDataspace, 0, dsData)
	ohw.Add(MsgDatatype, MsgFlagConstant, dtData)
	ohw.Add(MsgFillValue, MsgFlagConstant, fv.Encode())
	ohw.Add(MsgDataLayout, 0, layoutData)
	return ohw, nil
}

// Add appends a message.
func (ohw *ObjectHeaderWriter) Add(msgType MessageType, flags uint8, data []byte) {
	ohw.Messages = append(ohw.Messages, HeaderMessage{Type: msgType, Flags: flags, Data: data})
}

// chunkSize is the byte length of all encoded messages.
func (ohw *ObjectHeaderWriter) chunkSize() uint64 {
	var n uint64
	for _, msg := range ohw.Messages {
		n += ohdrMessageHeaderLen + uint64(len(msg.Data))
	}
	return n
}

// chunkSizeWidth returns the flags value (bits 0-1) and byte width of the
// "size of chunk 0" field.
func chunkSizeWidth(size uint64) (uint8, int) {
	switch {
	case size <= 0xFF:
		return 0, 1
	case size <= 0xFFFF:
		return 1, 2
	case size <= 0xFFFFFFFF:
		return 2, 4
	default:
		return 3, 8
	}
}

// Size returns the total encoded size including prefix and checksum.
func (ohw *ObjectHeaderWriter) Size() uint64 {
	chunk := ohw.chunkSize()
	_, width := chunkSizeWidth(chunk)
	return 4 + 1 + 1 + uint64(width) + chunk + 4
}

// Encode serializes the header.
//
// Object Header v2 format:
//   - Signature "OHDR" (4 bytes)
//   - Version 2 (1 byte)
//   - Flags (1 byte), bits 0-1 select the chunk size field width
//   - Size of chunk 0 (1, 2, 4 or 8 bytes)
//   - Messages: type (1), size (2), flags (1), data
//   - Lookup3 checksum of everything above (4 bytes)
func (ohw *ObjectHeaderWriter) Encode() ([]byte, error) {
	for _, msg := range ohw.Messages {
		if len(msg.Data) > 0xFFFF {
			return nil, fmt.Errorf("message type %d too large: %d bytes", msg.Type, len(msg.Data))
		}
	}

	chunk := ohw.chunkSize()
	flags, width := chunkSizeWidth(chunk)

	buf := make([]byte, 0, ohw.Size())
	buf = append(buf, "OHDR"...)
	buf = append(buf, 2, flags)
	buf = appendUint(buf, chunk, width)

	for _, msg := range ohw.Messages {
		//nolint:gosec // G115: message types in this package fit one byte
		buf = append(buf, byte(msg.Type))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(msg.Data))) //nolint:gosec // G115: checked above
		buf = append(buf, msg.Flags)
		buf = append(buf, msg.Data...)
	}

	return binary.LittleEndian.AppendUint32(buf, Checksum(buf)), nil
}

// WriteTo writes the encoded header at address and returns its size.
func (ohw *ObjectHeaderWriter) WriteTo(w io.WriterAt, address uint64) (uint64, error) {
	buf, err := ohw.Encode()
	if err != nil {
		return 0, err
	}

	//nolint:gosec // G115: addresses come from the allocator
	n, err := w.WriteAt(buf, int64(address))
	if err != nil {
		return 0, fmt.Errorf("failed to write object header at %d: %w", address, err)
	}

	if n != len(buf) {
		return 0, fmt.Errorf("incomplete object header write: wrote %d of %d bytes", n, len(buf))
	}

	return uint64(n), nil
}

// ObjectHeader is a decoded version 2 object header.
type ObjectHeader struct {
	Address  uint64
	Version  uint8
	Flags    uint8
	Type     ObjectType
	Messages []HeaderMessage
}

// Find returns the first message of the given type, or nil.
func (oh *ObjectHeader) Find(msgType MessageType) *HeaderMessage {
	for i := range oh.Messages {
		if oh.Messages[i].Type == msgType {
			return &oh.Messages[i]
		}
	}
	return nil
}

// FindAll returns every message of the given type in header order.
func (oh *ObjectHeader) FindAll(msgType MessageType) []HeaderMessage {
	var out []HeaderMessage
	for _, msg := range oh.Messages {
		if msg.Type == msgType {
			out = append(out, msg)
		}
	}
	return out
}

// ReadObjectHeader reads a single-chunk version 2 object header at address
// and verifies its checksum.
func ReadObjectHeader(r io.ReaderAt, address uint64) (*ObjectHeader, error) {
	prefix := make([]byte, 6)
	//nolint:gosec // G115: file offsets fit int64
	if _, err := r.ReadAt(prefix, int64(address)); err != nil {
		return nil, utils.WrapError("object header read failed", err)
	}

	if string(prefix[:4]) != "OHDR" {
		return nil, fmt.Errorf("invalid object header signature at %d: %q", address, prefix[:4])
	}

	if prefix[4] != 2 {
		return nil, fmt.Errorf("unsupported object header version: %d", prefix[4])
	}

	flags := prefix[5]
	fixed := 6
	if flags&ohdrStoreTimes != 0 {
		fixed += 16
	}
	if flags&ohdrAttrPhaseChange != 0 {
		fixed += 4
	}
	width := 1 << (flags & ohdrChunkSizeMask)

	head := make([]byte, fixed+width)
	//nolint:gosec // G115: file offsets fit int64
	if _, err := r.ReadAt(head, int64(address)); err != nil {
		return nil, utils.WrapError("object header read failed", err)
	}

	chunk := readUint(head[fixed:], width)
	if chunk > 1<<24 {
		return nil, fmt.Errorf("object header chunk too large: %d", chunk)
	}

	block := make([]byte, uint64(len(head))+chunk+4)
	//nolint:gosec // G115: file offsets fit int64
	if _, err := r.ReadAt(block, int64(address)); err != nil {
		return nil, utils.WrapError("object header read failed", err)
	}

	if !VerifyChecksum(block) {
		return nil, fmt.Errorf("object header checksum mismatch at %d", address)
	}

	messages, err := parseMessages(block[len(head):len(block)-4], flags)
	if err != nil {
		return nil, err
	}

	oh := &ObjectHeader{
		Address:  address,
		Version:  prefix[4],
		Flags:    flags,
		Messages: messages,
	}
	oh.Type = determineObjectType(messages)
	return oh, nil
}

func parseMessages(chunk []byte, flags uint8) ([]HeaderMessage, error) {
	headerLen := ohdrMessageHeaderLen
	if flags&ohdrTrackAttrOrder != 0 {
		headerLen += 2
	}

	var messages []HeaderMessage
	offset := 0
	// A trailing gap smaller than a message header is allowed.
	for len(chunk)-offset >= headerLen {
		msgType := MessageType(chunk[offset])
		size := int(binary.LittleEndian.Uint16(chunk[offset+1 : offset+3]))
		msgFlags := chunk[offset+3]
		offset += headerLen

		if offset+size > len(chunk) {
			return nil, errors.New("object header message exceeds chunk")
		}

		if msgType != MsgNil {
			messages = append(messages, HeaderMessage{
				Type:  msgType,
				Flags: msgFlags,
				Data:  chunk[offset : offset+size],
			})
		}
		offset += size
	}

	return messages, nil
}

func determineObjectType(messages []HeaderMessage) ObjectType {
	for _, msg := range messages {
		switch msg.Type {
		case MsgLinkInfo, MsgLinkMessage, MsgGroupInfo:
			return ObjectTypeGroup
		case MsgDataLayout, MsgDatatype:
			return ObjectTypeDataset
		}
	}
	return ObjectTypeUnknown
}

func appendUint(buf []byte, v uint64, width int) []byte {
	for i := 0; i < width; i++ {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}

func readUint(data []byte, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(data[i]) << (8 * i)
	}
	return v
}
