package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/scigolib/h5sample/internal/utils"
)

// HDF5 file signature and the superblock layout this package produces.
const (
	Signature = "\x89HDF\r\n\x1a\n"
	Version2  = 2
	Version3  = 3

	// SuperblockSize is the encoded size of a version 2 superblock with
	// 8-byte offsets and lengths. Object allocation starts here.
	SuperblockSize = 48

	// UndefinedAddress marks an absent address field.
	UndefinedAddress = 0xFFFFFFFFFFFFFFFF
)

// Superblock represents the HDF5 file superblock containing file-level metadata.
type Superblock struct {
	Version        uint8
	OffsetSize     uint8
	LengthSize     uint8
	BaseAddress    uint64
	SuperExtension uint64
	EndOfFile      uint64
	RootGroup      uint64
}

// NewSuperblock returns a version 2 superblock pointing at rootGroup.
func NewSuperblock(rootGroup uint64) *Superblock {
	return &Superblock{
		Version:        Version2,
		OffsetSize:     8,
		LengthSize:     8,
		SuperExtension: UndefinedAddress,
		RootGroup:      rootGroup,
	}
}

// WriteTo writes the superblock at offset 0.
//
// Superblock v2 layout (48 bytes):
//
//	Bytes 0-7:   Signature
//	Byte 8:      Version (2)
//	Byte 9:      Size of offsets
//	Byte 10:     Size of lengths
//	Byte 11:     File consistency flags
//	Bytes 12-19: Base address
//	Bytes 20-27: Superblock extension address (UNDEF)
//	Bytes 28-35: End-of-file address
//	Bytes 36-43: Root group object header address
//	Bytes 44-47: Lookup3 checksum of bytes 0-43
func (sb *Superblock) WriteTo(w io.WriterAt, eofAddress uint64) error {
	if sb.Version != Version2 {
		return fmt.Errorf("only superblock version 2 is supported for writing, got version %d", sb.Version)
	}

	if sb.OffsetSize != 8 || sb.LengthSize != 8 {
		return fmt.Errorf("only 8-byte offsets and lengths are supported for writing, got offset=%d, length=%d",
			sb.OffsetSize, sb.LengthSize)
	}

	buf := make([]byte, SuperblockSize)
	copy(buf[0:8], Signature)
	buf[8] = sb.Version
	buf[9] = sb.OffsetSize
	buf[10] = sb.LengthSize
	binary.LittleEndian.PutUint64(buf[12:20], sb.BaseAddress)
	binary.LittleEndian.PutUint64(buf[20:28], sb.SuperExtension)
	binary.LittleEndian.PutUint64(buf[28:36], eofAddress)
	binary.LittleEndian.PutUint64(buf[36:44], sb.RootGroup)
	binary.LittleEndian.PutUint32(buf[44:48], Checksum(buf[0:44]))

	n, err := w.WriteAt(buf, 0)
	if err != nil {
		return fmt.Errorf("failed to write superblock: %w", err)
	}

	if n != SuperblockSize {
		return fmt.Errorf("incomplete superblock write: wrote %d bytes, expected %d", n, SuperblockSize)
	}

	sb.EndOfFile = eofAddress
	return nil
}

// ReadSuperblock reads a version 2 or 3 superblock with 8-byte offsets and
// verifies its checksum.
func ReadSuperblock(r io.ReaderAt) (*Superblock, error) {
	buf := make([]byte, SuperblockSize)

	n, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, utils.WrapError("superblock read failed", err)
	}
	if n < SuperblockSize {
		return nil, errors.New("file too small to contain a superblock")
	}

	if string(buf[:8]) != Signature {
		return nil, errors.New("invalid HDF5 signature")
	}

	version := buf[8]
	if version != Version2 && version != Version3 {
		return nil, fmt.Errorf("unsupported superblock version: %d", version)
	}

	if buf[9] != 8 || buf[10] != 8 {
		return nil, fmt.Errorf("unsupported offset/length sizes: %d/%d", buf[9], buf[10])
	}

	if !VerifyChecksum(buf) {
		return nil, errors.New("superblock checksum mismatch")
	}

	return &Superblock{
		Version:        version,
		OffsetSize:     buf[9],
		LengthSize:     buf[10],
		BaseAddress:    binary.LittleEndian.Uint64(buf[12:20]),
		SuperExtension: binary.LittleEndian.Uint64(buf[20:28]),
		EndOfFile:      binary.LittleEndian.Uint64(buf[28:36]),
		RootGroup:      binary.LittleEndian.Uint64(buf[36:44]),
	}, nil
}
