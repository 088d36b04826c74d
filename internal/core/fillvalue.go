package core

import (
	"errors"
	"fmt"
)

// Space allocation times.
const (
	AllocTimeEarly       uint8 = 1
	AllocTimeLate        uint8 = 2
	AllocTimeIncremental uint8 = 3
)

// FillTimeIfSet writes fill values only when the user defined one.
const FillTimeIfSet uint8 = 2

const fillValueDefinedBit = 0x20

// FillValueMessage is a version 3 fill value message without a defined
// fill value.
type FillValueMessage struct {
	AllocTime uint8
	FillTime  uint8
}

// NewFillValueMessage returns the fill value message matching a layout:
// compact storage is allocated early, contiguous storage late.
func NewFillValueMessage(class DataLayoutClass) *FillValueMessage {
	alloc := AllocTimeLate
	if class == LayoutCompact {
		alloc = AllocTimeEarly
	}
	return &FillValueMessage{AllocTime: alloc, FillTime: FillTimeIfSet}
}

// Encode serializes the message: version (1) and flags (1), where bits 0-1
// hold the allocation time and bits 2-3 the fill write time.
func (fv *FillValueMessage) Encode() []byte {
	return []byte{3, fv.AllocTime&0x03 | (fv.FillTime&0x03)<<2}
}

// ParseFillValueMessage parses a version 3 fill value message.
func ParseFillValueMessage(data []byte) (*FillValueMessage, error) {
	if len(data) < 2 {
		return nil, errors.New("fill value message too short")
	}

	if data[0] != 3 {
		return nil, fmt.Errorf("unsupported fill value version: %d", data[0])
	}

	if data[1]&fillValueDefinedBit != 0 {
		return nil, errors.New("defined fill values are not supported")
	}

	return &FillValueMessage{
		AllocTime: data[1] & 0x03,
		FillTime:  (data[1] >> 2) & 0x03,
	}, nil
}
