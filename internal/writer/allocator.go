// Package writer provides the file writing layer of the fixture encoder.
//
// Space is handed out strictly at end of file, so a given sequence of
// allocations always produces the same addresses. The builder relies on
// this to make repeated runs byte-identical.
package writer

import (
	"fmt"
	"sort"
)

// AllocatedBlock tracks an allocated region of the file.
type AllocatedBlock struct {
	Offset uint64 // Starting address in file
	Size   uint64 // Size of allocated block in bytes
	Label  string // What the block holds, e.g. "data /simple/int_2"
}

// End returns the first address past the block.
func (b AllocatedBlock) End() uint64 {
	return b.Offset + b.Size
}

// Allocator manages space allocation in the output file.
//
// Strategy:
//   - End-of-file allocation, no freed space reuse
//   - Every allocation is recorded so the layout can be checked before the
//     superblock is committed
//
// Not thread-safe.
type Allocator struct {
	blocks     []AllocatedBlock
	nextOffset uint64
}

// NewAllocator creates an allocator whose first block starts at
// initialOffset (the superblock size for a fresh file).
func NewAllocator(initialOffset uint64) *Allocator {
	return &Allocator{
		blocks:     make([]AllocatedBlock, 0, 16),
		nextOffset: initialOffset,
	}
}

// Allocate reserves size bytes at the current end of file and returns
// their address.
func (a *Allocator) Allocate(size uint64, label string) (uint64, error) {
	if size == 0 {
		return 0, fmt.Errorf("cannot allocate zero bytes for %q", label)
	}

	addr := a.nextOffset
	if addr+size < addr {
		return 0, fmt.Errorf("allocation of %d bytes at %d overflows the address space", size, addr)
	}

	a.blocks = append(a.blocks, AllocatedBlock{
		Offset: addr,
		Size:   size,
		Label:  label,
	})
	a.nextOffset = addr + size

	return addr, nil
}

// EndOfFile returns the address where the next allocation would occur.
// It is also the logical file size.
func (a *Allocator) EndOfFile() uint64 {
	return a.nextOffset
}

// Blocks returns a copy of all allocated blocks, sorted by offset.
func (a *Allocator) Blocks() []AllocatedBlock {
	blocks := make([]AllocatedBlock, len(a.blocks))
	copy(blocks, a.blocks)

	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Offset < blocks[j].Offset
	})

	return blocks
}

// ValidateNoOverlaps checks that no allocated blocks overlap.
// Adjacent blocks (touching boundaries) are fine.
func (a *Allocator) ValidateNoOverlaps() error {
	blocks := a.Blocks()

	for i := 0; i < len(blocks)-1; i++ {
		current := blocks[i]
		next := blocks[i+1]

		if current.End() > next.Offset {
			return fmt.Errorf("overlap detected: %q at %d (size %d) overlaps %q at %d",
				current.Label, current.Offset, current.Size, next.Label, next.Offset)
		}
	}

	return nil
}
