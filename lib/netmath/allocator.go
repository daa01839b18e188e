package netmath

import (
	"fmt"
	"math/bits"
)

// Allocator carves contiguous, non-overlapping subnets out of a base block.
// Allocation order is the call order, so the resulting layout is stable and
// deterministic for a given sequence of requests.
type Allocator struct {
	base      Block
	allocated []Block
	// cursor is the next unallocated address. When it passes the end of the
	// base block it equals BroadcastAddr()+1, which may wrap to 0 only for
	// 255.255.255.255; exhausted tracks that edge explicitly.
	cursor    uint32
	exhausted bool
}

// NewAllocator returns an Allocator over the given base block.
func NewAllocator(base Block) *Allocator {
	return &Allocator{base: base, cursor: base.NetworkAddr()}
}

// Allocated returns the blocks handed out so far, in allocation order.
func (a *Allocator) Allocated() []Block {
	out := make([]Block, len(a.allocated))
	copy(out, a.allocated)
	return out
}

// Remaining returns the number of addresses not yet allocated. Alignment
// padding skipped between blocks of different sizes counts as allocated.
func (a *Allocator) Remaining() uint64 {
	if a.exhausted {
		return 0
	}
	return uint64(a.base.BroadcastAddr()-a.cursor) + 1
}

// Allocate carves the next block with the requested prefix length. The cursor
// is first aligned up to the block's natural boundary; it errors when the
// aligned block no longer fits inside the base block.
func (a *Allocator) Allocate(prefix int) (Block, error) {
	if prefix < a.base.prefix || prefix > 32 {
		return Block{}, fmt.Errorf("%w: /%d does not fit in %s", ErrPrefixTooLong, prefix, a.base)
	}
	if a.exhausted {
		return Block{}, fmt.Errorf("%w: %s fully allocated", ErrSpaceExhausted, a.base)
	}
	if prefix == 0 {
		// Only satisfiable from an untouched 0.0.0.0/0 base.
		if a.cursor != 0 || len(a.allocated) > 0 {
			return Block{}, fmt.Errorf("%w: cannot fit /0 in %s", ErrSpaceExhausted, a.base)
		}
		a.exhausted = true
		a.allocated = append(a.allocated, a.base)
		return a.base, nil
	}
	size := uint32(1) << (32 - prefix)
	// Align up to a multiple of the block size.
	start := a.cursor
	if rem := start % size; rem != 0 {
		start += size - rem
		if start < a.cursor { // wrapped
			return Block{}, fmt.Errorf("%w: cannot fit /%d in %s", ErrSpaceExhausted, prefix, a.base)
		}
	}
	end := uint64(start) + uint64(size) - 1
	if end > uint64(a.base.BroadcastAddr()) {
		return Block{}, fmt.Errorf("%w: cannot fit /%d in %s (remaining %d addresses)",
			ErrSpaceExhausted, prefix, a.base, a.Remaining())
	}
	block := Block{addr: start, prefix: prefix}
	a.allocated = append(a.allocated, block)
	if end == uint64(a.base.BroadcastAddr()) || uint32(end) == ^uint32(0) {
		a.exhausted = true
	} else {
		a.cursor = uint32(end) + 1
	}
	return block, nil
}

// AllocateCount carves count consecutive blocks of the same size.
func (a *Allocator) AllocateCount(prefix, count int) ([]Block, error) {
	out := make([]Block, 0, count)
	for i := 0; i < count; i++ {
		b, err := a.Allocate(prefix)
		if err != nil {
			return nil, fmt.Errorf("block %d of %d: %w", i+1, count, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// SplitRemaining carves count equal-sized blocks out of the remaining space,
// using the largest power-of-two size that lets all count blocks fit.
func (a *Allocator) SplitRemaining(count int) ([]Block, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: cannot split into %d blocks", ErrSpaceExhausted, count)
	}
	per := a.Remaining() / uint64(count)
	if per == 0 {
		return nil, fmt.Errorf("%w: %d addresses left for %d blocks", ErrSpaceExhausted, a.Remaining(), count)
	}
	// Round the per-block share down to a power of two.
	prefix := 32 - (63 - bits.LeadingZeros64(per))
	if prefix < a.base.prefix {
		prefix = a.base.prefix
	}
	return a.AllocateCount(prefix, count)
}
