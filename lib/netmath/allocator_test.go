package netmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorSequential(t *testing.T) {
	alloc := NewAllocator(MustParseBlock("10.0.0.0/16"))

	a, err := alloc.Allocate(18)
	require.NoError(t, err)
	b, err := alloc.Allocate(18)
	require.NoError(t, err)
	c, err := alloc.Allocate(18)
	require.NoError(t, err)
	d, err := alloc.Allocate(18)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.0/18", a.String())
	assert.Equal(t, "10.0.64.0/18", b.String())
	assert.Equal(t, "10.0.128.0/18", c.String())
	assert.Equal(t, "10.0.192.0/18", d.String())

	_, err = alloc.Allocate(28)
	assert.ErrorIs(t, err, ErrSpaceExhausted)
	assert.Zero(t, alloc.Remaining())
}

func TestAllocatorMixedSizesAlign(t *testing.T) {
	alloc := NewAllocator(MustParseBlock("10.0.0.0/16"))

	small, err := alloc.Allocate(24)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/24", small.String())

	// A /18 must start on a /18 boundary; the allocator skips ahead.
	big, err := alloc.Allocate(18)
	require.NoError(t, err)
	assert.Equal(t, "10.0.64.0/18", big.String())

	// The skipped range is treated as spent, not reused.
	next, err := alloc.Allocate(24)
	require.NoError(t, err)
	assert.Equal(t, "10.0.128.0/24", next.String())

	assert.False(t, AnyOverlap(alloc.Allocated()))
}

func TestAllocatorRejectsOversizedRequest(t *testing.T) {
	alloc := NewAllocator(MustParseBlock("10.0.0.0/24"))
	_, err := alloc.Allocate(16)
	assert.ErrorIs(t, err, ErrPrefixTooLong)
}

func TestAllocateCount(t *testing.T) {
	alloc := NewAllocator(MustParseBlock("192.168.0.0/24"))
	blocks, err := alloc.AllocateCount(26, 4)
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	assert.Equal(t, "192.168.0.192/26", blocks[3].String())

	_, err = alloc.AllocateCount(26, 1)
	assert.ErrorIs(t, err, ErrSpaceExhausted)
}

func TestSplitRemaining(t *testing.T) {
	alloc := NewAllocator(MustParseBlock("10.0.0.0/16"))
	_, err := alloc.Allocate(17)
	require.NoError(t, err)

	// 32768 addresses left, three blocks → /19 each (8192), one /19 spare.
	blocks, err := alloc.SplitRemaining(3)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	for _, b := range blocks {
		assert.Equal(t, 19, b.Prefix())
	}
	assert.Equal(t, "10.0.128.0/19", blocks[0].String())
	assert.Equal(t, uint64(8192), alloc.Remaining())
}

func TestSplitRemainingExhausted(t *testing.T) {
	alloc := NewAllocator(MustParseBlock("10.0.0.0/28"))
	_, err := alloc.SplitRemaining(32)
	assert.ErrorIs(t, err, ErrSpaceExhausted)
}
