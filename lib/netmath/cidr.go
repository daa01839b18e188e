// Package netmath implements the IPv4/IPv6 address arithmetic behind subnet
// allocation: CIDR parsing, address/integer conversions, overlap detection,
// and deterministic partitioning of a VPC block across availability zones
// and subnet groups.
package netmath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// --- Sentinel Errors ---
var (
	ErrInvalidCidr    = errors.New("invalid CIDR notation")
	ErrInvalidAddress = errors.New("invalid IPv4 address")
	ErrNotCanonical   = errors.New("CIDR has host bits set")
	ErrSpaceExhausted = errors.New("address space exhausted")
	ErrPrefixTooLong  = errors.New("prefix length out of range")
	ErrBlockTooSmall  = errors.New("block too small for an AWS subnet")
)

// MaxSubnetPrefix is the longest prefix AWS accepts for a VPC subnet (/28).
const MaxSubnetPrefix = 28

// Block is a canonical IPv4 CIDR block. The zero value is 0.0.0.0/0.
type Block struct {
	addr   uint32
	prefix int
}

// ParseAddr converts a dotted-quad IPv4 address into its uint32 form.
func ParseAddr(s string) (uint32, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	var addr uint32
	for _, p := range parts {
		octet, err := strconv.Atoi(p)
		if err != nil || octet < 0 || octet > 255 || (len(p) > 1 && p[0] == '0') {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		addr = addr<<8 | uint32(octet)
	}
	return addr, nil
}

// FormatAddr renders a uint32 as a dotted-quad IPv4 address.
func FormatAddr(addr uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", addr>>24, addr>>16&0xff, addr>>8&0xff, addr&0xff)
}

// mask returns the network mask for a prefix length as a uint32.
func mask(prefix int) uint32 {
	if prefix == 0 {
		return 0
	}
	return ^uint32(0) << (32 - prefix)
}

// NewBlock builds a Block from a network address and prefix length.
// The address must be the canonical network address of the block.
func NewBlock(addr uint32, prefix int) (Block, error) {
	if prefix < 0 || prefix > 32 {
		return Block{}, fmt.Errorf("%w: /%d", ErrPrefixTooLong, prefix)
	}
	if addr&^mask(prefix) != 0 {
		return Block{}, fmt.Errorf("%w: %s/%d", ErrNotCanonical, FormatAddr(addr), prefix)
	}
	return Block{addr: addr, prefix: prefix}, nil
}

// ParseBlock parses CIDR notation (e.g. "10.0.0.0/16") into a Block.
// Non-canonical input such as "10.0.0.1/16" is rejected rather than truncated,
// since a silently adjusted VPC CIDR almost always hides a typo.
func ParseBlock(s string) (Block, error) {
	addrPart, prefixPart, found := strings.Cut(s, "/")
	if !found {
		return Block{}, fmt.Errorf("%w: %q", ErrInvalidCidr, s)
	}
	addr, err := ParseAddr(addrPart)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %q", ErrInvalidCidr, s)
	}
	prefix, err := strconv.Atoi(prefixPart)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %q", ErrInvalidCidr, s)
	}
	return NewBlock(addr, prefix)
}

// MustParseBlock is ParseBlock for known-good literals; it panics on error.
func MustParseBlock(s string) Block {
	b, err := ParseBlock(s)
	if err != nil {
		panic(err)
	}
	return b
}

// String renders the block in CIDR notation.
func (b Block) String() string {
	return fmt.Sprintf("%s/%d", FormatAddr(b.addr), b.prefix)
}

// Prefix returns the prefix length.
func (b Block) Prefix() int { return b.prefix }

// NetworkAddr returns the first address of the block.
func (b Block) NetworkAddr() uint32 { return b.addr }

// BroadcastAddr returns the last address of the block.
func (b Block) BroadcastAddr() uint32 {
	return b.addr | ^mask(b.prefix)
}

// AddressCount returns the total number of addresses in the block.
func (b Block) AddressCount() uint64 {
	return uint64(1) << (32 - b.prefix)
}

// ContainsAddr reports whether the address falls inside the block.
func (b Block) ContainsAddr(addr uint32) bool {
	return addr&mask(b.prefix) == b.addr
}

// Contains reports whether o lies entirely within b.
func (b Block) Contains(o Block) bool {
	return o.prefix >= b.prefix && b.ContainsAddr(o.addr)
}

// Overlaps reports whether the two blocks share any address.
func (b Block) Overlaps(o Block) bool {
	return b.ContainsAddr(o.addr) || o.ContainsAddr(b.addr)
}

// Next returns the adjacent block of the same size.
func (b Block) Next() (Block, error) {
	last := b.BroadcastAddr()
	if last == ^uint32(0) {
		return Block{}, fmt.Errorf("%w: no block after %s", ErrSpaceExhausted, b)
	}
	return Block{addr: last + 1, prefix: b.prefix}, nil
}

// AnyOverlap reports whether any pair of the given blocks overlaps.
func AnyOverlap(blocks []Block) bool {
	for i := range blocks {
		for j := i + 1; j < len(blocks); j++ {
			if blocks[i].Overlaps(blocks[j]) {
				return true
			}
		}
	}
	return false
}
