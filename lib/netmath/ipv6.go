package netmath

import (
	"encoding/binary"
	"fmt"
	"net"
)

// Block6 is a canonical IPv6 CIDR block with prefix length at most /64,
// which is the only granularity AWS hands out to VPCs (/56) and subnets
// (/64). Arithmetic runs on the top 64 bits only.
type Block6 struct {
	addr   [16]byte
	prefix int
}

// ParseBlock6 parses IPv6 CIDR notation (e.g. "2001:db8:1234:1a00::/56").
func ParseBlock6(s string) (Block6, error) {
	ip, ipNet, err := net.ParseCIDR(s)
	if err != nil || ip.To4() != nil {
		return Block6{}, fmt.Errorf("%w: %q", ErrInvalidCidr, s)
	}
	prefix, _ := ipNet.Mask.Size()
	if prefix > 64 {
		return Block6{}, fmt.Errorf("%w: /%d (IPv6 blocks are /64 or shorter)", ErrPrefixTooLong, prefix)
	}
	var b Block6
	copy(b.addr[:], ip.To16())
	b.prefix = prefix
	if b.hi()&^hiMask(prefix) != 0 || b.lo() != 0 {
		return Block6{}, fmt.Errorf("%w: %q", ErrNotCanonical, s)
	}
	return b, nil
}

// String renders the block in CIDR notation.
func (b Block6) String() string {
	return fmt.Sprintf("%s/%d", net.IP(b.addr[:]).String(), b.prefix)
}

// Prefix returns the prefix length.
func (b Block6) Prefix() int { return b.prefix }

func (b Block6) hi() uint64 { return binary.BigEndian.Uint64(b.addr[:8]) }
func (b Block6) lo() uint64 { return binary.BigEndian.Uint64(b.addr[8:]) }

func hiMask(prefix int) uint64 {
	if prefix == 0 {
		return 0
	}
	return ^uint64(0) << (64 - prefix)
}

// Contains6 reports whether o lies entirely within b.
func (b Block6) Contains6(o Block6) bool {
	return o.prefix >= b.prefix && o.hi()&hiMask(b.prefix) == b.hi()
}

// Overlaps6 reports whether the two blocks share any address.
func (b Block6) Overlaps6(o Block6) bool {
	return b.Contains6(o) || o.Contains6(b)
}

// SixtyFours returns count sequential /64 subnets carved from the block, in
// ascending order. It errors when the block holds fewer than count /64s.
func (b Block6) SixtyFours(count int) ([]Block6, error) {
	capacity := uint64(1) << (64 - b.prefix)
	if count <= 0 || uint64(count) > capacity {
		return nil, fmt.Errorf("%w: %s holds %d /64 subnets, requested %d",
			ErrSpaceExhausted, b, capacity, count)
	}
	out := make([]Block6, 0, count)
	for i := 0; i < count; i++ {
		var sub Block6
		sub.prefix = 64
		binary.BigEndian.PutUint64(sub.addr[:8], b.hi()+uint64(i))
		out = append(out, sub)
	}
	return out, nil
}
