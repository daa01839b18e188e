package netmath

import (
	"fmt"

	"github.com/samber/lo"
)

// SubnetKind mirrors the three AWS subnet roles a group can take.
type SubnetKind string

const (
	KindPublic   SubnetKind = "public"
	KindPrivate  SubnetKind = "private"
	KindIsolated SubnetKind = "isolated"
)

// GroupSpec describes one subnet group: a named set of same-kind subnets
// replicated once per availability zone.
type GroupSpec struct {
	Name string
	Kind SubnetKind
	// Prefix is the desired prefix length for each subnet in the group.
	// Zero means "share the space left after all sized groups", split
	// equally among every flexible subnet.
	Prefix int
}

// PlannedSubnet is one allocated subnet of the final layout.
type PlannedSubnet struct {
	Group   string
	Kind    SubnetKind
	AzIndex int
	Block   Block
}

// PlanSubnets partitions base into one subnet per (group × AZ), in group
// declaration order with AZs ascending inside each group. Groups with an
// explicit Prefix get exactly that size; the rest share the remainder in
// equal power-of-two blocks. The layout is deterministic and guaranteed
// non-overlapping; it errors when the requested partition does not fit.
func PlanSubnets(base Block, azCount int, groups []GroupSpec) ([]PlannedSubnet, error) {
	if azCount < 1 {
		return nil, fmt.Errorf("subnet plan needs at least one availability zone, got %d", azCount)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("subnet plan needs at least one subnet group")
	}
	names := lo.Map(groups, func(g GroupSpec, _ int) string { return g.Name })
	if dupes := lo.FindDuplicates(names); len(dupes) > 0 {
		return nil, fmt.Errorf("duplicate subnet group name %q", dupes[0])
	}

	// Resolve the prefix of flexible groups before allocating anything, so
	// that declaration order alone decides the layout.
	sized := uint64(0)
	flexible := 0
	for _, g := range groups {
		switch {
		case g.Prefix == 0:
			flexible++
		case g.Prefix < base.Prefix() || g.Prefix > MaxSubnetPrefix:
			return nil, fmt.Errorf("group %q: prefix /%d outside /%d../%d: %w",
				g.Name, g.Prefix, base.Prefix(), MaxSubnetPrefix, ErrPrefixTooLong)
		default:
			sized += (uint64(1) << (32 - g.Prefix)) * uint64(azCount)
		}
	}
	flexPrefix := 0
	if flexible > 0 {
		total := base.AddressCount()
		if sized >= total {
			return nil, fmt.Errorf("%w: sized groups consume all of %s, nothing left for %d flexible groups",
				ErrSpaceExhausted, base, flexible)
		}
		per := (total - sized) / uint64(flexible*azCount)
		flexPrefix = equalSharePrefix(per)
		if flexPrefix > MaxSubnetPrefix {
			return nil, fmt.Errorf("%w: equal share of %s for %d subnets would be a /%d",
				ErrBlockTooSmall, base, flexible*azCount, flexPrefix)
		}
	}

	alloc := NewAllocator(base)
	plan := make([]PlannedSubnet, 0, len(groups)*azCount)
	for _, g := range groups {
		prefix := g.Prefix
		if prefix == 0 {
			prefix = flexPrefix
		}
		blocks, err := alloc.AllocateCount(prefix, azCount)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Name, err)
		}
		for az, b := range blocks {
			plan = append(plan, PlannedSubnet{Group: g.Name, Kind: g.Kind, AzIndex: az, Block: b})
		}
	}
	return plan, nil
}

// equalSharePrefix returns the prefix of the largest power-of-two block not
// exceeding the given address count.
func equalSharePrefix(addresses uint64) int {
	prefix := 32
	for size := uint64(2); size <= addresses && prefix > 0; size <<= 1 {
		prefix--
	}
	return prefix
}
