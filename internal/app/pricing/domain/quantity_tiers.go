package domain

import "math/big"

// QuantityTier grants Percent off when the quantity strictly exceeds MinExclusive.
type QuantityTier struct {
	MinExclusive int64
	Percent      int64
}

// Rate returns the tier's discount as a fraction (Percent/100).
func (t QuantityTier) Rate() *big.Rat {
	return big.NewRat(t.Percent, 100)
}

// DefaultQuantityTiers is the catalogue's tier table, highest threshold first.
var DefaultQuantityTiers = []QuantityTier{
	{MinExclusive: 100, Percent: 20},
	{MinExclusive: 50, Percent: 15},
	{MinExclusive: 25, Percent: 10},
	{MinExclusive: 10, Percent: 5},
}

// QuantityDiscounts resolves the tier that applies to a quantity.
type QuantityDiscounts struct {
	tiers []QuantityTier
}

// NewQuantityDiscounts creates a resolver over tiers, which must be ordered
// from the highest threshold down. The first tier whose threshold is
// strictly exceeded wins; tiers never stack.
func NewQuantityDiscounts(tiers []QuantityTier) *QuantityDiscounts {
	return &QuantityDiscounts{tiers: append([]QuantityTier(nil), tiers...)}
}

// NewDefaultQuantityDiscounts creates a resolver over DefaultQuantityTiers.
func NewDefaultQuantityDiscounts() *QuantityDiscounts {
	return NewQuantityDiscounts(DefaultQuantityTiers)
}

// ResolveTier returns the winning tier, or false when no tier applies.
func (q *QuantityDiscounts) ResolveTier(quantity int64) (QuantityTier, bool) {
	for _, tier := range q.tiers {
		if quantity > tier.MinExclusive {
			return tier, true
		}
	}
	return QuantityTier{}, false
}

// ResolvePercent returns the whole-number discount percentage for quantity (0 when none).
func (q *QuantityDiscounts) ResolvePercent(quantity int64) int64 {
	tier, ok := q.ResolveTier(quantity)
	if !ok {
		return 0
	}
	return tier.Percent
}

// ResolveRate returns the discount fraction for quantity (0 when none).
func (q *QuantityDiscounts) ResolveRate(quantity int64) *big.Rat {
	return big.NewRat(q.ResolvePercent(quantity), 100)
}

// Tiers returns a copy of the tier table in evaluation order.
func (q *QuantityDiscounts) Tiers() []QuantityTier {
	return append([]QuantityTier(nil), q.tiers...)
}
