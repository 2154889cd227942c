package domain

import "math/big"

// PricingMode is the rule family that produced a price. Exactly one mode
// applies per line.
type PricingMode string

const (
	ModeStandard PricingMode = "standard"
	ModeOneShot  PricingMode = "one_shot"
)

// PriceResult is the outcome of pricing one product line on one day.
// Results are derived fresh on every call and never mutated afterwards.
type PriceResult struct {
	ProductID string
	Quantity  int64
	Mode      PricingMode

	// UnitPrice is the per-unit price after the mode's unit rule
	// (tier discount or fixed price); BilledQuantity is the number of units
	// charged at that price.
	UnitPrice      *Money
	BilledQuantity int64

	OriginalTotal   *Money
	DiscountedTotal *Money
	SavedAmount     *Money
	// SavedPercentage is SavedAmount/OriginalTotal in percent, 0 when OriginalTotal is 0.
	SavedPercentage *big.Rat

	AppliedPromotions []AppliedPromotion
}

// HasPromotion reports whether a promotion of kind was applied.
func (r *PriceResult) HasPromotion(kind PromotionKind) bool {
	for _, p := range r.AppliedPromotions {
		if p.Kind() == kind {
			return true
		}
	}
	return false
}

// Summary aggregates the price results of several lines.
type Summary struct {
	OriginalTotal   *Money
	DiscountedTotal *Money
	SavedAmount     *Money
	SavedPercentage *big.Rat
}

// Summarize sums originals and discounted totals across results.
func Summarize(results []*PriceResult) *Summary {
	original := Zero()
	discounted := Zero()
	for _, r := range results {
		original = original.Add(r.OriginalTotal)
		discounted = discounted.Add(r.DiscountedTotal)
	}
	saved := original.Subtract(discounted)
	return &Summary{
		OriginalTotal:   original,
		DiscountedTotal: discounted,
		SavedAmount:     saved,
		SavedPercentage: PercentOf(saved, original),
	}
}

// PercentOf returns part as a percentage of whole (0 when whole is 0).
func PercentOf(part, whole *Money) *big.Rat {
	return new(big.Rat).Mul(part.RatioOf(whole), big.NewRat(100, 1))
}
