package domain

import "fmt"

// PromotionKind names the family of an applied promotion.
type PromotionKind string

const (
	KindQuantityTier     PromotionKind = "quantity_tier"
	KindCategoryFreeItem PromotionKind = "category_free_item"
	KindOneShotFixed     PromotionKind = "one_shot_fixed_price"
)

// AppliedPromotion is one promotion that changed a line's price, with the
// amount it saved against the undiscounted total. Concrete types carry the
// kind-specific details.
type AppliedPromotion interface {
	Kind() PromotionKind
	Description() string
	Saved() *Money
}

// QuantityTierApplied records a quantity-tier percentage discount.
type QuantityTierApplied struct {
	Tier        QuantityTier
	SavedAmount *Money
}

func (p *QuantityTierApplied) Kind() PromotionKind { return KindQuantityTier }
func (p *QuantityTierApplied) Saved() *Money       { return p.SavedAmount.Copy() }

func (p *QuantityTierApplied) Description() string {
	return fmt.Sprintf("%d%% off for quantity over %d", p.Tier.Percent, p.Tier.MinExclusive)
}

// FreeItemsApplied records units not billed under a category "buy N" promotion.
type FreeItemsApplied struct {
	Category    Category
	GroupOf     int64
	FreeItems   int64
	SavedAmount *Money
}

func (p *FreeItemsApplied) Kind() PromotionKind { return KindCategoryFreeItem }
func (p *FreeItemsApplied) Saved() *Money       { return p.SavedAmount.Copy() }

func (p *FreeItemsApplied) Description() string {
	unit := "items"
	if p.FreeItems == 1 {
		unit = "item"
	}
	return fmt.Sprintf("%d free %s (1 in every %d)", p.FreeItems, unit, p.GroupOf)
}

// OneShotApplied records the fixed unit price override. UnitPrice is what
// each unit was charged: the configured FixedUnitPrice, or the base price
// when that is lower.
type OneShotApplied struct {
	Category       Category
	FixedUnitPrice *Money
	UnitPrice      *Money
	SavedAmount    *Money
}

func (p *OneShotApplied) Kind() PromotionKind { return KindOneShotFixed }
func (p *OneShotApplied) Saved() *Money       { return p.SavedAmount.Copy() }

func (p *OneShotApplied) Description() string {
	return fmt.Sprintf("Fixed price %s per unit (last Friday of the month)", p.UnitPrice)
}
