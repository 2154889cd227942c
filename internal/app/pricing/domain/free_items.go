package domain

// FreeItemPromotion is the "buy N, one of them free" rule for a single category.
type FreeItemPromotion struct {
	Category Category
	GroupOf  int64
}

// DefaultFreeItemPromotion gives one free photovoltaic unit in every five.
var DefaultFreeItemPromotion = FreeItemPromotion{Category: CategoryPhotovoltaic, GroupOf: 5}

// FreeItems resolves how many units of an order line are not billed.
type FreeItems struct {
	promo FreeItemPromotion
}

// NewFreeItems creates a resolver for promo.
func NewFreeItems(promo FreeItemPromotion) *FreeItems {
	return &FreeItems{promo: promo}
}

// NewDefaultFreeItems creates a resolver for DefaultFreeItemPromotion.
func NewDefaultFreeItems() *FreeItems {
	return NewFreeItems(DefaultFreeItemPromotion)
}

// Promotion returns the rule this resolver applies.
func (f *FreeItems) Promotion() FreeItemPromotion {
	return f.promo
}

// ResolveFreeItems returns floor(quantity / GroupOf) for the promoted category, else 0.
func (f *FreeItems) ResolveFreeItems(category Category, quantity int64) int64 {
	if category != f.promo.Category || f.promo.GroupOf <= 0 || quantity < f.promo.GroupOf {
		return 0
	}
	return quantity / f.promo.GroupOf
}

// EffectiveQuantity returns the number of billed units.
func (f *FreeItems) EffectiveQuantity(category Category, quantity int64) int64 {
	return quantity - f.ResolveFreeItems(category, quantity)
}
