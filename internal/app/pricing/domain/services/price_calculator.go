package services

import (
	"fmt"
	"math/big"
	"time"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

// DateRuleEvaluator decides date-bound promotion eligibility.
type DateRuleEvaluator interface {
	IsLastFridayOfMonth(date time.Time) bool
}

// QuantityDiscountResolver maps a quantity to its discount tier.
type QuantityDiscountResolver interface {
	ResolveTier(quantity int64) (domain.QuantityTier, bool)
	Tiers() []domain.QuantityTier
}

// CategoryPromotionResolver computes units that are not billed.
type CategoryPromotionResolver interface {
	ResolveFreeItems(category domain.Category, quantity int64) int64
	Promotion() domain.FreeItemPromotion
}

// OneShotRule overrides the unit price of a category on the last Friday of the month.
type OneShotRule struct {
	Category       domain.Category
	FixedUnitPrice *domain.Money
}

// DefaultOneShotRule prices spare parts at 25.00 per unit.
var DefaultOneShotRule = OneShotRule{
	Category:       domain.CategorySpareParts,
	FixedUnitPrice: domain.MustMoney(25, 1),
}

// PriceCalculator is a domain service that prices a product line on a given day.
// It holds no mutable state and is safe for concurrent use.
//
// Rules, first match wins:
//  1. One-shot: the rule's category on the last Friday of the month pays the
//     fixed unit price; no other promotion applies.
//  2. Standard: the quantity tier discounts the unit price, and free units of
//     the promoted category are excluded from billing at that discounted price.
type PriceCalculator struct {
	dates     DateRuleEvaluator
	tiers     QuantityDiscountResolver
	freeItems CategoryPromotionResolver
	oneShot   OneShotRule
}

// NewPriceCalculator creates a PriceCalculator from its rule resolvers.
func NewPriceCalculator(
	dates DateRuleEvaluator,
	tiers QuantityDiscountResolver,
	freeItems CategoryPromotionResolver,
	oneShot OneShotRule,
) *PriceCalculator {
	return &PriceCalculator{
		dates:     dates,
		tiers:     tiers,
		freeItems: freeItems,
		oneShot:   oneShot,
	}
}

// NewDefaultPriceCalculator wires the catalogue's standard rules.
func NewDefaultPriceCalculator() *PriceCalculator {
	return NewPriceCalculator(
		domain.NewDateRules(),
		domain.NewDefaultQuantityDiscounts(),
		domain.NewDefaultFreeItems(),
		DefaultOneShotRule,
	)
}

// Decide evaluates the pricing rules once and returns both the charged total
// and the promotions that produced it. Billing and display both read this
// result, so they cannot disagree.
func (pc *PriceCalculator) Decide(product *domain.Product, quantity int64, asOf time.Time) (*domain.PriceResult, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, quantity)
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	base := product.BasePrice
	original := base.MultiplyByInt(quantity)

	result := &domain.PriceResult{
		ProductID:     product.ID,
		Quantity:      quantity,
		OriginalTotal: original,
	}

	if pc.oneShotApplies(product, asOf) {
		pc.applyOneShot(result, base)
	} else {
		pc.applyStandard(result, product)
	}

	result.SavedAmount = original.Subtract(result.DiscountedTotal)
	result.SavedPercentage = domain.PercentOf(result.SavedAmount, original)
	return result, nil
}

// ComputeTotal returns the amount charged for the line.
func (pc *PriceCalculator) ComputeTotal(product *domain.Product, quantity int64, asOf time.Time) (*domain.Money, error) {
	result, err := pc.Decide(product, quantity, asOf)
	if err != nil {
		return nil, err
	}
	return result.DiscountedTotal, nil
}

// IsOneShotDay reports whether the one-shot rule is live on asOf.
func (pc *PriceCalculator) IsOneShotDay(asOf time.Time) bool {
	return pc.dates.IsLastFridayOfMonth(asOf)
}

// QuantityTiers returns the tier table in evaluation order.
func (pc *PriceCalculator) QuantityTiers() []domain.QuantityTier {
	return pc.tiers.Tiers()
}

// FreeItemPromotion returns the category free-item rule.
func (pc *PriceCalculator) FreeItemPromotion() domain.FreeItemPromotion {
	return pc.freeItems.Promotion()
}

// OneShotRule returns the fixed-price rule.
func (pc *PriceCalculator) OneShotRule() OneShotRule {
	return pc.oneShot
}

func (pc *PriceCalculator) oneShotApplies(product *domain.Product, asOf time.Time) bool {
	return product.Category == pc.oneShot.Category && pc.dates.IsLastFridayOfMonth(asOf)
}

// applyOneShot charges the fixed unit price, never more than the base price.
func (pc *PriceCalculator) applyOneShot(result *domain.PriceResult, base *domain.Money) {
	unit := pc.oneShot.FixedUnitPrice.Min(base)
	total := unit.MultiplyByInt(result.Quantity)

	result.Mode = domain.ModeOneShot
	result.UnitPrice = unit
	result.BilledQuantity = result.Quantity
	result.DiscountedTotal = total
	result.AppliedPromotions = []domain.AppliedPromotion{
		&domain.OneShotApplied{
			Category:       pc.oneShot.Category,
			FixedUnitPrice: pc.oneShot.FixedUnitPrice.Copy(),
			UnitPrice:      unit.Copy(),
			SavedAmount:    result.OriginalTotal.Subtract(total),
		},
	}
}

func (pc *PriceCalculator) applyStandard(result *domain.PriceResult, product *domain.Product) {
	base := product.BasePrice
	promotions := make([]domain.AppliedPromotion, 0, 2)

	rate := new(big.Rat)
	tier, hasTier := pc.tiers.ResolveTier(result.Quantity)
	if hasTier {
		rate = tier.Rate()
		promotions = append(promotions, &domain.QuantityTierApplied{
			Tier:        tier,
			SavedAmount: result.OriginalTotal.MultiplyByRat(rate),
		})
	}

	unit := base.MultiplyByRat(new(big.Rat).Sub(big.NewRat(1, 1), rate))
	free := pc.freeItems.ResolveFreeItems(product.Category, result.Quantity)
	billed := result.Quantity - free

	if free > 0 {
		promo := pc.freeItems.Promotion()
		promotions = append(promotions, &domain.FreeItemsApplied{
			Category:    promo.Category,
			GroupOf:     promo.GroupOf,
			FreeItems:   free,
			SavedAmount: unit.MultiplyByInt(free),
		})
	}

	result.Mode = domain.ModeStandard
	result.UnitPrice = unit
	result.BilledQuantity = billed
	result.DiscountedTotal = unit.MultiplyByInt(billed)
	result.AppliedPromotions = promotions
}
