package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

// BadgeType classifies product listing badges.
type BadgeType string

const (
	BadgeCategory BadgeType = "category"
	BadgeOneShot  BadgeType = "one_shot"
	BadgeQuantity BadgeType = "quantity"
)

// Badge is a promotion advertised on a product listing.
type Badge struct {
	Type         BadgeType
	Title        string
	Details      []string
	SpecialPrice *domain.Money // one-shot only
}

// TierOffer describes one quantity tier for display.
type TierOffer struct {
	Threshold   int64
	Percent     int64
	Description string
}

// CategoryOffer describes a category free-item promotion for display.
type CategoryOffer struct {
	Category    domain.Category
	GroupOf     int64
	Description string
}

// OneShotOffer describes the fixed-price promotion and when it runs.
type OneShotOffer struct {
	Active       bool
	Category     domain.Category
	SpecialPrice *domain.Money
	// Date is the last Friday of the as-of month.
	Date        time.Time
	Description string
}

// ActivePromotions is the promotion catalogue as of a given day.
type ActivePromotions struct {
	AsOf              time.Time
	QuantityDiscounts []TierOffer
	CategoryOffers    []CategoryOffer
	OneShot           OneShotOffer
}

// PromotionCatalog describes the calculator's rules for listings. It reads
// the rules from the calculator so listings and billing share one source.
type PromotionCatalog struct {
	calculator *PriceCalculator
}

// NewPromotionCatalog creates a catalogue over calculator's rules.
func NewPromotionCatalog(calculator *PriceCalculator) *PromotionCatalog {
	return &PromotionCatalog{calculator: calculator}
}

// ActivePromotions returns every promotion and whether the one-shot runs on asOf.
func (c *PromotionCatalog) ActivePromotions(asOf time.Time) *ActivePromotions {
	rule := c.calculator.OneShotRule()
	promo := c.calculator.FreeItemPromotion()
	year, month, _ := asOf.Date()
	lastFriday := domain.LastFridayOfMonth(year, month)
	active := c.calculator.IsOneShotDay(asOf)

	oneShot := OneShotOffer{
		Active:       active,
		Category:     rule.Category,
		SpecialPrice: rule.FixedUnitPrice.Copy(),
		Date:         lastFriday,
	}
	if active {
		oneShot.Description = fmt.Sprintf("Today every %s product has a fixed price of %s", rule.Category, rule.FixedUnitPrice)
	} else {
		oneShot.Description = fmt.Sprintf("On the last Friday of the month (%s) every %s product has a fixed price of %s",
			lastFriday.Format("2006-01-02"), rule.Category, rule.FixedUnitPrice)
	}

	return &ActivePromotions{
		AsOf:              asOf,
		QuantityDiscounts: c.tierOffers(),
		CategoryOffers: []CategoryOffer{{
			Category:    promo.Category,
			GroupOf:     promo.GroupOf,
			Description: fmt.Sprintf("For every %d %s products, 1 is free", promo.GroupOf, promo.Category),
		}},
		OneShot: oneShot,
	}
}

// ProductBadges lists the promotions a product can earn on asOf.
func (c *PromotionCatalog) ProductBadges(product *domain.Product, asOf time.Time) []Badge {
	badges := make([]Badge, 0, 3)

	promo := c.calculator.FreeItemPromotion()
	if product.Category == promo.Category {
		badges = append(badges, Badge{
			Type:    BadgeCategory,
			Title:   fmt.Sprintf("%d+1 FREE", promo.GroupOf-1),
			Details: []string{fmt.Sprintf("For every %d products purchased, 1 is free", promo.GroupOf)},
		})
	}

	rule := c.calculator.OneShotRule()
	if product.Category == rule.Category && c.calculator.IsOneShotDay(asOf) {
		badges = append(badges, Badge{
			Type:         BadgeOneShot,
			Title:        fmt.Sprintf("ONE-SHOT %s!", rule.FixedUnitPrice),
			Details:      []string{fmt.Sprintf("Fixed price of %s only on %s", rule.FixedUnitPrice, asOf.Format("2006-01-02"))},
			SpecialPrice: rule.FixedUnitPrice.Copy(),
		})
	}

	offers := c.tierOffers()
	if len(offers) > 0 {
		details := make([]string, 0, len(offers))
		for _, o := range offers {
			details = append(details, o.Description)
		}
		badges = append(badges, Badge{
			Type:    BadgeQuantity,
			Title:   fmt.Sprintf("Up to %d%% off by quantity", offers[len(offers)-1].Percent),
			Details: details,
		})
	}

	return badges
}

// tierOffers lists tiers in ascending threshold order for display.
func (c *PromotionCatalog) tierOffers() []TierOffer {
	tiers := c.calculator.QuantityTiers()
	offers := make([]TierOffer, 0, len(tiers))
	for _, t := range tiers {
		offers = append(offers, TierOffer{
			Threshold:   t.MinExclusive,
			Percent:     t.Percent,
			Description: fmt.Sprintf("Buy more than %d units: %d%% off", t.MinExclusive, t.Percent),
		})
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].Threshold < offers[j].Threshold })
	return offers
}
