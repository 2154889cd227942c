package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

// Line is one product/quantity pair to explain.
type Line struct {
	Product  *domain.Product
	Quantity int64
}

// PromotionExplainer describes which promotions applied to a line and what
// each one saved. It reads the calculator's decision instead of re-deriving
// the rules.
type PromotionExplainer struct {
	calculator *PriceCalculator
}

// NewPromotionExplainer creates an explainer backed by calculator.
func NewPromotionExplainer(calculator *PriceCalculator) *PromotionExplainer {
	return &PromotionExplainer{calculator: calculator}
}

// Explain returns the full price breakdown for one line.
func (e *PromotionExplainer) Explain(product *domain.Product, quantity int64, asOf time.Time) (*domain.PriceResult, error) {
	return e.calculator.Decide(product, quantity, asOf)
}

// ExplainLines prices every line on the same day and aggregates the results.
// The first invalid line aborts the whole explanation.
func (e *PromotionExplainer) ExplainLines(lines []Line, asOf time.Time) ([]*domain.PriceResult, *domain.Summary, error) {
	results := make([]*domain.PriceResult, 0, len(lines))
	for i, line := range lines {
		result, err := e.calculator.Decide(line.Product, line.Quantity, asOf)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", i, err)
		}
		results = append(results, result)
	}
	return results, domain.Summarize(results), nil
}

// Narrate renders a result as a single human-readable sentence.
func Narrate(result *domain.PriceResult) string {
	if len(result.AppliedPromotions) == 0 {
		return fmt.Sprintf("%d x %s = %s, no promotions applied",
			result.Quantity, result.UnitPrice, result.DiscountedTotal)
	}

	parts := make([]string, 0, len(result.AppliedPromotions))
	for _, p := range result.AppliedPromotions {
		parts = append(parts, fmt.Sprintf("%s (saved %s)", p.Description(), p.Saved()))
	}
	return fmt.Sprintf("%s instead of %s, saved %s (%s%%): %s",
		result.DiscountedTotal,
		result.OriginalTotal,
		result.SavedAmount,
		domain.NewMoneyFromRat(result.SavedPercentage),
		strings.Join(parts, "; "))
}
