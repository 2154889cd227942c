package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

func TestPromotionExplainer_AgreesWithCalculator(t *testing.T) {
	pc := NewDefaultPriceCalculator()
	explainer := NewPromotionExplainer(pc)

	cases := []struct {
		category domain.Category
		quantity int64
	}{
		{domain.CategorySpareParts, 30},
		{domain.CategoryRefrigeration, 101},
		{domain.CategoryPhotovoltaic, 12},
		{domain.CategoryPhotovoltaic, 3},
	}

	days := map[string]time.Time{"last friday": lastFriday, "ordinary day": ordinaryDay}

	for _, tc := range cases {
		for name, asOf := range days {
			p := product(t, tc.category, "100")

			explained, err := explainer.Explain(p, tc.quantity, asOf)
			require.NoError(t, err)
			total, err := pc.ComputeTotal(p, tc.quantity, asOf)
			require.NoError(t, err)

			assert.True(t, total.Equals(explained.DiscountedTotal), "%s qty %d on %s", tc.category, tc.quantity, name)
		}
	}
}

func TestPromotionExplainer_ExplainLines(t *testing.T) {
	explainer := NewPromotionExplainer(NewDefaultPriceCalculator())

	lines := []Line{
		{Product: product(t, domain.CategorySpareParts, "100"), Quantity: 30},
		{Product: product(t, domain.CategoryPhotovoltaic, "100"), Quantity: 12},
	}

	results, summary, err := explainer.ExplainLines(lines, ordinaryDay)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "2700.00", results[0].DiscountedTotal.String())
	assert.Equal(t, "950.00", results[1].DiscountedTotal.String())

	assert.Equal(t, "4200.00", summary.OriginalTotal.String())
	assert.Equal(t, "3650.00", summary.DiscountedTotal.String())
	assert.Equal(t, "550.00", summary.SavedAmount.String())
}

func TestPromotionExplainer_ExplainLinesRejectsInvalidLine(t *testing.T) {
	explainer := NewPromotionExplainer(NewDefaultPriceCalculator())

	lines := []Line{
		{Product: product(t, domain.CategorySpareParts, "100"), Quantity: 1},
		{Product: product(t, domain.CategorySpareParts, "100"), Quantity: 0},
	}

	_, _, err := explainer.ExplainLines(lines, ordinaryDay)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Contains(t, err.Error(), "line 1")
}

func TestNarrate(t *testing.T) {
	pc := NewDefaultPriceCalculator()

	t.Run("with promotions", func(t *testing.T) {
		result, err := pc.Decide(product(t, domain.CategorySpareParts, "100"), 30, ordinaryDay)
		require.NoError(t, err)

		assert.Equal(t,
			"2700.00 instead of 3000.00, saved 300.00 (10.00%): 10% off for quantity over 25 (saved 300.00)",
			Narrate(result))
	})

	t.Run("without promotions", func(t *testing.T) {
		result, err := pc.Decide(product(t, domain.CategoryRefrigeration, "100"), 2, ordinaryDay)
		require.NoError(t, err)

		assert.Equal(t, "2 x 100.00 = 200.00, no promotions applied", Narrate(result))
	})
}
