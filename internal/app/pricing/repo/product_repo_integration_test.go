//go:build integration

package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/testutil"
)

func TestProductRepo_Spanner(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := NewProductRepo(client)

	panel := testutil.CreateTestProduct(t, client, "Solar panel", 3, "120.50")
	filter := testutil.CreateTestProduct(t, client, "Air filter", 1, "40")

	t.Run("get by id", func(t *testing.T) {
		product, err := repository.GetByID(ctx, panel)
		require.NoError(t, err)
		assert.Equal(t, "Solar panel", product.Name)
		assert.Equal(t, domain.CategoryPhotovoltaic, product.Category)
		assert.Equal(t, "120.50", product.BasePrice.String())
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := repository.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("get by ids skips unknown", func(t *testing.T) {
		products, err := repository.GetByIDs(ctx, []string{panel, filter, "missing"})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("list ordered by name with category filter", func(t *testing.T) {
		all, total, err := repository.List(ctx, contracts.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, all, 2)
		assert.Equal(t, "Air filter", all[0].Name)

		spare, total, err := repository.List(ctx, contracts.ProductFilter{Category: domain.CategorySpareParts})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, filter, spare[0].ID)
	})
}
