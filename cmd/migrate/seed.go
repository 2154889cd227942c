package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/repo"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_product"
)

// seedCatalogue is the demo catalogue: one product per category, all at 100.00.
func seedCatalogue() ([]*domain.Product, error) {
	specs := []struct {
		id, name string
		category domain.Category
	}{
		{"SP001", "Spare Part Type A", domain.CategorySpareParts},
		{"RF001", "Refrigeration Unit X", domain.CategoryRefrigeration},
		{"PV001", "Solar Panel Basic", domain.CategoryPhotovoltaic},
	}

	products := make([]*domain.Product, 0, len(specs))
	for _, s := range specs {
		p, err := domain.NewProduct(s.id, s.name, s.category, domain.MustMoney(100, 1))
		if err != nil {
			return nil, fmt.Errorf("invalid seed product %s: %w", s.id, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// seedProducts upserts the demo catalogue, so running it twice is harmless.
func seedProducts(ctx context.Context, dbPath string) error {
	products, err := seedCatalogue()
	if err != nil {
		return err
	}

	client, err := spanner.NewClient(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	model := m_product.NewModel()
	mutations := make([]*spanner.Mutation, 0, len(products))
	for _, p := range products {
		mutations = append(mutations, model.InsertMut(repo.DomainToData(p)))
	}

	if _, err := client.Apply(ctx, mutations); err != nil {
		return fmt.Errorf("failed to write products: %w", err)
	}

	log.Info("seeded product catalogue", zap.Int("products", len(products)))
	return nil
}
