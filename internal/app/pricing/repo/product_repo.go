package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_product"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/query"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	client *spanner.Client
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client) contracts.ProductRepository {
	return &ProductRepo{client: client}
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	return DataToDomain(&data)
}

// GetByIDs loads several products in one read.
func (r *ProductRepo) GetByIDs(ctx context.Context, productIDs []string) (map[string]*domain.Product, error) {
	products := make(map[string]*domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return products, nil
	}

	keys := make([]spanner.KeySet, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, spanner.Key{id})
	}

	iter := r.client.Single().Read(ctx, m_product.TableName, spanner.KeySets(keys...), m_product.Columns)
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}

		product, err := DataToDomain(&data)
		if err != nil {
			return nil, err
		}
		products[product.ID] = product
	}

	return products, nil
}

// List returns a page of products ordered by name, plus the total count.
func (r *ProductRepo) List(ctx context.Context, filter contracts.ProductFilter) ([]*domain.Product, int64, error) {
	q := query.From(m_product.TableName).Select(m_product.Columns...)
	if filter.Category != 0 {
		q = q.Where(query.Eq(m_product.CategoryID, int64(filter.Category)))
	}

	total, err := query.ScalarInt64(ctx, r.client.Single(), q.Count().Build())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	stmt := q.OrderBy(m_product.Name, query.Asc).
		OrderBy(m_product.ProductID, query.Asc).
		Limit(int64(pageSize)).
		Offset(int64(filter.Offset)).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*domain.Product, 0, pageSize)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, 0, fmt.Errorf("failed to parse product: %w", err)
		}

		product, err := DataToDomain(&data)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}

	return products, total, nil
}

// DataToDomain converts a products row to a validated pricing Product.
func DataToDomain(data *m_product.Data) (*domain.Product, error) {
	product, err := domain.NewProduct(
		data.ProductID,
		data.Name,
		domain.Category(data.CategoryID),
		domain.NewMoneyFromRat(&data.BasePrice),
	)
	if err != nil {
		return nil, fmt.Errorf("corrupt product row %s: %w", data.ProductID, err)
	}
	return product, nil
}

// DomainToData converts a pricing Product to a products row.
func DomainToData(product *domain.Product) *m_product.Data {
	data := &m_product.Data{
		ProductID:  product.ID,
		Name:       product.Name,
		CategoryID: int64(product.Category),
	}
	data.BasePrice.Set(product.BasePrice.Rat())
	return data
}
