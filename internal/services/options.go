package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/get_cart"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/list_carts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/list_events"
	cartrepo "github.com/light-bringer/cart-pricing-service/internal/app/cart/repo"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/add_item"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/checkout"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/clear_cart"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/create_cart"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/remove_item"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/update_item"
	pricingservices "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/queries/get_promotions"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/queries/list_products"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/queries/quote"
	pricingrepo "github.com/light-bringer/cart-pricing-service/internal/app/pricing/repo"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/config"
	httptransport "github.com/light-bringer/cart-pricing-service/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	HTTPHandler   http.Handler
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	// 1. Initialize Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// 2. Create infrastructure components
	clk := clock.NewRealClock(cfg.PricingLocation)
	comm := committer.NewCommitter(spannerClient)

	// 3. Create repositories
	cartRepo := cartrepo.NewCartRepo(spannerClient)
	outboxRepo := cartrepo.NewOutboxRepo()
	historyRepo := cartrepo.NewPriceHistoryRepo(spannerClient)
	readModel := cartrepo.NewReadModel(spannerClient)
	eventsReadModel := cartrepo.NewEventsReadModel(spannerClient)
	productRepo := pricingrepo.NewProductRepo(spannerClient)

	// 4. Create pricing domain services
	calculator := pricingservices.NewDefaultPriceCalculator()
	explainer := pricingservices.NewPromotionExplainer(calculator)
	catalog := pricingservices.NewPromotionCatalog(calculator)

	// 5. Create command use cases (write operations)
	createCart := create_cart.NewInteractor(cartRepo, outboxRepo, comm, clk)
	addItem := add_item.NewInteractor(cartRepo, productRepo, calculator, outboxRepo, comm, clk)
	updateItem := update_item.NewInteractor(cartRepo, productRepo, calculator, outboxRepo, comm, clk)
	removeItem := remove_item.NewInteractor(cartRepo, outboxRepo, comm, clk)
	clearCart := clear_cart.NewInteractor(cartRepo, outboxRepo, comm, clk)
	checkoutCart := checkout.NewInteractor(cartRepo, productRepo, calculator, outboxRepo, historyRepo, comm, clk, logger)

	// 6. Create query use cases (read operations)
	getCart := get_cart.NewQuery(cartRepo, historyRepo, productRepo, explainer, clk)
	listCarts := list_carts.NewQuery(readModel)
	listEvents := list_events.NewQuery(eventsReadModel)
	listProducts := list_products.NewQuery(productRepo, catalog, clk)
	getPromotions := get_promotions.NewQuery(catalog, clk)
	quoteQuery := quote.NewQuery(productRepo, explainer, clk)

	// 7. Create HTTP handlers
	cartHandler := httptransport.NewCartHandler(
		createCart,
		addItem,
		updateItem,
		removeItem,
		clearCart,
		checkoutCart,
		getCart,
		listCarts,
		logger,
	)
	catalogHandler := httptransport.NewCatalogHandler(listProducts, getPromotions, quoteQuery, cfg.PricingLocation, logger)
	eventsHandler := httptransport.NewEventsHandler(listEvents, logger)

	return &ServiceOptions{
		SpannerClient: spannerClient,
		HTTPHandler:   httptransport.NewRouter(cartHandler, catalogHandler, eventsHandler, logger),
	}, nil
}

// Ping runs a trivial query to confirm the database is reachable.
func (s *ServiceOptions) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	iter := s.SpannerClient.Single().Query(ctx, spanner.Statement{SQL: "SELECT 1"})
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("spanner ping failed: %w", err)
	}
	return nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
