package http

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/queries/get_promotions"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/queries/list_products"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/queries/quote"
)

// CatalogHandler serves products, promotions and quotes.
type CatalogHandler struct {
	listProducts  *list_products.Query
	getPromotions *get_promotions.Query
	quote         *quote.Query

	// loc is the zone in which a date-only as_of is interpreted.
	loc    *time.Location
	logger *zap.Logger
}

// NewCatalogHandler creates a new catalogue handler.
func NewCatalogHandler(
	listProducts *list_products.Query,
	getPromotions *get_promotions.Query,
	quote *quote.Query,
	loc *time.Location,
	logger *zap.Logger,
) *CatalogHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &CatalogHandler{
		listProducts:  listProducts,
		getPromotions: getPromotions,
		quote:         quote,
		loc:           loc,
		logger:        logger,
	}
}

// QuoteRequest is the body of POST /quote. AsOf accepts RFC 3339 or a
// YYYY-MM-DD date; it defaults to now.
type QuoteRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	AsOf      string `json:"as_of,omitempty"`
}

// Register adds the catalogue routes to mux.
func (h *CatalogHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/products", h.handleListProducts)
	mux.HandleFunc("GET /api/v1/promotions", h.handlePromotions)
	mux.HandleFunc("POST /api/v1/quote", h.handleQuote)
}

func (h *CatalogHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	category, err := intParam(r, "category")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	pageSize, err := intParam(r, "page_size")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.listProducts.Execute(r.Context(), &list_products.Request{
		Category: pricing.Category(category),
		PageSize: pageSize,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	out := ListProductsResponse{
		Products:   make([]ProductDTO, 0, len(resp.Products)),
		TotalCount: resp.TotalCount,
	}
	for _, l := range resp.Products {
		out.Products = append(out.Products, toProductDTO(l.Product, l.Badges))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) handlePromotions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toPromotionsResponse(h.getPromotions.Execute()))
}

func (h *CatalogHandler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var body QuoteRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	req := &quote.Request{ProductID: body.ProductID, Quantity: body.Quantity}
	if body.ProductID == "" {
		writeError(w, r, h.logger, fmt.Errorf("%w: product_id is required", errBadRequest))
		return
	}
	if body.AsOf != "" {
		asOf, err := h.parseAsOf(body.AsOf)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		req.AsOf = &asOf
	}

	resp, err := h.quote.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, QuoteResponse{
		ProductID: resp.Product.ID,
		Quantity:  resp.Result.Quantity,
		AsOf:      timestamp(resp.AsOf),
		Total:     amount(resp.Result.DiscountedTotal),
		Pricing:   toBreakdownDTO(resp.Result),
		Narrative: resp.Narrative,
	})
}

// parseAsOf keeps the offset of an RFC 3339 value: the calendar day the
// caller wrote is the day the rules see.
func (h *CatalogHandler) parseAsOf(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, h.loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: as_of must be RFC 3339 or YYYY-MM-DD", errBadRequest)
}
