package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/get_cart"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/list_carts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/add_item"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/checkout"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/clear_cart"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/create_cart"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/remove_item"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/update_item"
)

// CartHandler serves the cart endpoints. It's a thin coordinator that
// delegates to use cases and queries.
type CartHandler struct {
	// Commands
	createCart *create_cart.Interactor
	addItem    *add_item.Interactor
	updateItem *update_item.Interactor
	removeItem *remove_item.Interactor
	clearCart  *clear_cart.Interactor
	checkout   *checkout.Interactor

	// Queries
	getCart   *get_cart.Query
	listCarts *list_carts.Query

	logger *zap.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(
	createCart *create_cart.Interactor,
	addItem *add_item.Interactor,
	updateItem *update_item.Interactor,
	removeItem *remove_item.Interactor,
	clearCart *clear_cart.Interactor,
	checkout *checkout.Interactor,
	getCart *get_cart.Query,
	listCarts *list_carts.Query,
	logger *zap.Logger,
) *CartHandler {
	return &CartHandler{
		createCart: createCart,
		addItem:    addItem,
		updateItem: updateItem,
		removeItem: removeItem,
		clearCart:  clearCart,
		checkout:   checkout,
		getCart:    getCart,
		listCarts:  listCarts,
		logger:     logger,
	}
}

// AddItemRequest is the body of POST /carts/{cartID}/items.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// UpdateItemRequest is the body of PATCH /carts/{cartID}/items/{itemID}.
type UpdateItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// Register adds the cart routes to mux.
func (h *CartHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/carts", h.handleListCarts)
	mux.HandleFunc("POST /api/v1/carts", h.handleCreateCart)
	mux.HandleFunc("GET /api/v1/carts/{cartID}", h.handleGetCart)
	mux.HandleFunc("POST /api/v1/carts/{cartID}/items", h.handleAddItem)
	mux.HandleFunc("DELETE /api/v1/carts/{cartID}/items", h.handleClearCart)
	mux.HandleFunc("PATCH /api/v1/carts/{cartID}/items/{itemID}", h.handleUpdateItem)
	mux.HandleFunc("DELETE /api/v1/carts/{cartID}/items/{itemID}", h.handleRemoveItem)
	mux.HandleFunc("POST /api/v1/carts/{cartID}/checkout", h.handleCheckout)
}

func (h *CartHandler) handleListCarts(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
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

	result, err := h.listCarts.Execute(r.Context(), &list_carts.Request{
		CustomerID: customer,
		Status:     r.URL.Query().Get("status"),
		PageSize:   pageSize,
		Offset:     offset,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toListCartsResponse(result))
}

func (h *CartHandler) handleCreateCart(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cartID, err := h.createCart.Execute(r.Context(), &create_cart.Request{CustomerID: customer})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondWithCart(w, r, customer, cartID, http.StatusCreated)
}

func (h *CartHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondWithCart(w, r, customer, r.PathValue("cartID"), http.StatusOK)
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var body AddItemRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cartID := r.PathValue("cartID")
	if _, err := h.addItem.Execute(r.Context(), &add_item.Request{
		CustomerID: customer,
		CartID:     cartID,
		ProductID:  body.ProductID,
		Quantity:   body.Quantity,
	}); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondWithCart(w, r, customer, cartID, http.StatusCreated)
}

func (h *CartHandler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var body UpdateItemRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cartID := r.PathValue("cartID")
	if err := h.updateItem.Execute(r.Context(), &update_item.Request{
		CustomerID: customer,
		CartID:     cartID,
		ItemID:     r.PathValue("itemID"),
		Quantity:   body.Quantity,
	}); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondWithCart(w, r, customer, cartID, http.StatusOK)
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cartID := r.PathValue("cartID")
	if err := h.removeItem.Execute(r.Context(), &remove_item.Request{
		CustomerID: customer,
		CartID:     cartID,
		ItemID:     r.PathValue("itemID"),
	}); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondWithCart(w, r, customer, cartID, http.StatusOK)
}

func (h *CartHandler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cartID := r.PathValue("cartID")
	if err := h.clearCart.Execute(r.Context(), &clear_cart.Request{CustomerID: customer, CartID: cartID}); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respondWithCart(w, r, customer, cartID, http.StatusOK)
}

func (h *CartHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.checkout.Execute(r.Context(), &checkout.Request{
		CustomerID: customer,
		CartID:     r.PathValue("cartID"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toCheckoutResponse(resp))
}

// respondWithCart renders the cart after a command, priced the same way
// GET /carts/{cartID} prices it.
func (h *CartHandler) respondWithCart(w http.ResponseWriter, r *http.Request, customer, cartID string, status int) {
	resp, err := h.getCart.Execute(r.Context(), &get_cart.Request{CustomerID: customer, CartID: cartID})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, status, toCartDTO(resp))
}
