package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const (
	SessionHeader = "X-Session-Id"
	SessionCookie = "sid"
)

const (
	msgInvalidRequest   = "Invalid request data"
	msgInvalidQuantity  = "Invalid quantity"
	msgProductNotFound  = "Product not found"
	msgCartItemNotFound = "Cart item not found"
	msgUnavailable      = "Service unavailable"
	msgInternal         = "Internal server error"
	msgInvalidMediaType = "invalid media type"
)

// NewRouter mounts the storefront API.
//
// popularity may be nil, its route then answers 503.
func NewRouter(
	products port.ProductsReader,
	cart port.CartManager,
	popularity port.PopularityReader,
) http.Handler {
	mux := http.NewServeMux()
	RegisterProducts(mux, products, popularity)
	RegisterCart(mux, cart)
	RegisterHealth(mux)
	return LogRequests(AllowJSON(mux))
}

type ProductsHandler struct {
	products   port.ProductsReader
	popularity port.PopularityReader
}

func RegisterProducts(
	mux *http.ServeMux,
	products port.ProductsReader,
	popularity port.PopularityReader,
) {
	h := ProductsHandler{products, popularity}
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/products/{id}/popularity", h.GetPopularity)
	mux.HandleFunc("GET /api/categories", h.ListCategories)
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"

	q := r.URL.Query()
	filter := domain.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}

	ps, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		writeServiceError(w, op, err, "")
		return
	}
	writeJSON(w, op, http.StatusOK, fromDomainProducts(ps))
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"

	p, err := h.products.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err, "")
		return
	}
	writeJSON(w, op, http.StatusOK, fromDomainProduct(p))
}

func (h ProductsHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListCategories"

	cs, err := h.products.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, op, err, "")
		return
	}
	writeJSON(w, op, http.StatusOK, cs)
}

func (h ProductsHandler) GetPopularity(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetPopularity"

	if h.popularity == nil {
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
		return
	}

	v, err := h.popularity.ProductPopularity(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err, "")
		return
	}
	writeJSON(w, op, http.StatusOK, ProductPopularity{
		ProductID:  v.ProductID,
		AddedUnits: v.AddedUnits,
	})
}

type CartHandler struct {
	cart port.CartManager
}

func RegisterCart(mux *http.ServeMux, cart port.CartManager) {
	h := CartHandler{cart}
	mux.HandleFunc("GET /api/cart", h.ListCart)
	mux.HandleFunc("GET /api/cart/summary", h.GetSummary)
	mux.HandleFunc("POST /api/cart", h.AddItem)
	mux.HandleFunc("PATCH /api/cart/{productId}", h.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/{productId}", h.RemoveItem)
	mux.HandleFunc("DELETE /api/cart", h.Clear)
}

func (h CartHandler) ListCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ListCart"

	items, err := h.cart.ListCart(r.Context(), owner(w, r))
	if err != nil {
		writeServiceError(w, op, err, "")
		return
	}
	writeJSON(w, op, http.StatusOK, fromDomainCartItems(items))
}

func (h CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetSummary"

	s, err := h.cart.CartSummary(r.Context(), owner(w, r))
	if err != nil {
		writeServiceError(w, op, err, "")
		return
	}
	writeJSON(w, op, http.StatusOK, fromDomainSummary(s))
}

func (h CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddItem"
	log := slog.With("op", op)

	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse JSON", "err", err)
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	item, err := h.cart.AddToCart(r.Context(), owner(w, r), domain.AddCartItem{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeServiceError(w, op, err, msgInvalidRequest)
		return
	}
	writeJSON(w, op, http.StatusCreated, fromDomainCartItem(item))
}

func (h CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.UpdateItem"
	log := slog.With("op", op)

	var req UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse JSON", "err", err)
		writeError(w, http.StatusBadRequest, msgInvalidQuantity)
		return
	}

	item, ok, err := h.cart.UpdateCartItem(
		r.Context(), owner(w, r), r.PathValue("productId"), req.Quantity,
	)
	if err != nil {
		writeServiceError(w, op, err, msgInvalidQuantity)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, op, http.StatusOK, fromDomainCartItem(item))
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.RemoveItem"

	err := h.cart.RemoveCartItem(r.Context(), owner(w, r), r.PathValue("productId"))
	if err != nil {
		writeServiceError(w, op, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.Clear"

	if err := h.cart.ClearCart(r.Context(), owner(w, r)); err != nil {
		writeServiceError(w, op, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func RegisterHealth(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// owner identifies the cart of the request. A request without a session is
// given a new one through the sid cookie, so every HTTP caller works on its
// own cart and never on all of them.
func owner(w http.ResponseWriter, r *http.Request) string {
	if v := r.Header.Get(SessionHeader); v != "" {
		return v
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// writeServiceError maps domain errors to statuses. invalidMsg is the
// message for [domain.ErrInvalidRequest].
func writeServiceError(w http.ResponseWriter, op string, err error, invalidMsg string) {
	log := slog.With("op", op)

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		if invalidMsg == "" {
			invalidMsg = msgInvalidRequest
		}
		writeError(w, http.StatusBadRequest, invalidMsg)
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, msgProductNotFound)
	case errors.Is(err, domain.ErrCartItemNotFound):
		writeError(w, http.StatusNotFound, msgCartItemNotFound)
	case errors.Is(err, domain.ErrUnavailable):
		log.Warn("unavailable", "err", err)
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
	default:
		log.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, "writeError", status, ErrorResponse{msg})
}

func writeJSON(w http.ResponseWriter, op string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}
