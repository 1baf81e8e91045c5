package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/artisanmarket/storefront/internal/auth"
	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/wishlist"
)

type WishlistHandler struct {
	engine  *wishlist.Engine
	catalog catalog.Repository
}

func NewWishlistHandler(engine *wishlist.Engine, catalogRepo catalog.Repository) *WishlistHandler {
	return &WishlistHandler{engine: engine, catalog: catalogRepo}
}

func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, h.engine.Get(ctx, claims.Subject))
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.engine.Add)
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.engine.Toggle)
}

func (h *WishlistHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, string, catalog.Product) []catalog.Product) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var body struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.catalog.GetByID(ctx, body.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	writeJSON(w, http.StatusOK, op(ctx, claims.Subject, *p))
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	productID := chi.URLParam(r, "productId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, h.engine.Remove(ctx, claims.Subject, productID))
}

func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	h.engine.Clear(ctx, claims.Subject)
	writeJSON(w, http.StatusOK, []catalog.Product{})
}
