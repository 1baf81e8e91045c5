package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/artisanmarket/storefront/internal/auth"
	"github.com/artisanmarket/storefront/internal/browsing"
	"github.com/artisanmarket/storefront/internal/catalog"
)

type BrowsingHandler struct {
	tracker *browsing.Tracker
	catalog catalog.Repository
}

func NewBrowsingHandler(tracker *browsing.Tracker, catalogRepo catalog.Repository) *BrowsingHandler {
	return &BrowsingHandler{tracker: tracker, catalog: catalogRepo}
}

func (h *BrowsingHandler) RecentlyViewed(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list := h.tracker.RecentlyViewed(ctx, claims.Subject)
	if list == nil {
		list = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BrowsingHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list := h.tracker.Comparison(ctx, claims.Subject)
	if list == nil {
		list = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BrowsingHandler) AddToComparison(w http.ResponseWriter, r *http.Request) {
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

	list, added := h.tracker.AddToComparison(ctx, claims.Subject, *p)
	if !added {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": "comparison list is full or already contains this product",
			"items": list,
		})
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *BrowsingHandler) RemoveFromComparison(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	productID := chi.URLParam(r, "productId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, h.tracker.RemoveFromComparison(ctx, claims.Subject, productID))
}
