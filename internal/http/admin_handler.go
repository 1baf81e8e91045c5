package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/artisanmarket/storefront/internal/order"
	"github.com/artisanmarket/storefront/internal/user"
)

// AdminHandler serves the dashboard endpoints. All routes are behind
// auth.RequireAdmin.
type AdminHandler struct {
	orders order.Repository
	users  user.Repository
}

func NewAdminHandler(orders order.Repository, users user.Repository) *AdminHandler {
	return &AdminHandler{orders: orders, users: users}
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var body struct {
		Status order.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !body.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.orders.SetStatus(ctx, orderID, body.Status); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(body.Status)})
}

type summaryResponse struct {
	OrderCount int             `json:"orderCount"`
	Revenue    decimal.Decimal `json:"revenue"`
	UserCount  int             `json:"userCount"`
}

func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.orders.Summary(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order summary")
		return
	}

	userCount, err := h.users.Count(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count users")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		OrderCount: stats.OrderCount,
		Revenue:    stats.Revenue,
		UserCount:  userCount,
	})
}
