package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/artisanmarket/storefront/internal/auth"
)

type Handlers struct {
	Users    *UserHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Wishlist *WishlistHandler
	Browsing *BrowsingHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Admin    *AdminHandler
}

func NewRouter(h Handlers, tokens *auth.TokenManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	// public routes; a valid token still attaches identity so product
	// views can feed the recently-viewed list
	r.Group(func(r chi.Router) {
		r.Use(auth.Optional(tokens))

		r.Post("/api/users/login", h.Users.Login)
		r.Post("/api/users/register", h.Users.Register)

		r.Get("/api/products", h.Catalog.ListProducts)
		r.Get("/api/products/{productId}", h.Catalog.GetProduct)
		r.Get("/api/products/{productId}/reviews", h.Catalog.ListReviews)
	})

	// authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))

		r.Put("/api/users/profile", h.Users.UpdateProfile)

		r.Post("/api/products/{productId}/reviews", h.Catalog.AddReview)

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{productId}", h.Cart.UpdateQuantity)
			r.Delete("/items/{productId}", h.Cart.RemoveItem)
			r.Delete("/", h.Cart.ClearCart)
		})

		r.Route("/api/wishlist", func(r chi.Router) {
			r.Get("/", h.Wishlist.Get)
			r.Post("/items", h.Wishlist.Add)
			r.Post("/toggle", h.Wishlist.Toggle)
			r.Delete("/items/{productId}", h.Wishlist.Remove)
			r.Delete("/", h.Wishlist.Clear)
		})

		r.Get("/api/recently-viewed", h.Browsing.RecentlyViewed)
		r.Route("/api/comparison", func(r chi.Router) {
			r.Get("/", h.Browsing.GetComparison)
			r.Post("/items", h.Browsing.AddToComparison)
			r.Delete("/items/{productId}", h.Browsing.RemoveFromComparison)
		})

		r.Post("/api/checkout/validate", h.Checkout.ValidateStep)
		r.Post("/api/checkout", h.Checkout.SubmitOrder)

		r.Get("/api/orders/myorders", h.Orders.ListMyOrders)
		r.Get("/api/orders/{orderId}", h.Orders.GetOrder)
		r.Put("/api/orders/{orderId}/pay", h.Orders.PayOrder)
	})

	// admin dashboard
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))
		r.Use(auth.RequireAdmin)

		r.Post("/api/products", h.Catalog.CreateProduct)
		r.Put("/api/products/{productId}", h.Catalog.UpdateProduct)
		r.Delete("/api/products/{productId}", h.Catalog.DeleteProduct)

		r.Get("/api/admin/orders", h.Admin.ListOrders)
		r.Put("/api/admin/orders/{orderId}/status", h.Admin.SetOrderStatus)
		r.Get("/api/admin/summary", h.Admin.Summary)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront",
	})
}
