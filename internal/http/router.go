package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Auth     *Authenticator
	Cart     *CartHandler
	Products *ProductHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Admin    *AdminHandler

	RequestTimeout time.Duration
}

// NewRouter assembles the public storefront, the authenticated customer
// routes and the admin back office onto one chi mux.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public storefront reads.
		r.Get("/products", deps.Products.ListProducts)
		r.Get("/products/{id}", deps.Products.GetProduct)
		r.Get("/brands", deps.Products.ListBrands)
		r.Get("/banners", deps.Products.ListBanners)

		// Customer routes.
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", deps.Cart.GetCart)
				r.Delete("/", deps.Cart.ClearCart)
				r.Post("/items", deps.Cart.AddItem)
				r.Put("/items/{product_id}", deps.Cart.UpdateQuantity)
				r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", deps.Checkout.BeginDelivery)
				r.Post("/pickup", deps.Checkout.BeginPickup)
				r.Get("/{id}", deps.Checkout.GetSession)
				r.Post("/{id}/check", deps.Checkout.CheckPayment)
				r.Post("/{id}/retry", deps.Checkout.RetrySubmit)
				r.Delete("/{id}", deps.Checkout.Abandon)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", deps.Orders.ListOrders)
				r.Get("/{id}", deps.Orders.GetOrder)
			})
		})

		// Back office.
		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)
			r.Use(RequireAdmin)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", deps.Admin.ListProducts)
				r.Post("/", deps.Admin.CreateProduct)
				r.Put("/{id}", deps.Admin.UpdateProduct)
				r.Delete("/{id}", deps.Admin.DeleteProduct)
			})

			r.Route("/brands", func(r chi.Router) {
				r.Post("/", deps.Admin.CreateBrand)
				r.Put("/{id}", deps.Admin.UpdateBrand)
				r.Delete("/{id}", deps.Admin.DeleteBrand)
			})

			r.Route("/banners", func(r chi.Router) {
				r.Post("/", deps.Admin.CreateBanner)
				r.Put("/{id}", deps.Admin.UpdateBanner)
				r.Delete("/{id}", deps.Admin.DeleteBanner)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", deps.Admin.ListUsers)
				r.Get("/{id}", deps.Admin.GetUser)
				r.Post("/", deps.Admin.CreateUser)
				r.Put("/{id}", deps.Admin.UpdateUser)
				r.Delete("/{id}", deps.Admin.DeleteUser)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", deps.Admin.ListSettings)
				r.Put("/{id}", deps.Admin.UpdateSetting)
			})

			r.Put("/orders/{id}/status", deps.Admin.UpdateOrderStatus)
		})
	})

	return r
}
