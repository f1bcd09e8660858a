// Package handler wires the back-office HTTP surface to the domain services.
package handler

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verbstore/backoffice/internal/domain/colleague"
	"github.com/verbstore/backoffice/internal/domain/order"
	"github.com/verbstore/backoffice/internal/domain/product"
	"github.com/verbstore/backoffice/internal/domain/promo"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// TokenPepper is the HMAC key for hashing bearer tokens before lookup.
	TokenPepper []byte
	// ResetTokenTTL bounds how long an issued password-reset token stays
	// usable.
	ResetTokenTTL time.Duration
	// ImageBaseURL is prepended to relative image paths in product
	// responses. When empty, image paths are returned as stored.
	ImageBaseURL string
}

// Handler implements the HTTP endpoints, delegating business logic to the
// injected domain services and repositories.
type Handler struct {
	cfg        Config
	colleagues colleague.Repository
	tokens     colleague.TokenRepository
	resets     colleague.ResetRepository
	products   product.Repository
	promos     promo.Repository
	orders     *order.Service
}

// New constructs a Handler with the required domain dependencies.
func New(
	cfg Config,
	colleagues colleague.Repository,
	tokens colleague.TokenRepository,
	resets colleague.ResetRepository,
	products product.Repository,
	promos promo.Repository,
	orders *order.Service,
) *Handler {
	return &Handler{
		cfg:        cfg,
		colleagues: colleagues,
		tokens:     tokens,
		resets:     resets,
		products:   products,
		promos:     promos,
		orders:     orders,
	}
}

// Routes builds the chi router for the /api surface. Authentication is
// resolved once per request; staff-only routes gate on it.
func (h *Handler) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Use(h.authenticate)

		r.Post("/register", h.registerColleague)
		r.Post("/reset-password", h.requestPasswordReset)
		r.Post("/reset-password/{token}", h.confirmPasswordReset)

		r.Route("/users", func(r chi.Router) {
			r.Use(h.requireStaff)
			r.Get("/", h.listColleagues)
			r.Get("/{id}", h.getColleague)
			r.Put("/{id}", h.updateColleague)
			r.Delete("/{id}", h.deleteColleague)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Get("/{id}", h.getProduct)
			r.Get("/{id}/reviews", h.listReviews)
			r.Post("/{id}/reviews", h.addReview)

			r.Group(func(r chi.Router) {
				r.Use(h.requireStaff)
				r.Post("/", h.createProduct)
				r.Put("/{id}", h.updateProduct)
				r.Delete("/{id}", h.deleteProduct)
				r.Post("/{id}/images", h.addImage)
			})
		})

		r.Route("/promo-codes", func(r chi.Router) {
			r.Use(h.requireStaff)
			r.Get("/", h.listPromoCodes)
			r.Post("/", h.upsertPromoCode)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.placeOrder)
			r.Get("/{orderNumber}", h.getOrder)
			r.Post("/{orderNumber}/pay", h.payOrder)

			r.Group(func(r chi.Router) {
				r.Use(h.requireStaff)
				r.Get("/", h.listOrders)
				r.Delete("/{orderNumber}", h.deleteOrder)
			})
		})
	})

	return r
}
