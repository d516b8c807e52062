package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomasvidal/fieldforge-backend/api/controllers"
	"github.com/tomasvidal/fieldforge-backend/api/middleware"
	authsvc "github.com/tomasvidal/fieldforge-backend/internal/auth"
	cartsvc "github.com/tomasvidal/fieldforge-backend/internal/cart"
	ordersvc "github.com/tomasvidal/fieldforge-backend/internal/orders"
	productsvc "github.com/tomasvidal/fieldforge-backend/internal/products"
	"github.com/tomasvidal/fieldforge-backend/pkg/config"
	"github.com/tomasvidal/fieldforge-backend/pkg/db"
	"github.com/tomasvidal/fieldforge-backend/pkg/logger"
	"github.com/tomasvidal/fieldforge-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	authService authsvc.Service,
	productService productsvc.Service,
	cartService cartsvc.Service,
	orderService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(authService, logg))
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AuthRegister(authService, logg))
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products/{productId}/field-definitions", func(r chi.Router) {
			r.Get("/", controllers.ProductFieldDefinitions(productService, logg))
			r.Get("/export", controllers.ExportProductFieldDefinitions(productService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin", logg))
				r.Put("/", controllers.SetProductFieldDefinitions(productService, logg))
				r.Post("/import", controllers.ImportProductFieldDefinitions(productService, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/quote", controllers.CartQuote(cartService, logg))
			r.Post("/items", controllers.CartAttach(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/checkout", controllers.OrderCheckout(orderService, logg))
			r.Route("/{orderId}/line-items/{lineId}/fields", func(r chi.Router) {
				r.Get("/", controllers.OrderLineFields(orderService, logg))
				r.Patch("/", controllers.OrderLineFieldsEdit(orderService, logg))
			})
		})
	})

	return r
}
