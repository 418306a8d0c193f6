package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/RomanDenysov/qr-payment-sk/internal/api/handlers"
	"github.com/RomanDenysov/qr-payment-sk/internal/api/middleware"
	"github.com/RomanDenysov/qr-payment-sk/internal/config"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/metrics"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Payment  *handlers.PaymentHandler
	Usage    *handlers.UsageHandler
	Template *handlers.TemplateHandler
	Billing  *handlers.BillingHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(metrics.Middleware)
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200

	// Public routes
	r.Group(func(r chi.Router) {
		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		// Prometheus metrics
		r.Method(http.MethodGet, "/metrics", metrics.Handler())

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		// Auth endpoints
		r.Post("/api/v1/auth/register", h.Auth.Register)
		r.Post("/api/v1/auth/login", h.Auth.Login)
		r.Post("/api/v1/auth/refresh", h.Auth.Refresh)
		r.Post("/api/v1/auth/logout", h.Auth.Logout)

		// Payload decoding needs no account
		r.Post("/api/v1/payments/decode", h.Payment.Decode)
	})

	// Generation accepts both authenticated and anonymous callers; the
	// handler picks the account ledger or the IP quota accordingly
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuthMiddleware(cfg.Auth.JWTSecret))
		r.Post("/api/v1/payments/generate", h.Payment.Generate)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))
		r.Use(middleware.UserRateLimit(20, 40))

		// Auth
		r.Get("/api/v1/auth/me", h.Auth.Me)

		// Generation history
		r.Route("/api/v1/payments", func(r chi.Router) {
			r.Get("/", h.Payment.List)
			r.Get("/{id}", h.Payment.Get)
		})

		// Usage ledger
		r.Route("/api/v1/usage", func(r chi.Router) {
			r.Get("/", h.Usage.Get)
			r.Get("/can-generate", h.Usage.CanGenerate)
		})

		// Templates
		r.Route("/api/v1/templates", func(r chi.Router) {
			r.Get("/", h.Template.List)
			r.Post("/", h.Template.Create)
			r.Get("/{id}", h.Template.Get)
			r.Put("/{id}", h.Template.Update)
			r.Delete("/{id}", h.Template.Delete)
		})

		// Billing
		r.Route("/api/v1/billing", func(r chi.Router) {
			r.Get("/options", h.Billing.Options)
			r.Post("/topup", h.Billing.TopUp)
			r.Post("/subscribe", h.Billing.Subscribe)
			r.Delete("/subscribe", h.Billing.CancelSubscription)
			r.Get("/history", h.Billing.History)
		})
	})

	return r
}
