package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/workshop-payments/internal/config"
	"github.com/xavierca1/workshop-payments/internal/infra/http/handlers"
	"github.com/xavierca1/workshop-payments/internal/infra/http/middleware"
)

type Handlers struct {
	Checkout *handlers.CheckoutHandler
	Webhook  *handlers.WebhookHandler
	Payments *handlers.PaymentHandler
	Leads    *handlers.LeadHandler
	Pricing  *handlers.PricingHandler
	Health   *handlers.HealthHandler
}

func NewRouter(cfg config.Config, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Webhook sem timeout curto: o gateway espera a resposta.
	r.Post("/webhook", h.Webhook.Handle)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))

		r.With(handlers.LeadRateLimit(10, time.Minute)).Post("/leads", h.Leads.CaptureLead) // 10 req/min por IP
		r.Post("/workshop/join", h.Checkout.JoinWorkshop)
		r.Post("/checkout", h.Checkout.Handle)
		r.Get("/payments/verify/{orderId}", h.Payments.HandleVerify)
		r.Get("/leads/{leadId}/payment/status", h.Payments.HandleGetStatus)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.AdminAPIToken))

		r.Post("/payments/{paymentId}/refund", h.Payments.HandleRefund)
		r.Get("/pricing", h.Pricing.HandleGet)
		r.Put("/pricing/{key}", h.Pricing.HandleUpdate)
	})

	return r
}
