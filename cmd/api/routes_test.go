package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/workshop-payments/internal/config"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/infra/http/handlers"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

type stubPricing struct{}

func (stubPricing) Get(context.Context) (*entity.PricingConfig, error) {
	return entity.DefaultPricing(), nil
}

func (stubPricing) UpdatePrice(context.Context, usecase.UpdatePriceInput) (*entity.PricingConfig, error) {
	return entity.DefaultPricing(), nil
}

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func testRouter() http.Handler {
	cfg := config.Config{AdminAPIToken: "admin-token", CORSOrigins: []string{"http://localhost:5173"}}
	return NewRouter(cfg, Handlers{
		Checkout: handlers.NewCheckoutHandler(nil, nil),
		Webhook:  handlers.NewWebhookHandler(nil),
		Payments: handlers.NewPaymentHandler(nil, nil, nil),
		Leads:    handlers.NewLeadHandler(nil),
		Pricing:  handlers.NewPricingHandler(stubPricing{}),
		Health:   handlers.NewHealthHandler(okPinger{}, nil, nil, "test"),
	})
}

func TestRouterAdminRequiresToken(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/pricing", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/pricing", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"currency":"INR"`)
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
