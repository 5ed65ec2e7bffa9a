package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

type PricingService interface {
	Get(ctx context.Context) (*entity.PricingConfig, error)
	UpdatePrice(ctx context.Context, input usecase.UpdatePriceInput) (*entity.PricingConfig, error)
}

type PricingHandler struct {
	Pricing PricingService
}

func NewPricingHandler(pricing PricingService) *PricingHandler {
	return &PricingHandler{Pricing: pricing}
}

func (h *PricingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Pricing.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// HandleUpdate: PUT /admin/pricing/{key} com {"amount": "2999.00"}.
func (h *PricingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount string `json:"amount"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	cfg, err := h.Pricing.UpdatePrice(r.Context(), usecase.UpdatePriceInput{
		Key:    chi.URLParam(r, "key"),
		Amount: body.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
