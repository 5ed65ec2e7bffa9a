package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

type LeadCapturer interface {
	Capture(ctx context.Context, input usecase.LeadInput) (*entity.Lead, error)
}

type LeadHandler struct {
	leads LeadCapturer
}

func NewLeadHandler(leads LeadCapturer) *LeadHandler {
	return &LeadHandler{leads: leads}
}

type CaptureLeadResponse struct {
	Success bool              `json:"success"`
	LeadID  string            `json:"lead_id,omitempty"`
	Status  entity.LeadStatus `json:"status,omitempty"`
	Message string            `json:"message,omitempty"`
}

// CaptureLead recebe os formulários de landing/audit. O limite por IP fica no router (LeadRateLimit).
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.leads.Capture(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CaptureLeadResponse{
		Success: true,
		LeadID:  lead.ID,
		Status:  lead.Status,
	})
}

// LeadRateLimit limita a captura por IP. Conta pelo IP real (X-Real-IP/X-Forwarded-For),
// já que a API roda atrás de proxy.
func LeadRateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, CaptureLeadResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
			})
		}),
	)
}
