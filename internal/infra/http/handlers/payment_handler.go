package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/infra/http/middleware"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

type PaymentVerifier interface {
	Execute(ctx context.Context, orderID string) (*usecase.VerifyPaymentOutput, error)
}

type PaymentStatusReader interface {
	Execute(ctx context.Context, leadID string) (*entity.Payment, error)
}

type PaymentRefunder interface {
	Execute(ctx context.Context, paymentID string) (*usecase.RefundOutput, error)
}

type PaymentHandler struct {
	Verify PaymentVerifier
	Status PaymentStatusReader
	Refund PaymentRefunder
}

func NewPaymentHandler(verify PaymentVerifier, status PaymentStatusReader, refund PaymentRefunder) *PaymentHandler {
	return &PaymentHandler{Verify: verify, Status: status, Refund: refund}
}

// HandleVerify é o poll da página de retorno do checkout.
func (h *PaymentHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	out, err := h.Verify.Execute(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, err)
		return
	}

	if out.Updated {
		middleware.RecordPaymentTransition(string(out.Payment.Status), "verify")
	}
	writeJSON(w, http.StatusOK, out)
}

type PaymentStatusResponse struct {
	LeadID    string               `json:"lead_id"`
	PaymentID string               `json:"payment_id"`
	OrderID   string               `json:"order_id,omitempty"`
	Plan      entity.Plan          `json:"plan"`
	Status    entity.PaymentStatus `json:"status"`
	Amount    string               `json:"amount"`
	Currency  string               `json:"currency"`
}

func (h *PaymentHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	payment, err := h.Status.Execute(r.Context(), chi.URLParam(r, "leadId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PaymentStatusResponse{
		LeadID:    payment.LeadID,
		PaymentID: payment.ID,
		OrderID:   payment.GatewayOrderID,
		Plan:      payment.Plan,
		Status:    payment.Status,
		Amount:    payment.Amount.StringFixed(2),
		Currency:  payment.Currency,
	})
}

func (h *PaymentHandler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	out, err := h.Refund.Execute(r.Context(), chi.URLParam(r, "paymentId"))
	if err != nil {
		if usecase.ErrorCode(err) == usecase.CodeGatewayUnavailable {
			middleware.RecordIntegrationError("cashfree")
		}
		writeError(w, err)
		return
	}

	middleware.RecordPaymentTransition(string(entity.PaymentStatusRefunded), "refund")
	writeJSON(w, http.StatusOK, out)
}
