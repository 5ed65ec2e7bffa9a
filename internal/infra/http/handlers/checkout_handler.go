package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/workshop-payments/internal/infra/http/middleware"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

type Checkouter interface {
	Execute(ctx context.Context, input usecase.CheckoutInput) (*usecase.CheckoutOutput, error)
}

type WorkshopJoiner interface {
	Execute(ctx context.Context, input usecase.JoinWorkshopInput) (*usecase.JoinWorkshopOutput, error)
}

type CheckoutHandler struct {
	Checkout Checkouter
	Join     WorkshopJoiner
}

func NewCheckoutHandler(checkout Checkouter, join WorkshopJoiner) *CheckoutHandler {
	return &CheckoutHandler{Checkout: checkout, Join: join}
}

func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.CheckoutInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.Checkout.Execute(r.Context(), input)
	if err != nil {
		recordCheckoutError(err)
		writeError(w, err)
		return
	}

	middleware.RecordCheckout(checkoutOutcome(output.AlreadyRegistered))
	writeJSON(w, checkoutStatus(output.AlreadyRegistered), output)
}

// JoinWorkshop: inscrição + checkout do workshop numa chamada só.
func (h *CheckoutHandler) JoinWorkshop(w http.ResponseWriter, r *http.Request) {
	var input usecase.JoinWorkshopInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.Join.Execute(r.Context(), input)
	if err != nil {
		recordCheckoutError(err)
		writeError(w, err)
		return
	}

	middleware.RecordCheckout(checkoutOutcome(output.AlreadyRegistered))
	writeJSON(w, checkoutStatus(output.AlreadyRegistered), output)
}

func checkoutStatus(alreadyRegistered bool) int {
	if alreadyRegistered {
		return http.StatusOK
	}
	return http.StatusCreated
}

func checkoutOutcome(alreadyRegistered bool) string {
	if alreadyRegistered {
		return "already_registered"
	}
	return "created"
}

func recordCheckoutError(err error) {
	if usecase.ErrorCode(err) == usecase.CodeGatewayUnavailable {
		middleware.RecordIntegrationError("cashfree")
	}
	middleware.RecordCheckout("error")
}
