package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/xavierca1/workshop-payments/internal/infra/http/middleware"
	"github.com/xavierca1/workshop-payments/internal/logger"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

const (
	HeaderWebhookSignature = "x-webhook-signature"
	HeaderWebhookTimestamp = "x-webhook-timestamp"

	maxWebhookBody = 1 << 20
)

type WebhookProcessor interface {
	Execute(ctx context.Context, input usecase.WebhookInput) (*usecase.WebhookResult, error)
}

type WebhookHandler struct {
	UC WebhookProcessor
}

func NewWebhookHandler(uc WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{UC: uc}
}

// Handle lê o corpo cru (a assinatura é calculada sobre ele). Só payload
// inválido (400) e assinatura inválida (401) não são reconhecidos; o resto
// devolve 200 para o gateway não reenviar em loop.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		middleware.RecordWebhook("rejected")
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "corpo do webhook ilegível")
		return
	}

	result, err := h.UC.Execute(r.Context(), usecase.WebhookInput{
		RawBody:   body,
		Signature: r.Header.Get(HeaderWebhookSignature),
		Timestamp: r.Header.Get(HeaderWebhookTimestamp),
	})
	if err != nil {
		switch code := usecase.ErrorCode(err); code {
		case usecase.CodeValidation, usecase.CodeSignatureInvalid:
			middleware.RecordWebhook("rejected")
			writeError(w, err)
		default:
			logger.WithComponent("webhook").WithError(err).WithField("code", code).Warn("webhook reconhecido sem alteração")
			middleware.RecordWebhook("ignored")
			writeJSON(w, http.StatusOK, usecase.WebhookResult{Acknowledged: true, Message: err.Error()})
		}
		return
	}

	if result.Updated {
		middleware.RecordPaymentTransition(string(result.Status), "webhook")
	}
	middleware.RecordWebhook("processed")
	writeJSON(w, http.StatusOK, result)
}
