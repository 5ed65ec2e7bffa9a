package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

type HandleWebhookUseCase struct {
	PaymentRepo      entity.PaymentRepositoryInterface
	Gateway          PaymentGateway
	Settlement       *Settlement
	RequireSignature bool
}

func NewHandleWebhookUseCase(
	paymentRepo entity.PaymentRepositoryInterface,
	gateway PaymentGateway,
	settlement *Settlement,
	requireSignature bool,
) *HandleWebhookUseCase {
	return &HandleWebhookUseCase{
		PaymentRepo:      paymentRepo,
		Gateway:          gateway,
		Settlement:       settlement,
		RequireSignature: requireSignature,
	}
}

// VerifyWebhookSignature delega ao gateway; qualquer falha é false.
func (uc *HandleWebhookUseCase) VerifyWebhookSignature(rawBody []byte, signature, timestamp string) bool {
	if uc.Gateway == nil {
		return false
	}
	return uc.Gateway.VerifyWebhookSignature(rawBody, signature, timestamp)
}

// Execute valida a assinatura (quando presente ou exigida), normaliza o payload e processa.
func (uc *HandleWebhookUseCase) Execute(ctx context.Context, input WebhookInput) (*WebhookResult, error) {
	if input.Signature != "" || uc.RequireSignature {
		if !uc.VerifyWebhookSignature(input.RawBody, input.Signature, input.Timestamp) {
			logger.WithComponent("webhook").WithField("has_signature", input.Signature != "").
				Warn("🚫 webhook rejeitado: assinatura inválida")
			return nil, &DomainError{Code: CodeSignatureInvalid, Message: "assinatura do webhook inválida"}
		}
	}

	event, err := ParseWebhookEvent(input.RawBody)
	if err != nil {
		return nil, err
	}
	return uc.Handle(ctx, event)
}

// Handle processa um evento já autenticado. PaymentNotFound não muta nada.
func (uc *HandleWebhookUseCase) Handle(ctx context.Context, event WebhookEvent) (*WebhookResult, error) {
	if strings.TrimSpace(event.OrderID) == "" {
		return nil, newValidationError([]ValidationError{{Field: "order_id", Message: "is required"}})
	}

	log := logger.WithComponent("webhook").WithFields(logrus.Fields{
		"order_id":     event.OrderID,
		"order_status": event.OrderStatus,
	})

	payment, err := uc.PaymentRepo.FindByGatewayOrderID(ctx, event.OrderID)
	if err != nil {
		if errors.Is(err, entity.ErrPaymentNotFound) {
			log.Warn("webhook para order desconhecida")
			return nil, paymentNotFound(err)
		}
		log.WithError(err).Error("❌ falha ao buscar pagamento do webhook")
		return nil, databaseError("falha ao buscar pagamento", err)
	}

	updated, err := uc.Settlement.Apply(ctx, payment, event.OrderStatus, event.GatewayPaymentID)
	if err != nil {
		log.WithError(err).Error("❌ falha ao processar webhook, reconciliação fica para o próximo poll")
		return nil, err
	}

	return &WebhookResult{
		Acknowledged: true,
		OrderID:      event.OrderID,
		PaymentID:    payment.ID,
		Status:       payment.Status,
		Updated:      updated,
	}, nil
}

type webhookPayload struct {
	OrderID     string          `json:"order_id"`
	OrderStatus string          `json:"order_status"`
	PaymentID   json.RawMessage `json:"payment_id"`
	CFPaymentID json.RawMessage `json:"cf_payment_id"`
	Data        *struct {
		Order struct {
			OrderID     string `json:"order_id"`
			OrderStatus string `json:"order_status"`
		} `json:"order"`
		Payment struct {
			CFPaymentID   json.RawMessage `json:"cf_payment_id"`
			PaymentStatus string          `json:"payment_status"`
		} `json:"payment"`
	} `json:"data"`
}

// paymentStatusToOrderStatus traduz o payment_status dos webhooks aninhados
// para o vocabulário de order_status.
var paymentStatusToOrderStatus = map[string]string{
	"SUCCESS":   entity.GatewayOrderPaid,
	"FAILED":    entity.GatewayOrderFailed,
	"CANCELLED": entity.GatewayOrderCancelled,
}

// ParseWebhookEvent aceita o formato plano ({order_id, order_status, cf_payment_id})
// e o aninhado ({data: {order, payment}}).
func ParseWebhookEvent(raw []byte) (WebhookEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return WebhookEvent{}, newValidationError([]ValidationError{{Field: "body", Message: "must be valid JSON"}})
	}

	event := WebhookEvent{
		OrderID:          p.OrderID,
		OrderStatus:      p.OrderStatus,
		GatewayPaymentID: rawID(p.CFPaymentID),
	}
	if event.GatewayPaymentID == "" {
		event.GatewayPaymentID = rawID(p.PaymentID)
	}

	if p.Data != nil {
		if event.OrderID == "" {
			event.OrderID = p.Data.Order.OrderID
		}
		if event.OrderStatus == "" {
			event.OrderStatus = p.Data.Order.OrderStatus
		}
		if event.OrderStatus == "" {
			event.OrderStatus = paymentStatusToOrderStatus[strings.ToUpper(p.Data.Payment.PaymentStatus)]
		}
		if event.GatewayPaymentID == "" {
			event.GatewayPaymentID = rawID(p.Data.Payment.CFPaymentID)
		}
	}

	if strings.TrimSpace(event.OrderID) == "" {
		return WebhookEvent{}, newValidationError([]ValidationError{{Field: "order_id", Message: "is required"}})
	}
	return event, nil
}

// rawID aceita id numérico ou string.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
