package usecase

import (
	"context"

	"github.com/xavierca1/workshop-payments/internal/infra/integration/cashfree"
)

type PaymentGateway interface {
	CreateOrder(ctx context.Context, input cashfree.CreateOrderInput) (*cashfree.OrderOutput, error)
	GetOrder(ctx context.Context, orderID string) (*cashfree.OrderStatusOutput, error)
	CreateRefund(ctx context.Context, input cashfree.RefundInput) error
	CheckoutURL(sessionID string) string
	VerifyWebhookSignature(rawBody []byte, signature, timestamp string) bool
}

// Notifier envia email transacional. Falhas nunca mudam o resultado do pagamento.
type Notifier interface {
	Send(ctx context.Context, to, subject, html string) error
}

// GatewayOptions carrega o que o checkout repassa ao gateway.
type GatewayOptions struct {
	ReturnURL     string
	NotifyURL     string
	RemoteRefunds bool
}
