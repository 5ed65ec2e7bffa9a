package usecase

import "github.com/xavierca1/workshop-payments/internal/entity"

type CheckoutInput struct {
	LeadID    string      `json:"lead_id" validate:"required,uuid"`
	Plan      entity.Plan `json:"plan" validate:"required,plan"`
	HasUpsell bool        `json:"has_upsell"`
}

type CheckoutOutput struct {
	Payment           *entity.Payment `json:"payment"`
	CheckoutURL       string          `json:"checkout_url,omitempty"`
	AlreadyRegistered bool            `json:"already_registered"`
	Msg               string          `json:"msg"`
}

type LeadInput struct {
	Name    string            `json:"name" validate:"max=200"`
	Email   string            `json:"email" validate:"required,email,max=254"`
	Company string            `json:"company" validate:"max=200"`
	Phone   string            `json:"phone" validate:"max=32"`
	UseCase string            `json:"use_case" validate:"max=2000"`
	Source  entity.LeadSource `json:"source" validate:"omitempty,lead_source"`
}

type JoinWorkshopInput struct {
	LeadInput
	HasUpsell bool `json:"has_upsell"`
}

type JoinWorkshopOutput struct {
	Lead *entity.Lead `json:"lead"`
	CheckoutOutput
}

// WebhookInput é o corpo cru + headers; o parse acontece depois da assinatura.
type WebhookInput struct {
	RawBody   []byte
	Signature string
	Timestamp string
}

// WebhookEvent é o evento já normalizado (order id, order_status, payment id opcional).
type WebhookEvent struct {
	OrderID          string
	OrderStatus      string
	GatewayPaymentID string
}

type WebhookResult struct {
	Acknowledged bool                 `json:"success"`
	OrderID      string               `json:"order_id,omitempty"`
	PaymentID    string               `json:"payment_id,omitempty"`
	Status       entity.PaymentStatus `json:"status,omitempty"`
	Updated      bool                 `json:"updated"`
	Message      string               `json:"message,omitempty"`
}

type VerifyPaymentOutput struct {
	Payment *entity.Payment `json:"payment"`
	Updated bool            `json:"updated"`
}

type RefundOutput struct {
	Payment    *entity.Payment   `json:"payment"`
	LeadStatus entity.LeadStatus `json:"lead_status"`
}

type UpdatePriceInput struct {
	Key    string `json:"key"`
	Amount string `json:"amount"`
}
