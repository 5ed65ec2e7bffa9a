package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPaymentNotFound = errors.New("pagamento não encontrado")
	// ErrPaymentExists: o lead já tem um pagamento pending/success (índice parcial único).
	ErrPaymentExists = errors.New("lead already holds an open payment")
	// ErrGatewayOrderAttached: a payment já tem order no gateway (no máximo uma).
	ErrGatewayOrderAttached = errors.New("payment already has a gateway order")
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// paymentTransitions são as únicas arestas permitidas. failed e refunded são terminais.
var paymentTransitions = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentStatusPending:  {PaymentStatusSuccess: true, PaymentStatusFailed: true},
	PaymentStatusSuccess:  {PaymentStatusRefunded: true},
	PaymentStatusFailed:   {},
	PaymentStatusRefunded: {},
}

func (s PaymentStatus) CanTransitionTo(to PaymentStatus) bool {
	return paymentTransitions[s][to]
}

func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

// Vocabulário do gateway (order_status).
const (
	GatewayOrderPaid      = "PAID"
	GatewayOrderActive    = "ACTIVE"
	GatewayOrderFailed    = "FAILED"
	GatewayOrderCancelled = "CANCELLED"
	GatewayOrderExpired   = "EXPIRED"
)

var gatewayStatusMap = map[string]PaymentStatus{
	GatewayOrderPaid:      PaymentStatusSuccess,
	GatewayOrderActive:    PaymentStatusSuccess,
	GatewayOrderFailed:    PaymentStatusFailed,
	GatewayOrderCancelled: PaymentStatusFailed,
	GatewayOrderExpired:   PaymentStatusFailed,
}

// MapGatewayStatus is the single translation from the gateway's order_status to the
// local payment status. ok is false for statuses that must not change the payment.
func MapGatewayStatus(orderStatus string) (status PaymentStatus, ok bool) {
	status, ok = gatewayStatusMap[strings.ToUpper(strings.TrimSpace(orderStatus))]
	return status, ok
}

type Plan string

const (
	PlanStarter  Plan = "starter"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
	PlanWorkshop Plan = "workshop"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanStarter, PlanPro, PlanBusiness, PlanWorkshop:
		return true
	}
	return false
}

type Payment struct {
	ID               string          `json:"id"`
	LeadID           string          `json:"lead_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Plan             Plan            `json:"plan"`
	HasUpsell        bool            `json:"has_upsell"`
	GatewayOrderID   string          `json:"gateway_order_id,omitempty"`
	GatewaySessionID string          `json:"-"`
	GatewayPaymentID string          `json:"gateway_payment_id,omitempty"`
	Status           PaymentStatus   `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewPayment cria a tentativa em pending, ainda sem order no gateway.
func NewPayment(leadID string, plan Plan, hasUpsell bool, amount decimal.Decimal, currency string) *Payment {
	return &Payment{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Amount:    amount,
		Currency:  currency,
		Plan:      plan,
		HasUpsell: hasUpsell,
		Status:    PaymentStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (p *Payment) HasGatewayOrder() bool {
	return p.GatewayOrderID != ""
}

type PaymentRepositoryInterface interface {
	Create(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id string) (*Payment, error)
	FindByGatewayOrderID(ctx context.Context, orderID string) (*Payment, error)
	FindLatestByLeadID(ctx context.Context, leadID string) (*Payment, error)
	FindStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*Payment, error)
	// AttachGatewayOrder só grava se a payment ainda não tiver order.
	AttachGatewayOrder(ctx context.Context, id, orderID, sessionID string) error
	// TransitionStatus é um compare-and-swap: retorna false se o status atual != from.
	TransitionStatus(ctx context.Context, id string, from, to PaymentStatus, gatewayPaymentID string) (bool, error)
}
