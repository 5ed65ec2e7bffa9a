package usecase_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/infra/integration/cashfree"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) TransitionStatus(ctx context.Context, id string, from []entity.LeadStatus, to entity.LeadStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) MarkPaidIfPaymentSuccess(ctx context.Context, leadID, paymentID string) (bool, error) {
	args := m.Called(ctx, leadID, paymentID)
	return args.Bool(0), args.Error(1)
}

// MockPaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByGatewayOrderID(ctx context.Context, orderID string) (*entity.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindLatestByLeadID(ctx context.Context, leadID string) (*entity.Payment, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*entity.Payment, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) AttachGatewayOrder(ctx context.Context, id, orderID, sessionID string) error {
	args := m.Called(ctx, id, orderID, sessionID)
	return args.Error(0)
}

func (m *MockPaymentRepository) TransitionStatus(ctx context.Context, id string, from, to entity.PaymentStatus, gatewayPaymentID string) (bool, error) {
	args := m.Called(ctx, id, from, to, gatewayPaymentID)
	return args.Bool(0), args.Error(1)
}

// MockPricingRepository
type MockPricingRepository struct {
	mock.Mock
}

func (m *MockPricingRepository) Get(ctx context.Context) (*entity.PricingConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PricingConfig), args.Error(1)
}

func (m *MockPricingRepository) SetPrice(ctx context.Context, key string, amount decimal.Decimal, currency string) error {
	args := m.Called(ctx, key, amount, currency)
	return args.Error(0)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, input cashfree.CreateOrderInput) (*cashfree.OrderOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashfree.OrderOutput), args.Error(1)
}

func (m *MockGateway) GetOrder(ctx context.Context, orderID string) (*cashfree.OrderStatusOutput, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashfree.OrderStatusOutput), args.Error(1)
}

func (m *MockGateway) CreateRefund(ctx context.Context, input cashfree.RefundInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockGateway) CheckoutURL(sessionID string) string {
	return "https://payments-test.cashfree.com/order/#" + sessionID
}

func (m *MockGateway) VerifyWebhookSignature(rawBody []byte, signature, timestamp string) bool {
	args := m.Called(rawBody, signature, timestamp)
	return args.Bool(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

const testLeadID = "6f1c1f9e-4b7a-4c55-9a3e-2d7e8b1a0c11"

func testLead() *entity.Lead {
	return &entity.Lead{
		ID:     testLeadID,
		Name:   "Ana Souza",
		Email:  "ana@example.com",
		Source: entity.LeadSourceWorkshop,
		Status: entity.LeadStatusRegistered,
	}
}

func testPayment(status entity.PaymentStatus) *entity.Payment {
	p := entity.NewPayment(testLeadID, entity.PlanStarter, false, decimal.NewFromInt(2499), "INR")
	p.Status = status
	p.GatewayOrderID = "order_abc"
	p.GatewaySessionID = "session_abc"
	return p
}
