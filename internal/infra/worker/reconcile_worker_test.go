package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

type MockFinder struct {
	mock.Mock
}

func (m *MockFinder) FindStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*entity.Payment, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Payment), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Execute(ctx context.Context, orderID string) (*usecase.VerifyPaymentOutput, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.VerifyPaymentOutput), args.Error(1)
}

func pendingPayment(orderID string) *entity.Payment {
	p := entity.NewPayment("lead-1", entity.PlanStarter, false, decimal.NewFromInt(2499), "INR")
	p.GatewayOrderID = orderID
	return p
}

// TestReconcileWorkerRunOnce - só conta o que mudou; erro num pagamento não para o lote
func TestReconcileWorkerRunOnce(t *testing.T) {
	finder := new(MockFinder)
	verifier := new(MockVerifier)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	paid := pendingPayment("order_paid")
	finder.On("FindStalePending", mock.Anything, now.Add(-15*time.Minute), defaultBatchSize).
		Return([]*entity.Payment{paid, pendingPayment("order_down"), pendingPayment("order_active")}, nil)

	settled := *paid
	settled.Status = entity.PaymentStatusSuccess
	verifier.On("Execute", mock.Anything, "order_paid").Return(&usecase.VerifyPaymentOutput{Payment: &settled, Updated: true}, nil)
	verifier.On("Execute", mock.Anything, "order_down").Return(nil, errors.New("db down"))
	verifier.On("Execute", mock.Anything, "order_active").Return(&usecase.VerifyPaymentOutput{Payment: pendingPayment("order_active")}, nil)

	w := NewReconcileWorker(finder, verifier, time.Minute, 15*time.Minute)
	w.now = func() time.Time { return now }

	assert.Equal(t, 1, w.RunOnce(context.Background()))
	verifier.AssertNumberOfCalls(t, "Execute", 3)
}

func TestReconcileWorkerFinderError(t *testing.T) {
	finder := new(MockFinder)
	verifier := new(MockVerifier)
	finder.On("FindStalePending", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	w := NewReconcileWorker(finder, verifier, time.Minute, time.Minute)

	assert.Equal(t, 0, w.RunOnce(context.Background()))
	verifier.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestReconcileWorkerStopsOnCancel(t *testing.T) {
	finder := new(MockFinder)
	finder.On("FindStalePending", mock.Anything, mock.Anything, mock.Anything).Return([]*entity.Payment{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewReconcileWorker(finder, new(MockVerifier), time.Hour, time.Minute).Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker não encerrou após cancel")
	}
}
