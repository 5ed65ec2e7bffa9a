package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/infra/integration/cashfree"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

// TestVerifyPaymentPaid - poll confirma o pagamento quando o webhook não chegou
func TestVerifyPaymentPaid(t *testing.T) {
	m := newSettlementMocks()
	payment := testPayment(entity.PaymentStatusPending)

	m.payments.On("FindByGatewayOrderID", mock.Anything, "order_abc").Return(payment, nil)
	m.gateway.On("GetOrder", mock.Anything, "order_abc").
		Return(&cashfree.OrderStatusOutput{OrderID: "order_abc", OrderStatus: "PAID", GatewayPaymentID: "cf_1"}, nil)
	m.payments.On("TransitionStatus", mock.Anything, payment.ID, entity.PaymentStatusPending, entity.PaymentStatusSuccess, "cf_1").
		Return(true, nil)
	m.leads.On("MarkPaidIfPaymentSuccess", mock.Anything, testLeadID, payment.ID).Return(true, nil)
	m.leads.On("FindByID", mock.Anything, testLeadID).Return(testLead(), nil)
	m.notifier.On("Send", mock.Anything, "ana@example.com", mock.Anything, mock.Anything).Return(nil)

	out, err := m.verify().Execute(context.Background(), "order_abc")

	require.NoError(t, err)
	assert.True(t, out.Updated)
	assert.Equal(t, entity.PaymentStatusSuccess, out.Payment.Status)
	m.notifier.AssertNumberOfCalls(t, "Send", 1)
}

// TestVerifyPaymentGatewayDown - devolve o status local sem erro
func TestVerifyPaymentGatewayDown(t *testing.T) {
	m := newSettlementMocks()
	payment := testPayment(entity.PaymentStatusPending)

	m.payments.On("FindByGatewayOrderID", mock.Anything, "order_abc").Return(payment, nil)
	m.gateway.On("GetOrder", mock.Anything, "order_abc").Return(nil, cashfree.ErrUnavailable)

	out, err := m.verify().Execute(context.Background(), "order_abc")

	require.NoError(t, err)
	assert.False(t, out.Updated)
	assert.Equal(t, entity.PaymentStatusPending, out.Payment.Status)
}

func TestVerifyPaymentValidationAndNotFound(t *testing.T) {
	m := newSettlementMocks()
	m.payments.On("FindByGatewayOrderID", mock.Anything, "order_x").Return(nil, entity.ErrPaymentNotFound)

	_, err := m.verify().Execute(context.Background(), "  ")
	assert.Equal(t, usecase.CodeValidation, usecase.ErrorCode(err))

	_, err = m.verify().Execute(context.Background(), "order_x")
	assert.Equal(t, usecase.CodePaymentNotFound, usecase.ErrorCode(err))
	m.gateway.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
}

// TestWebhookAndVerifyAgree - o mesmo order_status produz o mesmo status local nos dois caminhos
func TestWebhookAndVerifyAgree(t *testing.T) {
	statuses := []string{"PAID", "ACTIVE", "FAILED", "CANCELLED", "EXPIRED", "TERMINATED", "paid"}

	for _, status := range statuses {
		t.Run(status, func(t *testing.T) {
			viaWebhook := settleVia(t, status, true)
			viaVerify := settleVia(t, status, false)
			assert.Equal(t, viaWebhook, viaVerify)
		})
	}
}

func settleVia(t *testing.T, orderStatus string, webhook bool) entity.PaymentStatus {
	t.Helper()

	m := newSettlementMocks()
	payment := testPayment(entity.PaymentStatusPending)

	m.payments.On("FindByGatewayOrderID", mock.Anything, "order_abc").Return(payment, nil)
	m.payments.On("TransitionStatus", mock.Anything, payment.ID, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	m.leads.On("MarkPaidIfPaymentSuccess", mock.Anything, testLeadID, payment.ID).Return(true, nil)
	m.leads.On("FindByID", mock.Anything, testLeadID).Return(testLead(), nil)
	m.notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.gateway.On("GetOrder", mock.Anything, "order_abc").
		Return(&cashfree.OrderStatusOutput{OrderID: "order_abc", OrderStatus: orderStatus}, nil)

	if webhook {
		_, err := m.webhook(false).Handle(context.Background(), usecase.WebhookEvent{OrderID: "order_abc", OrderStatus: orderStatus})
		require.NoError(t, err)
	} else {
		_, err := m.verify().Execute(context.Background(), "order_abc")
		require.NoError(t, err)
	}
	return payment.Status
}
