package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/infra/integration/cashfree"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

var (
	errRefundRaced   = errors.New("payment status changed during refund")
	errGatewayRefund = errors.New("gateway refund failed")
)

type RefundPaymentUseCase struct {
	PaymentRepo entity.PaymentRepositoryInterface
	LeadRepo    entity.LeadRepositoryInterface
	Gateway     PaymentGateway
	Options     GatewayOptions
}

func NewRefundPaymentUseCase(
	paymentRepo entity.PaymentRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
	gateway PaymentGateway,
	opts GatewayOptions,
) *RefundPaymentUseCase {
	return &RefundPaymentUseCase{
		PaymentRepo: paymentRepo,
		LeadRepo:    leadRepo,
		Gateway:     gateway,
		Options:     opts,
	}
}

// Execute: success -> refunded e lead paid -> registered. Com RemoteRefunds ligado,
// o estorno no gateway é o último passo; se falhar, os passos locais são compensados.
func (uc *RefundPaymentUseCase) Execute(ctx context.Context, paymentID string) (*RefundOutput, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, newValidationError([]ValidationError{{Field: "payment_id", Message: "is required"}})
	}

	payment, err := uc.PaymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, entity.ErrPaymentNotFound) {
			return nil, paymentNotFound(err)
		}
		return nil, databaseError("falha ao buscar pagamento", err)
	}

	if payment.Status != entity.PaymentStatusSuccess {
		return nil, cannotRefund(payment.Status)
	}

	log := logger.WithComponent("refund").WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"lead_id":    payment.LeadID,
		"order_id":   payment.GatewayOrderID,
	})

	leadReverted := false
	txn := NewTransaction()

	txn.AddOperation("mark_payment_refunded", func(ctx context.Context) error {
		ok, err := uc.PaymentRepo.TransitionStatus(ctx, payment.ID, entity.PaymentStatusSuccess, entity.PaymentStatusRefunded, "")
		if err != nil {
			return err
		}
		if !ok {
			return errRefundRaced
		}
		return nil
	})
	txn.AddCompensation("restore_payment_success", func(ctx context.Context) error {
		_, err := uc.PaymentRepo.TransitionStatus(ctx, payment.ID, entity.PaymentStatusRefunded, entity.PaymentStatusSuccess, "")
		return err
	})

	txn.AddOperation("revert_lead_registered", func(ctx context.Context) error {
		ok, err := uc.LeadRepo.TransitionStatus(ctx, payment.LeadID, []entity.LeadStatus{entity.LeadStatusPaid}, entity.LeadStatusRegistered)
		leadReverted = ok
		return err
	})
	txn.AddCompensation("restore_lead_paid", func(ctx context.Context) error {
		if !leadReverted {
			return nil
		}
		_, err := uc.LeadRepo.TransitionStatus(ctx, payment.LeadID, []entity.LeadStatus{entity.LeadStatusRegistered}, entity.LeadStatusPaid)
		return err
	})

	if uc.Options.RemoteRefunds && payment.HasGatewayOrder() {
		txn.AddOperation("gateway_refund", func(ctx context.Context) error {
			err := uc.Gateway.CreateRefund(ctx, cashfree.RefundInput{
				OrderID:  payment.GatewayOrderID,
				RefundID: "refund_" + strings.ReplaceAll(payment.ID, "-", ""),
				Amount:   payment.Amount.InexactFloat64(),
				Note:     "workshop refund",
			})
			if err != nil {
				return fmt.Errorf("%w: %w", errGatewayRefund, err)
			}
			return nil
		})
	}

	if err := txn.Execute(ctx); err != nil {
		switch {
		case errors.Is(err, errRefundRaced):
			return nil, cannotRefund("changed")
		case errors.Is(err, errGatewayRefund):
			log.WithError(err).Warn("⚠️ estorno no gateway falhou, alterações locais desfeitas")
			return nil, gatewayUnavailable(err)
		default:
			log.WithError(err).Error("❌ falha ao estornar pagamento")
			return nil, databaseError("falha ao estornar pagamento", err)
		}
	}

	payment.Status = entity.PaymentStatusRefunded
	log.Info("💸 pagamento estornado")

	return &RefundOutput{Payment: payment, LeadStatus: entity.LeadStatusRegistered}, nil
}

func cannotRefund(status entity.PaymentStatus) error {
	return &DomainError{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("cannot refund: payment status is %s (only success can be refunded)", status),
	}
}
