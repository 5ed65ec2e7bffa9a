package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

// VerifyPaymentUseCase é o poll do cliente (página de retorno) quando o webhook ainda não chegou.
type VerifyPaymentUseCase struct {
	PaymentRepo entity.PaymentRepositoryInterface
	Gateway     PaymentGateway
	Settlement  *Settlement
}

func NewVerifyPaymentUseCase(
	paymentRepo entity.PaymentRepositoryInterface,
	gateway PaymentGateway,
	settlement *Settlement,
) *VerifyPaymentUseCase {
	return &VerifyPaymentUseCase{
		PaymentRepo: paymentRepo,
		Gateway:     gateway,
		Settlement:  settlement,
	}
}

func (uc *VerifyPaymentUseCase) Execute(ctx context.Context, orderID string) (*VerifyPaymentOutput, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, newValidationError([]ValidationError{{Field: "order_id", Message: "is required"}})
	}

	payment, err := uc.PaymentRepo.FindByGatewayOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, entity.ErrPaymentNotFound) {
			return nil, paymentNotFound(err)
		}
		return nil, databaseError("falha ao buscar pagamento", err)
	}

	remote, err := uc.Gateway.GetOrder(ctx, orderID)
	if err != nil {
		// Status local possivelmente desatualizado é aceitável aqui.
		logger.WithComponent("verify").WithError(err).WithField("order_id", orderID).
			Warn("⚠️ gateway indisponível, devolvendo status local")
		return &VerifyPaymentOutput{Payment: payment}, nil
	}

	updated, err := uc.Settlement.Apply(ctx, payment, remote.OrderStatus, remote.GatewayPaymentID)
	if err != nil {
		return nil, err
	}

	return &VerifyPaymentOutput{Payment: payment, Updated: updated}, nil
}
