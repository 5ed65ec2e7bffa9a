package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/workshop-payments/internal/entity"
)

// PaymentStatusUseCase devolve o último pagamento do lead (página do aluno).
type PaymentStatusUseCase struct {
	PaymentRepo entity.PaymentRepositoryInterface
}

func NewPaymentStatusUseCase(repo entity.PaymentRepositoryInterface) *PaymentStatusUseCase {
	return &PaymentStatusUseCase{PaymentRepo: repo}
}

type paymentStatusInput struct {
	LeadID string `json:"lead_id" validate:"required,uuid"`
}

func (uc *PaymentStatusUseCase) Execute(ctx context.Context, leadID string) (*entity.Payment, error) {
	if errs := validateStruct(paymentStatusInput{LeadID: leadID}); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	payment, err := uc.PaymentRepo.FindLatestByLeadID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrPaymentNotFound) {
			return nil, paymentNotFound(err)
		}
		return nil, databaseError("falha ao buscar pagamento", err)
	}
	return payment, nil
}
