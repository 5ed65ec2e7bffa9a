package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

// PricingUseCase administra o registro de preços persistido.
type PricingUseCase struct {
	PricingRepo entity.PricingRepositoryInterface
}

func NewPricingUseCase(repo entity.PricingRepositoryInterface) *PricingUseCase {
	return &PricingUseCase{PricingRepo: repo}
}

func (uc *PricingUseCase) Get(ctx context.Context) (*entity.PricingConfig, error) {
	cfg, err := uc.PricingRepo.Get(ctx)
	if err != nil {
		return nil, databaseError("falha ao carregar preços", err)
	}
	return cfg, nil
}

func (uc *PricingUseCase) UpdatePrice(ctx context.Context, input UpdatePriceInput) (*entity.PricingConfig, error) {
	key := strings.ToLower(strings.TrimSpace(input.Key))
	if key != entity.UpsellKey && !entity.Plan(key).Valid() {
		return nil, newValidationError([]ValidationError{{Field: "key", Message: "must be a plan or upsell"}})
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil || !amount.IsPositive() {
		return nil, newValidationError([]ValidationError{{Field: "amount", Message: "must be a positive decimal"}})
	}

	current, err := uc.PricingRepo.Get(ctx)
	if err != nil {
		return nil, databaseError("falha ao carregar preços", err)
	}

	if err := uc.PricingRepo.SetPrice(ctx, key, amount, current.Currency); err != nil {
		return nil, databaseError("falha ao salvar preço", err)
	}

	logger.WithComponent("pricing").WithField("key", key).WithField("amount", amount.String()).Info("preço atualizado")
	return uc.Get(ctx)
}
