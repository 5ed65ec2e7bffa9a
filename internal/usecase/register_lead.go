package usecase

import (
	"context"

	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

type RegisterLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
}

func NewRegisterLeadUseCase(leadRepo entity.LeadRepositoryInterface) *RegisterLeadUseCase {
	return &RegisterLeadUseCase{LeadRepo: leadRepo}
}

// Capture grava o lead dos formulários (landing/audit). Nunca rebaixa status existente.
func (uc *RegisterLeadUseCase) Capture(ctx context.Context, input LeadInput) (*entity.Lead, error) {
	if input.Source == "" {
		input.Source = entity.LeadSourceLanding
	}
	return uc.upsert(ctx, input)
}

// Register é a inscrição: além do upsert, avança new -> registered.
func (uc *RegisterLeadUseCase) Register(ctx context.Context, input LeadInput) (*entity.Lead, error) {
	if input.Source == "" {
		input.Source = entity.LeadSourceWorkshop
	}

	lead, err := uc.upsert(ctx, input)
	if err != nil {
		return nil, err
	}

	if lead.Status == entity.LeadStatusNew {
		ok, err := uc.LeadRepo.TransitionStatus(ctx, lead.ID, []entity.LeadStatus{entity.LeadStatusNew}, entity.LeadStatusRegistered)
		if err != nil {
			return nil, databaseError("falha ao registrar lead", err)
		}
		if ok {
			lead.Status = entity.LeadStatusRegistered
		}
	}
	return lead, nil
}

func (uc *RegisterLeadUseCase) upsert(ctx context.Context, input LeadInput) (*entity.Lead, error) {
	if errs := ValidateLeadInput(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	lead, err := entity.NewLead(input.Name, input.Email, input.Source)
	if err != nil {
		return nil, newValidationError([]ValidationError{{Field: "lead", Message: err.Error()}})
	}
	lead.Company = input.Company
	lead.Phone = input.Phone
	lead.UseCase = input.UseCase

	if err := uc.LeadRepo.Upsert(ctx, lead); err != nil {
		return nil, databaseError("falha ao salvar lead", err)
	}

	logger.WithComponent("leads").WithField("lead_id", lead.ID).WithField("source", lead.Source).Info("lead capturado")
	return lead, nil
}
