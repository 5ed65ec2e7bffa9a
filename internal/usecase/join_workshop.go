package usecase

import (
	"context"

	"github.com/xavierca1/workshop-payments/internal/entity"
)

// JoinWorkshopUseCase: inscrição + checkout do plano workshop. Lead que já tem
// pagamento recebe a resposta idempotente "already registered".
type JoinWorkshopUseCase struct {
	Leads    *RegisterLeadUseCase
	Checkout *InitiateCheckoutUseCase
}

func NewJoinWorkshopUseCase(leads *RegisterLeadUseCase, checkout *InitiateCheckoutUseCase) *JoinWorkshopUseCase {
	return &JoinWorkshopUseCase{Leads: leads, Checkout: checkout}
}

func (uc *JoinWorkshopUseCase) Execute(ctx context.Context, input JoinWorkshopInput) (*JoinWorkshopOutput, error) {
	input.Source = entity.LeadSourceWorkshop

	lead, err := uc.Leads.Register(ctx, input.LeadInput)
	if err != nil {
		return nil, err
	}

	out, err := uc.Checkout.Execute(ctx, CheckoutInput{
		LeadID:    lead.ID,
		Plan:      entity.PlanWorkshop,
		HasUpsell: input.HasUpsell,
	})
	if err != nil {
		return nil, err
	}

	return &JoinWorkshopOutput{Lead: lead, CheckoutOutput: *out}, nil
}
