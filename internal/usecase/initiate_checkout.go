package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/infra/integration/cashfree"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

type InitiateCheckoutUseCase struct {
	LeadRepo    entity.LeadRepositoryInterface
	PaymentRepo entity.PaymentRepositoryInterface
	PricingRepo entity.PricingRepositoryInterface
	Gateway     PaymentGateway
	Options     GatewayOptions
}

func NewInitiateCheckoutUseCase(
	leadRepo entity.LeadRepositoryInterface,
	paymentRepo entity.PaymentRepositoryInterface,
	pricingRepo entity.PricingRepositoryInterface,
	gateway PaymentGateway,
	opts GatewayOptions,
) *InitiateCheckoutUseCase {
	return &InitiateCheckoutUseCase{
		LeadRepo:    leadRepo,
		PaymentRepo: paymentRepo,
		PricingRepo: pricingRepo,
		Gateway:     gateway,
		Options:     opts,
	}
}

func (uc *InitiateCheckoutUseCase) Execute(ctx context.Context, input CheckoutInput) (*CheckoutOutput, error) {
	if errs := ValidateCheckoutInput(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	lead, err := uc.LeadRepo.FindByID(ctx, input.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, leadNotFound(err)
		}
		return nil, databaseError("falha ao buscar lead", err)
	}

	// Lead que já tem pagamento: resposta idempotente, sem nova cobrança.
	if out, handled, err := uc.resumeExisting(ctx, lead); handled {
		return out, err
	}

	// Preço sempre lido do registro persistido, nunca de estado global.
	pricing, err := uc.PricingRepo.Get(ctx)
	if err != nil {
		return nil, databaseError("falha ao carregar preços", err)
	}
	amount, err := pricing.Amount(input.Plan, input.HasUpsell)
	if err != nil {
		return nil, newValidationError([]ValidationError{{Field: "plan", Message: "has no price configured"}})
	}

	payment := entity.NewPayment(lead.ID, input.Plan, input.HasUpsell, amount, pricing.Currency)
	if err := uc.PaymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, entity.ErrPaymentExists) {
			// Outro checkout do mesmo lead ganhou a corrida.
			if out, handled, rerr := uc.resumeExisting(ctx, lead); handled {
				return out, rerr
			}
		}
		return nil, databaseError("falha ao criar pagamento", err)
	}

	logger.WithComponent("checkout").WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"lead_id":    lead.ID,
		"plan":       payment.Plan,
		"amount":     payment.Amount.String(),
	}).Info("pagamento criado em pending")

	return uc.openGatewayOrder(ctx, lead, payment, false)
}

// resumeExisting trata o lead que já possui pagamento. handled=false libera uma nova tentativa
// (último pagamento failed/refunded ou inexistente).
func (uc *InitiateCheckoutUseCase) resumeExisting(ctx context.Context, lead *entity.Lead) (*CheckoutOutput, bool, error) {
	existing, err := uc.PaymentRepo.FindLatestByLeadID(ctx, lead.ID)
	if err != nil {
		if errors.Is(err, entity.ErrPaymentNotFound) {
			return nil, false, nil
		}
		return nil, true, databaseError("falha ao buscar pagamento do lead", err)
	}

	switch existing.Status {
	case entity.PaymentStatusSuccess:
		return &CheckoutOutput{
			Payment:           existing,
			AlreadyRegistered: true,
			Msg:               "Você já está inscrito.",
		}, true, nil

	case entity.PaymentStatusPending:
		if existing.HasGatewayOrder() {
			return &CheckoutOutput{
				Payment:           existing,
				CheckoutURL:       uc.Gateway.CheckoutURL(existing.GatewaySessionID),
				AlreadyRegistered: true,
				Msg:               "Pagamento pendente já existe para este lead.",
			}, true, nil
		}
		// Tentativa anterior ficou sem order (gateway caiu): reabre a order na mesma payment.
		out, err := uc.openGatewayOrder(ctx, lead, existing, true)
		return out, true, err
	}

	return nil, false, nil
}

func (uc *InitiateCheckoutUseCase) openGatewayOrder(ctx context.Context, lead *entity.Lead, payment *entity.Payment, alreadyRegistered bool) (*CheckoutOutput, error) {
	log := logger.WithComponent("checkout").WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"lead_id":    lead.ID,
	})

	order, err := uc.Gateway.CreateOrder(ctx, cashfree.CreateOrderInput{
		OrderID:  NewOrderID(),
		Amount:   payment.Amount.InexactFloat64(),
		Currency: payment.Currency,
		Customer: cashfree.CustomerDetails{
			ID:    lead.ID,
			Name:  lead.Name,
			Email: lead.Email,
			Phone: lead.Phone,
		},
		ReturnURL: uc.Options.ReturnURL,
		NotifyURL: uc.Options.NotifyURL,
		Note:      fmt.Sprintf("%s plan", payment.Plan),
	})
	if err != nil {
		// A payment continua pending e sem order: o cliente pode tentar de novo.
		log.WithError(err).Warn("⚠️ gateway indisponível ao criar order")
		return nil, gatewayUnavailable(err)
	}

	if err := uc.PaymentRepo.AttachGatewayOrder(ctx, payment.ID, order.GatewayOrderID, order.PaymentSessionID); err != nil {
		if errors.Is(err, entity.ErrGatewayOrderAttached) {
			current, ferr := uc.PaymentRepo.FindByID(ctx, payment.ID)
			if ferr != nil {
				return nil, databaseError("falha ao recarregar pagamento", ferr)
			}
			return &CheckoutOutput{
				Payment:           current,
				CheckoutURL:       uc.Gateway.CheckoutURL(current.GatewaySessionID),
				AlreadyRegistered: true,
				Msg:               "Pagamento pendente já existe para este lead.",
			}, nil
		}
		return nil, databaseError("falha ao salvar order do gateway", err)
	}

	payment.GatewayOrderID = order.GatewayOrderID
	payment.GatewaySessionID = order.PaymentSessionID

	log.WithField("order_id", order.GatewayOrderID).Info("🧾 order criada no gateway")

	return &CheckoutOutput{
		Payment:           payment,
		CheckoutURL:       uc.Gateway.CheckoutURL(order.PaymentSessionID),
		AlreadyRegistered: alreadyRegistered,
		Msg:               "Checkout criado com sucesso!",
	}, nil
}

// NewOrderID gera o identificador de order enviado ao gateway (chave de idempotência).
func NewOrderID() string {
	return "order_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
