package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/infra/mail"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

const notifyTimeout = 10 * time.Second

// Settlement aplica o status do gateway à payment local. Webhook e verificação
// passam pelo mesmo Apply, então o mapeamento nunca diverge entre os dois caminhos.
type Settlement struct {
	LeadRepo    entity.LeadRepositoryInterface
	PaymentRepo entity.PaymentRepositoryInterface
	Notifier    Notifier
}

func NewSettlement(
	leadRepo entity.LeadRepositoryInterface,
	paymentRepo entity.PaymentRepositoryInterface,
	notifier Notifier,
) *Settlement {
	return &Settlement{
		LeadRepo:    leadRepo,
		PaymentRepo: paymentRepo,
		Notifier:    notifier,
	}
}

// Apply retorna updated=true apenas para quem efetivamente gravou a transição.
// Status desconhecido, repetido ou fora das arestas permitidas é no-op.
func (s *Settlement) Apply(ctx context.Context, payment *entity.Payment, orderStatus, gatewayPaymentID string) (bool, error) {
	log := logger.WithComponent("settlement").WithFields(logrus.Fields{
		"payment_id":   payment.ID,
		"order_id":     payment.GatewayOrderID,
		"order_status": orderStatus,
		"status":       payment.Status,
	})

	target, ok := entity.MapGatewayStatus(orderStatus)
	if !ok {
		log.Debug("order_status sem efeito no pagamento")
		return false, nil
	}

	if payment.Status == target {
		// Entrega repetida. Só garante o lead pago, sem reenviar email.
		if target == entity.PaymentStatusSuccess {
			s.markLeadPaid(ctx, payment, log)
		}
		return false, nil
	}

	if !payment.Status.CanTransitionTo(target) {
		log.WithField("target", target).Info("transição ignorada (fora de ordem ou estado terminal)")
		return false, nil
	}

	swapped, err := s.PaymentRepo.TransitionStatus(ctx, payment.ID, payment.Status, target, gatewayPaymentID)
	if err != nil {
		return false, databaseError("falha ao atualizar status do pagamento", err)
	}
	if !swapped {
		// Outra entrega (webhook ou poll) chegou primeiro.
		log.WithField("target", target).Info("status já alterado por outra requisição")
		if current, ferr := s.PaymentRepo.FindByID(ctx, payment.ID); ferr == nil {
			*payment = *current
		}
		return false, nil
	}

	payment.Status = target
	payment.UpdatedAt = time.Now()
	if gatewayPaymentID != "" {
		payment.GatewayPaymentID = gatewayPaymentID
	}
	log.WithField("target", target).Info("✅ pagamento atualizado")

	if target == entity.PaymentStatusSuccess {
		s.markLeadPaid(ctx, payment, log)
		s.notifyConfirmation(ctx, payment, log)
	}

	return true, nil
}

// markLeadPaid só escreve enquanto a payment seguir success no banco; se um
// estorno já gravou refunded, o lead continua registered.
func (s *Settlement) markLeadPaid(ctx context.Context, payment *entity.Payment, log *logrus.Entry) {
	ok, err := s.LeadRepo.MarkPaidIfPaymentSuccess(ctx, payment.LeadID, payment.ID)
	if err != nil {
		log.WithError(err).WithField("lead_id", payment.LeadID).Error("falha ao marcar lead como paid")
		return
	}
	if !ok {
		log.WithField("lead_id", payment.LeadID).Debug("lead já paid ou payment não está mais success")
	}
}

// notifyConfirmation é best-effort: erro é logado e nunca sobe.
func (s *Settlement) notifyConfirmation(ctx context.Context, payment *entity.Payment, log *logrus.Entry) {
	if s.Notifier == nil {
		return
	}

	lead, err := s.LeadRepo.FindByID(ctx, payment.LeadID)
	if err != nil || lead.Email == "" {
		log.WithError(err).WithField("lead_id", payment.LeadID).Warn("lead sem email, confirmação não enviada")
		return
	}

	html, err := mail.RenderPaymentConfirmation(mail.ConfirmationEmailData{
		Name:      lead.Name,
		Plan:      string(payment.Plan),
		Amount:    payment.Amount.String(),
		Currency:  payment.Currency,
		OrderID:   payment.GatewayOrderID,
		PaymentID: payment.GatewayPaymentID,
	})
	if err != nil {
		log.WithError(err).Warn("⚠️ falha ao montar email de confirmação")
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.Notifier.Send(notifyCtx, lead.Email, mail.ConfirmationSubject(string(payment.Plan)), html); err != nil {
		log.WithError(err).Warn("⚠️ falha ao enviar confirmação (pagamento segue confirmado)")
		return
	}
	log.Info("📧 confirmação enviada")
}
