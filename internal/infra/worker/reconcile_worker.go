package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/logger"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

const defaultBatchSize = 50

type StalePaymentFinder interface {
	FindStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*entity.Payment, error)
}

type PaymentVerifier interface {
	Execute(ctx context.Context, orderID string) (*usecase.VerifyPaymentOutput, error)
}

// ReconcileWorker consulta o gateway para pendings antigos cujo webhook não chegou.
type ReconcileWorker struct {
	payments     StalePaymentFinder
	verifier     PaymentVerifier
	minAge       time.Duration
	tickInterval time.Duration
	batchSize    int
	now          func() time.Time
}

func NewReconcileWorker(payments StalePaymentFinder, verifier PaymentVerifier, interval, minAge time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		payments:     payments,
		verifier:     verifier,
		minAge:       minAge,
		tickInterval: interval,
		batchSize:    defaultBatchSize,
		now:          time.Now,
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	log := logger.WithComponent("reconcile")
	log.WithFields(logrus.Fields{
		"interval": w.tickInterval.String(),
		"min_age":  w.minAge.String(),
	}).Info("🕒 Reconcile Worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("⚠️ Reconcile Worker encerrado")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce processa um lote e devolve quantos pagamentos mudaram de status.
func (w *ReconcileWorker) RunOnce(ctx context.Context) int {
	log := logger.WithComponent("reconcile")

	stale, err := w.payments.FindStalePending(ctx, w.now().Add(-w.minAge), w.batchSize)
	if err != nil {
		log.WithError(err).Error("❌ Erro ao buscar pagamentos pendentes")
		return 0
	}

	updated := 0
	for _, p := range stale {
		if ctx.Err() != nil {
			break
		}

		out, err := w.verifier.Execute(ctx, p.GatewayOrderID)
		if err != nil {
			log.WithError(err).WithField("order_id", p.GatewayOrderID).Warn("⚠️ falha ao reconciliar pagamento")
			continue
		}
		if out.Updated {
			log.WithFields(logrus.Fields{
				"order_id": p.GatewayOrderID,
				"status":   out.Payment.Status,
				"elapsed":  time.Since(p.CreatedAt).Round(time.Minute).String(),
			}).Info("⏱️ pagamento reconciliado")
			updated++
		}
	}

	if updated > 0 {
		log.WithField("count", updated).Info("✅ pagamentos reconciliados")
	}
	return updated
}
