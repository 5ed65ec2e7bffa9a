package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `id, lead_id, amount, currency, plan, has_upsell,
	COALESCE(gateway_order_id, ''), COALESCE(gateway_session_id, ''), COALESCE(gateway_payment_id, ''),
	status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, lead_id, amount, currency, plan, has_upsell, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.LeadID,
		p.Amount,
		p.Currency,
		p.Plan,
		p.HasUpsell,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrPaymentExists
		}
		logger.WithComponent("database").WithError(err).WithField("payment_id", p.ID).Error("erro ao criar pagamento")
		return fmt.Errorf("falha ao criar pagamento: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	return scanPayment(row)
}

func (r *PaymentRepository) FindByGatewayOrderID(ctx context.Context, orderID string) (*entity.Payment, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE gateway_order_id = $1`, orderID)
	return scanPayment(row)
}

func (r *PaymentRepository) FindLatestByLeadID(ctx context.Context, leadID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE lead_id = $1 ORDER BY created_at DESC LIMIT 1`
	return scanPayment(r.DB.QueryRowContext(ctx, query, leadID))
}

// FindStalePending lista pendings com order aberta há mais tempo que olderThan (para o sweeper).
func (r *PaymentRepository) FindStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status = 'pending'
		  AND gateway_order_id IS NOT NULL
		  AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) AttachGatewayOrder(ctx context.Context, id, orderID, sessionID string) error {
	query := `
		UPDATE payments
		SET gateway_order_id = $1, gateway_session_id = $2, updated_at = NOW()
		WHERE id = $3 AND gateway_order_id IS NULL
	`

	res, err := r.DB.ExecContext(ctx, query, orderID, sessionID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return entity.ErrPaymentNotFound
	}
	return entity.ErrGatewayOrderAttached
}

// TransitionStatus: UPDATE condicional no status atual (compare-and-swap).
func (r *PaymentRepository) TransitionStatus(ctx context.Context, id string, from, to entity.PaymentStatus, gatewayPaymentID string) (bool, error) {
	query := `
		UPDATE payments
		SET status = $1,
		    gateway_payment_id = COALESCE(NULLIF($2, ''), gateway_payment_id),
		    updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	res, err := r.DB.ExecContext(ctx, query, to, gatewayPaymentID, id, from)
	if err != nil {
		if isUniqueViolation(err) {
			// refunded -> success com outro pagamento aberto para o lead
			return false, entity.ErrPaymentExists
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanPayment(row rowScanner) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.LeadID,
		&p.Amount,
		&p.Currency,
		&p.Plan,
		&p.HasUpsell,
		&p.GatewayOrderID,
		&p.GatewaySessionID,
		&p.GatewayPaymentID,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}
