package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/xavierca1/workshop-payments/internal/entity"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

const uniqueViolation = "23505"

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, name, email, COALESCE(company, ''), COALESCE(phone, ''), COALESCE(use_case, ''), source, status, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, company, phone, use_case, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		nullString(lead.Company),
		nullString(lead.Phone),
		nullString(lead.UseCase),
		lead.Source,
		lead.Status,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		logger.WithComponent("database").WithError(err).Error("erro ao criar lead")
		return err
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE email = $1`, email)
	return scanLead(row)
}

// Upsert grava por email. Campos vazios não apagam os existentes e o status
// (assim como id e source) do lead já salvo é devolvido no próprio lead.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, company, phone, use_case, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), leads.name),
			company = COALESCE(EXCLUDED.company, leads.company),
			phone = COALESCE(EXCLUDED.phone, leads.phone),
			use_case = COALESCE(EXCLUDED.use_case, leads.use_case),
			updated_at = NOW()
		RETURNING id, source, status, created_at, updated_at
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Name,
		lead.Email,
		nullString(lead.Company),
		nullString(lead.Phone),
		nullString(lead.UseCase),
		lead.Source,
		lead.Status,
	).Scan(
		&lead.ID,
		&lead.Source,
		&lead.Status,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
}

func (r *LeadRepository) TransitionStatus(ctx context.Context, id string, from []entity.LeadStatus, to entity.LeadStatus) (bool, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2 AND status = ANY($3)`,
		to, id, pq.Array(allowed),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *LeadRepository) MarkPaidIfPaymentSuccess(ctx context.Context, leadID, paymentID string) (bool, error) {
	query := `
		UPDATE leads SET status = $1, updated_at = NOW()
		WHERE id = $2
		  AND status = ANY($3)
		  AND EXISTS (
			SELECT 1 FROM payments p
			WHERE p.id = $4 AND p.lead_id = $2 AND p.status = $5
		  )`

	res, err := r.DB.ExecContext(ctx, query,
		entity.LeadStatusPaid,
		leadID,
		pq.Array([]string{string(entity.LeadStatusNew), string(entity.LeadStatusRegistered)}),
		paymentID,
		entity.PaymentStatusSuccess,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanLead(row *sql.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Email,
		&l.Company,
		&l.Phone,
		&l.UseCase,
		&l.Source,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}
	return &l, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
