package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/workshop-payments/internal/entity"
)

type PricingRepository struct {
	DB *sql.DB
}

func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{DB: db}
}

// Get parte dos preços padrão e sobrescreve com o que estiver na tabela.
func (r *PricingRepository) Get(ctx context.Context) (*entity.PricingConfig, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT key, amount, currency, updated_at FROM pricing`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cfg := entity.DefaultPricing()
	for rows.Next() {
		var (
			key       string
			amount    decimal.Decimal
			cur       string
			updatedAt time.Time
		)
		if err := rows.Scan(&key, &amount, &cur, &updatedAt); err != nil {
			return nil, err
		}

		if key == entity.UpsellKey {
			cfg.Upsell = amount
		} else {
			cfg.Plans[entity.Plan(key)] = amount
		}
		if cur != "" {
			cfg.Currency = cur
		}
		if updatedAt.After(cfg.UpdatedAt) {
			cfg.UpdatedAt = updatedAt
		}
	}
	return cfg, rows.Err()
}

func (r *PricingRepository) SetPrice(ctx context.Context, key string, amount decimal.Decimal, currency string) error {
	query := `
		INSERT INTO pricing (key, amount, currency, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key)
		DO UPDATE SET amount = EXCLUDED.amount, currency = EXCLUDED.currency, updated_at = NOW()
	`
	_, err := r.DB.ExecContext(ctx, query, key, amount, currency)
	return err
}
