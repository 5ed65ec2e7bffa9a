package entity

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrPlanNotFound = errors.New("plano não encontrado")

// UpsellKey é a linha de preço do adicional na tabela pricing.
const UpsellKey = "upsell"

const DefaultCurrency = "INR"

// PricingConfig é o registro de preços persistido, lido a cada checkout.
type PricingConfig struct {
	Currency  string                   `json:"currency"`
	Plans     map[Plan]decimal.Decimal `json:"plans"`
	Upsell    decimal.Decimal          `json:"upsell"`
	UpdatedAt time.Time                `json:"updated_at"`
}

func DefaultPricing() *PricingConfig {
	return &PricingConfig{
		Currency: DefaultCurrency,
		Plans: map[Plan]decimal.Decimal{
			PlanStarter:  decimal.NewFromInt(2499),
			PlanPro:      decimal.NewFromInt(4999),
			PlanBusiness: decimal.NewFromInt(9999),
			PlanWorkshop: decimal.NewFromInt(2499),
		},
		Upsell: decimal.NewFromInt(999),
	}
}

func (c *PricingConfig) BasePrice(plan Plan) (decimal.Decimal, error) {
	price, ok := c.Plans[plan]
	if !ok {
		return decimal.Zero, ErrPlanNotFound
	}
	return price, nil
}

// Amount = base_price(plan) + upsell (quando contratado).
func (c *PricingConfig) Amount(plan Plan, hasUpsell bool) (decimal.Decimal, error) {
	price, err := c.BasePrice(plan)
	if err != nil {
		return decimal.Zero, err
	}
	if hasUpsell {
		price = price.Add(c.Upsell)
	}
	return price, nil
}

type PricingRepositoryInterface interface {
	Get(ctx context.Context) (*PricingConfig, error)
	SetPrice(ctx context.Context, key string, amount decimal.Decimal, currency string) error
}
