package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/workshop-payments/internal/entity"
)

var paymentCols = []string{
	"id", "lead_id", "amount", "currency", "plan", "has_upsell",
	"gateway_order_id", "gateway_session_id", "gateway_payment_id",
	"status", "created_at", "updated_at",
}

func setupMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}

func TestPaymentRepositoryCreateOpenPaymentExists(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	p := entity.NewPayment("lead-1", entity.PlanStarter, false, decimal.NewFromInt(2499), "INR")
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "payments_open_per_lead_idx"})

	err := NewPaymentRepository(db).Create(context.Background(), p)

	assert.ErrorIs(t, err, entity.ErrPaymentExists)
}

func TestPaymentRepositoryFindByGatewayOrderID(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM payments WHERE gateway_order_id = \$1`).
		WithArgs("order_1").
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow("pay-1", "lead-1", "3498.00", "INR", "starter", true, "order_1", "session_1", "", "pending", now, now))

	p, err := NewPaymentRepository(db).FindByGatewayOrderID(context.Background(), "order_1")

	require.NoError(t, err)
	assert.Equal(t, "pay-1", p.ID)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(3498)))
	assert.Equal(t, entity.PaymentStatusPending, p.Status)
	assert.Equal(t, "session_1", p.GatewaySessionID)
	assert.True(t, p.HasUpsell)
}

func TestPaymentRepositoryFindNotFound(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	mock.ExpectQuery(`SELECT .+ FROM payments WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(paymentCols))

	_, err := NewPaymentRepository(db).FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, entity.ErrPaymentNotFound)
}

// TestPaymentRepositoryTransitionStatus - compare-and-swap pelo status atual
func TestPaymentRepositoryTransitionStatus(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	repo := NewPaymentRepository(db)

	mock.ExpectExec(`UPDATE payments\s+SET status = \$1`).
		WithArgs(entity.PaymentStatusSuccess, "cf_1", "pay-1", entity.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE payments\s+SET status = \$1`).
		WithArgs(entity.PaymentStatusSuccess, "cf_1", "pay-1", entity.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.TransitionStatus(context.Background(), "pay-1", entity.PaymentStatusPending, entity.PaymentStatusSuccess, "cf_1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TransitionStatus(context.Background(), "pay-1", entity.PaymentStatusPending, entity.PaymentStatusSuccess, "cf_1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPaymentRepositoryAttachGatewayOrder(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	repo := NewPaymentRepository(db)

	mock.ExpectExec(`UPDATE payments\s+SET gateway_order_id`).
		WithArgs("order_1", "session_1", "pay-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.AttachGatewayOrder(context.Background(), "pay-1", "order_1", "session_1"))

	// já tinha order
	mock.ExpectExec(`UPDATE payments\s+SET gateway_order_id`).
		WithArgs("order_2", "session_2", "pay-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.AttachGatewayOrder(context.Background(), "pay-1", "order_2", "session_2")
	assert.ErrorIs(t, err, entity.ErrGatewayOrderAttached)
}

func TestPaymentRepositoryFindStalePending(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	now := time.Now()
	cutoff := now.Add(-15 * time.Minute)
	mock.ExpectQuery(`WHERE status = 'pending'`).
		WithArgs(cutoff, 50).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow("pay-1", "lead-1", "2499", "INR", "starter", false, "order_1", "s1", "", "pending", cutoff, cutoff).
			AddRow("pay-2", "lead-2", "4999", "INR", "pro", false, "order_2", "s2", "", "pending", cutoff, cutoff))

	payments, err := NewPaymentRepository(db).FindStalePending(context.Background(), cutoff, 50)

	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "order_2", payments[1].GatewayOrderID)
}

func TestLeadRepositoryUpsertReturnsStoredStatus(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	lead, err := entity.NewLead("Ana", "ana@example.com", entity.LeadSourceLanding)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO leads .+ ON CONFLICT \(email\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "source", "status", "created_at", "updated_at"}).
			AddRow("lead-existing", "workshop", "paid", now, now))

	require.NoError(t, NewLeadRepository(db).Upsert(context.Background(), lead))
	assert.Equal(t, "lead-existing", lead.ID)
	assert.Equal(t, entity.LeadStatusPaid, lead.Status)
	assert.Equal(t, entity.LeadSourceWorkshop, lead.Source)
}

func TestLeadRepositoryTransitionStatus(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	mock.ExpectExec(`UPDATE leads SET status = \$1`).
		WithArgs(entity.LeadStatusPaid, "lead-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := NewLeadRepository(db).TransitionStatus(context.Background(), "lead-1",
		[]entity.LeadStatus{entity.LeadStatusNew, entity.LeadStatusRegistered}, entity.LeadStatusPaid)

	require.NoError(t, err)
	assert.True(t, ok)
}

// TestLeadRepositoryMarkPaidIfPaymentSuccess - a escrita do lead depende da payment em success
func TestLeadRepositoryMarkPaidIfPaymentSuccess(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	query := `(?s)UPDATE leads SET status = \$1.*AND status = ANY\(\$3\).*EXISTS \(\s*SELECT 1 FROM payments p\s*WHERE p.id = \$4 AND p.lead_id = \$2 AND p.status = \$5`

	mock.ExpectExec(query).
		WithArgs(entity.LeadStatusPaid, "lead-1", sqlmock.AnyArg(), "pay-1", entity.PaymentStatusSuccess).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs(entity.LeadStatusPaid, "lead-1", sqlmock.AnyArg(), "pay-1", entity.PaymentStatusSuccess).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewLeadRepository(db)

	ok, err := repo.MarkPaidIfPaymentSuccess(context.Background(), "lead-1", "pay-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// payment já estornada: nenhuma linha
	ok, err = repo.MarkPaidIfPaymentSuccess(context.Background(), "lead-1", "pay-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLeadRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	mock.ExpectQuery(`FROM leads WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewLeadRepository(db).FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

// TestPricingRepositoryGet - linhas da tabela sobrescrevem os padrões
func TestPricingRepositoryGet(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	now := time.Now()
	mock.ExpectQuery(`SELECT key, amount, currency, updated_at FROM pricing`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "amount", "currency", "updated_at"}).
			AddRow("pro", "5999.00", "INR", now).
			AddRow("upsell", "1499", "INR", now))

	cfg, err := NewPricingRepository(db).Get(context.Background())

	require.NoError(t, err)
	assert.True(t, cfg.Plans[entity.PlanPro].Equal(decimal.NewFromInt(5999)))
	assert.True(t, cfg.Plans[entity.PlanStarter].Equal(decimal.NewFromInt(2499)))
	assert.True(t, cfg.Upsell.Equal(decimal.NewFromInt(1499)))
	assert.Equal(t, "INR", cfg.Currency)
}

func TestPricingRepositorySetPrice(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	mock.ExpectExec(`INSERT INTO pricing`).
		WithArgs("upsell", sqlmock.AnyArg(), "INR").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewPricingRepository(db).SetPrice(context.Background(), "upsell", decimal.NewFromInt(1299), "INR")
	assert.NoError(t, err)
}

// TestPricingRepositorySetPriceKeepsScale - o texto gravado é o decimal exato, sem arredondar
func TestPricingRepositorySetPriceKeepsScale(t *testing.T) {
	db, mock, done := setupMock(t)
	defer done()

	mock.ExpectExec(`INSERT INTO pricing`).
		WithArgs("pro", "5499.995", "INR").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewPricingRepository(db).SetPrice(context.Background(), "pro", decimal.RequireFromString("5499.995"), "INR")
	assert.NoError(t, err)
}
