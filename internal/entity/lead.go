package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound       = errors.New("lead não encontrado")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

type LeadSource string

const (
	LeadSourceLanding       LeadSource = "landing"
	LeadSourceAudit         LeadSource = "audit"
	LeadSourceWorkshop      LeadSource = "workshop"
	LeadSourceStudentPortal LeadSource = "student_portal"
)

func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceLanding, LeadSourceAudit, LeadSourceWorkshop, LeadSourceStudentPortal:
		return true
	}
	return false
}

type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusRegistered LeadStatus = "registered"
	LeadStatusPaid       LeadStatus = "paid"
)

// Lead é o prospect (ou cliente pagante) dono dos pagamentos.
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Company   string     `json:"company,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	UseCase   string     `json:"use_case,omitempty"`
	Source    LeadSource `json:"source"`
	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewLead(name, email string, source LeadSource) (*Lead, error) {
	lead := &Lead{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Source:    source,
		Status:    LeadStatusNew,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Email == "" {
		return errors.New("email is required")
	}
	if !l.Source.Valid() {
		return errors.New("source is invalid")
	}
	return nil
}

// IsPayingCustomer: só é cliente quem tem pagamento success (refletido em status paid).
func (l *Lead) IsPayingCustomer() bool {
	return l.Status == LeadStatusPaid
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	// Upsert grava por email sem rebaixar o status já existente.
	Upsert(ctx context.Context, lead *Lead) error
	// TransitionStatus só escreve se o status atual estiver em from.
	TransitionStatus(ctx context.Context, id string, from []LeadStatus, to LeadStatus) (bool, error)
	// MarkPaidIfPaymentSuccess promove new|registered -> paid na mesma escrita que
	// confere a payment em success. Um estorno concorrente nunca é desfeito.
	MarkPaidIfPaymentSuccess(ctx context.Context, leadID, paymentID string) (bool, error)
}
