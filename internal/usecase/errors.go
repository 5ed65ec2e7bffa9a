package usecase

import "errors"

const (
	CodeLeadNotFound       = "LEAD_NOT_FOUND"
	CodePaymentNotFound    = "PAYMENT_NOT_FOUND"
	CodeInvalidState       = "INVALID_STATE"
	CodeSignatureInvalid   = "SIGNATURE_INVALID"
	CodeValidation         = "VALIDATION_ERROR"
	CodeGatewayUnavailable = "GATEWAY_UNAVAILABLE"
	CodeDatabase           = "DATABASE_ERROR"
)

// DomainError: erro de regra de negócio, devolvido ao chamador sem retry.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError: falha de infraestrutura (gateway, banco). Pode ser retentada.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode devolve o código do erro tipado, ou "" para erros não classificados.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func leadNotFound(err error) error {
	return &DomainError{Code: CodeLeadNotFound, Message: "lead não encontrado", Err: err}
}

func paymentNotFound(err error) error {
	return &DomainError{Code: CodePaymentNotFound, Message: "pagamento não encontrado", Err: err}
}

func gatewayUnavailable(err error) error {
	return &TechnicalError{Code: CodeGatewayUnavailable, Message: "gateway de pagamento indisponível, tente novamente", Err: err}
}

func databaseError(msg string, err error) error {
	return &TechnicalError{Code: CodeDatabase, Message: msg + ": " + err.Error(), Err: err}
}
