package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var confirmationTmpl = template.Must(template.ParseFS(templateFS, "templates/payment_confirmation.html"))

func ConfirmationSubject(plan string) string {
	return fmt.Sprintf("Pagamento confirmado: plano %s 🚀", plan)
}

// RenderPaymentConfirmation gera o HTML do email de confirmação.
func RenderPaymentConfirmation(data ConfirmationEmailData) (string, error) {
	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
