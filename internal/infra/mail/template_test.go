package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPaymentConfirmation(t *testing.T) {
	html, err := RenderPaymentConfirmation(ConfirmationEmailData{
		Name:     "Ana <script>",
		Plan:     "starter",
		Amount:   "2499",
		Currency: "INR",
		OrderID:  "order_abc",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "starter")
	assert.Contains(t, html, "2499 INR")
	assert.Contains(t, html, "order_abc")
	assert.Contains(t, html, "Ana &lt;script&gt;")
	assert.NotContains(t, html, "Pagamento</td>")
}

func TestConfirmationSubject(t *testing.T) {
	assert.Contains(t, ConfirmationSubject("pro"), "plano pro")
}

func TestSendRejectsEmptyRecipient(t *testing.T) {
	s := NewEmailSender("localhost", 2525, "", "", "noreply@example.com")
	assert.Error(t, s.Send(context.Background(), "", "subject", "<p>x</p>"))
}

func TestSendHonoursCancelledContext(t *testing.T) {
	s := NewEmailSender("localhost", 2525, "", "", "noreply@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, "ana@example.com", "subject", "<p>x</p>"), context.Canceled)
}
