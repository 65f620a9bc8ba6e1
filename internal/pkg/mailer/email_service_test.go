package mailer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	sent []*gomail.Message
	err  error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	r.sent = append(r.sent, m...)
	return r.err
}

func TestRenderStatement(t *testing.T) {
	body, err := renderStatement(Statement{
		CustomerName:  "Ada <script>",
		AccountType:   "Checking",
		AccountNumber: "******7890",
		Period:        "monthly",
		Balance:       "$1,250.50",
		Lines:         []StatementLine{{Date: "2026-02-01", Description: "Coffee", Amount: "-$4.50"}},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "$1,250.50")
	assert.Contains(t, body, "Coffee")
	assert.NotContains(t, body, "<script>")

	empty, err := renderStatement(Statement{Period: "monthly"})
	require.NoError(t, err)
	assert.Contains(t, empty, "no transactions")
}

func TestSendStatement(t *testing.T) {
	rec := &recordingSender{}
	svc := &emailService{dialer: rec, senderEmail: "noreply@vaulta.example", senderName: "Vaulta Bank"}

	require.NoError(t, svc.SendStatement("ada@example.com", Statement{Period: "monthly"}))
	require.Len(t, rec.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, rec.sent[0].GetHeader("To"))

	rec.err = errors.New("smtp down")
	assert.ErrorContains(t, svc.SendStatement("ada@example.com", Statement{}), "smtp down")
}
