package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// Statement is what the statement email shows. Amounts arrive preformatted.
type Statement struct {
	CustomerName  string
	AccountType   string
	AccountNumber string // already masked
	Period        string
	Balance       string
	Lines         []StatementLine
}

type StatementLine struct {
	Date        string
	Description string
	Amount      string
}

type IEmailService interface {
	SendStatement(toEmail string, st Statement) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

var statementTemplate = template.Must(template.New("statement").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Your {{.Period}} statement</h2>
	<p>Hello {{.CustomerName}},</p>
	<p>{{.AccountType}} account {{.AccountNumber}}. Current balance: <strong>{{.Balance}}</strong></p>
	{{if .Lines}}
	<table style="border-collapse: collapse; width: 100%;">
		<tr><th align="left">Date</th><th align="left">Description</th><th align="right">Amount</th></tr>
		{{range .Lines}}<tr><td>{{.Date}}</td><td>{{.Description}}</td><td align="right">{{.Amount}}</td></tr>
		{{end}}
	</table>
	{{else}}
	<p>There were no transactions in this period.</p>
	{{end}}
	<p>If you did not request this statement, please contact us.</p>
</div>
`))

func renderStatement(st Statement) (string, error) {
	var buf bytes.Buffer
	if err := statementTemplate.Execute(&buf, st); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *emailService) SendStatement(toEmail string, st Statement) error {
	body, err := renderStatement(st)
	if err != nil {
		return fmt.Errorf("render statement: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your %s account statement", st.Period))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send statement: %w", err)
	}
	return nil
}
