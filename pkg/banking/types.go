package banking

import (
	"time"

	"github.com/shopspring/decimal"
)

type CardStatus string

const (
	CardActive  CardStatus = "active"
	CardBlocked CardStatus = "blocked"
)

// Customer is the account holder as seen by the assistant. It never carries
// the PIN.
type Customer struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	Address       string
	AccountType   string
	AccountNumber string
	Currency      string
	Balance       decimal.Decimal
	Frozen        bool
	IntlEnabled   bool
}

type Card struct {
	ID                string
	CustomerID        string
	Type              string
	LastFour          string
	Status            CardStatus
	Expiry            string
	CreditLimit       decimal.NullDecimal
	Balance           decimal.Decimal
	RewardsPoints     int
	PaymentDueDate    *time.Time
	MinimumPaymentDue decimal.NullDecimal
}

type Transaction struct {
	ID          string
	Date        time.Time
	Amount      decimal.Decimal // negative for debits
	Description string
	Category    string
	Status      string
}

type Loan struct {
	ID               string
	Type             string
	Amount           decimal.Decimal
	InterestRate     decimal.Decimal
	TermMonths       int
	Status           string
	MonthlyPayment   decimal.NullDecimal
	RemainingBalance decimal.NullDecimal
}

type RequestType string

const (
	RequestFraudReport RequestType = "FRAUD_REPORT"
	RequestChequeBook  RequestType = "CHEQUE_BOOK"
	RequestIntlToggle  RequestType = "INTL_TOGGLE"
	RequestCardBlock   RequestType = "CARD_BLOCK"
)

const (
	StatusUrgent     = "Urgent"
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
	StatusPending    = "Pending"
)

// AuditRecord is one append-only service request row. CustomerID is empty
// for fraud reported before the caller was identified.
type AuditRecord struct {
	CustomerID string
	Type       RequestType
	Reference  string
	Status     string
	Details    map[string]interface{}
	CreatedAt  time.Time
}

type FeedbackType string

const (
	FeedbackComplaint  FeedbackType = "Complaint"
	FeedbackPraise     FeedbackType = "Praise"
	FeedbackSuggestion FeedbackType = "Suggestion"
)

type FeedbackRecord struct {
	CustomerID string
	Type       FeedbackType
	Text       string
	Reference  string
	Status     string
	CreatedAt  time.Time
}

type BlockResult struct {
	Card           Card
	Reference      string
	AlreadyBlocked bool
}

type ToggleResult struct {
	Enabled   bool
	Changed   bool
	Reference string
}

type ChequeBookResult struct {
	Reference string
	Address   string
	Email     string
}

type Rewards struct {
	Points    int
	CashValue decimal.Decimal
	Cards     []Card
}
