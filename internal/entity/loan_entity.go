package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Loan struct {
	Id               string
	CustomerId       string
	LoanType         string
	Amount           decimal.Decimal
	InterestRate     decimal.Decimal
	TermMonths       int
	Status           string
	MonthlyPayment   decimal.NullDecimal
	RemainingBalance decimal.NullDecimal
	ApprovedAt       *time.Time
}
