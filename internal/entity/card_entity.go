package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CardStatusActive  = "active"
	CardStatusBlocked = "blocked"
)

type Card struct {
	Id                string
	CustomerId        string
	CardType          string
	LastFour          string
	Status            string
	Expiry            string
	CreditLimit       decimal.NullDecimal
	Balance           decimal.Decimal
	RewardsPoints     int
	PaymentDueDate    *time.Time
	MinimumPaymentDue decimal.NullDecimal
	CreatedAt         time.Time
}
