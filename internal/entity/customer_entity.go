package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	Id                      string
	FullName                string
	PinHash                 string
	Email                   string
	Phone                   string
	Address                 string
	AccountType             string
	AccountNumber           string
	Currency                string
	Balance                 decimal.Decimal
	AccountFrozen           bool
	IntlTransactionsEnabled bool
	CreatedAt               time.Time
	UpdatedAt               *time.Time
}
