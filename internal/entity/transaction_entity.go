package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	Id          string
	CustomerId  string
	Description string
	Category    string
	Amount      decimal.Decimal // negative for debits
	Status      string
	PostedAt    time.Time
}
