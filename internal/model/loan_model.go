package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Loan struct {
	Id               string              `gorm:"type:varchar(32);primaryKey"`
	CustomerId       string              `gorm:"type:varchar(32);not null;index"`
	LoanType         string              `gorm:"type:varchar(50);not null"`
	Amount           decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	InterestRate     decimal.Decimal     `gorm:"type:numeric(5,2);not null"`
	TermMonths       int                 `gorm:"not null"`
	Status           string              `gorm:"type:varchar(20);not null"`
	MonthlyPayment   decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	RemainingBalance decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	ApprovedAt       *time.Time
}

func (Loan) TableName() string {
	return "loans"
}
