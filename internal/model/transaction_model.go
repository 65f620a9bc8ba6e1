package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	Id          string          `gorm:"type:varchar(26);primaryKey"`
	CustomerId  string          `gorm:"type:varchar(32);not null;index:idx_transactions_customer_posted,priority:1"`
	Description string          `gorm:"type:varchar(255);not null"`
	Category    string          `gorm:"type:varchar(100)"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'completed'"`
	PostedAt    time.Time       `gorm:"not null;index:idx_transactions_customer_posted,priority:2,sort:desc"`
}

func (Transaction) TableName() string {
	return "transactions"
}
