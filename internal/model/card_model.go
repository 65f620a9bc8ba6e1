package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Card struct {
	Id                string              `gorm:"type:varchar(32);primaryKey"`
	CustomerId        string              `gorm:"type:varchar(32);not null;index"`
	CardType          string              `gorm:"type:varchar(20);not null"`
	LastFour          string              `gorm:"type:varchar(4);not null"`
	Status            string              `gorm:"type:varchar(20);not null;default:'active'"`
	Expiry            string              `gorm:"type:varchar(7)"`
	CreditLimit       decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	Balance           decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0"`
	RewardsPoints     int                 `gorm:"not null;default:0"`
	PaymentDueDate    *time.Time          `gorm:"type:date"`
	MinimumPaymentDue decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	CreatedAt         time.Time           `gorm:"autoCreateTime"`
}

func (Card) TableName() string {
	return "cards"
}
