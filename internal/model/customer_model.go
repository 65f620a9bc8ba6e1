package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	Id                      string          `gorm:"type:varchar(32);primaryKey"`
	FullName                string          `gorm:"type:varchar(255);not null"`
	PinHash                 string          `gorm:"type:varchar(255);not null"`
	Email                   string          `gorm:"type:varchar(255)"`
	Phone                   string          `gorm:"type:varchar(50)"`
	Address                 string          `gorm:"type:text"`
	AccountType             string          `gorm:"type:varchar(50);not null;default:'Checking'"`
	AccountNumber           string          `gorm:"type:varchar(34);uniqueIndex"`
	Currency                string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Balance                 decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	AccountFrozen           bool            `gorm:"not null;default:false"`
	IntlTransactionsEnabled bool            `gorm:"not null;default:true"`
	CreatedAt               time.Time       `gorm:"autoCreateTime"`
	UpdatedAt               time.Time       `gorm:"autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}
