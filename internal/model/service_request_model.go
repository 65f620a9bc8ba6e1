package model

import (
	"time"

	"gorm.io/datatypes"
)

type ServiceRequest struct {
	Id          string         `gorm:"type:varchar(26);primaryKey"`
	CustomerId  *string        `gorm:"type:varchar(32);index"`
	RequestType string         `gorm:"type:varchar(30);not null;index"`
	Reference   string         `gorm:"type:varchar(40);not null;uniqueIndex"`
	Status      string         `gorm:"type:varchar(20);not null"`
	Details     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}

func (ServiceRequest) TableName() string {
	return "service_requests"
}
