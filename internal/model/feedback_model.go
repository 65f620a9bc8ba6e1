package model

import "time"

type Feedback struct {
	Id               string    `gorm:"type:varchar(26);primaryKey"`
	CustomerId       *string   `gorm:"type:varchar(32);index"`
	FeedbackType     string    `gorm:"type:varchar(20);not null"`
	Text             string    `gorm:"type:text"`
	ResolutionStatus string    `gorm:"type:varchar(20);not null;default:'Pending'"`
	Reference        string    `gorm:"type:varchar(40);not null;uniqueIndex"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (Feedback) TableName() string {
	return "feedback"
}
