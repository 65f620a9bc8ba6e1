package entity

import "time"

type Feedback struct {
	Id               string
	CustomerId       *string
	FeedbackType     string
	Text             string // already redacted
	ResolutionStatus string
	Reference        string
	CreatedAt        time.Time
}
