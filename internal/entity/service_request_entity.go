package entity

import "time"

const (
	RequestTypeFraudReport = "FRAUD_REPORT"
	RequestTypeChequeBook  = "CHEQUE_BOOK"
	RequestTypeIntlToggle  = "INTL_TOGGLE"
	RequestTypeCardBlock   = "CARD_BLOCK"

	RequestStatusUrgent     = "Urgent"
	RequestStatusProcessing = "Processing"
	RequestStatusCompleted  = "Completed"
)

// ServiceRequest is an append-only audit row. CustomerId is nil for reports
// made before the caller was identified.
type ServiceRequest struct {
	Id          string
	CustomerId  *string
	RequestType string
	Reference   string
	Status      string
	Details     map[string]interface{}
	CreatedAt   time.Time
}
