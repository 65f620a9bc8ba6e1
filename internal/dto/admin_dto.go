package dto

import "time"

// --- Session admin ---

// SessionView is the sanitized form of a conversation session. It never
// carries the raw customer ID.
type SessionView struct {
	SessionID      string    `json:"session_id"`
	Channel        string    `json:"channel"`
	Verified       bool      `json:"verified"`
	CustomerRef    string    `json:"customer_ref,omitempty"`
	Attempts       int       `json:"verification_attempts"`
	Locked         bool      `json:"locked"`
	ActiveFlow     string    `json:"active_flow,omitempty"`
	PendingAction  string    `json:"pending_confirmation,omitempty"`
	Escalate       bool      `json:"escalate"`
	OriginalIntent string    `json:"original_intent,omitempty"`
	Turns          int       `json:"turns"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivity   time.Time `json:"last_activity"`
}

type ResetAllResponse struct {
	Cleared int `json:"cleared"`
}

// --- System logs ---

type LogListRequest struct {
	Level  string `query:"level"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

type LogListResponse struct {
	Id        string `json:"id"` // MD5 of the log line
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Module    string `json:"module"`
	Message   string `json:"message"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}

// --- Health ---

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
