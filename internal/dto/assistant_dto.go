package dto

// --- Turn API ---

type TurnRequest struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
	Channel   string `json:"channel" validate:"omitempty,oneof=phone sms web_voice web_chat"`
	Text      string `json:"text" validate:"max=4000"`
}

type TurnResponse struct {
	SessionID  string `json:"session_id"`
	Reply      string `json:"reply"`
	EndSession bool   `json:"end_session"`
	Intent     string `json:"intent"`
	Reference  string `json:"reference,omitempty"`
	Verified   bool   `json:"verified"`
	Escalate   bool   `json:"escalate"`
}

// --- OpenAI-compatible chat completions ---

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model     string                 `json:"model"`
	Messages  []ChatMessage          `json:"messages" validate:"required,min=1"`
	Stream    bool                   `json:"stream"`
	SessionID string                 `json:"session_id"`
	User      string                 `json:"user"`
	Channel   string                 `json:"channel" validate:"omitempty,oneof=phone sms web_voice web_chat"`
	Call      *CallInfo              `json:"call,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type CallInfo struct {
	ID string `json:"id"`
}

type ChatCompletionChoice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message,omitempty"`
	Delta        *ChatMessage `json:"delta,omitempty"`
	FinishReason *string      `json:"finish_reason"`
}

type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
}

// --- Vapi-style call webhook ---

type CallWebhookRequest struct {
	Message CallWebhookMessage `json:"message"`
}

type CallWebhookMessage struct {
	Type       string        `json:"type"`
	Call       *CallInfo     `json:"call,omitempty"`
	Transcript string        `json:"transcript"`
	Messages   []ChatMessage `json:"messages,omitempty"`
}

type CallWebhookResponse struct {
	Reply     string `json:"reply"`
	EndCall   bool   `json:"endCall"`
	SessionID string `json:"session_id"`
	Reference string `json:"reference,omitempty"`
}
