package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vaulta-banking-be/pkg/intent"
	"vaulta-banking-be/pkg/llm"
)

const classificationPrompt = `
You are the intent classifier for a retail banking assistant.
Classify the customer's message into exactly one of these intents:
%s

Rules:
1. Use UNKNOWN when the message fits none of the intents.
2. Credentials in the message have already been replaced with placeholders; ignore them.
3. Output MUST be valid JSON: {"intent": "LABEL", "confidence": 0.0-1.0}
`

// LLMClassifier asks a language model for a label. It only ever sees text
// that has already been redacted.
type LLMClassifier struct {
	provider llm.LLMProvider
	model    string
}

var _ Classifier = (*LLMClassifier)(nil)

func NewLLMClassifier(provider llm.LLMProvider, model string) *LLMClassifier {
	return &LLMClassifier{provider: provider, model: model}
}

type llmVerdict struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

func (c *LLMClassifier) Classify(ctx context.Context, text string, allowed []intent.Intent) ([]Candidate, error) {
	labels := make([]string, 0, len(allowed))
	for _, it := range allowed {
		labels = append(labels, "- "+it.String())
	}

	opts := []llm.Option{llm.WithTemperature(0), llm.WithJSON(), llm.WithMaxTokens(64)}
	if c.model != "" {
		opts = append(opts, llm.WithModel(c.model))
	}
	history := []llm.Message{
		{Role: "system", Content: fmt.Sprintf(classificationPrompt, strings.Join(labels, "\n"))},
		{Role: "user", Content: text},
	}

	reply, err := c.provider.Chat(ctx, history, opts...)
	if err != nil {
		return nil, fmt.Errorf("llm classify: %w", err)
	}
	return parseVerdict(reply, allowed), nil
}

// parseVerdict reads the JSON object out of a model reply. Models often wrap
// it in prose or code fences; anything unparseable or outside the allowed
// set yields no candidate.
func parseVerdict(reply string, allowed []intent.Intent) []Candidate {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil
	}

	var v llmVerdict
	if err := json.Unmarshal([]byte(reply[start:end+1]), &v); err != nil {
		return nil
	}
	it, ok := intent.Parse(v.Intent)
	if !ok {
		return nil
	}
	for _, a := range allowed {
		if a == it {
			conf := v.Confidence
			if conf > 1 {
				conf = 1
			}
			return []Candidate{{Intent: it, Confidence: conf}}
		}
	}
	return nil
}
