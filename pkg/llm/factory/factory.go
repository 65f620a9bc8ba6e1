package factory

import (
	"fmt"
	"strings"

	"vaulta-banking-be/pkg/llm"
	"vaulta-banking-be/pkg/llm/huggingface"
	"vaulta-banking-be/pkg/llm/ollama"
)

// NewLLMProvider builds the classifier backend named by providerType.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch strings.ToLower(providerType) {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface", "openai":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
