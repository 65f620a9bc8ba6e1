package factory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaulta-banking-be/pkg/llm"
	"vaulta-banking-be/pkg/llm/huggingface"
	"vaulta-banking-be/pkg/llm/ollama"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantType any
		wantErr  bool
	}{
		{name: "ollama", provider: "ollama", wantType: &ollama.OllamaProvider{}},
		{name: "case insensitive", provider: "Ollama", wantType: &ollama.OllamaProvider{}},
		{name: "huggingface", provider: "huggingface", wantType: &huggingface.HuggingFaceProvider{}},
		{name: "openai compatible", provider: "openai", wantType: &huggingface.HuggingFaceProvider{}},
		{name: "unknown", provider: "gemini", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLLMProvider(tt.provider, "m", "", "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, p)
		})
	}
}

func TestOllamaChatSendsJSONFormat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{\"intent\":\"BALANCE\"}"},"done":true}`))
	}))
	defer srv.Close()

	p, err := NewLLMProvider("ollama", "llama3", srv.URL, "")
	require.NoError(t, err)

	reply, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, llm.WithJSON())
	require.NoError(t, err)
	assert.Equal(t, `{"intent":"BALANCE"}`, reply)
	assert.Equal(t, "json", got["format"])
	assert.Equal(t, "llama3", got["model"])
	assert.Equal(t, false, got["stream"])
}

func TestOpenAICompatibleChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	p, err := NewLLMProvider("huggingface", "m", srv.URL+"/", "k")
	require.NoError(t, err)

	reply, err := p.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestProviderErrorsOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	for _, name := range []string{"ollama", "huggingface"} {
		t.Run(name, func(t *testing.T) {
			p, err := NewLLMProvider(name, "m", srv.URL, "")
			require.NoError(t, err)
			_, err = p.Generate(context.Background(), "hello")
			assert.Error(t, err)
		})
	}
}
