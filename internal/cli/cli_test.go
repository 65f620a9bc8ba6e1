package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	require.NoError(t, RootCmd.Execute())
	return out.String()
}

func TestRedactCommand(t *testing.T) {
	out := run(t, "", "redact", "my", "customer", "id", "is", "1234", "and", "pin", "5678")

	assert.NotContains(t, out, "1234")
	assert.NotContains(t, out, "5678")
	assert.Contains(t, out, "[REDACTED_ID]")
	assert.Contains(t, out, "[REDACTED_PIN]")
}

func TestRedactReadsStdin(t *testing.T) {
	out := run(t, "pin 5678 id 1234\n", "redact")
	assert.NotContains(t, out, "5678")
}

func TestExtractMasksPINUnlessRevealed(t *testing.T) {
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(run(t, "", "extract", "customer id 1234 pin 5678")), &got))
	assert.Equal(t, "1234", got["customer_id"])
	assert.Equal(t, "****", got["pin"])

	require.NoError(t, json.Unmarshal([]byte(run(t, "", "extract", "--reveal", "customer id 1234 pin 5678")), &got))
	assert.Equal(t, "5678", got["pin"])
}

func TestTokenCommand(t *testing.T) {
	out := strings.TrimSpace(run(t, "", "token", "--subject", "alice", "--secret", "s3cret"))

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(out, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["sub"])
	assert.Equal(t, "operator", claims["role"])
}

func TestChatVerifiesAndAnswersBalance(t *testing.T) {
	color.NoColor = true
	out := run(t, "what's my balance\nmy customer id is 1234 and my pin is 5678\n/quit\n", "chat")

	assert.Contains(t, out, "intent=BALANCE")
	assert.Contains(t, out, "verified")
	assert.NotContains(t, out, "error:")
}
