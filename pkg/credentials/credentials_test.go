package credentials

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpokenDigits(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "spoken run", input: "one two three four", want: "1234"},
		{name: "spoken inside sentence", input: "my pin is five six seven eight", want: "my pin is 5678"},
		{name: "spaced digits", input: "1 2 3 4", want: "1234"},
		{name: "interior homophone", input: "my id is one oh two three", want: "my id is 1023"},
		{name: "edge homophones kept as words", input: "I want to pay for five six", want: "I want to pay for 56"},
		{name: "no digits", input: "Check my balance", want: "Check my balance"},
		{name: "mixed case", input: "PIN Five Six Seven Eight", want: "PIN 5678"},
		{name: "typed digits untouched", input: "ID 1234", want: "ID 1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSpokenDigits(tt.input))
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Credentials
	}{
		{name: "id then pin", input: "Customer ID 1234, PIN 5678", want: Credentials{CustomerID: "1234", PIN: "5678"}},
		{name: "pin then id", input: "PIN 5678 ID 1234", want: Credentials{CustomerID: "1234", PIN: "5678"}},
		{name: "spoken", input: "customer id one two three four pin five six seven eight", want: Credentials{CustomerID: "1234", PIN: "5678"}},
		{name: "no keywords falls back to order", input: "1234 5678", want: Credentials{CustomerID: "1234", PIN: "5678"}},
		{name: "pin only", input: "my pin is 5678", want: Credentials{PIN: "5678"}},
		{name: "lone group is the id", input: "it's 4321", want: Credentials{CustomerID: "4321"}},
		{name: "digits before keywords", input: "5678 is my pin and 1234 is my customer id", want: Credentials{CustomerID: "1234", PIN: "5678"}},
		{name: "customer number phrasing", input: "my customer number is 1234 and my pin is 5678", want: Credentials{CustomerID: "1234", PIN: "5678"}},
		{name: "nothing to extract", input: "Check my balance", want: Credentials{}},
		{name: "empty", input: "", want: Credentials{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.input))
		})
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "typed", input: "Customer ID 1234, PIN 5678", want: "Customer ID [REDACTED_ID], PIN [REDACTED_PIN]"},
		{name: "spoken", input: "customer id one two three four pin five six seven eight", want: "customer id [REDACTED_ID] pin [REDACTED_PIN]"},
		{name: "long account number masked", input: "my account 4321567890 please", want: "my account ******7890 please"},
		{name: "no digits", input: "what cards do I have?", want: "what cards do I have?"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redact(tt.input))
		})
	}
}

func spoken(digits string) string {
	names := []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	words := make([]string, 0, len(digits))
	for _, r := range digits {
		words = append(words, names[r-'0'])
	}
	return strings.Join(words, " ")
}

func TestRedactNeverLeaksExtractedCredentials(t *testing.T) {
	templates := []func(id, pin string) string{
		func(id, pin string) string { return fmt.Sprintf("Customer ID %s, PIN %s", id, pin) },
		func(id, pin string) string { return fmt.Sprintf("PIN %s ID %s", pin, id) },
		func(id, pin string) string { return fmt.Sprintf("%s %s", id, pin) },
		func(id, pin string) string {
			return fmt.Sprintf("my customer number is %s and my pin is %s", id, pin)
		},
		func(id, pin string) string {
			return fmt.Sprintf("customer id %s pin %s", spoken(id), spoken(pin))
		},
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("%04d", rng.Intn(10000))
		pin := fmt.Sprintf("%04d", rng.Intn(10000))
		input := templates[i%len(templates)](id, pin)

		creds := Extract(input)
		assert.Equal(t, id, creds.CustomerID, input)
		assert.Equal(t, pin, creds.PIN, input)

		redacted := Redact(input)
		assert.NotContains(t, redacted, id, input)
		assert.NotContains(t, redacted, pin, input)
	}
}

func TestStripCredentials(t *testing.T) {
	assert.Equal(t, "check my balance,", StripCredentials("check my balance, customer id 1234 pin 5678"))
	assert.Equal(t, "", StripCredentials("1234 5678"))
}

func TestCustomerRef(t *testing.T) {
	key := []byte("test-key")

	ref := CustomerRef(key, "1234")
	assert.True(t, strings.HasPrefix(ref, "cust_"))
	assert.Len(t, ref, len("cust_")+16)
	assert.Equal(t, ref, CustomerRef(key, "1234"))
	assert.NotEqual(t, ref, CustomerRef(key, "1235"))
	assert.NotEqual(t, ref, CustomerRef([]byte("other-key"), "1234"))
	assert.Empty(t, CustomerRef(key, ""))
}
