package credentials

import (
	"strings"
)

const (
	RedactedPIN        = "[REDACTED_PIN]"
	RedactedCustomerID = "[REDACTED_ID]"

	longNumberLen = 9
)

// Redact returns a copy of raw that is safe for logs, traces and the
// language model. Spoken digits are normalized first, so the output never
// carries a credential in word form either. Any digit group containing the
// recognized customer ID or PIN is replaced with its placeholder, and other
// long digit runs keep only their last four digits.
func Redact(raw string) string {
	if raw == "" {
		return raw
	}
	a := analyze(raw)
	if len(a.groups) == 0 {
		return a.text
	}

	var b strings.Builder
	b.Grow(len(a.text))
	last := 0
	for _, g := range a.groups {
		b.WriteString(a.text[last:g.start])
		b.WriteString(a.replacement(g))
		last = g.end
	}
	b.WriteString(a.text[last:])
	return b.String()
}

func (a analysis) replacement(g group) string {
	switch {
	case g.kind == kindCustomerID:
		return RedactedCustomerID
	case g.kind == kindPIN:
		return RedactedPIN
	case a.creds.CustomerID != "" && strings.Contains(g.value, a.creds.CustomerID):
		return RedactedCustomerID
	case a.creds.PIN != "" && strings.Contains(g.value, a.creds.PIN):
		return RedactedPIN
	case len(g.value) >= longNumberLen:
		return MaskNumber(g.value)
	default:
		return g.value
	}
}

// MaskNumber keeps the last four digits of an account-like number.
func MaskNumber(num string) string {
	if len(num) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(num)-4) + num[len(num)-4:]
}

// StripCredentials removes credential tokens and their keywords, leaving
// only the words that could carry an intent.
func StripCredentials(raw string) string {
	a := analyze(raw)
	text := a.text
	var b strings.Builder
	last := 0
	for _, g := range a.groups {
		if g.kind == kindNone {
			continue
		}
		b.WriteString(text[last:g.start])
		last = g.end
	}
	b.WriteString(text[last:])

	out := customerIDKeyword.ReplaceAllString(b.String(), " ")
	out = pinKeyword.ReplaceAllString(out, " ")
	return strings.Join(strings.Fields(out), " ")
}
