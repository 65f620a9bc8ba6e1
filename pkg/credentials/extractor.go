package credentials

import (
	"regexp"
	"sort"
)

// Credentials holds whatever identity tokens a single utterance carried.
// Either field may be empty.
type Credentials struct {
	CustomerID string
	PIN        string
}

func (c Credentials) Empty() bool {
	return c.CustomerID == "" && c.PIN == ""
}

func (c Credentials) Complete() bool {
	return c.CustomerID != "" && c.PIN != ""
}

type kind int

const (
	kindNone kind = iota
	kindCustomerID
	kindPIN
)

type group struct {
	start, end int
	value      string
	kind       kind
}

type analysis struct {
	text   string
	groups []group
	creds  Credentials
}

const (
	minFallbackLen = 4
	maxFallbackLen = 8
	minPINLen      = 4
	maxPINLen      = 8
	maxIDLen       = 12
)

var (
	digitGroupPattern = regexp.MustCompile(`\d+`)

	customerIDKeyword = regexp.MustCompile(`(?i)\b(?:customer[\s_]*(?:id|number|no|#)?|cust[\s_]*id|client[\s_]*id|user[\s_]*id|id)\b`)
	pinKeyword        = regexp.MustCompile(`(?i)\b(?:pin[\s_]*(?:code|number|no)?|ping|passcode)\b`)

	digitsAfterKeyword  = regexp.MustCompile(`(?i)^(?:[\s:#=,.\-]+|(?:is|are|was|number|num|no|code|it's|its|my|the|of|be)\b)*?(\d+)`)
	digitsBeforeKeyword = regexp.MustCompile(`(?i)(\d+)(?:[\s:#=,.\-]+|\b(?:is|are|was|my|the|as|be)\b)*$`)
)

// Extract pulls a customer ID and PIN out of free text. Digits may be typed
// or spoken, in either order, with or without keywords. When no keyword
// binds a digit group, the first group is read as the customer ID and the
// second as the PIN.
func Extract(raw string) Credentials {
	return analyze(raw).creds
}

func analyze(raw string) analysis {
	text := NormalizeSpokenDigits(raw)
	a := analysis{text: text}

	for _, loc := range digitGroupPattern.FindAllStringIndex(text, -1) {
		a.groups = append(a.groups, group{start: loc[0], end: loc[1], value: text[loc[0]:loc[1]]})
	}
	if len(a.groups) == 0 {
		return a
	}

	a.bindKeyword(pinKeyword, kindPIN, minPINLen, maxPINLen)
	a.bindKeyword(customerIDKeyword, kindCustomerID, 1, maxIDLen)
	a.fallback()

	for _, g := range a.groups {
		switch g.kind {
		case kindCustomerID:
			if a.creds.CustomerID == "" {
				a.creds.CustomerID = g.value
			}
		case kindPIN:
			if a.creds.PIN == "" {
				a.creds.PIN = g.value
			}
		}
	}
	return a
}

// bindKeyword attaches the nearest eligible digit group to each keyword hit,
// looking first after the keyword and then before it.
func (a *analysis) bindKeyword(keyword *regexp.Regexp, k kind, minLen, maxLen int) {
	if a.has(k) {
		return
	}
	for _, loc := range keyword.FindAllStringIndex(a.text, -1) {
		if idx := a.groupAfter(loc[1], minLen, maxLen); idx >= 0 {
			a.groups[idx].kind = k
			return
		}
		if idx := a.groupBefore(loc[0], minLen, maxLen); idx >= 0 {
			a.groups[idx].kind = k
			return
		}
	}
}

func (a *analysis) groupAfter(pos, minLen, maxLen int) int {
	m := digitsAfterKeyword.FindStringSubmatchIndex(a.text[pos:])
	if m == nil {
		return -1
	}
	return a.freeGroupAt(pos+m[2], minLen, maxLen)
}

func (a *analysis) groupBefore(pos, minLen, maxLen int) int {
	m := digitsBeforeKeyword.FindStringSubmatchIndex(a.text[:pos])
	if m == nil {
		return -1
	}
	return a.freeGroupAt(m[2], minLen, maxLen)
}

func (a *analysis) freeGroupAt(start, minLen, maxLen int) int {
	for i, g := range a.groups {
		if g.start != start {
			continue
		}
		if g.kind != kindNone || len(g.value) < minLen || len(g.value) > maxLen {
			return -1
		}
		return i
	}
	return -1
}

func (a *analysis) has(k kind) bool {
	for _, g := range a.groups {
		if g.kind == k {
			return true
		}
	}
	return false
}

// fallback fills missing slots positionally from unbound groups.
func (a *analysis) fallback() {
	var free []int
	for i, g := range a.groups {
		if g.kind == kindNone && len(g.value) >= minFallbackLen && len(g.value) <= maxFallbackLen {
			free = append(free, i)
		}
	}
	sort.Ints(free)

	next := 0
	if !a.has(kindCustomerID) && next < len(free) {
		a.groups[free[next]].kind = kindCustomerID
		next++
	}
	if !a.has(kindPIN) && next < len(free) && len(a.groups[free[next]].value) <= maxPINLen {
		a.groups[free[next]].kind = kindPIN
	}
}
