package router

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"vaulta-banking-be/pkg/intent"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon is the keyword vocabulary behind the deterministic routing layer.
type Lexicon struct {
	Threshold    float64                     `yaml:"threshold"`
	StrongWeight float64                     `yaml:"strong_weight"`
	WeakWeight   float64                     `yaml:"weak_weight"`
	Fraud        []string                    `yaml:"fraud"`
	Intents      map[intent.Intent]PhraseSet `yaml:"intents"`
	SmallTalk    map[SmallTalk][]string      `yaml:"smalltalk"`
	Affirm       []string                    `yaml:"affirm"`
	Deny         []string                    `yaml:"deny"`
	More         []string                    `yaml:"more"`
	Enable       []string                    `yaml:"enable"`
	Disable      []string                    `yaml:"disable"`
	CardTypes    map[string][]string         `yaml:"card_types"`
	Feedback     map[string][]string         `yaml:"feedback_types"`
}

type PhraseSet struct {
	Strong []string `yaml:"strong"`
	Weak   []string `yaml:"weak"`
}

// ParseLexicon decodes a YAML lexicon and rejects labels outside the
// intent set.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	for it := range lex.Intents {
		if !intent.Valid(it) {
			return nil, fmt.Errorf("lexicon: unknown intent %q", it)
		}
	}
	if lex.Threshold <= 0 {
		lex.Threshold = DefaultThreshold
	}
	if lex.StrongWeight <= 0 {
		lex.StrongWeight = 0.9
	}
	if lex.WeakWeight <= 0 {
		lex.WeakWeight = 0.5
	}
	return &lex, nil
}

// DefaultLexicon returns the embedded lexicon. It panics only if the
// embedded file is broken, which the package tests catch.
func DefaultLexicon() *Lexicon {
	lex, err := ParseLexicon(defaultLexiconYAML)
	if err != nil {
		panic(err)
	}
	return lex
}

// normalize lowercases text and reduces punctuation to single spaces so
// phrases can be matched on word boundaries. The result is padded with a
// space on each side.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(text) {
		switch {
		case r == '’' || r == '\'':
			b.WriteByte('\'')
			space = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// containsAny reports whether the normalized text holds any of the phrases
// as whole words.
func containsAny(norm string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(norm, " "+p+" ") {
			return true
		}
	}
	return false
}

// IsFraud reports whether the raw utterance carries a fraud signal.
func (l *Lexicon) IsFraud(raw string) bool {
	return containsAny(normalize(raw), l.Fraud)
}

// HasBankingKeyword reports whether any intent phrase, strong or weak,
// appears in text.
func (l *Lexicon) HasBankingKeyword(text string) bool {
	norm := normalize(text)
	if containsAny(norm, l.Fraud) {
		return true
	}
	for _, set := range l.Intents {
		if containsAny(norm, set.Strong) || containsAny(norm, set.Weak) {
			return true
		}
	}
	return false
}

// score returns the keyword confidence for every intent that matched.
func (l *Lexicon) score(text string) map[intent.Intent]float64 {
	norm := normalize(text)
	out := make(map[intent.Intent]float64)
	if containsAny(norm, l.Fraud) {
		out[intent.Fraud] = l.StrongWeight
	}
	for it, set := range l.Intents {
		switch {
		case containsAny(norm, set.Strong):
			out[it] = l.StrongWeight
		case containsAny(norm, set.Weak):
			out[it] = l.WeakWeight
		}
	}
	return out
}

// Confirmation reads a yes/no reply. Text that carries both or neither is
// Unclear.
func (l *Lexicon) Confirmation(text string) Confirmation {
	norm := normalize(text)
	yes := containsAny(norm, l.Affirm)
	no := containsAny(norm, l.Deny)
	switch {
	case yes && !no:
		return Affirm
	case no && !yes:
		return Deny
	default:
		return Unclear
	}
}

// SmallTalkKind returns the first small-talk category that matches, in a
// fixed order so that "thanks, bye" reads as goodbye.
func (l *Lexicon) SmallTalkKind(text string) SmallTalk {
	norm := normalize(text)
	for _, kind := range smallTalkOrder {
		if containsAny(norm, l.SmallTalk[kind]) {
			return kind
		}
	}
	return SmallTalkNone
}

// Slots pulls the parameters the flows need out of the utterance.
func (l *Lexicon) Slots(text string) Slots {
	norm := normalize(text)
	var s Slots

	enable := containsAny(norm, l.Enable)
	disable := containsAny(norm, l.Disable)
	if enable != disable {
		s.Direction = DirectionDisable
		if enable {
			s.Direction = DirectionEnable
		}
	}

	for _, cardType := range []string{"debit", "credit"} {
		if containsAny(norm, l.CardTypes[cardType]) {
			if s.CardType != "" {
				s.CardType = ""
				break
			}
			s.CardType = cardType
		}
	}
	for _, field := range strings.Fields(norm) {
		if len(field) == 4 && isDigits(field) {
			s.CardLast4 = field
			break
		}
	}

	s.More = containsAny(norm, l.More)

	for _, kind := range []string{"complaint", "suggestion", "praise"} {
		if containsAny(norm, l.Feedback[kind]) {
			s.FeedbackKind = kind
			break
		}
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
