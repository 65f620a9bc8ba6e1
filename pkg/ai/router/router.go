package router

import (
	"context"
	"strings"
	"unicode"

	"vaulta-banking-be/pkg/credentials"
	"vaulta-banking-be/pkg/intent"
	"vaulta-banking-be/pkg/store"
)

// allowedIntents is what the classifier may answer with. UNKNOWN is the
// router's own fallback, never a classifier label.
var allowedIntents = func() []intent.Intent {
	out := make([]intent.Intent, 0, len(intent.Ordered)-1)
	for _, it := range intent.Ordered {
		if it != intent.Unknown {
			out = append(out, it)
		}
	}
	return out
}()

// Router maps one utterance plus the current session onto an intent.
//
// Evaluation order:
//  1. fraud phrases against the raw utterance, always first
//  2. a pending confirmation turns the utterance into a yes/no reply
//  3. soft continuations of the active flow
//  4. small talk when no banking keyword is present
//  5. the classifier chain over redacted text
type Router struct {
	lexicon    *Lexicon
	classifier Classifier
	threshold  float64
}

func NewRouter(lex *Lexicon, classifier Classifier, threshold float64) *Router {
	if lex == nil {
		lex = DefaultLexicon()
	}
	if threshold <= 0 {
		threshold = lex.Threshold
	}
	if classifier == nil {
		classifier = NewKeywordClassifier(lex)
	}
	return &Router{
		lexicon:    lex,
		classifier: classifier,
		threshold:  threshold,
	}
}

func (r *Router) Lexicon() *Lexicon {
	return r.lexicon
}

// ClassificationText is the only form of an utterance that leaves the
// process for classification: credentials stripped, the rest redacted.
func ClassificationText(raw string) string {
	return credentials.Redact(credentials.StripCredentials(raw))
}

func (r *Router) Route(ctx context.Context, raw string, sess store.ConversationSession) Decision {
	if r.lexicon.IsFraud(raw) {
		return Decision{
			Intent:     intent.Fraud,
			Confidence: 1,
			Source:     SourceFraudOverride,
			Slots:      r.lexicon.Slots(credentials.NormalizeSpokenDigits(raw)),
		}
	}

	text := ClassificationText(raw)
	slots := r.lexicon.Slots(credentials.NormalizeSpokenDigits(raw))

	if sess.Pending != nil {
		return Decision{
			Intent:       pendingIntent(sess),
			Confidence:   1,
			Source:       SourcePending,
			Confirmation: r.lexicon.Confirmation(text),
			Slots:        slots,
		}
	}

	if d, ok := r.continuation(text, slots, sess); ok {
		return d
	}

	if !hasLetters(text) {
		return Decision{Intent: intent.Unknown, Source: SourceEmpty, Slots: slots}
	}

	if !r.lexicon.HasBankingKeyword(text) {
		if kind := r.lexicon.SmallTalkKind(text); kind != SmallTalkNone {
			return Decision{
				Intent:     intent.Greeting,
				Confidence: 1,
				Source:     SourceSmallTalk,
				SmallTalk:  kind,
				Slots:      slots,
			}
		}
	}

	candidates, err := r.classifier.Classify(ctx, text, allowedIntents)
	best := Best(candidates, allowedIntents, r.threshold)
	d := Decision{
		Intent:        best.Intent,
		Confidence:    best.Confidence,
		Source:        SourceClassifier,
		Slots:         slots,
		ClassifierErr: err,
	}
	if d.Intent == intent.Greeting {
		d.SmallTalk = SmallTalkGreeting
	}
	return d
}

func pendingIntent(sess store.ConversationSession) intent.Intent {
	switch sess.Pending.Kind {
	case store.ActionBlockCard:
		return intent.CardBlock
	}
	if sess.ActiveFlow != "" {
		return sess.ActiveFlow
	}
	return intent.Unknown
}

// continuation resolves short follow-ups to the question the active flow
// last asked. A strong keyword for a different intent always wins over a
// continuation.
func (r *Router) continuation(text string, slots Slots, sess store.ConversationSession) (Decision, bool) {
	if sess.ActiveFlow == "" {
		return Decision{}, false
	}
	if other := r.strongIntent(text); other != "" && other != sess.ActiveFlow {
		return Decision{}, false
	}

	conf := r.lexicon.Confirmation(text)
	d := Decision{Confidence: 1, Source: SourceContinuation, Slots: slots}

	switch sess.ActiveFlow {
	case intent.Balance:
		switch conf {
		case Affirm:
			d.Intent = intent.Transactions
			return d, true
		case Deny:
			return declined(d), true
		}
	case intent.Transactions:
		switch {
		case conf == Deny:
			return declined(d), true
		case conf == Affirm || slots.More:
			d.Intent = intent.Transactions
			d.Continue = true
			return d, true
		}
	case intent.IntlToggle:
		if slots.Direction != DirectionNone {
			d.Intent = intent.IntlToggle
			return d, true
		}
	case intent.CardBlock:
		if sess.LastAction != nil {
			if conf == Affirm {
				d.Intent = intent.CardBlock
				d.Confirmation = Affirm
				d.Continue = true
				return d, true
			}
			break
		}
		if slots.CardType != "" || slots.CardLast4 != "" {
			d.Intent = intent.CardBlock
			d.Continue = true
			return d, true
		}
	}
	return Decision{}, false
}

func declined(d Decision) Decision {
	d.Intent = intent.Greeting
	d.SmallTalk = SmallTalkDecline
	return d
}

// strongIntent returns the highest-priority intent with a strong keyword
// hit, or "".
func (r *Router) strongIntent(text string) intent.Intent {
	scores := r.lexicon.score(text)
	for _, it := range intent.Ordered {
		if conf, ok := scores[it]; ok && conf >= r.lexicon.StrongWeight {
			return it
		}
	}
	return ""
}

func hasLetters(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
