package router

import (
	"context"
	"errors"
	"sort"

	"vaulta-banking-be/pkg/intent"
)

// DefaultThreshold is the minimum confidence for a classified intent.
const DefaultThreshold = 0.6

// Candidate is one scored intent label.
type Candidate struct {
	Intent     intent.Intent
	Confidence float64
}

// Classifier labels redacted text with intents drawn from allowed.
type Classifier interface {
	Classify(ctx context.Context, text string, allowed []intent.Intent) ([]Candidate, error)
}

// Best picks the highest-confidence allowed candidate at or above
// threshold. Ties go to the intent earlier in the priority order. When no
// candidate qualifies the result is UNKNOWN.
func Best(candidates []Candidate, allowed []intent.Intent, threshold float64) Candidate {
	ok := make(map[intent.Intent]bool, len(allowed))
	for _, it := range allowed {
		ok[it] = true
	}

	var eligible []Candidate
	for _, c := range candidates {
		if ok[c.Intent] && c.Intent != intent.Unknown && c.Confidence >= threshold {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return Candidate{Intent: intent.Unknown}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Confidence != eligible[j].Confidence {
			return eligible[i].Confidence > eligible[j].Confidence
		}
		return intent.Priority(eligible[i].Intent) < intent.Priority(eligible[j].Intent)
	})
	return eligible[0]
}

// KeywordClassifier scores text against the lexicon without any I/O.
type KeywordClassifier struct {
	lexicon *Lexicon
}

var _ Classifier = (*KeywordClassifier)(nil)

func NewKeywordClassifier(lex *Lexicon) *KeywordClassifier {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &KeywordClassifier{lexicon: lex}
}

func (k *KeywordClassifier) Classify(ctx context.Context, text string, allowed []intent.Intent) ([]Candidate, error) {
	scores := k.lexicon.score(text)
	out := make([]Candidate, 0, len(scores))
	for _, it := range allowed {
		if conf, ok := scores[it]; ok {
			out = append(out, Candidate{Intent: it, Confidence: conf})
		}
	}
	return out, nil
}

// Chain runs classifiers in order and stops at the first one that yields a
// candidate at or above the threshold. Results from every stage that ran
// are returned together so the caller can still break ties.
type Chain struct {
	stages    []Classifier
	threshold float64
}

var _ Classifier = (*Chain)(nil)

func NewChain(threshold float64, stages ...Classifier) *Chain {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Chain{stages: stages, threshold: threshold}
}

func (c *Chain) Classify(ctx context.Context, text string, allowed []intent.Intent) ([]Candidate, error) {
	var (
		all  []Candidate
		errs []error
	)
	for _, stage := range c.stages {
		if stage == nil {
			continue
		}
		candidates, err := stage.Classify(ctx, text, allowed)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		all = append(all, candidates...)
		if Best(candidates, allowed, c.threshold).Intent != intent.Unknown {
			return all, nil
		}
	}
	if len(all) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return all, nil
}
