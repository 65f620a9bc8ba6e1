package banking

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	PrefixFraud      = "FRAUD"
	PrefixChequeBook = "CHQ"
	PrefixCardBlock  = "BLK"
	PrefixFeedback   = "FB"
	PrefixIntl       = "INTL"
)

// Sequencer hands out increasing numbers per key. Keys are scoped to one
// prefix and one calendar day.
type Sequencer interface {
	Next(ctx context.Context, key string) (int64, error)
}

type MemorySequencer struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{counters: make(map[string]int64)}
}

func (s *MemorySequencer) Next(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]++
	return s.counters[key], nil
}

// ReferenceGenerator formats human-readable references such as
// FRAUD-20260207-0001. The sequence is four digits for the first 9999
// references of a prefix on a day and widens after that, since references
// are unique in storage and must never repeat.
type ReferenceGenerator struct {
	primary  Sequencer
	fallback *MemorySequencer
	now      func() time.Time
}

// NewReferenceGenerator uses primary when it answers and a process-local
// counter otherwise. A nil primary means local counters only.
func NewReferenceGenerator(primary Sequencer) *ReferenceGenerator {
	return &ReferenceGenerator{
		primary:  primary,
		fallback: NewMemorySequencer(),
		now:      time.Now,
	}
}

func (g *ReferenceGenerator) Next(ctx context.Context, prefix string) string {
	day := g.now().UTC().Format("20060102")
	key := prefix + ":" + day

	var n int64
	var err error
	if g.primary != nil {
		n, err = g.primary.Next(ctx, key)
	}
	if g.primary == nil || err != nil {
		n, _ = g.fallback.Next(ctx, key)
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, day, n)
}
