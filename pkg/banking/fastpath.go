package banking

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"sync"
	"time"
)

type fastCustomer struct {
	customer     Customer
	pin          string
	cards        []Card
	loans        []Loan
	transactions []Transaction
}

// FastPath is the in-memory provider holding demo identities. It answers
// without I/O and never reports Unavailable unless the context is done.
type FastPath struct {
	mu        sync.RWMutex
	customers map[string]*fastCustomer
	requests  []AuditRecord
	feedback  []FeedbackRecord
}

// NewFastPath loads seed into a fresh provider.
func NewFastPath(seed Seed) (*FastPath, error) {
	fp := &FastPath{customers: make(map[string]*fastCustomer, len(seed.Customers))}
	for _, sc := range seed.Customers {
		c, err := sc.Customer()
		if err != nil {
			return nil, err
		}
		cards, err := sc.DomainCards()
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", sc.ID, err)
		}
		loans, err := sc.DomainLoans()
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", sc.ID, err)
		}
		txns, err := sc.DomainTransactions()
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", sc.ID, err)
		}
		sort.SliceStable(txns, func(i, j int) bool { return txns[i].Date.After(txns[j].Date) })

		fp.customers[sc.ID] = &fastCustomer{
			customer:     c,
			pin:          sc.PIN,
			cards:        cards,
			loans:        loans,
			transactions: txns,
		}
	}
	return fp, nil
}

// NewDemoFastPath loads the embedded demo identities.
func NewDemoFastPath() (*FastPath, error) {
	seed, err := DemoSeed()
	if err != nil {
		return nil, err
	}
	return NewFastPath(seed)
}

func (f *FastPath) Name() string { return "fastpath" }

func (f *FastPath) FindCustomer(ctx context.Context, customerID string) Lookup[Customer] {
	if err := ctx.Err(); err != nil {
		return LookupUnavailable[Customer](err)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.customers[customerID]
	if !ok {
		return LookupNotFound[Customer]()
	}
	return LookupFound(c.customer)
}

func (f *FastPath) CheckPIN(ctx context.Context, customerID, pin string) Lookup[bool] {
	if err := ctx.Err(); err != nil {
		return LookupUnavailable[bool](err)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.customers[customerID]
	if !ok {
		return LookupNotFound[bool]()
	}
	return LookupFound(subtle.ConstantTimeCompare([]byte(c.pin), []byte(pin)) == 1)
}

func (f *FastPath) ListCards(ctx context.Context, customerID string) Lookup[[]Card] {
	if err := ctx.Err(); err != nil {
		return LookupUnavailable[[]Card](err)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.customers[customerID]
	if !ok {
		return LookupNotFound[[]Card]()
	}
	return LookupFound(append([]Card(nil), c.cards...))
}

func (f *FastPath) RecentTransactions(ctx context.Context, customerID string, limit, offset int) Lookup[[]Transaction] {
	if err := ctx.Err(); err != nil {
		return LookupUnavailable[[]Transaction](err)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.customers[customerID]
	if !ok {
		return LookupNotFound[[]Transaction]()
	}
	if offset >= len(c.transactions) {
		return LookupFound([]Transaction{})
	}
	end := offset + limit
	if limit <= 0 || end > len(c.transactions) {
		end = len(c.transactions)
	}
	return LookupFound(append([]Transaction(nil), c.transactions[offset:end]...))
}

func (f *FastPath) ListLoans(ctx context.Context, customerID string) Lookup[[]Loan] {
	if err := ctx.Err(); err != nil {
		return LookupUnavailable[[]Loan](err)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.customers[customerID]
	if !ok {
		return LookupNotFound[[]Loan]()
	}
	return LookupFound(append([]Loan(nil), c.loans...))
}

func (f *FastPath) FreezeAccount(ctx context.Context, customerID string, audit AuditRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[customerID]
	if !ok {
		return ErrNotFound
	}
	c.customer.Frozen = true
	for i := range c.cards {
		c.cards[i].Status = CardBlocked
	}
	f.appendRequest(audit)
	return nil
}

func (f *FastPath) BlockCard(ctx context.Context, customerID, cardID string, audit AuditRecord) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[customerID]
	if !ok {
		return false, ErrNotFound
	}
	for i := range c.cards {
		if c.cards[i].ID != cardID {
			continue
		}
		if c.cards[i].Status == CardBlocked {
			return true, nil
		}
		c.cards[i].Status = CardBlocked
		f.appendRequest(audit)
		return false, nil
	}
	return false, fmt.Errorf("card %s: %w", cardID, ErrNotFound)
}

func (f *FastPath) SetInternationalTransactions(ctx context.Context, customerID string, enabled bool, audit AuditRecord) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[customerID]
	if !ok {
		return false, ErrNotFound
	}
	if c.customer.IntlEnabled == enabled {
		return false, nil
	}
	c.customer.IntlEnabled = enabled
	f.appendRequest(audit)
	return true, nil
}

func (f *FastPath) RecordRequest(ctx context.Context, audit AuditRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendRequest(audit)
	return nil
}

func (f *FastPath) RecordFeedback(ctx context.Context, feedback FeedbackRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	f.feedback = append(f.feedback, feedback)
	return nil
}

// caller holds f.mu
func (f *FastPath) appendRequest(audit AuditRecord) {
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now().UTC()
	}
	f.requests = append(f.requests, audit)
}

// Requests returns a copy of the audit log.
func (f *FastPath) Requests() []AuditRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]AuditRecord(nil), f.requests...)
}

func (f *FastPath) Feedback() []FeedbackRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]FeedbackRecord(nil), f.feedback...)
}
