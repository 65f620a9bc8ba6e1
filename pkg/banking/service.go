package banking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultTimeout = 3 * time.Second

	// One reward point is worth one cent.
	pointValue = "0.01"
)

// Service is the single entry point for banking operations. It fans out
// over its providers so callers never know which one answered.
type Service struct {
	providers  []Provider
	refs       *ReferenceGenerator
	statements StatementDispatcher
	timeout    time.Duration
}

type Option func(*Service)

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithReferenceGenerator(g *ReferenceGenerator) Option {
	return func(s *Service) { s.refs = g }
}

func WithStatementDispatcher(d StatementDispatcher) Option {
	return func(s *Service) { s.statements = d }
}

// NewService consults providers in the order given. Put the fast path first.
func NewService(providers []Provider, opts ...Option) *Service {
	s := &Service{
		providers: providers,
		refs:      NewReferenceGenerator(nil),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// mutationError normalizes a provider mutation error into an OpError.
func mutationError(op string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return opError(op, ErrUnavailable, err)
	}
	return opError(op, KindOf(err), err)
}

// owner finds the provider that knows customerID. Not found is only
// reported when every provider answered; otherwise the result is
// unavailable.
func (s *Service) owner(ctx context.Context, op, customerID string) (Provider, Customer, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, Customer{}, opError(op, ErrInvalid, errors.New("customer id is required"))
	}

	var failures []error
	for _, p := range s.providers {
		cctx, cancel := s.bounded(ctx)
		res := p.FindCustomer(cctx, customerID)
		cancel()

		switch res.Status {
		case Found:
			return p, res.Value, nil
		case Unavailable:
			failures = append(failures, res.Err)
		}
	}
	if len(failures) > 0 {
		return nil, Customer{}, opError(op, ErrUnavailable, errors.Join(failures...))
	}
	return nil, Customer{}, opError(op, ErrNotFound, nil)
}

// VerifyIdentity checks the PIN against the owning provider. Unknown IDs
// and wrong PINs are distinguishable here but must not be to the caller.
func (s *Service) VerifyIdentity(ctx context.Context, customerID, pin string) (Customer, error) {
	const op = "verify_identity"
	p, customer, err := s.owner(ctx, op, customerID)
	if err != nil {
		return Customer{}, err
	}

	cctx, cancel := s.bounded(ctx)
	defer cancel()
	res := p.CheckPIN(cctx, customerID, pin)
	if err := res.asError(op); err != nil {
		return Customer{}, err
	}
	if !res.Value {
		return Customer{}, opError(op, ErrInvalid, ErrCredentialMismatch)
	}
	return customer, nil
}

// Account returns the customer's primary account, including its balance.
func (s *Service) Account(ctx context.Context, customerID string) (Customer, error) {
	_, customer, err := s.owner(ctx, "account", customerID)
	return customer, err
}

func (s *Service) RecentTransactions(ctx context.Context, customerID string, limit, offset int) ([]Transaction, error) {
	const op = "recent_transactions"
	p, _, err := s.owner(ctx, op, customerID)
	if err != nil {
		return nil, err
	}
	cctx, cancel := s.bounded(ctx)
	defer cancel()
	res := p.RecentTransactions(cctx, customerID, limit, offset)
	if err := res.asError(op); err != nil {
		return nil, err
	}
	return res.Value, nil
}

func (s *Service) Loans(ctx context.Context, customerID string) ([]Loan, error) {
	const op = "loans"
	p, _, err := s.owner(ctx, op, customerID)
	if err != nil {
		return nil, err
	}
	cctx, cancel := s.bounded(ctx)
	defer cancel()
	res := p.ListLoans(cctx, customerID)
	if err := res.asError(op); err != nil {
		return nil, err
	}
	return res.Value, nil
}

func (s *Service) Cards(ctx context.Context, customerID string) ([]Card, error) {
	const op = "cards"
	p, _, err := s.owner(ctx, op, customerID)
	if err != nil {
		return nil, err
	}
	cctx, cancel := s.bounded(ctx)
	defer cancel()
	res := p.ListCards(cctx, customerID)
	if err := res.asError(op); err != nil {
		return nil, err
	}
	return res.Value, nil
}

// BlockCard permanently blocks one card. Blocking an already blocked card
// is a no-op reported through AlreadyBlocked.
func (s *Service) BlockCard(ctx context.Context, customerID, cardID string) (BlockResult, error) {
	const op = "block_card"
	p, _, err := s.owner(ctx, op, customerID)
	if err != nil {
		return BlockResult{}, err
	}

	cctx, cancel := s.bounded(ctx)
	defer cancel()

	cards := p.ListCards(cctx, customerID)
	if err := cards.asError(op); err != nil {
		return BlockResult{}, err
	}
	var target *Card
	for i := range cards.Value {
		if cards.Value[i].ID == cardID {
			target = &cards.Value[i]
			break
		}
	}
	if target == nil {
		return BlockResult{}, opError(op, ErrNotFound, errors.New("card not on this account"))
	}
	if target.Status == CardBlocked {
		return BlockResult{Card: *target, AlreadyBlocked: true}, nil
	}

	ref := s.refs.Next(cctx, PrefixCardBlock)
	already, err := p.BlockCard(cctx, customerID, cardID, AuditRecord{
		CustomerID: customerID,
		Type:       RequestCardBlock,
		Reference:  ref,
		Status:     StatusCompleted,
		Details:    map[string]interface{}{"card_id": cardID, "last_four": target.LastFour},
	})
	if err != nil {
		return BlockResult{}, mutationError(op, err)
	}

	result := BlockResult{Card: *target, AlreadyBlocked: already}
	result.Card.Status = CardBlocked
	if !already {
		result.Reference = ref
	}
	return result, nil
}

// Rewards totals points across every card on the account.
func (s *Service) Rewards(ctx context.Context, customerID string) (Rewards, error) {
	cards, err := s.Cards(ctx, customerID)
	if err != nil {
		var opErr *OpError
		if errors.As(err, &opErr) {
			opErr.Op = "rewards"
		}
		return Rewards{}, err
	}
	r := Rewards{Cards: cards}
	for _, c := range cards {
		r.Points += c.RewardsPoints
	}
	r.CashValue = decimal.NewFromInt(int64(r.Points)).Mul(decimal.RequireFromString(pointValue))
	return r, nil
}

// ReportFraud freezes the account and blocks every card together with the
// fraud audit row. note must already be redacted.
func (s *Service) ReportFraud(ctx context.Context, customerID, note string) (string, error) {
	const op = "report_fraud"
	p, _, err := s.owner(ctx, op, customerID)
	if err != nil {
		return "", err
	}

	cctx, cancel := s.bounded(ctx)
	defer cancel()
	ref := s.refs.Next(cctx, PrefixFraud)
	if note == "" {
		note = "Unauthorized transaction reported"
	}
	err = p.FreezeAccount(cctx, customerID, AuditRecord{
		CustomerID: customerID,
		Type:       RequestFraudReport,
		Reference:  ref,
		Status:     StatusUrgent,
		Details:    map[string]interface{}{"note": note, "authenticated": true},
	})
	if err != nil {
		return "", mutationError(op, err)
	}
	return ref, nil
}

// ReportUnauthenticatedFraud records a fraud flag for a caller who has not
// been identified. Providers are tried from last to first so the durable
// store is preferred; the in-memory fast path is the final fallback so the
// flag is never dropped.
func (s *Service) ReportUnauthenticatedFraud(ctx context.Context, sessionRef, note string) (string, error) {
	const op = "report_unauthenticated_fraud"
	ref := s.refs.Next(ctx, PrefixFraud)
	audit := AuditRecord{
		Type:      RequestFraudReport,
		Reference: ref,
		Status:    StatusUrgent,
		Details: map[string]interface{}{
			"note":          note,
			"authenticated": false,
			"session_ref":   sessionRef,
		},
	}

	var failures []error
	for i := len(s.providers) - 1; i >= 0; i-- {
		cctx, cancel := s.bounded(ctx)
		err := s.providers[i].RecordRequest(cctx, audit)
		cancel()
		if err == nil {
			return ref, nil
		}
		failures = append(failures, err)
	}
	return ref, opError(op, ErrUnavailable, errors.Join(failures...))
}

// ToggleInternational sets international transactions on or off. Asking for
// the current value changes nothing and writes no audit row. A frozen
// account cannot be opened up.
func (s *Service) ToggleInternational(ctx context.Context, customerID string, enable bool) (ToggleResult, error) {
	const op = "toggle_international"
	p, customer, err := s.owner(ctx, op, customerID)
	if err != nil {
		return ToggleResult{}, err
	}
	if enable && customer.Frozen {
		return ToggleResult{}, opError(op, ErrInvalid, ErrAccountFrozen)
	}
	if customer.IntlEnabled == enable {
		return ToggleResult{Enabled: enable}, nil
	}

	cctx, cancel := s.bounded(ctx)
	defer cancel()
	ref := s.refs.Next(cctx, PrefixIntl)
	action := "DISABLED"
	if enable {
		action = "ENABLED"
	}
	changed, err := p.SetInternationalTransactions(cctx, customerID, enable, AuditRecord{
		CustomerID: customerID,
		Type:       RequestIntlToggle,
		Reference:  ref,
		Status:     StatusCompleted,
		Details:    map[string]interface{}{"action": action},
	})
	if err != nil {
		return ToggleResult{}, mutationError(op, err)
	}

	result := ToggleResult{Enabled: enable, Changed: changed}
	if changed {
		result.Reference = ref
	}
	return result, nil
}

func (s *Service) RequestChequeBook(ctx context.Context, customerID string) (ChequeBookResult, error) {
	const op = "request_cheque_book"
	p, customer, err := s.owner(ctx, op, customerID)
	if err != nil {
		return ChequeBookResult{}, err
	}
	if customer.Frozen {
		return ChequeBookResult{}, opError(op, ErrInvalid, ErrAccountFrozen)
	}

	address := customer.Address
	if address == "" {
		address = "your registered address"
	}

	cctx, cancel := s.bounded(ctx)
	defer cancel()
	ref := s.refs.Next(cctx, PrefixChequeBook)
	err = p.RecordRequest(cctx, AuditRecord{
		CustomerID: customerID,
		Type:       RequestChequeBook,
		Reference:  ref,
		Status:     StatusProcessing,
		Details:    map[string]interface{}{"delivery_address": address},
	})
	if err != nil {
		return ChequeBookResult{}, mutationError(op, err)
	}
	return ChequeBookResult{Reference: ref, Address: address, Email: customer.Email}, nil
}

// SubmitFeedback stores a Pending feedback row. customerID may be empty;
// text must already be redacted.
func (s *Service) SubmitFeedback(ctx context.Context, customerID string, kind FeedbackType, text string) (string, error) {
	const op = "submit_feedback"
	ref := s.refs.Next(ctx, PrefixFeedback)
	record := FeedbackRecord{
		CustomerID: customerID,
		Type:       kind,
		Text:       text,
		Reference:  ref,
		Status:     StatusPending,
	}

	if customerID != "" {
		p, _, err := s.owner(ctx, op, customerID)
		if err != nil {
			return "", err
		}
		cctx, cancel := s.bounded(ctx)
		defer cancel()
		if err := p.RecordFeedback(cctx, record); err != nil {
			return "", mutationError(op, err)
		}
		return ref, nil
	}

	var failures []error
	for i := len(s.providers) - 1; i >= 0; i-- {
		cctx, cancel := s.bounded(ctx)
		err := s.providers[i].RecordFeedback(cctx, record)
		cancel()
		if err == nil {
			return ref, nil
		}
		failures = append(failures, err)
	}
	return "", opError(op, ErrUnavailable, errors.Join(failures...))
}

// RequestStatement queues a statement email and returns without waiting
// for delivery.
func (s *Service) RequestStatement(ctx context.Context, customerID, period string) error {
	const op = "request_statement"
	if s.statements == nil {
		return opError(op, ErrUnavailable, ErrNoDispatcher)
	}
	if period == "" {
		period = "monthly"
	}
	if err := s.statements.Dispatch(ctx, StatementRequest{CustomerID: customerID, Period: period}); err != nil {
		return opError(op, ErrUnavailable, err)
	}
	return nil
}
