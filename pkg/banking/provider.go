package banking

import "context"

// Provider is one backing source of customer data. The Service asks
// providers in order and treats the first one that knows a customer as that
// customer's owner for every later call.
//
// Mutations must apply the state change and its audit record atomically and
// return errors wrapping ErrNotFound, ErrUnavailable or ErrInvalid.
type Provider interface {
	Name() string

	FindCustomer(ctx context.Context, customerID string) Lookup[Customer]
	CheckPIN(ctx context.Context, customerID, pin string) Lookup[bool]
	ListCards(ctx context.Context, customerID string) Lookup[[]Card]
	RecentTransactions(ctx context.Context, customerID string, limit, offset int) Lookup[[]Transaction]
	ListLoans(ctx context.Context, customerID string) Lookup[[]Loan]

	// FreezeAccount freezes the account, blocks every active card and
	// records the fraud report in one unit.
	FreezeAccount(ctx context.Context, customerID string, audit AuditRecord) error
	BlockCard(ctx context.Context, customerID, cardID string, audit AuditRecord) (alreadyBlocked bool, err error)
	SetInternationalTransactions(ctx context.Context, customerID string, enabled bool, audit AuditRecord) (changed bool, err error)
	RecordRequest(ctx context.Context, audit AuditRecord) error
	RecordFeedback(ctx context.Context, feedback FeedbackRecord) error
}

// StatementRequest asks for an account statement to be emailed.
type StatementRequest struct {
	CustomerID string `json:"customer_id"`
	Period     string `json:"period"`
}

// StatementDispatcher hands a statement request to background delivery.
// Dispatch must not wait for the email to be sent.
type StatementDispatcher interface {
	Dispatch(ctx context.Context, req StatementRequest) error
}
