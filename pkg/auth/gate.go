package auth

import (
	"context"
	"errors"

	"vaulta-banking-be/pkg/banking"
	"vaulta-banking-be/pkg/credentials"
	"vaulta-banking-be/pkg/intent"
	"vaulta-banking-be/pkg/store"
)

// DefaultMaxAttempts is the failed-verification count that locks a session.
const DefaultMaxAttempts = 3

type Outcome string

const (
	OutcomeVerified       Outcome = "verified"
	OutcomeFailed         Outcome = "failed"
	OutcomeLocked         Outcome = "locked"
	OutcomeNeedPIN        Outcome = "need_pin"
	OutcomeNeedCustomerID Outcome = "need_customer_id"
	OutcomeNoCredentials  Outcome = "no_credentials"
	OutcomeUnavailable    Outcome = "unavailable"
)

// Verifier checks a customer ID and PIN pair.
type Verifier interface {
	VerifyIdentity(ctx context.Context, customerID, pin string) (banking.Customer, error)
}

// Result is the gate's verdict plus the session it produced. The input
// session is never modified.
type Result struct {
	Outcome  Outcome
	Session  store.ConversationSession
	Customer banking.Customer
	// Remaining is the number of attempts left after a failure.
	Remaining int
	// LookedUp reports whether the verifier was consulted.
	LookedUp bool
	Err      error
}

type Gate struct {
	verifier    Verifier
	refKey      []byte
	maxAttempts int
}

type Option func(*Gate)

func WithMaxAttempts(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

func NewGate(verifier Verifier, refKey []byte, opts ...Option) *Gate {
	g := &Gate{
		verifier:    verifier,
		refKey:      refKey,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) MaxAttempts() int {
	return g.maxAttempts
}

// RequiresAuth is false only for the intents that never touch customer
// data.
func RequiresAuth(it intent.Intent) bool {
	switch it {
	case intent.Greeting, intent.Feedback, intent.Unknown:
		return false
	default:
		return true
	}
}

// IsLocked reports whether sess can no longer verify.
func (g *Gate) IsLocked(sess store.ConversationSession) bool {
	return sess.Locked || sess.Attempts >= g.maxAttempts
}

// Attempt runs one verification step for sess with whatever credentials
// the current turn carried.
//
// A customer ID without a PIN is held on the session until the next turn;
// a PIN without an ID is never held. A locked session is rejected before
// any lookup. Attempts survive a successful verification.
func (g *Gate) Attempt(ctx context.Context, sess store.ConversationSession, creds credentials.Credentials) Result {
	next := sess.Clone()

	if g.IsLocked(next) {
		next.Locked = true
		next.Escalate = true
		next.PendingCustomerID = ""
		return Result{Outcome: OutcomeLocked, Session: next}
	}

	id, pin := creds.CustomerID, creds.PIN
	if pin == "" && id != "" && next.PendingCustomerID != "" && looksLikePIN(id) {
		// The previous turn gave the ID; a lone group now is the PIN.
		id, pin = next.PendingCustomerID, id
	}
	if id == "" {
		id = next.PendingCustomerID
	}

	switch {
	case id == "" && pin == "":
		return Result{Outcome: OutcomeNoCredentials, Session: next}
	case pin == "":
		next.PendingCustomerID = id
		return Result{Outcome: OutcomeNeedPIN, Session: next}
	case id == "":
		return Result{Outcome: OutcomeNeedCustomerID, Session: next}
	}

	customer, err := g.verifier.VerifyIdentity(ctx, id, pin)
	if err != nil {
		if errors.Is(banking.KindOf(err), banking.ErrUnavailable) {
			return Result{Outcome: OutcomeUnavailable, Session: sess.Clone(), LookedUp: true, Err: err}
		}

		next.Attempts++
		next.PendingCustomerID = ""
		res := Result{
			Outcome:   OutcomeFailed,
			Session:   next,
			Remaining: g.maxAttempts - next.Attempts,
			LookedUp:  true,
			Err:       err,
		}
		if next.Attempts >= g.maxAttempts {
			res.Session.Locked = true
			res.Session.Escalate = true
			res.Outcome = OutcomeLocked
			res.Remaining = 0
		}
		return res
	}

	next.Verified = true
	next.CustomerID = customer.ID
	next.CustomerRef = credentials.CustomerRef(g.refKey, customer.ID)
	next.PendingCustomerID = ""
	return Result{Outcome: OutcomeVerified, Session: next, Customer: customer, LookedUp: true}
}

func looksLikePIN(s string) bool {
	return len(s) >= 4 && len(s) <= 8
}
