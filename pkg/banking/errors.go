package banking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("data source unavailable")
	ErrInvalid     = errors.New("invalid request")

	ErrAccountFrozen      = errors.New("account is frozen")
	ErrCredentialMismatch = errors.New("credentials do not match")
	ErrNoDispatcher       = errors.New("statement dispatcher not configured")
)

// OpError records which banking operation failed and how. Kind is always
// one of ErrNotFound, ErrUnavailable or ErrInvalid.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("banking %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("banking %s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func opError(op string, kind, err error) error {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// KindOf returns the typed kind of err, or ErrUnavailable for anything a
// provider did not classify.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrInvalid):
		return ErrInvalid
	default:
		return ErrUnavailable
	}
}
