package banking

type Status int

const (
	Found Status = iota + 1
	NotFound
	Unavailable
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Lookup is a provider read result. Value is only meaningful when Status is
// Found; Err is only set when Status is Unavailable.
type Lookup[T any] struct {
	Value  T
	Status Status
	Err    error
}

func LookupFound[T any](v T) Lookup[T] {
	return Lookup[T]{Value: v, Status: Found}
}

func LookupNotFound[T any]() Lookup[T] {
	return Lookup[T]{Status: NotFound}
}

func LookupUnavailable[T any](err error) Lookup[T] {
	if err == nil {
		err = ErrUnavailable
	}
	return Lookup[T]{Status: Unavailable, Err: err}
}

// asError converts a non-found lookup into a typed error for op.
func (l Lookup[T]) asError(op string) error {
	switch l.Status {
	case Found:
		return nil
	case NotFound:
		return opError(op, ErrNotFound, nil)
	default:
		return opError(op, ErrUnavailable, l.Err)
	}
}
