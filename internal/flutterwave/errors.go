package flutterwave

import (
	"errors"
	"fmt"
)

// ErrNotYetAvailable is returned by QueryTransactionByRef when the gateway
// has no transaction indexed for the reference yet. It is retryable and does
// not indicate a failed payment.
var ErrNotYetAvailable = errors.New("transaction not yet available")

var (
	// ErrUnavailable matches any *Error of kind KindUnavailable.
	ErrUnavailable = errors.New("payment gateway unavailable")

	// ErrRejected matches any *Error of kind KindRejected.
	ErrRejected = errors.New("payment gateway rejected the request")
)

// ErrorKind classifies gateway failures.
type ErrorKind int

const (
	// KindUnavailable covers network errors, timeouts and 5xx responses.
	KindUnavailable ErrorKind = iota + 1
	// KindRejected covers 4xx responses and bodies reporting a non-success status.
	KindRejected
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Error is a failed gateway call.
type Error struct {
	Kind   ErrorKind
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("flutterwave %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("flutterwave %s: %s: %s", e.Op, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match on kind with errors.Is(err, ErrUnavailable).
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrRejected:
		return e.Kind == KindRejected
	}
	return false
}

func unavailable(op string, err error) *Error {
	return &Error{Kind: KindUnavailable, Op: op, Detail: err.Error(), Err: err}
}

func rejected(op, detail string) *Error {
	return &Error{Kind: KindRejected, Op: op, Detail: detail}
}
