package transparencia

import (
	"context"
	"errors"
	"fmt"
	"net"
)

type Kind int

const (
	// KindInternal covers every failure that is not one of the kinds below.
	KindInternal Kind = iota
	// KindInvalidInput means a required query parameter was missing.
	KindInvalidInput
	// KindUpstreamUnavailable means the portal answered the query with a non-200 status.
	KindUpstreamUnavailable
	// KindUpstreamTimeout means the query did not finish within the configured timeout.
	KindUpstreamTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindUpstreamTimeout:
		return "upstream_timeout"
	default:
		return "internal"
	}
}

// Error is the only error type returned by Client.Query.
type Error struct {
	Kind Kind
	// Op is the step that failed (validate, session, warmup, consult, parse).
	Op string
	// Status is the upstream HTTP status for KindUpstreamUnavailable.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%s, status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, errors not produced by this package
// are KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// classify wraps a transport-level failure, separating timeouts from
// everything else.
func classify(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindUpstreamTimeout, Op: op, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindUpstreamTimeout, Op: op, Err: err}
	}
	return &Error{Kind: KindInternal, Op: op, Err: err}
}
