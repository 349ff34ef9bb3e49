package mercadobitcoin

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure. Kinds are errors themselves, so callers test
// with errors.Is(err, mercadobitcoin.ErrProtocol).
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	ErrConfiguration   Kind = "configuration error"
	ErrInvalidArgument Kind = "invalid argument"
	ErrTransport       Kind = "transport error"
	ErrProtocol        Kind = "protocol error"
	ErrCancelled       Kind = "cancelled"
)

// Error is the single error type returned by this package.
type Error struct {
	Kind       Kind
	Op         string // operation, e.g. "list_positions"
	Field      string // offending argument or setting
	StatusCode int    // upstream status; ErrTransport only, 0 when no response was received
	Body       string // raw upstream body, verbatim up to the client body limit; ErrTransport only
	Msg        string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("mercadobitcoin: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Field != "" {
		b.WriteString(" (")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the Kind of err, or "" when err did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func configError(field, msg string) *Error {
	return &Error{Kind: ErrConfiguration, Field: field, Msg: msg}
}

func invalidArgument(op, field, msg string) *Error {
	return &Error{Kind: ErrInvalidArgument, Op: op, Field: field, Msg: msg}
}

func transportError(op string, status int, body string) *Error {
	return &Error{Kind: ErrTransport, Op: op, StatusCode: status, Body: body}
}

func protocolError(op, msg string, err error) *Error {
	return &Error{Kind: ErrProtocol, Op: op, Msg: msg, Err: err}
}

func cancelledError(op string, err error) *Error {
	return &Error{Kind: ErrCancelled, Op: op, Err: err}
}

// classifyDoError maps a failed round trip (no response) to a Kind.
// A done caller context always wins over whatever the transport reported.
func classifyDoError(ctx context.Context, op string, err error) *Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cancelledError(op, ctxErr)
	}
	if errors.Is(err, context.Canceled) {
		return cancelledError(op, err)
	}
	return &Error{Kind: ErrTransport, Op: op, Msg: "no response", Err: err}
}
