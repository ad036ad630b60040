package scan

import (
	"errors"
	"log/slog"
	"strings"
)

// Sentinel errors. Test with [errors.Is].
var (
	ErrAllocation    = NewError("buffer allocation failed")
	ErrStreamOpen    = NewError("failed to open input stream")
	ErrStreamRead    = NewError("failed to read input stream")
	ErrInvalidOption = NewError("invalid option")
)

// Error is a scan error carrying optional structured logging attributes.
// It implements both error and slog.LogValuer.
//
// Errors derived from a sentinel with [Error.Wrap] or [Error.With] still
// match that sentinel with [errors.Is].
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
	base  *Error
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err as an *Error, wrapping it if it is not one already.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// "<msg>: <err>", "<msg>", "<err>", or "" depending on which are set.
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err as its cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
		base:  e.root(),
	}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		base:  e.root(),
	}
}

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}
