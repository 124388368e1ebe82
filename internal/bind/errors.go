package bind

import (
	"errors"
	"fmt"

	"github.com/tuannm99/novabind/internal/wire"
)

// Error kinds. Every *Error matches exactly one of them with errors.Is.
var (
	ErrEncodingOverflow      = errors.New("bind: encoding overflow")
	ErrUnsupportedConversion = errors.New("bind: unsupported conversion")
	ErrCappedSizeMismatch    = errors.New("bind: capped size mismatch")
	ErrUnimplementedAdapter  = errors.New("bind: adapter not implemented")
	ErrEncodeFailed          = errors.New("bind: encode failed")
)

// Error reports a failed column bind with enough context to find the
// offending value. Row is -1 when the failure is not tied to a row.
type Error struct {
	Kind   error
	Column int
	Row    int
	Tag    wire.Tag
	Err    error
}

func (e *Error) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%v: column %d (%s): %v", e.Kind, e.Column, e.Tag, e.Err)
	}
	return fmt.Sprintf("%v: column %d row %d (%s): %v", e.Kind, e.Column, e.Row, e.Tag, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError classifies cause into one of the error kinds.
func NewError(col, row int, tag wire.Tag, cause error) *Error {
	return &Error{Kind: kindOf(cause), Column: col, Row: row, Tag: tag, Err: cause}
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, ErrCappedSizeMismatch):
		return ErrCappedSizeMismatch
	case errors.Is(err, ErrEncodingOverflow), errors.Is(err, wire.ErrShortSlot):
		return ErrEncodingOverflow
	case errors.Is(err, ErrUnimplementedAdapter), errors.Is(err, wire.ErrUnimplemented):
		return ErrUnimplementedAdapter
	case errors.Is(err, ErrUnsupportedConversion):
		return ErrUnsupportedConversion
	default:
		return ErrEncodeFailed
	}
}

// KindLabel returns a short snake_case label for the kind of err, for use as
// a metric attribute. Errors that are not bind errors are labelled "other".
func KindLabel(err error) string {
	var be *Error
	if !errors.As(err, &be) {
		return "other"
	}
	switch be.Kind {
	case ErrEncodingOverflow:
		return "encoding_overflow"
	case ErrUnsupportedConversion:
		return "unsupported_conversion"
	case ErrCappedSizeMismatch:
		return "capped_size_mismatch"
	case ErrUnimplementedAdapter:
		return "unimplemented_adapter"
	default:
		return "encode_failed"
	}
}
