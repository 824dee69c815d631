package abi

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Error kinds. Every error returned by this package wraps exactly one of
// them, so callers can test with errors.Is.
var (
	ErrArgumentCount   = errors.New("argument count mismatch")
	ErrInvalidValue    = errors.New("invalid value")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrMalformedType   = errors.New("malformed type")
)

// Error describes why an encode call failed and where.
type Error struct {
	Kind   error    // one of the Err* kinds above
	Index  int      // top-level argument index, -1 when not tied to one
	Path   []string // field path below the argument, e.g. ["orders", "[2]", "price"]
	Type   string   // declared type string of the offending value
	Detail string
}

func newError(kind error, path []string, typ, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Index:  -1,
		Path:   slices.Clone(path),
		Type:   typ,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("abi: ")
	b.WriteString(e.Kind.Error())
	if e.Index >= 0 {
		fmt.Fprintf(&b, " in argument %d", e.Index)
	}
	if p := e.FieldPath(); p != "" {
		b.WriteString(" at ")
		b.WriteString(p)
	}
	if e.Type != "" {
		b.WriteString(" (")
		b.WriteString(e.Type)
		b.WriteByte(')')
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error { return e.Kind }

// FieldPath renders Path as "orders[2].price".
func (e *Error) FieldPath() string {
	var b strings.Builder
	for i, seg := range e.Path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// locate fills in the position of err if the rule that produced it did not
// know where it was.
func locate(err error, path []string, typ string) error {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Path == nil {
			ae.Path = slices.Clone(path)
		}
		if ae.Type == "" {
			ae.Type = typ
		}
	}
	return err
}

// prefixPath places err below prefix.
func prefixPath(err error, prefix []string) error {
	var ae *Error
	if errors.As(err, &ae) && len(prefix) > 0 {
		ae.Path = append(slices.Clone(prefix), ae.Path...)
	}
	return err
}

func withIndex(err error, index int) error {
	var ae *Error
	if errors.As(err, &ae) {
		ae.Index = index
	}
	return err
}
