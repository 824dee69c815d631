package abi

import (
	"strconv"
	"strings"
)

// WordSize is the width of one ABI word in bytes.
const WordSize = 32

// Kind enumerates the type kinds the encoder implements.
type Kind uint8

const (
	InvalidKind Kind = iota
	UintKind
	IntKind
	BoolKind
	FixedKind
	UfixedKind
	FixedBytesKind // bytes1 .. bytes32
	BytesKind
	StringKind
	AddressKind
	TupleKind
	ArrayKind // T[k]
	SliceKind // T[]
)

var kindNames = [...]string{
	InvalidKind:    "invalid",
	UintKind:       "uint",
	IntKind:        "int",
	BoolKind:       "bool",
	FixedKind:      "fixed",
	UfixedKind:     "ufixed",
	FixedBytesKind: "bytesN",
	BytesKind:      "bytes",
	StringKind:     "string",
	AddressKind:    "address",
	TupleKind:      "tuple",
	ArrayKind:      "array",
	SliceKind:      "slice",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Param is one declared parameter: a type string plus, for tuple types, the
// ordered field list.
type Param struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Components []Param `json:"components,omitempty"`
}

// Field is a named member of a tuple type.
type Field struct {
	Name string
	Type *Type
}

// Type is a resolved parameter type.
type Type struct {
	Kind Kind
	// Size is the bit width for int, uint and fixed (M), the byte length for
	// bytesN and the arity for T[k].
	Size     int
	Decimals int // N of fixedMxN
	Elem     *Type
	Fields   []Field

	raw string
}

// String returns the type as it was declared.
func (t *Type) String() string { return t.raw }

// IsDynamic reports whether the encoded size of t depends on the value.
func (t *Type) IsDynamic() bool {
	switch t.Kind {
	case BytesKind, StringKind, SliceKind:
		return true
	case ArrayKind:
		return t.Elem.IsDynamic()
	case TupleKind:
		for _, f := range t.Fields {
			if f.Type.IsDynamic() {
				return true
			}
		}
	}
	return false
}

// HeadSize returns the number of bytes t occupies in the head of the
// sequence that contains it: one offset word for dynamic types, the full
// inline encoding for static ones.
func (t *Type) HeadSize() int {
	if t.IsDynamic() {
		return WordSize
	}
	switch t.Kind {
	case ArrayKind:
		return t.Size * t.Elem.HeadSize()
	case TupleKind:
		n := 0
		for _, f := range t.Fields {
			n += f.Type.HeadSize()
		}
		return n
	}
	return WordSize
}

// Canonical returns the type string used in function signatures.
func (t *Type) Canonical() string {
	switch t.Kind {
	case UintKind, IntKind:
		return t.Kind.String() + strconv.Itoa(t.Size)
	case FixedKind, UfixedKind:
		return t.Kind.String() + strconv.Itoa(t.Size) + "x" + strconv.Itoa(t.Decimals)
	case FixedBytesKind:
		return "bytes" + strconv.Itoa(t.Size)
	case ArrayKind:
		return t.Elem.Canonical() + "[" + strconv.Itoa(t.Size) + "]"
	case SliceKind:
		return t.Elem.Canonical() + "[]"
	case TupleKind:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Type.Canonical()
		}
		return "(" + strings.Join(parts, ",") + ")"
	}
	return t.Kind.String()
}
