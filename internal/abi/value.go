package abi

import (
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

// ValueKind is the tag of a Value.
type ValueKind uint8

const (
	NoValue ValueKind = iota
	IntValue
	BoolValue
	RationalValue
	BytesValue
	TextValue
	AddressValue
	TupleValue
	ArrayValue
)

var valueKindNames = [...]string{
	NoValue:       "no value",
	IntValue:      "integer",
	BoolValue:     "boolean",
	RationalValue: "rational",
	BytesValue:    "bytes",
	TextValue:     "text",
	AddressValue:  "address",
	TupleValue:    "tuple",
	ArrayValue:    "array",
}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "unknown"
}

// Value is a run-time argument. Build one with the constructors below; the
// zero Value matches no type.
type Value struct {
	kind  ValueKind
	num   *big.Int
	rat   *big.Rat
	flag  bool
	data  []byte
	text  string
	items []Value
}

// Int returns an integer value. A nil v is zero.
func Int(v *big.Int) Value {
	n := new(big.Int)
	if v != nil {
		n.Set(v)
	}
	return Value{kind: IntValue, num: n}
}

// Int64 returns an integer value.
func Int64(v int64) Value { return Value{kind: IntValue, num: big.NewInt(v)} }

// Uint64 returns an integer value.
func Uint64(v uint64) Value { return Value{kind: IntValue, num: new(big.Int).SetUint64(v)} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: BoolValue, flag: v} }

// Rational returns a fixed-point value. A nil v is zero.
func Rational(v *big.Rat) Value {
	r := new(big.Rat)
	if v != nil {
		r.Set(v)
	}
	return Value{kind: RationalValue, rat: r}
}

// Bytes returns a raw byte sequence value.
func Bytes(v []byte) Value { return Value{kind: BytesValue, data: slices.Clone(v)} }

// Text returns a UTF-8 string value.
func Text(v string) Value { return Value{kind: TextValue, text: v} }

// Address returns an address value from its hex form, with or without 0x.
// The length is checked when the value is encoded.
func Address(hex string) Value { return Value{kind: AddressValue, text: hex} }

// AddressFrom returns an address value.
func AddressFrom(a common.Address) Value { return Address(a.Hex()) }

// Tuple returns a tuple of field values in declaration order.
func Tuple(fields ...Value) Value { return Value{kind: TupleValue, items: slices.Clone(fields)} }

// Array returns an array value for both T[k] and T[].
func Array(items ...Value) Value { return Value{kind: ArrayValue, items: slices.Clone(items)} }

// Kind returns the tag of v.
func (v Value) Kind() ValueKind { return v.kind }

// Len returns the element count of tuples and arrays and the byte length of
// bytes and text values.
func (v Value) Len() int {
	switch v.kind {
	case TupleValue, ArrayValue:
		return len(v.items)
	case BytesValue:
		return len(v.data)
	case TextValue:
		return len(v.text)
	}
	return 0
}
