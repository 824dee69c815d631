package abi

import (
	"regexp"
	"strconv"
	"strings"
)

// Shape is what a Classifier reports about one type string. Array shapes set
// IsArray, Arity (0 for a dynamic-length array) and Elem; everything else sets
// Core and, when present, Subtype.
type Shape struct {
	IsArray bool
	Arity   int
	Elem    string

	Core    string // uint, int, bool, fixed, ufixed, bytes, string, address, tuple
	Subtype string // "256", "128x18", "32" or ""
}

// Classifier splits a type string into its structural parts.
type Classifier interface {
	Classify(typ string) (Shape, error)
}

// StandardClassifier understands the Solidity type grammar.
type StandardClassifier struct{}

var (
	arrayType  = regexp.MustCompile(`^(.+)\[([0-9]*)\]$`)
	scalarType = regexp.MustCompile(`^(uint|int|bool|fixed|ufixed|bytes|string|address|tuple)([0-9]+(?:x[0-9]+)?)?$`)
)

// Classify implements Classifier. The outermost array suffix is the last one,
// so "uint256[2][]" is a dynamic array of uint256[2].
func (StandardClassifier) Classify(typ string) (Shape, error) {
	typ = strings.TrimSpace(typ)
	if m := arrayType.FindStringSubmatch(typ); m != nil {
		s := Shape{IsArray: true, Elem: m[1]}
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil || n <= 0 {
				return Shape{}, newError(ErrMalformedType, nil, typ, "array length must be a positive integer")
			}
			s.Arity = n
		}
		return s, nil
	}
	m := scalarType.FindStringSubmatch(typ)
	if m == nil {
		return Shape{}, newError(ErrMalformedType, nil, typ, "unrecognised type")
	}
	return Shape{Core: m[1], Subtype: m[2]}, nil
}

// Resolve builds the Type of p with the StandardClassifier.
func Resolve(p Param) (*Type, error) {
	return resolve(StandardClassifier{}, p.Type, p.Components)
}

func resolve(c Classifier, typ string, components []Param) (*Type, error) {
	shape, err := c.Classify(typ)
	if err != nil {
		return nil, err
	}
	if shape.IsArray {
		// Components describe the innermost tuple, so they travel with the element.
		elem, err := resolve(c, shape.Elem, components)
		if err != nil {
			return nil, err
		}
		if shape.Arity > 0 {
			return &Type{Kind: ArrayKind, Size: shape.Arity, Elem: elem, raw: typ}, nil
		}
		return &Type{Kind: SliceKind, Elem: elem, raw: typ}, nil
	}

	t := &Type{raw: typ}
	sub := shape.Subtype
	switch shape.Core {
	case "uint", "int":
		t.Kind = UintKind
		if shape.Core == "int" {
			t.Kind = IntKind
		}
		t.Size = 256
		if sub != "" {
			n, err := strconv.Atoi(sub)
			if err != nil || n < 8 || n > 256 || n%8 != 0 {
				return nil, newError(ErrMalformedType, nil, typ, "integer width must be a multiple of 8 between 8 and 256")
			}
			t.Size = n
		}
	case "fixed", "ufixed":
		t.Kind = FixedKind
		if shape.Core == "ufixed" {
			t.Kind = UfixedKind
		}
		// A bare fixed is a full word with 128 fractional bits.
		t.Size, t.Decimals = 256, 128
		if sub != "" {
			m, n, ok := strings.Cut(sub, "x")
			if !ok {
				return nil, newError(ErrMalformedType, nil, typ, "fixed-point type needs an MxN subtype")
			}
			bits, err1 := strconv.Atoi(m)
			decimals, err2 := strconv.Atoi(n)
			if err1 != nil || err2 != nil || bits < 8 || bits > 256 || bits%8 != 0 || decimals > 80 {
				return nil, newError(ErrMalformedType, nil, typ, "fixed-point type needs M in 8..256 (multiple of 8) and N in 0..80")
			}
			t.Size, t.Decimals = bits, decimals
		}
	case "bytes":
		t.Kind = BytesKind
		if sub != "" {
			n, err := strconv.Atoi(sub)
			if err != nil || n < 1 || n > 32 {
				return nil, newError(ErrMalformedType, nil, typ, "fixed byte length must be between 1 and 32")
			}
			t.Kind, t.Size = FixedBytesKind, n
		}
	case "bool", "string", "address":
		if sub != "" {
			return nil, newError(ErrMalformedType, nil, typ, "%s takes no size suffix", shape.Core)
		}
		switch shape.Core {
		case "bool":
			t.Kind = BoolKind
		case "string":
			t.Kind = StringKind
		default:
			t.Kind = AddressKind
		}
	case "tuple":
		if sub != "" {
			return nil, newError(ErrMalformedType, nil, typ, "tuple takes no size suffix")
		}
		if len(components) == 0 {
			return nil, newError(ErrMalformedType, nil, typ, "tuple has no components")
		}
		t.Kind = TupleKind
		t.Fields = make([]Field, len(components))
		for i, comp := range components {
			ft, err := resolve(c, comp.Type, comp.Components)
			if err != nil {
				return nil, prefixPath(err, []string{fieldLabel(comp.Name, i)})
			}
			t.Fields[i] = Field{Name: comp.Name, Type: ft}
		}
	default:
		return nil, newError(ErrUnsupportedType, nil, typ, "no encoding for %q", shape.Core)
	}
	return t, nil
}

func fieldLabel(name string, index int) string {
	if name != "" {
		return name
	}
	return "[" + strconv.Itoa(index) + "]"
}
