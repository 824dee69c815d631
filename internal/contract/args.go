package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/w3abi/internal/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"gopkg.in/yaml.v3"
)

// ParseArgs converts command-line strings into values for params.
func ParseArgs(params []abi.Param, args []string) ([]abi.Value, error) {
	if len(params) != len(args) {
		return nil, fmt.Errorf("%w: %d parameters declared, %d arguments given", abi.ErrArgumentCount, len(params), len(args))
	}
	values := make([]abi.Value, len(args))
	for i, p := range params {
		t, err := abi.Resolve(p)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		v, err := ParseArg(t, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, p.Type, err)
		}
		values[i] = v
	}
	return values, nil
}

// ValuesFromAny converts decoded JSON or YAML values into values for params.
func ValuesFromAny(params []abi.Param, raw []any) ([]abi.Value, error) {
	if len(params) != len(raw) {
		return nil, fmt.Errorf("%w: %d parameters declared, %d arguments given", abi.ErrArgumentCount, len(params), len(raw))
	}
	values := make([]abi.Value, len(raw))
	for i, p := range params {
		t, err := abi.Resolve(p)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		v, err := FromAny(t, raw[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, p.Type, err)
		}
		values[i] = v
	}
	return values, nil
}

// ParseArg converts one command-line string into a value of type t.
//
// Integers accept decimal, 0x hex, 0o octal and 0b binary. Bytes must be 0x
// hex. Arrays and tuples are written as JSON: [1,2], ["0xab",true] or an
// object keyed by field name.
func ParseArg(t *abi.Type, s string) (abi.Value, error) {
	switch t.Kind {
	case abi.ArrayKind, abi.SliceKind, abi.TupleKind:
		dec := json.NewDecoder(strings.NewReader(s))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return abi.Value{}, fmt.Errorf("%w: %s value must be JSON: %v", abi.ErrInvalidValue, t, err)
		}
		return FromAny(t, v)
	}
	return FromAny(t, strings.TrimSpace(s))
}

// FromAny converts a decoded JSON or YAML value into a value of type t.
// Numbers may be given as strings to stay exact.
func FromAny(t *abi.Type, v any) (abi.Value, error) {
	switch t.Kind {
	case abi.UintKind, abi.IntKind:
		n, err := toInt(v)
		if err != nil {
			return abi.Value{}, err
		}
		return abi.Int(n), nil

	case abi.BoolKind:
		switch b := v.(type) {
		case bool:
			return abi.Bool(b), nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return abi.Value{}, fmt.Errorf("%w: %q is not a boolean", abi.ErrInvalidValue, b)
			}
			return abi.Bool(parsed), nil
		}

	case abi.FixedKind, abi.UfixedKind:
		r, err := toRat(v)
		if err != nil {
			return abi.Value{}, err
		}
		return abi.Rational(r), nil

	case abi.FixedBytesKind, abi.BytesKind:
		if s, ok := literal(v); ok {
			b, err := hexutil.Decode(s)
			if err != nil {
				return abi.Value{}, fmt.Errorf("%w: %q: %v", abi.ErrInvalidValue, s, err)
			}
			return abi.Bytes(b), nil
		}

	case abi.StringKind:
		if s, ok := v.(string); ok {
			return abi.Text(s), nil
		}

	case abi.AddressKind:
		if s, ok := literal(v); ok {
			return abi.Address(s), nil
		}

	case abi.ArrayKind, abi.SliceKind:
		items, ok := v.([]any)
		if !ok {
			break
		}
		out := make([]abi.Value, len(items))
		for i, item := range items {
			iv, err := FromAny(t.Elem, item)
			if err != nil {
				return abi.Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = iv
		}
		return abi.Array(out...), nil

	case abi.TupleKind:
		return tupleFromAny(t, v)
	}
	return abi.Value{}, fmt.Errorf("%w: cannot use %T as %s", abi.ErrTypeMismatch, v, t)
}

func tupleFromAny(t *abi.Type, v any) (abi.Value, error) {
	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case map[string]any:
		items = make([]any, len(t.Fields))
		for i, f := range t.Fields {
			item, ok := x[f.Name]
			if !ok || f.Name == "" {
				return abi.Value{}, fmt.Errorf("%w: missing field %q", abi.ErrArgumentCount, f.Name)
			}
			items[i] = item
		}
		if len(x) != len(t.Fields) {
			return abi.Value{}, fmt.Errorf("%w: tuple has %d fields, got %d", abi.ErrArgumentCount, len(t.Fields), len(x))
		}
	default:
		return abi.Value{}, fmt.Errorf("%w: cannot use %T as %s", abi.ErrTypeMismatch, v, t)
	}
	if len(items) != len(t.Fields) {
		return abi.Value{}, fmt.Errorf("%w: tuple has %d fields, got %d", abi.ErrArgumentCount, len(t.Fields), len(items))
	}
	out := make([]abi.Value, len(items))
	for i, item := range items {
		fv, err := FromAny(t.Fields[i].Type, item)
		if err != nil {
			return abi.Value{}, fmt.Errorf("%s: %w", fieldName(t.Fields[i], i), err)
		}
		out[i] = fv
	}
	return abi.Tuple(out...), nil
}

func fieldName(f abi.Field, i int) string {
	if f.Name != "" {
		return f.Name
	}
	return "[" + strconv.Itoa(i) + "]"
}

// literal returns the source text of a string or a number read from an
// args file. YAML reads unquoted 0x values as integers.
func literal(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	}
	return "", false
}

// maxExactFloat is the largest magnitude below which every integer is
// exactly representable as a float64.
const maxExactFloat = 1 << 53

func toInt(v any) (*big.Int, error) {
	switch x := v.(type) {
	case string:
		if n, ok := new(big.Int).SetString(x, 0); ok {
			return n, nil
		}
		// Exponent notation such as 1e18.
		if r, ok := new(big.Rat).SetString(x); ok && r.IsInt() {
			return r.Num(), nil
		}
		return nil, fmt.Errorf("%w: %q is not an integer", abi.ErrInvalidValue, x)
	case json.Number:
		return toInt(x.String())
	case int:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %v is not an integer", abi.ErrInvalidValue, x)
		}
		if math.Abs(x) > maxExactFloat {
			return nil, fmt.Errorf("%w: %v is too large to be exact as a float, quote it", abi.ErrInvalidValue, x)
		}
		n, _ := big.NewFloat(x).Int(nil)
		return n, nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as an integer", abi.ErrTypeMismatch, v)
}

func toRat(v any) (*big.Rat, error) {
	switch x := v.(type) {
	case string:
		r, ok := new(big.Rat).SetString(x)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a number", abi.ErrInvalidValue, x)
		}
		return r, nil
	case json.Number:
		return toRat(x.String())
	case int:
		return new(big.Rat).SetInt64(int64(x)), nil
	case int64:
		return new(big.Rat).SetInt64(x), nil
	case uint64:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(x)), nil
	case float64:
		r := new(big.Rat)
		if r.SetFloat64(x) == nil {
			return nil, fmt.Errorf("%w: %v is not finite", abi.ErrInvalidValue, x)
		}
		return r, nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as a fixed-point number", abi.ErrTypeMismatch, v)
}

// LoadArgsFile reads a list of argument values from a .json, .yaml or .yml
// file. Numbers keep their literal text, so integers of any size survive.
func LoadArgsFile(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading args file: %w", err)
	}

	var args []any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing args file %s: %w", path, err)
		}
		if doc.Kind == 0 {
			return nil, nil
		}
		v, err := yamlValue(&doc)
		if err != nil {
			return nil, fmt.Errorf("parsing args file %s: %w", path, err)
		}
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("args file %s: expected a list of arguments, got %T", path, v)
		}
		args = list
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&args); err != nil {
			return nil, fmt.Errorf("parsing args file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("args file %s: unsupported extension (use .json, .yaml or .yml)", path)
	}
	return args, nil
}

// yamlValue converts a YAML node to the shapes encoding/json produces with
// UseNumber: int and float scalars become json.Number holding their text.
func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			return json.Number(n.Value), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return b, nil
		case "!!null":
			return nil, nil
		}
		return n.Value, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}
