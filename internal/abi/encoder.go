package abi

import (
	"math/big"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Result is the encoding of one value before it is placed into a sequence.
// Static data goes inline into the enclosing head. Dynamic data goes into
// the enclosing tail, and the head receives a word holding its offset.
type Result struct {
	Data    string
	Dynamic bool
}

// frame accumulates the head and tail of one sequence: the top-level
// argument list, a tuple, or the elements of an array. Offsets placed in
// the head are measured from the first byte of the frame.
type frame struct {
	head     strings.Builder
	tail     strings.Builder
	headSize int
}

func newFrame(types []*Type) *frame {
	f := &frame{}
	for _, t := range types {
		f.headSize += t.HeadSize()
	}
	return f
}

func (f *frame) place(r Result) {
	if r.Dynamic {
		f.head.WriteString(offsetWord(f.headSize + f.tail.Len()/2))
		f.tail.WriteString(r.Data)
		return
	}
	f.head.WriteString(r.Data)
}

func (f *frame) String() string {
	return f.head.String() + f.tail.String()
}

// Encoder produces ABI argument encodings. It keeps no per-call state and
// is safe for concurrent use.
type Encoder struct {
	classifier Classifier
	log        *zap.Logger
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithClassifier replaces the StandardClassifier.
func WithClassifier(c Classifier) Option {
	return func(e *Encoder) { e.classifier = c }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Encoder) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEncoder returns an Encoder.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		classifier: StandardClassifier{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEncoder = NewEncoder()

// EncodeArguments encodes values against params with a default Encoder.
func EncodeArguments(params []Param, values []Value) (string, error) {
	return defaultEncoder.EncodeArguments(params, values)
}

// Resolve builds the Type of p with the Encoder's classifier.
func (e *Encoder) Resolve(p Param) (*Type, error) {
	return resolve(e.classifier, p.Type, p.Components)
}

// EncodeArguments returns the hex encoding (no 0x) of values laid out as
// the head and tail of params.
func (e *Encoder) EncodeArguments(params []Param, values []Value) (string, error) {
	if len(params) != len(values) {
		return "", newError(ErrArgumentCount, nil, "", "%d parameters declared, %d values supplied", len(params), len(values))
	}
	types := make([]*Type, len(params))
	for i, p := range params {
		t, err := e.Resolve(p)
		if err != nil {
			return "", withIndex(prefixPath(err, rootPath(p.Name)), i)
		}
		types[i] = t
	}

	f := newFrame(types)
	for i, t := range types {
		r, err := e.encode(t, values[i], rootPath(params[i].Name))
		if err != nil {
			return "", withIndex(err, i)
		}
		f.place(r)
		e.log.Debug("encoded argument",
			zap.Int("index", i),
			zap.String("type", t.Canonical()),
			zap.Bool("dynamic", r.Dynamic),
			zap.Int("bytes", len(r.Data)/2))
	}
	return f.String(), nil
}

// Encode encodes a single value outside of any sequence. For dynamic types
// the Result holds the tail content; the offset is assigned by whichever
// sequence the caller places it in.
func (e *Encoder) Encode(p Param, v Value) (Result, error) {
	t, err := e.Resolve(p)
	if err != nil {
		return Result{}, prefixPath(err, rootPath(p.Name))
	}
	return e.encode(t, v, rootPath(p.Name))
}

func (e *Encoder) encode(t *Type, v Value, path []string) (Result, error) {
	switch t.Kind {
	case ArrayKind:
		return e.encodeStaticArray(t, v, path)
	case SliceKind:
		return e.encodeDynamicArray(t, v, path)
	case TupleKind:
		return e.encodeTuple(t, v, path)
	}

	data, err := e.encodeScalar(t, v)
	if err != nil {
		return Result{}, locate(err, path, t.String())
	}
	return Result{Data: data, Dynamic: t.IsDynamic()}, nil
}

func (e *Encoder) encodeScalar(t *Type, v Value) (string, error) {
	switch t.Kind {
	case UintKind:
		if err := expect(v, IntValue); err != nil {
			return "", err
		}
		return encodeUint(v.num, t.Size)
	case IntKind:
		if err := expect(v, IntValue); err != nil {
			return "", err
		}
		return encodeInt(v.num, t.Size)
	case BoolKind:
		if err := expect(v, BoolValue); err != nil {
			return "", err
		}
		return EncodeBool(v.flag), nil
	case FixedKind:
		switch v.kind {
		case RationalValue:
			return encodeFixed(v.rat, t.Size, t.Decimals)
		case IntValue:
			return encodeFixed(new(big.Rat).SetInt(v.num), t.Size, t.Decimals)
		}
		return "", mismatch(v, RationalValue)
	case UfixedKind:
		return "", newError(ErrUnsupportedType, nil, "", "ufixed encoding is not implemented")
	case FixedBytesKind:
		if err := expect(v, BytesValue); err != nil {
			return "", err
		}
		return encodeFixedBytes(v.data, t.Size)
	case BytesKind:
		if err := expect(v, BytesValue); err != nil {
			return "", err
		}
		return encodeDynamicBytes(v.data), nil
	case StringKind:
		if err := expect(v, TextValue); err != nil {
			return "", err
		}
		return encodeDynamicBytes([]byte(v.text)), nil
	case AddressKind:
		if err := expect(v, AddressValue); err != nil {
			return "", err
		}
		return EncodeAddress(v.text)
	default:
		return "", newError(ErrUnsupportedType, nil, "", "no encoding for kind %s", t.Kind)
	}
}

// encodeStaticArray encodes T[k]. Static elements are concatenated inline;
// dynamic elements are laid out like a tuple of k values.
func (e *Encoder) encodeStaticArray(t *Type, v Value, path []string) (Result, error) {
	if err := expect(v, ArrayValue); err != nil {
		return Result{}, locate(err, path, t.String())
	}
	if len(v.items) != t.Size {
		return Result{}, newError(ErrArgumentCount, path, t.String(), "expected %d elements, got %d", t.Size, len(v.items))
	}
	if !t.IsDynamic() {
		var b strings.Builder
		for i, item := range v.items {
			r, err := e.encode(t.Elem, item, appendPath(path, indexLabel(i)))
			if err != nil {
				return Result{}, err
			}
			b.WriteString(r.Data)
		}
		return Result{Data: b.String()}, nil
	}
	data, err := e.encodeSequence(repeat(t.Elem, t.Size), v.items, path, indexLabel)
	if err != nil {
		return Result{}, err
	}
	return Result{Data: data, Dynamic: true}, nil
}

// encodeDynamicArray encodes T[] as an element count followed by the
// elements, whose offsets start after the count word.
func (e *Encoder) encodeDynamicArray(t *Type, v Value, path []string) (Result, error) {
	if err := expect(v, ArrayValue); err != nil {
		return Result{}, locate(err, path, t.String())
	}
	data, err := e.encodeSequence(repeat(t.Elem, len(v.items)), v.items, path, indexLabel)
	if err != nil {
		return Result{}, err
	}
	return Result{Data: offsetWord(len(v.items)) + data, Dynamic: true}, nil
}

func (e *Encoder) encodeTuple(t *Type, v Value, path []string) (Result, error) {
	if err := expect(v, TupleValue); err != nil {
		return Result{}, locate(err, path, t.String())
	}
	if len(v.items) != len(t.Fields) {
		return Result{}, newError(ErrArgumentCount, path, t.String(), "tuple has %d fields, got %d values", len(t.Fields), len(v.items))
	}
	types := make([]*Type, len(t.Fields))
	for i, f := range t.Fields {
		types[i] = f.Type
	}
	data, err := e.encodeSequence(types, v.items, path, func(i int) string {
		return fieldLabel(t.Fields[i].Name, i)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Data: data, Dynamic: t.IsDynamic()}, nil
}

// encodeSequence encodes values into a fresh frame and returns head + tail.
func (e *Encoder) encodeSequence(types []*Type, values []Value, path []string, label func(int) string) (string, error) {
	f := newFrame(types)
	for i, t := range types {
		r, err := e.encode(t, values[i], appendPath(path, label(i)))
		if err != nil {
			return "", err
		}
		f.place(r)
	}
	return f.String(), nil
}

func expect(v Value, want ValueKind) error {
	if v.kind != want {
		return mismatch(v, want)
	}
	return nil
}

func mismatch(v Value, want ValueKind) error {
	return newError(ErrTypeMismatch, nil, "", "expected %s value, got %s", want, v.kind)
}

func repeat(t *Type, n int) []*Type {
	types := make([]*Type, n)
	for i := range types {
		types[i] = t
	}
	return types
}

func rootPath(name string) []string {
	if name == "" {
		return nil
	}
	return []string{name}
}

func appendPath(path []string, seg string) []string {
	return append(slices.Clip(path), seg)
}

func indexLabel(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
