package contract

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3abi/internal/abi"
)

// Builder turns ABI entries and argument values into call data.
type Builder struct {
	enc *abi.Encoder
}

// NewBuilder returns a Builder that encodes with enc. A nil enc uses a
// default encoder.
func NewBuilder(enc *abi.Encoder) *Builder {
	if enc == nil {
		enc = abi.NewEncoder()
	}
	return &Builder{enc: enc}
}

var defaultBuilder = NewBuilder(nil)

// Arguments returns the argument encoding of values for entry, without a
// selector and without 0x.
func (b *Builder) Arguments(entry ABIEntry, values []abi.Value) (string, error) {
	return b.enc.EncodeArguments(entry.Params(), values)
}

// Calldata returns the 0x-prefixed call data (selector + arguments) and its
// raw bytes.
func (b *Builder) Calldata(entry ABIEntry, values []abi.Value) (string, []byte, error) {
	args, err := b.Arguments(entry, values)
	if err != nil {
		return "", nil, err
	}
	return decoded(entry.Selector() + args)
}

// Constructor returns bytecode followed by the encoded constructor
// arguments of entries.
func (b *Builder) Constructor(bytecode []byte, entries []ABIEntry, values []abi.Value) (string, []byte, error) {
	args, err := b.Arguments(Constructor(entries), values)
	if err != nil {
		return "", nil, err
	}
	return decoded("0x" + hex.EncodeToString(bytecode) + args)
}

// CalldataBatch encodes every value list in batch as a call to entry.
// The lists are encoded concurrently; results keep the order of batch.
func (b *Builder) CalldataBatch(ctx context.Context, entry ABIEntry, batch [][]abi.Value) ([]string, error) {
	args, err := b.enc.EncodeBatch(ctx, entry.Params(), batch)
	if err != nil {
		return nil, err
	}
	sel := entry.Selector()
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = sel + a
	}
	return out, nil
}

func decoded(hexStr string) (string, []byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
	if err != nil {
		return "", nil, fmt.Errorf("malformed call data: %w", err)
	}
	return hexStr, raw, nil
}
