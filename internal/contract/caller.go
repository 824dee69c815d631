package contract

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/w3abi/internal/abi"
	"github.com/Mohsinsiddi/w3abi/internal/chain"
)

// Backend is the part of a node client that contract calls need.
// *chain.EVMClient implements it.
type Backend interface {
	CallContract(ctx context.Context, msg chain.CallMsg) (string, error)
	EstimateGas(ctx context.Context, msg chain.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, msg chain.CallMsg) (string, error)
}

// Caller runs functions with eth_call and returns the raw return data.
// Decoding the result is left to the caller.
type Caller struct {
	backend Backend
	builder *Builder
}

// NewCaller creates a Caller. A nil builder uses the default encoder.
func NewCaller(backend Backend, builder *Builder) *Caller {
	if builder == nil {
		builder = defaultBuilder
	}
	return &Caller{backend: backend, builder: builder}
}

// Call encodes fn with values and executes it against the latest block.
// from may be empty.
func (c *Caller) Call(ctx context.Context, from, to string, fn ABIEntry, values []abi.Value) (string, error) {
	data, _, err := c.builder.Calldata(fn, values)
	if err != nil {
		return "", fmt.Errorf("encoding call: %w", err)
	}
	out, err := c.backend.CallContract(ctx, chain.CallMsg{From: from, To: to, Data: data})
	if err != nil {
		return "", fmt.Errorf("contract call failed: %w", err)
	}
	return out, nil
}

// Estimate returns the gas estimate for fn with values.
func (c *Caller) Estimate(ctx context.Context, from, to string, fn ABIEntry, values []abi.Value) (uint64, error) {
	data, _, err := c.builder.Calldata(fn, values)
	if err != nil {
		return 0, fmt.Errorf("encoding call: %w", err)
	}
	gas, err := c.backend.EstimateGas(ctx, chain.CallMsg{From: from, To: to, Data: data})
	if err != nil {
		return 0, fmt.Errorf("estimating gas: %w", err)
	}
	return gas, nil
}
