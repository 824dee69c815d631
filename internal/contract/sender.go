package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/w3abi/internal/abi"
	"github.com/Mohsinsiddi/w3abi/internal/chain"
	"go.uber.org/zap"
)

// FallbackGas is used when the node cannot estimate a transaction.
const FallbackGas = 100_000

// Sender submits write transactions through eth_sendTransaction. The node
// holds and unlocks the From account; nothing is signed locally.
type Sender struct {
	backend Backend
	builder *Builder
	from    string
	log     *zap.Logger
}

// NewSender creates a Sender for the node-managed account from.
func NewSender(backend Backend, builder *Builder, from string, log *zap.Logger) *Sender {
	if builder == nil {
		builder = defaultBuilder
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{backend: backend, builder: builder, from: from, log: log}
}

// Send encodes fn with values and submits it to the contract at to.
// It returns the transaction hash.
func (s *Sender) Send(ctx context.Context, to string, fn ABIEntry, values []abi.Value, value *big.Int) (string, error) {
	if fn.IsReadFunction() {
		return "", fmt.Errorf("function %q is %s; use call instead", fn.Name, fn.StateMutability)
	}
	if value != nil && value.Sign() > 0 && fn.StateMutability != "payable" && fn.StateMutability != "" {
		return "", fmt.Errorf("function %q is not payable", fn.Name)
	}
	data, _, err := s.builder.Calldata(fn, values)
	if err != nil {
		return "", fmt.Errorf("encoding call: %w", err)
	}
	return s.submit(ctx, chain.CallMsg{From: s.from, To: to, Data: data, Value: value})
}

// Deploy submits a contract creation with bytecode and the encoded
// constructor arguments of entries.
func (s *Sender) Deploy(ctx context.Context, bytecode []byte, entries []ABIEntry, values []abi.Value) (string, error) {
	if len(bytecode) == 0 {
		return "", fmt.Errorf("no bytecode to deploy")
	}
	data, _, err := s.builder.Constructor(bytecode, entries, values)
	if err != nil {
		return "", fmt.Errorf("encoding constructor: %w", err)
	}
	return s.submit(ctx, chain.CallMsg{From: s.from, Data: data})
}

func (s *Sender) submit(ctx context.Context, msg chain.CallMsg) (string, error) {
	gas, err := s.backend.EstimateGas(ctx, msg)
	if err != nil {
		s.log.Warn("gas estimation failed, using fallback",
			zap.Uint64("gas", FallbackGas), zap.Error(err))
		gas = FallbackGas
	}
	msg.Gas = gas

	hash, err := s.backend.SendTransaction(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("sending transaction: %w", err)
	}
	return hash, nil
}
