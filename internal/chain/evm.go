package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single JSON-RPC request.
const DefaultTimeout = 15 * time.Second

// EVMClient is a minimal JSON-RPC client for EVM nodes. It submits call data
// built elsewhere and never signs anything itself.
type EVMClient struct {
	rpc     *rpc.Client
	log     *zap.Logger
	timeout time.Duration
}

// Option configures an EVMClient.
type Option func(*EVMClient)

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *EVMClient) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *EVMClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Dial connects to the node at url (http, https, ws or wss).
func Dial(ctx context.Context, url string, opts ...Option) (*EVMClient, error) {
	if url == "" {
		return nil, errors.New("no RPC URL configured")
	}
	c := &EVMClient{log: zap.NewNop(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	client, err := rpc.DialOptions(ctx, url, rpc.WithHTTPClient(&http.Client{Timeout: c.timeout}))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	c.rpc = client
	return c, nil
}

// Close releases the underlying connection.
func (c *EVMClient) Close() {
	c.rpc.Close()
}

// CallMsg is the transaction object of eth_call, eth_estimateGas and
// eth_sendTransaction. An empty To creates a contract.
type CallMsg struct {
	From  string
	To    string
	Data  string // 0x-prefixed call data
	Value *big.Int
	Gas   uint64
}

func (m CallMsg) arg() map[string]string {
	arg := map[string]string{}
	if m.From != "" {
		arg["from"] = m.From
	}
	if m.To != "" {
		arg["to"] = m.To
	}
	if m.Data != "" {
		arg["data"] = m.Data
	}
	if m.Value != nil && m.Value.Sign() > 0 {
		arg["value"] = hexutil.EncodeBig(m.Value)
	}
	if m.Gas > 0 {
		arg["gas"] = hexutil.EncodeUint64(m.Gas)
	}
	return arg
}

// RevertError is returned by CallContract and EstimateGas when the node
// reports that execution reverted.
type RevertError struct {
	Message string
	Reason  string // decoded Error(string) reason, if any
	Data    string // raw revert data
}

func (e *RevertError) Error() string {
	if e.Reason != "" {
		return "execution reverted: " + e.Reason
	}
	return e.Message
}

// CallContract executes msg against the latest block with eth_call and
// returns the raw return data.
func (c *EVMClient) CallContract(ctx context.Context, msg CallMsg) (string, error) {
	var out hexutil.Bytes
	if err := c.call(ctx, &out, "eth_call", msg.arg(), "latest"); err != nil {
		return "", err
	}
	return out.String(), nil
}

// EstimateGas returns the node's gas estimate for msg.
func (c *EVMClient) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	var gas hexutil.Uint64
	if err := c.call(ctx, &gas, "eth_estimateGas", msg.arg()); err != nil {
		return 0, err
	}
	return uint64(gas), nil
}

// SendTransaction submits msg with eth_sendTransaction. The node signs with
// the unlocked From account. It returns the transaction hash.
func (c *EVMClient) SendTransaction(ctx context.Context, msg CallMsg) (string, error) {
	if msg.From == "" {
		return "", errors.New("eth_sendTransaction: from address is required")
	}
	var hash string
	if err := c.call(ctx, &hash, "eth_sendTransaction", msg.arg()); err != nil {
		return "", err
	}
	return hash, nil
}

// ChainID returns the chain's ID.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.call(ctx, &id, "eth_chainId"); err != nil {
		return nil, err
	}
	return id.ToInt(), nil
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// Ping tests the RPC endpoint and returns latency + block number.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.BlockNumber(ctx)
	return time.Since(start), blockNum, err
}

func (c *EVMClient) call(ctx context.Context, result any, method string, params ...any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := c.rpc.CallContext(ctx, result, method, params...)
	c.log.Debug("rpc",
		zap.String("method", method),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))
	if err != nil {
		if rerr := asRevert(err); rerr != nil {
			return rerr
		}
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// asRevert converts a node error carrying revert data into a RevertError.
func asRevert(err error) *RevertError {
	var de rpc.DataError
	if !errors.As(err, &de) {
		return nil
	}
	data, ok := de.ErrorData().(string)
	if !ok {
		return nil
	}
	rerr := &RevertError{Message: err.Error(), Data: data}
	if raw, derr := hexutil.Decode(data); derr == nil {
		if reason, uerr := gethabi.UnpackRevert(raw); uerr == nil {
			rerr.Reason = reason
		}
	}
	return rerr
}
