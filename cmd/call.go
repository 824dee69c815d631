package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/w3abi/internal/abi"
	"github.com/Mohsinsiddi/w3abi/internal/chain"
	"github.com/Mohsinsiddi/w3abi/internal/contract"
	"github.com/Mohsinsiddi/w3abi/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	callABI      abiFlags
	callArgsFile string
	callFrom     string
	callEstimate bool
	callSend     bool
	callValue    string
	callRPC      string
	callRaw      bool
)

var callCmd = &cobra.Command{
	Use:   "call <address|name> [function|signature] [args...]",
	Short: "Encode a call and run it against a node",
	Long: `Encode a function call and execute it with eth_call, returning the raw
result data.

The target is a 0x address or the name of an ABI stored with
"w3abi abi add ... --address". Functions are looked up in --abi, --builtin or
the stored ABI, falling back to the built-in ERC-20 ABI; a full signature
such as "foo(uint256,address)" needs no ABI at all. Leave the function out
to pick one; with --send only state-changing functions are offered.

--estimate asks the node for a gas estimate instead. --send submits a
transaction with eth_sendTransaction from an account the node manages; no
key is handled locally.

Examples:
  w3abi call 0xUSDC balanceOf 0xYourAddress
  w3abi call 0xUSDC "allowance(address,address)" 0xOwner 0xSpender
  w3abi call multicall aggregate3 --args-file calls.json
  w3abi call 0xToken transfer 0xTo 1e18 --send --from 0xUnlockedAccount
  w3abi call 0xVault deposit --send --from 0xDev --value 1000000000000000000`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, fnName, fnArgs := args[0], "", []string(nil)
		if len(args) > 1 {
			fnName, fnArgs = args[1], args[2:]
		}
		if callSend && callEstimate {
			return fmt.Errorf("--send and --estimate cannot be combined")
		}

		src, to, err := callTarget(target)
		if err != nil {
			return err
		}
		fn, err := resolveFunction(src.Entries, fnName, pickerFilter())
		if err != nil {
			return err
		}
		values, err := parseValues(fn.Params(), fnArgs, callArgsFile)
		if err != nil {
			return err
		}
		value, err := parseWei(callValue)
		if err != nil {
			return err
		}

		rpcURL := callRPC
		if rpcURL == "" {
			rpcURL = cfg.RPCURL
		}
		ctx := cmd.Context()
		client, err := chain.Dial(ctx, rpcURL, chain.WithLogger(logger), chain.WithTimeout(cfg.RPCTimeout()))
		if err != nil {
			return err
		}
		defer client.Close()

		out := cmd.OutOrStdout()
		var spin *ui.Spinner
		if !callRaw {
			spin = ui.NewSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Calling %s on %s...", fn.Name, ui.Truncate(to)))
			spin.Start()
		}
		result, label, err := runCall(ctx, client, to, fn, values, value)
		if spin != nil {
			spin.Stop()
		}
		if err != nil {
			var revert *chain.RevertError
			if errors.As(err, &revert) && revert.Reason != "" && !callRaw {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Err("reverted: "+revert.Reason))
			}
			return err
		}

		if callRaw {
			fmt.Fprintln(out, result)
			return nil
		}
		pairs := [][2]string{
			{"Contract", ui.Addr(to)},
			{"Function", fn.Signature()},
			{"RPC", ui.Meta(rpcURL)},
			{label, ui.Val(result)},
		}
		fmt.Fprintln(out, ui.KeyValueBlock("Contract Call", pairs))
		if label == "Result" && len(result) > 2 {
			fmt.Fprint(out, layoutTable(strings.TrimPrefix(result, "0x")))
		}
		return nil
	},
}

// runCall performs the requested node operation and labels its output.
func runCall(ctx context.Context, client *chain.EVMClient, to string, fn *contract.ABIEntry, values []abi.Value, value *big.Int) (string, string, error) {
	builder := newBuilder()
	switch {
	case callSend:
		if callFrom == "" {
			return "", "", fmt.Errorf("--send requires --from (an account unlocked on the node)")
		}
		hash, err := contract.NewSender(client, builder, callFrom, logger).Send(ctx, to, *fn, values, value)
		return hash, "Tx Hash", err

	case callEstimate:
		gas, err := contract.NewCaller(client, builder).Estimate(ctx, callFrom, to, *fn, values)
		return fmt.Sprint(gas), "Gas", err

	default:
		if value != nil {
			return "", "", fmt.Errorf("--value only applies with --send")
		}
		out, err := contract.NewCaller(client, builder).Call(ctx, callFrom, to, *fn, values)
		return out, "Result", err
	}
}

// pickerFilter narrows the function picker to what the call mode can run.
func pickerFilter() func(contract.ABIEntry) bool {
	if callSend {
		return contract.ABIEntry.IsWriteFunction
	}
	return nil
}

// callTarget resolves the call target to an ABI and an address.
func callTarget(target string) (*loadedABI, string, error) {
	var src *loadedABI
	var err error
	if callABI.set() {
		if src, err = callABI.load(); err != nil {
			return nil, "", err
		}
	}

	if common.IsHexAddress(target) {
		if src == nil {
			src = &loadedABI{Entries: contract.GetBuiltinABI("erc20"), Source: "builtin:erc20"}
		}
		return src, target, nil
	}

	stored, err := loadStored(target)
	if err != nil {
		return nil, "", fmt.Errorf("%q is not an address: %w", target, err)
	}
	if stored.Address == "" {
		return nil, "", fmt.Errorf("stored ABI %q has no address; re-add it with --address", target)
	}
	if src == nil {
		src = stored
	}
	return src, stored.Address, nil
}

// parseWei reads a wei amount in decimal, 0x hex or 1e18 notation.
func parseWei(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		r, rok := new(big.Rat).SetString(s)
		if !rok || !r.IsInt() {
			return nil, fmt.Errorf("invalid --value %q: expected an integer amount of wei", s)
		}
		n = r.Num()
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("invalid --value %q: negative", s)
	}
	return n, nil
}

func init() {
	callABI.register(callCmd)
	callCmd.Flags().StringVar(&callArgsFile, "args-file", "", "read arguments from a .json, .yaml or .yml list")
	callCmd.Flags().StringVar(&callFrom, "from", "", "sender address (required with --send)")
	callCmd.Flags().BoolVar(&callEstimate, "estimate", false, "print a gas estimate instead of calling")
	callCmd.Flags().BoolVar(&callSend, "send", false, "submit a transaction with eth_sendTransaction")
	callCmd.Flags().StringVar(&callValue, "value", "", "wei to attach (with --send)")
	callCmd.Flags().StringVar(&callRPC, "rpc", "", "RPC URL (default: config rpc_url)")
	callCmd.Flags().BoolVar(&callRaw, "raw", false, "print only the result, for scripting")
}
