package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3abi/internal/abi"
	"github.com/Mohsinsiddi/w3abi/internal/contract"
	"github.com/Mohsinsiddi/w3abi/internal/ui"
	"github.com/spf13/cobra"
)

var (
	encodeABI         abiFlags
	encodeArgsFile    string
	encodeNoSelector  bool
	encodeConstructor bool
	encodeRaw         bool
	encodeLayout      bool
	encodeBatch       bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode <signature> [args...]",
	Short: "Encode call data from a function signature and arguments",
	Long: `Build ABI-encoded call data from a function signature and arguments.

Arguments are typed by the signature: integers accept decimal, 0x hex and
1e18 notation, bytes are 0x hex, and arrays and tuples are written as JSON,
e.g. '[1,2,3]' or '{"target":"0x...","callData":"0x"}'.

With an ABI source (--abi, --builtin or --contract) the first argument is a
function name instead of a signature; leave it out to pick one interactively.

Examples:
  w3abi encode "transfer(address,uint256)" 0xRecipient 1000000000000000000
  w3abi encode "submit((address,bytes)[])" '[["0xTarget","0x1234"]]'
  w3abi encode --builtin multicall3 aggregate3 --args-file calls.yaml
  w3abi encode --abi ./out/Token.sol/Token.json --constructor "Token" 1e24
  w3abi encode "f(string,uint256[])" hello '[1,2]' --layout
  w3abi encode "transfer(address,uint256)" --batch --args-file payouts.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if encodeBatch {
			return runEncodeBatch(cmd, args)
		}
		entry, values, bytecode, rest, err := encodeInputs(args)
		if err != nil {
			return err
		}
		builder := newBuilder()

		var data string
		switch {
		case encodeConstructor && len(bytecode) > 0:
			data, _, err = builder.Constructor(bytecode, []contract.ABIEntry{*entry}, values)
		case encodeConstructor || encodeNoSelector:
			data, err = builder.Arguments(*entry, values)
			data = abi.Prefixed(data)
		default:
			data, _, err = builder.Calldata(*entry, values)
		}
		if err != nil {
			return fmt.Errorf("encoding failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if encodeRaw {
			fmt.Fprintln(out, data)
			return nil
		}

		title := "Encoded Calldata"
		pairs := [][2]string{}
		if encodeConstructor {
			title = "Encoded Constructor"
		} else {
			pairs = append(pairs,
				[2]string{"Signature", entry.Signature()},
				[2]string{"Selector", ui.Addr(entry.Selector())})
		}
		for i, in := range entry.Inputs {
			label := fmt.Sprintf("Arg[%d] (%s)", i, in.Type)
			if in.Name != "" {
				label = fmt.Sprintf("%s (%s)", in.Name, in.Type)
			}
			pairs = append(pairs, [2]string{label, describeArg(rest, i)})
		}
		pairs = append(pairs,
			[2]string{"Data", ui.Val(data)},
			[2]string{"Bytes", fmt.Sprint((len(data) - 2) / 2)})
		fmt.Fprintln(out, ui.KeyValueBlock(title, pairs))

		if encodeLayout {
			words, err := builder.Arguments(*entry, values)
			if err != nil {
				return err
			}
			fmt.Fprint(out, layoutTable(words))
		}
		return nil
	},
}

// encodeInputs works out the entry to encode, its values, the positional
// arguments they came from and, for constructors, the bytecode to prefix.
func encodeInputs(args []string) (*contract.ABIEntry, []abi.Value, []byte, []string, error) {
	entry, bytecode, args, err := encodeEntry(args)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	values, err := parseValues(entry.Params(), args, encodeArgsFile)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return entry, values, bytecode, args, nil
}

// encodeEntry resolves the function or constructor to encode and returns
// the arguments left after its name or signature.
func encodeEntry(args []string) (*contract.ABIEntry, []byte, []string, error) {
	switch {
	case encodeABI.set():
		src, err := encodeABI.load()
		if err != nil {
			return nil, nil, nil, err
		}
		if encodeConstructor {
			c := contract.Constructor(src.Entries)
			return &c, src.Bytecode, args, nil
		}
		name := ""
		if len(args) > 0 {
			name, args = args[0], args[1:]
		}
		entry, err := resolveFunction(src.Entries, name, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		return entry, nil, args, nil

	case len(args) == 0:
		return nil, nil, nil, fmt.Errorf("requires a function signature, or an ABI source with --abi, --builtin or --contract")
	}

	parsed, err := contract.ParseSignature(args[0])
	if err != nil {
		return nil, nil, nil, err
	}
	if encodeConstructor {
		parsed.Type, parsed.Name = "constructor", ""
	}
	return &parsed, nil, args[1:], nil
}

// runEncodeBatch encodes one call per item of the args file, where each
// item is itself a list of arguments.
func runEncodeBatch(cmd *cobra.Command, args []string) error {
	switch {
	case encodeArgsFile == "":
		return fmt.Errorf("--batch requires --args-file holding a list of argument lists")
	case encodeConstructor || encodeNoSelector:
		return fmt.Errorf("--batch cannot be combined with --constructor or --no-selector")
	}
	entry, _, rest, err := encodeEntry(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("--args-file cannot be combined with positional arguments")
	}

	raw, err := contract.LoadArgsFile(encodeArgsFile)
	if err != nil {
		return err
	}
	params := entry.Params()
	batch := make([][]abi.Value, len(raw))
	for i, item := range raw {
		list, ok := item.([]any)
		if !ok {
			return fmt.Errorf("batch item %d: expected a list of arguments, got %T", i, item)
		}
		if batch[i], err = contract.ValuesFromAny(params, list); err != nil {
			return fmt.Errorf("batch item %d: %w", i, err)
		}
	}

	calls, err := newBuilder().CalldataBatch(cmd.Context(), *entry, batch)
	if err != nil {
		return fmt.Errorf("encoding failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if encodeRaw {
		for _, c := range calls {
			fmt.Fprintln(out, c)
		}
		return nil
	}
	t := ui.NewTable([]ui.Column{{Title: "#", Width: 4}, {Title: "Calldata"}})
	for i, c := range calls {
		t.AddRow(ui.Row{fmt.Sprint(i), c})
	}
	fmt.Fprintln(out, ui.KeyValueBlock("Encoded Batch", [][2]string{
		{"Signature", entry.Signature()},
		{"Selector", ui.Addr(entry.Selector())},
		{"Calls", fmt.Sprint(len(calls))},
	}))
	fmt.Fprint(out, t.Render())
	return nil
}

// describeArg returns the positional argument at i, or a placeholder when
// values came from a file.
func describeArg(args []string, i int) string {
	if encodeArgsFile != "" {
		return ui.Meta("from " + encodeArgsFile)
	}
	if i < len(args) {
		return args[i]
	}
	return ""
}

func init() {
	encodeABI.register(encodeCmd)
	encodeCmd.Flags().StringVar(&encodeArgsFile, "args-file", "", "read arguments from a .json, .yaml or .yml list")
	encodeCmd.Flags().BoolVar(&encodeNoSelector, "no-selector", false, "print only the encoded arguments")
	encodeCmd.Flags().BoolVar(&encodeConstructor, "constructor", false, "encode constructor arguments (prefixed with artifact bytecode when available)")
	encodeCmd.Flags().BoolVar(&encodeRaw, "raw", false, "print only the hex, for scripting")
	encodeCmd.Flags().BoolVar(&encodeLayout, "layout", false, "also print the word layout of the arguments")
	encodeCmd.Flags().BoolVar(&encodeBatch, "batch", false, "treat --args-file as a list of argument lists, one call each")
}
