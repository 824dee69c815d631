package cmd

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3abi/internal/abi"
	"github.com/Mohsinsiddi/w3abi/internal/contract"
	"github.com/Mohsinsiddi/w3abi/internal/ui"
	"github.com/spf13/cobra"
)

// abiFlags selects where a command reads its ABI from. At most one is set.
type abiFlags struct {
	file     string
	builtin  string
	contract string
}

func (f *abiFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "abi", "", "ABI JSON array or Hardhat/Foundry artifact")
	cmd.Flags().StringVar(&f.builtin, "builtin", "", "bundled ABI id (see: w3abi abi list --builtin)")
	cmd.Flags().StringVar(&f.contract, "contract", "", "ABI stored with `w3abi abi add`")
	cmd.MarkFlagsMutuallyExclusive("abi", "builtin", "contract")
}

func (f *abiFlags) set() bool {
	return f.file != "" || f.builtin != "" || f.contract != ""
}

// loadedABI is an ABI plus whatever came with it.
type loadedABI struct {
	Entries  []contract.ABIEntry
	Address  string // registry entries and built-ins may carry one
	Bytecode []byte // artifacts only
	Source   string
}

func (f *abiFlags) load() (*loadedABI, error) {
	switch {
	case f.file != "":
		art, err := contract.LoadArtifact(f.file)
		if err != nil {
			return nil, err
		}
		return &loadedABI{Entries: art.ABI, Bytecode: art.Bytecode, Source: f.file}, nil

	case f.builtin != "":
		b, ok := contract.GetBuiltin(f.builtin)
		if !ok {
			return nil, fmt.Errorf("unknown built-in %q, run `w3abi abi list --builtin` to see all", f.builtin)
		}
		return &loadedABI{Entries: b.ABI, Address: b.Address, Source: "builtin:" + b.ID}, nil

	case f.contract != "":
		return loadStored(f.contract)
	}
	return nil, fmt.Errorf("no ABI source given: use --abi, --builtin or --contract")
}

func loadStored(name string) (*loadedABI, error) {
	reg, err := openRegistry()
	if err != nil {
		return nil, err
	}
	e, err := reg.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w (add it with `w3abi abi add %s ...`)", err, name)
	}
	return &loadedABI{Entries: e.ABI, Address: e.Address, Source: e.Source}, nil
}

func openRegistry() (*contract.Registry, error) {
	reg := contract.NewRegistry(cfg.RegistryPath())
	if err := reg.Load(); err != nil {
		return nil, fmt.Errorf("loading ABI registry: %w", err)
	}
	return reg, nil
}

// resolveFunction returns the function named by nameOrSig. A signature
// such as "foo(uint256)" needs no ABI. An empty name opens the picker over
// the functions that keep passes.
func resolveFunction(entries []contract.ABIEntry, nameOrSig string, keep func(contract.ABIEntry) bool) (*contract.ABIEntry, error) {
	if nameOrSig == "" {
		return pickFunction(entries, keep)
	}
	if len(entries) == 0 || strings.Contains(nameOrSig, "(") {
		fn, err := contract.FindFunction(entries, nameOrSig)
		if err == nil {
			return fn, nil
		}
		parsed, perr := contract.ParseSignature(nameOrSig)
		if perr != nil {
			return nil, perr
		}
		return &parsed, nil
	}
	return contract.FindFunction(entries, nameOrSig)
}

func pickFunction(entries []contract.ABIEntry, keep func(contract.ABIEntry) bool) (*contract.ABIEntry, error) {
	var items []ui.PickerItem
	for _, fn := range contract.Functions(entries) {
		if keep != nil && !keep(fn) {
			continue
		}
		items = append(items, ui.PickerItem{
			Label:    fn.Signature(),
			SubLabel: fn.StateMutability + "  " + fn.Selector(),
			Value:    fn.Signature(),
		})
	}
	sig, err := ui.PickItem("Select a function", items)
	if err != nil {
		return nil, err
	}
	if sig == "" {
		return nil, fmt.Errorf("no function selected")
	}
	return contract.FindFunction(entries, sig)
}

// parseValues reads values for params from positional args or, when set,
// from an args file. The two cannot be mixed.
func parseValues(params []abi.Param, args []string, argsFile string) ([]abi.Value, error) {
	if argsFile == "" {
		return contract.ParseArgs(params, args)
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("--args-file cannot be combined with positional arguments")
	}
	raw, err := contract.LoadArgsFile(argsFile)
	if err != nil {
		return nil, err
	}
	return contract.ValuesFromAny(params, raw)
}

func newBuilder() *contract.Builder {
	return contract.NewBuilder(abi.NewEncoder(abi.WithLogger(logger)))
}
