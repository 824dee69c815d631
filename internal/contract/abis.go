package contract

import (
	"embed"
	"fmt"
	"sort"
)

// BuiltinKind describes a built-in contract whose ABI is embedded in the
// binary. To add one, drop <id>.json into builtin/ and list it in builtins.
type BuiltinKind struct {
	ID          string     // machine key, e.g. "erc20"
	Name        string     // human label
	Description string     // one-line summary shown in `abi list --builtin`
	Address     string     // canonical deployment address, if any
	ABI         []ABIEntry // full ABI, ready to use
}

//go:embed builtin/*.json
var builtinFS embed.FS

var builtins = []BuiltinKind{
	{
		ID:          "erc20",
		Name:        "ERC-20 Standard Token",
		Description: "Standard ERC-20 interface (EIP-20). Use `--builtin erc20` with any ERC-20 token.",
	},
	{
		ID:          "multicall3",
		Name:        "Multicall3",
		Description: "Batch calls through aggregate/aggregate3; inputs are tuple arrays.",
		Address:     "0xcA11bde05977b3631167028862bE2a173976CA11",
	},
}

var builtinRegistry = map[string]BuiltinKind{}

func init() {
	for _, b := range builtins {
		data, err := builtinFS.ReadFile("builtin/" + b.ID + ".json")
		if err != nil {
			panic(fmt.Sprintf("builtin %s: %v", b.ID, err))
		}
		b.ABI, err = parseABI(data)
		if err != nil {
			panic(fmt.Sprintf("builtin %s: %v", b.ID, err))
		}
		RegisterBuiltin(b)
	}
}

// RegisterBuiltin adds a built-in ABI to the global registry.
func RegisterBuiltin(b BuiltinKind) {
	builtinRegistry[b.ID] = b
}

// GetBuiltin returns a built-in by ID. ok is false if not found.
func GetBuiltin(id string) (BuiltinKind, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// GetBuiltinABI returns the ABI entries for a built-in ID, or nil if unknown.
func GetBuiltinABI(id string) []ABIEntry {
	return builtinRegistry[id].ABI
}

// AllBuiltins returns all registered built-ins sorted by ID.
func AllBuiltins() []BuiltinKind {
	out := make([]BuiltinKind, 0, len(builtinRegistry))
	for _, b := range builtinRegistry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
