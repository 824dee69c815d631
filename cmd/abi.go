package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3abi/internal/contract"
	"github.com/Mohsinsiddi/w3abi/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	abiAddFile     string
	abiAddURL      string
	abiAddExplorer string
	abiAddBuiltin  string
	abiAddAddress  string
	abiListBuiltin bool
)

var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "Manage stored contract ABIs",
}

// ── abi add ──────────────────────────────────────────────────────────────────

var abiAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Store an ABI under a name",
	Long: `Store an ABI in the local registry (abis.json in the config directory)
so encode and call can use it by name.

ABI source (pick one):
  --file <path>          Raw ABI JSON array or Hardhat/Foundry artifact
  --url <url>            Fetch a raw ABI or artifact over HTTP
  --explorer <address>   Fetch a verified ABI from the configured explorer
  --builtin <id>         Copy a bundled ABI

Examples:
  w3abi abi add token --file ./out/Token.sol/Token.json --address 0xToken
  w3abi abi add usdc  --explorer 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48
  w3abi abi add multi --builtin multicall3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if abiAddAddress != "" && !common.IsHexAddress(abiAddAddress) {
			return fmt.Errorf("invalid --address %q", abiAddAddress)
		}

		entry := &contract.Entry{Name: name, Address: abiAddAddress}
		fetcher := contract.NewFetcher(cfg.ExplorerAPIKey, logger)
		var err error

		switch {
		case abiAddFile != "":
			entry.ABI, err = contract.LoadFromFile(abiAddFile)
			entry.Source = abiAddFile

		case abiAddURL != "":
			entry.ABI, err = fetcher.FetchFromURL(cmd.Context(), abiAddURL)
			entry.Source = abiAddURL

		case abiAddExplorer != "":
			if !common.IsHexAddress(abiAddExplorer) {
				return fmt.Errorf("invalid --explorer address %q", abiAddExplorer)
			}
			entry.ABI, err = fetcher.FetchFromExplorer(cmd.Context(), cfg.ExplorerAPIURL, abiAddExplorer)
			entry.Source = "explorer"
			if entry.Address == "" {
				entry.Address = abiAddExplorer
			}

		case abiAddBuiltin != "":
			b, ok := contract.GetBuiltin(abiAddBuiltin)
			if !ok {
				return fmt.Errorf("unknown built-in %q, run `w3abi abi list --builtin` to see all", abiAddBuiltin)
			}
			entry.ABI, entry.Source = b.ABI, "builtin:"+b.ID
			if entry.Address == "" {
				entry.Address = b.Address
			}

		default:
			return fmt.Errorf("an ABI source is required: --file, --url, --explorer or --builtin")
		}
		if err != nil {
			return err
		}

		reg, err := openRegistry()
		if err != nil {
			return err
		}
		reg.Add(entry)
		if err := reg.Save(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Stored ABI %q (%d functions)", name, len(contract.Functions(entry.ABI)))))
		if entry.Address != "" {
			fmt.Fprintln(out, ui.Meta("address ")+ui.Addr(entry.Address))
		}
		return nil
	},
}

// ── abi list ─────────────────────────────────────────────────────────────────

var abiListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored ABIs (or built-ins with --builtin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if abiListBuiltin {
			t := ui.NewTable([]ui.Column{
				{Title: "ID", Width: 12},
				{Title: "Functions", Width: 10},
				{Title: "Address", Width: 42},
				{Title: "Description"},
			})
			for _, b := range contract.AllBuiltins() {
				t.AddRow(ui.Row{b.ID, fmt.Sprint(len(contract.Functions(b.ABI))), b.Address, b.Description})
			}
			fmt.Fprintf(out, "%s\n\n", ui.StyleTitle.Render("Built-in ABIs"))
			fmt.Fprint(out, t.Render())
			return nil
		}

		reg, err := openRegistry()
		if err != nil {
			return err
		}
		entries := reg.All()
		if len(entries) == 0 {
			fmt.Fprintln(out, ui.Meta("No ABIs stored yet. Add one with: w3abi abi add <name> --file <abi.json>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Functions", Width: 10},
			{Title: "Address", Width: 42},
			{Title: "Source"},
		})
		for _, e := range entries {
			t.AddRow(ui.Row{e.Name, fmt.Sprint(len(contract.Functions(e.ABI))), e.Address, e.Source})
		}
		fmt.Fprint(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d ABI(s) stored", len(entries))))
		return nil
	},
}

// ── abi show ─────────────────────────────────────────────────────────────────

var abiShowCmd = &cobra.Command{
	Use:   "show <name|builtin-id>",
	Short: "List the functions and events of an ABI with their selectors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []contract.ABIEntry
		if b, ok := contract.GetBuiltin(args[0]); ok {
			entries = b.ABI
		} else {
			src, err := loadStored(args[0])
			if err != nil {
				return err
			}
			entries = src.Entries
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Kind", Width: 8},
			{Title: "Selector", Width: 10},
			{Title: "Mutability", Width: 10},
			{Title: "Signature"},
		})
		for _, e := range entries {
			switch e.Type {
			case "function", "":
				t.AddRow(ui.Row{"function", e.Selector(), e.StateMutability, e.Signature()})
			case "event":
				t.AddRow(ui.Row{"event", e.Topic()[:10], "", e.Signature()})
			case "constructor":
				t.AddRow(ui.Row{"ctor", "", e.StateMutability, e.Signature()})
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

// ── abi remove ───────────────────────────────────────────────────────────────

var abiRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a stored ABI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		if err := reg.Remove(args[0]); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Removed ABI %q", args[0])))
		return nil
	},
}

func init() {
	abiAddCmd.Flags().StringVar(&abiAddFile, "file", "", "ABI JSON array or Hardhat/Foundry artifact")
	abiAddCmd.Flags().StringVar(&abiAddURL, "url", "", "URL serving an ABI or artifact")
	abiAddCmd.Flags().StringVar(&abiAddExplorer, "explorer", "", "fetch the verified ABI of this address")
	abiAddCmd.Flags().StringVar(&abiAddBuiltin, "builtin", "", "copy a bundled ABI")
	abiAddCmd.Flags().StringVar(&abiAddAddress, "address", "", "deployed address to call by name")
	abiAddCmd.MarkFlagsMutuallyExclusive("file", "url", "explorer", "builtin")

	abiListCmd.Flags().BoolVar(&abiListBuiltin, "builtin", false, "list bundled ABIs instead")

	abiCmd.AddCommand(abiAddCmd, abiListCmd, abiShowCmd, abiRemoveCmd)
}
