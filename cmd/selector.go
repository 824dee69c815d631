package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3abi/internal/contract"
	"github.com/Mohsinsiddi/w3abi/internal/ui"
	"github.com/spf13/cobra"
)

var (
	selectorEvent bool
	selectorRaw   bool
)

var selectorCmd = &cobra.Command{
	Use:   "selector <signature-or-selector>",
	Short: "Compute a function selector or event topic, or look one up",
	Long: `Compute the 4-byte selector of a function signature, or the topic hash of
an event with --event. Parameter names, "memory"/"calldata" and shorthand
types are accepted and normalised first.

Given a 0x selector or 0x topic instead, search the built-in ABIs and the
stored registry for the matching function or event.

Examples:
  w3abi selector "transfer(address to, uint amount)"   # → 0xa9059cbb
  w3abi selector "aggregate3((address,bool,bytes)[])"  # → 0x82ad56cb
  w3abi selector --event "Transfer(address indexed from, address indexed to, uint256 value)"
  w3abi selector 0xa9059cbb                            # → transfer(address,uint256)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := strings.TrimSpace(args[0])
		out := cmd.OutOrStdout()

		if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
			matches, err := lookupSelector(input)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				return fmt.Errorf("no known function or event has selector %s", input)
			}
			if selectorRaw {
				for _, m := range matches {
					fmt.Fprintln(out, m[1])
				}
				return nil
			}
			fmt.Fprintln(out, ui.KeyValueBlock("Selector Lookup "+strings.ToLower(input), matches))
			return nil
		}

		entry, err := contract.ParseSignature(input)
		if err != nil {
			return err
		}
		if selectorEvent {
			entry.Type = "event"
		}
		hash := contract.Keccak256([]byte(entry.Signature()))

		if selectorRaw {
			if entry.Type == "event" {
				fmt.Fprintln(out, entry.Topic())
			} else {
				fmt.Fprintln(out, entry.Selector())
			}
			return nil
		}

		pairs := [][2]string{{"Signature", entry.Signature()}}
		title := "Function Selector"
		if entry.Type == "event" {
			title = "Event Topic"
			pairs = append(pairs, [2]string{"Topic", ui.Val(entry.Topic())})
		} else {
			pairs = append(pairs,
				[2]string{"Selector", ui.Val(entry.Selector())},
				[2]string{"Full Hash", "0x" + hex.EncodeToString(hash)})
		}
		fmt.Fprintln(out, ui.KeyValueBlock(title, pairs))
		return nil
	},
}

// lookupSelector searches built-in and stored ABIs for a function selector
// (4 bytes) or event topic (32 bytes). Each match is a [source, signature] pair.
func lookupSelector(input string) ([][2]string, error) {
	want := strings.ToLower(input)
	if len(want) != 10 && len(want) != 66 {
		return nil, fmt.Errorf("%s is neither a 4-byte selector nor a 32-byte topic", input)
	}

	type source struct {
		name    string
		entries []contract.ABIEntry
	}
	var sources []source
	for _, b := range contract.AllBuiltins() {
		sources = append(sources, source{"builtin:" + b.ID, b.ABI})
	}
	reg, err := openRegistry()
	if err != nil {
		return nil, err
	}
	for _, e := range reg.All() {
		sources = append(sources, source{e.Name, e.ABI})
	}

	var matches [][2]string
	seen := map[string]bool{}
	for _, src := range sources {
		for _, e := range src.entries {
			var got string
			switch e.Type {
			case "function":
				got = e.Selector()
			case "event":
				got = e.Topic()
			default:
				continue
			}
			if got != want || seen[src.name+e.Signature()] {
				continue
			}
			seen[src.name+e.Signature()] = true
			matches = append(matches, [2]string{src.name, e.Signature()})
		}
	}
	return matches, nil
}

func init() {
	selectorCmd.Flags().BoolVar(&selectorEvent, "event", false, "compute the event topic (full 32-byte hash)")
	selectorCmd.Flags().BoolVar(&selectorRaw, "raw", false, "print only the selector or topic")
}
