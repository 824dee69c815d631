package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/w3abi/internal/ui"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var layoutSelector bool

var layoutCmd = &cobra.Command{
	Use:   "layout <hex>",
	Short: "Show encoded data as 32-byte words with byte offsets",
	Long: `Split ABI-encoded data into 32-byte words and print each with its byte
offset, so head slots, tail offsets and length words can be read off.

A leading 4-byte selector is detected when the data is 4 bytes longer than
a whole number of words; force it with --selector.

Examples:
  w3abi layout 0xa9059cbb000000000000000000000000d8da6bf26964af9d7eed9e03e53415d37aa960450000000000000000000000000000000000000000000000000de0b6b3a7640000
  w3abi encode "f(string)" dog --raw | xargs w3abi layout`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := hexutil.Decode(ensurePrefix(strings.TrimSpace(args[0])))
		if err != nil {
			return fmt.Errorf("invalid hex input: %w", err)
		}
		clean := strings.TrimPrefix(hexutil.Encode(data), "0x")

		selector := ""
		if layoutSelector || (len(data) >= 4 && len(data)%32 == 4) {
			if len(data) < 4 {
				return fmt.Errorf("data is shorter than a selector")
			}
			selector, clean = "0x"+clean[:8], clean[8:]
		}

		out := cmd.OutOrStdout()
		if selector != "" {
			fmt.Fprintln(out, ui.Meta("selector ")+ui.Addr(selector))
		}
		fmt.Fprint(out, layoutTable(clean))
		return nil
	},
}

// splitHexWords splits hex into 64-char (32-byte) words. A trailing
// partial word is returned as rest.
func splitHexWords(hex string) (words []string, rest string) {
	for len(hex) >= 64 {
		words = append(words, hex[:64])
		hex = hex[64:]
	}
	return words, hex
}

// layoutTable renders args hex (no selector) as one row per word.
func layoutTable(args string) string {
	words, rest := splitHexWords(args)
	tbl := ui.NewTable([]ui.Column{
		{Title: "#", Width: 3},
		{Title: "Offset", Width: 6},
		{Title: "Word", Width: 64},
		{Title: "Uint"},
	})
	for i, w := range words {
		tbl.AddRow(ui.Row{fmt.Sprint(i), fmt.Sprintf("0x%04x", i*32), w, smallUint(w)})
	}
	tbl.Style = func(col int, cell string) string {
		if col == 2 {
			return ui.Word(cell)
		}
		return ui.Meta(cell)
	}

	var sb strings.Builder
	sb.WriteString(tbl.Render())
	if rest != "" {
		sb.WriteString(ui.Warn(fmt.Sprintf("%d trailing bytes are not a whole word: %s", len(rest)/2, rest)) + "\n")
	}
	return sb.String()
}

// smallUint shows a word as a decimal when it is small enough to be an
// offset or a length. Words with more than 8 significant bytes stay blank.
func smallUint(word string) string {
	n, ok := new(big.Int).SetString(word, 16)
	if !ok || n.BitLen() > 64 {
		return ""
	}
	return n.String()
}

func ensurePrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return "0x" + s[2:]
	}
	return "0x" + s
}

func init() {
	layoutCmd.Flags().BoolVar(&layoutSelector, "selector", false, "treat the first 4 bytes as a selector")
}
