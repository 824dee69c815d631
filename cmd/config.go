package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/w3abi/internal/chain"
	"github.com/Mohsinsiddi/w3abi/internal/config"
	"github.com/Mohsinsiddi/w3abi/internal/ui"
	"github.com/spf13/cobra"
)

var configExplorerKey string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		values := cfg.Values()
		var pairs [][2]string
		for _, k := range config.Keys {
			v := values[k]
			if k == "explorer_api_key" && v != "" {
				v = maskSecret(v)
			}
			pairs = append(pairs, [2]string{k, v})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.KeyValueBlock("Current Configuration", pairs))
		fmt.Fprintln(out, ui.Meta("Config directory: "+cfg.Dir()))
		return nil
	},
}

var configSetRPCCmd = &cobra.Command{
	Use:   "set-rpc <url>",
	Short: "Set the node RPC URL used by call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set("rpc_url", args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("RPC set to "+args[0]))
		return nil
	},
}

var configSetExplorerCmd = &cobra.Command{
	Use:   "set-explorer <api-url>",
	Short: "Set the Etherscan-compatible API used by abi add --explorer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set("explorer_api_url", args[0]); err != nil {
			return err
		}
		if cmd.Flags().Changed("key") {
			if err := cfg.Set("explorer_api_key", configExplorerKey); err != nil {
				return err
			}
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Explorer set to "+args[0]))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set any configuration value (" + strings.Join(config.Keys, ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s updated", args[0])))
		return nil
	},
}

var configPingRPC string

var configPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the configured RPC endpoint: chain ID, latest block, latency",
	RunE: func(cmd *cobra.Command, args []string) error {
		rpcURL := configPingRPC
		if rpcURL == "" {
			rpcURL = cfg.RPCURL
		}
		ctx := cmd.Context()
		client, err := chain.Dial(ctx, rpcURL, chain.WithLogger(logger), chain.WithTimeout(cfg.RPCTimeout()))
		if err != nil {
			return err
		}
		defer client.Close()

		latency, block, err := client.Ping(ctx)
		if err != nil {
			return fmt.Errorf("%s is not reachable: %w", rpcURL, err)
		}
		id, err := client.ChainID(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("RPC Endpoint", [][2]string{
			{"RPC", ui.Meta(rpcURL)},
			{"Chain ID", ui.Val(id.String())},
			{"Block", fmt.Sprint(block)},
			{"Latency", latency.Round(time.Millisecond).String()},
		}))
		return nil
	},
}

// maskSecret keeps the first and last two characters of s.
func maskSecret(s string) string {
	if len(s) <= 6 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

func init() {
	configSetExplorerCmd.Flags().StringVar(&configExplorerKey, "key", "", "explorer API key")
	configPingCmd.Flags().StringVar(&configPingRPC, "rpc", "", "RPC URL to check (default: config rpc_url)")
	configCmd.AddCommand(configListCmd, configSetRPCCmd, configSetExplorerCmd, configSetCmd, configPingCmd)
}
