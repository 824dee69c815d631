package cmd

import (
	"fmt"
	"os"

	"github.com/Mohsinsiddi/w3abi/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3abi/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	logger  = zap.NewNop()
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "w3abi",
	Short: "Contract ABI encoder for the terminal",
	Long: `w3abi builds contract call data from function signatures or ABI files.

  Encode arguments with the full head/tail layout (tuples, nested and
  dynamic arrays, bytes, strings), compute selectors and event topics,
  inspect encoded words, and send the result to a node with eth_call.

The config directory defaults to ~/.w3abi and can be moved with --config
or the W3ABI_CONFIG_DIR environment variable.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			logger = l
		}
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger.Debug("config loaded", zap.String("dir", cfg.Dir()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: $"+config.EnvConfigDir+" or ~/.w3abi)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log encoder and RPC activity to stderr")

	// Register all sub-commands.
	rootCmd.AddCommand(
		encodeCmd,
		selectorCmd,
		layoutCmd,
		callCmd,
		deployCmd,
		abiCmd,
		configCmd,
	)
}
