package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3abi/internal/chain"
	"github.com/Mohsinsiddi/w3abi/internal/contract"
	"github.com/Mohsinsiddi/w3abi/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	deployArtifact string
	deployArgsFile string
	deployFrom     string
	deployRPC      string
	deployRaw      bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy --abi <artifact> --from <account> [constructor args...]",
	Short: "Deploy a contract from a Hardhat/Foundry artifact",
	Long: `Encode the constructor arguments of an artifact, append them to its
bytecode and submit the creation transaction with eth_sendTransaction.

The node signs with the --from account; no key is handled locally, so use a
dev node (anvil, hardhat) or an account the node has unlocked.

Examples:
  w3abi deploy --abi ./out/Token.sol/Token.json --from 0xDev "Token" 1e24
  w3abi deploy --abi ./artifacts/Router.json --from 0xDev --args-file ctor.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if deployArtifact == "" {
			return fmt.Errorf("--abi is required and must be an artifact with bytecode")
		}
		if !common.IsHexAddress(deployFrom) {
			return fmt.Errorf("--from must be an account unlocked on the node, got %q", deployFrom)
		}
		art, err := contract.LoadArtifact(deployArtifact)
		if err != nil {
			return err
		}
		if len(art.Bytecode) == 0 {
			return fmt.Errorf("%s has no bytecode", deployArtifact)
		}
		ctor := contract.Constructor(art.ABI)
		values, err := parseValues(ctor.Params(), args, deployArgsFile)
		if err != nil {
			return err
		}

		rpcURL := deployRPC
		if rpcURL == "" {
			rpcURL = cfg.RPCURL
		}
		ctx := cmd.Context()
		client, err := chain.Dial(ctx, rpcURL, chain.WithLogger(logger), chain.WithTimeout(cfg.RPCTimeout()))
		if err != nil {
			return err
		}
		defer client.Close()

		hash, err := contract.NewSender(client, newBuilder(), deployFrom, logger).Deploy(ctx, art.Bytecode, art.ABI, values)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if deployRaw {
			fmt.Fprintln(out, hash)
			return nil
		}
		fmt.Fprintln(out, ui.KeyValueBlock("Contract Deployment", [][2]string{
			{"Artifact", deployArtifact},
			{"Constructor", "constructor" + ctor.Signature()},
			{"From", ui.Addr(deployFrom)},
			{"RPC", ui.Meta(rpcURL)},
			{"Tx Hash", ui.Val(hash)},
		}))
		return nil
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployArtifact, "abi", "", "Hardhat/Foundry artifact with bytecode")
	deployCmd.Flags().StringVar(&deployArgsFile, "args-file", "", "read constructor arguments from a .json, .yaml or .yml list")
	deployCmd.Flags().StringVar(&deployFrom, "from", "", "deployer account (unlocked on the node)")
	deployCmd.Flags().StringVar(&deployRPC, "rpc", "", "RPC URL (default: config rpc_url)")
	deployCmd.Flags().BoolVar(&deployRaw, "raw", false, "print only the transaction hash")
}
