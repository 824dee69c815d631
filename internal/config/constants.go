package config

import "time"

// Defaults written to a fresh config.json.
const (
	DefaultRPCURL         = "https://ethereum-rpc.publicnode.com"
	DefaultExplorerAPIURL = "https://api.etherscan.io"
	DefaultRPCTimeout     = 15 * time.Second
)

// EnvConfigDir overrides the config directory when --config is not given.
const EnvConfigDir = "W3ABI_CONFIG_DIR"

const (
	configFile   = "config.json"
	registryFile = "abis.json"
	dirName      = ".w3abi"
)
