package config

// Config holds all w3abi configuration.
type Config struct {
	RPCURL            string `json:"rpc_url"`
	ExplorerAPIURL    string `json:"explorer_api_url"`
	ExplorerAPIKey    string `json:"explorer_api_key,omitempty"`
	RPCTimeoutSeconds int    `json:"rpc_timeout_seconds"`

	// internal: config dir path used for Save()
	configDir string
}
