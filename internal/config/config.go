package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Keys lists the settings accepted by Set, in display order.
var Keys = []string{"rpc_url", "explorer_api_url", "explorer_api_key", "rpc_timeout_seconds"}

// Load reads config from dir (or creates defaults). An empty dir falls back
// to $W3ABI_CONFIG_DIR, then ~/.w3abi.
func Load(dir string) (*Config, error) {
	dir, err := ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg, err := loadJSON(filepath.Join(dir, configFile), defaults())
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if cfg.RPCTimeoutSeconds <= 0 {
		cfg.RPCTimeoutSeconds = int(DefaultRPCTimeout / time.Second)
	}
	cfg.configDir = dir
	return cfg, nil
}

// ResolveDir returns the config directory to use for dir.
func ResolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	return saveJSON(filepath.Join(c.configDir, configFile), c)
}

// Set updates one setting by its JSON key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "rpc_url":
		if err := checkURL(value); err != nil {
			return fmt.Errorf("rpc_url: %w", err)
		}
		c.RPCURL = value
	case "explorer_api_url":
		if err := checkURL(value); err != nil {
			return fmt.Errorf("explorer_api_url: %w", err)
		}
		c.ExplorerAPIURL = value
	case "explorer_api_key":
		c.ExplorerAPIKey = value
	case "rpc_timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("rpc_timeout_seconds must be a positive integer, got %q", value)
		}
		c.RPCTimeoutSeconds = n
	default:
		return fmt.Errorf("unknown config key %q (valid: %v)", key, Keys)
	}
	return nil
}

// Values returns every setting as a string, keyed like config.json.
func (c *Config) Values() map[string]string {
	return map[string]string{
		"rpc_url":             c.RPCURL,
		"explorer_api_url":    c.ExplorerAPIURL,
		"explorer_api_key":    c.ExplorerAPIKey,
		"rpc_timeout_seconds": strconv.Itoa(c.RPCTimeoutSeconds),
	}
}

// RPCTimeout returns the per-request RPC timeout.
func (c *Config) RPCTimeout() time.Duration {
	return time.Duration(c.RPCTimeoutSeconds) * time.Second
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// RegistryPath returns the path of the named-ABI registry file.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.configDir, registryFile)
}

// --- helpers ---

func defaults() *Config {
	return &Config{
		RPCURL:            DefaultRPCURL,
		ExplorerAPIURL:    DefaultExplorerAPIURL,
		RPCTimeoutSeconds: int(DefaultRPCTimeout / time.Second),
	}
}

func checkURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%q must start with http://, https://, ws:// or wss://", s)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", s)
	}
	return nil
}

// loadJSON decodes path over base. A missing file returns base unchanged.
func loadJSON[T any](path string, base *T) (*T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return base, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return base, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
