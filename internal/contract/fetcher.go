package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// maxABISize caps how much of a remote response is read.
const maxABISize = 8 << 20

// Fetcher retrieves ABIs from block explorers or URLs.
type Fetcher struct {
	client *http.Client
	apiKey string
	log    *zap.Logger
}

// NewFetcher creates a new ABI fetcher. A nil log discards output.
func NewFetcher(apiKey string, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client: &http.Client{Timeout: 15 * time.Second},
		apiKey: apiKey,
		log:    log,
	}
}

// FetchFromExplorer fetches a verified contract's ABI from an
// Etherscan-compatible API, e.g. "https://api.etherscan.io".
func (f *Fetcher) FetchFromExplorer(ctx context.Context, explorerAPIURL, address string) ([]ABIEntry, error) {
	q := url.Values{}
	q.Set("module", "contract")
	q.Set("action", "getabi")
	q.Set("address", address)
	if f.apiKey != "" {
		q.Set("apikey", f.apiKey)
	}
	body, err := f.get(ctx, strings.TrimRight(explorerAPIURL, "/")+"/api?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetching ABI: %w", err)
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Result  string `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing ABI response: %w", err)
	}
	if result.Status != "1" {
		// Explorers put the useful detail in result ("Contract source code not verified").
		return nil, fmt.Errorf("explorer error: %s: %s", result.Message, result.Result)
	}
	return parseABI([]byte(result.Result))
}

// FetchFromURL fetches a raw ABI array or an artifact from any URL.
func (f *Fetcher) FetchFromURL(ctx context.Context, rawURL string) ([]ABIEntry, error) {
	body, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching ABI from URL: %w", err)
	}
	art, err := parseArtifact(body, rawURL)
	if err != nil {
		return nil, err
	}
	return art.ABI, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	f.log.Debug("abi fetch",
		zap.String("host", req.URL.Host),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxABISize))
}

// LoadFromFile loads an ABI from a local file that is either:
//   - a raw ABI JSON array: [{"type":"function",...}, ...]
//   - a Hardhat/Foundry artifact: {"abi":[...],"bytecode":"0x...",...}
//
// Both formats are detected automatically.
func LoadFromFile(path string) ([]ABIEntry, error) {
	art, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return art.ABI, nil
}

// Artifact holds the ABI and, when present, the deployment bytecode.
type Artifact struct {
	ABI      []ABIEntry
	Bytecode []byte
}

// LoadArtifact reads an ABI file or artifact. Bytecode is nil for raw ABI
// arrays and for artifacts of interfaces or abstract contracts.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read ABI file: %w", err)
	}
	return parseArtifact(data, path)
}

func parseArtifact(data []byte, source string) (*Artifact, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("ABI file is empty: %s", source)
	}

	art := &Artifact{}
	if data[0] == '{' {
		var raw struct {
			ABI      json.RawMessage `json:"abi"`
			Bytecode json.RawMessage `json:"bytecode"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid artifact JSON: %w", err)
		}
		if len(raw.ABI) < 2 || raw.ABI[0] != '[' {
			return nil, fmt.Errorf("file is a JSON object, not an ABI array; a Hardhat/Foundry artifact must have an \"abi\" key: %s", source)
		}
		data = raw.ABI
		if len(raw.Bytecode) > 0 {
			bc, err := extractBytecode(raw.Bytecode)
			if err != nil {
				return nil, fmt.Errorf("extracting bytecode from artifact: %w", err)
			}
			art.Bytecode = bc
		}
	}

	entries, err := parseABI(data)
	if err != nil {
		return nil, err
	}
	if err := validateABI(entries, source); err != nil {
		return nil, err
	}
	art.ABI = entries
	return art, nil
}

func parseABI(data []byte) ([]ABIEntry, error) {
	var entries []ABIEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid ABI JSON: expected an array of function/event definitions: %w", err)
	}
	return entries, nil
}

// extractBytecode handles the two common artifact formats:
//   - Hardhat:  "bytecode": "0x608060..."
//   - Foundry:  "bytecode": {"object": "0x608060..."}
func extractBytecode(raw json.RawMessage) ([]byte, error) {
	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("bytecode field is neither a hex string nor a {\"object\":\"0x...\"} object")
		}
		code = obj.Object
	}
	code = strings.TrimSpace(code)
	if code == "" || code == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	b, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode hex: %w", err)
	}
	return b, nil
}

// validateABI checks that the parsed ABI has at least one function, event
// or constructor.
func validateABI(entries []ABIEntry, source string) error {
	if len(entries) == 0 {
		return fmt.Errorf("ABI is empty (no functions or events found): %s", source)
	}
	for _, e := range entries {
		switch e.Type {
		case "function", "event", "constructor":
			return nil
		}
	}
	return fmt.Errorf("ABI has %d entries but none are functions or events: %s", len(entries), source)
}
