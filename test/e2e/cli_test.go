package e2e_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Mohsinsiddi/w3abi/test/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "w3abi-e2e-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "w3abi")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "W3ABI_CONFIG_DIR="+configDir, "NO_COLOR=1")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func word(hex string) string {
	return strings.Repeat("0", 64-len(hex)) + hex
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "w3abi")
	assert.Contains(t, out, "0.1.0")
}

func TestHelpCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "w3abi")
	for _, c := range []string{"encode", "selector", "layout", "call", "deploy", "abi", "config"} {
		assert.Contains(t, out, c, "help should list %s", c)
	}
	assert.Contains(t, out, "--config")
	assert.Contains(t, out, "--verbose")
}

func TestUnknownCommandShowsError(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "balance")
	assert.Error(t, err)
	assert.Contains(t, out, "Error:")
}

func TestEncodeRaw(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "encode", "transfer(address,uint256)",
		"0xd8da6bf26964af9d7eed9e03e53415d37aa96045", "1000000000000000000", "--raw")
	require.NoError(t, err, out)
	assert.Equal(t, "0xa9059cbb"+
		word("d8da6bf26964af9d7eed9e03e53415d37aa96045")+
		word("de0b6b3a7640000"), strings.TrimSpace(out))
}

func TestEncodeBadArgumentFails(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "encode", "f(uint8)", "300")
	require.Error(t, err)
	assert.Contains(t, out, "Error:")
}

func TestEncodeArtifactConstructor(t *testing.T) {
	owner := "1111111111111111111111111111111111111111"
	out, err := runCLI(t, t.TempDir(), "encode", "--abi", fixtures.ABIPath("Router.json"),
		"--constructor", "R", `["0x`+owner+`"]`, "--raw")
	require.NoError(t, err, out)
	assert.Equal(t, "0x6080604052"+
		word("40")+
		word("80")+
		word("1")+
		"52"+strings.Repeat("0", 62)+
		word("1")+
		word(owner), strings.TrimSpace(out))
}

func TestEncodeArtifactTupleFunction(t *testing.T) {
	recipient := "2222222222222222222222222222222222222222"
	params := `{"path":"0xabcd","recipient":"0x` + recipient + `","amountIn":"1e6","amountOutMinimum":0}`
	out, err := runCLI(t, t.TempDir(), "encode", "--abi", fixtures.ABIPath("Router.json"),
		"exactInput", params, "--no-selector", "--raw")
	require.NoError(t, err, out)
	assert.Equal(t, "0x"+
		word("20")+
		word("80")+
		word(recipient)+
		word("f4240")+
		word("0")+
		word("2")+
		"abcd"+strings.Repeat("0", 60), strings.TrimSpace(out))
}

func TestSelectorAndLayout(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "selector", "--raw", "aggregate3((address target, bool allowFailure, bytes callData)[] calls)")
	require.NoError(t, err, out)
	assert.Equal(t, "0x82ad56cb", strings.TrimSpace(out))

	out, err = runCLI(t, dir, "layout", "0xa9059cbb"+word("1")+word("2"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "0xa9059cbb")
	assert.Contains(t, out, "0x0020")
}

func TestConfigSetAndList(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-rpc", "http://127.0.0.1:8545")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "http://127.0.0.1:8545")

	_, err = os.Stat(filepath.Join(dir, "config.json"))
	assert.NoError(t, err)
}

func TestABIRegistryLifecycle(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "abi", "add", "vault", "--file", fixtures.ABIPath("vault.json"),
		"--address", "0x3333333333333333333333333333333333333333")
	require.NoError(t, err, out)
	assert.Contains(t, out, "4 functions")

	out, err = runCLI(t, dir, "abi", "show", "vault")
	require.NoError(t, err, out)
	assert.Contains(t, out, "deposit(uint256,address)")
	assert.Contains(t, out, "0x6e553f65")

	out, err = runCLI(t, dir, "encode", "--contract", "vault", "deposit", "5", "0x3333333333333333333333333333333333333333", "--raw")
	require.NoError(t, err, out)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "0x6e553f65"))

	out, err = runCLI(t, dir, "selector", "0x6e553f65", "--raw")
	require.NoError(t, err, out)
	assert.Equal(t, "deposit(uint256,address)", strings.TrimSpace(out))

	_, err = runCLI(t, dir, "abi", "remove", "vault")
	require.NoError(t, err)
	out, err = runCLI(t, dir, "abi", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No ABIs stored yet")
}

func TestCallAgainstMockNode(t *testing.T) {
	fixture := fixtures.LoadRPCResponse(t, "eth_call_total_assets.json")
	var (
		mu      sync.Mutex
		methods []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		mu.Lock()
		defer mu.Unlock()
		methods = append(methods, req.Method)
		fixture["id"] = req.ID
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fixture) //nolint:errcheck
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := runCLI(t, dir, "abi", "add", "vault", "--file", fixtures.ABIPath("vault.json"),
		"--address", "0x3333333333333333333333333333333333333333")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "config", "set-rpc", srv.URL)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "call", "vault", "totalAssets", "--raw")
	require.NoError(t, err, out)
	assert.Equal(t, "0x"+word("f4240"), strings.TrimSpace(out))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"eth_call"}, methods)
}
