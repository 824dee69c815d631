package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mohsinsiddi/w3abi/internal/config"
	"github.com/Mohsinsiddi/w3abi/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vaultABI = `[
	{"type":"function","name":"deposit","inputs":[{"name":"assets","type":"uint256"},{"name":"receiver","type":"address"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"totalAssets","inputs":[],"stateMutability":"view"},
	{"type":"event","name":"Deposit","inputs":[{"name":"sender","type":"address","indexed":true},{"name":"assets","type":"uint256"}]}
]`

func storedEntry(t *testing.T, dir, name string) *contract.Entry {
	t.Helper()
	c, err := config.Load(dir)
	require.NoError(t, err)
	reg := contract.NewRegistry(c.RegistryPath())
	require.NoError(t, reg.Load())
	e, err := reg.Get(name)
	require.NoError(t, err)
	return e
}

func TestABIAddFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, "vault.json", vaultABI)

	out := mustExecute(t, dir, "abi", "add", "vault", "--file", path, "--address", token)
	assert.Contains(t, out, `Stored ABI "vault" (2 functions)`)
	assert.Contains(t, out, token)

	e := storedEntry(t, dir, "vault")
	assert.Equal(t, token, e.Address)
	assert.Equal(t, path, e.Source)
	assert.Len(t, e.ABI, 3)
}

func TestABIAddFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(vaultABI)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	mustExecute(t, dir, "abi", "add", "vault", "--url", srv.URL+"/vault.json")
	assert.Equal(t, srv.URL+"/vault.json", storedEntry(t, dir, "vault").Source)
}

func TestABIAddFromExplorer(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("apikey")
		w.Write([]byte(`{"status":"1","message":"OK","result":` + jsonString(vaultABI) + `}`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	mustExecute(t, dir, "config", "set-explorer", srv.URL, "--key", "secret-key")
	mustExecute(t, dir, "abi", "add", "vault", "--explorer", token)

	e := storedEntry(t, dir, "vault")
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "explorer", e.Source)
	assert.Equal(t, token, e.Address)
}

func TestABIAddBuiltinKeepsAddress(t *testing.T) {
	dir := t.TempDir()
	mustExecute(t, dir, "abi", "add", "mc", "--builtin", "multicall3")
	e := storedEntry(t, dir, "mc")
	assert.Equal(t, "builtin:multicall3", e.Source)
	assert.Equal(t, "0xcA11bde05977b3631167028862bE2a173976CA11", e.Address)
}

func TestABIAddErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "abi", "add", "x")
	assert.ErrorContains(t, err, "an ABI source is required")

	_, err = execute(t, dir, "abi", "add", "x", "--builtin", "erc20", "--address", "0x1234")
	assert.ErrorContains(t, err, "invalid --address")

	_, err = execute(t, dir, "abi", "add", "x", "--explorer", "not-an-address")
	assert.ErrorContains(t, err, "invalid --explorer")

	_, err = execute(t, dir, "abi", "add", "x", "--builtin", "nope")
	assert.ErrorContains(t, err, "unknown built-in")

	_, err = execute(t, dir, "abi", "add", "x", "--file", writeTemp(t, "empty.json", "[]"))
	assert.Error(t, err)

	_, err = execute(t, dir, "abi", "add", "x", "--file", "a.json", "--builtin", "erc20")
	assert.Error(t, err)
}

func TestABIListAndRemove(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, dir, "abi", "list")
	assert.Contains(t, out, "No ABIs stored yet")

	mustExecute(t, dir, "abi", "add", "vault", "--file", writeTemp(t, "vault.json", vaultABI))
	mustExecute(t, dir, "abi", "add", "token", "--builtin", "erc20")

	out = mustExecute(t, dir, "abi", "list")
	assert.Contains(t, out, "vault")
	assert.Contains(t, out, "builtin:erc20")
	assert.Contains(t, out, "2 ABI(s) stored")

	out = mustExecute(t, dir, "abi", "remove", "vault")
	assert.Contains(t, out, `Removed ABI "vault"`)

	out = mustExecute(t, dir, "abi", "list")
	assert.NotContains(t, out, "vault")
	assert.Contains(t, out, "1 ABI(s) stored")

	_, err := execute(t, dir, "abi", "remove", "vault")
	assert.ErrorIs(t, err, contract.ErrContractNotFound)
}

func TestABIListBuiltin(t *testing.T) {
	out := mustExecute(t, t.TempDir(), "abi", "list", "--builtin")
	assert.Contains(t, out, "Built-in ABIs")
	assert.Contains(t, out, "erc20")
	assert.Contains(t, out, "multicall3")
}

func TestABIShow(t *testing.T) {
	dir := t.TempDir()
	mustExecute(t, dir, "abi", "add", "vault", "--file", writeTemp(t, "vault.json", vaultABI))

	out := mustExecute(t, dir, "abi", "show", "vault")
	assert.Contains(t, out, "deposit(uint256,address)")
	assert.Contains(t, out, "0x6e553f65")
	assert.Contains(t, out, "Deposit(address,uint256)")
	assert.Contains(t, out, "nonpayable")

	out = mustExecute(t, dir, "abi", "show", "erc20")
	assert.Contains(t, out, "0xa9059cbb")
	assert.Contains(t, out, "0xddf252ad")

	_, err := execute(t, dir, "abi", "show", "missing")
	assert.ErrorIs(t, err, contract.ErrContractNotFound)
}
