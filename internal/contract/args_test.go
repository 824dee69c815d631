package contract_test

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/w3abi/internal/abi"
	"github.com/Mohsinsiddi/w3abi/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, p abi.Param) *abi.Type {
	t.Helper()
	typ, err := abi.Resolve(p)
	require.NoError(t, err)
	return typ
}

// encodeOne encodes v as the only argument of p.
func encodeOne(t *testing.T, p abi.Param, v abi.Value) string {
	t.Helper()
	out, err := abi.EncodeArguments([]abi.Param{p}, []abi.Value{v})
	require.NoError(t, err)
	return out
}

// ---------------------------------------------------------------------------
// ParseArg: scalars
// ---------------------------------------------------------------------------

func TestParseArgIntegers(t *testing.T) {
	p := abi.Param{Type: "uint256"}
	tests := map[string]int64{
		"255":  255,
		"0xff": 255,
		"0b11": 3,
		"0o17": 15,
		"1e3":  1000,
		" 42 ": 42,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			v, err := contract.ParseArg(resolve(t, p), in)
			require.NoError(t, err)
			assert.Equal(t, encodeOne(t, p, abi.Int64(want)), encodeOne(t, p, v))
		})
	}
}

func TestParseArgNegativeInt(t *testing.T) {
	p := abi.Param{Type: "int8"}
	v, err := contract.ParseArg(resolve(t, p), "-128")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("f", 62)+"80", encodeOne(t, p, v))
}

func TestParseArgIntegerInvalid(t *testing.T) {
	for _, in := range []string{"abc", "1.5", "", "0xzz"} {
		_, err := contract.ParseArg(resolve(t, abi.Param{Type: "uint256"}), in)
		assert.ErrorIs(t, err, abi.ErrInvalidValue, in)
	}
}

func TestParseArgBool(t *testing.T) {
	typ := resolve(t, abi.Param{Type: "bool"})
	for in, want := range map[string]bool{"true": true, "1": true, "false": false, "0": false, "TRUE": true} {
		v, err := contract.ParseArg(typ, in)
		require.NoError(t, err)
		assert.Equal(t, abi.Bool(want), v, in)
	}
	_, err := contract.ParseArg(typ, "yes")
	assert.ErrorIs(t, err, abi.ErrInvalidValue)
}

func TestParseArgFixed(t *testing.T) {
	p := abi.Param{Type: "fixed128x18"}
	v, err := contract.ParseArg(resolve(t, p), "0.5")
	require.NoError(t, err)
	assert.Equal(t, encodeOne(t, p, abi.Rational(big.NewRat(1, 2))), encodeOne(t, p, v))
}

func TestParseArgBytes(t *testing.T) {
	v, err := contract.ParseArg(resolve(t, abi.Param{Type: "bytes"}), "0xdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, abi.Bytes([]byte{0xde, 0xad, 0xbe, 0xef}), v)

	_, err = contract.ParseArg(resolve(t, abi.Param{Type: "bytes4"}), "deadbeef")
	assert.ErrorIs(t, err, abi.ErrInvalidValue)
}

func TestParseArgStringAndAddress(t *testing.T) {
	v, err := contract.ParseArg(resolve(t, abi.Param{Type: "string"}), "hello")
	require.NoError(t, err)
	assert.Equal(t, abi.Text("hello"), v)

	v, err = contract.ParseArg(resolve(t, abi.Param{Type: "address"}), "0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	require.NoError(t, err)
	assert.Equal(t, abi.AddressValue, v.Kind())
}

// ---------------------------------------------------------------------------
// ParseArg: arrays and tuples as JSON
// ---------------------------------------------------------------------------

func TestParseArgArray(t *testing.T) {
	p := abi.Param{Type: "uint256[]"}
	v, err := contract.ParseArg(resolve(t, p), `[1, "0x02", 3]`)
	require.NoError(t, err)
	assert.Equal(t, encodeOne(t, p, abi.Array(abi.Int64(1), abi.Int64(2), abi.Int64(3))), encodeOne(t, p, v))
}

func TestParseArgBigJSONNumber(t *testing.T) {
	p := abi.Param{Type: "uint256[1]"}
	max := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	v, err := contract.ParseArg(resolve(t, p), "["+max+"]")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("f", 64), encodeOne(t, p, v))
}

func TestParseArgTuplePositionalAndNamed(t *testing.T) {
	p := abi.Param{Type: "tuple", Components: []abi.Param{
		{Name: "to", Type: "address"},
		{Name: "amount", Type: "uint256"},
		{Name: "memo", Type: "string"},
	}}
	typ := resolve(t, p)
	addr := "0x" + strings.Repeat("11", 20)

	positional, err := contract.ParseArg(typ, `["`+addr+`", 5, "hi"]`)
	require.NoError(t, err)
	named, err := contract.ParseArg(typ, `{"memo": "hi", "amount": "5", "to": "`+addr+`"}`)
	require.NoError(t, err)

	want := encodeOne(t, p, abi.Tuple(abi.Address(addr), abi.Int64(5), abi.Text("hi")))
	assert.Equal(t, want, encodeOne(t, p, positional))
	assert.Equal(t, want, encodeOne(t, p, named))
}

func TestParseArgTupleArray(t *testing.T) {
	p := abi.Param{Type: "tuple[]", Components: []abi.Param{
		{Name: "target", Type: "address"},
		{Name: "callData", Type: "bytes"},
	}}
	addr := "0x" + strings.Repeat("ab", 20)
	v, err := contract.ParseArg(resolve(t, p), `[{"target": "`+addr+`", "callData": "0x01"}, ["`+addr+`", "0x"]]`)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())
}

func TestParseArgTupleErrors(t *testing.T) {
	typ := resolve(t, abi.Param{Type: "tuple", Components: []abi.Param{
		{Name: "a", Type: "uint8"},
		{Name: "b", Type: "bool"},
	}})

	_, err := contract.ParseArg(typ, `{"a": 1}`)
	assert.ErrorIs(t, err, abi.ErrArgumentCount)

	_, err = contract.ParseArg(typ, `{"a": 1, "b": true, "c": 2}`)
	assert.ErrorIs(t, err, abi.ErrArgumentCount)

	_, err = contract.ParseArg(typ, `[1]`)
	assert.ErrorIs(t, err, abi.ErrArgumentCount)

	_, err = contract.ParseArg(typ, `[1, "maybe"]`)
	require.ErrorIs(t, err, abi.ErrInvalidValue)
	assert.Contains(t, err.Error(), "b:")

	_, err = contract.ParseArg(typ, `7`)
	assert.ErrorIs(t, err, abi.ErrTypeMismatch)

	_, err = contract.ParseArg(typ, `[1,`)
	assert.ErrorIs(t, err, abi.ErrInvalidValue)
}

func TestParseArgArrayElementError(t *testing.T) {
	_, err := contract.ParseArg(resolve(t, abi.Param{Type: "bool[]"}), `[true, 3]`)
	require.ErrorIs(t, err, abi.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "[1]")
}

// ---------------------------------------------------------------------------
// ParseArgs / ValuesFromAny
// ---------------------------------------------------------------------------

func TestParseArgsCountMismatch(t *testing.T) {
	_, err := contract.ParseArgs([]abi.Param{{Type: "uint256"}}, nil)
	assert.ErrorIs(t, err, abi.ErrArgumentCount)
}

func TestParseArgsReportsIndex(t *testing.T) {
	_, err := contract.ParseArgs([]abi.Param{{Type: "address"}, {Type: "uint256"}}, []string{"0x00", "ten"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 1 (uint256)")
}

func TestValuesFromAnyYAMLTypes(t *testing.T) {
	params := []abi.Param{{Type: "uint64"}, {Type: "int256"}, {Type: "fixed64x2"}, {Type: "uint256"}}
	values, err := contract.ValuesFromAny(params, []any{int(7), int64(-3), 1.25, uint64(1 << 63)})
	require.NoError(t, err)
	require.Len(t, values, 4)

	_, err = contract.ValuesFromAny(params[:1], []any{1.5})
	assert.ErrorIs(t, err, abi.ErrInvalidValue)
}

// ---------------------------------------------------------------------------
// LoadArgsFile
// ---------------------------------------------------------------------------

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadArgsFileJSON(t *testing.T) {
	path := writeFile(t, "args.json", `["0x1111111111111111111111111111111111111111", 115792089237316195423570985008687907853269984665640564039457584007913129639935, [1, 2]]`)
	raw, err := contract.LoadArgsFile(path)
	require.NoError(t, err)
	require.Len(t, raw, 3)

	values, err := contract.ValuesFromAny([]abi.Param{{Type: "address"}, {Type: "uint256"}, {Type: "uint8[]"}}, raw)
	require.NoError(t, err)
	out := encodeOne(t, abi.Param{Type: "uint256"}, values[1])
	assert.Equal(t, strings.Repeat("f", 64), out)
}

func TestLoadArgsFileYAML(t *testing.T) {
	path := writeFile(t, "args.yaml", `
- "0x1111111111111111111111111111111111111111"
- target: "0x2222222222222222222222222222222222222222"
  callData: "0xa9059cbb"
- [true, false]
`)
	raw, err := contract.LoadArgsFile(path)
	require.NoError(t, err)

	params := []abi.Param{
		{Type: "address"},
		{Type: "tuple", Components: []abi.Param{{Name: "target", Type: "address"}, {Name: "callData", Type: "bytes"}}},
		{Type: "bool[2]"},
	}
	values, err := contract.ValuesFromAny(params, raw)
	require.NoError(t, err)
	assert.Equal(t, abi.TupleValue, values[1].Kind())
	assert.Equal(t, 2, values[2].Len())
}

func TestLoadArgsFileErrors(t *testing.T) {
	_, err := contract.LoadArgsFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = contract.LoadArgsFile(writeFile(t, "args.txt", "[]"))
	assert.Error(t, err)

	_, err = contract.LoadArgsFile(writeFile(t, "args.json", `{"not": "a list"}`))
	assert.Error(t, err)
}

func TestLoadArgsFileYAMLKeepsLargeIntegers(t *testing.T) {
	path := writeFile(t, "args.yaml", "- 123456789012345678901234567\n- -98765432109876543210\n")
	raw, err := contract.LoadArgsFile(path)
	require.NoError(t, err)

	params := []abi.Param{{Type: "uint256"}, {Type: "int128"}}
	values, err := contract.ValuesFromAny(params, raw)
	require.NoError(t, err)

	big1, _ := new(big.Int).SetString("123456789012345678901234567", 10)
	big2, _ := new(big.Int).SetString("-98765432109876543210", 10)
	want, err := abi.EncodeArguments(params, []abi.Value{abi.Int(big1), abi.Int(big2)})
	require.NoError(t, err)
	got, err := abi.EncodeArguments(params, values)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadArgsFileYAMLUnquotedHex(t *testing.T) {
	path := writeFile(t, "args.yaml", "- 0xd8da6bf26964af9d7eed9e03e53415d37aa96045\n- 0xdeadbeef\n- 0x10\n- 1.5\n")
	raw, err := contract.LoadArgsFile(path)
	require.NoError(t, err)

	params := []abi.Param{{Type: "address"}, {Type: "bytes4"}, {Type: "uint8"}, {Type: "fixed8x1"}}
	values, err := contract.ValuesFromAny(params, raw)
	require.NoError(t, err)
	assert.Equal(t, abi.Address("0xd8da6bf26964af9d7eed9e03e53415d37aa96045"), values[0])
	assert.Equal(t, abi.Bytes([]byte{0xde, 0xad, 0xbe, 0xef}), values[1])
	assert.Equal(t, encodeOne(t, params[2], abi.Int64(16)), encodeOne(t, params[2], values[2]))
}

func TestLoadArgsFileYAMLNotAList(t *testing.T) {
	_, err := contract.LoadArgsFile(writeFile(t, "args.yaml", "a: 1\n"))
	assert.Error(t, err)

	raw, err := contract.LoadArgsFile(writeFile(t, "args.yml", ""))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestValuesFromAnyRejectsInexactFloat(t *testing.T) {
	_, err := contract.ValuesFromAny([]abi.Param{{Type: "uint256"}}, []any{1.2345678901234568e+26})
	assert.ErrorIs(t, err, abi.ErrInvalidValue)

	values, err := contract.ValuesFromAny([]abi.Param{{Type: "uint256"}}, []any{float64(1 << 52)})
	require.NoError(t, err)
	assert.Equal(t, encodeOne(t, abi.Param{Type: "uint256"}, abi.Int64(1<<52)), encodeOne(t, abi.Param{Type: "uint256"}, values[0]))
}
