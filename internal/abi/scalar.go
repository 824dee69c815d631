package abi

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const wordHex = 2 * WordSize

var (
	one     = big.NewInt(1)
	wordMax = new(big.Int).Sub(new(big.Int).Lsh(one, 256), one) // 2^256 - 1
)

// EncodeUint encodes a uint256.
func EncodeUint(v *big.Int) (string, error) { return encodeUint(v, 256) }

// EncodeInt encodes an int256 as its two's-complement word.
func EncodeInt(v *big.Int) (string, error) { return encodeInt(v, 256) }

// EncodeBool encodes a bool as the word 1 or 0.
func EncodeBool(v bool) string {
	if v {
		return strings.Repeat("0", wordHex-1) + "1"
	}
	return strings.Repeat("0", wordHex)
}

// EncodeFixed encodes v as a fixed256xN value: v is scaled by 2^decimals,
// truncated toward zero and encoded as an int256. Only a scaled value
// outside the int256 range is an error.
func EncodeFixed(v *big.Rat, decimals int) (string, error) { return encodeFixed(v, 256, decimals) }

// EncodeStaticBytes hex-encodes b and pads it on the right to a whole number
// of words, never less than one.
func EncodeStaticBytes(b []byte) string {
	if len(b) == 0 {
		return strings.Repeat("0", wordHex)
	}
	return padRight(hex.EncodeToString(b))
}

// EncodeAddress encodes a 20-byte address given as hex, with or without 0x.
func EncodeAddress(s string) (string, error) {
	h := s
	if strings.HasPrefix(h, "0x") || strings.HasPrefix(h, "0X") {
		h = h[2:]
	}
	if len(h) != 40 {
		return "", newError(ErrInvalidAddress, nil, "", "expected 40 hex digits, got %d", len(h))
	}
	if _, err := hex.DecodeString(h); err != nil {
		return "", newError(ErrInvalidAddress, nil, "", "%q is not hexadecimal", s)
	}
	return strings.Repeat("0", 24) + strings.ToLower(h), nil
}

// Prefixed returns hex with a leading 0x, adding it only when missing.
func Prefixed(s string) string {
	if strings.HasPrefix(s, "0x") {
		return s
	}
	return "0x" + s
}

func encodeUint(v *big.Int, bits int) (string, error) {
	if v.Sign() < 0 {
		return "", newError(ErrInvalidValue, nil, "", "negative value %s for uint%d", v, bits)
	}
	if v.BitLen() > bits {
		return "", newError(ErrInvalidValue, nil, "", "%s overflows uint%d", v, bits)
	}
	return word(v), nil
}

func encodeInt(v *big.Int, bits int) (string, error) {
	limit := new(big.Int).Lsh(one, uint(bits-1))
	if v.Cmp(limit) >= 0 || v.Cmp(new(big.Int).Neg(limit)) < 0 {
		return "", newError(ErrInvalidValue, nil, "", "%s overflows int%d", v, bits)
	}
	// Masking to 256 bits yields the two's-complement pattern for negatives.
	return word(new(big.Int).And(v, wordMax)), nil
}

func encodeFixed(v *big.Rat, bits, decimals int) (string, error) {
	scale := new(big.Rat).SetInt(new(big.Int).Lsh(one, uint(decimals)))
	scaled := new(big.Rat).Mul(v, scale)
	n := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	return encodeInt(n, bits)
}

func encodeFixedBytes(b []byte, size int) (string, error) {
	if len(b) > size {
		return "", newError(ErrInvalidValue, nil, "", "%d bytes do not fit in bytes%d", len(b), size)
	}
	return EncodeStaticBytes(b), nil
}

// encodeDynamicBytes returns the tail content of bytes and string values:
// the byte count followed by the padded content.
func encodeDynamicBytes(b []byte) string {
	return offsetWord(len(b)) + padRight(hex.EncodeToString(b))
}

// word renders a non-negative integer below 2^256 as one word.
func word(v *big.Int) string {
	return fmt.Sprintf("%064x", v)
}

func offsetWord(n int) string {
	return fmt.Sprintf("%064x", n)
}

func padRight(h string) string {
	if r := len(h) % wordHex; r != 0 {
		return h + strings.Repeat("0", wordHex-r)
	}
	return h
}
