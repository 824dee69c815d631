package contract

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3abi/internal/abi"
	"golang.org/x/crypto/sha3"
)

// ErrFunctionNotFound is returned when an ABI has no function of the
// requested name or signature.
var ErrFunctionNotFound = errors.New("function not found")

// ABIEntry is one ABI entry (function, event, constructor, etc.).
type ABIEntry struct {
	Name            string     `json:"name,omitempty"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs,omitempty"`
	StateMutability string     `json:"stateMutability,omitempty"`
	Anonymous       bool       `json:"anonymous,omitempty"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	InternalType string     `json:"internalType,omitempty"`
	Indexed      bool       `json:"indexed,omitempty"`
	Components   []ABIParam `json:"components,omitempty"`
}

// Param converts p into the encoder's parameter description.
func (p ABIParam) Param() abi.Param {
	out := abi.Param{Name: p.Name, Type: p.Type}
	if len(p.Components) > 0 {
		out.Components = make([]abi.Param, len(p.Components))
		for i, c := range p.Components {
			out.Components[i] = c.Param()
		}
	}
	return out
}

// Params converts the inputs of e.
func (e ABIEntry) Params() []abi.Param {
	out := make([]abi.Param, len(e.Inputs))
	for i, in := range e.Inputs {
		out[i] = in.Param()
	}
	return out
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "nonpayable" || e.StateMutability == "payable")
}

// Signature returns the canonical signature, e.g.
// "swap((address,uint256)[],bytes)". Types that fail to resolve are
// rendered as declared.
func (e ABIEntry) Signature() string {
	types := make([]string, len(e.Inputs))
	for i, in := range e.Inputs {
		t, err := abi.Resolve(in.Param())
		if err != nil {
			types[i] = in.Type
			continue
		}
		types[i] = t.Canonical()
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}

// Selector returns the 0x-prefixed 4-byte function selector.
func (e ABIEntry) Selector() string {
	return "0x" + hex.EncodeToString(Keccak256([]byte(e.Signature()))[:4])
}

// Topic returns the 0x-prefixed 32-byte event topic.
func (e ABIEntry) Topic() string {
	return "0x" + hex.EncodeToString(Keccak256([]byte(e.Signature())))
}

// Keccak256 returns the legacy Keccak-256 digest of data.
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// FindFunction returns the function called name. name may also be a full
// signature, which selects one overload.
func FindFunction(entries []ABIEntry, name string) (*ABIEntry, error) {
	bySignature := strings.Contains(name, "(")
	if bySignature {
		if norm, err := NormalizeSignature(name); err == nil {
			name = norm
		}
	}
	var found []*ABIEntry
	for i := range entries {
		e := &entries[i]
		if e.Type != "function" {
			continue
		}
		if bySignature && e.Signature() == name {
			return e, nil
		}
		if !bySignature && e.Name == name {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	case 1:
		return found[0], nil
	}
	sigs := make([]string, len(found))
	for i, f := range found {
		sigs[i] = f.Signature()
	}
	return nil, fmt.Errorf("%q is overloaded, use one of: %s", name, strings.Join(sigs, ", "))
}

// Functions returns the function entries of entries.
func Functions(entries []ABIEntry) []ABIEntry {
	var out []ABIEntry
	for _, e := range entries {
		if e.Type == "function" {
			out = append(out, e)
		}
	}
	return out
}

// Constructor returns the constructor entry of entries, or an entry with no
// inputs when the ABI declares none.
func Constructor(entries []ABIEntry) ABIEntry {
	for _, e := range entries {
		if e.Type == "constructor" {
			return e
		}
	}
	return ABIEntry{Type: "constructor"}
}
