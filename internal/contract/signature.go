package contract

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3abi/internal/abi"
)

// paramKeywords may follow a type in a human-written signature.
var paramKeywords = map[string]bool{
	"indexed":  true,
	"memory":   true,
	"calldata": true,
	"storage":  true,
	"payable":  true,
}

// ParseSignature builds a function entry from a signature such as
// "transfer(address,uint256)" or "submit((address to, bytes data)[] calls)".
// A leading "function" or "event" keyword and anything after the closing
// parenthesis (modifiers, returns clause) are ignored. Parameter names are
// dropped; parenthesised groups become tuple parameters.
func ParseSignature(sig string) (ABIEntry, error) {
	s := strings.TrimSpace(sig)
	kind := "function"
	for _, kw := range []string{"function ", "event "} {
		if strings.HasPrefix(s, kw) {
			kind = strings.TrimSpace(kw)
			s = strings.TrimSpace(s[len(kw):])
		}
	}

	open := strings.IndexByte(s, '(')
	if open <= 0 {
		return ABIEntry{}, fmt.Errorf("invalid signature %q: expected name(type1,type2)", sig)
	}
	name := strings.TrimSpace(s[:open])
	if strings.ContainsAny(name, " \t,)") {
		return ABIEntry{}, fmt.Errorf("invalid signature %q: bad function name %q", sig, name)
	}
	end, err := matchParen(s, open)
	if err != nil {
		return ABIEntry{}, fmt.Errorf("invalid signature %q: %w", sig, err)
	}
	if rest := s[end+1:]; rest != "" && rest[0] != ' ' {
		return ABIEntry{}, fmt.Errorf("invalid signature %q: unexpected %q after parameters", sig, rest)
	}

	inputs, err := parseParams(s[open+1 : end])
	if err != nil {
		return ABIEntry{}, fmt.Errorf("invalid signature %q: %w", sig, err)
	}
	for i, in := range inputs {
		if _, err := abi.Resolve(in.Param()); err != nil {
			return ABIEntry{}, fmt.Errorf("invalid signature %q: parameter %d: %w", sig, i, err)
		}
	}

	// Mutability is unknown from a bare signature and left empty.
	return ABIEntry{Name: name, Type: kind, Inputs: inputs}, nil
}

// NormalizeSignature returns the canonical form of sig: no spaces, no
// parameter names, uint/int widened to 256, tuples as (t1,t2).
func NormalizeSignature(sig string) (string, error) {
	e, err := ParseSignature(sig)
	if err != nil {
		return "", err
	}
	return e.Signature(), nil
}

func parseParams(s string) ([]ABIParam, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts, err := splitTopLevel(s)
	if err != nil {
		return nil, err
	}
	params := make([]ABIParam, len(parts))
	for i, part := range parts {
		p, err := parseParam(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		params[i] = p
	}
	return params, nil
}

func parseParam(s string) (ABIParam, error) {
	if s == "" {
		return ABIParam{}, fmt.Errorf("empty parameter")
	}

	var p ABIParam
	var rest string
	if strings.HasPrefix(s, "(") || strings.HasPrefix(s, "tuple(") {
		open := strings.IndexByte(s, '(')
		end, err := matchParen(s, open)
		if err != nil {
			return ABIParam{}, err
		}
		comps, err := parseParams(s[open+1 : end])
		if err != nil {
			return ABIParam{}, err
		}
		if len(comps) == 0 {
			return ABIParam{}, fmt.Errorf("empty tuple in %q", s)
		}
		// Array suffixes bind to the tuple: (a,b)[2][].
		i := end + 1
		for i < len(s) && s[i] == '[' {
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return ABIParam{}, fmt.Errorf("unterminated array suffix in %q", s)
			}
			i += j + 1
		}
		p = ABIParam{Type: "tuple" + s[end+1:i], Components: comps}
		rest = s[i:]
	} else {
		fields := strings.Fields(s)
		p.Type = fields[0]
		rest = strings.Join(fields[1:], " ")
	}

	for _, word := range strings.Fields(rest) {
		if word == "indexed" {
			p.Indexed = true
		}
		if !paramKeywords[word] && strings.ContainsAny(word, "()[],") {
			return ABIParam{}, fmt.Errorf("unexpected %q in parameter %q", word, s)
		}
	}
	return p, nil
}

// splitTopLevel splits s on commas that are not nested in parentheses.
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	return append(parts, s[start:]), nil
}

// matchParen returns the index of the parenthesis closing the one at open.
func matchParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced parentheses")
}
