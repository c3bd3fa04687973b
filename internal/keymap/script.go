package keymap

import (
	"fmt"
	"strings"

	"github.com/roach88/tally/internal/engine"
)

// ParseScript splits a whitespace-separated key script into actions.
//
// Each token is either a bound key or a bare numeral ("12.5"), which
// expands into its individual digit and decimal presses. This is a key
// script, not an expression language: tokens are resolved strictly left to
// right with no precedence, no parentheses, and no multi-token parsing.
func ParseScript(script string, km *Keymap) ([]engine.Action, error) {
	var actions []engine.Action
	for _, tok := range strings.Fields(script) {
		expanded, err := ExpandToken(tok, km)
		if err != nil {
			return nil, err
		}
		actions = append(actions, expanded...)
	}
	return actions, nil
}

// ExpandToken resolves a single key token into one or more actions.
// Bound keys resolve directly; unbound numeral tokens expand per digit.
func ExpandToken(tok string, km *Keymap) ([]engine.Action, error) {
	if a, err := km.Resolve(tok); err == nil {
		return []engine.Action{a}, nil
	}

	if isNumeral(tok) {
		actions := make([]engine.Action, 0, len(tok))
		for _, r := range tok {
			if r == '.' {
				actions = append(actions, engine.Decimal())
			} else {
				actions = append(actions, engine.Digit(int(r-'0')))
			}
		}
		return actions, nil
	}

	return nil, fmt.Errorf("script token %q: %w", tok, &UnknownKeyError{Key: tok})
}

// isNumeral reports whether tok consists of digits with at most one
// decimal point. A lone "." is not a numeral (it resolves as a key).
func isNumeral(tok string) bool {
	if tok == "" || tok == "." {
		return false
	}
	points := 0
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			points++
			if points > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
