// Package keymap maps key tokens onto calculator actions.
//
// Every front end (CLI scripts, the REPL, the MCP tools, the scenario
// harness) resolves keys through the same Keymap so the physical-key
// contract is defined exactly once. The default map can be overlaid with a
// declarative CUE binding profile (see profile.go).
package keymap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/tally/internal/engine"
)

// Keymap is an immutable map from key token to action.
//
// Single-character tokens are matched exactly. Multi-character tokens
// ("enter", "escape", "backspace") are matched case-insensitively.
type Keymap struct {
	bindings map[string]engine.Action
}

// UnknownKeyError reports a key token with no binding.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key %q", e.Key)
}

// Default returns the standard binding table:
//
//	0-9        digit entry
//	.          decimal point
//	+ -        add, subtract
//	* x        multiply
//	/          divide
//	%          percent
//	= enter    equals
//	esc escape clear
//	bs backspace
//	n ±        sign toggle
func Default() *Keymap {
	b := map[string]engine.Action{
		".":         engine.Decimal(),
		"+":         engine.Operator(engine.OpAdd),
		"-":         engine.Operator(engine.OpSubtract),
		"*":         engine.Operator(engine.OpMultiply),
		"x":         engine.Operator(engine.OpMultiply),
		"/":         engine.Operator(engine.OpDivide),
		"%":         engine.Percent(),
		"=":         engine.Equals(),
		"enter":     engine.Equals(),
		"esc":       engine.Clear(),
		"escape":    engine.Clear(),
		"bs":        engine.Backspace(),
		"backspace": engine.Backspace(),
		"n":         engine.ToggleSign(),
		"±":         engine.ToggleSign(),
	}
	for d := 0; d <= 9; d++ {
		b[string(rune('0'+d))] = engine.Digit(d)
	}
	return &Keymap{bindings: b}
}

// Resolve looks up one key token.
func (k *Keymap) Resolve(key string) (engine.Action, error) {
	if a, ok := k.bindings[key]; ok {
		return a, nil
	}
	// Named keys are case-insensitive ("Enter", "ESC", ...).
	if len(key) > 1 {
		if a, ok := k.bindings[strings.ToLower(key)]; ok {
			return a, nil
		}
	}
	return engine.Action{}, &UnknownKeyError{Key: key}
}

// Bindings returns a copy of the binding table, for display purposes.
func (k *Keymap) Bindings() map[string]engine.Action {
	out := make(map[string]engine.Action, len(k.bindings))
	for key, a := range k.bindings {
		out[key] = a
	}
	return out
}

// Keys returns all bound key tokens in sorted order.
func (k *Keymap) Keys() []string {
	keys := make([]string, 0, len(k.bindings))
	for key := range k.bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// overlay returns a new Keymap with the given bindings added on top of k,
// replacing any existing binding for the same key.
func (k *Keymap) overlay(bindings map[string]engine.Action) *Keymap {
	merged := k.Bindings()
	for key, a := range bindings {
		merged[key] = a
	}
	return &Keymap{bindings: merged}
}
