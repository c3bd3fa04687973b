package keymap

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tally/internal/engine"
)

// ProfileError reports a binding profile that failed to compile or
// validate. Pos carries the CUE source position when available.
type ProfileError struct {
	Path    string
	Key     string
	Message string
	Pos     token.Pos
}

func (e *ProfileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.Key != "" {
		return fmt.Sprintf("%s: binding %q: %s", e.Path, e.Key, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// commandActions are the action names a profile may bind a key to.
// Digit actions are deliberately not bindable: the numeral keys are part of
// the entry vocabulary, not command keys.
var commandActions = map[string]engine.Action{
	"decimal":     engine.Decimal(),
	"add":         engine.Operator(engine.OpAdd),
	"subtract":    engine.Operator(engine.OpSubtract),
	"multiply":    engine.Operator(engine.OpMultiply),
	"divide":      engine.Operator(engine.OpDivide),
	"percent":     engine.Percent(),
	"equals":      engine.Equals(),
	"clear":       engine.Clear(),
	"toggle_sign": engine.ToggleSign(),
	"backspace":   engine.Backspace(),
}

// CompileProfile loads a CUE binding profile and validates it.
//
// A profile declares command-key bindings:
//
//	bindings: {
//		"q": "clear"
//		"p": "percent"
//	}
//
// Keys bound to digits ("0"-"9") and unknown action names are rejected.
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
func CompileProfile(path string) (map[string]engine.Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, &ProfileError{Path: path, Message: err.Error(), Pos: v.Pos()}
	}

	bindingsVal := v.LookupPath(cue.ParsePath("bindings"))
	if !bindingsVal.Exists() {
		return nil, &ProfileError{Path: path, Message: "bindings struct is required", Pos: v.Pos()}
	}

	iter, err := bindingsVal.Fields()
	if err != nil {
		return nil, &ProfileError{Path: path, Message: fmt.Sprintf("bindings must be a struct: %v", err), Pos: bindingsVal.Pos()}
	}

	bindings := make(map[string]engine.Action)
	for iter.Next() {
		key := iter.Label()
		val := iter.Value()

		name, err := val.String()
		if err != nil {
			return nil, &ProfileError{Path: path, Key: key, Message: "binding value must be a string action name", Pos: val.Pos()}
		}

		if key == "" {
			return nil, &ProfileError{Path: path, Message: "binding key must not be empty", Pos: val.Pos()}
		}
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			return nil, &ProfileError{Path: path, Key: key, Message: "digit keys are not overridable", Pos: val.Pos()}
		}

		action, ok := commandActions[name]
		if !ok {
			return nil, &ProfileError{Path: path, Key: key, Message: fmt.Sprintf("unknown action %q", name), Pos: val.Pos()}
		}
		bindings[key] = action
	}

	return bindings, nil
}

// LoadProfile compiles a profile and overlays it on the default keymap.
func LoadProfile(path string) (*Keymap, error) {
	bindings, err := CompileProfile(path)
	if err != nil {
		return nil, err
	}
	return Default().overlay(bindings), nil
}
