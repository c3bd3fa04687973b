package cli

import (
	"context"
	"fmt"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/keymap"
	"github.com/roach88/tally/internal/tape"
)

// ScriptStep is one applied action from a key script, used by the eval and
// trace commands.
type ScriptStep struct {
	Seq       int64  `json:"seq"`
	Key       string `json:"key"`
	Action    string `json:"action"`
	Display   string `json:"display"`
	Secondary string `json:"secondary"`
	IsError   bool   `json:"is_error"`
}

// loadKeymap returns the default keymap, overlaid with a CUE profile when
// path is non-empty.
func loadKeymap(path string) (*keymap.Keymap, error) {
	if path == "" {
		return keymap.Default(), nil
	}
	km, err := keymap.LoadProfile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load keymap profile", err)
	}
	return km, nil
}

// runScript resolves and applies every key token in order, capturing one
// step per expanded action. Numeral tokens contribute one step per digit
// press, each tagged with the originating token.
func runScript(tokens []string, km *keymap.Keymap, apply func(engine.Action) (engine.Snapshot, error)) ([]ScriptStep, engine.Snapshot, error) {
	var steps []ScriptStep
	var last engine.Snapshot

	for _, tok := range tokens {
		actions, err := keymap.ExpandToken(tok, km)
		if err != nil {
			return nil, last, WrapExitError(ExitCommandError, fmt.Sprintf("unknown key %q", tok), err)
		}
		for _, a := range actions {
			snap, err := apply(a)
			if err != nil {
				return nil, last, WrapExitError(ExitCommandError, fmt.Sprintf("failed to apply key %q", tok), err)
			}
			last = snap
			steps = append(steps, ScriptStep{
				Seq:       int64(len(steps) + 1),
				Key:       tok,
				Action:    a.String(),
				Display:   snap.Display,
				Secondary: snap.SecondaryLine,
				IsError:   snap.IsError,
			})
		}
	}
	return steps, last, nil
}

// openRecorder opens the tape database and attaches a recorder to the
// engine. A named session is resumed when it already exists and created
// otherwise; with no name a fresh UUIDv7 session is started.
//
// The caller owns the returned store and must close it.
func openRecorder(ctx context.Context, dbPath, sessionID string, eng *engine.Engine) (*tape.Recorder, *tape.Store, error) {
	st, err := tape.Open(dbPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open tape database", err)
	}

	if sessionID == "" {
		rec, err := tape.NewSession(ctx, st, eng, tape.UUIDv7Generator{}, "cli")
		if err != nil {
			st.Close()
			return nil, nil, WrapExitError(ExitCommandError, "failed to start session", err)
		}
		return rec, st, nil
	}

	exists, err := st.SessionExists(ctx, sessionID)
	if err != nil {
		st.Close()
		return nil, nil, WrapExitError(ExitCommandError, "failed to look up session", err)
	}
	if exists {
		rec, err := tape.Resume(ctx, st, eng, sessionID)
		if err != nil {
			st.Close()
			return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to resume session %s", sessionID), err)
		}
		return rec, st, nil
	}

	if err := st.CreateSession(ctx, sessionID, "cli"); err != nil {
		st.Close()
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to create session %s", sessionID), err)
	}
	return tape.NewRecorder(eng, st, tape.NewClock(), sessionID), st, nil
}
