package tape

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/tally/internal/engine"
)

// Recorder drives a calculator engine and journals every applied action
// together with the snapshot it produced.
//
// The recorder does not make the engine durable: the engine's state lives
// only in memory, and the journal is an audit trail. Apply is not safe for
// concurrent use; the caller serializes dispatch like it would for the
// bare engine.
type Recorder struct {
	eng       *engine.Engine
	store     *Store
	clock     SeqClock
	sessionID string
}

// NewSession creates a session record and returns a recorder for it.
// The engine always starts cleared; source is a free-form label of what
// produced the session ("eval", "repl", "harness").
func NewSession(ctx context.Context, st *Store, eng *engine.Engine, gen SessionIDGenerator, source string) (*Recorder, error) {
	id := gen.Generate()
	if err := st.CreateSession(ctx, id, source); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	slog.Debug("tape session created", "session_id", id, "source", source)
	return &Recorder{eng: eng, store: st, clock: NewClock(), sessionID: id}, nil
}

// Resume reopens an existing session for continued recording.
//
// The recorded actions are re-applied to the supplied (fresh) engine so
// the continuation observes the same state the session left off at, and
// the clock resumes after the last recorded seq.
func Resume(ctx context.Context, st *Store, eng *engine.Engine, sessionID string) (*Recorder, error) {
	exists, err := st.SessionExists(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("resume session: session %q not found", sessionID)
	}

	entries, err := st.ReadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}
	for _, e := range entries {
		eng.Apply(e.Action)
	}

	last, err := st.LastSeq(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}
	slog.Debug("tape session resumed", "session_id", sessionID, "last_seq", last)
	return &Recorder{eng: eng, store: st, clock: NewClockAt(last), sessionID: sessionID}, nil
}

// NewRecorder wires a recorder onto an existing session without touching
// the engine. Used by the harness, which owns its own clock.
func NewRecorder(eng *engine.Engine, st *Store, clock SeqClock, sessionID string) *Recorder {
	return &Recorder{eng: eng, store: st, clock: clock, sessionID: sessionID}
}

// SessionID returns the id of the session being recorded.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Snapshot returns the driven engine's current snapshot.
func (r *Recorder) Snapshot() engine.Snapshot {
	return r.eng.Snapshot()
}

// Apply drives the engine with one action and journals the result.
//
// The engine mutation cannot fail; only the journal write can. A write
// failure is returned after the engine has already advanced, so callers
// that continue anyway keep a consistent engine with a truncated tape.
func (r *Recorder) Apply(ctx context.Context, a engine.Action) (engine.Snapshot, error) {
	snap := r.eng.Apply(a)
	seq := r.clock.Next()

	entry, err := NewEntry(r.sessionID, seq, a, snap)
	if err != nil {
		return snap, fmt.Errorf("record action %s: %w", a, err)
	}
	if err := r.store.WriteEntry(ctx, entry); err != nil {
		return snap, fmt.Errorf("record action %s: %w", a, err)
	}

	slog.Debug("tape entry recorded",
		"session_id", r.sessionID,
		"seq", seq,
		"action", a.String(),
		"display", snap.Display,
	)
	return snap, nil
}
