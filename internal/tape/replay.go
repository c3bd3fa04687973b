package tape

import (
	"context"
	"fmt"

	"github.com/roach88/tally/internal/engine"
)

// Divergence describes one mismatch found while verifying a session.
type Divergence struct {
	Seq   int64  `json:"seq"`
	Field string `json:"field"` // "entry_id", "display", "secondary", "is_error"
	Want  string `json:"want"`  // recorded value
	Got   string `json:"got"`   // recomputed value
}

// ReplayResult reports the outcome of verifying one session.
type ReplayResult struct {
	SessionID     string       `json:"session_id"`
	Entries       int          `json:"entries"`
	IntegrityOK   bool         `json:"integrity_ok"`
	DeterminismOK bool         `json:"determinism_ok"`
	Divergences   []Divergence `json:"divergences,omitempty"`
}

// OK reports whether the session verified cleanly.
func (r *ReplayResult) OK() bool {
	return r.IntegrityOK && r.DeterminismOK
}

// ReplaySession re-applies a recorded session to a fresh engine and
// verifies two properties for every entry, in seq order:
//
//  1. integrity - the recomputed content hash of the stored entry fields
//     matches the stored entry id (the tape was not modified), and
//  2. determinism - the fresh engine's snapshot after applying the entry's
//     action matches the recorded snapshot (the engine's behavior has not
//     drifted since the session was recorded).
//
// All entries are checked even after the first divergence, so the result
// lists every mismatched step.
func ReplaySession(ctx context.Context, st *Store, sessionID string) (*ReplayResult, error) {
	entries, err := st.ReadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("replay session: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("replay session: session %q has no entries", sessionID)
	}

	result := &ReplayResult{
		SessionID:     sessionID,
		Entries:       len(entries),
		IntegrityOK:   true,
		DeterminismOK: true,
	}

	eng := engine.New()
	for _, e := range entries {
		// Integrity: recompute the content hash over the stored fields.
		wantID, err := EntryID(e.SessionID, e.Seq, e.Action, e.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("replay session: seq %d: %w", e.Seq, err)
		}
		if wantID != e.ID {
			result.IntegrityOK = false
			result.Divergences = append(result.Divergences, Divergence{
				Seq: e.Seq, Field: "entry_id", Want: e.ID, Got: wantID,
			})
		}

		// Determinism: a fresh engine must reproduce the recorded snapshot.
		snap := eng.Apply(e.Action)
		if snap.Display != e.Display {
			result.DeterminismOK = false
			result.Divergences = append(result.Divergences, Divergence{
				Seq: e.Seq, Field: "display", Want: e.Display, Got: snap.Display,
			})
		}
		if snap.SecondaryLine != e.Secondary {
			result.DeterminismOK = false
			result.Divergences = append(result.Divergences, Divergence{
				Seq: e.Seq, Field: "secondary", Want: e.Secondary, Got: snap.SecondaryLine,
			})
		}
		if snap.IsError != e.IsError {
			result.DeterminismOK = false
			result.Divergences = append(result.Divergences, Divergence{
				Seq: e.Seq, Field: "is_error",
				Want: fmt.Sprintf("%t", e.IsError), Got: fmt.Sprintf("%t", snap.IsError),
			})
		}
	}

	return result, nil
}

// ReplayAll verifies every session in the store.
func ReplayAll(ctx context.Context, st *Store) ([]*ReplayResult, error) {
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("replay all: %w", err)
	}

	results := make([]*ReplayResult, 0, len(sessions))
	for _, info := range sessions {
		if info.EntryCount == 0 {
			continue
		}
		r, err := ReplaySession(ctx, st, info.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
