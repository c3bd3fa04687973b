package tape

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/tally/internal/engine"
)

// DomainEntry is the domain prefix for entry content hashes.
// Version suffix enables future algorithm migration.
const DomainEntry = "tally/entry/v1"

// Entry is one journaled action and the snapshot it produced.
type Entry struct {
	// ID is the content-addressed identity of the entry: SHA-256 over the
	// canonical JSON of the remaining fields, with domain separation.
	ID string

	SessionID string
	Seq       int64
	Action    engine.Action

	// Observed snapshot after applying Action.
	Display   string
	Secondary string
	IsError   bool
}

// Snapshot reconstructs the engine snapshot recorded in the entry.
func (e Entry) Snapshot() engine.Snapshot {
	return engine.Snapshot{
		Display:       e.Display,
		SecondaryLine: e.Secondary,
		IsError:       e.IsError,
	}
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EntryID computes the content-addressed ID for a journal entry.
// The ID is stable across restarts and replays given the same fields.
func EntryID(sessionID string, seq int64, action engine.Action, snap engine.Snapshot) (string, error) {
	obj := map[string]any{
		"session_id": sessionID,
		"seq":        seq,
		"action":     action.String(),
		"display":    snap.Display,
		"secondary":  snap.SecondaryLine,
		"is_error":   snap.IsError,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("EntryID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEntry, canonical), nil
}

// NewEntry builds a journal entry with its content hash filled in.
func NewEntry(sessionID string, seq int64, action engine.Action, snap engine.Snapshot) (Entry, error) {
	id, err := EntryID(sessionID, seq, action, snap)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:        id,
		SessionID: sessionID,
		Seq:       seq,
		Action:    action,
		Display:   snap.Display,
		Secondary: snap.SecondaryLine,
		IsError:   snap.IsError,
	}, nil
}
