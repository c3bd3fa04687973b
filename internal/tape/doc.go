// Package tape records calculator sessions as an append-only action
// journal with content-addressed integrity and deterministic replay
// verification.
//
// ARCHITECTURE:
//
// Every action applied through a Recorder is stamped with a monotonic seq
// from a logical clock and journaled together with the snapshot the engine
// produced, so any session can later be replayed through a fresh engine and
// verified step for step:
//   - integrity: each stored entry's content hash still matches its fields
//   - determinism: a fresh engine fed the same actions produces the same
//     snapshots at every seq
//
// Entries are identified by SHA-256 over their canonical JSON with a domain
// prefix, so the same (session, seq, action, snapshot) always hashes to the
// same id and duplicate writes are idempotent.
//
// CRITICAL: the engine never reads the tape to restore user-visible state.
// A new session always starts from a cleared engine; the tape exists for
// reproduction, conformance, and audit - not history persistence.
//
// Storage is SQLite (WAL mode, single-writer connection) with an embedded
// schema and user_version migrations.
package tape
