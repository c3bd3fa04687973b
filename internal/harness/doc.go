// Package harness runs YAML conformance scenarios against the calculator
// engine.
//
// A scenario presses a sequence of keys (either a compact key script or a
// list of steps with per-step expectations) through a recorded tape
// session and then evaluates assertions over the final snapshot and the
// per-step display trace. Scenario execution is fully deterministic: a
// fixed session id, a resettable logical clock, and an in-memory tape
// store, so the same scenario always produces byte-identical traces.
//
// Golden trace files (testdata/golden/<name>.golden) pin the canonical
// JSON serialization of a scenario's trace; regenerate with -update.
package harness
