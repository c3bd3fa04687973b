package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tally/internal/tape"
)

// TraceSnapshot captures the complete trace of a scenario execution.
// Serialized with the tape's canonical marshaler so golden comparison is
// byte-deterministic.
type TraceSnapshot struct {
	ScenarioName string      `json:"scenario_name"`
	Trace        []TraceStep `json:"trace"`
}

// toCanonicalMap converts the snapshot to the map form the canonical
// marshaler accepts (it handles only maps, slices, and primitives).
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, step := range s.Trace {
		traceList[i] = map[string]any{
			"seq":       step.Seq,
			"key":       step.Key,
			"action":    step.Action,
			"display":   step.Display,
			"secondary": step.Secondary,
			"is_error":  step.IsError,
		}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
}

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution fails; trace mismatch fails the
// test via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-computed result's trace against the
// golden file for scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
	}
	traceJSON, err := tape.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
