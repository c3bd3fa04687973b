package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/keymap"
	"github.com/roach88/tally/internal/tape"
	"github.com/roach88/tally/internal/testutil"
)

// TraceStep is one applied action in the scenario trace.
type TraceStep struct {
	Seq       int64  `json:"seq"`
	Key       string `json:"key"`    // the scenario token that produced the action
	Action    string `json:"action"` // wire encoding of the action
	Display   string `json:"display"`
	Secondary string `json:"secondary"`
	IsError   bool   `json:"is_error"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: all step expectations and assertions
	// held.
	Pass bool `json:"pass"`

	// Trace lists every applied action in order. Numeral tokens contribute
	// one step per expanded press, all tagged with the originating token.
	Trace []TraceStep `json:"trace"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run executes a scenario: a fresh engine, an in-memory tape store with a
// fixed session id, and the default keymap. Deterministic by construction,
// so repeated runs produce identical traces.
//
// Returns an error only for setup problems (bad scenario, unknown key);
// behavioral mismatches are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := tape.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("harness: open tape: %w", err)
	}
	defer st.Close()

	sessionID := "scenario/" + scenario.Name
	if err := st.CreateSession(ctx, sessionID, "harness"); err != nil {
		return nil, fmt.Errorf("harness: %w", err)
	}

	eng := engine.New()
	rec := tape.NewRecorder(eng, st, testutil.NewDeterministicClock(), sessionID)
	km := keymap.Default()

	steps := scenario.Steps
	if scenario.Keys != "" {
		for _, tok := range strings.Fields(scenario.Keys) {
			steps = append(steps, Step{Press: tok})
		}
	}

	result := &Result{Pass: true}
	var last engine.Snapshot

	for i, step := range steps {
		actions, err := keymap.ExpandToken(step.Press, km)
		if err != nil {
			return nil, fmt.Errorf("harness: step %d: %w", i, err)
		}

		for _, a := range actions {
			snap, err := rec.Apply(ctx, a)
			if err != nil {
				return nil, fmt.Errorf("harness: step %d: %w", i, err)
			}
			last = snap
			result.Trace = append(result.Trace, TraceStep{
				Seq:       int64(len(result.Trace) + 1),
				Key:       step.Press,
				Action:    a.String(),
				Display:   snap.Display,
				Secondary: snap.SecondaryLine,
				IsError:   snap.IsError,
			})
		}

		checkExpect(result, i, step, last)
	}

	for i, a := range scenario.Assertions {
		checkAssertion(result, i, a, last)
	}

	// The tape must verify even in passing runs; a divergence here means
	// the recorder and the engine disagree, which no assertion would catch.
	replay, err := tape.ReplaySession(ctx, st, sessionID)
	if err != nil {
		return nil, fmt.Errorf("harness: verify tape: %w", err)
	}
	if !replay.OK() {
		result.AddError(fmt.Sprintf("tape verification failed: %d divergences", len(replay.Divergences)))
	}

	return result, nil
}

func checkExpect(result *Result, index int, step Step, snap engine.Snapshot) {
	if step.Expect == nil {
		return
	}
	e := step.Expect
	if e.Display != nil && snap.Display != *e.Display {
		result.AddError(fmt.Sprintf("step %d (%s): display = %q, want %q", index, step.Press, snap.Display, *e.Display))
	}
	if e.Secondary != nil && snap.SecondaryLine != *e.Secondary {
		result.AddError(fmt.Sprintf("step %d (%s): secondary = %q, want %q", index, step.Press, snap.SecondaryLine, *e.Secondary))
	}
	if e.Error != nil && snap.IsError != *e.Error {
		result.AddError(fmt.Sprintf("step %d (%s): is_error = %t, want %t", index, step.Press, snap.IsError, *e.Error))
	}
}

func checkAssertion(result *Result, index int, a Assertion, last engine.Snapshot) {
	switch a.Type {
	case AssertFinalDisplay:
		if last.Display != a.Display {
			result.AddError(fmt.Sprintf("assertions[%d]: final display = %q, want %q", index, last.Display, a.Display))
		}
	case AssertFinalSecondary:
		if last.SecondaryLine != a.Secondary {
			result.AddError(fmt.Sprintf("assertions[%d]: final secondary = %q, want %q", index, last.SecondaryLine, a.Secondary))
		}
	case AssertFinalError:
		if last.IsError != a.Error {
			result.AddError(fmt.Sprintf("assertions[%d]: final is_error = %t, want %t", index, last.IsError, a.Error))
		}
	case AssertDisplayTrace:
		if len(a.Trace) != len(result.Trace) {
			result.AddError(fmt.Sprintf("assertions[%d]: trace has %d steps, want %d", index, len(result.Trace), len(a.Trace)))
			return
		}
		for i, want := range a.Trace {
			if result.Trace[i].Display != want {
				result.AddError(fmt.Sprintf("assertions[%d]: trace[%d] display = %q, want %q", index, i, result.Trace[i].Display, want))
			}
		}
	}
}

// RunFile loads and runs a scenario file.
func RunFile(path string) (*Result, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return Run(scenario)
}
