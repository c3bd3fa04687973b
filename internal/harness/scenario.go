package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario for the calculator engine.
// Exactly one of Keys or Steps describes the input sequence.
type Scenario struct {
	// Name uniquely identifies this scenario (also names its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Keys is a compact whitespace-separated key script ("200 + 10 % =").
	Keys string `yaml:"keys,omitempty"`

	// Steps is the long form: one key token per step, each with an
	// optional expectation checked right after the step is applied.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions validate the final snapshot and the display trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one key press with an optional expectation.
type Step struct {
	// Press is a single key token (may be a numeral like "12.5", which
	// expands to its digit presses before the expectation is checked).
	Press string `yaml:"press"`

	// Expect is a subset match on the snapshot after the press.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is a partial snapshot expectation. Only the fields present in the
// YAML are checked, so `display: "0"` and `error: false` can be asserted
// independently.
type Expect struct {
	Display   *string `yaml:"display,omitempty"`
	Secondary *string `yaml:"secondary,omitempty"`
	Error     *bool   `yaml:"error,omitempty"`
}

// Assertion validates the final state or the trace.
type Assertion struct {
	// Type is one of final_display, final_secondary, final_error,
	// display_trace.
	Type string `yaml:"type"`

	// Display is the expected final display (final_display).
	Display string `yaml:"display,omitempty"`

	// Secondary is the expected final secondary line (final_secondary).
	Secondary string `yaml:"secondary,omitempty"`

	// Error is the expected final error flag (final_error).
	Error bool `yaml:"error,omitempty"`

	// Trace is the expected ordered per-step display values (display_trace).
	Trace []string `yaml:"trace,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalDisplay   = "final_display"
	AssertFinalSecondary = "final_secondary"
	AssertFinalError     = "final_error"
	AssertDisplayTrace   = "display_trace"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs
	// "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	hasKeys := s.Keys != ""
	hasSteps := len(s.Steps) > 0
	if hasKeys == hasSteps {
		return fmt.Errorf("exactly one of keys or steps is required")
	}

	for i, step := range s.Steps {
		if step.Press == "" {
			return fmt.Errorf("steps[%d]: press is required", i)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertFinalDisplay:
		if a.Display == "" {
			return fmt.Errorf("assertions[%d]: display is required for final_display", index)
		}
	case AssertFinalSecondary, AssertFinalError:
		// secondary may legitimately be empty (asserting it cleared) and
		// error defaults to false; nothing further to require.
	case AssertDisplayTrace:
		if len(a.Trace) == 0 {
			return fmt.Errorf("assertions[%d]: trace list is required for display_trace", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
