package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind identifies one of the eight abstract user actions.
type ActionKind string

const (
	ActionDigit      ActionKind = "digit"
	ActionDecimal    ActionKind = "decimal"
	ActionOperator   ActionKind = "operator"
	ActionEquals     ActionKind = "equals"
	ActionClear      ActionKind = "clear"
	ActionToggleSign ActionKind = "toggle_sign"
	ActionPercent    ActionKind = "percent"
	ActionBackspace  ActionKind = "backspace"
)

// Action is one discrete user action as a value type.
// Digit carries the pressed digit for ActionDigit; Op carries the operator
// for ActionOperator. Both are zero otherwise.
type Action struct {
	Kind  ActionKind
	Digit int
	Op    Op
}

// Constructors for the eight action kinds.

func Digit(d int) Action      { return Action{Kind: ActionDigit, Digit: d} }
func Decimal() Action         { return Action{Kind: ActionDecimal} }
func Operator(op Op) Action   { return Action{Kind: ActionOperator, Op: op} }
func Equals() Action          { return Action{Kind: ActionEquals} }
func Clear() Action           { return Action{Kind: ActionClear} }
func ToggleSign() Action      { return Action{Kind: ActionToggleSign} }
func Percent() Action         { return Action{Kind: ActionPercent} }
func Backspace() Action       { return Action{Kind: ActionBackspace} }

// String returns the stable wire encoding of the action: the kind name,
// plus a colon-separated payload for digit and operator actions.
//
// Examples: "digit:7", "operator:multiply", "equals".
//
// This encoding is what the tape journals and the trace prints; ParseAction
// is its exact inverse.
func (a Action) String() string {
	switch a.Kind {
	case ActionDigit:
		return fmt.Sprintf("digit:%d", a.Digit)
	case ActionOperator:
		return fmt.Sprintf("operator:%s", a.Op)
	default:
		return string(a.Kind)
	}
}

// ParseAction decodes an action from its String encoding.
func ParseAction(s string) (Action, error) {
	kind, payload, hasPayload := strings.Cut(s, ":")

	switch ActionKind(kind) {
	case ActionDigit:
		if !hasPayload {
			return Action{}, fmt.Errorf("digit action %q: missing digit", s)
		}
		d, err := strconv.Atoi(payload)
		if err != nil || d < 0 || d > 9 {
			return Action{}, fmt.Errorf("digit action %q: digit must be 0-9", s)
		}
		return Digit(d), nil

	case ActionOperator:
		if !hasPayload {
			return Action{}, fmt.Errorf("operator action %q: missing operator", s)
		}
		op, err := ParseOp(payload)
		if err != nil {
			return Action{}, fmt.Errorf("operator action %q: %w", s, err)
		}
		return Operator(op), nil

	case ActionDecimal, ActionEquals, ActionClear, ActionToggleSign, ActionPercent, ActionBackspace:
		if hasPayload {
			return Action{}, fmt.Errorf("action %q: unexpected payload", s)
		}
		return Action{Kind: ActionKind(kind)}, nil

	default:
		return Action{}, fmt.Errorf("unknown action %q", s)
	}
}
