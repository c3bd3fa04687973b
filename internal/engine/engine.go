package engine

import "strings"

// Snapshot is the read-only view a renderer needs after every action.
type Snapshot struct {
	Display       string `json:"display"`
	SecondaryLine string `json:"secondary_line"`
	IsError       bool   `json:"is_error"`
}

// Engine owns all calculator state and exposes one operation per user
// action. All operations are synchronous and total: they never fail, and
// they always leave the engine in a valid state.
//
// INVARIANTS:
//   - display is a valid partial-or-complete decimal numeral or ErrorMarker;
//     never empty.
//   - hasPrev is true iff pendingOp is set, or transiently right after a
//     completed equals (the result is reused as the next left operand).
//   - lastOp memory is set only by a successful equals with a pending
//     operator, and cleared whenever a new operator starts a chain.
//   - secondary is empty whenever no operator is pending.
//
// Not safe for concurrent use; the caller serializes action dispatch.
type Engine struct {
	display   string
	prev      float64 // left operand of the pending operation
	hasPrev   bool
	pendingOp Op // zero when no operator is pending

	// Repeated-equals memory: the operator and right operand of the most
	// recently completed equals.
	lastOp    Op
	lastRight float64
	hasLast   bool

	secondary     string
	overwriteNext bool
	errorLatched  bool
}

// New constructs a cleared engine showing "0".
func New() *Engine {
	return &Engine{display: "0"}
}

// Snapshot returns the current display state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Display:       e.display,
		SecondaryLine: e.secondary,
		IsError:       e.errorLatched,
	}
}

// Apply dispatches one action to the matching operation and returns the
// resulting snapshot. Unknown or malformed actions are no-ops.
func (e *Engine) Apply(a Action) Snapshot {
	switch a.Kind {
	case ActionDigit:
		e.EnterDigit(a.Digit)
	case ActionDecimal:
		e.EnterDecimal()
	case ActionOperator:
		e.SelectOperator(a.Op)
	case ActionEquals:
		e.EvaluateEquals()
	case ActionClear:
		e.Clear()
	case ActionToggleSign:
		e.ToggleSign()
	case ActionPercent:
		e.ApplyPercent()
	case ActionBackspace:
		e.Backspace()
	}
	return e.Snapshot()
}

// current returns the numeric value of the display.
func (e *Engine) current() float64 {
	return ParseDisplay(e.display)
}

// reset restores every field to its constructed value.
func (e *Engine) reset() {
	*e = Engine{display: "0"}
}

// EnterDigit appends digit d (0-9) to the display, or starts a fresh entry
// when the overwrite flag is set. Recovers from the Error state as if
// cleared. Out-of-range digits are ignored.
func (e *Engine) EnterDigit(d int) {
	if d < 0 || d > 9 {
		return
	}
	digit := string(rune('0' + d))

	if e.errorLatched {
		e.reset()
		e.display = digit
		return
	}

	switch {
	case e.overwriteNext:
		e.display = digit
		e.overwriteNext = false
	case e.display == "0":
		e.display = digit
	case e.display == "-0":
		// Keep the pre-typed sign but drop the placeholder zero.
		e.display = "-" + digit
	default:
		e.display += digit
	}
}

// EnterDecimal starts or continues a fractional entry. A display that
// already contains a decimal point is left unchanged. Recovers from the
// Error state as if cleared.
func (e *Engine) EnterDecimal() {
	if e.errorLatched {
		e.reset()
		e.display = "0."
		return
	}

	switch {
	case e.overwriteNext:
		e.display = "0."
		e.overwriteNext = false
	case strings.Contains(e.display, "."):
		// no-op: one decimal point per numeral
	case e.display == "" || e.display == "-":
		e.display = "0."
	default:
		e.display += "."
	}
}

// ToggleSign toggles the leading minus sign on the display. The zero
// displays "0"/"0." become "-0"/"-0." so the sign can be chosen before any
// digits are typed. No-op while the error latch is set.
func (e *Engine) ToggleSign() {
	if e.errorLatched {
		return
	}
	if strings.HasPrefix(e.display, "-") {
		e.display = strings.TrimPrefix(e.display, "-")
	} else {
		e.display = "-" + e.display
	}
}

// Backspace drops the last typed character. A display about to be
// overwritten, a single character, or a signed single digit all collapse
// to "0" - never to an empty string. The overwrite flag is left set, so
// with an operator pending the right operand still counts as untyped and
// a following operator retargets rather than computing. While the error
// latch is set, Backspace behaves exactly like Clear.
func (e *Engine) Backspace() {
	if e.errorLatched {
		e.Clear()
		return
	}

	switch {
	case e.overwriteNext:
		e.display = "0"
	case len(e.display) <= 1:
		e.display = "0"
	case len(e.display) == 2 && strings.HasPrefix(e.display, "-"):
		e.display = "0"
	default:
		e.display = e.display[:len(e.display)-1]
	}
}

// Clear resets every field to its initial value, regardless of error state.
func (e *Engine) Clear() {
	e.reset()
}

// SelectOperator chooses the pending binary operator.
//
// Pressing a second operator before typing a right operand retargets the
// pending operator without recomputing (last-pressed wins). With a right
// operand entered, the pending chain is computed first and its result
// becomes the new left operand. No-op while the error latch is set.
func (e *Engine) SelectOperator(op Op) {
	if e.errorLatched || !op.Valid() {
		return
	}

	switch {
	case e.pendingOp != 0 && e.overwriteNext:
		// Operator pressed twice in a row: replace, don't recompute.
		e.pendingOp = op
		e.secondary = Format(e.prev) + " " + op.Symbol()

	case e.pendingOp != 0 && e.hasPrev:
		r, err := applyOp(e.prev, e.pendingOp, e.current())
		if err != nil {
			e.enterError()
			return
		}
		f := Format(r)
		e.prev = r
		e.display = f
		e.pendingOp = op
		e.secondary = f + " " + op.Symbol()
		e.overwriteNext = true
		e.hasLast = false // a new chain invalidates repeated-equals memory

	default:
		cur := e.current()
		e.prev = cur
		e.hasPrev = true
		e.pendingOp = op
		e.secondary = Format(cur) + " " + op.Symbol()
		e.overwriteNext = true
		e.hasLast = false
	}
}

// ApplyPercent converts the current entry to a percentage.
//
// With an operator pending the entry is read relative to the left operand
// ("200 + 10 %" shows 20, and equals then yields 220). Without one the
// display is simply divided by 100. The pending operator and left operand
// are left untouched; the percent result becomes the right-operand entry.
// No-op while the error latch is set.
func (e *Engine) ApplyPercent() {
	if e.errorLatched {
		return
	}

	var r float64
	if e.pendingOp != 0 && e.hasPrev {
		r = e.prev * (e.current() / 100)
	} else {
		r = e.current() / 100
	}
	e.display = Format(r)
	e.overwriteNext = true
}

// EvaluateEquals completes the pending operation, or replays the last
// completed operation when equals is pressed repeatedly. No-op while the
// error latch is set.
func (e *Engine) EvaluateEquals() {
	if e.errorLatched {
		return
	}

	switch {
	case e.pendingOp != 0 && e.hasPrev:
		right := e.current()
		r, err := applyOp(e.prev, e.pendingOp, right)
		if err != nil {
			e.enterError()
			return
		}
		e.display = Format(r)
		e.secondary = ""
		e.prev = r // result chains as the next left operand
		e.lastOp = e.pendingOp
		e.lastRight = right
		e.hasLast = true
		e.pendingOp = 0
		e.overwriteNext = true

	case e.hasLast:
		// Repeated equals: re-apply the memorized operation to whatever is
		// currently displayed. The memory survives so another press repeats
		// the same step again.
		r, err := applyOp(e.current(), e.lastOp, e.lastRight)
		if err != nil {
			e.enterError()
			return
		}
		e.display = Format(r)
		e.overwriteNext = true

	default:
		e.overwriteNext = true
	}
}

// enterError latches the Error state: the display shows ErrorMarker and all
// operator, operand, and replay memory is dropped. Terminal until a digit,
// decimal, or clear action.
func (e *Engine) enterError() {
	e.errorLatched = true
	e.display = ErrorMarker
	e.hasPrev = false
	e.pendingOp = 0
	e.secondary = ""
	e.hasLast = false
	e.overwriteNext = true
}
