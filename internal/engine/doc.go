// Package engine implements the tally calculator core.
//
// The engine is a single-line four-function calculator state machine. It
// converts discrete user actions (digit presses, operator presses, equals,
// percent, sign toggle, backspace, clear) into a running numeric state and
// a formatted display, reproducing the behavior of a physical calculator:
// left-to-right operator chaining with no precedence, repeated-equals
// replay of the last operation, percent-of-left-operand semantics, and a
// latched Error state on invalid computes.
//
// ARCHITECTURE:
//
// Three states:
//   - Entry: normal digit entry, no operator pending
//   - PendingOperator: operator chosen, awaiting the right operand
//   - Error: latched after a failed compute (divide by zero, non-finite)
//
// Every action operation is synchronous and total. A failed compute inside
// SelectOperator or EvaluateEquals is converted into the Error transition,
// never surfaced to the caller. Error is exited only by EnterDigit,
// EnterDecimal, or Clear; all three behave as if freshly cleared.
//
// CRITICAL: the display string is both the in-progress entry buffer and the
// most recent formatted result. All numeric reads of the display go through
// ParseDisplay, which maps the transient states "", "-", "." (and anything
// else unparseable) to 0. This dual use is deliberate - it mirrors how a
// real calculator's single register behaves.
//
// The engine is a pure library: no I/O, no logging, no goroutines. Callers
// (CLI, REPL, harness, tape recorder) serialize action dispatch themselves;
// one engine instance must not be driven from multiple goroutines.
package engine
