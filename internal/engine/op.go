package engine

import "fmt"

// Op identifies one of the four binary operators.
// The zero value is invalid; use ParseOp to decode stored operator names.
type Op int

const (
	OpAdd Op = iota + 1
	OpSubtract
	OpMultiply
	OpDivide
)

// String returns the stable operator name used in action encodings and
// the tape. Not the display glyph - see Symbol.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Symbol returns the glyph shown on the secondary display line.
func (o Op) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	default:
		return "?"
	}
}

// Valid reports whether o is one of the four operators.
func (o Op) Valid() bool {
	return o >= OpAdd && o <= OpDivide
}

// ParseOp decodes an operator name produced by Op.String.
func ParseOp(s string) (Op, error) {
	switch s {
	case "add":
		return OpAdd, nil
	case "subtract":
		return OpSubtract, nil
	case "multiply":
		return OpMultiply, nil
	case "divide":
		return OpDivide, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", s)
	}
}
