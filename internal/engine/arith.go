package engine

import (
	"errors"
	"fmt"
	"math"
)

// ComputeErrorCode categorizes arithmetic failures.
type ComputeErrorCode string

const (
	// ErrCodeDivideByZero indicates division with a zero right operand.
	ErrCodeDivideByZero ComputeErrorCode = "DIVIDE_BY_ZERO"

	// ErrCodeNonFinite indicates a non-finite operand or result (overflow,
	// NaN propagation).
	ErrCodeNonFinite ComputeErrorCode = "NON_FINITE"
)

// ComputeError reports a failed binary operation. At the engine boundary
// both codes collapse into the single Error state; the distinction exists
// for diagnostics only.
type ComputeError struct {
	Code  ComputeErrorCode
	Op    Op
	Left  float64
	Right float64
}

// Error implements the error interface.
func (e *ComputeError) Error() string {
	return fmt.Sprintf("%s: %v %s %v", e.Code, e.Left, e.Op, e.Right)
}

// IsDivideByZero returns true if the error is a divide-by-zero compute error.
// Uses errors.As to handle wrapped errors.
func IsDivideByZero(err error) bool {
	var ce *ComputeError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeDivideByZero
	}
	return false
}

// applyOp performs one binary operation with explicit failure.
//
// Division by zero is checked on the raw right operand before dividing.
// Any non-finite result (or operand) fails with ErrCodeNonFinite.
func applyOp(a float64, op Op, b float64) (float64, error) {
	if op == OpDivide && b == 0 {
		return 0, &ComputeError{Code: ErrCodeDivideByZero, Op: op, Left: a, Right: b}
	}

	var r float64
	switch op {
	case OpAdd:
		r = a + b
	case OpSubtract:
		r = a - b
	case OpMultiply:
		r = a * b
	case OpDivide:
		r = a / b
	default:
		return 0, fmt.Errorf("invalid operator %v", op)
	}

	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, &ComputeError{Code: ErrCodeNonFinite, Op: op, Left: a, Right: b}
	}
	return r, nil
}
