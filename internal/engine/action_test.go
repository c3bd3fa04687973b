package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_String(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Digit(0), "digit:0"},
		{Digit(7), "digit:7"},
		{Decimal(), "decimal"},
		{Operator(OpAdd), "operator:add"},
		{Operator(OpDivide), "operator:divide"},
		{Equals(), "equals"},
		{Clear(), "clear"},
		{ToggleSign(), "toggle_sign"},
		{Percent(), "percent"},
		{Backspace(), "backspace"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.String())
		})
	}
}

func TestParseAction_RoundTrip(t *testing.T) {
	actions := []Action{
		Digit(0), Digit(9), Decimal(),
		Operator(OpAdd), Operator(OpSubtract), Operator(OpMultiply), Operator(OpDivide),
		Equals(), Clear(), ToggleSign(), Percent(), Backspace(),
	}

	for _, a := range actions {
		t.Run(a.String(), func(t *testing.T) {
			parsed, err := ParseAction(a.String())
			require.NoError(t, err)
			assert.Equal(t, a, parsed)
		})
	}
}

func TestParseAction_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"bogus",
		"digit",
		"digit:x",
		"digit:10",
		"digit:-1",
		"operator",
		"operator:modulo",
		"equals:1",
		"clear:now",
	}

	for _, s := range invalid {
		t.Run(s, func(t *testing.T) {
			_, err := ParseAction(s)
			assert.Error(t, err)
		})
	}
}

func TestParseOp_RoundTrip(t *testing.T) {
	for _, op := range []Op{OpAdd, OpSubtract, OpMultiply, OpDivide} {
		parsed, err := ParseOp(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
		assert.True(t, parsed.Valid())
	}
}

func TestOp_Symbol(t *testing.T) {
	assert.Equal(t, "+", OpAdd.Symbol())
	assert.Equal(t, "-", OpSubtract.Symbol())
	assert.Equal(t, "×", OpMultiply.Symbol())
	assert.Equal(t, "÷", OpDivide.Symbol())
	assert.Equal(t, "?", Op(0).Symbol())
}
