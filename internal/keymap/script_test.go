package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/engine"
)

func TestParseScript(t *testing.T) {
	km := Default()

	tests := []struct {
		name   string
		script string
		want   []engine.Action
	}{
		{
			"single keys",
			"2 + 3 =",
			[]engine.Action{
				engine.Digit(2), engine.Operator(engine.OpAdd), engine.Digit(3), engine.Equals(),
			},
		},
		{
			"numeral token expands",
			"12.5",
			[]engine.Action{
				engine.Digit(1), engine.Digit(2), engine.Decimal(), engine.Digit(5),
			},
		},
		{
			"mixed script",
			"200 + 10 % =",
			[]engine.Action{
				engine.Digit(2), engine.Digit(0), engine.Digit(0),
				engine.Operator(engine.OpAdd),
				engine.Digit(1), engine.Digit(0),
				engine.Percent(), engine.Equals(),
			},
		},
		{
			"named keys",
			"5 enter esc",
			[]engine.Action{
				engine.Digit(5), engine.Equals(), engine.Clear(),
			},
		},
		{
			"lone decimal point is a key",
			".",
			[]engine.Action{engine.Decimal()},
		},
		{
			"empty script",
			"   ",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScript(tt.script, km)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScript_UnknownToken(t *testing.T) {
	km := Default()

	_, err := ParseScript("2 + what", km)
	require.Error(t, err)

	var uke *UnknownKeyError
	require.ErrorAs(t, err, &uke)
	assert.Equal(t, "what", uke.Key)
}

func TestParseScript_NoExpressionParsing(t *testing.T) {
	// Parenthesized expressions are not a thing: "(" is just an unknown key.
	_, err := ParseScript("( 2 + 3 )", Default())
	assert.Error(t, err)
}

func TestParseScript_MalformedNumeral(t *testing.T) {
	_, err := ParseScript("1.2.3", Default())
	assert.Error(t, err, "two decimal points is not a numeral token")
}

func TestIsNumeral(t *testing.T) {
	assert.True(t, isNumeral("12"))
	assert.True(t, isNumeral("12.5"))
	assert.True(t, isNumeral("0.5"))
	assert.True(t, isNumeral("5."))
	assert.False(t, isNumeral("."))
	assert.False(t, isNumeral(""))
	assert.False(t, isNumeral("1.2.3"))
	assert.False(t, isNumeral("-5"))
	assert.False(t, isNumeral("1a"))
}
