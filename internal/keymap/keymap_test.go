package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/engine"
)

func TestDefault_SpecBindings(t *testing.T) {
	km := Default()

	tests := []struct {
		key  string
		want engine.Action
	}{
		{"0", engine.Digit(0)},
		{"9", engine.Digit(9)},
		{".", engine.Decimal()},
		{"+", engine.Operator(engine.OpAdd)},
		{"-", engine.Operator(engine.OpSubtract)},
		{"*", engine.Operator(engine.OpMultiply)},
		{"x", engine.Operator(engine.OpMultiply)},
		{"/", engine.Operator(engine.OpDivide)},
		{"%", engine.Percent()},
		{"=", engine.Equals()},
		{"enter", engine.Equals()},
		{"escape", engine.Clear()},
		{"esc", engine.Clear()},
		{"backspace", engine.Backspace()},
		{"bs", engine.Backspace()},
		{"n", engine.ToggleSign()},
		{"±", engine.ToggleSign()},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := km.Resolve(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_NamedKeysCaseInsensitive(t *testing.T) {
	km := Default()

	for _, key := range []string{"Enter", "ENTER", "Escape", "Backspace"} {
		_, err := km.Resolve(key)
		assert.NoError(t, err, "key %q should resolve", key)
	}

	// Single-character keys are exact: "X" is not multiply.
	_, err := km.Resolve("X")
	assert.Error(t, err)
}

func TestResolve_UnknownKey(t *testing.T) {
	km := Default()

	_, err := km.Resolve("q")
	require.Error(t, err)

	var uke *UnknownKeyError
	require.ErrorAs(t, err, &uke)
	assert.Equal(t, "q", uke.Key)
}

func TestBindings_ReturnsCopy(t *testing.T) {
	km := Default()

	b := km.Bindings()
	b["+"] = engine.Clear()

	got, err := km.Resolve("+")
	require.NoError(t, err)
	assert.Equal(t, engine.Operator(engine.OpAdd), got, "mutating the copy must not affect the keymap")
}

func TestKeys_Sorted(t *testing.T) {
	keys := Default().Keys()
	require.NotEmpty(t, keys)
	for i := 1; i < len(keys); i++ {
		assert.LessOrEqual(t, keys[i-1], keys[i])
	}
}
