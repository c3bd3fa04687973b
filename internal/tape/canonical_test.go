package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Primitives(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"empty array", []any{}, "[]"},
		{"array", []any{"a", 1, true}, `["a",1,true]`},
		{"empty object", map[string]any{}, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"seq":        int64(3),
		"action":     "digit:5",
		"display":    "5",
		"is_error":   false,
		"session_id": "s-1",
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"action":"digit:5","display":"5","is_error":false,"seq":3,"session_id":"s-1"}`,
		string(got))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(got))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// e + combining acute (NFD) must hash identically to precomposed é (NFC).
	nfd, err := MarshalCanonical("é")
	require.NoError(t, err)
	nfc, err := MarshalCanonical("é")
	require.NoError(t, err)
	assert.Equal(t, string(nfc), string(nfd))
}

func TestMarshalCanonical_OperatorGlyphs(t *testing.T) {
	// The secondary line carries × and ÷; they must serialize stably.
	got, err := MarshalCanonical("5 ×")
	require.NoError(t, err)
	assert.Equal(t, "\"5 ×\"", string(got))
}

func TestMarshalCanonical_Forbidden(t *testing.T) {
	for name, v := range map[string]any{
		"nil":              nil,
		"float64":          3.14,
		"float32":          float32(1.5),
		"nested float":     map[string]any{"x": 1.5},
		"unsupported type": struct{}{},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := MarshalCanonical(v)
			assert.Error(t, err)
		})
	}
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	obj := map[string]any{
		"b": []any{int64(1), "two", true},
		"a": map[string]any{"nested": "value"},
		"c": "last",
	}

	first, err := MarshalCanonical(obj)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := MarshalCanonical(obj)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}
