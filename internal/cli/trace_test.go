package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_Text(t *testing.T) {
	out, err := execute(t, "trace", "5", "+", "3", "=", "=", "=")
	require.NoError(t, err)

	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, "digit:5")
	assert.Contains(t, out, "operator:add")
	assert.Contains(t, out, "equals")
	// Repeated equals replays +3: 8, 11, 14.
	assert.Contains(t, out, "11")
	assert.Contains(t, out, "14")
}

func TestTrace_ErrorMarked(t *testing.T) {
	out, err := execute(t, "trace", "1", "/", "0", "=")
	require.NoError(t, err)
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "!")
}

func TestTrace_JSONFormat(t *testing.T) {
	out, err := execute(t, "trace", "--format", "json", "200", "+", "10", "%", "=")
	require.NoError(t, err)

	var response struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)

	// 200 expands to three digit presses: 3 + 1 + 2 + 1 + 1 = 8 steps.
	require.Len(t, response.Data.Steps, 8)
	assert.Equal(t, "220", response.Data.Display)
	assert.False(t, response.Data.IsError)

	first := response.Data.Steps[0]
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, "200", first.Key)
	assert.Equal(t, "digit:2", first.Action)

	percent := response.Data.Steps[6]
	assert.Equal(t, "%", percent.Key)
	assert.Equal(t, "20", percent.Display)
}
