package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_ChainedExpression(t *testing.T) {
	out, err := execute(t, "eval", "2", "+", "3", "*", "4", "=")
	require.NoError(t, err)
	assert.Equal(t, "20\n", out)
}

func TestEval_PercentOfOperand(t *testing.T) {
	out, err := execute(t, "eval", "200", "+", "10", "%", "=")
	require.NoError(t, err)
	assert.Equal(t, "220\n", out)
}

func TestEval_DivideByZero(t *testing.T) {
	out, err := execute(t, "eval", "8", "/", "0", "=")
	require.NoError(t, err)
	assert.Equal(t, "Error\n", out)
}

func TestEval_JSONFormat(t *testing.T) {
	out, err := execute(t, "eval", "--format", "json", "5", "+", "3", "=", "=")
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)

	data, ok := response.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "11", data["display"])
	assert.Equal(t, false, data["is_error"])
}

func TestEval_UnknownKey(t *testing.T) {
	_, err := execute(t, "eval", "2", "@", "2", "=")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "@")
}

func TestEval_SessionRequiresTape(t *testing.T) {
	_, err := execute(t, "eval", "--session", "demo", "1", "+", "1", "=")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--tape")
}

func TestEval_RecordsAndResumes(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tally.db")

	out, err := execute(t, "eval", "--tape", db, "--session", "demo", "2", "+", "3")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	// The named session resumes with prev=2 and a pending add.
	out, err = execute(t, "eval", "--tape", db, "--session", "demo", "=")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	// Sessions listing sees the combined entry count.
	out, err = execute(t, "sessions", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "cli")

	// The recorded tape verifies clean.
	out, err = execute(t, "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All sessions verified")
}

func TestEval_FreshSessionGetsGeneratedID(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tally.db")

	out, err := execute(t, "eval", "--format", "json", "--tape", db, "1", "+", "1", "=")
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	data, ok := response.Data.(map[string]any)
	require.True(t, ok)

	sessionID, ok := data["session_id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, sessionID)
	// UUID shape
	assert.Len(t, strings.Split(sessionID, "-"), 5)
}
