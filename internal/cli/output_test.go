package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitFailure, "something failed")
	assert.Equal(t, "something failed", err.Error())
	assert.Equal(t, ExitFailure, err.Code)
	assert.Nil(t, err.Unwrap())
}

func TestWrapExitError(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open tape database", cause)

	assert.Equal(t, "failed to open tape database: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "check failed")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))

	// Wrapped ExitErrors still surface their code.
	wrapped := fmt.Errorf("context: %w", NewExitError(ExitCommandError, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestWriteJSONOK(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONOK(&buf, map[string]string{"display": "9"}))

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Nil(t, response.Error)

	data, ok := response.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "9", data["display"])
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONError(&buf, "E_TEST_FAILED", "2 scenario(s) failed", nil))

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, "E_TEST_FAILED", response.Error.Code)
	assert.Equal(t, "2 scenario(s) failed", response.Error.Message)
}
