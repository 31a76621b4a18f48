package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCommand(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"b": [1, 2.5, null], "a": true}`), 0644))

	stdout, err := execRoot(t, "normalize", in)
	require.NoError(t, err)

	expected := `{
    "a": true,
    "b": [
        1,
        2.5,
        null
    ]
}
`
	assert.Equal(t, expected, stdout)
}

func TestNormalizeCommandToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"00": 5, "11": 5}`), 0644))

	_, err := execRoot(t, "normalize", in, "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"00\": 5,\n    \"11\": 5\n}", string(data))
}

func TestNormalizeCommandMissingInput(t *testing.T) {
	stdout, err := execRoot(t, "normalize", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E007]: cannot read input")
}

func TestNormalizeErrorEnvelopeJSON(t *testing.T) {
	stdout, err := execRoot(t, "--format", "json", "normalize", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInput, resp.Error.Code)
}

func TestNormalizeCommandInvalidJSON(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(in, []byte("{broken"), 0644))

	_, err := execRoot(t, "normalize", in)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not valid JSON")
}
