package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openqx/qflip/internal/config"
	"github.com/openqx/qflip/internal/history"
)

// clearEnv blanks every qflip environment variable for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{config.EnvBackend, config.EnvEmail, config.EnvTimeout, config.EnvShots, config.EnvSeed, config.EnvQconfig} {
		t.Setenv(env, "")
	}
}

// execRoot runs the root command and returns stdout. Diagnostics and
// logs go to a separate stderr buffer so JSON output stays parseable.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunWritesRecord(t *testing.T) {
	clearEnv(t)
	out := filepath.Join(t.TempDir(), "tmp-ck-timer.json")

	stdout, err := execRoot(t, "run", "--out", out, "--shots", "10", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "COMPLETED")
	assert.Contains(t, stdout, "record written to")

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{"local_qasm_simulator"}, decoded["backends"])
	assert.Equal(t, "N/A", decoded["email"])

	counts, ok := decoded["result"].(map[string]any)
	require.True(t, ok)
	total := 0.0
	for outcome, n := range counts {
		assert.Contains(t, []string{"00", "11"}, outcome)
		total += n.(float64)
	}
	assert.Equal(t, 10.0, total)
}

func TestRunDeterministicOutput(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")

	_, err := execRoot(t, "run", "--out", first, "--shots", "25", "--seed", "7")
	require.NoError(t, err)
	_, err = execRoot(t, "run", "--out", second, "--shots", "25", "--seed", "7")
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunJSONFormat(t *testing.T) {
	clearEnv(t)
	out := filepath.Join(t.TempDir(), "out.json")

	stdout, err := execRoot(t, "--format", "json", "run", "--out", out)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "COMPLETED", data["status"])
	assert.Equal(t, "local_qasm_simulator", data["backend"])
}

func TestRunUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvBackend, "ibmqx4")
	out := filepath.Join(t.TempDir(), "out.json")

	_, err := execRoot(t, "run", "--out", out)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown backend")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunErrorEnvelopeJSON(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvBackend, "ibmqx4")
	out := filepath.Join(t.TempDir(), "out.json")

	stdout, err := execRoot(t, "--format", "json", "run", "--out", out)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBackend, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "backend selection failed")
	assert.Contains(t, resp.Error.Details, "unknown backend")
}

func TestRunErrorCodeText(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvBackend, "ibmqx4")
	out := filepath.Join(t.TempDir(), "out.json")

	stdout, err := execRoot(t, "run", "--out", out)
	require.Error(t, err)
	assert.Contains(t, stdout, "Error [E002]: backend selection failed")
}

func TestRunBackendFlagOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvBackend, "ibmqx4")
	out := filepath.Join(t.TempDir(), "out.json")

	_, err := execRoot(t, "run", "--out", out, "--backend", "local_qasm_simulator")
	require.NoError(t, err)
}

func TestRunInvalidShotsFlag(t *testing.T) {
	clearEnv(t)

	_, err := execRoot(t, "run", "--shots", "-3")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunMalformedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvTimeout, "soon")

	_, err := execRoot(t, "run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), config.EnvTimeout)
}

func TestRunUnwritableSink(t *testing.T) {
	clearEnv(t)
	out := filepath.Join(t.TempDir(), "missing", "out.json")

	_, err := execRoot(t, "run", "--out", out)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "writing output record failed")
}

func TestRunRecordsHistory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")
	db := filepath.Join(dir, "qflip.db")

	stdout, err := execRoot(t, "run", "--out", out, "--db", db, "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "recorded as")

	st, err := history.Open(db)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "local_qasm_simulator", runs[0].Backend)
	assert.Equal(t, int64(3), runs[0].Seed)
	assert.Equal(t, "COMPLETED", runs[0].Status)
}

func TestRunHistoryIdempotent(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "qflip.db")

	// Same seed and shots produce the same record hash both times.
	_, err := execRoot(t, "run", "--out", filepath.Join(dir, "a.json"), "--db", db, "--seed", "5")
	require.NoError(t, err)
	_, err = execRoot(t, "run", "--out", filepath.Join(dir, "b.json"), "--db", db, "--seed", "5")
	require.NoError(t, err)

	st, err := history.Open(db)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunWithStatevector(t *testing.T) {
	clearEnv(t)
	out := filepath.Join(t.TempDir(), "out.json")

	_, err := execRoot(t, "run", "--out", out, "--state")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	result := decoded["result"].(map[string]any)
	state, ok := result["statevector"].([]any)
	require.True(t, ok)
	require.Len(t, state, 4)
	// Amplitudes arrive as plain numbers: the real-part projection.
	for _, amp := range state {
		_, isNumber := amp.(float64)
		assert.True(t, isNumber)
	}
}
