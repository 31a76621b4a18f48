package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openqx/qflip/internal/config"
)

func TestBackendsLocalOnly(t *testing.T) {
	clearEnv(t)

	stdout, err := execRoot(t, "backends")
	require.NoError(t, err)
	assert.Contains(t, stdout, "registration: local-only")
	assert.Contains(t, stdout, "local_qasm_simulator (simulator)")
}

func TestBackendsAuthenticated(t *testing.T) {
	clearEnv(t)
	qconfig := filepath.Join(t.TempDir(), "qconfig.yml")
	creds := "url: https://example.test/api\nbackends:\n  - ibmqx4\n"
	require.NoError(t, os.WriteFile(qconfig, []byte(creds), 0644))
	t.Setenv(config.EnvQconfig, qconfig)

	stdout, err := execRoot(t, "backends")
	require.NoError(t, err)
	assert.Contains(t, stdout, "registration: authenticated")
	assert.Contains(t, stdout, "ibmqx4 (hardware)")
	assert.Contains(t, stdout, "local_qasm_simulator (simulator)")
}

func TestBackendsJSON(t *testing.T) {
	clearEnv(t)

	stdout, err := execRoot(t, "--format", "json", "backends")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "local-only", data["registration"])
	backends := data["backends"].([]any)
	require.Len(t, backends, 1)
	first := backends[0].(map[string]any)
	assert.Equal(t, "local_qasm_simulator", first["name"])
	assert.Equal(t, true, first["simulator"])
}
