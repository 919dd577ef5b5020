package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	require.NoError(t, rootCmd.PersistentFlags().Set("config", ""))
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, interviewflow.Version)
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "clarification_interview_log")

	out, err = execute(t, "schema", "--openapi")
	require.NoError(t, err)
	assert.Contains(t, out, "/v1/sessions")
}

func TestPlanCommands(t *testing.T) {
	out, err := execute(t, "plan", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "clarification:")

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))
	out, err = execute(t, "plan", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Plan is valid")

	require.NoError(t, os.WriteFile(path, []byte("clarification: [{id: x, bogus: 1}]\n"), 0o600))
	_, err = execute(t, "plan", "validate", path)
	assert.Error(t, err)
}

func TestCreditsAndSessions(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "interviewflow.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
store:
  driver: sqlite
  path: `+filepath.Join(dir, "data.db")+`
credits:
  initial_grant: 5
`), 0o600))

	out, err := execute(t, "--config", configPath, "credits", "grant", "alice", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "alice: 15 credits")

	out, err = execute(t, "--config", configPath, "credits", "balance", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "admin_grant")

	out, err = execute(t, "--config", configPath, "session", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")

	_, err = execute(t, "--config", configPath, "credits", "grant", "alice", "-3")
	assert.Error(t, err)
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "assessment_gate")
}
