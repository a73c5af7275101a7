package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackcanvas/internal/domain"
	"stackcanvas/internal/history"
	"stackcanvas/internal/service"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(bytes.NewBufferString(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const demoScenario = `
name: demo
steps:
  - {op: add, type: load-balancer, id: lb, at: {x: 0, y: 0}}
  - {op: add, type: service, id: api, at: {x: 300, y: 0}}
  - {op: connect, id: c1, source: {block: lb, port: out}, target: {block: api, port: in}}
  - {op: move, id: api, to: {x: 310, y: 0}}
  - {op: move, id: api, to: {x: 320, y: 0}}
  - {op: wait, duration: 600ms}
  - {op: move, id: api, to: {x: 330, y: 0}}
  - {op: undo}
`

func TestCLI_Replay(t *testing.T) {
	path := writeFile(t, "demo.yaml", demoScenario)

	out, err := runCLI(t, "", "replay", path)
	require.NoError(t, err)

	var report struct {
		Scenario string             `json:"scenario"`
		Steps    int                `json:"steps"`
		State    domain.CanvasState `json:"state"`
		History  []history.Entry    `json:"history"`
		Status   service.Status     `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, "demo", report.Scenario)
	assert.Equal(t, 8, report.Steps)
	require.Len(t, report.History, 5, "the first two moves merge")
	assert.Equal(t, 3, report.Status.Index)
	assert.True(t, report.Status.CanRedo)

	api, ok := report.State.Block("api")
	require.True(t, ok)
	assert.Equal(t, domain.Position{X: 320, Y: 0}, api.Position)
	assert.Len(t, report.State.Connections, 1)
}

func TestCLI_ReplayUsesConfig(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "history:\n  merge_threshold: 0s\n")
	path := writeFile(t, "demo.yaml", demoScenario)

	out, err := runCLI(t, "", "--config", cfgPath, "--log-level", "error", "replay", path)
	require.NoError(t, err)

	var report struct {
		History []history.Entry `json:"history"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.History, 6, "merging disabled")
}

func TestCLI_ReplayFailingStep(t *testing.T) {
	path := writeFile(t, "bad.yaml", "steps:\n  - {op: delete, id: ghost}\n")
	_, err := runCLI(t, "", "replay", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBlockNotFound)
	assert.Contains(t, err.Error(), "step 1 (delete)")
}

func TestCLI_Errors(t *testing.T) {
	_, err := runCLI(t, "", "replay")
	assert.Error(t, err)

	_, err = runCLI(t, "", "--log-level", "loud", "catalog")
	assert.Error(t, err)

	_, err = runCLI(t, "", "replay", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCLI_REPLAndInfo(t *testing.T) {
	out, err := runCLI(t, "add secrets vault 0 0\nstate\n", "repl")
	require.NoError(t, err)
	assert.Contains(t, out, "added secrets vault")
	assert.Contains(t, out, `"id": "vault"`)

	out, err = runCLI(t, "", "catalog")
	require.NoError(t, err)
	for _, typ := range domain.CatalogTypes() {
		assert.Contains(t, out, typ)
	}

	out, err = runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "stackcanvas version dev\n", out)
}
