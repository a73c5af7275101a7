package scenario_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackcanvas/internal/app"
	"stackcanvas/internal/config"
	"stackcanvas/internal/domain"
	"stackcanvas/internal/scenario"
)

// The example session: add, connect, drag twice, delete, then step back
// through the history with the keyboard.
func TestRun_AgainstApp(t *testing.T) {
	scn, err := scenario.Parse([]byte(`
steps:
  - {op: add, type: service, id: api, at: {x: 0, y: 0}}
  - {op: add, type: postgres, id: db, at: {x: 200, y: 0}}
  - {op: connect, id: api-db, source: {block: api, port: out}, target: {block: db, port: in}}
  - {op: wait, duration: 2s}
  - {op: move, id: db, to: {x: 250, y: 0}}
  - {op: wait, duration: 100ms}
  - {op: move, id: db, to: {x: 300, y: 50}}
  - {op: wait, duration: 2s}
  - {op: delete, id: db}
  - {op: undo}
  - {op: key, chord: cmd+z}
`))
	require.NoError(t, err)

	clock := scenario.NewClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	a := app.New(context.Background(), config.Default(), app.WithClock(clock.Now), app.WithInitialState(scn.Initial))
	defer a.Close()

	res, err := scenario.Run(a, clock, scn)
	require.NoError(t, err)
	assert.Equal(t, 11, res.Steps)
	assert.Zero(t, res.NoOps)

	state := a.State()
	require.Len(t, state.Connections, 1)
	db, ok := state.Block("db")
	require.True(t, ok)
	assert.Equal(t, domain.Position{X: 200, Y: 0}, db.Position, "both drags undone as one entry")

	st := a.HistoryStatus()
	assert.Equal(t, 5, st.Size)
	assert.Equal(t, 2, st.Index)
}

func TestRun_KeyWithNothingToUndoIsNoOp(t *testing.T) {
	scn, err := scenario.Parse([]byte(`
steps:
  - {op: key, chord: ctrl+z}
  - {op: add, type: queue, id: jobs, at: {x: 0, y: 0}}
  - {op: key, chord: ctrl+z}
  - {op: key, chord: ctrl+shift+z}
  - {op: key, chord: ctrl+y}
  - {op: key, chord: ctrl+p}
`))
	require.NoError(t, err)

	clock := scenario.NewClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	a := app.New(context.Background(), config.Default(), app.WithClock(clock.Now))
	defer a.Close()

	res, err := scenario.Run(a, clock, scn)
	require.NoError(t, err)
	assert.Equal(t, scenario.Result{Steps: 6, NoOps: 3}, res)
	assert.Len(t, a.State().Blocks, 1)
}
