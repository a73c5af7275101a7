package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackcanvas/internal/config"
	"stackcanvas/internal/domain"
	"stackcanvas/internal/history"
	"stackcanvas/internal/service"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestApp(t *testing.T, opts ...Option) (*App, *testClock) {
	t.Helper()
	clk := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	n := 0
	base := []Option{
		WithClock(clk.Now),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("cmd-%d", n) }),
	}
	a := New(context.Background(), config.Default(), append(base, opts...)...)
	t.Cleanup(a.Close)
	return a, clk
}

func TestApp_EditAndShortcuts(t *testing.T) {
	a, clk := newTestApp(t)

	_, err := a.AddBlock("load-balancer", "lb", 0, 0)
	require.NoError(t, err)
	clk.Advance(time.Second)
	_, err = a.AddBlock("service", "api", 300, 0)
	require.NoError(t, err)
	clk.Advance(time.Second)
	_, err = a.Connect("c1", "lb", "out", "api", "in")
	require.NoError(t, err)
	require.Len(t, a.State().Connections, 1)

	moved, err := a.PressKey("ctrl+z")
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Empty(t, a.State().Connections)

	moved, err = a.PressKey("cmd+shift+z")
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Len(t, a.State().Connections, 1)

	moved, err = a.PressKey("ctrl+y")
	require.NoError(t, err)
	assert.False(t, moved, "nothing left to redo")

	moved, err = a.PressKey("ctrl+q")
	require.NoError(t, err, "unbound chords are ignored")
	assert.False(t, moved)
	assert.Equal(t, 2, a.HistoryStatus().Index)

	_, err = a.PressKey("hyper+z")
	assert.Error(t, err)
}

func TestApp_MovesMerge(t *testing.T) {
	a, clk := newTestApp(t)
	_, err := a.AddBlock("redis", "cache", 0, 0)
	require.NoError(t, err)

	clk.Advance(time.Second)
	require.NoError(t, a.MoveBlock("cache", 10, 0))
	clk.Advance(100 * time.Millisecond)
	require.NoError(t, a.MoveBlock("cache", 20, 0))
	clk.Advance(100 * time.Millisecond)
	require.NoError(t, a.MoveBlock("cache", 30, 0))

	entries := a.HistorySummary()
	require.Len(t, entries, 2)
	assert.Equal(t, history.TypeMoveBlock, entries[1].Type)

	require.True(t, a.Undo())
	s := a.State()
	b, ok := s.Block("cache")
	require.True(t, ok)
	assert.Equal(t, domain.Position{}, b.Position)
}

func TestApp_DeleteAndSelect(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := a.AddBlock("service", "api", 0, 0)
	require.NoError(t, err)
	_, err = a.AddBlock("postgres", "db", 200, 0)
	require.NoError(t, err)
	_, err = a.Connect("c1", "api", "out", "db", "in")
	require.NoError(t, err)

	require.NoError(t, a.SelectBlock("db", true))
	assert.Equal(t, 3, a.HistoryStatus().Size, "selection is not recorded")

	require.NoError(t, a.DeleteBlock("db"))
	assert.Empty(t, a.State().Connections)

	require.True(t, a.Undo())
	s := a.State()
	assert.Len(t, s.Connections, 1)
	b, ok := s.Block("db")
	require.True(t, ok)
	assert.True(t, b.Selected, "undo restores the block as it was when deleted")

	require.NoError(t, a.Disconnect("c1"))
	assert.ErrorIs(t, a.Disconnect("c1"), domain.ErrConnectionNotFound)

	a.ClearHistory()
	assert.False(t, a.Undo())
	assert.Empty(t, a.HistorySummary())
}

func TestApp_InitialStateAndEmitter(t *testing.T) {
	emitter := &service.MockEmitter{}
	initial := domain.CanvasState{Blocks: []domain.Block{{ID: "seed", Type: "custom"}}}
	a, _ := newTestApp(t, WithInitialState(initial), WithEmitter(emitter))

	_, err := a.PlaceBlock(domain.Block{ID: "free", Type: "custom", Position: domain.Position{X: 5, Y: 5}})
	require.NoError(t, err)

	assert.Len(t, a.State().Blocks, 2)
	last, ok := emitter.Last()
	require.True(t, ok)
	assert.Equal(t, service.EventCanvasChanged, last.Event)

	_, err = a.PlaceBlock(domain.Block{ID: "seed"})
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestApp_HistoryConfig(t *testing.T) {
	cfg := config.Default()
	cfg.History.MaxSize = 2
	cfg.History.MergeThreshold = 0
	a := New(context.Background(), cfg)
	defer a.Close()

	for i := 0; i < 4; i++ {
		_, err := a.AddBlock("function", fmt.Sprintf("fn-%d", i), 0, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, a.HistoryStatus().Size)
	assert.Equal(t, 2, a.Config().History.MaxSize)
}

func TestApp_CloseUnbindsShortcuts(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := a.AddBlock("queue", "q", 0, 0)
	require.NoError(t, err)

	a.Close()
	moved, err := a.PressKey("ctrl+z")
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Len(t, a.State().Blocks, 1)
	assert.Equal(t, 0, a.keys.Subscribers())
}

func TestApp_Catalog(t *testing.T) {
	a, _ := newTestApp(t)
	cat := a.Catalog()
	require.Len(t, cat, len(domain.Catalog))
	for i := 1; i < len(cat); i++ {
		assert.Less(t, cat[i-1].Type, cat[i].Type)
	}
}
