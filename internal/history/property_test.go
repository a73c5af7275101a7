package history_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"stackcanvas/internal/domain"
	"stackcanvas/internal/history"
)

// script turns a list of random op codes into commands that are valid
// against the evolving canvas, executing each one as it goes.
func script(h *history.History, b *history.Builder, clk *fakeClock, ops []int) int {
	executed := 0
	next := 0
	for _, op := range ops {
		clk.Advance(2 * time.Second)
		state := h.State()

		var cmd history.Command
		switch op % 5 {
		case 0:
			next++
			cmd = b.AddBlock(block(fmt.Sprintf("blk-%d", next), float64(op), 0))
		case 1:
			if len(state.Blocks) == 0 {
				continue
			}
			target := state.Blocks[op%len(state.Blocks)]
			cmd = b.MoveBlock(target.ID, target.Position, domain.Position{X: float64(op), Y: float64(op * 2)})
		case 2:
			if len(state.Blocks) == 0 {
				continue
			}
			del, err := b.DeleteBlock(state, state.Blocks[op%len(state.Blocks)].ID)
			if err != nil {
				continue
			}
			cmd = del
		case 3:
			if len(state.Blocks) < 2 {
				continue
			}
			from := state.Blocks[op%len(state.Blocks)].ID
			to := state.Blocks[(op+1)%len(state.Blocks)].ID
			next++
			cmd = b.AddConnection(conn(fmt.Sprintf("conn-%d", next), from, to))
		case 4:
			if len(state.Connections) == 0 {
				continue
			}
			del, err := b.DeleteConnection(state, state.Connections[op%len(state.Connections)].ID)
			if err != nil {
				continue
			}
			cmd = del
		}
		if h.Execute(cmd) {
			executed++
		}
	}
	return executed
}

func TestHistory_RoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("undo n then redo n reproduces the state", prop.ForAll(
		func(ops []int) bool {
			clk := newFakeClock()
			b := newBuilder(clk)
			initial := domain.CanvasState{Blocks: []domain.Block{block("seed", 0, 0)}}
			h := history.New(initial, history.WithMaxSize(1000))

			n := script(h, b, clk, ops)
			after := h.State()
			if h.Size() != n {
				return false
			}

			for i := 0; i < n; i++ {
				if !h.Undo() {
					return false
				}
			}
			if h.CanUndo() || !reflect.DeepEqual(normalize(initial), normalize(h.State())) {
				return false
			}

			for i := 0; i < n; i++ {
				if !h.Redo() {
					return false
				}
			}
			return !h.CanRedo() && reflect.DeepEqual(normalize(after), normalize(h.State()))
		},
		gen.SliceOf(gen.IntRange(0, 99)),
	))

	properties.TestingRun(t)
}

func TestHistory_Bounded_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("history never exceeds its bound", prop.ForAll(
		func(maxSize, extra int) bool {
			clk := newFakeClock()
			b := newBuilder(clk)
			h := history.New(domain.CanvasState{}, history.WithMaxSize(maxSize))

			for i := 0; i < maxSize+extra; i++ {
				clk.Advance(time.Second)
				h.Execute(b.AddBlock(block(fmt.Sprintf("b%d", i), 0, 0)))
			}
			if h.Size() != maxSize || h.Index() != maxSize-1 {
				return false
			}
			for h.Undo() {
			}
			return len(h.State().Blocks) == extra
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
