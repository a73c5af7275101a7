package scenario

import (
	"fmt"

	"stackcanvas/internal/domain"
)

// Target is the editor a scenario drives.
type Target interface {
	AddBlock(blockType, id string, x, y float64) (*domain.Block, error)
	PlaceBlock(b domain.Block) (*domain.Block, error)
	MoveBlock(id string, x, y float64) error
	DeleteBlock(id string) error
	Connect(id, fromBlock, fromPort, toBlock, toPort string) (*domain.Connection, error)
	Disconnect(id string) error
	SelectBlock(id string, selected bool) error
	Undo() bool
	Redo() bool
	ClearHistory()
	PressKey(chord string) (bool, error)
}

// Result counts what a replay did.
type Result struct {
	Steps int
	// NoOps counts undo, redo and key steps that had nothing to apply.
	NoOps int
}

// Run applies every step of scn to t in order. The first failing step
// stops the replay.
func Run(t Target, clock *Clock, scn *Scenario) (Result, error) {
	var res Result
	for i, step := range scn.Steps {
		applied, err := apply(t, clock, step)
		if err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		res.Steps++
		if !applied {
			res.NoOps++
		}
	}
	return res, nil
}

func apply(t Target, clock *Clock, s Step) (bool, error) {
	var err error
	switch s.Op {
	case OpAdd:
		_, err = t.AddBlock(s.Type, s.ID, s.At.X, s.At.Y)
	case OpAddBlock:
		_, err = t.PlaceBlock(s.Block)
	case OpMove:
		err = t.MoveBlock(s.ID, s.To.X, s.To.Y)
	case OpDelete:
		err = t.DeleteBlock(s.ID)
	case OpConnect:
		_, err = t.Connect(s.ID, s.Source.BlockID, s.Source.PortID, s.Target.BlockID, s.Target.PortID)
	case OpDisconnect:
		err = t.Disconnect(s.ID)
	case OpSelect:
		selected := true
		if s.Selected != nil {
			selected = *s.Selected
		}
		err = t.SelectBlock(s.ID, selected)
	case OpUndo:
		return t.Undo(), nil
	case OpRedo:
		return t.Redo(), nil
	case OpClear:
		t.ClearHistory()
	case OpWait:
		clock.Advance(s.Duration)
	case OpKey:
		return t.PressKey(s.Chord)
	default:
		err = fmt.Errorf("%q: %w", s.Op, ErrUnknownOp)
	}
	return err == nil, err
}
