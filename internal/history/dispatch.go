package history

import (
	"slices"

	"stackcanvas/internal/domain"
)

// execute applies cmd forward. It reports false for command types the
// History does not know how to apply.
func execute(s *domain.CanvasState, cmd Command) bool {
	switch c := cmd.(type) {
	case *AddBlock:
		s.Blocks = append(s.Blocks, c.Block.Clone())
	case *DeleteBlock:
		s.Blocks = removeBlock(s.Blocks, c.Block.ID)
		for _, rc := range c.Related {
			s.Connections = removeConnection(s.Connections, rc.Connection.ID)
		}
	case *MoveBlock:
		if i, ok := s.FindBlock(c.BlockID); ok {
			s.Blocks[i].Position = c.To
		}
	case *AddConnection:
		s.Connections = append(s.Connections, c.Connection)
	case *DeleteConnection:
		s.Connections = removeConnection(s.Connections, c.Connection.ID)
	default:
		return false
	}
	return true
}

// undo inverts the most recent execute or redo of cmd.
func undo(s *domain.CanvasState, cmd Command) {
	switch c := cmd.(type) {
	case *AddBlock:
		s.Blocks = removeBlock(s.Blocks, c.Block.ID)
	case *DeleteBlock:
		if _, ok := s.FindBlock(c.Block.ID); !ok {
			s.Blocks = insertAt(s.Blocks, c.Index, c.Block.Clone())
		}
		// Related is ordered by original index, so inserting front to back
		// restores every connection to the slot it came from.
		for _, rc := range c.Related {
			if _, ok := s.FindConnection(rc.Connection.ID); !ok {
				s.Connections = insertAt(s.Connections, rc.Index, rc.Connection)
			}
		}
	case *MoveBlock:
		if i, ok := s.FindBlock(c.BlockID); ok {
			s.Blocks[i].Position = c.From
		}
	case *AddConnection:
		s.Connections = removeConnection(s.Connections, c.Connection.ID)
	case *DeleteConnection:
		if _, ok := s.FindConnection(c.Connection.ID); !ok {
			s.Connections = insertAt(s.Connections, c.Index, c.Connection)
		}
	}
}

// redo re-applies cmd. Every command kind redoes by executing again.
func redo(s *domain.CanvasState, cmd Command) {
	execute(s, cmd)
}

func removeBlock(blocks []domain.Block, id string) []domain.Block {
	return slices.DeleteFunc(blocks, func(b domain.Block) bool { return b.ID == id })
}

func removeConnection(conns []domain.Connection, id string) []domain.Connection {
	return slices.DeleteFunc(conns, func(c domain.Connection) bool { return c.ID == id })
}

// insertAt inserts v at index i, clamped to the valid range.
func insertAt[T any](s []T, i int, v T) []T {
	if i < 0 {
		i = 0
	}
	if i > len(s) {
		i = len(s)
	}
	return slices.Insert(s, i, v)
}
