package history

import (
	"time"

	"stackcanvas/internal/domain"
)

// CommandType tags the kind of mutation a command performs.
type CommandType string

const (
	TypeAddBlock         CommandType = "add_block"
	TypeDeleteBlock      CommandType = "delete_block"
	TypeMoveBlock        CommandType = "move_block"
	TypeAddConnection    CommandType = "add_connection"
	TypeDeleteConnection CommandType = "delete_connection"
)

// MoveMergeWindow is how close in time two moves of the same block must be
// for MoveBlock.CanMerge to accept them. The History applies its own
// threshold on top of this one; both must hold for a merge.
const MoveMergeWindow = 1000 * time.Millisecond

// Meta identifies a command.
type Meta struct {
	ID        string      `json:"id"`
	Type      CommandType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// Info returns the command's identity.
func (m Meta) Info() Meta { return m }

func (Meta) isCommand() {}

// Command is one atomic, reversible canvas mutation.
//
// Commands are plain data. They never hold a reference to the canvas or the
// History; the History applies and reverts them against the state it owns.
type Command interface {
	Info() Meta
	isCommand()
}

// Merger is implemented by commands that can absorb a newer command of the
// same kind into a single history entry.
type Merger interface {
	CanMerge(other Command) bool
	Merge(other Command) Command
}

// AddBlock places a new block on the canvas.
type AddBlock struct {
	Meta
	Block domain.Block `json:"block"`
}

// DeleteBlock removes a block together with the connections attached to it.
//
// Related is a snapshot taken when the command was built. Undo restores
// exactly these connections and does not look at the canvas again, so a
// connection graph changed by other means in between is not reconciled.
type DeleteBlock struct {
	Meta
	Block   domain.Block        `json:"block"`
	Index   int                 `json:"index"`
	Related []IndexedConnection `json:"related"`
}

// IndexedConnection is a connection together with the position it held
// in the connection list.
type IndexedConnection struct {
	Index      int               `json:"index"`
	Connection domain.Connection `json:"connection"`
}

// MoveBlock repositions a single block.
type MoveBlock struct {
	Meta
	BlockID string          `json:"blockId"`
	From    domain.Position `json:"from"`
	To      domain.Position `json:"to"`
}

// CanMerge accepts a later move of the same block within MoveMergeWindow.
func (m *MoveBlock) CanMerge(other Command) bool {
	o, ok := other.(*MoveBlock)
	if !ok || o.BlockID != m.BlockID {
		return false
	}
	return o.Timestamp.Sub(m.Timestamp) < MoveMergeWindow
}

// Merge returns a move spanning m.From to other.To so a single undo reverts
// the whole drag. The result takes the newer command's id and timestamp.
func (m *MoveBlock) Merge(other Command) Command {
	o, ok := other.(*MoveBlock)
	if !ok {
		return m
	}
	return &MoveBlock{
		Meta:    o.Meta,
		BlockID: m.BlockID,
		From:    m.From,
		To:      o.To,
	}
}

// AddConnection links two block ports.
type AddConnection struct {
	Meta
	Connection domain.Connection `json:"connection"`
}

// DeleteConnection removes one connection. Connection holds the exact value
// that was removed so undo can put it back unchanged.
type DeleteConnection struct {
	Meta
	Connection domain.Connection `json:"connection"`
	Index      int               `json:"index"`
}
