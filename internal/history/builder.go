package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"stackcanvas/internal/domain"
)

// Builder creates commands with unique ids and creation timestamps.
// Timestamps never go backwards for commands from the same Builder.
type Builder struct {
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
	last  time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClock sets the time source used for command timestamps.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator sets the function used to mint command ids.
func WithIDGenerator(fn func() string) BuilderOption {
	return func(b *Builder) {
		if fn != nil {
			b.newID = fn
		}
	}
}

// NewBuilder returns a Builder using the wall clock and random UUIDs.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) meta(t CommandType) Meta {
	b.mu.Lock()
	defer b.mu.Unlock()
	ts := b.now()
	if ts.Before(b.last) {
		ts = b.last
	}
	b.last = ts
	return Meta{ID: b.newID(), Type: t, Timestamp: ts}
}

// AddBlock builds a command that appends block to the canvas.
func (b *Builder) AddBlock(block domain.Block) *AddBlock {
	return &AddBlock{Meta: b.meta(TypeAddBlock), Block: block.Clone()}
}

// DeleteBlock builds a command that removes the block with the given id.
// The block and every connection touching it are captured from state now;
// undo restores that snapshot.
func (b *Builder) DeleteBlock(state domain.CanvasState, id string) (*DeleteBlock, error) {
	i, ok := state.FindBlock(id)
	if !ok {
		return nil, fmt.Errorf("delete block %q: %w", id, domain.ErrBlockNotFound)
	}
	var related []IndexedConnection
	for ci, c := range state.Connections {
		if c.Touches(id) {
			related = append(related, IndexedConnection{Index: ci, Connection: c})
		}
	}
	return &DeleteBlock{
		Meta:    b.meta(TypeDeleteBlock),
		Block:   state.Blocks[i].Clone(),
		Index:   i,
		Related: related,
	}, nil
}

// MoveBlock builds a command that moves a block from one position to another.
func (b *Builder) MoveBlock(id string, from, to domain.Position) *MoveBlock {
	return &MoveBlock{Meta: b.meta(TypeMoveBlock), BlockID: id, From: from, To: to}
}

// AddConnection builds a command that appends c to the canvas.
func (b *Builder) AddConnection(c domain.Connection) *AddConnection {
	return &AddConnection{Meta: b.meta(TypeAddConnection), Connection: c}
}

// DeleteConnection builds a command that removes the connection with the
// given id, capturing its current value for undo.
func (b *Builder) DeleteConnection(state domain.CanvasState, id string) (*DeleteConnection, error) {
	i, ok := state.FindConnection(id)
	if !ok {
		return nil, fmt.Errorf("delete connection %q: %w", id, domain.ErrConnectionNotFound)
	}
	return &DeleteConnection{
		Meta:       b.meta(TypeDeleteConnection),
		Connection: state.Connections[i],
		Index:      i,
	}, nil
}
