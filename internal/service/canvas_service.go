package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"stackcanvas/internal/domain"
	"stackcanvas/internal/history"
	"stackcanvas/internal/logging"
)

// EventCanvasChanged is emitted after every mutation of the canvas.
const EventCanvasChanged = "canvas:changed"

// ErrRejected is returned when the history refused a command of a kind it
// does not know how to apply.
var ErrRejected = errors.New("command rejected")

// CanvasEvent is the payload of EventCanvasChanged.
type CanvasEvent struct {
	Kind        string              `json:"kind"`
	CommandType history.CommandType `json:"commandType,omitempty"`
	State       domain.CanvasState  `json:"state"`
}

// Status summarises the history for UI affordances such as enabling the
// undo and redo buttons.
type Status struct {
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
	Size    int  `json:"size"`
	Index   int  `json:"index"`
}

// ─────────────────────────────────────────────────────────────
// Canvas Service: validated, undoable edits to the canvas
// ─────────────────────────────────────────────────────────────

// CanvasService turns edit requests into history commands.
// It checks the requests the history itself does not: unknown ids,
// duplicate ids, and connections to missing or mismatched ports.
type CanvasService struct {
	history *history.History
	builder *history.Builder
	emitter EventEmitter
	logger  *slog.Logger
}

// NewCanvasService creates a CanvasService.
func NewCanvasService(h *history.History, b *history.Builder, emitter EventEmitter, logger *slog.Logger) *CanvasService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CanvasService{history: h, builder: b, emitter: emitter, logger: logger}
}

// AddBlock places block on the canvas. An empty ID is filled with a UUID.
func (s *CanvasService) AddBlock(ctx context.Context, block domain.Block) (*domain.Block, error) {
	if block.ID == "" {
		block.ID = uuid.New().String()
	}
	state := s.history.State()
	if _, ok := state.FindBlock(block.ID); ok {
		return nil, fmt.Errorf("add block %q: %w", block.ID, domain.ErrDuplicateID)
	}
	cmd := s.builder.AddBlock(block)
	if err := s.execute(ctx, cmd); err != nil {
		return nil, fmt.Errorf("add block %q: %w", block.ID, err)
	}
	out := cmd.Block.Clone()
	return &out, nil
}

// AddFromCatalog places a new block built from the catalog template for blockType.
func (s *CanvasService) AddFromCatalog(ctx context.Context, blockType, id string, at domain.Position) (*domain.Block, error) {
	b, err := domain.NewBlock(blockType, id, at)
	if err != nil {
		return nil, err
	}
	return s.AddBlock(ctx, b)
}

// MoveBlock moves a block to a new position. Moving a block onto its
// current position records nothing.
func (s *CanvasService) MoveBlock(ctx context.Context, id string, to domain.Position) error {
	state := s.history.State()
	b, ok := state.Block(id)
	if !ok {
		return fmt.Errorf("move block %q: %w", id, domain.ErrBlockNotFound)
	}
	if b.Position == to {
		return nil
	}
	if err := s.execute(ctx, s.builder.MoveBlock(id, b.Position, to)); err != nil {
		return fmt.Errorf("move block %q: %w", id, err)
	}
	return nil
}

// DeleteBlock removes a block and every connection attached to it.
func (s *CanvasService) DeleteBlock(ctx context.Context, id string) error {
	cmd, err := s.builder.DeleteBlock(s.history.State(), id)
	if err != nil {
		return err
	}
	if err := s.execute(ctx, cmd); err != nil {
		return fmt.Errorf("delete block %q: %w", id, err)
	}
	return nil
}

// Connect links an output port to an input port. An empty id is filled
// with a UUID.
func (s *CanvasService) Connect(ctx context.Context, id string, source, target domain.Endpoint) (*domain.Connection, error) {
	if id == "" {
		id = uuid.New().String()
	}
	state := s.history.State()
	if _, ok := state.FindConnection(id); ok {
		return nil, fmt.Errorf("connect %q: %w", id, domain.ErrDuplicateID)
	}
	if err := checkEndpoint(state, source, domain.PortOut); err != nil {
		return nil, fmt.Errorf("connect %q: source: %w", id, err)
	}
	if err := checkEndpoint(state, target, domain.PortIn); err != nil {
		return nil, fmt.Errorf("connect %q: target: %w", id, err)
	}

	c := domain.Connection{ID: id, Source: source, Target: target}
	if err := s.execute(ctx, s.builder.AddConnection(c)); err != nil {
		return nil, fmt.Errorf("connect %q: %w", id, err)
	}
	return &c, nil
}

// Disconnect removes a connection.
func (s *CanvasService) Disconnect(ctx context.Context, id string) error {
	cmd, err := s.builder.DeleteConnection(s.history.State(), id)
	if err != nil {
		return err
	}
	if err := s.execute(ctx, cmd); err != nil {
		return fmt.Errorf("disconnect %q: %w", id, err)
	}
	return nil
}

// SelectBlock sets a block's selection flag. Selection is view state, so it
// bypasses the history and cannot be undone.
func (s *CanvasService) SelectBlock(ctx context.Context, id string, selected bool) error {
	state := s.history.State()
	i, ok := state.FindBlock(id)
	if !ok {
		return fmt.Errorf("select block %q: %w", id, domain.ErrBlockNotFound)
	}
	state.Blocks[i].Selected = selected
	s.history.SetState(state)
	s.emit(ctx, "select", "")
	return nil
}

// Undo reverts the last applied command. It reports whether anything changed.
func (s *CanvasService) Undo(ctx context.Context) bool {
	if !s.history.Undo() {
		return false
	}
	s.emit(ctx, "undo", "")
	return true
}

// Redo re-applies the last undone command. It reports whether anything changed.
func (s *CanvasService) Redo(ctx context.Context) bool {
	if !s.history.Redo() {
		return false
	}
	s.emit(ctx, "redo", "")
	return true
}

// ClearHistory forgets all undo and redo entries, keeping the canvas as is.
func (s *CanvasService) ClearHistory(ctx context.Context) {
	s.history.Clear()
	s.emit(ctx, "clear", "")
}

// State returns a copy of the canvas.
func (s *CanvasService) State() domain.CanvasState {
	return s.history.State()
}

// Summary lists the history entries, oldest first.
func (s *CanvasService) Summary() []history.Entry {
	return s.history.Summary()
}

// Status reports the history cursor and what the UI may offer.
func (s *CanvasService) Status() Status {
	return Status{
		CanUndo: s.history.CanUndo(),
		CanRedo: s.history.CanRedo(),
		Size:    s.history.Size(),
		Index:   s.history.Index(),
	}
}

// ── helpers ────────────────────────────────────────────────

func (s *CanvasService) execute(ctx context.Context, cmd history.Command) error {
	if !s.history.Execute(cmd) {
		return ErrRejected
	}
	info := cmd.Info()
	s.logger.DebugContext(ctx, "canvas: command applied", "type", info.Type, "id", info.ID)
	s.emit(ctx, "execute", info.Type)
	return nil
}

func (s *CanvasService) emit(ctx context.Context, kind string, t history.CommandType) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(ctx, EventCanvasChanged, CanvasEvent{
		Kind:        kind,
		CommandType: t,
		State:       s.history.State(),
	})
}

func checkEndpoint(state domain.CanvasState, ep domain.Endpoint, want domain.PortDirection) error {
	b, ok := state.Block(ep.BlockID)
	if !ok {
		return fmt.Errorf("block %q: %w", ep.BlockID, domain.ErrBlockNotFound)
	}
	p, ok := b.Port(ep.PortID)
	if !ok {
		return fmt.Errorf("block %q port %q: %w", ep.BlockID, ep.PortID, domain.ErrPortNotFound)
	}
	if p.Direction != want {
		return fmt.Errorf("block %q port %q is %s, want %s: %w", ep.BlockID, ep.PortID, p.Direction, want, domain.ErrPortDirection)
	}
	return nil
}
