package history

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"stackcanvas/internal/domain"
	"stackcanvas/internal/logging"
)

const (
	DefaultMaxSize        = 50
	DefaultMergeThreshold = 500 * time.Millisecond
)

// ChangeKind names the operation that produced a Change.
type ChangeKind string

const (
	ChangeExecute ChangeKind = "execute"
	ChangeUndo    ChangeKind = "undo"
	ChangeRedo    ChangeKind = "redo"
	ChangeClear   ChangeKind = "clear"
	ChangeSet     ChangeKind = "set"
)

// Change is delivered to listeners after a successful operation.
// Command is the affected history entry; it is nil for clear and set.
type Change struct {
	Kind    ChangeKind
	Command Command
	State   domain.CanvasState
}

// Entry is one line of the history summary.
type Entry struct {
	ID        string      `json:"id"`
	Type      CommandType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// History is an undo/redo engine over a canvas state.
//
// The log is partitioned by a cursor: entries at or before the cursor are
// applied and undoable, entries after it were undone and can be redone.
// Replaying entries [0..cursor] against the initial state reproduces the
// current state.
//
// Invalid requests (undo with nothing to undo, redo at the end of the log)
// are silent no-ops. Calls from several goroutines wait for each other;
// listeners run after the lock is released.
type History struct {
	mu    sync.Mutex
	state domain.CanvasState
	log   []Command
	index int

	// executing is set while an operation holds mu.
	executing atomic.Bool

	maxSize   int
	threshold time.Duration
	logger    *slog.Logger
	listeners []func(Change)
}

// Option configures a History.
type Option func(*History)

// WithMaxSize bounds the number of entries kept. Values below 1 keep the default.
func WithMaxSize(n int) Option {
	return func(h *History) {
		if n >= 1 {
			h.maxSize = n
		}
	}
}

// WithMergeThreshold sets how close in time a command must follow the last
// entry to be merged into it. Zero disables merging; negative values keep
// the default.
func WithMergeThreshold(d time.Duration) Option {
	return func(h *History) {
		if d >= 0 {
			h.threshold = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *History) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithListener registers fn to be called after every successful operation.
// Listeners run outside the engine lock, so calls they make back into
// Execute, Undo or Redo are ordinary later operations.
func WithListener(fn func(Change)) Option {
	return func(h *History) {
		if fn != nil {
			h.listeners = append(h.listeners, fn)
		}
	}
}

// New creates a History owning a copy of initial.
func New(initial domain.CanvasState, opts ...Option) *History {
	h := &History{
		state:     initial.Clone(),
		index:     -1,
		maxSize:   DefaultMaxSize,
		threshold: DefaultMergeThreshold,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute applies cmd and records it. Concurrent callers are serialised.
// It reports false only when cmd is nil or of an unknown kind.
func (h *History) Execute(cmd Command) bool {
	if cmd == nil {
		return false
	}
	info := cmd.Info()

	h.lock()
	if !execute(&h.state, cmd) {
		h.unlock()
		rejectedTotal.WithLabelValues("execute").Inc()
		h.logger.Warn("history: unknown command kind", "type", info.Type, "id", info.ID)
		return false
	}
	commandsTotal.WithLabelValues(string(info.Type)).Inc()

	if tail := len(h.log) - 1 - h.index; tail > 0 {
		clear(h.log[h.index+1:])
		h.log = h.log[:h.index+1]
		h.logger.Debug("history: dropped redo entries", "count", tail)
	}

	entry := cmd
	if merged, ok := h.tryMerge(cmd); ok {
		h.log[len(h.log)-1] = merged
		entry = merged
		mergesTotal.Inc()
		h.logger.Debug("history: merged", "type", info.Type, "id", info.ID)
	} else {
		h.log = append(h.log, cmd)
	}

	if over := len(h.log) - h.maxSize; over > 0 {
		h.log = slices.Delete(h.log, 0, over)
		evictionsTotal.Add(float64(over))
		h.logger.Debug("history: evicted oldest entries", "count", over)
	}
	h.index = len(h.log) - 1

	h.logger.Debug("history: executed", "type", info.Type, "id", info.ID, "size", len(h.log))
	change := Change{Kind: ChangeExecute, Command: entry, State: h.state.Clone()}
	h.unlock()

	h.notify(change)
	return true
}

// tryMerge folds cmd into the last entry when the entry accepts it and cmd
// arrived within the History's merge threshold. Callers hold h.mu.
func (h *History) tryMerge(cmd Command) (Command, bool) {
	if h.threshold <= 0 || len(h.log) == 0 {
		return nil, false
	}
	last := h.log[len(h.log)-1]
	m, ok := last.(Merger)
	if !ok || !m.CanMerge(cmd) {
		return nil, false
	}
	if cmd.Info().Timestamp.Sub(last.Info().Timestamp) >= h.threshold {
		return nil, false
	}
	return m.Merge(cmd), true
}

// Undo reverts the entry at the cursor and moves the cursor back.
func (h *History) Undo() bool {
	h.lock()
	if h.index < 0 {
		h.unlock()
		return false
	}
	cmd := h.log[h.index]
	undo(&h.state, cmd)
	h.index--
	undoTotal.Inc()
	h.logger.Debug("history: undo", "type", cmd.Info().Type, "id", cmd.Info().ID, "index", h.index)
	change := Change{Kind: ChangeUndo, Command: cmd, State: h.state.Clone()}
	h.unlock()

	h.notify(change)
	return true
}

// Redo re-applies the entry after the cursor and moves the cursor forward.
func (h *History) Redo() bool {
	h.lock()
	if h.index >= len(h.log)-1 {
		h.unlock()
		return false
	}
	h.index++
	cmd := h.log[h.index]
	redo(&h.state, cmd)
	redoTotal.Inc()
	h.logger.Debug("history: redo", "type", cmd.Info().Type, "id", cmd.Info().ID, "index", h.index)
	change := Change{Kind: ChangeRedo, Command: cmd, State: h.state.Clone()}
	h.unlock()

	h.notify(change)
	return true
}

// Clear drops every entry and resets the cursor. The canvas state is kept.
func (h *History) Clear() {
	h.mu.Lock()
	clear(h.log)
	h.log = h.log[:0]
	h.index = -1
	change := Change{Kind: ChangeClear, State: h.state.Clone()}
	h.mu.Unlock()

	h.logger.Debug("history: cleared")
	h.notify(change)
}

// State returns a copy of the current canvas state.
func (h *History) State() domain.CanvasState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Clone()
}

// SetState replaces the canvas state without recording a history entry.
func (h *History) SetState(s domain.CanvasState) {
	h.mu.Lock()
	h.state = s.Clone()
	change := Change{Kind: ChangeSet, State: h.state.Clone()}
	h.mu.Unlock()

	h.notify(change)
}

// CanUndo reports whether there is an applied entry to undo.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index >= 0
}

// CanRedo reports whether there is an undone entry to redo.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.log)-1
}

// Size returns the number of entries in the log.
func (h *History) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.log)
}

// Index returns the cursor: the position of the last applied entry, or -1.
func (h *History) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

// Executing reports whether an Execute, Undo or Redo is applying changes
// right now. It is false while listeners run.
func (h *History) Executing() bool {
	return h.executing.Load()
}

// lock takes the engine lock for a mutating operation. Commands are plain
// data, so nothing under the lock can call back into the History.
func (h *History) lock() {
	h.mu.Lock()
	h.executing.Store(true)
}

func (h *History) unlock() {
	h.executing.Store(false)
	h.mu.Unlock()
}

// Summary lists the log for diagnostics, oldest first.
func (h *History) Summary() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.log))
	for i, cmd := range h.log {
		info := cmd.Info()
		out[i] = Entry{ID: info.ID, Type: info.Type, Timestamp: info.Timestamp}
	}
	return out
}

func (h *History) notify(c Change) {
	for _, fn := range h.listeners {
		fn(c)
	}
}
