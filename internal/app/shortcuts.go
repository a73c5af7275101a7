package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ============================================================
// Keyboard shortcuts
// ============================================================

// KeyEvent is a key press with its modifiers.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool // cmd on macOS
	Shift bool
	Alt   bool
}

// ParseChord parses chords such as "ctrl+z", "cmd+shift+z" or "ctrl+y".
func ParseChord(s string) (KeyEvent, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	var ev KeyEvent
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i == len(parts)-1 {
			if p == "" {
				return KeyEvent{}, fmt.Errorf("chord %q has no key", s)
			}
			ev.Key = p
			break
		}
		switch p {
		case "ctrl", "control":
			ev.Ctrl = true
		case "cmd", "meta", "super":
			ev.Meta = true
		case "shift":
			ev.Shift = true
		case "alt", "option":
			ev.Alt = true
		default:
			return KeyEvent{}, fmt.Errorf("chord %q: unknown modifier %q", s, p)
		}
	}
	return ev, nil
}

// ShortcutAction is what a key event asks the history to do.
type ShortcutAction int

const (
	ActionNone ShortcutAction = iota
	ActionUndo
	ActionRedo
)

func (a ShortcutAction) String() string {
	switch a {
	case ActionUndo:
		return "undo"
	case ActionRedo:
		return "redo"
	default:
		return "none"
	}
}

// ResolveShortcut maps ctrl/cmd+z to undo and ctrl/cmd+shift+z or
// ctrl/cmd+y to redo. Everything else resolves to ActionNone.
func ResolveShortcut(ev KeyEvent) ShortcutAction {
	if !(ev.Ctrl || ev.Meta) || ev.Alt {
		return ActionNone
	}
	switch strings.ToLower(ev.Key) {
	case "z":
		if ev.Shift {
			return ActionRedo
		}
		return ActionUndo
	case "y":
		if ev.Shift {
			return ActionNone
		}
		return ActionRedo
	}
	return ActionNone
}

// Undoer is the part of the canvas the shortcuts drive.
type Undoer interface {
	Undo(ctx context.Context) bool
	Redo(ctx context.Context) bool
}

// KeySource delivers key events to subscribers.
type KeySource interface {
	Subscribe(fn func(KeyEvent)) (unsubscribe func())
}

// BindShortcuts subscribes target to src once. The returned function
// removes the subscription; calling it more than once is harmless.
func BindShortcuts(ctx context.Context, src KeySource, target Undoer) (unbind func()) {
	unsubscribe := src.Subscribe(func(ev KeyEvent) {
		switch ResolveShortcut(ev) {
		case ActionUndo:
			target.Undo(ctx)
		case ActionRedo:
			target.Redo(ctx)
		}
	})
	var once sync.Once
	return func() { once.Do(unsubscribe) }
}

// KeyBus is an in-process KeySource. Publish delivers synchronously, in
// subscription order.
type KeyBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(KeyEvent)
	order  []int
}

func NewKeyBus() *KeyBus {
	return &KeyBus{subs: make(map[int]func(KeyEvent))}
}

func (b *KeyBus) Subscribe(fn func(KeyEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish sends ev to every current subscriber.
func (b *KeyBus) Publish(ev KeyEvent) {
	b.mu.Lock()
	fns := make([]func(KeyEvent), 0, len(b.subs))
	live := b.order[:0]
	for _, id := range b.order {
		if fn, ok := b.subs[id]; ok {
			fns = append(fns, fn)
			live = append(live, id)
		}
	}
	b.order = live
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribers returns the number of active subscriptions.
func (b *KeyBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
