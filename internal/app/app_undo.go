package app

import (
	"stackcanvas/internal/history"
	"stackcanvas/internal/service"
)

// ============================================================
// Undo / Redo
// ============================================================

func (a *App) Undo() bool {
	return a.canvas.Undo(a.ctx)
}

func (a *App) Redo() bool {
	return a.canvas.Redo(a.ctx)
}

// ClearHistory drops the undo/redo log without touching the canvas.
func (a *App) ClearHistory() {
	a.canvas.ClearHistory(a.ctx)
}

// HistorySummary lists history entries for diagnostics.
func (a *App) HistorySummary() []history.Entry {
	return a.canvas.Summary()
}

func (a *App) HistoryStatus() service.Status {
	return a.canvas.Status()
}

// PressKey feeds a key chord such as "ctrl+z" through the shortcut bus and
// reports whether the history moved. Chords that are not shortcuts, and
// shortcuts with nothing to undo or redo, report false.
func (a *App) PressKey(chord string) (bool, error) {
	ev, err := ParseChord(chord)
	if err != nil {
		return false, err
	}
	before := a.canvas.Status().Index
	a.keys.Publish(ev)
	return a.canvas.Status().Index != before, nil
}
