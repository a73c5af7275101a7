package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackcanvas_history_commands_total",
		Help: "Commands executed through the history, by command type",
	}, []string{"type"})

	mergesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stackcanvas_history_merges_total",
		Help: "Commands coalesced into the previous history entry",
	})

	evictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stackcanvas_history_evictions_total",
		Help: "Oldest entries dropped to stay within the history size bound",
	})

	undoTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stackcanvas_history_undo_total",
		Help: "Successful undo operations",
	})

	redoTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stackcanvas_history_redo_total",
		Help: "Successful redo operations",
	})

	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackcanvas_history_rejected_total",
		Help: "Commands refused because their kind is unknown",
	}, []string{"op"})
)
