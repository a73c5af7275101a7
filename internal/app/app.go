package app

import (
	"context"
	"log/slog"
	"time"

	"stackcanvas/internal/config"
	"stackcanvas/internal/domain"
	"stackcanvas/internal/history"
	"stackcanvas/internal/logging"
	"stackcanvas/internal/service"
)

// App is the application object. Its exported methods are the operations
// the REPL, scenario replays and any other front end call.
type App struct {
	ctx context.Context

	cfg     config.Config
	logger  *slog.Logger
	history *history.History
	canvas  *service.CanvasService

	// Keyboard shortcuts
	keys   *KeyBus
	unbind func()
}

type options struct {
	initial domain.CanvasState
	clock   func() time.Time
	idGen   func() string
	emitter service.EventEmitter
	logger  *slog.Logger
}

// Option configures an App.
type Option func(*options)

// WithInitialState seeds the canvas.
func WithInitialState(s domain.CanvasState) Option {
	return func(o *options) { o.initial = s }
}

// WithClock sets the time source for command timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithIDGenerator sets the function used to mint command ids.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.idGen = fn }
}

// WithEmitter replaces the default logging emitter.
func WithEmitter(e service.EventEmitter) Option {
	return func(o *options) { o.emitter = e }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates an App and binds the undo/redo shortcuts to its key bus.
func New(ctx context.Context, cfg config.Config, opts ...Option) *App {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.emitter == nil {
		o.emitter = &logEmitter{logger: o.logger}
	}

	hopts := append(cfg.HistoryOptions(), history.WithLogger(o.logger))
	h := history.New(o.initial, hopts...)

	var bopts []history.BuilderOption
	if o.clock != nil {
		bopts = append(bopts, history.WithClock(o.clock))
	}
	if o.idGen != nil {
		bopts = append(bopts, history.WithIDGenerator(o.idGen))
	}

	a := &App{
		ctx:     ctx,
		cfg:     cfg,
		logger:  o.logger,
		history: h,
		canvas:  service.NewCanvasService(h, history.NewBuilder(bopts...), o.emitter, o.logger),
		keys:    NewKeyBus(),
	}
	a.unbind = BindShortcuts(ctx, a.keys, a.canvas)
	return a
}

// Close releases the shortcut binding.
func (a *App) Close() {
	if a.unbind != nil {
		a.unbind()
	}
}

// Config returns the configuration the App was built with.
func (a *App) Config() config.Config {
	return a.cfg
}

// State returns a copy of the canvas.
func (a *App) State() domain.CanvasState {
	return a.canvas.State()
}

// logEmitter reports canvas events through the logger.
type logEmitter struct {
	logger *slog.Logger
}

func (e *logEmitter) Emit(ctx context.Context, event string, data any) {
	if ev, ok := data.(service.CanvasEvent); ok {
		e.logger.DebugContext(ctx, event,
			"kind", ev.Kind,
			"command", ev.CommandType,
			"blocks", len(ev.State.Blocks),
			"connections", len(ev.State.Connections),
		)
		return
	}
	e.logger.DebugContext(ctx, event)
}
