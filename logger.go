package gr

import (
	"log/slog"
	"sync/atomic"
)

var silent = slog.New(slog.DiscardHandler)

// current holds the library logger; SetLogger may race with logging from
// the watch goroutine of a host.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger routes the log output of gr and its backends to l. gr is
// silent until this is called; nil silences it again.
//
// Levels:
//   - Debug: per-call traffic (window records, damage delivery, stores)
//   - Info: lifecycle (backend selected, styles or color map loaded)
//   - Warn: errors that do not stop the caller (close failures)
//
// The bound backend receives l too if it has a SetLogger(*slog.Logger)
// method; backends selected later receive it at selection.
//
//	gr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)

	if s := Active(); s != nil {
		propagateLogger(s.backend, l)
	}
}

// Logger returns the logger set with SetLogger. Backend packages log
// through it when they have no logger of their own.
func Logger() *slog.Logger {
	return current.Load()
}

type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(b Backend, l *slog.Logger) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
