// Package textio is the console side of the graphics layer: the sink for
// error and informational messages the dispatch layer surfaces to the user.
package textio

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Sink receives non-fatal conditions reported by the graphics layer.
// Flush must return only after every reported message has been written.
type Sink interface {
	ReportError(msg string)
	Flush() error
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) ReportError(string) {}
func (discard) Flush() error       { return nil }

// Options configures a Logger.
type Options struct {
	// File is the log file path. Empty disables the file.
	File string
	// MaxSize is the file size in megabytes before rotation.
	MaxSize int
	// MaxBackups is the number of rotated files kept.
	MaxBackups int
	// Console, if set, receives human-readable output as well.
	Console io.Writer
}

// Logger is a Sink writing structured records through zerolog to a
// rotated log file and an optional console.
type Logger struct {
	mu      sync.Mutex
	log     zerolog.Logger
	file    *lumberjack.Logger
	writers []io.Writer
	printOn bool
}

// New creates a Logger. Informational printing starts enabled.
func New(opts Options) *Logger {
	var writers []io.Writer
	var file *lumberjack.Logger
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    max(opts.MaxSize, 1),
			MaxBackups: opts.MaxBackups,
		}
		writers = append(writers, file)
	}
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, NoColor: true})
	}
	return newLogger(file, writers)
}

// NewWriter creates a Logger writing JSON records to w only.
func NewWriter(w io.Writer) *Logger {
	return newLogger(nil, []io.Writer{w})
}

func newLogger(file *lumberjack.Logger, writers []io.Writer) *Logger {
	out := io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}
	return &Logger{
		log:     zerolog.New(out).With().Timestamp().Logger(),
		file:    file,
		writers: writers,
		printOn: true,
	}
}

// Zerolog returns the underlying logger for callers that want fields.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.log
}

// ReportError records an error message. It is always written, regardless
// of the print state.
func (l *Logger) ReportError(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.Error().Msg(msg)
}

// Printf writes an informational message when printing is on.
func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.printOn {
		return
	}
	l.log.Info().Msgf(format, args...)
}

// PrintOn enables informational output and returns the previous state.
func (l *Logger) PrintOn() bool {
	return l.setPrint(true)
}

// PrintOff disables informational output and returns the previous state.
func (l *Logger) PrintOff() bool {
	return l.setPrint(false)
}

func (l *Logger) setPrint(on bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.printOn
	l.printOn = on
	return prev
}

type syncer interface {
	Sync() error
}

// Flush syncs every writer that supports it.
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range l.writers {
		if s, ok := w.(syncer); ok {
			if err := s.Sync(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if err := l.Flush(); err != nil {
		return err
	}
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Recorder is an in-memory Sink. The zero value is ready to use.
type Recorder struct {
	mu      sync.Mutex
	errors  []string
	flushes int
}

// ReportError records msg.
func (r *Recorder) ReportError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

// Flush counts the call.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
	return nil
}

// Errors returns the recorded messages.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Flushes returns how many times Flush was called.
func (r *Recorder) Flushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}
