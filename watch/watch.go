// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package watch turns edits of style and color-map source files into
// reload requests.
//
// The watcher never touches a session. It sends a Request on a channel
// and the host loop, which owns the session, reloads:
//
//	w, err := watch.New()
//	...
//	_ = w.Add(stylePath, watch.Styles)
//	for req := range w.Requests() {
//		switch req.Kind {
//		case watch.Styles:
//			_ = s.ReloadStyles()
//		case watch.ColorMap:
//			_ = s.LoadColorMapFile(req.Path)
//		}
//	}
//
// Editors save in bursts (truncate, write, rename), so requests are
// debounced: a file is reported once it has been quiet for Delay.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
)

// Delay is the default quiet period before a request is sent.
const Delay = 150 * time.Millisecond

// Kind says what a watched file holds.
type Kind int

const (
	Styles Kind = iota
	ColorMap
)

func (k Kind) String() string {
	switch k {
	case Styles:
		return "styles"
	case ColorMap:
		return "colormap"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Request asks the host to reload Path.
type Request struct {
	Kind Kind
	Path string
}

// ErrClosed is returned by Add after Close.
var ErrClosed = errors.New("watch: watcher closed")

// Option configures a Watcher.
type Option func(*Watcher)

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(w *Watcher) {
		w.clock = c
	}
}

// WithDelay sets the quiet period.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.delay = d
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// Watcher watches source files.
type Watcher struct {
	fsw   *fsnotify.Watcher
	clock clockwork.Clock
	delay time.Duration
	log   *slog.Logger

	mu     sync.Mutex
	files  map[string]Kind
	dirs   map[string]int
	closed bool

	reqs chan Request
	done chan struct{}
	wg   sync.WaitGroup
}

// New starts a watcher with no files.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	w := newWatcher(fsw, opts)
	w.wg.Add(1)
	go w.run(fsw.Events, fsw.Errors)
	return w, nil
}

func newWatcher(fsw *fsnotify.Watcher, opts []Option) *Watcher {
	w := &Watcher{
		fsw:   fsw,
		clock: clockwork.NewRealClock(),
		delay: Delay,
		log:   slog.New(slog.DiscardHandler),
		files: make(map[string]Kind),
		dirs:  make(map[string]int),
		reqs:  make(chan Request, 8),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add watches path. The file's directory is watched rather than the file
// itself, so replacing the file by rename is still seen.
func (w *Watcher) Add(path string, kind Kind) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[abs]; ok {
		w.files[abs] = kind
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 && w.fsw != nil {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = kind
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[abs]; !ok {
		return nil
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		if w.fsw != nil && !w.closed {
			if err := w.fsw.Remove(dir); err != nil {
				return fmt.Errorf("watch: remove %s: %w", dir, err)
			}
		}
	}
	return nil
}

// Requests returns the channel of reload requests. It is closed by Close.
func (w *Watcher) Requests() <-chan Request {
	return w.reqs
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	var err error
	if w.fsw != nil {
		err = w.fsw.Close()
	}
	w.wg.Wait()
	close(w.reqs)
	return err
}

func (w *Watcher) lookup(name string) (string, Kind, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", 0, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	kind, ok := w.files[abs]
	return abs, kind, ok
}

const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

func (w *Watcher) run(events <-chan fsnotify.Event, errs <-chan error) {
	defer w.wg.Done()

	pending := make(map[string]Kind)
	var timer clockwork.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Op&changeOps == 0 {
				continue
			}
			path, kind, ok := w.lookup(ev.Name)
			if !ok {
				continue
			}
			pending[path] = kind
			if timer == nil {
				timer = w.clock.NewTimer(w.delay)
				fire = timer.Chan()
			} else {
				timer.Reset(w.delay)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.log.Warn("watch: watcher error", "err", err)

		case <-fire:
			timer, fire = nil, nil
			for path, kind := range pending {
				select {
				case w.reqs <- Request{Kind: kind, Path: path}:
				case <-w.done:
					return
				}
			}
			clear(pending)
		}
	}
}
