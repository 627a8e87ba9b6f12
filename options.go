package gr

import (
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/textio"
	"github.com/spf13/afero"
)

// Option configures a Session during selection.
//
// Example:
//
//	s, err := gr.Select(gr.Hints{}, gr.WithSink(logger), gr.WithCrossRect(geom.R(-3, -3, 3, 3)))
type Option func(*options)

type options struct {
	registry     *Registry
	lookupEnv    LookupEnv
	sink         textio.Sink
	onFault      FaultHandler
	crossRect    geom.Rect
	gridMultiple int
	fs           afero.Fs
}

// DefaultCrossRect is the extent of the cross drawn for zero-size boxes.
var DefaultCrossRect = geom.R(-2, -2, 2, 2)

func defaultOptions() options {
	return options{
		registry:  globalRegistry,
		sink:      textio.Discard,
		onFault:   panicOnFault,
		crossRect: DefaultCrossRect,
		fs:        afero.NewOsFs(),
	}
}

// WithRegistry selects from r instead of the global registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithEnv replaces the environment used to guess empty hints.
func WithEnv(lookup LookupEnv) Option {
	return func(o *options) {
		o.lookupEnv = lookup
	}
}

// WithSink sets the sink receiving errors and faults.
func WithSink(s textio.Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sink = s
		}
	}
}

// WithFaultHandler replaces the default handler, which panics. If the
// handler returns, the faulting operation returns the *Fault as an error.
func WithFaultHandler(h FaultHandler) Option {
	return func(o *options) {
		if h != nil {
			o.onFault = h
		}
	}
}

// WithCrossRect sets the cross drawn by DrawBox for zero-size boxes,
// relative to the box position.
func WithCrossRect(r geom.Rect) Option {
	return func(o *options) {
		o.crossRect = r
	}
}

// WithGridMultiple sets the grid fade multiple; zero disables it.
func WithGridMultiple(n int) Option {
	return func(o *options) {
		o.gridMultiple = n
	}
}

// WithFs sets the file system used to load style and color map files.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}
