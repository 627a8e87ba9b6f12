package gr

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// Factory creates a backend value. It must not open the display; the
// session calls Init after the slots are verified.
type Factory func() Backend

// Descriptor declares a backend to the registry.
type Descriptor struct {
	// Name is the display type the backend answers to, e.g. "raster".
	Name string

	// Aliases are other display types matched, e.g. "minimal".
	Aliases []string

	// Priority orders descriptors that match the same display type
	// (higher = preferred).
	Priority int

	// PixelCorrect is 1 for pixel-based backends, where the top and right
	// edges of a rectangle cover a pixel, and 0 for real-valued ones.
	PixelCorrect int

	// NumColors is the color map capacity; zero means cmap.DefaultNumColors.
	NumColors int

	// Slots lists every slot the backend binds. It must include all of
	// MandatorySlots.
	Slots SlotSet

	// Factory creates the backend.
	Factory Factory

	// Available reports whether the backend can run on this system.
	// Nil means always available.
	Available func() bool
}

func (d *Descriptor) available() bool {
	return d.Available == nil || d.Available()
}

func (d *Descriptor) matches(display string) bool {
	if strings.EqualFold(d.Name, display) {
		return true
	}
	for _, a := range d.Aliases {
		if strings.EqualFold(a, display) {
			return true
		}
	}
	return false
}

// Registry holds backend descriptors.
//
// Backends register themselves into the global registry from init:
//
//	func init() {
//	    gr.Register(gr.Descriptor{Name: "raster", Factory: New, ...})
//	}
//
// and are selected by display type:
//
//	s, err := gr.Select(gr.Hints{Display: "raster"})
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Descriptor
}

// globalRegistry is the default registry.
var globalRegistry = NewRegistry()

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and Select.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Descriptor)}
}

// Register adds a descriptor to the global registry.
func Register(d Descriptor) {
	globalRegistry.Register(d)
}

// Unregister removes a descriptor from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority.
func List() []string {
	return globalRegistry.List()
}

// Lookup returns the descriptor registered under name or alias.
func Lookup(name string) (Descriptor, bool) {
	return globalRegistry.Lookup(name)
}

// Register adds a descriptor. Registering a name that already exists
// replaces the previous descriptor.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.Aliases = slices.Clone(d.Aliases)
	r.entries[strings.ToLower(d.Name)] = &d
}

// Unregister removes a descriptor.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, strings.ToLower(name))
}

// List returns all registered names sorted by priority (highest first).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sorted(false)
	names := make([]string, len(sorted))
	for i, d := range sorted {
		names[i] = d.Name
	}
	return names
}

// Lookup returns a copy of the descriptor whose name or alias is name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.sorted(false) {
		if d.matches(name) {
			return *d, true
		}
	}
	return Descriptor{}, false
}

// match returns the highest-priority available descriptor for display.
func (r *Registry) match(display string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.sorted(true) {
		if d.matches(display) {
			return *d, true
		}
	}
	return Descriptor{}, false
}

// sorted returns descriptors by descending priority, then name.
// Must be called with lock held.
func (r *Registry) sorted(onlyAvailable bool) []*Descriptor {
	out := make([]*Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		if onlyAvailable && !d.available() {
			continue
		}
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b *Descriptor) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
