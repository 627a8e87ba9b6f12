// Package gr is a device-independent graphics layer for interactive
// editors and viewers.
//
// # Overview
//
// One concrete display backend is bound per process. The application
// draws through a Session, which forwards every operation to the bound
// backend after checking the lock discipline and truncating geometry to
// the clip. The session owns the display state every backend shares: the
// clip stack, the style table, the color map, the display status, window
// records, damage and backing stores.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/gr"
//	    _ "github.com/gogpu/gr/backend/raster"
//	)
//
//	s, err := gr.Select(gr.Hints{Display: "raster"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	w, _ := s.CreateWindow("layout", geom.R(0, 0, 399, 299))
//	s.Lock(w)
//	s.SetStyle(1)
//	s.DrawBox(geom.R(10, 10, 100, 50))
//	s.Unlock(w)
//	s.Flush()
//
// # Backends
//
// Backends register a Descriptor from init and are matched by display
// type (Hints.Display). The descriptor declares the slots the backend
// binds; a slot is bound when it is declared and the backend value
// implements the interface carrying it. Operations whose optional slot
// is unbound return ErrNotSupported or a documented default.
//
//   - backend/null: mandatory slots only ("null", "minimal")
//   - backend/raster: color-index framebuffer, every optional slot
//   - backend/wgpu: real-valued backend on a wgpu HAL device
//   - backend/term: terminal backend on tcell
//
// # Coordinate System
//
// Rectangles have inclusive corners with Y increasing upward. With
// PixelCorrect 1 a rectangle covers the pixels of both edges; with 0 the
// top and right edges are exclusive.
//
// # Lock Discipline
//
// Drawing happens between Lock and Unlock of one window. Drawing without
// a lock, nested locks and unlocking the wrong window are faults: they are
// reported to the error sink, the sink is flushed and the fault handler
// runs, which panics unless replaced with WithFaultHandler. RequestBreak
// makes the remaining draws of the lock return ErrPreempted.
package gr
