// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package breadboard

import "github.com/db47h/breadboard/internal/logging"

// Fill is a color specification understood by the rendering collaborator:
// a CSS-like color ("rgba(255,0,0,0.8)"), a radial gradient
// ("r(0.5, 0.5)rgba(...)-rgba(...)") or None.
//
type Fill string

// None clears a fill.
//
const None Fill = "none"

// A Part identifies a drawable sub-part of an element.
//
type Part struct {
	Key   string
	ID    int
	Index int
}

// GlowID is a handle on a glow effect returned by Renderer.AddGlow. The zero
// value means "no glow".
//
type GlowID int

// Renderer is the rendering collaborator. The simulator never touches pixels;
// it only updates fills and glow effects of element parts.
//
type Renderer interface {
	SetFill(p Part, f Fill)
	AddGlow(p Part, color Fill) GlowID
	RemoveGlow(g GlowID)
}

// Notifier delivers non-fatal, user visible notices such as wiring errors.
//
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to the Notifier interface.
//
type NotifierFunc func(msg string)

// Notify implements Notifier.
//
func (f NotifierFunc) Notify(msg string) { f(msg) }

// Env bundles the collaborators an element talks to. Nil fields are replaced
// with no-op implementations.
//
type Env struct {
	Renderer Renderer
	Notifier Notifier
	Log      logging.Logger
}

func (e *Env) fill() *Env {
	if e.Renderer == nil {
		e.Renderer = nopRenderer{}
	}
	if e.Notifier == nil {
		e.Notifier = NotifierFunc(func(string) {})
	}
	if e.Log == nil {
		e.Log = logging.Noop()
	}
	return e
}

type nopRenderer struct{}

func (nopRenderer) SetFill(Part, Fill)        {}
func (nopRenderer) AddGlow(Part, Fill) GlowID { return 0 }
func (nopRenderer) RemoveGlow(GlowID)         {}
