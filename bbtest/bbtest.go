// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bbtest provides recording collaborators and helpers for testing
// circuits.
//
package bbtest

import (
	"fmt"
	"strings"
	"testing"

	bb "github.com/db47h/breadboard"
)

type glow struct {
	part  bb.Part
	color bb.Fill
}

// Renderer is a bb.Renderer that records fills and active glows.
//
type Renderer struct {
	fills map[bb.Part]bb.Fill
	glows map[bb.GlowID]glow
	next  bb.GlowID
	calls []string
}

// NewRenderer returns a new recording renderer.
//
func NewRenderer() *Renderer {
	return &Renderer{
		fills: make(map[bb.Part]bb.Fill),
		glows: make(map[bb.GlowID]glow),
	}
}

// SetFill implements bb.Renderer.
//
func (r *Renderer) SetFill(p bb.Part, f bb.Fill) {
	r.fills[p] = f
	r.calls = append(r.calls, fmt.Sprintf("fill %s%d[%d] %s", p.Key, p.ID, p.Index, f))
}

// AddGlow implements bb.Renderer.
//
func (r *Renderer) AddGlow(p bb.Part, color bb.Fill) bb.GlowID {
	r.next++
	r.glows[r.next] = glow{p, color}
	r.calls = append(r.calls, fmt.Sprintf("glow %s%d[%d] %s", p.Key, p.ID, p.Index, color))
	return r.next
}

// RemoveGlow implements bb.Renderer.
//
func (r *Renderer) RemoveGlow(id bb.GlowID) {
	delete(r.glows, id)
	r.calls = append(r.calls, fmt.Sprintf("unglow %d", id))
}

// Fill returns the last fill set on part i of e. ok is false if none was set.
//
func (r *Renderer) Fill(e bb.Element, i int) (f bb.Fill, ok bool) {
	f, ok = r.fills[e.Core().Part(i)]
	return f, ok
}

// Glows returns the colors of the active glows on e.
//
func (r *Renderer) Glows(e bb.Element) []bb.Fill {
	var out []bb.Fill
	b := e.Core()
	for id := bb.GlowID(1); id <= r.next; id++ {
		if g, ok := r.glows[id]; ok && g.part.Key == b.Key() && g.part.ID == b.ID() {
			out = append(out, g.color)
		}
	}
	return out
}

// Calls returns the list of recorded calls, in order.
//
func (r *Renderer) Calls() []string { return r.calls }

// Reset clears the call log. Fills and glows are kept.
//
func (r *Renderer) Reset() { r.calls = nil }

// Notifier is a bb.Notifier that records messages.
//
type Notifier struct {
	Messages []string
}

// Notify implements bb.Notifier.
//
func (n *Notifier) Notify(msg string) { n.Messages = append(n.Messages, msg) }

// Count returns the number of times msg was received.
//
func (n *Notifier) Count(msg string) int {
	c := 0
	for _, m := range n.Messages {
		if m == msg {
			c++
		}
	}
	return c
}

// Bench bundles a circuit and its recording collaborators.
//
type Bench struct {
	*bb.Circuit
	R *Renderer
	N *Notifier
	t testing.TB
}

// New returns a new bench. Additional options are applied after the
// recording collaborators are installed.
//
func New(t testing.TB, opts ...bb.Option) *Bench {
	b := &Bench{R: NewRenderer(), N: new(Notifier), t: t}
	opts = append([]bb.Option{bb.WithRenderer(b.R), bb.WithNotifier(b.N)}, opts...)
	b.Circuit = bb.New(opts...)
	return b
}

// Add adds elements to the circuit and fails the test on error.
//
func (b *Bench) Add(es ...bb.Element) {
	b.t.Helper()
	for _, e := range es {
		if err := b.Circuit.Add(e); err != nil {
			b.t.Fatal(err)
		}
	}
}

// Connect wires pin pa of a to pin pb of c and fails the test on error.
//
func (b *Bench) Connect(a bb.Element, pa string, c bb.Element, pb string) *bb.Wire {
	b.t.Helper()
	w, err := b.Circuit.Connect(a.Core().Pin(pa), c.Core().Pin(pb))
	if err != nil {
		b.t.Fatal(err)
	}
	return w
}

// Set sets value v on pin p of e and fails the test on error.
//
func (b *Bench) Set(e bb.Element, p string, v float64) {
	b.t.Helper()
	if err := e.Core().Pin(p).SetValue(v, nil); err != nil {
		b.t.Fatal(err)
	}
}

// Dump returns the call log of the renderer, one call per line.
//
func (b *Bench) Dump() string { return strings.Join(b.R.Calls(), "\n") }
