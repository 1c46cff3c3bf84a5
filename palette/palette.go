// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package palette holds the LED color table shared by all LED elements.
//
// The shared palette is loaded once per process, on the first LED
// initialization, and is read-only afterwards.
//
package palette

import (
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// An Entry describes one LED color.
//
type Entry struct {
	Display string // body color
	Glow    string // glow gradient template: "rgba(r,g,b,1)-rgba(r,g,b,0)"
	Name    string
}

// Palette is an ordered list of LED colors.
//
type Palette struct {
	entries []Entry
}

// New returns a palette with the given entries.
//
func New(entries ...Entry) *Palette {
	return &Palette{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of entries.
//
func (p *Palette) Len() int { return len(p.entries) }

// Entry returns the i-th entry.
//
func (p *Palette) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(p.entries) {
		return Entry{}, false
	}
	return p.entries[i], true
}

// Names returns the color names in palette order.
//
func (p *Palette) Names() []string {
	out := make([]string, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Name
	}
	return out
}

// Clamp returns i clamped to the palette bounds.
//
func (p *Palette) Clamp(i int) int {
	switch {
	case i < 0 || len(p.entries) == 0:
		return 0
	case i >= len(p.entries):
		return len(p.entries) - 1
	}
	return i
}

// Display returns the body color of the i-th entry, or "none".
//
func (p *Palette) Display(i int) string {
	if e, ok := p.Entry(i); ok {
		return e.Display
	}
	return "none"
}

// RadialGlow returns the full glow gradient for the i-th entry, or "none".
//
func (p *Palette) RadialGlow(i int) string {
	if e, ok := p.Entry(i); ok {
		return "r(0.5, 0.5)" + e.Glow
	}
	return "none"
}

// PWMGlow returns the glow gradient of the i-th entry with the alpha of the
// first gradient stop replaced by alpha. The template's alpha must be a
// single digit.
//
// alpha is written as is: values above 1 are not clamped.
//
func (p *Palette) PWMGlow(i int, alpha float64) string {
	color := p.RadialGlow(i)
	if color == "none" {
		return color
	}
	head, tail := color, ""
	if j := strings.IndexByte(color, '-'); j >= 0 {
		head, tail = color[:j], color[j:]
	}
	if len(head) < 2 {
		return color
	}
	return head[:len(head)-2] + strconv.FormatFloat(alpha, 'f', -1, 64) + ")" + tail
}

var (
	once    sync.Once
	shared  *Palette
	loadErr error
)

// Init loads the shared palette with load. Only the first call has an effect;
// subsequent calls return the palette (or error) of the first one.
//
func Init(load func() ([]Entry, error)) (*Palette, error) {
	once.Do(func() {
		entries, err := load()
		if err != nil {
			loadErr = errors.Wrap(err, "load LED palette")
			return
		}
		if len(entries) == 0 {
			loadErr = errors.New("empty LED palette")
			return
		}
		shared = New(entries...)
	})
	return shared, loadErr
}

// Shared returns the shared palette, or nil if Init has not been called yet.
//
func Shared() *Palette { return shared }
