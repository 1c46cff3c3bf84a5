// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"

	bb "github.com/db47h/breadboard"
	"github.com/fatih/color"
)

// termRenderer prints render calls to a terminal.
//
type termRenderer struct {
	w     io.Writer
	next  bb.GlowID
	fill  *color.Color
	glow  *color.Color
	faint *color.Color
}

func newTermRenderer(w io.Writer) *termRenderer {
	return &termRenderer{
		w:     w,
		fill:  color.New(color.FgCyan),
		glow:  color.New(color.FgGreen, color.Bold),
		faint: color.New(color.Faint),
	}
}

func partName(p bb.Part) string { return fmt.Sprintf("%s%d[%d]", p.Key, p.ID, p.Index) }

func (r *termRenderer) SetFill(p bb.Part, f bb.Fill) {
	c := r.fill
	if f == bb.None {
		c = r.faint
	}
	c.Fprintf(r.w, "fill  %-16s %s\n", partName(p), f)
}

func (r *termRenderer) AddGlow(p bb.Part, f bb.Fill) bb.GlowID {
	r.next++
	r.glow.Fprintf(r.w, "glow  %-16s %s (#%d)\n", partName(p), f, r.next)
	return r.next
}

func (r *termRenderer) RemoveGlow(id bb.GlowID) {
	r.faint.Fprintf(r.w, "glow  #%d removed\n", id)
}

// termNotifier prints user notices.
//
type termNotifier struct {
	w io.Writer
	c *color.Color
}

func newTermNotifier(w io.Writer) *termNotifier {
	return &termNotifier{w: w, c: color.New(color.FgYellow)}
}

func (n *termNotifier) Notify(msg string) { n.c.Fprintf(n.w, "!     %s\n", msg) }
