// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package trace records the values seen on microcontroller pins during a
// simulation run and renders them as plots.
//
package trace

import (
	"io"
	"sort"
	"strings"
	"time"

	bb "github.com/db47h/breadboard"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Default traced board and pin range.
//
const (
	DefaultBoard = "ArduinoUno"
	FirstPin     = 2
	LastPin      = 13
)

// Series is the recorded trace of one pin. Delay holds the time of each
// sample in milliseconds since the start of the recording.
//
type Series struct {
	Values []float64 `yaml:"values" json:"values"`
	Delay  []float64 `yaml:"delay" json:"delay"`
	Length int       `yaml:"length" json:"length"`
}

// Data maps pin labels to their traces.
//
type Data map[string]Series

type pinTrace struct {
	node   *bb.Node
	values []float64
	delay  []float64
}

// A Recorder traces the connected pins FirstPin to LastPin of all boards of
// a circuit. It follows wire changes: pins are added to the trace when wired
// and dropped when unwired.
//
type Recorder struct {
	c      *bb.Circuit
	board  string
	now    func() time.Time
	start  time.Time
	pins   []*pinTrace
}

// An Option configures a Recorder.
//
type Option func(*Recorder)

// WithClock sets the time source.
//
func WithClock(now func() time.Time) Option { return func(r *Recorder) { r.now = now } }

// WithBoard sets the key of the traced boards.
//
func WithBoard(key string) Option { return func(r *Recorder) { r.board = key } }

// New returns a recorder for the boards of c.
//
func New(c *bb.Circuit, opts ...Option) *Recorder {
	r := &Recorder{
		c:     c,
		board: DefaultBoard,
		now:   time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	r.start = r.now()
	c.Watch(r.watch)
	r.Refresh()
	return r
}

func (r *Recorder) traced(n *bb.Node) bool {
	o := n.Owner()
	return o != nil && o.Core().Key() == r.board && n.ID() >= FirstPin && n.ID() <= LastPin
}

func (r *Recorder) find(n *bb.Node) int {
	for i, p := range r.pins {
		if p.node == n {
			return i
		}
	}
	return -1
}

func (r *Recorder) add(n *bb.Node) {
	if !r.traced(n) || !n.Connected() || r.find(n) >= 0 {
		return
	}
	p := &pinTrace{node: n}
	r.pins = append(r.pins, p)
	// listeners of dropped traces stay registered but are inert.
	n.AddValueListener(func(v float64, _ *bb.Node) { r.sample(p, v) })
}

func (r *Recorder) remove(n *bb.Node) {
	if i := r.find(n); i >= 0 {
		r.pins = append(r.pins[:i], r.pins[i+1:]...)
	}
}

func (r *Recorder) watch(w *bb.Wire, added bool) {
	for _, n := range []*bb.Node{w.Start.Node, w.End.Node} {
		if added {
			r.add(n)
		} else {
			r.remove(n)
		}
	}
}

func (r *Recorder) sample(p *pinTrace, v float64) {
	if i := r.find(p.node); i < 0 || r.pins[i] != p {
		return
	}
	p.values = append(p.values, v)
	p.delay = append(p.delay, float64(r.now().Sub(r.start))/float64(time.Millisecond))
}

// Refresh rescans the circuit for connected board pins. Samples of pins
// still connected are kept.
//
func (r *Recorder) Refresh() {
	kept := r.pins[:0]
	for _, p := range r.pins {
		if p.node.Connected() {
			kept = append(kept, p)
		}
	}
	r.pins = kept
	for _, e := range r.c.FindKey(r.board) {
		for _, n := range e.Core().Nodes() {
			r.add(n)
		}
	}
}

// Reset drops all samples and restarts the clock.
//
func (r *Recorder) Reset() {
	r.start = r.now()
	for _, p := range r.pins {
		p.values, p.delay = nil, nil
	}
}

// Pins returns the labels of the traced pins, like "ArduinoUno1.D13".
//
func (r *Recorder) Pins() []string {
	out := make([]string, len(r.pins))
	for i, p := range r.pins {
		out[i] = p.node.String()
	}
	return out
}

// SaveData returns the recorded traces.
//
func (r *Recorder) SaveData() Data {
	d := make(Data, len(r.pins))
	for _, p := range r.pins {
		d[p.node.String()] = Series{
			Values: append([]float64(nil), p.values...),
			Delay:  append([]float64(nil), p.delay...),
			Length: len(p.values),
		}
	}
	return d
}

// Plot renders d to w. format is one of the formats supported by gonum/plot
// ("svg", "png", "pdf", ...).
//
func Plot(w io.Writer, d Data, format string) error {
	p := plot.New()
	p.Title.Text = "Pin traces"
	p.X.Label.Text = "Time (ms)"
	p.Y.Label.Text = "Value"
	p.Legend.Top = true

	labels := make([]string, 0, len(d))
	for k := range d {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	for i, k := range labels {
		s := d[k]
		if len(s.Values) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Values))
		for j := range s.Values {
			xys[j].X = s.Delay[j]
			xys[j].Y = s.Values[j]
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return errors.Wrap(err, k)
		}
		l.StepStyle = plotter.PostStep
		l.LineStyle.Color = plotutil.Color(i)
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(k, l)
	}
	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, strings.ToLower(format))
	if err != nil {
		return errors.Wrap(err, "plot")
	}
	_, err = wt.WriteTo(w)
	return errors.Wrap(err, "plot")
}
