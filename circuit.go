// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package breadboard

import (
	"context"
	"strconv"

	"github.com/db47h/breadboard/internal/logging"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/db47h/breadboard"

// Metrics receives simulation events. See package internal/metrics for a
// Prometheus implementation.
//
type Metrics interface {
	PropagationPass()
	CycleFault()
	ConnectionError()
	SimulationStarted()
	SimulationStopped()
	SetElements(n int)
	SetWires(n int)
}

type nopMetrics struct{}

func (nopMetrics) PropagationPass()   {}
func (nopMetrics) CycleFault()        {}
func (nopMetrics) ConnectionError()   {}
func (nopMetrics) SimulationStarted() {}
func (nopMetrics) SimulationStopped() {}
func (nopMetrics) SetElements(int)    {}
func (nopMetrics) SetWires(int)       {}

// An Option configures a Circuit.
//
type Option func(*Circuit)

// WithMaxDepth sets the maximum propagation depth.
//
func WithMaxDepth(n int) Option { return func(c *Circuit) { c.prop.MaxDepth = n } }

// WithLogger sets the circuit logger. Elements log through it too.
//
func WithLogger(l logging.Logger) Option { return func(c *Circuit) { c.log = l } }

// WithRenderer sets the rendering collaborator.
//
func WithRenderer(r Renderer) Option { return func(c *Circuit) { c.env.Renderer = r } }

// WithNotifier sets the notification collaborator.
//
func WithNotifier(n Notifier) Option { return func(c *Circuit) { c.env.Notifier = n } }

// WithMetrics sets the metrics sink.
//
func WithMetrics(m Metrics) Option { return func(c *Circuit) { c.metrics = m } }

// WithFaultHandler sets a function called with every propagation fault
// (currently only *CycleError).
//
func WithFaultHandler(fn func(error)) Option { return func(c *Circuit) { c.onFault = fn } }

// WithTracer overrides the OpenTelemetry tracer used for simulation spans.
//
func WithTracer(t trace.Tracer) Option { return func(c *Circuit) { c.tracer = t } }

// Circuit is the registry of the elements and wires of a breadboard. It also
// drives simulation runs.
//
// A Circuit is not safe for concurrent use. All wiring edits, pin writes and
// PWM ticks must happen on the same goroutine.
//
type Circuit struct {
	prop     Propagator
	env      Env
	log      logging.Logger
	metrics  Metrics
	tracer   trace.Tracer
	onFault  func(error)
	elements []Element
	wires    []*Wire
	watchers []WireFunc
	running  bool
}

// New returns a new empty circuit.
//
func New(opts ...Option) *Circuit {
	c := &Circuit{
		log:     logging.Noop(),
		metrics: nopMetrics{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	c.env.Log = c.log
	c.env.fill()
	inner := c.env.Notifier
	c.env.Notifier = NotifierFunc(func(msg string) {
		c.metrics.ConnectionError()
		inner.Notify(msg)
	})
	c.prop.onPass = c.metrics.PropagationPass
	c.prop.onFault = c.fault
	return c
}

func (c *Circuit) fault(err error) {
	c.log.Warn(context.Background(), "propagation fault", logging.Error(err))
	c.metrics.CycleFault()
	if c.onFault != nil {
		c.onFault(err)
	}
}

// Propagator returns the propagator shared by all nodes in the circuit.
//
func (c *Circuit) Propagator() *Propagator { return &c.prop }

// Running returns true between Start and Stop.
//
func (c *Circuit) Running() bool { return c.running }

// Elements returns the circuit elements in insertion order.
//
func (c *Circuit) Elements() []Element {
	return append([]Element(nil), c.elements...)
}

// Wires returns the circuit wires in creation order.
//
func (c *Circuit) Wires() []*Wire {
	return append([]*Wire(nil), c.wires...)
}

// Find returns the element with the given key and id, or nil.
//
func (c *Circuit) Find(key string, id int) Element {
	for _, e := range c.elements {
		if b := e.Core(); b.key == key && b.id == id {
			return e
		}
	}
	return nil
}

// FindKey returns all elements with the given key.
//
func (c *Circuit) FindKey(key string) []Element {
	var out []Element
	for _, e := range c.elements {
		if e.Core().key == key {
			out = append(out, e)
		}
	}
	return out
}

// Watch registers fn to be called on every wire connection and disconnection.
//
func (c *Circuit) Watch(fn WireFunc) {
	c.watchers = append(c.watchers, fn)
}

func (c *Circuit) index(e Element) int {
	for i, x := range c.elements {
		if x == e {
			return i
		}
	}
	return -1
}

func (c *Circuit) nextID(key string) int {
	id := 0
	for _, e := range c.elements {
		if b := e.Core(); b.key == key && b.id > id {
			id = b.id
		}
	}
	return id + 1
}

// Add adds e to the circuit and calls its Init method. If e has a zero id, a
// new id unique for its key is assigned.
//
// If a simulation is running, e.InitSimulation is called as well.
//
func (c *Circuit) Add(e Element) error {
	b := e.Core()
	if c.index(e) >= 0 {
		return errors.Wrap(ErrDuplicateElement, b.key+strconv.Itoa(b.id))
	}
	if b.id == 0 {
		b.id = c.nextID(b.key)
	} else if c.Find(b.key, b.id) != nil {
		return errors.Wrap(ErrDuplicateElement, b.key+strconv.Itoa(b.id))
	}
	b.Bind(&c.env)
	b.bindNodes(&c.prop)
	if err := e.Init(b.env); err != nil {
		b.unbindNodes()
		return errors.Wrap(err, "init "+b.key+strconv.Itoa(b.id))
	}
	c.elements = append(c.elements, e)
	c.metrics.SetElements(len(c.elements))
	if c.running {
		if err := e.InitSimulation(); err != nil {
			return errors.Wrap(err, "start "+b.key+strconv.Itoa(b.id))
		}
	}
	return nil
}

// Remove disconnects all wires attached to e, closes its simulation if one is
// running, detaches its external registrations and listeners and removes it
// from the circuit.
//
func (c *Circuit) Remove(e Element) error {
	i := c.index(e)
	if i < 0 {
		b := e.Core()
		return errors.Wrap(ErrUnknownElement, b.key+strconv.Itoa(b.id))
	}
	b := e.Core()
	for _, n := range b.nodes {
		if n.wire != nil {
			c.Disconnect(n.wire)
		}
	}
	if c.running {
		e.CloseSimulation()
	}
	if d, ok := e.(Destroyer); ok {
		d.Destroy()
	}
	b.unbindNodes()
	c.elements = append(c.elements[:i], c.elements[i+1:]...)
	c.metrics.SetElements(len(c.elements))
	return nil
}

// Connect creates a wire between a and b. Both nodes must belong to elements
// of c and must not be connected already. Either both nodes reference the new
// wire or, on error, none does.
//
func (c *Circuit) Connect(a, b *Node) (*Wire, error) {
	switch {
	case a == nil || b == nil:
		return nil, errors.New("nil pin")
	case a == b:
		return nil, errors.Wrap(ErrSameNode, a.String())
	case a.prop != &c.prop:
		return nil, errors.Wrap(ErrForeignNode, a.String())
	case b.prop != &c.prop:
		return nil, errors.Wrap(ErrForeignNode, b.String())
	case a.wire != nil:
		return nil, errors.Wrap(ErrConnected, a.String())
	case b.wire != nil:
		return nil, errors.Wrap(ErrConnected, b.String())
	}
	w := &Wire{Start: endpoint(a), End: endpoint(b)}
	a.wire, b.wire = w, w
	c.wires = append(c.wires, w)
	c.metrics.SetWires(len(c.wires))
	for _, fn := range c.watchers {
		fn(w, true)
	}
	return w, nil
}

// Disconnect removes w from the circuit and clears both endpoints. It is a
// no-op if w is not part of c.
//
func (c *Circuit) Disconnect(w *Wire) {
	i := -1
	for j, x := range c.wires {
		if x == w {
			i = j
			break
		}
	}
	if i < 0 {
		return
	}
	if w.Start.Node.wire == w {
		w.Start.Node.wire = nil
	}
	if w.End.Node.wire == w {
		w.End.Node.wire = nil
	}
	c.wires = append(c.wires[:i], c.wires[i+1:]...)
	c.metrics.SetWires(len(c.wires))
	for _, fn := range c.watchers {
		fn(w, false)
	}
}

// Start starts a simulation run: InitSimulation is called once on every
// element, in insertion order. An element failing to start does not prevent
// the others from starting; the first error is returned.
//
// Start is a no-op if a simulation is already running.
//
func (c *Circuit) Start(ctx context.Context) error {
	if c.running {
		return nil
	}
	ctx, span := c.tracer.Start(ctx, "circuit.Start",
		trace.WithAttributes(
			attribute.Int("elements", len(c.elements)),
			attribute.Int("wires", len(c.wires)),
		))
	defer span.End()

	c.running = true
	var first error
	for _, e := range c.elements {
		if err := e.InitSimulation(); err != nil {
			b := e.Core()
			err = errors.Wrap(err, "start "+b.key+strconv.Itoa(b.id))
			c.log.Warn(ctx, "element failed to start", logging.Element(b.key, b.id), logging.Error(err))
			span.RecordError(err)
			if first == nil {
				first = err
			}
		}
	}
	if first != nil {
		span.SetStatus(codes.Error, first.Error())
	}
	c.metrics.SimulationStarted()
	c.log.Info(ctx, "simulation started", logging.Int("elements", len(c.elements)))
	return first
}

// Stop ends a simulation run. CloseSimulation is called exactly once on every
// element, then all node values are reset to 0. Stop is a no-op if no
// simulation is running.
//
func (c *Circuit) Stop(ctx context.Context) {
	if !c.running {
		return
	}
	ctx, span := c.tracer.Start(ctx, "circuit.Stop",
		trace.WithAttributes(attribute.Int64("passes", int64(c.prop.passes))))
	defer span.End()

	for _, e := range c.elements {
		e.CloseSimulation()
	}
	for _, e := range c.elements {
		for _, n := range e.Core().nodes {
			n.Reset()
		}
	}
	c.running = false
	c.metrics.SimulationStopped()
	c.log.Info(ctx, "simulation stopped")
}
