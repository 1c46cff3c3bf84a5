// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package breadboard

import (
	"context"
	"math"

	"github.com/db47h/breadboard/internal/logging"
)

// Element is the contract every simulable component implements.
//
// The lifecycle of an element is:
//
//	construction (pins fixed) -> Init -> [InitSimulation -> Logic... -> CloseSimulation]* -> removal
//
// Logic is usually called from listeners registered in Init.
// CloseSimulation must be idempotent and safe to call when InitSimulation was
// never called or found nothing to attach.
//
type Element interface {
	// Core returns the element's common state.
	Core() *Base
	// Init registers listeners and restores static definition data.
	Init(env *Env) error
	// Logic evaluates the element for a new input value.
	Logic(value float64)
	// InitSimulation is called once when a simulation run starts.
	InitSimulation() error
	// CloseSimulation is called once when a simulation run stops.
	CloseSimulation()
	// HandleConnectionError resets the visual output after a wiring error.
	HandleConnectionError()
	// SaveData returns the component specific persisted state.
	SaveData() Data
	// LoadData restores state returned by SaveData.
	LoadData(d Data) error
}

// A Destroyer is an element holding registrations outside of its own nodes,
// typically PWM callbacks. Destroy is called when the element is removed from
// its circuit.
//
type Destroyer interface {
	Destroy()
}

// Passive is implemented by elements that let values flow through them
// unchanged, like resistors. Conducts returns the nodes of the element
// reachable from n.
//
type Passive interface {
	Element
	Conducts(n *Node) []*Node
}

// PWMFunc is called with the raw PWM value of a pin, in hundredths of a volt.
//
type PWMFunc func(value float64, pin *Node)

// PWMController is implemented by microcontrollers with PWM capable pins.
// There is at most one registration per owner: AddPWM replaces any previous
// registration of the same owner.
//
type PWMController interface {
	Element
	AddPWM(pin *Node, owner Element, fn PWMFunc) error
	RemovePWM(owner Element)
	PWMCapable(pin *Node) bool
}

// Point is an element position on the board.
//
type Point struct {
	X, Y float64
}

// Base holds the state common to all elements. Concrete elements embed a Base
// built with MakeBase.
//
type Base struct {
	key   string
	id    int
	pos   Point
	nodes []*Node
	env   *Env
}

// MakeBase returns a Base for owner with one node per label. The node count
// and labels never change afterwards.
//
func MakeBase(owner Element, key string, id int, pos Point, labels ...string) Base {
	p := new(Propagator)
	nodes := make([]*Node, len(labels))
	for i, l := range labels {
		nodes[i] = &Node{label: l, id: i, owner: owner, prop: p}
	}
	return Base{key: key, id: id, pos: pos, nodes: nodes, env: new(Env).fill()}
}

// Core implements Element.
//
func (b *Base) Core() *Base { return b }

// Key returns the component type tag, like "LED".
//
func (b *Base) Key() string { return b.key }

// ID returns the element id, unique per key within a circuit.
//
func (b *Base) ID() int { return b.id }

// Pos returns the element position.
//
func (b *Base) Pos() Point { return b.pos }

// SetPos moves the element.
//
func (b *Base) SetPos(p Point) { b.pos = p }

// Nodes returns the element's nodes in pin order.
//
func (b *Base) Nodes() []*Node { return b.nodes }

// Node returns the i-th node.
//
func (b *Base) Node(i int) *Node { return b.nodes[i] }

// Pin returns the node with the given label.
// This function panics if the pin does not exist.
//
func (b *Base) Pin(label string) *Node {
	for _, n := range b.nodes {
		if n.label == label {
			return n
		}
	}
	panic("pin " + label + " does not exist on " + b.key)
}

// PinMap returns the nodes indexed by label.
//
func (b *Base) PinMap() map[string]*Node {
	m := make(map[string]*Node, len(b.nodes))
	for _, n := range b.nodes {
		m[n.label] = n
	}
	return m
}

// Bind attaches env to the element. It is called by Circuit.Add before Init;
// elements used outside of a circuit can call it from their Init.
//
func (b *Base) Bind(env *Env) {
	if env == nil {
		env = new(Env)
	}
	b.env = env.fill()
}

// Env returns the element's collaborators.
//
func (b *Base) Env() *Env { return b.env }

// Log returns the element logger.
//
func (b *Base) Log() logging.Logger {
	return b.env.Log
}

// Part returns the handle of the i-th drawable sub-part.
//
func (b *Base) Part(i int) Part { return Part{Key: b.key, ID: b.id, Index: i} }

// Fill sets the fill of the i-th sub-part.
//
func (b *Base) Fill(i int, f Fill) { b.env.Renderer.SetFill(b.Part(i), f) }

// Notify sends a user notice and logs it.
//
func (b *Base) Notify(msg string) {
	b.env.Log.Debug(context.Background(), msg, logging.Element(b.key, b.id))
	b.env.Notifier.Notify(msg)
}

// AllConnected returns true if every given node is wired.
//
func AllConnected(nodes ...*Node) bool {
	for _, n := range nodes {
		if !n.Connected() {
			return false
		}
	}
	return true
}

func (b *Base) bindNodes(p *Propagator) {
	for _, n := range b.nodes {
		n.prop = p
	}
}

func (b *Base) unbindNodes() {
	p := new(Propagator)
	for _, n := range b.nodes {
		n.prop = p
		n.RemoveListeners()
	}
}

// Data is the component specific persisted state of an element.
//
type Data map[string]any

// Int returns d[key] as an int. Decoders produce various numeric types, all
// of them are accepted. Non integral floats are rejected.
//
func (d Data) Int(key string) (int, bool) {
	switch v := d[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	}
	return 0, false
}

// Float returns d[key] as a float64.
//
func (d Data) Float(key string) (float64, bool) {
	switch v := d[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
