// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package breadboard

import "strconv"

// A Listener is called when a value is set on the node it is registered on.
// from is the node that sent the value; it is nil for values set directly by
// an element or an external driver.
//
type Listener func(value float64, from *Node)

// Mode selects when a listener is invoked.
//
type Mode int

// Listener modes.
//
const (
	Always   Mode = iota // on every SetValue call
	OnChange             // only when the stored value changes
)

type listener struct {
	fn   Listener
	mode Mode
}

// A Node is a single electrical connection point of an element.
//
// A Node is connected to at most one Wire. Values set on an unconnected node
// are stored and its listeners are notified, but nothing is forwarded through
// it.
//
type Node struct {
	label string
	id    int
	owner Element

	value float64
	wire  *Wire
	ls    []listener
	prop  *Propagator
}

// NewNode returns a new node for the given owner. id is the index of the node
// in its owner's pin list.
//
// Elements usually get their nodes from MakeBase.
//
func NewNode(label string, id int, owner Element) *Node {
	return &Node{label: label, id: id, owner: owner, prop: new(Propagator)}
}

// Label returns the node's role or pin name, like "POSITIVE" or "D13".
//
func (n *Node) Label() string { return n.label }

// ID returns the node's index in its owner's pin list.
//
func (n *Node) ID() int { return n.id }

// Owner returns the element the node belongs to.
//
func (n *Node) Owner() Element { return n.owner }

// Value returns the last value set on n.
//
func (n *Node) Value() float64 { return n.value }

// Wire returns the wire attached to n, or nil.
//
func (n *Node) Wire() *Wire { return n.wire }

// Connected returns true if a wire is attached to n.
//
func (n *Node) Connected() bool { return n.wire != nil }

// Peer returns the node at the other end of n's wire, or nil.
//
func (n *Node) Peer() *Node {
	if n.wire == nil {
		return nil
	}
	return n.wire.Other(n)
}

// AddValueListener registers fn to be called on every SetValue on n,
// whether the value changed or not.
//
func (n *Node) AddValueListener(fn Listener) {
	n.ls = append(n.ls, listener{fn, Always})
}

// AddChangeListener registers fn to be called only when SetValue changes the
// value stored in n.
//
func (n *Node) AddChangeListener(fn Listener) {
	n.ls = append(n.ls, listener{fn, OnChange})
}

// RemoveListeners drops all listeners registered on n.
//
func (n *Node) RemoveListeners() {
	n.ls = nil
}

// SetValue stores v in n and propagates it.
//
// Listeners run in registration order, before SetValue returns. If v differs
// from the stored value and n is connected, v is then forwarded to the node at
// the other end of the wire, unless that node is from.
//
// The returned error is non-nil only for the outermost call of a propagation
// pass that exceeded the maximum depth. Nested calls made from listeners can
// ignore it.
//
func (n *Node) SetValue(v float64, from *Node) (err error) {
	p := n.prop
	if !p.enter(n) {
		return p.fault
	}
	defer func() {
		if e := p.leave(); e != nil {
			err = e
		}
	}()

	changed := v != n.value
	n.value = v
	for _, l := range n.ls {
		if l.mode == OnChange && !changed {
			continue
		}
		l.fn(v, from)
	}
	if changed && n.wire != nil {
		if peer := n.wire.Other(n); peer != from {
			peer.SetValue(v, n)
		}
	}
	return nil
}

// Reset sets the stored value to 0 without notifying listeners.
//
func (n *Node) Reset() {
	n.value = 0
}

// String returns the fully qualified node name, like "LED1.POSITIVE".
//
func (n *Node) String() string {
	if n.owner == nil {
		return n.label
	}
	b := n.owner.Core()
	return b.key + strconv.Itoa(b.id) + "." + n.label
}
