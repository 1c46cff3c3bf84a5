// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package breadboard

// An Endpoint is one end of a wire: the node and the identity of its owner.
//
type Endpoint struct {
	Node *Node
	Key  string // owner key name
	ID   int    // owner id
	Pin  int    // pin index in the owner
}

func endpoint(n *Node) Endpoint {
	e := Endpoint{Node: n, Pin: n.id}
	if n.owner != nil {
		b := n.owner.Core()
		e.Key, e.ID = b.key, b.id
	}
	return e
}

// A Wire connects exactly two nodes. Wires are created by Circuit.Connect and
// destroyed by Circuit.Disconnect.
//
type Wire struct {
	Start Endpoint
	End   Endpoint
}

// Other returns the node at the opposite end of n. It returns nil if n is not
// one of w's endpoints.
//
func (w *Wire) Other(n *Node) *Node {
	switch n {
	case w.Start.Node:
		return w.End.Node
	case w.End.Node:
		return w.Start.Node
	}
	return nil
}

// Has returns true if n is one of w's endpoints.
//
func (w *Wire) Has(n *Node) bool {
	return n != nil && (w.Start.Node == n || w.End.Node == n)
}

func (w *Wire) String() string {
	return w.Start.Node.String() + "-" + w.End.Node.String()
}

// A WireFunc is called by a circuit when a wire is connected (added is true) or
// disconnected.
//
type WireFunc func(w *Wire, added bool)
