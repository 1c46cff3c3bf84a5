package breadboard_test

import (
	"testing"

	bb "github.com/db47h/breadboard"
)

func TestNode_SetValue_listeners(t *testing.T) {
	n := bb.NewNode("IN", 0, nil)
	var always, change []float64
	n.AddValueListener(func(v float64, _ *bb.Node) { always = append(always, v) })
	n.AddChangeListener(func(v float64, _ *bb.Node) { change = append(change, v) })

	for _, v := range []float64{5, 5, 0, 0, 3} {
		if err := n.SetValue(v, nil); err != nil {
			t.Fatal(err)
		}
	}
	if len(always) != 5 {
		t.Fatalf("value listener called %d times, expected 5", len(always))
	}
	exp := []float64{5, 0, 3}
	if len(change) != len(exp) {
		t.Fatalf("change listener got %v, expected %v", change, exp)
	}
	for i := range exp {
		if change[i] != exp[i] {
			t.Fatalf("change listener got %v, expected %v", change, exp)
		}
	}
	if n.Value() != 3 {
		t.Fatalf("got value %v, expected 3", n.Value())
	}
}

func TestNode_listenerOrder(t *testing.T) {
	n := bb.NewNode("IN", 0, nil)
	var order []int
	for i := 0; i < 4; i++ {
		i := i
		n.AddValueListener(func(float64, *bb.Node) { order = append(order, i) })
	}
	n.SetValue(1, nil)
	for i, v := range order {
		if i != v {
			t.Fatalf("listeners called in order %v", order)
		}
	}
	n.RemoveListeners()
	n.SetValue(2, nil)
	if len(order) != 4 {
		t.Fatalf("removed listeners still called")
	}
}

func TestNode_forward(t *testing.T) {
	b := bb.New()
	p1, p2 := newTestPart(1), newTestPart(2)
	for _, p := range []*testPart{p1, p2} {
		if err := b.Add(p); err != nil {
			t.Fatal(err)
		}
	}
	a, z := p1.Pin("B"), p2.Pin("A")
	if _, err := b.Connect(a, z); err != nil {
		t.Fatal(err)
	}
	var from *bb.Node
	z.AddValueListener(func(_ float64, f *bb.Node) { from = f })

	a.SetValue(5, nil)
	if z.Value() != 5 || from != a {
		t.Fatalf("got value %v from %v, expected 5 from %v", z.Value(), from, a)
	}
	// same value: not forwarded
	from = nil
	a.SetValue(5, nil)
	if from != nil {
		t.Fatal("unchanged value forwarded")
	}
	if got := len(p2.values); got != 1 {
		t.Fatalf("peer logic called %d times, expected 1", got)
	}
}

func TestNode_unconnected(t *testing.T) {
	p := newTestPart(1)
	n := p.Pin("A")
	if n.Connected() || n.Wire() != nil || n.Peer() != nil {
		t.Fatal("new node is connected")
	}
	if err := n.SetValue(4, nil); err != nil {
		t.Fatal(err)
	}
	if n.Value() != 4 {
		t.Fatalf("got %v, expected 4", n.Value())
	}
	if s := n.String(); s != "TestPart1.A" {
		t.Fatalf("got name %q", s)
	}
}
