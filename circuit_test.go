package breadboard_test

import (
	"context"
	"testing"

	bb "github.com/db47h/breadboard"
	"github.com/pkg/errors"
)

func newCircuit(t *testing.T, ps ...*testPart) *bb.Circuit {
	t.Helper()
	c := bb.New()
	for _, p := range ps {
		if err := c.Add(p); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestCircuit_Connect(t *testing.T) {
	p1, p2, p3 := newTestPart(1), newTestPart(2), newTestPart(3)
	c := newCircuit(t, p1, p2)
	a, b := p1.Pin("A"), p2.Pin("B")

	w, err := c.Connect(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if a.Wire() != w || b.Wire() != w {
		t.Fatal("both endpoints must reference the new wire")
	}
	if w.Other(a) != b || w.Other(b) != a || w.Other(p1.Pin("B")) != nil {
		t.Fatal("wrong wire ends")
	}
	if w.Start.Key != "TestPart" || w.Start.ID != 1 || w.End.Pin != 1 {
		t.Fatalf("bad endpoint identity: %+v %+v", w.Start, w.End)
	}

	data := []struct {
		name string
		a, b *bb.Node
		err  error
	}{
		{"connected", a, p2.Pin("A"), bb.ErrConnected},
		{"connected_end", p1.Pin("B"), b, bb.ErrConnected},
		{"same", p1.Pin("B"), p1.Pin("B"), bb.ErrSameNode},
		{"foreign", p1.Pin("B"), p3.Pin("A"), bb.ErrForeignNode},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			wa, wb := d.a.Wire(), d.b.Wire()
			_, err := c.Connect(d.a, d.b)
			if errors.Cause(err) != d.err {
				t.Fatalf("got error %v, expected %v", err, d.err)
			}
			if d.a.Wire() != wa || d.b.Wire() != wb {
				t.Fatal("failed connect modified endpoints")
			}
		})
	}

	c.Disconnect(w)
	if a.Connected() || b.Connected() {
		t.Fatal("both endpoints must be cleared")
	}
	if len(c.Wires()) != 0 {
		t.Fatalf("got %d wires", len(c.Wires()))
	}
	// no-op
	c.Disconnect(w)
}

func TestCircuit_Watch(t *testing.T) {
	p1, p2 := newTestPart(1), newTestPart(2)
	c := newCircuit(t, p1, p2)
	var log []bool
	c.Watch(func(w *bb.Wire, added bool) {
		if added != (w.Start.Node.Wire() == w) {
			t.Error("watcher called before endpoints were updated")
		}
		log = append(log, added)
	})
	w, err := c.Connect(p1.Pin("A"), p2.Pin("A"))
	if err != nil {
		t.Fatal(err)
	}
	if err = c.Remove(p2); err != nil {
		t.Fatal(err)
	}
	if len(log) != 2 || !log[0] || log[1] {
		t.Fatalf("got watch log %v", log)
	}
	if p1.Pin("A").Connected() || w.End.Node.Connected() {
		t.Fatal("removing an element must disconnect its wires")
	}
}

func TestCircuit_Add(t *testing.T) {
	c := bb.New()
	p1, p2 := newTestPart(0), newTestPart(0)
	for _, p := range []*testPart{p1, p2} {
		if err := c.Add(p); err != nil {
			t.Fatal(err)
		}
	}
	if p1.ID() != 1 || p2.ID() != 2 {
		t.Fatalf("got ids %d, %d", p1.ID(), p2.ID())
	}
	if err := c.Add(p1); errors.Cause(err) != bb.ErrDuplicateElement {
		t.Fatalf("got %v, expected duplicate", err)
	}
	if err := c.Add(newTestPart(2)); errors.Cause(err) != bb.ErrDuplicateElement {
		t.Fatalf("got %v, expected duplicate id", err)
	}
	if c.Find("TestPart", 2) != bb.Element(p2) {
		t.Fatal("Find failed")
	}
	if n := len(c.FindKey("TestPart")); n != 2 {
		t.Fatalf("FindKey returned %d elements", n)
	}
	if err := c.Remove(newTestPart(9)); errors.Cause(err) != bb.ErrUnknownElement {
		t.Fatalf("got %v, expected unknown element", err)
	}
}

func TestCircuit_StartStop(t *testing.T) {
	p1, p2 := newTestPart(1), newTestPart(2)
	p2.failing = true
	c := newCircuit(t, p1, p2)
	ctx := context.Background()

	if err := c.Start(ctx); err == nil {
		t.Fatal("expected start error")
	}
	if !c.Running() {
		t.Fatal("circuit not running")
	}
	c.Start(ctx)
	if p1.starts != 1 || p2.starts != 1 {
		t.Fatalf("InitSimulation called %d, %d times", p1.starts, p2.starts)
	}

	p3 := newTestPart(3)
	if err := c.Add(p3); err != nil {
		t.Fatal(err)
	}
	if p3.starts != 1 {
		t.Fatal("element added while running was not started")
	}
	p1.Pin("A").SetValue(5, nil)

	c.Stop(ctx)
	c.Stop(ctx)
	for _, p := range []*testPart{p1, p2, p3} {
		if p.stops != 1 {
			t.Fatalf("%s%d: CloseSimulation called %d times", p.Key(), p.ID(), p.stops)
		}
	}
	if v := p1.Pin("A").Value(); v != 0 {
		t.Fatalf("node value %v after stop", v)
	}
	if c.Running() {
		t.Fatal("circuit still running")
	}
}

func TestCircuit_RemoveRunning(t *testing.T) {
	p := newTestPart(1)
	c := newCircuit(t, p)
	c.Start(context.Background())
	if err := c.Remove(p); err != nil {
		t.Fatal(err)
	}
	if p.stops != 1 {
		t.Fatal("removed element was not stopped")
	}
	p.Pin("A").SetValue(1, nil)
	if len(p.values) != 0 {
		t.Fatal("listeners of removed element still active")
	}
}

func TestCircuit_Snapshot(t *testing.T) {
	p1, p2 := newTestPart(1), newTestPart(2)
	p1.SetPos(bb.Point{X: 10, Y: 20})
	p2.data = bb.Data{"k": 42}
	c := newCircuit(t, p1, p2)
	if _, err := c.Connect(p1.Pin("B"), p2.Pin("A")); err != nil {
		t.Fatal(err)
	}

	s := c.Save()
	c2 := bb.New()
	if err := c2.Load(s, testPartFactory); err != nil {
		t.Fatal(err)
	}
	if len(c2.Elements()) != 2 || len(c2.Wires()) != 1 {
		t.Fatalf("got %d elements, %d wires", len(c2.Elements()), len(c2.Wires()))
	}
	q1 := c2.Find("TestPart", 1).(*testPart)
	q2 := c2.Find("TestPart", 2).(*testPart)
	if q1.Pos() != (bb.Point{X: 10, Y: 20}) {
		t.Fatalf("got position %v", q1.Pos())
	}
	if v, _ := q2.data.Int("k"); v != 42 {
		t.Fatalf("got data %v", q2.data)
	}
	if q1.Pin("B").Peer() != q2.Pin("A") {
		t.Fatal("wire not restored")
	}

	bad := bb.Snapshot{
		Elements: []bb.ElementRecord{{Key: "TestPart", ID: 1}},
		Wires:    []bb.WireRecord{{Start: bb.PinRef{Key: "TestPart", ID: 1, Pin: 0}, End: bb.PinRef{Key: "TestPart", ID: 7, Pin: 0}}},
	}
	if err := bb.New().Load(bad, testPartFactory); errors.Cause(err) != bb.ErrUnknownElement {
		t.Fatalf("got %v, expected unknown element", err)
	}
}

func TestCircuit_LoadRollback(t *testing.T) {
	p := newTestPart(5)
	c := newCircuit(t, p)
	bad := bb.Snapshot{
		Elements: []bb.ElementRecord{{Key: "TestPart", ID: 1}, {Key: "TestPart", ID: 2}},
		Wires: []bb.WireRecord{
			{Start: bb.PinRef{Key: "TestPart", ID: 1, Pin: 0}, End: bb.PinRef{Key: "TestPart", ID: 5, Pin: 0}},
			{Start: bb.PinRef{Key: "TestPart", ID: 2, Pin: 0}, End: bb.PinRef{Key: "TestPart", ID: 7, Pin: 0}},
		},
	}
	if err := c.Load(bad, testPartFactory); errors.Cause(err) != bb.ErrUnknownElement {
		t.Fatalf("got %v, expected unknown element", err)
	}
	if len(c.Elements()) != 1 || c.Elements()[0] != bb.Element(p) {
		t.Fatalf("got %d elements after failed load", len(c.Elements()))
	}
	if len(c.Wires()) != 0 || p.Pin("A").Connected() {
		t.Fatal("wires left behind by failed load")
	}
}
