package bbtest_test

import (
	"testing"

	bb "github.com/db47h/breadboard"
	"github.com/db47h/breadboard/bbtest"
)

type lamp struct{ bb.Base }

func (l *lamp) Init(env *bb.Env) error {
	l.Bind(env)
	l.Node(0).AddValueListener(func(v float64, _ *bb.Node) { l.Logic(v) })
	return nil
}

func (l *lamp) Logic(v float64) {
	if v > 0 {
		g := l.Env().Renderer.AddGlow(l.Part(0), "yellow")
		l.Env().Renderer.RemoveGlow(g - 1)
		return
	}
	l.Fill(0, bb.None)
	l.Notify("dark")
}

func (l *lamp) InitSimulation() error    { return nil }
func (l *lamp) CloseSimulation()         {}
func (l *lamp) HandleConnectionError()   {}
func (l *lamp) SaveData() bb.Data        { return nil }
func (l *lamp) LoadData(d bb.Data) error { return nil }

func newLamp() *lamp {
	l := new(lamp)
	l.Base = bb.MakeBase(l, "Lamp", 0, bb.Point{}, "IN", "OUT")
	return l
}

func TestBench(t *testing.T) {
	b := bbtest.New(t)
	l1, l2 := newLamp(), newLamp()
	b.Add(l1, l2)
	b.Connect(l1, "OUT", l2, "IN")

	b.Set(l1, "IN", 1)
	b.Set(l2, "IN", 0)
	if g := b.R.Glows(l1); len(g) != 1 || g[0] != "yellow" {
		t.Fatalf("got glows %v", g)
	}
	if g := b.R.Glows(l2); len(g) != 0 {
		t.Fatalf("got glows %v", g)
	}
	if f, ok := b.R.Fill(l2, 0); !ok || f != bb.None {
		t.Fatalf("got fill %q, %v", f, ok)
	}
	if b.N.Count("dark") != 1 {
		t.Fatalf("got notifications %v", b.N.Messages)
	}
	exp := "glow Lamp1[0] yellow\nunglow 0\nfill Lamp2[0] none"
	if d := b.Dump(); d != exp {
		t.Fatalf("got calls\n%s\nexpected\n%s", d, exp)
	}
}
