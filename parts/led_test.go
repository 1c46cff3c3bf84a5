package parts_test

import (
	"context"
	"testing"

	bb "github.com/db47h/breadboard"
	"github.com/db47h/breadboard/bbtest"
	"github.com/db47h/breadboard/parts"
)

const (
	redGlow   = bb.Fill("r(0.5, 0.5)rgba(255,0,0,1)-rgba(255,0,0,0)")
	notWired  = "LED is not Connected properly"
	ledGlowID = 3
)

func newUno(t *testing.T) *parts.Uno {
	t.Helper()
	u, err := parts.NewUno(0, bb.Point{})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func newLED(t *testing.T) *parts.LED {
	t.Helper()
	l, err := parts.NewLED(0, bb.Point{})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// ledBench wires an LED to D<pin> (POSITIVE) and GND (NEGATIVE) and starts
// the simulation.
//
func ledBench(t *testing.T, pin string) (*bbtest.Bench, *parts.Uno, *parts.LED) {
	t.Helper()
	b := bbtest.New(t)
	u, l := newUno(t), newLED(t)
	b.Add(u, l)
	b.Connect(u, pin, l, "POSITIVE")
	b.Connect(l, "NEGATIVE", u, "GND")
	if err := b.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return b, u, l
}

func glowOf(t *testing.T, b *bbtest.Bench, l *parts.LED) bb.Fill {
	t.Helper()
	f, ok := b.R.Fill(l, ledGlowID)
	if !ok {
		t.Fatal("LED glow never set")
	}
	return f
}

func TestLED_threshold(t *testing.T) {
	b, u, l := ledBench(t, "D13")
	data := []struct {
		v    float64
		glow bb.Fill
	}{
		{5, redGlow},
		{4, bb.None},
		{7.5, redGlow},
		{0, bb.None},
	}
	for _, d := range data {
		b.Set(u, "D13", d.v)
		if g := glowOf(t, b, l); g != d.glow {
			t.Fatalf("value %v: got glow %q, expected %q", d.v, g, d.glow)
		}
		if v := l.Pin("POSITIVE").Value(); v != d.v {
			t.Fatalf("value %v: POSITIVE holds %v", d.v, v)
		}
	}
	if len(b.N.Messages) != 0 {
		t.Fatalf("unexpected notifications: %v", b.N.Messages)
	}
}

func TestLED_dedup(t *testing.T) {
	b, _, l := ledBench(t, "D13")
	b.Set(l, "POSITIVE", 5)
	b.R.Reset()
	b.Set(l, "POSITIVE", 5)
	b.Set(l, "NEGATIVE", 5)
	if calls := b.R.Calls(); len(calls) != 0 {
		t.Fatalf("repeated value re-rendered: %v", calls)
	}
}

func TestLED_digital(t *testing.T) {
	b, u, l := ledBench(t, "D13")
	if err := u.DigitalWrite(13, true); err != nil {
		t.Fatal(err)
	}
	if g := glowOf(t, b, l); g != redGlow {
		t.Fatalf("got glow %q", g)
	}
	if err := u.DigitalWrite(13, false); err != nil {
		t.Fatal(err)
	}
	if g := glowOf(t, b, l); g != bb.None {
		t.Fatalf("got glow %q", g)
	}
}

func TestLED_unwired(t *testing.T) {
	b := bbtest.New(t)
	u, l := newUno(t), newLED(t)
	b.Add(u, l)
	b.Connect(u, "D13", l, "POSITIVE")
	b.Start(context.Background())

	b.Set(u, "D13", 5)
	if g := glowOf(t, b, l); g != bb.None {
		t.Fatalf("got glow %q", g)
	}
	if n := b.N.Count(notWired); n != 1 {
		t.Fatalf("got %d notifications", n)
	}
	// nothing forwarded back
	if v := l.Pin("NEGATIVE").Value(); v != 0 {
		t.Fatalf("NEGATIVE holds %v", v)
	}
}

func TestLED_wireRemovedWhileRunning(t *testing.T) {
	b, u, l := ledBench(t, "D13")
	b.Set(u, "D13", 5)
	if g := glowOf(t, b, l); g != redGlow {
		t.Fatalf("got glow %q", g)
	}
	b.Disconnect(l.Pin("NEGATIVE").Wire())
	b.Set(u, "D13", 0)
	if g := glowOf(t, b, l); g != bb.None {
		t.Fatalf("got glow %q", g)
	}
	if n := b.N.Count(notWired); n != 1 {
		t.Fatalf("got %d notifications", n)
	}
}

func TestLED_PWM(t *testing.T) {
	b, u, l := ledBench(t, "D3")
	if n := u.PWM().Registrations(); n != 1 {
		t.Fatalf("got %d PWM registrations", n)
	}
	if err := u.PWM().SetDuty(u.Pin("D3"), 50); err != nil {
		t.Fatal(err)
	}
	b.Set(u, "D3", 2.5)
	if on, v := l.PWM(); !on || v != 2.5 {
		t.Fatalf("got PWM %v, %v", on, v)
	}
	exp := bb.Fill("r(0.5, 0.5)rgba(255,0,0,4.5)-rgba(255,0,0,0)")
	if g := glowOf(t, b, l); g != exp {
		t.Fatalf("got glow %q, expected %q", g, exp)
	}

	if err := u.AnalogWrite(3, 255); err != nil {
		t.Fatal(err)
	}
	exp = "r(0.5, 0.5)rgba(255,0,0,9)-rgba(255,0,0,0)"
	if g := glowOf(t, b, l); g != exp {
		t.Fatalf("got glow %q, expected %q", g, exp)
	}

	b.Stop(context.Background())
	if on, v := l.PWM(); on || v != 0 {
		t.Fatalf("PWM state kept after stop: %v, %v", on, v)
	}
	if g := glowOf(t, b, l); g != bb.None {
		t.Fatalf("got glow %q after stop", g)
	}
	if n := u.PWM().Registrations(); n != 0 {
		t.Fatalf("got %d PWM registrations after stop", n)
	}
}

func TestLED_PWMReattach(t *testing.T) {
	b, u, l := ledBench(t, "D5")
	if err := l.InitSimulation(); err != nil {
		t.Fatal(err)
	}
	if n := u.PWM().Registrations(); n != 1 {
		t.Fatalf("got %d PWM registrations, expected 1", n)
	}
	ctx := context.Background()
	b.Stop(ctx)
	b.Start(ctx)
	if n := u.PWM().Registrations(); n != 1 {
		t.Fatalf("got %d PWM registrations after restart, expected 1", n)
	}
	if err := b.Remove(l); err != nil {
		t.Fatal(err)
	}
	if n := u.PWM().Registrations(); n != 0 {
		t.Fatalf("got %d PWM registrations after removal", n)
	}
}

func TestLED_PWMRewire(t *testing.T) {
	b := bbtest.New(t)
	u1, u2, l := newUno(t), newUno(t), newLED(t)
	b.Add(u1, u2, l)
	w := b.Connect(u1, "D3", l, "POSITIVE")
	b.Connect(l, "NEGATIVE", u1, "GND")
	if err := b.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := u1.PWM().Registrations(); n != 1 {
		t.Fatalf("got %d PWM registrations on first board, expected 1", n)
	}

	b.Disconnect(w)
	w = b.Connect(u2, "D5", l, "POSITIVE")
	if err := l.InitSimulation(); err != nil {
		t.Fatal(err)
	}
	if n1, n2 := u1.PWM().Registrations(), u2.PWM().Registrations(); n1 != 0 || n2 != 1 {
		t.Fatalf("after rewire: got %d/%d PWM registrations, expected 0/1", n1, n2)
	}

	b.Disconnect(w)
	if err := l.InitSimulation(); err != nil {
		t.Fatal(err)
	}
	if n1, n2 := u1.PWM().Registrations(), u2.PWM().Registrations(); n1 != 0 || n2 != 0 {
		t.Fatalf("after unwire: got %d/%d PWM registrations, expected 0/0", n1, n2)
	}
	if on, _ := l.PWM(); on {
		t.Fatal("LED still driven by PWM after unwire")
	}
}

func TestLED_PWMThroughResistor(t *testing.T) {
	b := bbtest.New(t)
	u, l := newUno(t), newLED(t)
	r, err := parts.NewResistor(0, bb.Point{})
	if err != nil {
		t.Fatal(err)
	}
	b.Add(u, r, l)
	b.Connect(u, "D6", r, "TERMINAL1")
	b.Connect(r, "TERMINAL2", l, "POSITIVE")
	b.Connect(l, "NEGATIVE", u, "GND")
	b.Start(context.Background())

	if n := u.PWM().Registrations(); n != 1 {
		t.Fatalf("got %d PWM registrations", n)
	}
	if err = u.AnalogWrite(6, 255); err != nil {
		t.Fatal(err)
	}
	if v := l.Pin("POSITIVE").Value(); v != 5 {
		t.Fatalf("POSITIVE holds %v", v)
	}
	exp := bb.Fill("r(0.5, 0.5)rgba(255,0,0,9)-rgba(255,0,0,0)")
	if g := glowOf(t, b, l); g != exp {
		t.Fatalf("got glow %q, expected %q", g, exp)
	}
}

func TestLED_noPWM(t *testing.T) {
	_, u, _ := ledBench(t, "D13")
	if n := u.PWM().Registrations(); n != 0 {
		t.Fatalf("got %d PWM registrations on a non PWM pin", n)
	}
}

func TestLED_closeWithoutInit(t *testing.T) {
	l := newLED(t)
	l.CloseSimulation()
	l.CloseSimulation()
	if on, _ := l.PWM(); on {
		t.Fatal("PWM attached")
	}
}

func TestLED_data(t *testing.T) {
	b := bbtest.New(t)
	l := newLED(t)
	b.Add(l)
	if f, _ := b.R.Fill(l, 0); f != "#ff0000" {
		t.Fatalf("got body fill %q", f)
	}
	l.SetColor(2)
	if f, _ := b.R.Fill(l, 0); f != "#0000ff" {
		t.Fatalf("got body fill %q", f)
	}
	if n := l.Name(); n != "LED Blue" {
		t.Fatalf("got name %q", n)
	}

	data := []struct {
		in    bb.Data
		color int
		err   bool
	}{
		{l.SaveData(), 2, false},
		{bb.Data{"color": 3.0}, 3, false},
		{bb.Data{"color": 99}, 5, false},
		{bb.Data{"color": -1}, 0, false},
		{bb.Data{"color": "x"}, 0, true},
		{bb.Data{}, 0, true},
	}
	for _, d := range data {
		l2 := newLED(t)
		err := l2.LoadData(d.in)
		if d.err {
			if err == nil {
				t.Fatalf("LoadData(%v): expected error", d.in)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		if c := l2.Color(); c != d.color {
			t.Fatalf("LoadData(%v): got color %d, expected %d", d.in, c, d.color)
		}
	}
}
