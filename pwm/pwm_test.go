package pwm_test

import (
	"testing"

	bb "github.com/db47h/breadboard"
	"github.com/db47h/breadboard/pwm"
	"github.com/pkg/errors"
)

type owner struct{ bb.Base }

func (o *owner) Init(*bb.Env) error       { return nil }
func (o *owner) Logic(float64)            {}
func (o *owner) InitSimulation() error    { return nil }
func (o *owner) CloseSimulation()         {}
func (o *owner) HandleConnectionError()   {}
func (o *owner) SaveData() bb.Data        { return nil }
func (o *owner) LoadData(d bb.Data) error { return nil }

func newOwner(id int) *owner {
	o := new(owner)
	o.Base = bb.MakeBase(o, "Owner", id, bb.Point{}, "P0", "P1", "P2", "P3")
	return o
}

func TestEmulator(t *testing.T) {
	mcu := newOwner(1)
	e := pwm.New(3, 1)
	if got := e.Pins(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("got pins %v", got)
	}
	l1, l2 := newOwner(2), newOwner(3)
	var v1, v2 []float64
	if err := e.AddPWM(mcu.Node(3), l1, func(v float64, _ *bb.Node) { v1 = append(v1, v) }); err != nil {
		t.Fatal(err)
	}
	if err := e.AddPWM(mcu.Node(1), l2, func(v float64, _ *bb.Node) { v2 = append(v2, v) }); err != nil {
		t.Fatal(err)
	}
	if err := e.AddPWM(mcu.Node(2), l2, nil); errors.Cause(err) != pwm.ErrNotCapable {
		t.Fatalf("got %v, expected ErrNotCapable", err)
	}

	data := []struct {
		pin  int
		raw  float64
		want float64
	}{
		{3, 250, 250},
		{3, 250, -1}, // unchanged: no delivery
		{3, 900, 500},
		{3, -4, 0},
	}
	for _, d := range data {
		n := len(v1)
		if err := e.Set(mcu.Node(d.pin), d.raw); err != nil {
			t.Fatal(err)
		}
		if d.want < 0 {
			if len(v1) != n {
				t.Fatalf("Set(%v): unchanged value delivered", d.raw)
			}
			continue
		}
		if len(v1) != n+1 || v1[n] != d.want {
			t.Fatalf("Set(%v): got %v, expected %v", d.raw, v1, d.want)
		}
	}
	if len(v2) != 0 {
		t.Fatalf("value delivered to wrong pin: %v", v2)
	}

	e.Write(mcu.Node(1), 255)
	e.SetDuty(mcu.Node(3), 50)
	if len(v2) != 1 || v2[0] != 500 || v1[len(v1)-1] != 250 {
		t.Fatalf("got %v, %v", v1, v2)
	}

	e.Tick()
	if len(v2) != 2 {
		t.Fatal("Tick did not re-deliver")
	}
}

func TestEmulator_replace(t *testing.T) {
	mcu, led := newOwner(1), newOwner(2)
	e := pwm.New(3, 5)
	var a, b int
	e.AddPWM(mcu.Node(3), led, func(float64, *bb.Node) { a++ })
	e.AddPWM(mcu.Node(3), led, func(float64, *bb.Node) { b++ })
	if n := e.Registrations(); n != 1 {
		t.Fatalf("got %d registrations, expected 1", n)
	}
	e.Set(mcu.Node(3), 100)
	if a != 0 || b != 1 {
		t.Fatalf("got calls %d, %d", a, b)
	}
	e.RemovePWM(led)
	e.Set(mcu.Node(3), 200)
	if b != 1 || e.Registrations() != 0 {
		t.Fatal("removed registration still active")
	}
	if v, ok := e.Value(mcu.Node(3)); !ok || v != 200 {
		t.Fatalf("got value %v, %v", v, ok)
	}
	e.Reset()
	if _, ok := e.Value(mcu.Node(3)); ok {
		t.Fatal("value kept after reset")
	}
}
