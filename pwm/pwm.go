// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pwm emulates the pulse width modulated outputs of a microcontroller.
//
// Values delivered to callbacks are the average pin voltage in hundredths of a
// volt at a 5V logic level, from 0 to 500. A consumer gets volts with
// value/100.
//
package pwm

import (
	"sort"

	bb "github.com/db47h/breadboard"
	"github.com/pkg/errors"
)

// Logic level and full scale of delivered values.
//
const (
	Vcc       = 5.0
	FullScale = Vcc * 100
)

// ErrNotCapable is returned when registering or writing on a pin without PWM
// support.
//
var ErrNotCapable = errors.New("pin is not PWM capable")

type registration struct {
	pin   *bb.Node
	owner bb.Element
	fn    bb.PWMFunc
}

// An Emulator manages the PWM outputs of one microcontroller.
//
type Emulator struct {
	capable map[int]bool
	regs    []*registration
	values  map[*bb.Node]float64
}

// New returns an emulator for the given PWM capable pin indices.
//
func New(pins ...int) *Emulator {
	e := &Emulator{
		capable: make(map[int]bool, len(pins)),
		values:  make(map[*bb.Node]float64),
	}
	for _, p := range pins {
		e.capable[p] = true
	}
	return e
}

// Capable returns true if the pin index i supports PWM.
//
func (e *Emulator) Capable(i int) bool { return e.capable[i] }

// Pins returns the PWM capable pin indices in increasing order.
//
func (e *Emulator) Pins() []int {
	out := make([]int, 0, len(e.capable))
	for p := range e.capable {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// AddPWM registers fn to be called with the PWM value of pin. Any previous
// registration by the same owner is replaced.
//
func (e *Emulator) AddPWM(pin *bb.Node, owner bb.Element, fn bb.PWMFunc) error {
	if !e.capable[pin.ID()] {
		return errors.Wrap(ErrNotCapable, pin.String())
	}
	for _, r := range e.regs {
		if r.owner == owner {
			r.pin, r.fn = pin, fn
			return nil
		}
	}
	e.regs = append(e.regs, &registration{pin: pin, owner: owner, fn: fn})
	return nil
}

// RemovePWM drops the registration of owner, if any.
//
func (e *Emulator) RemovePWM(owner bb.Element) {
	for i, r := range e.regs {
		if r.owner == owner {
			e.regs = append(e.regs[:i], e.regs[i+1:]...)
			return
		}
	}
}

// Registrations returns the number of active registrations.
//
func (e *Emulator) Registrations() int { return len(e.regs) }

// Set sets the raw value of pin, in hundredths of a volt, and notifies the
// callbacks registered on pin if it changed.
//
func (e *Emulator) Set(pin *bb.Node, value float64) error {
	if !e.capable[pin.ID()] {
		return errors.Wrap(ErrNotCapable, pin.String())
	}
	switch {
	case value < 0:
		value = 0
	case value > FullScale:
		value = FullScale
	}
	if old, ok := e.values[pin]; ok && old == value {
		return nil
	}
	e.values[pin] = value
	e.deliver(pin, value)
	return nil
}

// Write emulates an 8 bit analogWrite on pin.
//
func (e *Emulator) Write(pin *bb.Node, level uint8) error {
	return e.Set(pin, float64(level)*FullScale/255)
}

// SetDuty sets the duty cycle of pin, in percent.
//
func (e *Emulator) SetDuty(pin *bb.Node, percent float64) error {
	return e.Set(pin, percent*Vcc)
}

// Value returns the current raw value of pin.
//
func (e *Emulator) Value(pin *bb.Node) (float64, bool) {
	v, ok := e.values[pin]
	return v, ok
}

// Tick re-delivers the current value of every driven pin. It is meant to be
// called by an external tick source.
//
func (e *Emulator) Tick() {
	for _, r := range e.regs {
		if v, ok := e.values[r.pin]; ok {
			r.fn(v, r.pin)
		}
	}
}

// Reset drops all registrations and pin values.
//
func (e *Emulator) Reset() {
	e.regs = nil
	e.values = make(map[*bb.Node]float64)
}

func (e *Emulator) deliver(pin *bb.Node, v float64) {
	// callbacks may replace registrations
	regs := append([]*registration(nil), e.regs...)
	for _, r := range regs {
		if r.pin == pin {
			r.fn(v, pin)
		}
	}
}
