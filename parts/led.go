// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"context"

	bb "github.com/db47h/breadboard"
	"github.com/db47h/breadboard/internal/defs"
	"github.com/db47h/breadboard/internal/logging"
	"github.com/db47h/breadboard/palette"
	"github.com/pkg/errors"
)

// LED drawable parts.
//
const (
	ledBody = 0
	ledGlow = 3
)

// ledUnset is the last-value sentinel of an LED that has not seen any value.
//
const ledUnset = -2

// LED is a single color LED.
//
// Pin 0 (NEGATIVE) and pin 1 (POSITIVE) both trigger Logic. Values of 5 and
// above light the LED; non negative values are passed on through pin 1. When
// POSITIVE is wired to a PWM capable microcontroller pin, the glow alpha
// follows the PWM voltage instead.
//
type LED struct {
	bb.Base
	pal         *palette.Palette
	selected    int
	voltage     float64
	pwmAttached bool
	prev        float64
	pwm         bb.PWMController
}

// NewLED returns a new LED.
//
func NewLED(id int, pos bb.Point) (*LED, error) {
	_, labels, err := pinLabels(KeyLED)
	if err != nil {
		return nil, err
	}
	l := &LED{prev: ledUnset}
	l.Base = bb.MakeBase(l, KeyLED, id, pos, labels...)
	return l, nil
}

func ledPalette() ([]palette.Entry, error) {
	d, err := defs.Lookup(KeyLED)
	if err != nil {
		return nil, err
	}
	entries := make([]palette.Entry, len(d.Colors))
	for i := range entries {
		entries[i] = palette.Entry{Display: d.Colors[i], Glow: d.GlowColors[i], Name: d.ColorNames[i]}
	}
	return entries, nil
}

// Init implements bb.Element.
//
func (l *LED) Init(env *bb.Env) error {
	l.Bind(env)
	pal, err := palette.Init(ledPalette)
	if err != nil {
		return err
	}
	l.pal = pal
	l.selected = pal.Clamp(l.selected)
	for _, n := range l.Nodes() {
		n.AddValueListener(func(v float64, _ *bb.Node) { l.Logic(v) })
	}
	l.Fill(ledBody, bb.Fill(pal.Display(l.selected)))
	return nil
}

// Logic implements bb.Element.
//
func (l *LED) Logic(v float64) {
	if l.prev == v {
		return
	}
	l.prev = v
	if !bb.AllConnected(l.Nodes()...) {
		l.HandleConnectionError()
		l.Notify("LED is not Connected properly")
		return
	}
	if l.pwmAttached {
		alpha := (l.voltage / 5) * 9
		l.Fill(ledGlow, bb.Fill(l.pal.PWMGlow(l.selected, alpha)))
		return
	}
	if v >= 5 {
		l.Fill(ledGlow, bb.Fill(l.pal.RadialGlow(l.selected)))
	} else {
		l.Fill(ledGlow, bb.None)
	}
	if v >= 0 {
		l.Node(1).SetValue(v, nil)
	}
}

// HandleConnectionError implements bb.Element.
//
func (l *LED) HandleConnectionError() {
	l.Fill(ledGlow, bb.None)
}

// InitSimulation implements bb.Element. If POSITIVE leads to a PWM capable
// microcontroller pin, the LED registers for PWM updates. Any previous
// registration is dropped first.
//
func (l *LED) InitSimulation() error {
	l.detach()
	pin, ctl := FindPWM(l.Pin("POSITIVE"))
	if ctl == nil {
		return nil
	}
	err := ctl.AddPWM(pin, l, func(v float64, _ *bb.Node) {
		l.pwmAttached = true
		l.voltage = v / 100
	})
	if err != nil {
		return errors.Wrap(err, "attach PWM")
	}
	l.pwm = ctl
	return nil
}

// CloseSimulation implements bb.Element.
//
func (l *LED) CloseSimulation() {
	l.prev = ledUnset
	l.Fill(ledGlow, bb.None)
	l.detach()
}

// Destroy implements bb.Destroyer.
//
func (l *LED) Destroy() { l.detach() }

func (l *LED) detach() {
	if l.pwm != nil {
		l.pwm.RemovePWM(l)
		l.pwm = nil
	}
	l.pwmAttached = false
	l.voltage = 0
}

// PWM returns true if the LED is currently driven by PWM, and the PWM voltage.
//
func (l *LED) PWM() (bool, float64) { return l.pwmAttached, l.voltage }

// Color returns the selected palette index.
//
func (l *LED) Color() int { return l.selected }

// SetColor selects a palette color and repaints the LED body.
//
func (l *LED) SetColor(i int) {
	if l.pal != nil {
		i = l.pal.Clamp(i)
		l.Fill(ledBody, bb.Fill(l.pal.Display(i)))
	}
	l.selected = i
}

// Name returns a display name like "LED Red".
//
func (l *LED) Name() string {
	if l.pal != nil {
		if e, ok := l.pal.Entry(l.selected); ok {
			return "LED " + e.Name
		}
	}
	return "LED"
}

// SaveData implements bb.Element.
//
func (l *LED) SaveData() bb.Data {
	return bb.Data{"color": l.selected}
}

// LoadData implements bb.Element. Out of range color indices are clamped to
// the palette bounds.
//
func (l *LED) LoadData(d bb.Data) error {
	i, ok := d.Int("color")
	if !ok {
		return errors.Errorf("invalid LED color %v", d["color"])
	}
	if l.pal == nil {
		pal, err := palette.Init(ledPalette)
		if err != nil {
			return err
		}
		l.pal = pal
	}
	if c := l.pal.Clamp(i); c != i {
		l.Log().Warn(context.Background(), "LED color index out of range",
			logging.Element(l.Key(), l.ID()), logging.Int("color", i), logging.Int("clamped", c))
		i = c
	}
	l.SetColor(i)
	return nil
}
