// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"strconv"

	bb "github.com/db47h/breadboard"
	"github.com/db47h/breadboard/pwm"
	"github.com/pkg/errors"
)

// Uno pin layout. Digital pin n is node n, analog pin n is node AnalogBase+n.
//
const (
	DigitalPins = 14
	AnalogPins  = 6
	AnalogBase  = DigitalPins

	high = 5.0
	low  = 0.0
)

// ErrNotRunning is returned by pin writes outside of a simulation run.
//
var ErrNotRunning = errors.New("simulation not running")

// Uno is an Arduino Uno style microcontroller board. It drives its pins from
// DigitalWrite and AnalogWrite calls and emulates PWM on pins 3, 5, 6, 9, 10
// and 11.
//
type Uno struct {
	bb.Base
	pwm     *pwm.Emulator
	running bool
}

// NewUno returns a new board.
//
func NewUno(id int, pos bb.Point) (*Uno, error) {
	d, labels, err := pinLabels(KeyUno)
	if err != nil {
		return nil, err
	}
	u := &Uno{pwm: pwm.New(d.PWM...)}
	u.Base = bb.MakeBase(u, KeyUno, id, pos, labels...)
	return u, nil
}

// Init implements bb.Element.
//
func (u *Uno) Init(env *bb.Env) error {
	u.Bind(env)
	return nil
}

// Logic implements bb.Element. The board is driven by its sketch, not by the
// values on its pins.
//
func (u *Uno) Logic(float64) {}

// HandleConnectionError implements bb.Element.
//
func (u *Uno) HandleConnectionError() {}

// InitSimulation implements bb.Element. It drives 5V high and GND low.
//
func (u *Uno) InitSimulation() error {
	u.running = true
	if err := u.Pin("5V").SetValue(high, nil); err != nil {
		return err
	}
	return u.Pin("GND").SetValue(low, nil)
}

// CloseSimulation implements bb.Element. PWM registrations and pin values are
// dropped.
//
func (u *Uno) CloseSimulation() {
	u.running = false
	u.pwm.Reset()
	for _, n := range u.Nodes() {
		n.Reset()
	}
}

// SaveData implements bb.Element.
//
func (u *Uno) SaveData() bb.Data { return nil }

// LoadData implements bb.Element.
//
func (u *Uno) LoadData(bb.Data) error { return nil }

// AddPWM implements bb.PWMController.
//
func (u *Uno) AddPWM(pin *bb.Node, owner bb.Element, fn bb.PWMFunc) error {
	if pin.Owner() != bb.Element(u) {
		return errors.Errorf("pin %s does not belong to %s%d", pin, u.Key(), u.ID())
	}
	return u.pwm.AddPWM(pin, owner, fn)
}

// RemovePWM implements bb.PWMController.
//
func (u *Uno) RemovePWM(owner bb.Element) { u.pwm.RemovePWM(owner) }

// PWMCapable implements bb.PWMController.
//
func (u *Uno) PWMCapable(pin *bb.Node) bool {
	return pin.Owner() == bb.Element(u) && u.pwm.Capable(pin.ID())
}

// PWM returns the board's PWM emulator.
//
func (u *Uno) PWM() *pwm.Emulator { return u.pwm }

// Tick re-delivers the PWM values of all driven pins.
//
func (u *Uno) Tick() { u.pwm.Tick() }

// Digital returns the node of digital pin n.
//
func (u *Uno) Digital(n int) (*bb.Node, error) {
	if n < 0 || n >= DigitalPins {
		return nil, errors.New("invalid digital pin D" + strconv.Itoa(n))
	}
	return u.Node(n), nil
}

// Analog returns the node of analog pin n.
//
func (u *Uno) Analog(n int) (*bb.Node, error) {
	if n < 0 || n >= AnalogPins {
		return nil, errors.New("invalid analog pin A" + strconv.Itoa(n))
	}
	return u.Node(AnalogBase + n), nil
}

// DigitalWrite drives digital pin n high (5V) or low (0V).
//
func (u *Uno) DigitalWrite(n int, on bool) error {
	if !u.running {
		return ErrNotRunning
	}
	pin, err := u.Digital(n)
	if err != nil {
		return err
	}
	v := low
	if on {
		v = high
	}
	return pin.SetValue(v, nil)
}

// AnalogWrite writes an 8 bit level on digital pin n. On PWM capable pins, the
// PWM callbacks are updated first, then the pin is set to the average voltage.
// Other pins behave like DigitalWrite with a threshold of 128.
//
func (u *Uno) AnalogWrite(n int, level uint8) error {
	if !u.running {
		return ErrNotRunning
	}
	pin, err := u.Digital(n)
	if err != nil {
		return err
	}
	if !u.pwm.Capable(n) {
		return u.DigitalWrite(n, level >= 128)
	}
	if err = u.pwm.Write(pin, level); err != nil {
		return err
	}
	return pin.SetValue(float64(level)*high/255, nil)
}

// DigitalRead returns true if the value on digital pin n is at least half the
// logic level.
//
func (u *Uno) DigitalRead(n int) (bool, error) {
	pin, err := u.Digital(n)
	if err != nil {
		return false, err
	}
	return pin.Value() >= high/2, nil
}

// AnalogRead returns the 10 bit conversion of the value on analog pin n.
//
func (u *Uno) AnalogRead(n int) (int, error) {
	pin, err := u.Analog(n)
	if err != nil {
		return 0, err
	}
	v := pin.Value()
	switch {
	case v <= 0:
		return 0, nil
	case v >= high:
		return 1023, nil
	}
	return int(v / high * 1023), nil
}
