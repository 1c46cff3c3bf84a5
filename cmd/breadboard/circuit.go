// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"io"
	"os"
	"time"

	bb "github.com/db47h/breadboard"
	"github.com/db47h/breadboard/internal/netlist"
	"github.com/db47h/breadboard/parts"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// circuitFile is the YAML description of a circuit and its pin script.
//
//	elements:
//	  - {name: uno, type: ArduinoUno}
//	  - {name: led, type: LED, data: {color: 1}}
//	wires: uno.D13=led.POSITIVE, led.NEGATIVE=uno.GND
//	script:
//	  - {op: digital, board: uno, pin: 13, value: 1}
//	  - {op: wait, duration: 100ms}
//
type circuitFile struct {
	Elements []elementDecl `yaml:"elements"`
	Wires    string        `yaml:"wires"`
	Script   []step        `yaml:"script"`
}

type elementDecl struct {
	Name string  `yaml:"name"`
	Type string  `yaml:"type"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Data bb.Data `yaml:"data"`
}

// step operations.
//
const (
	opDigital = "digital" // board, pin, value (0 or 1)
	opAnalog  = "analog"  // board, pin, value (0-255)
	opDuty    = "duty"    // board, pin, value (percent)
	opTick    = "tick"    // board, count
	opWait    = "wait"    // duration
	opSet     = "set"     // element, label, value
)

type step struct {
	Op       string        `yaml:"op"`
	Board    string        `yaml:"board"`
	Element  string        `yaml:"element"`
	Pin      int           `yaml:"pin"`
	Label    string        `yaml:"label"`
	Value    float64       `yaml:"value"`
	Count    int           `yaml:"count"`
	Duration time.Duration `yaml:"duration"`
}

func readCircuitFile(name string) (*circuitFile, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open circuit")
	}
	defer f.Close()
	return decodeCircuit(f)
}

func decodeCircuit(r io.Reader) (*circuitFile, error) {
	var cf circuitFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil {
		return nil, errors.Wrap(err, "decode circuit")
	}
	return &cf, nil
}

// build adds the described elements and wires to c. It returns the elements
// indexed by name.
//
func (cf *circuitFile) build(c *bb.Circuit) (map[string]bb.Element, error) {
	byName := make(map[string]bb.Element, len(cf.Elements))
	for _, s := range cf.Elements {
		if s.Name == "" {
			return nil, errors.Errorf("unnamed %s element", s.Type)
		}
		if _, ok := byName[s.Name]; ok {
			return nil, errors.Errorf("duplicate element name %q", s.Name)
		}
		e, err := parts.New(s.Type, 0, bb.Point{X: s.X, Y: s.Y})
		if err != nil {
			return nil, errors.Wrap(err, s.Name)
		}
		if err = c.Add(e); err != nil {
			return nil, errors.Wrap(err, s.Name)
		}
		if s.Data != nil {
			if err = e.LoadData(s.Data); err != nil {
				return nil, errors.Wrap(err, s.Name)
			}
		}
		byName[s.Name] = e
	}
	conns, err := netlist.Parse(cf.Wires)
	if err != nil {
		return nil, errors.Wrap(err, "wires")
	}
	for _, cn := range conns {
		a, err := pinOf(byName, cn.A)
		if err != nil {
			return nil, err
		}
		b, err := pinOf(byName, cn.B)
		if err != nil {
			return nil, err
		}
		if _, err = c.Connect(a, b); err != nil {
			return nil, errors.Wrap(err, cn.String())
		}
	}
	return byName, nil
}

func pinOf(byName map[string]bb.Element, r netlist.Ref) (*bb.Node, error) {
	e, ok := byName[r.Part]
	if !ok {
		return nil, errors.Errorf("%s: unknown element %q", r, r.Part)
	}
	n, ok := e.Core().PinMap()[r.Pin]
	if !ok {
		return nil, errors.Errorf("%s: no pin %q on %s", r, r.Pin, e.Core().Key())
	}
	return n, nil
}

// runner plays a script against a built circuit.
//
type runner struct {
	byName map[string]bb.Element
	tick   time.Duration
	sleep  func(time.Duration)
}

func (r *runner) board(name string) (*parts.Uno, error) {
	e, ok := r.byName[name]
	if !ok {
		return nil, errors.Errorf("unknown board %q", name)
	}
	u, ok := e.(*parts.Uno)
	if !ok {
		return nil, errors.Errorf("%q is not a microcontroller board", name)
	}
	return u, nil
}

func (r *runner) run(script []step) error {
	for i, s := range script {
		if err := r.step(s); err != nil {
			return errors.Wrapf(err, "step %d (%s)", i+1, s.Op)
		}
	}
	return nil
}

func (r *runner) step(s step) error {
	switch s.Op {
	case opDigital, opAnalog, opDuty, opTick:
		u, err := r.board(s.Board)
		if err != nil {
			return err
		}
		switch s.Op {
		case opDigital:
			return u.DigitalWrite(s.Pin, s.Value != 0)
		case opAnalog:
			if s.Value < 0 || s.Value > 255 {
				return errors.Errorf("analog value %v out of range", s.Value)
			}
			return u.AnalogWrite(s.Pin, uint8(s.Value))
		case opDuty:
			pin, err := u.Digital(s.Pin)
			if err != nil {
				return err
			}
			return u.PWM().SetDuty(pin, s.Value)
		}
		n := s.Count
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			u.Tick()
			r.sleep(r.tick)
		}
		return nil
	case opWait:
		r.sleep(s.Duration)
		return nil
	case opSet:
		e, ok := r.byName[s.Element]
		if !ok {
			return errors.Errorf("unknown element %q", s.Element)
		}
		n, ok := e.Core().PinMap()[s.Label]
		if !ok {
			return errors.Errorf("no pin %q on %s", s.Label, s.Element)
		}
		return n.SetValue(s.Value, nil)
	}
	return errors.Errorf("unknown operation %q", s.Op)
}
