// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	bb "github.com/db47h/breadboard"
	"github.com/pkg/errors"
)

// DefaultOhms is the resistance of a new resistor.
//
const DefaultOhms = 220

// Resistor is a passive element. Values set on one terminal are passed on to
// the other unchanged.
//
type Resistor struct {
	bb.Base
	ohms float64
}

// NewResistor returns a new resistor.
//
func NewResistor(id int, pos bb.Point) (*Resistor, error) {
	_, labels, err := pinLabels(KeyResistor)
	if err != nil {
		return nil, err
	}
	r := &Resistor{ohms: DefaultOhms}
	r.Base = bb.MakeBase(r, KeyResistor, id, pos, labels...)
	return r, nil
}

// Init implements bb.Element.
//
func (r *Resistor) Init(env *bb.Env) error {
	r.Bind(env)
	t1, t2 := r.Node(0), r.Node(1)
	t1.AddChangeListener(func(v float64, from *bb.Node) {
		if from != t2 {
			t2.SetValue(v, t1)
		}
	})
	t2.AddChangeListener(func(v float64, from *bb.Node) {
		if from != t1 {
			t1.SetValue(v, t2)
		}
	})
	return nil
}

// Logic implements bb.Element. A resistor has no state of its own; values go
// through its listeners.
//
func (r *Resistor) Logic(float64) {}

// Conducts implements bb.Passive.
//
func (r *Resistor) Conducts(n *bb.Node) []*bb.Node {
	switch n {
	case r.Node(0):
		return []*bb.Node{r.Node(1)}
	case r.Node(1):
		return []*bb.Node{r.Node(0)}
	}
	return nil
}

// Ohms returns the resistance.
//
func (r *Resistor) Ohms() float64 { return r.ohms }

// HandleConnectionError implements bb.Element.
//
func (r *Resistor) HandleConnectionError() {}

// InitSimulation implements bb.Element.
//
func (r *Resistor) InitSimulation() error { return nil }

// CloseSimulation implements bb.Element.
//
func (r *Resistor) CloseSimulation() {}

// SaveData implements bb.Element.
//
func (r *Resistor) SaveData() bb.Data { return bb.Data{"value": r.ohms} }

// LoadData implements bb.Element.
//
func (r *Resistor) LoadData(d bb.Data) error {
	v, ok := d.Float("value")
	if !ok || v <= 0 {
		return errors.Errorf("invalid resistance %v", d["value"])
	}
	r.ohms = v
	return nil
}
