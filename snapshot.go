// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package breadboard

import (
	"strconv"

	"github.com/pkg/errors"
)

// ElementRecord is the persisted form of an element.
//
type ElementRecord struct {
	Key  string  `yaml:"key" json:"key"`
	ID   int     `yaml:"id" json:"id"`
	X    float64 `yaml:"x" json:"x"`
	Y    float64 `yaml:"y" json:"y"`
	Data Data    `yaml:"data,omitempty" json:"data,omitempty"`
}

// PinRef references a pin by owner key, owner id and pin index.
//
type PinRef struct {
	Key string `yaml:"key" json:"keyName"`
	ID  int    `yaml:"id" json:"id"`
	Pin int    `yaml:"pin" json:"pid"`
}

func (r PinRef) String() string {
	return r.Key + strconv.Itoa(r.ID) + "[" + strconv.Itoa(r.Pin) + "]"
}

// WireRecord is the persisted form of a wire.
//
type WireRecord struct {
	Start PinRef `yaml:"start" json:"start"`
	End   PinRef `yaml:"end" json:"end"`
}

// Snapshot is the persisted form of a circuit. The storage format and
// transport are owned by the persistence collaborator.
//
type Snapshot struct {
	Elements []ElementRecord `yaml:"elements" json:"elements"`
	Wires    []WireRecord    `yaml:"wires,omitempty" json:"wires,omitempty"`
}

// A Factory builds an element given its key name, id and position.
//
type Factory func(key string, id int, pos Point) (Element, error)

// Save returns a snapshot of the circuit.
//
func (c *Circuit) Save() Snapshot {
	var s Snapshot
	for _, e := range c.elements {
		b := e.Core()
		s.Elements = append(s.Elements, ElementRecord{
			Key:  b.key,
			ID:   b.id,
			X:    b.pos.X,
			Y:    b.pos.Y,
			Data: e.SaveData(),
		})
	}
	for _, w := range c.wires {
		s.Wires = append(s.Wires, WireRecord{
			Start: PinRef{w.Start.Key, w.Start.ID, w.Start.Pin},
			End:   PinRef{w.End.Key, w.End.ID, w.End.Pin},
		})
	}
	return s
}

// Load adds the elements and wires of s to c. Elements are built with f, added
// to the circuit, then their saved data is restored.
//
// If Load fails, the elements and wires it added are removed and c is left as
// it was.
//
func (c *Circuit) Load(s Snapshot, f Factory) (err error) {
	var (
		added []Element
		wires []*Wire
	)
	defer func() {
		if err == nil {
			return
		}
		for i := len(wires) - 1; i >= 0; i-- {
			c.Disconnect(wires[i])
		}
		for i := len(added) - 1; i >= 0; i-- {
			c.Remove(added[i])
		}
	}()
	for _, r := range s.Elements {
		e, err := f(r.Key, r.ID, Point{r.X, r.Y})
		if err != nil {
			return errors.Wrap(err, "load "+r.Key+strconv.Itoa(r.ID))
		}
		if err = c.Add(e); err != nil {
			return err
		}
		added = append(added, e)
		if r.Data != nil {
			if err = e.LoadData(r.Data); err != nil {
				return errors.Wrap(err, "load data "+r.Key+strconv.Itoa(r.ID))
			}
		}
	}
	for _, r := range s.Wires {
		a, err := c.pin(r.Start)
		if err != nil {
			return err
		}
		b, err := c.pin(r.End)
		if err != nil {
			return err
		}
		w, err := c.Connect(a, b)
		if err != nil {
			return err
		}
		wires = append(wires, w)
	}
	return nil
}

func (c *Circuit) pin(r PinRef) (*Node, error) {
	e := c.Find(r.Key, r.ID)
	if e == nil {
		return nil, errors.Wrap(ErrUnknownElement, r.String())
	}
	nodes := e.Core().nodes
	if r.Pin < 0 || r.Pin >= len(nodes) {
		return nil, errors.Errorf("invalid pin index in %s", r)
	}
	return nodes[r.Pin], nil
}
