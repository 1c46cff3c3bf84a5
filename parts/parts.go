// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package parts provides the built-in breadboard elements: LED, RGB LED,
// resistor and an Arduino Uno style microcontroller board.
//
package parts

import (
	"sort"

	bb "github.com/db47h/breadboard"
	"github.com/db47h/breadboard/internal/defs"
	"github.com/pkg/errors"
)

// Component keys.
//
const (
	KeyLED      = "LED"
	KeyRGBLED   = "RGBLED"
	KeyResistor = "Resistor"
	KeyUno      = "ArduinoUno"
)

// A NewFunc builds an element with the given id and position.
//
type NewFunc func(id int, pos bb.Point) (bb.Element, error)

var registry = map[string]NewFunc{
	KeyLED:      func(id int, pos bb.Point) (bb.Element, error) { return NewLED(id, pos) },
	KeyRGBLED:   func(id int, pos bb.Point) (bb.Element, error) { return NewRGBLED(id, pos) },
	KeyResistor: func(id int, pos bb.Point) (bb.Element, error) { return NewResistor(id, pos) },
	KeyUno:      func(id int, pos bb.Point) (bb.Element, error) { return NewUno(id, pos) },
}

// Register adds a component type to the registry used by New.
// It panics if key is already registered.
//
func Register(key string, fn NewFunc) {
	if _, ok := registry[key]; ok {
		panic("component " + key + " already registered")
	}
	registry[key] = fn
}

// New builds a registered element. Its signature matches bb.Factory.
//
func New(key string, id int, pos bb.Point) (bb.Element, error) {
	fn, ok := registry[key]
	if !ok {
		return nil, errors.Wrap(bb.ErrUnknownElement, key)
	}
	return fn(id, pos)
}

// Keys returns the registered component keys.
//
func Keys() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func pinLabels(key string) (*defs.Definition, []string, error) {
	d, err := defs.Lookup(key)
	if err != nil {
		return nil, nil, err
	}
	return d, d.Labels(), nil
}

// FindPWM walks from n through wires and passive elements, looking for a PWM
// capable microcontroller pin. It returns that pin and its controller, or nil
// if there is none.
//
func FindPWM(n *bb.Node) (*bb.Node, bb.PWMController) {
	seen := map[*bb.Node]bool{n: true}
	queue := []*bb.Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		peer := cur.Peer()
		if peer == nil || seen[peer] {
			continue
		}
		seen[peer] = true
		switch o := peer.Owner().(type) {
		case bb.PWMController:
			if o.PWMCapable(peer) {
				return peer, o
			}
		case bb.Passive:
			for _, next := range o.Conducts(peer) {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return nil, nil
}
