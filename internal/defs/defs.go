// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package defs provides the static definitions of the built-in components:
// pin layout and, for LEDs, the color palette.
//
// Definitions are embedded YAML assets parsed once per process.
//
package defs

import (
	"embed"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed assets/*.yaml
var assets embed.FS

// Pin is a pin definition.
//
type Pin struct {
	Label string  `yaml:"label"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

// Definition is the static description of a component type.
//
type Definition struct {
	Name       string   `yaml:"name"`
	Pins       []Pin    `yaml:"pins"`
	PWM        []int    `yaml:"pwm,omitempty"`
	Colors     []string `yaml:"colors,omitempty"`
	GlowColors []string `yaml:"glowcolors,omitempty"`
	ColorNames []string `yaml:"colorNames,omitempty"`
}

// Labels returns the pin labels in pin order.
//
func (d *Definition) Labels() []string {
	out := make([]string, len(d.Pins))
	for i, p := range d.Pins {
		out[i] = p.Label
	}
	return out
}

var (
	once    sync.Once
	cache   map[string]*Definition
	loadErr error
)

// Lookup returns the definition for the given component key.
//
func Lookup(key string) (*Definition, error) {
	once.Do(func() { cache, loadErr = loadAll() })
	if loadErr != nil {
		return nil, loadErr
	}
	d, ok := cache[key]
	if !ok {
		return nil, errors.Errorf("no definition for component %q", key)
	}
	return d, nil
}

// Keys returns the keys of all available definitions.
//
func Keys() []string {
	once.Do(func() { cache, loadErr = loadAll() })
	out := make([]string, 0, len(cache))
	for k := range cache {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func loadAll() (map[string]*Definition, error) {
	files, err := assets.ReadDir("assets")
	if err != nil {
		return nil, errors.Wrap(err, "read definitions")
	}
	m := make(map[string]*Definition, len(files))
	for _, f := range files {
		b, err := assets.ReadFile(path.Join("assets", f.Name()))
		if err != nil {
			return nil, errors.Wrap(err, f.Name())
		}
		d, err := Parse(b)
		if err != nil {
			return nil, errors.Wrap(err, f.Name())
		}
		if want := strings.TrimSuffix(f.Name(), ".yaml"); d.Name != want {
			return nil, errors.Errorf("%s: definition name %q does not match file name", f.Name(), d.Name)
		}
		m[d.Name] = d
	}
	return m, nil
}

// Parse parses and validates a YAML definition.
//
func Parse(b []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, errors.Wrap(err, "parse definition")
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Definition) check() error {
	if d.Name == "" {
		return errors.New("missing component name")
	}
	if len(d.Pins) == 0 {
		return errors.New(d.Name + ": no pins")
	}
	seen := make(map[string]bool, len(d.Pins))
	for _, p := range d.Pins {
		if p.Label == "" {
			return errors.New(d.Name + ": empty pin label")
		}
		if seen[p.Label] {
			return errors.New(d.Name + ": duplicate pin " + p.Label)
		}
		seen[p.Label] = true
	}
	for _, i := range d.PWM {
		if i < 0 || i >= len(d.Pins) {
			return errors.Errorf("%s: PWM pin index %d out of range", d.Name, i)
		}
	}
	if n := len(d.Colors); len(d.GlowColors) != n || len(d.ColorNames) != n {
		return errors.Errorf("%s: palette size mismatch: %d colors, %d glow colors, %d names",
			d.Name, n, len(d.GlowColors), len(d.ColorNames))
	}
	return nil
}
