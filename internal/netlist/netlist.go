// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlist parses wiring descriptions like
//
//	uno.D13=led.POSITIVE, led.NEGATIVE=uno.GND
//
// Each connection joins a pin of a named element to a pin of another one.
//
package netlist

import (
	"github.com/pkg/errors"
)

// Ref is an element pin reference: part.pin.
//
type Ref struct {
	Part string
	Pin  string
	Pos  int
}

func (r Ref) String() string { return r.Part + "." + r.Pin }

// Conn is a connection between two pins.
//
type Conn struct {
	A, B Ref
}

func (c Conn) String() string { return c.A.String() + "=" + c.B.String() }

// Parser is a simplistic parser for connection lists.
//
type Parser struct {
	Input string
	l     *lexer
	i     Item
	done  bool
}

// Next returns the next connection in the input stream. It returns nil, nil
// once the input is exhausted.
//
func (p *Parser) Next() (*Conn, error) {
	if p.done {
		return nil, nil
	}
	if p.l == nil {
		p.l = newLexer(p.Input)
	}
	p.i = p.l.Lex()
	if p.i.Type == EOF {
		p.done = true
		return nil, nil
	}
	a, err := p.ref()
	if err != nil {
		p.done = true
		return nil, err
	}
	if p.i.Type != Equal {
		p.done = true
		return nil, p.errorf("expected '=', got %s", p.i)
	}
	p.i = p.l.Lex()
	b, err := p.ref()
	if err != nil {
		p.done = true
		return nil, err
	}
	switch p.i.Type {
	case EOF:
		p.done = true
	case Comma:
	default:
		p.done = true
		return nil, p.errorf("expected ',' or end of input, got %s", p.i)
	}
	return &Conn{a, b}, nil
}

// ref parses part.pin. On return, p.i is the token following the reference.
//
func (p *Parser) ref() (Ref, error) {
	if p.i.Type != Word {
		return Ref{}, p.errorf("expected element name, got %s", p.i)
	}
	r := Ref{Part: p.i.Value, Pos: p.i.Pos}
	if p.i = p.l.Lex(); p.i.Type != Dot {
		return Ref{}, p.errorf("expected '.' after %q, got %s", r.Part, p.i)
	}
	if p.i = p.l.Lex(); p.i.Type != Word {
		return Ref{}, p.errorf("expected pin name, got %s", p.i)
	}
	r.Pin = p.i.Value
	p.i = p.l.Lex()
	return r, nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return errors.Errorf("in %q at pos %d: %s", p.Input, p.i.Pos+1, errors.Errorf(format, args...))
}

// Parse returns all connections in s.
//
func Parse(s string) ([]Conn, error) {
	var out []Conn
	p := Parser{Input: s}
	for {
		c, err := p.Next()
		if err != nil {
			return nil, err
		}
		if c == nil {
			return out, nil
		}
		out = append(out, *c)
	}
}
