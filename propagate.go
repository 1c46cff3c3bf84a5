// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package breadboard

// DefaultMaxDepth is the maximum number of nested SetValue calls allowed in a
// single propagation pass when Propagator.MaxDepth is not set.
//
const DefaultMaxDepth = 256

// A Propagator tracks the nesting of SetValue calls for a group of nodes.
// All nodes of a circuit share the circuit's Propagator.
//
// The zero value is ready to use.
//
type Propagator struct {
	// MaxDepth overrides DefaultMaxDepth if > 0.
	MaxDepth int

	depth  int
	fault  error
	passes uint64

	onPass  func()
	onFault func(error)
}

func (p *Propagator) max() int {
	if p.MaxDepth > 0 {
		return p.MaxDepth
	}
	return DefaultMaxDepth
}

// enter returns false if n cannot be entered without exceeding the maximum
// depth. In that case the fault is recorded for the current pass.
//
func (p *Propagator) enter(n *Node) bool {
	if p.depth >= p.max() {
		if p.fault == nil {
			p.fault = &CycleError{Node: n.String(), Depth: p.depth}
		}
		return false
	}
	p.depth++
	return true
}

// leave pops one level. When the outermost call of a pass returns, it reports
// and clears any recorded fault.
//
func (p *Propagator) leave() error {
	p.depth--
	if p.depth > 0 {
		return nil
	}
	p.passes++
	if p.onPass != nil {
		p.onPass()
	}
	err := p.fault
	p.fault = nil
	if err != nil && p.onFault != nil {
		p.onFault(err)
	}
	return err
}

// Depth returns the current nesting depth. It is 0 outside of a propagation
// pass.
//
func (p *Propagator) Depth() int { return p.depth }

// Passes returns the number of completed propagation passes.
//
func (p *Propagator) Passes() uint64 { return p.passes }
