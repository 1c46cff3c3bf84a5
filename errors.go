// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package breadboard

import (
	"strconv"

	"github.com/pkg/errors"
)

// Wiring and registry errors. Callers should compare against errors.Cause(err).
//
var (
	ErrConnected        = errors.New("pin already connected")
	ErrSameNode         = errors.New("pin connected to itself")
	ErrForeignNode      = errors.New("pin does not belong to this circuit")
	ErrDuplicateElement = errors.New("duplicate element")
	ErrUnknownElement   = errors.New("unknown element")
)

// A CycleError is returned by Node.SetValue when a propagation pass exceeds
// the maximum recursion depth of its Propagator. This usually means that the
// circuit wiring contains a loop through element listeners.
//
type CycleError struct {
	Node  string // node at which the pass was cut
	Depth int
}

func (e *CycleError) Error() string {
	return "propagation depth " + strconv.Itoa(e.Depth) + " exceeded at pin " + e.Node
}
