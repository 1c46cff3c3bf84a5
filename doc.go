// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package breadboard provides the value propagation engine of a breadboard
circuit simulator: a microcontroller board and the components wired to it.

A circuit is a set of elements (LEDs, resistors, boards...) exposing a fixed
list of connection points, the nodes. A wire links exactly two nodes. Setting
a value on a node synchronously notifies the listeners registered on that
node and, when the value changed, forwards it across the node's wire. Element
listeners react by updating their own state, setting values on their other
nodes or asking the rendering collaborator to redraw.

Propagation has no scheduler: everything happens on the call stack of the
action that started it (a pin write, a PWM tick, a wiring edit). A
Propagator bounds the recursion depth so that cyclic wiring is reported as a
*CycleError instead of overflowing the stack.

Concrete elements live in package parts, the PWM emulator in package pwm.
*/
package breadboard
