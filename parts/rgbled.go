// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"strconv"

	bb "github.com/db47h/breadboard"
)

// RGB LED pins and drawable parts.
//
const (
	rgbRed    = 0
	rgbCommon = 1
	rgbBlue   = 2
	rgbGreen  = 3

	rgbLens = 1
)

// RGBLED is a common pin RGB LED. Each channel is either fully on (any
// positive value) or off.
//
type RGBLED struct {
	bb.Base
	glow    bb.GlowID
	running bool
}

// NewRGBLED returns a new RGB LED.
//
func NewRGBLED(id int, pos bb.Point) (*RGBLED, error) {
	_, labels, err := pinLabels(KeyRGBLED)
	if err != nil {
		return nil, err
	}
	l := new(RGBLED)
	l.Base = bb.MakeBase(l, KeyRGBLED, id, pos, labels...)
	return l, nil
}

// Init implements bb.Element.
//
func (l *RGBLED) Init(env *bb.Env) error {
	l.Bind(env)
	for _, i := range []int{rgbRed, rgbBlue, rgbGreen} {
		l.Node(i).AddValueListener(func(v float64, _ *bb.Node) { l.Logic(v) })
	}
	return nil
}

// Logic implements bb.Element. v is passed on through the common pin, then
// the color is recomputed from all three channels.
//
// While simulating, COMMON and at least one channel must be wired.
//
func (l *RGBLED) Logic(v float64) {
	if l.running && !l.wired() {
		l.HandleConnectionError()
		l.Notify("RGB LED is not Connected properly")
		return
	}
	l.Node(rgbCommon).SetValue(v, l.Node(rgbRed))
	l.anim()
}

func (l *RGBLED) wired() bool {
	if !l.Node(rgbCommon).Connected() {
		return false
	}
	for _, i := range []int{rgbRed, rgbBlue, rgbGreen} {
		if l.Node(i).Connected() {
			return true
		}
	}
	return false
}

// Blend returns the displayed color for the given channel values. ok is false
// if the LED is dark.
//
func Blend(r, g, b float64) (R, G, B int, ok bool) {
	R, G, B = channel(r), channel(g), channel(b)
	switch {
	case R == 0 && G == 0 && B == 0:
		return 0, 0, 0, false
	case R == 255 && G == 255 && B == 255:
		// pure white glow looks wrong
		return 209, 209, 209, true
	}
	return R, G, B, true
}

func channel(v float64) int {
	if v > 0 {
		return 255
	}
	return 0
}

// Color returns the color currently displayed.
//
func (l *RGBLED) Color() (r, g, b int, ok bool) {
	return Blend(l.Node(rgbRed).Value(), l.Node(rgbGreen).Value(), l.Node(rgbBlue).Value())
}

func (l *RGBLED) anim() {
	l.removeGlow()
	r, g, b, ok := l.Color()
	if !ok {
		l.Fill(rgbLens, bb.None)
		return
	}
	rgb := strconv.Itoa(r) + "," + strconv.Itoa(g) + "," + strconv.Itoa(b)
	l.Fill(rgbLens, bb.Fill("rgba("+rgb+",0.8)"))
	l.glow = l.Env().Renderer.AddGlow(l.Part(rgbLens), bb.Fill("rgb("+rgb+")"))
}

func (l *RGBLED) removeGlow() {
	if l.glow != 0 {
		l.Env().Renderer.RemoveGlow(l.glow)
		l.glow = 0
	}
}

// HandleConnectionError implements bb.Element.
//
func (l *RGBLED) HandleConnectionError() {
	l.removeGlow()
	l.Fill(rgbLens, bb.None)
}

// InitSimulation implements bb.Element.
//
func (l *RGBLED) InitSimulation() error {
	l.running = true
	return nil
}

// CloseSimulation implements bb.Element.
//
func (l *RGBLED) CloseSimulation() {
	l.running = false
	l.removeGlow()
	l.Fill(rgbLens, bb.None)
}

// SaveData implements bb.Element. An RGB LED has no persisted state.
//
func (l *RGBLED) SaveData() bb.Data { return nil }

// LoadData implements bb.Element.
//
func (l *RGBLED) LoadData(bb.Data) error { return nil }
