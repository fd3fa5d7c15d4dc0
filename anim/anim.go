// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package anim implements the border effects drawn around text mode.
//
// Each effect is a small state machine advanced by exactly one step per
// rendered frame. The phase counters are private to their effect and never
// touched by network data; which effect runs is the caller's choice on every
// step, so switching styles mid-flight keeps each effect's phase intact.
package anim

import (
	"fmt"
	"image"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Style selects one of the border effects.
type Style int

// Supported styles. None draws nothing.
const (
	None Style = iota
	BorderChase
	PulseBorder
	CornerSpin
	ScanLine
	BreathingBox
)

const styleCount = 6

func (s Style) String() string {
	switch s {
	case None:
		return "none"
	case BorderChase:
		return "chase"
	case PulseBorder:
		return "pulse"
	case CornerSpin:
		return "spin"
	case ScanLine:
		return "scan"
	case BreathingBox:
		return "breathe"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Set sets the Style to a value represented by the string v. Set implements
// the flag.Value interface.
func (s *Style) Set(v string) error {
	switch v {
	case "none":
		*s = None
	case "chase":
		*s = BorderChase
	case "pulse":
		*s = PulseBorder
	case "spin":
		*s = CornerSpin
	case "scan":
		*s = ScanLine
	case "breathe":
		*s = BreathingBox
	default:
		return fmt.Errorf("unknown style %q: expected none, chase, pulse, spin, scan or breathe", v)
	}
	return nil
}

// FromIndex maps a backend animation selector to a Style. Selectors outside
// the known range fall back to None.
func FromIndex(i int) Style {
	if i < 0 || i >= styleCount {
		return None
	}
	return Style(i)
}

// Tunables shared by the effects.
const (
	chaseLen   = 12 // lit window on the perimeter
	chaseStep  = 3  // perimeter pixels advanced per frame
	spinHold   = 8  // frames per active corner
	spinSize   = 10 // corner square edge
	scanBand   = 3  // scan line height
	scanStep   = 2  // rows advanced per frame
	pulseMax   = 6  // max border thickness
	breatheMax = 10 // max inset
	breatheGap = 4  // distance between the two nested frames
)

// pingPong oscillates a value between 0 and max inclusive, flipping
// direction exactly at each bound.
type pingPong struct {
	v, dir int
}

func (p *pingPong) step(max int) int {
	if p.dir == 0 {
		p.dir = 1
	}
	p.v += p.dir
	if p.v >= max {
		p.v = max
		p.dir = -1
	} else if p.v <= 0 {
		p.v = 0
		p.dir = 1
	}
	return p.v
}

// Engine owns the phase state of all five effects for one display.
type Engine struct {
	w, h int

	chasePos int
	pulse    pingPong
	spinPh   int
	scanY    int
	breathe  pingPong
}

// New returns an Engine for a display of the given bounds.
func New(bounds image.Rectangle) *Engine {
	return &Engine{w: bounds.Dx(), h: bounds.Dy()}
}

// Step advances the selected effect by one frame and draws it onto dst.
func (e *Engine) Step(s Style, dst draw.Image) {
	switch s {
	case BorderChase:
		e.stepChase(dst)
	case PulseBorder:
		e.stepPulse(dst)
	case CornerSpin:
		e.stepSpin(dst)
	case ScanLine:
		e.stepScan(dst)
	case BreathingBox:
		e.stepBreathe(dst)
	}
}

// perimeterPoint maps a position along the display perimeter, walking
// top left → top right → bottom right → bottom left, to a pixel.
func (e *Engine) perimeterPoint(p int) image.Point {
	w, h := e.w, e.h
	p %= 2 * (w + h)
	switch {
	case p < w:
		return image.Pt(p, 0)
	case p < w+h:
		return image.Pt(w-1, p-w)
	case p < 2*w+h:
		return image.Pt(w-1-(p-w-h), h-1)
	default:
		return image.Pt(0, h-1-(p-2*w-h))
	}
}

func (e *Engine) stepChase(dst draw.Image) {
	perim := 2 * (e.w + e.h)
	for i := 0; i < chaseLen; i++ {
		pt := e.perimeterPoint(e.chasePos + i)
		dst.Set(pt.X, pt.Y, image1bit.On)
	}
	e.chasePos = (e.chasePos + chaseStep) % perim
}

func (e *Engine) stepPulse(dst draw.Image) {
	t := e.pulse.step(pulseMax)
	for i := 0; i < t; i++ {
		outlineRect(dst, image.Rect(i, i, e.w-i, e.h-i))
	}
}

func (e *Engine) stepSpin(dst draw.Image) {
	corners := [4]image.Rectangle{
		image.Rect(0, 0, spinSize, spinSize),
		image.Rect(e.w-spinSize, 0, e.w, spinSize),
		image.Rect(e.w-spinSize, e.h-spinSize, e.w, e.h),
		image.Rect(0, e.h-spinSize, spinSize, e.h),
	}
	active := (e.spinPh / spinHold) % 4
	for i, r := range corners {
		if i == active {
			fillRect(dst, r)
		} else {
			outlineRect(dst, r)
		}
	}
	e.spinPh++
	if e.spinPh >= 4*spinHold {
		e.spinPh = 0
	}
}

func (e *Engine) stepScan(dst draw.Image) {
	outlineRect(dst, image.Rect(0, 0, e.w, e.h))
	fillRect(dst, image.Rect(0, e.scanY, e.w, e.scanY+scanBand))
	e.scanY = (e.scanY + scanStep) % e.h
}

func (e *Engine) stepBreathe(dst draw.Image) {
	d := e.breathe.step(breatheMax)
	outlineRect(dst, image.Rect(d, d, e.w-d, e.h-d))
	d += breatheGap
	outlineRect(dst, image.Rect(d, d, e.w-d, e.h-d))
}

var on = image.NewUniform(image1bit.On)

func fillRect(dst draw.Image, r image.Rectangle) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), on, image.Point{}, draw.Src)
}

func outlineRect(dst draw.Image, r image.Rectangle) {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return
	}
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1))
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y))
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y))
	fillRect(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y))
}
