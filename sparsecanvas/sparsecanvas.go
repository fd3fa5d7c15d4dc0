// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sparsecanvas decodes remotely painted pixel grids.
//
// The backend stores a painted canvas as a list of lit coordinates,
// serialized as "x,y;x,y;...". The decoder is a total function: any input,
// including empty, truncated or garbage strings, produces a valid grid and
// never indexes out of bounds.
package sparsecanvas

import (
	"image"
	"image/color"
	"strings"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Grid is a fixed-size boolean pixel grid.
//
// It implements image.Image with the 1-bit color model, so a decoded canvas
// can be composited onto a framebuffer with draw.Draw.
type Grid struct {
	w, h int
	bits []bool
}

// New returns an all-clear grid of the given dimensions.
func New(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Grid{w: w, h: h, bits: make([]bool, w*h)}
}

// Decode decodes s into a fresh grid of the given dimensions.
func Decode(s string, w, h int) *Grid {
	g := New(w, h)
	g.Decode(s)
	return g
}

// ColorModel implements image.Image.
func (g *Grid) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image.
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.w, g.h)
}

// At implements image.Image.
func (g *Grid) At(x, y int) color.Color {
	return g.BitAt(x, y)
}

// BitAt returns the bit at (x, y). Out of bounds reads return Off.
func (g *Grid) BitAt(x, y int) image1bit.Bit {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return image1bit.Off
	}
	if g.bits[y*g.w+x] {
		return image1bit.On
	}
	return image1bit.Off
}

// SetBit sets the bit at (x, y). Out of bounds writes are dropped.
func (g *Grid) SetBit(x, y int, b image1bit.Bit) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.bits[y*g.w+x] = bool(b)
}

// Clear resets every cell to Off.
func (g *Grid) Clear() {
	for i := range g.bits {
		g.bits[i] = false
	}
}

// Decode replaces the grid content with the cells listed in s.
//
// The format is ";" separated "x,y" pairs; a trailing separator is
// accepted. A token without a "," is treated as a truncated transmission
// and ignored. Coordinate components that fail to parse evaluate to 0, the
// same as C's atoi, and coordinates outside the grid are dropped. Decoding
// is a full replacement, not a merge.
func (g *Grid) Decode(s string) {
	g.Clear()
	for len(s) > 0 {
		var tok string
		if i := strings.IndexByte(s, ';'); i >= 0 {
			tok, s = s[:i], s[i+1:]
		} else {
			tok, s = s, ""
		}
		xs, ys, ok := strings.Cut(tok, ",")
		if !ok {
			continue
		}
		g.SetBit(atoi(xs), atoi(ys), image1bit.On)
	}
}

// Count returns the number of lit cells.
func (g *Grid) Count() int {
	n := 0
	for _, b := range g.bits {
		if b {
			n++
		}
	}
	return n
}

// atoi parses a leading optionally signed integer and returns 0 when there
// is none, matching the C atoi the wire format was designed against.
func atoi(s string) int {
	i, neg := 0, false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<24 {
			// Far beyond any plausible grid; stop before overflow.
			break
		}
	}
	if neg {
		return -n
	}
	return n
}

var _ image.Image = &Grid{}
