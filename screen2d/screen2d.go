// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen2d implements a 2D monochrome display.Drawer that outputs to
// terminal (stdout) using ANSI color codes.
//
// Useful to run the device loop on a workstation while the real OLED panel is
// not wired up.
package screen2d

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Opts represents the options available for this display.
type Opts struct {
	W       int
	H       int
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultOpts is the panel geometry of the stock device.
var DefaultOpts = Opts{W: 96, H: 48}

// Dev is a monochrome panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	bounds  image.Rectangle
	palette ansi256.Palette

	pixels []bool
	first  bool
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
//
// Permits local testing of frame rendering and animations.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:       colorable.NewColorableStdout(),
		bounds:  image.Rect(0, 0, opts.W, opts.H),
		palette: *p,
		pixels:  make([]bool, opts.W*opts.H),
		first:   true,
	}
	return d
}

func (d *Dev) String() string {
	return fmt.Sprintf("Screen2D{%dx%d}", d.bounds.Dx(), d.bounds.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.bounds)
	delta := sp.Sub(r.Min)
	w := d.bounds.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			// Threshold on luminance so any source image model works.
			lum, _, _, _ := src.At(x+delta.X, y+delta.Y).RGBA()
			d.pixels[y*w+x] = lum >= 0x8000
		}
	}
	return d.refresh()
}

var (
	on  = color.NRGBA{255, 255, 255, 255}
	off = color.NRGBA{0, 0, 0, 255}
)

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per
	// call. The cursor is homed rather than the screen cleared, so successive
	// frames repaint in place without flicker.
	d.buf.Reset()
	if d.first {
		_, _ = d.buf.WriteString("\033[2J")
		d.first = false
	}
	_, _ = d.buf.WriteString("\033[H\033[0m")
	onBlock := d.palette.Block(on)
	offBlock := d.palette.Block(off)
	w := d.bounds.Dx()
	for y := 0; y < d.bounds.Dy(); y++ {
		for x := 0; x < w; x++ {
			if d.pixels[y*w+x] {
				_, _ = io.WriteString(&d.buf, onBlock)
			} else {
				_, _ = io.WriteString(&d.buf, offBlock)
			}
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
