// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package textlayout wraps and centers message text for a fixed-width
// display font.
//
// The device font is basicfont.Face7x13, so columns and lines map directly
// to pixels: a column is GlyphWidth pixels and a line is LineHeight pixels.
// Wrap is the pure layout algorithm; Block adds pixel placement and drawing.
package textlayout

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph cell of basicfont.Face7x13.
const (
	GlyphWidth = 7
	LineHeight = 13
)

// Fit returns how many columns and lines of the device font fit in bounds.
func Fit(bounds image.Rectangle) (maxCols, maxLines int) {
	return bounds.Dx() / GlyphWidth, bounds.Dy() / LineHeight
}

// Wrap breaks msg into at most maxLines lines of at most maxCols characters.
//
// Explicit "\n" breaks are honored first. A segment longer than maxCols is
// broken at the last space at or before the limit, dropping the space; a
// single word longer than the limit is broken exactly at the limit. Content
// past the line cap is silently discarded.
func Wrap(msg string, maxCols, maxLines int) []string {
	if maxCols <= 0 || maxLines <= 0 {
		return nil
	}
	var lines []string
	for _, seg := range strings.Split(msg, "\n") {
		rest := []rune(seg)
		for {
			if len(lines) >= maxLines {
				return lines
			}
			if len(rest) <= maxCols {
				lines = append(lines, string(rest))
				break
			}
			cut, drop := breakAt(rest, maxCols)
			lines = append(lines, string(rest[:cut]))
			rest = rest[cut+drop:]
		}
	}
	return lines
}

// breakAt returns the break position for a segment known to exceed maxCols,
// and how many runes to drop at the break.
func breakAt(seg []rune, maxCols int) (cut, drop int) {
	for i := maxCols; i >= 0; i-- {
		if seg[i] == ' ' {
			return i, 1
		}
	}
	return maxCols, 0
}

// Block is a wrapped message placed inside pixel bounds: each line
// horizontally centered, the whole block vertically centered.
type Block struct {
	Lines  []string
	bounds image.Rectangle
}

// Layout wraps msg to fit bounds using the device font metrics.
func Layout(msg string, bounds image.Rectangle) Block {
	cols, lines := Fit(bounds)
	return Block{Lines: Wrap(msg, cols, lines), bounds: bounds}
}

// Top returns the pixel y of the block's first line, clamped to the top of
// the bounds when the block is taller than the display.
func (b Block) Top() int {
	top := b.bounds.Min.Y + (b.bounds.Dy()-len(b.Lines)*LineHeight)/2
	if top < b.bounds.Min.Y {
		top = b.bounds.Min.Y
	}
	return top
}

// Left returns the pixel x of line i.
func (b Block) Left(i int) int {
	return b.bounds.Min.X + (b.bounds.Dx()-len(b.Lines[i])*GlyphWidth)/2
}

// Draw renders the block onto dst in the given ink.
func (b Block) Draw(dst draw.Image, ink color.Color) {
	f := basicfont.Face7x13
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: f,
	}
	top := b.Top()
	for i, line := range b.Lines {
		d.Dot = fixed.P(b.Left(i), top+i*LineHeight+f.Ascent)
		d.DrawString(line)
	}
}
