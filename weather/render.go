// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weather

import (
	"fmt"
	"image/draw"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Renderer rasterizes the five-line weather dashboard.
//
// The dashboard needs five lines on a 48 pixel high panel, which the fixed
// 7x13 device font cannot do, so it is drawn with a scaled truetype face and
// thresholded down to one bit.
type Renderer struct {
	face font.Face
}

// NewRenderer builds a renderer with the embedded Go Regular face.
func NewRenderer() (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("weather: parsing embedded font: %w", err)
	}
	return &Renderer{
		face: truetype.NewFace(f, &truetype.Options{Size: 9}),
	}, nil
}

// Render draws the dashboard for c at the given city-local time onto dst.
//
// The five lines are fixed: city name, 12-hour clock with seconds, weekday
// and date, temperature to one decimal in Celsius, integer percent relative
// humidity. A city with no cached observation renders dashes in place of
// the numbers.
func (r *Renderer) Render(dst draw.Image, c *City, local time.Time) {
	temp, hum := "--.-°C", "--% RH"
	if c.Observed() {
		temp = fmt.Sprintf("%.1f°C", c.Celsius())
		hum = fmt.Sprintf("%d%% RH", c.HumidityPercent())
	}
	r.lines(dst, []string{
		c.Name,
		local.Format("03:04:05 PM"),
		local.Format("Mon 02 Jan"),
		temp,
		hum,
	})
}

// RenderUnselected draws the "no location chosen" placeholder.
func (r *Renderer) RenderUnselected(dst draw.Image) {
	r.lines(dst, []string{
		"Weather",
		"",
		"no location",
		"chosen",
		"",
	})
}

// lines rasterizes up to five centered text lines and blits the result.
func (r *Renderer) lines(dst draw.Image, lines []string) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(r.face)

	rowH := float64(h) / float64(len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		dc.DrawStringAnchored(line, float64(w)/2, rowH*(float64(i)+0.5), 0.5, 0.5)
	}
	threshold(dst, dc)
}

// threshold copies the antialiased gg context onto the 1-bit framebuffer,
// lighting every pixel brighter than mid gray.
func threshold(dst draw.Image, dc *gg.Context) {
	src := dc.Image()
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			lum, _, _, _ := src.At(x-b.Min.X, y-b.Min.Y).RGBA()
			bit := image1bit.Off
			if lum > 0x7fff {
				bit = image1bit.On
			}
			dst.Set(x, y, bit)
		}
	}
}
