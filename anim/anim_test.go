// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package anim

import (
	"image"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

var bounds = image.Rect(0, 0, 96, 48)

func TestPingPongBounds(t *testing.T) {
	var p pingPong
	prev := 0
	for i := 0; i < 1000; i++ {
		v := p.step(pulseMax)
		if v < 0 || v > pulseMax {
			t.Fatalf("step %d: value %d out of [0, %d]", i, v, pulseMax)
		}
		if d := v - prev; d != 1 && d != -1 {
			t.Fatalf("step %d: moved by %d", i, d)
		}
		prev = v
	}
}

func TestPingPongReversesAtBounds(t *testing.T) {
	var p pingPong
	var seq []int
	for i := 0; i < 4*pulseMax; i++ {
		seq = append(seq, p.step(pulseMax))
	}
	for i := 1; i < len(seq)-1; i++ {
		rising := seq[i] > seq[i-1]
		willRise := seq[i+1] > seq[i]
		if rising != willRise && seq[i] != 0 && seq[i] != pulseMax {
			t.Fatalf("direction flipped at %d, away from both bounds", seq[i])
		}
	}
}

func TestPerimeterPointStaysOnBorder(t *testing.T) {
	e := New(bounds)
	perim := 2 * (96 + 48)
	for p := 0; p < 3*perim; p++ {
		pt := e.perimeterPoint(p)
		if pt.X < 0 || pt.X >= 96 || pt.Y < 0 || pt.Y >= 48 {
			t.Fatalf("position %d maps outside the display: %v", p, pt)
		}
		if pt.X != 0 && pt.X != 95 && pt.Y != 0 && pt.Y != 47 {
			t.Fatalf("position %d maps to interior pixel %v", p, pt)
		}
	}
}

func TestPerimeterPointCorners(t *testing.T) {
	e := New(bounds)
	for _, tc := range []struct {
		pos  int
		want image.Point
	}{
		{0, image.Pt(0, 0)},
		{95, image.Pt(95, 0)},
		{96, image.Pt(95, 0)},
		{96 + 47, image.Pt(95, 47)},
		{96 + 48, image.Pt(95, 47)},
		{2*96 + 48 - 1, image.Pt(0, 47)},
		{2*96 + 2*48 - 1, image.Pt(0, 0)},
		{2 * (96 + 48), image.Pt(0, 0)}, // wraps
	} {
		if got := e.perimeterPoint(tc.pos); got != tc.want {
			t.Errorf("perimeterPoint(%d) = %v, want %v", tc.pos, got, tc.want)
		}
	}
}

func TestChaseAdvancesAndWraps(t *testing.T) {
	e := New(bounds)
	img := image1bit.NewVerticalLSB(bounds)
	perim := 2 * (96 + 48)
	for i := 0; i < perim; i++ {
		e.Step(BorderChase, img)
		if e.chasePos < 0 || e.chasePos >= perim {
			t.Fatalf("chase position %d escaped the perimeter", e.chasePos)
		}
	}
}

func TestStepDrawsOnlyForActiveStyle(t *testing.T) {
	e := New(bounds)
	img := image1bit.NewVerticalLSB(bounds)
	e.Step(None, img)
	for y := 0; y < 48; y++ {
		for x := 0; x < 96; x++ {
			if img.BitAt(x, y) == image1bit.On {
				t.Fatalf("None lit pixel (%d,%d)", x, y)
			}
		}
	}
	for _, s := range []Style{BorderChase, PulseBorder, CornerSpin, ScanLine, BreathingBox} {
		img := image1bit.NewVerticalLSB(bounds)
		// Pulse starts at thickness 1 after the first step; every style must
		// light something on every frame.
		e.Step(s, img)
		lit := false
		for y := 0; y < 48 && !lit; y++ {
			for x := 0; x < 96; x++ {
				if img.BitAt(x, y) == image1bit.On {
					lit = true
					break
				}
			}
		}
		if !lit {
			t.Errorf("style %s drew nothing", s)
		}
	}
}

func TestSpinCyclesCorners(t *testing.T) {
	e := New(bounds)
	img := image1bit.NewVerticalLSB(bounds)
	seen := map[int]bool{}
	for i := 0; i < 4*spinHold; i++ {
		seen[(e.spinPh/spinHold)%4] = true
		e.Step(CornerSpin, img)
	}
	if len(seen) != 4 {
		t.Errorf("saw %d corners in a full cycle, want 4", len(seen))
	}
	if e.spinPh != 0 {
		t.Errorf("phase %d after a full cycle, want 0", e.spinPh)
	}
}

func TestScanWrapsModuloHeight(t *testing.T) {
	e := New(bounds)
	img := image1bit.NewVerticalLSB(bounds)
	for i := 0; i < 200; i++ {
		e.Step(ScanLine, img)
		if e.scanY < 0 || e.scanY >= 48 {
			t.Fatalf("scan row %d out of range", e.scanY)
		}
	}
}

func TestFromIndex(t *testing.T) {
	for _, tc := range []struct {
		in   int
		want Style
	}{
		{0, None},
		{1, BorderChase},
		{5, BreathingBox},
		{6, None},
		{-1, None},
		{100, None},
	} {
		if got := FromIndex(tc.in); got != tc.want {
			t.Errorf("FromIndex(%d) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestStyleSet(t *testing.T) {
	var s Style
	if err := s.Set("scan"); err != nil || s != ScanLine {
		t.Errorf("Set(scan) = %v, style %v", err, s)
	}
	if err := s.Set("wobble"); err == nil {
		t.Error("Set(wobble) accepted an unknown style")
	}
}
