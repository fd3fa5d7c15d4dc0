// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package textlayout

import (
	"image"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func TestWrap(t *testing.T) {
	for _, tc := range []struct {
		name     string
		msg      string
		cols     int
		maxLines int
		want     []string
	}{
		{
			name: "last space before limit",
			msg:  "Hello World Foo", cols: 10, maxLines: 6,
			want: []string{"Hello", "World Foo"},
		},
		{
			name: "fits on one line",
			msg:  "Hello", cols: 10, maxLines: 6,
			want: []string{"Hello"},
		},
		{
			name: "explicit breaks always break",
			msg:  "a\nb\nc", cols: 10, maxLines: 6,
			want: []string{"a", "b", "c"},
		},
		{
			name: "hard break without boundary",
			msg:  "abcdefghijkl", cols: 5, maxLines: 6,
			want: []string{"abcde", "fghij", "kl"},
		},
		{
			name: "space exactly at limit dropped",
			msg:  "abcde fghij", cols: 5, maxLines: 6,
			want: []string{"abcde", "fghij"},
		},
		{
			name: "line cap discards silently",
			msg:  "one two three four", cols: 5, maxLines: 2,
			want: []string{"one", "two"},
		},
		{
			name: "empty message is one empty line",
			msg:  "", cols: 10, maxLines: 3,
			want: []string{""},
		},
		{
			name: "zero lines",
			msg:  "hello", cols: 10, maxLines: 0,
			want: nil,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Wrap(tc.msg, tc.cols, tc.maxLines)
			if diff := cmp.Diff(got, tc.want, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Wrap() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestWrapProperties(t *testing.T) {
	msgs := []string{
		"",
		"Hello World Foo",
		strings.Repeat("word ", 50),
		strings.Repeat("x", 500),
		"a\n\n\nb",
		"trailing space \nand more",
	}
	for _, msg := range msgs {
		for _, cols := range []int{1, 5, 13, 40} {
			for _, cap := range []int{1, 3, 10} {
				lines := Wrap(msg, cols, cap)
				if len(lines) > cap {
					t.Fatalf("Wrap(%q, %d, %d) produced %d lines", msg, cols, cap, len(lines))
				}
				for _, l := range lines {
					if len([]rune(l)) > cols {
						t.Fatalf("Wrap(%q, %d, %d): line %q exceeds limit", msg, cols, cap, l)
					}
				}
			}
		}
	}
}

func TestLayoutCentering(t *testing.T) {
	bounds := image.Rect(0, 0, 96, 48)
	b := Layout("Hi", bounds)

	// 96/7 = 13 columns, 48/13 = 3 lines.
	if cols, lines := Fit(bounds); cols != 13 || lines != 3 {
		t.Fatalf("Fit() = (%d, %d), want (13, 3)", cols, lines)
	}
	if want := (48 - LineHeight) / 2; b.Top() != want {
		t.Errorf("Top() = %d, want %d", b.Top(), want)
	}
	if want := (96 - 2*GlyphWidth) / 2; b.Left(0) != want {
		t.Errorf("Left(0) = %d, want %d", b.Left(0), want)
	}
}

func TestTopClampsToZero(t *testing.T) {
	// Four 13px lines in 48px of height would start above the display.
	b := Block{Lines: []string{"a", "b", "c", "d"}, bounds: image.Rect(0, 0, 96, 48)}
	if b.Top() != 0 {
		t.Errorf("Top() = %d, want 0", b.Top())
	}
}

func TestDraw(t *testing.T) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 96, 48))
	Layout("Hi", img.Bounds()).Draw(img, image1bit.On)

	lit := 0
	for y := 0; y < 48; y++ {
		for x := 0; x < 96; x++ {
			if img.BitAt(x, y) == image1bit.On {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("Draw() left the framebuffer empty")
	}
}
