// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package controller

// Mode is the active rendering behavior of the device. Exactly one is
// active at a time.
type Mode int

// Supported modes. Unset is both the initial state and a valid resting
// state, rendered as the welcome screen.
const (
	Unset Mode = iota
	Text
	PixelPaint
	ImageToPixel
	Weather
)

func (m Mode) String() string {
	switch m {
	case Unset:
		return "unset"
	case Text:
		return "text"
	case PixelPaint:
		return "paint"
	case ImageToPixel:
		return "image"
	case Weather:
		return "weather"
	}
	return "unset"
}

// ParseMode maps a backend mode string to a Mode. Unknown or empty strings
// are Unset, not an error; the backend clearing a mode is a normal state.
func ParseMode(s string) Mode {
	switch s {
	case "text":
		return Text
	case "paint":
		return PixelPaint
	case "image":
		return ImageToPixel
	case "weather":
		return Weather
	}
	return Unset
}
