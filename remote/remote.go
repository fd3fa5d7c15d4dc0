// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package remote is the synchronous port to the pixelmirror backend.
//
// Every operation blocks the cooperative loop until it returns or its
// timeout fires; that bounded blocking is the contract, not an accident.
// Callers treat any error, transport, status or schema, identically: keep
// the previously cached value and move on.
package remote

import (
	"context"
	"fmt"
)

// ModeInfo is the result of the mode query.
type ModeInfo struct {
	UserID     string
	ActiveMode string
}

// TextSettings is the text mode payload.
type TextSettings struct {
	Message   string
	Animation int
}

// WeatherSettings is the weather mode selection payload.
type WeatherSettings struct {
	CityIndex int
}

// Observation is a weather reading for one location.
type Observation struct {
	TemperatureC float64
	HumidityPct  float64
}

// Port is the request/response contract to the backend. One operation per
// remote concern; each is bounded by the transport's fixed timeout.
type Port interface {
	// Mode returns which mode the user selected. An empty or unknown
	// ActiveMode is valid and means "nothing configured yet".
	Mode(ctx context.Context) (ModeInfo, error)
	// TextSettings returns the text mode message and animation selector.
	TextSettings(ctx context.Context) (TextSettings, error)
	// PaintCanvas returns the sparse canvas string painted in the web UI.
	PaintCanvas(ctx context.Context) (string, error)
	// ImageCanvas returns the sparse canvas string produced by the
	// image-to-pixel converter.
	ImageCanvas(ctx context.Context) (string, error)
	// WeatherSettings returns the selected city index.
	WeatherSettings(ctx context.Context) (WeatherSettings, error)
	// WeatherData returns the current reading for a geocoding query.
	WeatherData(ctx context.Context, query string) (Observation, error)
}

// StatusError is returned for a non-2xx backend response.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: %s returned status %d", e.Path, e.Code)
}
