// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package firmware is the device-side core of the pixelmirror display.
//
// A pixelmirror is a small monochrome OLED panel that mirrors remote,
// user-authored state: free-form text with border animations, pixel art
// painted in a web UI, and a timezone-aware weather dashboard. The device
// polls a backend over HTTP on a fixed cadence and renders the result
// locally; everything on-device runs in one cooperative loop.
//
// The packages in this module split along that seam: sparsecanvas decodes
// the painted-pixel wire format, textlayout wraps and centers message text,
// anim advances the border effects, weather owns the city catalog and the
// dashboard renderer, remote is the synchronous port to the backend, and
// controller ties them together into the mode state machine. cmd/pixelmirrord
// is the firmware binary.
package firmware
