// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package controller

import (
	"strings"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/pixelmirror/firmware/textlayout"
)

// The fixed screens are all plain centered text, rendered through the same
// layout engine as text mode.
func (c *Controller) renderLines(lines ...string) {
	c.clear()
	textlayout.Layout(strings.Join(lines, "\n"), c.fb.Bounds()).Draw(c.fb, image1bit.On)
	c.flush()
}

// renderWelcome is the Unset resting screen.
func (c *Controller) renderWelcome() {
	c.renderLines("pixelmirror", "waiting for", "a mode")
}

// renderTransition bridges a mode change while the first fetch runs.
func (c *Controller) renderTransition(m Mode) {
	c.renderLines("mode", m.String())
}

// renderNeedsConfig is shown while no valid API key is present. Distinct
// from the error screens: the device is healthy, just unclaimed.
func (c *Controller) renderNeedsConfig() {
	c.renderLines("not set up", "hold button", "3s to begin")
}

// renderPrompt is shown while the provisioning portal is open.
func (c *Controller) renderPrompt() {
	c.renderLines("setup", "join the", "portal wifi")
}

// renderOffline is the connectivity-loss status screen. The next scheduled
// poll doubles as the reconnect attempt; the device never halts over this.
func (c *Controller) renderOffline() {
	c.renderLines("backend", "unreachable", "retrying")
}
