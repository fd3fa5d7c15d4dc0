// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package controller is the cooperative mode state machine of the device.
//
// One Controller owns all mutable device state and is driven by calling
// Tick in a loop. There is no preemption and no locking: scheduling between
// the mode poll, the per-mode data refresh, the frame render and the button
// sampling is purely elapsed-time comparisons against independent interval
// constants. Backend calls block the loop up to their timeout; that bounded
// pause is part of the design.
package controller

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/pixelmirror/firmware/anim"
	"github.com/pixelmirror/firmware/config"
	"github.com/pixelmirror/firmware/remote"
	"github.com/pixelmirror/firmware/sparsecanvas"
	"github.com/pixelmirror/firmware/textlayout"
	"github.com/pixelmirror/firmware/weather"
)

// Provisioner is the external captive-portal collaborator entered through
// the long-press escape hatch. Provision blocks until the user finishes or
// ctx expires, and returns the API key now in effect ("" when unchanged).
type Provisioner interface {
	Provision(ctx context.Context) (string, error)
}

// Params are the scheduling constants of the cooperative loop.
type Params struct {
	// PollInterval is the cadence of the backend mode query.
	PollInterval time.Duration
	// RefreshInterval is the cadence of the active mode's data fetch.
	RefreshInterval time.Duration
	// FetchTimeout bounds every single backend call.
	FetchTimeout time.Duration
	// Debounce absorbs contact bounce on the button line: a release shorter
	// than this does not reset the press timer.
	Debounce time.Duration
	// LongPress is how long the button must be held to open the
	// reconfiguration flow.
	LongPress time.Duration
	// PortalTimeout bounds the reconfiguration portal, the one intentional
	// long blocking operation.
	PortalTimeout time.Duration
}

// DefaultParams matches the stock firmware timing.
func DefaultParams() Params {
	return Params{
		PollInterval:    10 * time.Second,
		RefreshInterval: 5 * time.Second,
		FetchTimeout:    5 * time.Second,
		Debounce:        30 * time.Millisecond,
		LongPress:       3 * time.Second,
		PortalTimeout:   3 * time.Minute,
	}
}

// offlineThreshold is how many consecutive poll failures count as
// connectivity loss rather than a transient error.
const offlineThreshold = 3

// State is the device-state aggregate: everything the remote polls mutate
// lives here, owned by the Controller, with no ambient globals.
type State struct {
	Mode      Mode
	Message   string
	Anim      anim.Style
	Canvas    *sparsecanvas.Grid
	CityIndex int
	// Loaded reports whether the active mode's data arrived at least once
	// since the mode was entered.
	Loaded bool
}

// Options configures a Controller.
type Options struct {
	// Port is the backend port. Required.
	Port remote.Port
	// Display receives the rendered frames. Required.
	Display display.Drawer
	// Button is the active-low reconfiguration input; nil when no button is
	// fitted.
	Button gpio.PinIn
	// Provisioner handles the reconfiguration flow; nil disables it.
	Provisioner Provisioner
	// APIKey is the key loaded at boot; an invalid or absent key renders
	// the needs-configuration screen until provisioning supplies one.
	APIKey string
	// Rekey is called when provisioning returns a new valid key, so the
	// transport and persistent storage can pick it up. Optional.
	Rekey func(string)
	// Catalog overrides the built-in city catalog. Optional.
	Catalog []*weather.City
	// Logger defaults to a nop logger.
	Logger *zap.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time

	Params Params
}

// Controller drives the device. Tick is not re-entrant.
type Controller struct {
	port   remote.Port
	disp   display.Drawer
	button gpio.PinIn
	prov   Provisioner
	rekey  func(string)
	log    *zap.Logger
	p      Params
	now    func() time.Time

	fb      *image1bit.VerticalLSB
	eng     *anim.Engine
	wren    *weather.Renderer
	catalog []*weather.City

	st         State
	zone       *weather.Zone
	configured bool

	lastPoll    time.Time
	lastRefresh time.Time
	pollFails   int

	pressed    bool
	pressStart time.Time
	released   time.Time
}

// New returns a Controller rendering to o.Display.
func New(o Options) (*Controller, error) {
	if o.Port == nil {
		return nil, errors.New("controller: Port is required")
	}
	if o.Display == nil {
		return nil, errors.New("controller: Display is required")
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Catalog == nil {
		o.Catalog = weather.Catalog()
	}
	if (o.Params == Params{}) {
		o.Params = DefaultParams()
	}
	wren, err := weather.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	bounds := o.Display.Bounds()
	c := &Controller{
		port:    o.Port,
		disp:    o.Display,
		button:  o.Button,
		prov:    o.Provisioner,
		rekey:   o.Rekey,
		log:     o.Logger,
		p:       o.Params,
		now:     o.Now,
		fb:      image1bit.NewVerticalLSB(bounds),
		eng:     anim.New(bounds),
		wren:    wren,
		catalog: o.Catalog,
		st: State{
			Canvas:    sparsecanvas.New(bounds.Dx(), bounds.Dy()),
			CityIndex: weather.Unselected,
		},
		configured: config.ValidKey(o.APIKey),
	}
	return c, nil
}

// State returns a snapshot of the device-state aggregate. The canvas
// pointer is shared; treat it as read-only.
func (c *Controller) State() State {
	return c.st
}

// Tick runs one iteration of the cooperative loop: sample the button, poll
// the mode on its cadence, refresh the active mode's data on its cadence,
// render one frame. It never blocks longer than one backend timeout, except
// inside the user-initiated reconfiguration flow.
func (c *Controller) Tick() {
	now := c.now()
	if c.longPressed(now) {
		c.reconfigure()
		return
	}
	if !c.configured {
		c.renderNeedsConfig()
		return
	}
	if now.Sub(c.lastPoll) > c.p.PollInterval {
		c.pollMode(now)
		now = c.now()
	}
	if c.st.Mode != Unset && now.Sub(c.lastRefresh) > c.p.RefreshInterval {
		c.refresh(now)
	}
	c.render()
}

// longPressed samples the button line and reports whether the hold
// threshold was crossed this tick. The detection is edge triggered: the
// press start is recorded on the falling edge and compared against the
// clock on each later tick, with no busy wait.
func (c *Controller) longPressed(now time.Time) bool {
	if c.button == nil {
		return false
	}
	if c.button.Read() != gpio.Low {
		if c.pressed {
			c.pressed = false
			c.released = now
		}
		return false
	}
	if !c.pressed {
		c.pressed = true
		// A release shorter than the debounce window is contact bounce;
		// resume the running press instead of starting over.
		if c.pressStart.IsZero() || now.Sub(c.released) > c.p.Debounce {
			c.pressStart = now
		}
	}
	if now.Sub(c.pressStart) >= c.p.LongPress {
		c.pressed = false
		c.pressStart = time.Time{}
		return true
	}
	return false
}

// reconfigure suspends normal operation and hands control to the
// provisioning collaborator. This is the one place the cooperative loop
// intentionally blocks for an extended, portal-bounded period.
func (c *Controller) reconfigure() {
	c.renderPrompt()
	if c.prov == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.p.PortalTimeout)
	key, err := c.prov.Provision(ctx)
	cancel()
	if err != nil {
		c.log.Warn("provisioning ended", zap.Error(err))
	}
	if config.ValidKey(key) {
		c.configured = true
		if c.rekey != nil {
			c.rekey(key)
		}
	}
	// Resume by re-polling immediately and re-entering the current mode.
	c.lastPoll = time.Time{}
	c.lastRefresh = time.Time{}
	c.st.Loaded = false
}

func (c *Controller) pollMode(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), c.p.FetchTimeout)
	mi, err := c.port.Mode(ctx)
	cancel()
	c.lastPoll = now
	if err != nil {
		// Transient failure: everything stays as it is, no mode flapping.
		c.pollFails++
		c.log.Debug("mode poll failed", zap.Error(err), zap.Int("consecutive", c.pollFails))
		return
	}
	c.pollFails = 0
	if m := ParseMode(mi.ActiveMode); m != c.st.Mode {
		c.enterMode(now, m)
	}
}

// enterMode runs the mode-entry sequence: reset the loaded flag, show the
// transitional screen, fetch the mode's data immediately.
func (c *Controller) enterMode(now time.Time, m Mode) {
	c.log.Info("mode change", zap.Stringer("from", c.st.Mode), zap.Stringer("to", m))
	c.st.Mode = m
	c.st.Loaded = false
	c.renderTransition(m)
	if m != Unset {
		c.refresh(now)
	}
}

// refresh fetches the active mode's data. Failures leave the cached state
// untouched; the cadence timer advances regardless so a dead backend is
// retried on schedule instead of every frame.
func (c *Controller) refresh(now time.Time) {
	c.lastRefresh = now
	ctx, cancel := context.WithTimeout(context.Background(), c.p.FetchTimeout)
	defer cancel()

	switch c.st.Mode {
	case Text:
		ts, err := c.port.TextSettings(ctx)
		if err != nil {
			c.log.Debug("text fetch failed", zap.Error(err))
			return
		}
		c.st.Message = ts.Message
		c.st.Anim = anim.FromIndex(ts.Animation)
		c.st.Loaded = true

	case PixelPaint:
		s, err := c.port.PaintCanvas(ctx)
		if err != nil {
			c.log.Debug("paint fetch failed", zap.Error(err))
			return
		}
		c.st.Canvas.Decode(s)
		c.st.Loaded = true

	case ImageToPixel:
		s, err := c.port.ImageCanvas(ctx)
		if err != nil {
			c.log.Debug("image fetch failed", zap.Error(err))
			return
		}
		c.st.Canvas.Decode(s)
		c.st.Loaded = true

	case Weather:
		c.refreshWeather(ctx)
	}
}

func (c *Controller) refreshWeather(ctx context.Context) {
	ws, err := c.port.WeatherSettings(ctx)
	if err != nil {
		c.log.Debug("weather settings fetch failed", zap.Error(err))
	} else if !weather.ValidIndex(ws.CityIndex, len(c.catalog)) {
		// Reject and retain the prior selection.
		c.log.Warn("city index out of range", zap.Int("index", ws.CityIndex))
	} else {
		if ws.CityIndex != c.st.CityIndex {
			c.selectCity(ws.CityIndex)
		}
		c.st.Loaded = true
	}
	if c.st.CityIndex == weather.Unselected {
		// First-class state: no fetch, no timezone logic.
		return
	}
	city := c.catalog[c.st.CityIndex]
	obs, err := c.port.WeatherData(ctx, city.Query)
	if err != nil {
		c.log.Debug("weather data fetch failed", zap.Error(err))
		return
	}
	city.SetObservation(obs.TemperatureC, obs.HumidityPct)
}

// selectCity switches the selection and updates the timezone context before
// the next weather fetch.
func (c *Controller) selectCity(i int) {
	c.st.CityIndex = i
	c.zone = nil
	if i == weather.Unselected {
		return
	}
	z, err := weather.ParseTZ(c.catalog[i].TZ)
	if err != nil {
		// Catalog rules are static and tested; fall back to UTC rendering.
		c.log.Warn("bad timezone rule", zap.String("city", c.catalog[i].Name), zap.Error(err))
		return
	}
	c.zone = z
}

// render draws one frame for the current mode and flushes it.
func (c *Controller) render() {
	if c.pollFails >= offlineThreshold {
		c.renderOffline()
		return
	}
	switch c.st.Mode {
	case Unset:
		c.renderWelcome()
	case Text:
		c.clear()
		textlayout.Layout(c.st.Message, c.fb.Bounds()).Draw(c.fb, image1bit.On)
		c.eng.Step(c.st.Anim, c.fb)
		c.flush()
	case PixelPaint, ImageToPixel:
		c.clear()
		draw.Draw(c.fb, c.fb.Bounds(), c.st.Canvas, image.Point{}, draw.Src)
		c.flush()
	case Weather:
		if c.st.CityIndex == weather.Unselected {
			c.wren.RenderUnselected(c.fb)
		} else {
			local := c.now().UTC()
			if c.zone != nil {
				local = c.zone.Convert(local)
			}
			c.wren.Render(c.fb, c.catalog[c.st.CityIndex], local)
		}
		c.flush()
	}
}

var off = image.NewUniform(image1bit.Off)

func (c *Controller) clear() {
	draw.Draw(c.fb, c.fb.Bounds(), off, image.Point{}, draw.Src)
}

func (c *Controller) flush() {
	if err := c.disp.Draw(c.disp.Bounds(), c.fb, image.Point{}); err != nil {
		c.log.Warn("display flush failed", zap.Error(err))
	}
}
