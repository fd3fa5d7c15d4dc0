// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Endpoint paths, one per concern.
const (
	pathMode            = "/api/device/mode"
	pathText            = "/api/device/text"
	pathPaint           = "/api/device/paint"
	pathImage           = "/api/device/image"
	pathWeatherSettings = "/api/device/weather/settings"
	pathWeatherData     = "/api/device/weather/data"
)

// DefaultTimeout bounds every backend call when no other timeout is given.
const DefaultTimeout = 5 * time.Second

// Client implements Port over HTTP. The API key rides along as a query
// parameter on every request.
type Client struct {
	base *url.URL
	key  string
	hc   *http.Client
	log  *zap.Logger
}

// NewClient returns a Client for the backend at baseURL. A zero timeout
// falls back to DefaultTimeout; a nil logger silences the client.
func NewClient(baseURL, key string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote: base URL %q has no scheme or host", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base: u,
		key:  key,
		hc:   &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

// SetKey replaces the API key used on subsequent requests, after
// reconfiguration hands out a new one. Not safe for concurrent use with
// in-flight requests; the device loop is single threaded.
func (c *Client) SetKey(key string) {
	c.key = key
}

// Mode implements Port.
func (c *Client) Mode(ctx context.Context) (ModeInfo, error) {
	// activeMode is deliberately not required: an absent or empty mode is
	// the backend's way of saying nothing is configured yet.
	var wire struct {
		UserID     string `json:"userId"`
		ActiveMode string `json:"activeMode"`
	}
	if err := c.get(ctx, pathMode, nil, &wire); err != nil {
		return ModeInfo{}, err
	}
	return ModeInfo{UserID: wire.UserID, ActiveMode: wire.ActiveMode}, nil
}

// TextSettings implements Port.
func (c *Client) TextSettings(ctx context.Context) (TextSettings, error) {
	var wire struct {
		Message   *string `json:"message"`
		Animation *int    `json:"animation"`
	}
	if err := c.get(ctx, pathText, nil, &wire); err != nil {
		return TextSettings{}, err
	}
	if wire.Message == nil || wire.Animation == nil {
		return TextSettings{}, fmt.Errorf("remote: %s: payload missing message or animation", pathText)
	}
	return TextSettings{Message: *wire.Message, Animation: *wire.Animation}, nil
}

// PaintCanvas implements Port.
func (c *Client) PaintCanvas(ctx context.Context) (string, error) {
	return c.canvas(ctx, pathPaint)
}

// ImageCanvas implements Port.
func (c *Client) ImageCanvas(ctx context.Context) (string, error) {
	return c.canvas(ctx, pathImage)
}

func (c *Client) canvas(ctx context.Context, path string) (string, error) {
	var wire struct {
		Canvas *string `json:"canvas"`
	}
	if err := c.get(ctx, path, nil, &wire); err != nil {
		return "", err
	}
	if wire.Canvas == nil {
		return "", fmt.Errorf("remote: %s: payload missing canvas", path)
	}
	return *wire.Canvas, nil
}

// WeatherSettings implements Port.
func (c *Client) WeatherSettings(ctx context.Context) (WeatherSettings, error) {
	var wire struct {
		CityIndex *int `json:"cityIndex"`
	}
	if err := c.get(ctx, pathWeatherSettings, nil, &wire); err != nil {
		return WeatherSettings{}, err
	}
	if wire.CityIndex == nil {
		return WeatherSettings{}, fmt.Errorf("remote: %s: payload missing cityIndex", pathWeatherSettings)
	}
	return WeatherSettings{CityIndex: *wire.CityIndex}, nil
}

// WeatherData implements Port.
func (c *Client) WeatherData(ctx context.Context, query string) (Observation, error) {
	var wire struct {
		Temperature *float64 `json:"temperature"`
		Humidity    *float64 `json:"humidity"`
	}
	q := url.Values{"q": {query}}
	if err := c.get(ctx, pathWeatherData, q, &wire); err != nil {
		return Observation{}, err
	}
	if wire.Temperature == nil || wire.Humidity == nil {
		return Observation{}, fmt.Errorf("remote: %s: payload missing temperature or humidity", pathWeatherData)
	}
	return Observation{TemperatureC: *wire.Temperature, HumidityPct: *wire.Humidity}, nil
}

func (c *Client) get(ctx context.Context, path string, extra url.Values, out interface{}) error {
	u := *c.base
	u.Path = path
	q := url.Values{"key": {c.key}}
	for k, vs := range extra {
		q[k] = vs
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug("backend request failed", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug("backend status", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return &StatusError{Code: resp.StatusCode, Path: path}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Debug("backend payload undecodable", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("remote: %s: decoding payload: %w", path, err)
	}
	return nil
}

var _ Port = &Client{}
