// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the device configuration file and the persisted
// API key.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the device configuration. Every field has a usable default so a
// device with no config file still boots.
type Config struct {
	// BaseURL is the backend root, e.g. "https://api.pixelmirror.dev".
	BaseURL string `yaml:"base_url"`
	// I2CBus is the periph bus name; empty picks the first available bus.
	I2CBus string `yaml:"i2c_bus"`
	// ButtonPin is the gpioreg name of the active-low reconfiguration
	// button.
	ButtonPin string `yaml:"button_pin"`
	// Width and Height of the attached panel in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// PollInterval is the cadence of the mode query.
	PollInterval time.Duration `yaml:"poll_interval"`
	// RefreshInterval is the cadence of the active mode's data fetch.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// FrameInterval is the pause between cooperative loop iterations.
	FrameInterval time.Duration `yaml:"frame_interval"`
	// FetchTimeout bounds every single backend call.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// PortalTimeout bounds the reconfiguration portal.
	PortalTimeout time.Duration `yaml:"portal_timeout"`

	// KeyFile is where the API key persists across boots.
	KeyFile string `yaml:"key_file"`
}

// Default returns the stock configuration for a 96x48 panel.
func Default() Config {
	return Config{
		BaseURL:         "https://api.pixelmirror.dev",
		ButtonPin:       "GPIO17",
		Width:           96,
		Height:          48,
		PollInterval:    10 * time.Second,
		RefreshInterval: 5 * time.Second,
		FrameInterval:   100 * time.Millisecond,
		FetchTimeout:    5 * time.Second,
		PortalTimeout:   3 * time.Minute,
		KeyFile:         "/var/lib/pixelmirror/apikey",
	}
}

// Load reads a YAML config file and overlays it on Default. A missing file
// is not an error; a malformed one is.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c.withDefaults(), nil
}

// withDefaults re-fills zero values that yaml explicitly nulled out.
func (c Config) withDefaults() Config {
	d := Default()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = d.RefreshInterval
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = d.FrameInterval
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.PortalTimeout <= 0 {
		c.PortalTimeout = d.PortalTimeout
	}
	if c.KeyFile == "" {
		c.KeyFile = d.KeyFile
	}
	return c
}

// API key convention: a fixed prefix plus 32 hex characters issued by the
// backend when the device is claimed.
const (
	keyPrefix = "pmk_"
	keyLength = len(keyPrefix) + 32
)

// ValidKey reports whether k matches the issued-key convention.
func ValidKey(k string) bool {
	return len(k) == keyLength && strings.HasPrefix(k, keyPrefix)
}

// LoadKey reads the persisted API key. An unreadable or invalid key returns
// empty, meaning "unconfigured"; the file itself is never touched.
func LoadKey(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	k := strings.TrimSpace(string(raw))
	if !ValidKey(k) {
		return ""
	}
	return k
}

// SaveKey persists a freshly issued API key. It refuses to write a key that
// does not match the convention, so a bad provisioning round cannot clobber
// a working one.
func SaveKey(path, key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("config: refusing to persist malformed key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, []byte(key+"\n"), 0o600); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
