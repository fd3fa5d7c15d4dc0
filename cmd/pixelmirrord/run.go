// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/pixelmirror/firmware/config"
	"github.com/pixelmirror/firmware/controller"
	"github.com/pixelmirror/firmware/remote"
	"github.com/pixelmirror/firmware/screen2d"
)

func runDevice(cmd *cobra.Command, args []string) error {
	log, err := buildLogger(flagLogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	key := config.LoadKey(cfg.KeyFile)

	var disp display.Drawer
	var button gpio.PinIn
	if flagTerminal {
		disp = screen2d.New(&screen2d.Opts{W: cfg.Width, H: cfg.Height})
	} else {
		if _, err := host.Init(); err != nil {
			return fmt.Errorf("initializing host: %w", err)
		}
		bus, err := i2creg.Open(cfg.I2CBus)
		if err != nil {
			return fmt.Errorf("opening I²C bus %q: %w", cfg.I2CBus, err)
		}
		defer bus.Close()
		dev, err := ssd1306.NewI2C(bus, &ssd1306.Opts{W: cfg.Width, H: cfg.Height, Sequential: true})
		if err != nil {
			return fmt.Errorf("initializing panel: %w", err)
		}
		disp = dev
		if p := gpioreg.ByName(cfg.ButtonPin); p != nil {
			if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
				return fmt.Errorf("configuring button %s: %w", cfg.ButtonPin, err)
			}
			button = p
		} else {
			log.Warn("button pin not found, reconfiguration disabled", zap.String("pin", cfg.ButtonPin))
		}
	}

	client, err := remote.NewClient(cfg.BaseURL, key, cfg.FetchTimeout, log)
	if err != nil {
		return err
	}

	params := controller.DefaultParams()
	params.PollInterval = cfg.PollInterval
	params.RefreshInterval = cfg.RefreshInterval
	params.FetchTimeout = cfg.FetchTimeout
	params.PortalTimeout = cfg.PortalTimeout

	ctrl, err := controller.New(controller.Options{
		Port:        client,
		Display:     disp,
		Button:      button,
		Provisioner: &keyFileProvisioner{path: cfg.KeyFile, log: log},
		APIKey:      key,
		Rekey: func(k string) {
			client.SetKey(k)
			if err := config.SaveKey(cfg.KeyFile, k); err != nil {
				log.Warn("persisting key failed", zap.Error(err))
			}
		},
		Logger: log,
		Params: params,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("device loop starting",
		zap.String("backend", cfg.BaseURL),
		zap.Bool("configured", key != ""),
		zap.Stringer("display", disp))

	t := time.NewTicker(cfg.FrameInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return disp.Halt()
		case <-t.C:
			ctrl.Tick()
		}
	}
}

// keyFileProvisioner completes reconfiguration by watching the key file: the
// captive-portal companion (or an operator over ssh) writes the freshly
// issued key there, and the device picks it up without a restart.
type keyFileProvisioner struct {
	path string
	log  *zap.Logger
}

func (p *keyFileProvisioner) Provision(ctx context.Context) (string, error) {
	prior := config.LoadKey(p.path)
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
			if k := config.LoadKey(p.path); k != "" && k != prior {
				p.log.Info("new key provisioned")
				return k, nil
			}
		}
	}
}
