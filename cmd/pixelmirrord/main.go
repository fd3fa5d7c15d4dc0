// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Pixelmirrord drives a pixelmirror display device.
//
// It polls the backend for the active mode, fetches the mode's data and
// renders frames to a monochrome OLED panel over I²C, or to the terminal
// with --terminal for development without hardware.
//
// Usage:
//
//	pixelmirrord run [flags]
//
// See 'pixelmirrord --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version can be set at build time via ldflags:
//
//	go build -ldflags="-X main.Version=v1.2.3"
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	flagConfig   string
	flagLogLevel string
	flagTerminal bool
)

var rootCmd = &cobra.Command{
	Use:     "pixelmirrord",
	Short:   "Pixelmirror display device firmware",
	Version: Version,
	RunE:    runDevice,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "/etc/pixelmirror.yaml", "device configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log verbosity: debug, info, warn or error (default silent)")
	rootCmd.Flags().BoolVar(&flagTerminal, "terminal", false, "render to the terminal instead of the OLED panel")
	runCmd.Flags().BoolVar(&flagTerminal, "terminal", false, "render to the terminal instead of the OLED panel")

	rootCmd.AddCommand(runCmd, versionCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the device loop",
	RunE:  runDevice,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pixelmirrord %s\n", Version)
	},
}

// buildLogger returns a console logger at the requested level, or a silent
// one when no level was asked for.
func buildLogger(level string) (*zap.Logger, error) {
	if level == "" {
		return zap.NewNop(), nil
	}
	var zl zapcore.Level
	switch level {
	case "debug":
		zl = zapcore.DebugLevel
	case "info":
		zl = zapcore.InfoLevel
	case "warn":
		zl = zapcore.WarnLevel
	case "error":
		zl = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zl),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
