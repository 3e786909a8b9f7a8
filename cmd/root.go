// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 The ibisctl authors

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool
)

var rootCmd = &cobra.Command{
	Use:   "ibisctl",
	Short: "IBIS destination sign controller",
	Long: `Ibisctl - A CLI tool for driving IBIS destination signs over a shared bus.

Provides commands for scanning the bus, setting destinations, cycling through
scheduled destination plans, and flashing sign database images.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 1200]
  WebSocket: --url ws://host/path [--username user]

Serial connections use the IBIS line discipline (7 data bits, even parity,
two stop bits). For WebSocket authentication, the password is read from the
IBISCTL_PASSWORD environment variable, or prompted interactively if not set.
The --password flag is intentionally not provided to avoid leaking credentials
in shell history.`,
	Version: "1.0.0",
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 1200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
