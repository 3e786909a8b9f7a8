// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 The ibisctl authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `Enumerate the serial ports present on this machine.

Useful for finding the right --port value before scanning the bus.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ports, err := serial.GetPortsList()
	if err != nil {
		return fmt.Errorf("failed to enumerate serial ports: %v", err)
	}

	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}

	for _, port := range ports {
		fmt.Println(port)
	}
	return nil
}
