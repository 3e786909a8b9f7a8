// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 The ibisctl authors

package cmd

import (
	"fmt"
	"strconv"

	"github.com/signwerk/ibisctl/pkg/ibis"
	"github.com/signwerk/ibisctl/pkg/signbus"
	"github.com/spf13/cobra"
)

var (
	setAddress int
	setLine    int
)

var setCmd = &cobra.Command{
	Use:   "set <code>",
	Short: "Set a destination code once",
	Long: `Send a single destination-set telegram and exit.

The code selects an entry from the sign's flashed database (0-999). By
default the telegram is broadcast so every sign on the bus switches; use
--address to drive a single sign. With --line a line-select telegram is
sent first, so the sign renders line and destination together.

Examples:
  # All signs show destination 26
  ibisctl set --port /dev/ttyUSB0 26

  # Only the sign at address 3
  ibisctl set --port /dev/ttyUSB0 --address 3 26

  # Line 4 with destination 26
  ibisctl set --port /dev/ttyUSB0 --line 4 26`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().IntVarP(&setAddress, "address", "a", 0, "Target device address (0 = broadcast)")
	setCmd.Flags().IntVarP(&setLine, "line", "l", 0, "Line to select before the destination")
}

func runSet(cmd *cobra.Command, args []string) error {
	code, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid destination code %q: %v", args[0], err)
	}

	telegram, err := ibis.NewDestinationSet(ibis.Address(setAddress), code)
	if err != nil {
		return err
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	session := signbus.NewBus(conn).Acquire()
	defer session.Release()

	if cmd.Flags().Changed("line") {
		lineSet, err := ibis.NewLineSet(ibis.Address(setAddress), setLine)
		if err != nil {
			return err
		}
		if err := session.Send(lineSet); err != nil {
			return fmt.Errorf("send failed: %v", err)
		}
		fmt.Printf("Sent line %03d via %s\n", setLine, connInfo)
	}

	if err := session.Send(telegram); err != nil {
		return fmt.Errorf("send failed: %v", err)
	}

	fmt.Printf("Sent destination %03d via %s\n", code, connInfo)
	return nil
}
