// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 The ibisctl authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signwerk/ibisctl/pkg/ibis"
	"github.com/signwerk/ibisctl/pkg/schedule"
	"github.com/signwerk/ibisctl/pkg/signbus"
	"github.com/spf13/cobra"
)

var (
	cycleInterval  time.Duration
	cycleLookahead time.Duration
	cycleAddresses []int
	cycleBlank     int
)

var cycleCmd = &cobra.Command{
	Use:   "cycle <slot>...",
	Short: "Cycle through scheduled destinations",
	Long: `Rotate the signs through a destination plan until interrupted.

Each slot argument is a destination range, optionally restricted to a time
window:

  26           single destination
  20-29        range, shown low to high
  29-20        range, shown high to low
  4:20-29      the same range with line 4 selected alongside
  26@2026-12-01T00:00:00/2026-12-24T23:59:59
               destination 26, only during the window

A slot without a window is always active. On every tick the next active
destination is transmitted; when nothing is active the signs hold their
last destination unless --blank is given.

Examples:
  # Rotate three destinations every 10 seconds
  ibisctl cycle --port /dev/ttyUSB0 --interval 10s 26 31 47

  # Seasonal special with a blanking fallback
  ibisctl cycle --port /dev/ttyUSB0 --blank 0 "900@2026-12-01T00:00:00/2026-12-24T23:59:59"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCycle,
}

func init() {
	rootCmd.AddCommand(cycleCmd)
	cycleCmd.Flags().DurationVar(&cycleInterval, "interval", 5*time.Second, "Time between destination switches")
	cycleCmd.Flags().DurationVar(&cycleLookahead, "lookahead", 0, "Activate windows this long before their start")
	cycleCmd.Flags().IntSliceVarP(&cycleAddresses, "address", "a", nil, "Target device address, repeatable (default broadcast)")
	cycleCmd.Flags().IntVar(&cycleBlank, "blank", -1, "Destination code to show while no slot is active")
}

func runCycle(cmd *cobra.Command, args []string) error {
	plan := &schedule.Plan{}
	for _, spec := range args {
		slot, err := schedule.ParseSlot(spec)
		if err != nil {
			return fmt.Errorf("slot %q: %v", spec, err)
		}
		plan.Slots = append(plan.Slots, slot)
	}

	addresses := make([]ibis.Address, 0, len(cycleAddresses))
	for _, a := range cycleAddresses {
		addresses = append(addresses, ibis.Address(a))
	}

	cfg := signbus.CyclerConfig{
		Interval:  cycleInterval,
		Lookahead: cycleLookahead,
		Addresses: addresses,
	}
	if cmd.Flags().Changed("blank") {
		blank := cycleBlank
		cfg.BlankCode = &blank
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	session := signbus.NewBus(conn).Acquire()
	defer session.Release()

	cycler, err := signbus.NewCycler(session, plan, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Ibisctl - Destination Cycler\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Interval: %s, slots: %d\n", cycleInterval, len(plan.Slots))
	fmt.Printf("Press Ctrl+C to exit\n\n")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cycler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
