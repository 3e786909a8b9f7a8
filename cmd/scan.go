// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 The ibisctl authors

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/signwerk/ibisctl/pkg/signbus"
	"github.com/spf13/cobra"
)

var scanTimeout int

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the bus for connected signs",
	Long: `Send a status inquiry to every device address and report who answers.

Each device address (1-15) is polled in turn. Signs that reply are listed
with their reported status; addresses that stay silent are skipped. Replies
that arrive corrupted are flagged, since they usually indicate wiring or
termination problems rather than an empty address.

Examples:
  # Scan over a serial adapter
  ibisctl scan --port /dev/ttyUSB0

  # Scan through a WebSocket bridge
  ibisctl scan --url ws://bridge.local/ibis

Exit codes:
  0 - At least one sign found
  1 - No signs found
  2 - Connection error`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 1, "Per-address reply timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Ibisctl - Bus Scan\n")
	fmt.Printf("Connection: %s\n\n", connInfo)

	session := signbus.NewBus(conn).Acquire()
	defer session.Release()

	addresses := signbus.AllDeviceAddresses()
	results, err := signbus.Scan(session, addresses, time.Duration(scanTimeout)*time.Second)
	if err != nil {
		return err
	}

	found := 0
	for _, address := range addresses {
		result := results[address]
		switch result.State {
		case signbus.ScanPresent:
			fmt.Printf("%s: %s\n", address, result.Status)
			found++
		case signbus.ScanMalformed:
			fmt.Printf("%s: corrupted reply (%v)\n", address, result.Err)
			found++
		case signbus.ScanNoReply:
			// silent address, not listed
		}
	}

	if found == 0 {
		fmt.Println("No signs found")
		os.Exit(1)
	}
	fmt.Printf("\n%d sign(s) found\n", found)
	return nil
}
