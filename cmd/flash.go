// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 The ibisctl authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/signwerk/ibisctl/pkg/ibis"
	"github.com/signwerk/ibisctl/pkg/ihex"
	"github.com/signwerk/ibisctl/pkg/signbus"
	"github.com/spf13/cobra"
)

var (
	flashAddress   int
	flashBlockSize int
	flashRetries   int
	flashTimeout   time.Duration
	flashPad       bool
)

var flashCmd = &cobra.Command{
	Use:   "flash <image.hex>",
	Short: "Flash a sign database image",
	Long: `Write an Intel HEX database image to one sign, block by block.

Every block must be acknowledged before the next one is sent. If a block
exhausts its retries the session aborts and reports how far it got; the
sign's database is then incomplete and must be re-flashed before use.

Flashing is always addressed to a single sign. Broadcasting an image is
refused: acknowledgements from multiple signs would collide on the bus.

Examples:
  ibisctl flash --port /dev/ttyUSB0 --address 3 depot_lines.hex

  # Slow bus segment, be patient
  ibisctl flash --port /dev/ttyUSB0 --address 3 --timeout 5s --retries 5 depot_lines.hex`,
	Args: cobra.ExactArgs(1),
	RunE: runFlash,
}

func init() {
	rootCmd.AddCommand(flashCmd)
	flashCmd.Flags().IntVarP(&flashAddress, "address", "a", 0, "Target device address (required, 1-15)")
	flashCmd.Flags().IntVar(&flashBlockSize, "block-size", 32, "Image bytes per program-block telegram")
	flashCmd.Flags().IntVar(&flashRetries, "retries", 3, "Re-sends per block before aborting")
	flashCmd.Flags().DurationVar(&flashTimeout, "timeout", 2*time.Second, "Acknowledgement timeout per block")
	flashCmd.Flags().BoolVar(&flashPad, "pad", false, "Zero-pad the final block to the full block size")
	flashCmd.MarkFlagRequired("address")
}

func runFlash(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open image: %v", err)
	}
	image, err := ihex.Decode(file)
	file.Close()
	if err != nil {
		return err
	}
	if len(image) == 0 {
		return fmt.Errorf("image %s is empty", args[0])
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Ibisctl - Database Flash\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Image: %s (%d bytes)\n\n", args[0], len(image))

	session := signbus.NewBus(conn).Acquire()
	defer session.Release()

	cfg := signbus.FlashConfig{
		BlockSize:  flashBlockSize,
		MaxRetries: flashRetries,
		AckTimeout: flashTimeout,
		ZeroPad:    flashPad,
	}

	report, err := signbus.Flash(session, ibis.Address(flashAddress), image, cfg)
	if err != nil {
		var blockErr *signbus.BlockWriteError
		if errors.As(err, &blockErr) && report != nil {
			fmt.Fprintf(os.Stderr, "FAILED at block %d after %d blocks written; the sign database is incomplete\n",
				blockErr.Index, report.Blocks)
		}
		return err
	}

	fmt.Printf("Flashed %d blocks (%d bytes, %d retries)\n", report.Blocks, report.Bytes, report.Retries)
	return nil
}
