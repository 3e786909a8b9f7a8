// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package signbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/signwerk/ibisctl/pkg/ibis"
)

// FlashConfig controls one flashing session.
type FlashConfig struct {
	// BlockSize is the number of image bytes per program-block
	// telegram, at most ibis.MaxBlockSize.
	BlockSize int
	// MaxRetries is how often a block is re-sent after a missing or
	// mismatched acknowledgement before the session aborts.
	MaxRetries int
	// AckTimeout bounds the wait for each program-ack.
	AckTimeout time.Duration
	// ZeroPad pads the final block with zeroes to the full block size
	// instead of sending it short.
	ZeroPad bool
}

// DefaultFlashConfig matches the block granularity observed in sign
// database images.
func DefaultFlashConfig() FlashConfig {
	return FlashConfig{
		BlockSize:  32,
		MaxRetries: 3,
		AckTimeout: 2 * time.Second,
		ZeroPad:    false,
	}
}

// FlashReport summarizes a completed flashing session.
type FlashReport struct {
	Blocks  int // blocks written and acknowledged
	Bytes   int // image bytes transmitted, padding included
	Retries int // total re-sends across all blocks
}

// BlockWriteError reports the block at which a flashing session gave
// up. Blocks before Index were written and acknowledged; the device
// database is incomplete and must be re-flashed.
type BlockWriteError struct {
	Index int
	Cause error
}

func (e *BlockWriteError) Error() string {
	return fmt.Sprintf("signbus: block %d write failed: %v", e.Index, e.Cause)
}

func (e *BlockWriteError) Unwrap() error {
	return e.Cause
}

// Flash writes a database image to one device, block by block, in
// order. Every block must be acknowledged with a matching index
// before the next one is sent; device memory programming is
// sequential and address-order-dependent, so blocks are never
// reordered or parallelized. On an unrecoverable block the session
// aborts with a BlockWriteError rather than skipping ahead.
func Flash(session *Session, address ibis.Address, image []byte, cfg FlashConfig) (*FlashReport, error) {
	if address.IsBroadcast() || !address.Valid() {
		return nil, fmt.Errorf("%w: flash target %d", ibis.ErrAddressOutOfRange, address)
	}
	if cfg.BlockSize <= 0 || cfg.BlockSize > ibis.MaxBlockSize {
		return nil, fmt.Errorf("signbus: block size %d (valid 1-%d)", cfg.BlockSize, ibis.MaxBlockSize)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("signbus: negative retry count %d", cfg.MaxRetries)
	}

	report := &FlashReport{}
	for offset, index := 0, 0; offset < len(image); offset, index = offset+cfg.BlockSize, index+1 {
		block := image[offset:min(offset+cfg.BlockSize, len(image))]
		if cfg.ZeroPad && len(block) < cfg.BlockSize {
			padded := make([]byte, cfg.BlockSize)
			copy(padded, block)
			block = padded
		}

		retries, err := writeBlock(session, address, index, block, cfg)
		report.Retries += retries
		if err != nil {
			return report, &BlockWriteError{Index: index, Cause: err}
		}
		report.Blocks++
		report.Bytes += len(block)
	}

	return report, nil
}

// writeBlock sends one block and waits for its acknowledgement,
// re-sending up to the configured retry budget. Returns how many
// re-sends were needed.
func writeBlock(session *Session, address ibis.Address, index int, block []byte, cfg FlashConfig) (int, error) {
	telegram, err := ibis.NewProgramBlock(address, index, block)
	if err != nil {
		return 0, err
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		reply, err := session.Exchange(telegram, cfg.AckTimeout)
		if err != nil {
			lastErr = err
			continue
		}

		ackIndex, err := reply.BlockIndex()
		switch {
		case err != nil || reply.Command() != ibis.CmdProgramAck:
			lastErr = fmt.Errorf("unexpected reply %s", ibis.FormatCommand(reply.Command()))
		case ackIndex != index:
			lastErr = fmt.Errorf("acknowledgement for block %d, expected %d", ackIndex, index)
		default:
			return attempt, nil
		}
	}

	if lastErr == nil {
		lastErr = errors.New("retries exhausted")
	}
	return cfg.MaxRetries, lastErr
}
