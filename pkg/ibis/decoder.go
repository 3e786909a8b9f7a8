// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

import "fmt"

// Decoder reassembles telegrams from a byte stream. It does not assume
// frame-aligned input: after a corrupt or oversized frame it resets
// and hunts for the next frame boundary, so a hot-plugged device or a
// noisy bus degrades to dropped telegrams rather than a stuck session.
type Decoder struct {
	buffer      []byte
	awaitParity bool
}

// NewDecoder creates a new streaming telegram decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		buffer: make([]byte, 0, MaxTelegramSize),
	}
}

// Reset discards any partially accumulated frame.
func (d *Decoder) Reset() {
	d.buffer = d.buffer[:0]
	d.awaitParity = false
}

// DecodeByte feeds one byte through the decoder.
// Returns a completed telegram, or nil while the frame is incomplete.
// Returns an error when a frame fails validation; the decoder has
// already resynchronized and may keep being fed.
func (d *Decoder) DecodeByte(b byte) (*Telegram, error) {
	if d.awaitParity {
		frame := append(d.buffer, b)
		telegram, err := Decode(frame)
		d.Reset()
		return telegram, err
	}

	if len(d.buffer) >= MaxTelegramSize {
		d.Reset()
		return nil, fmt.Errorf("%w: frame exceeds %d bytes", ErrPayloadTooLarge, MaxTelegramSize)
	}

	d.buffer = append(d.buffer, b)
	if b == TerminatorByte {
		// Everything up to the CR is in the buffer, the parity byte
		// is the one byte still outstanding.
		d.awaitParity = true
	}
	return nil, nil
}

// Decode runs a chunk of stream bytes through the decoder, returning
// all telegrams completed in it. Decode failures within the chunk are
// skipped over; the decoder resynchronizes on its own.
func (d *Decoder) Decode(chunk []byte) []*Telegram {
	var telegrams []*Telegram
	for _, b := range chunk {
		if t, err := d.DecodeByte(b); err == nil && t != nil {
			telegrams = append(telegrams, t)
		}
	}
	return telegrams
}
