// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

import "fmt"

// Encode serializes a telegram to wire format, appending the
// terminating CR and the parity byte. Same inputs always produce the
// same bytes.
func Encode(t *Telegram) ([]byte, error) {
	if !knownCommand(t.command) {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownCommand, t.command)
	}
	if len(t.payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(t.payload), MaxPayloadSize)
	}

	addr, err := t.address.ToWire()
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 0, len(t.payload)+MinTelegramSize)
	frame = append(frame, t.command, addr)
	frame = append(frame, t.payload...)
	frame = append(frame, TerminatorByte)
	frame = append(frame, CalculateParity(frame))
	return frame, nil
}

// MustEncode encodes a telegram built by one of the command
// constructors, which cannot fail. Panics on encoding error.
func MustEncode(t *Telegram) []byte {
	frame, err := Encode(t)
	if err != nil {
		panic(fmt.Sprintf("ibis: encode error: %v", err))
	}
	return frame
}

// Decode parses and validates one complete frame. The returned
// telegram is internally consistent: the parity has been verified
// against the recomputed value and the command is known.
func Decode(frame []byte) (*Telegram, error) {
	if len(frame) < MinTelegramSize {
		return nil, fmt.Errorf("%w: %d bytes (min %d)", ErrFrameTooShort, len(frame), MinTelegramSize)
	}

	received := frame[len(frame)-1]
	expected := CalculateParity(frame[:len(frame)-1])
	if received != expected {
		return nil, fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrChecksumMismatch, expected, received)
	}
	if frame[len(frame)-2] != TerminatorByte {
		return nil, fmt.Errorf("%w: missing CR before parity byte", ErrFrameTooShort)
	}

	command := frame[0]
	if !knownCommand(command) {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownCommand, command)
	}

	address, err := AddressFromWire(frame[1])
	if err != nil {
		return nil, err
	}

	t := NewTelegram(command, address, nil)
	if payload := frame[2 : len(frame)-2]; len(payload) > 0 {
		t.payload = append([]byte(nil), payload...)
	}
	t.parity = received
	return t, nil
}

func knownCommand(b byte) bool {
	switch b {
	case CmdStatusInquiry, CmdStatusReply, CmdLineSet, CmdDestinationSet, CmdProgramBlock, CmdProgramAck:
		return true
	}
	return false
}
