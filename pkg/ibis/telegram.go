// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

import (
	"fmt"
	"time"
)

// Telegram represents one decoded or to-be-sent IBIS frame. The parity
// byte is always derived from the other fields; a Telegram obtained
// from Decode has already had its parity verified.
type Telegram struct {
	command   byte
	address   Address
	payload   []byte
	parity    byte
	timestamp time.Time
}

// NewTelegram creates a telegram with the given fields. The parity is
// computed at encode time.
func NewTelegram(command byte, address Address, payload []byte) *Telegram {
	return &Telegram{
		command:   command,
		address:   address,
		payload:   payload,
		timestamp: time.Now(),
	}
}

// Command returns the telegram's command byte.
func (t *Telegram) Command() byte {
	return t.command
}

// Address returns the telegram's device address.
func (t *Telegram) Address() Address {
	return t.address
}

// Payload returns the telegram's payload bytes.
func (t *Telegram) Payload() []byte {
	return t.payload
}

// Parity returns the telegram's parity byte as decoded from the wire.
// For locally constructed telegrams it is zero until Encode runs.
func (t *Telegram) Parity() byte {
	return t.parity
}

// Timestamp returns the telegram's construction or decode time.
func (t *Telegram) Timestamp() time.Time {
	return t.timestamp
}

// Status is a device status code carried in a status-reply telegram.
type Status byte

// Known reports whether the status code has an understood meaning.
func (s Status) Known() bool {
	return s == StatusReadyForData || s == StatusOK
}

func (s Status) String() string {
	switch s {
	case StatusReadyForData:
		return "ready for data"
	case StatusOK:
		return "ok"
	default:
		return fmt.Sprintf("uncategorized (0x%02X)", byte(s))
	}
}
