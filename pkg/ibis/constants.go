// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

// Package ibis implements the telegram codec for IBIS destination signs.
//
// A telegram is a short ASCII frame exchanged on a shared half-duplex
// serial bus. The wire layout used by this package is
//
//	[command byte][address hex digit][payload...][CR][parity]
//
// where the parity byte is an XOR fold seeded with 0x7F over every
// preceding byte of the frame, including the carriage return. Any
// single-bit corruption on the bus flips the parity check.
package ibis

// Frame delimiters and sizing
const (
	TerminatorByte = '\r'

	// command + address + CR + parity
	MinTelegramSize = 4

	// A program-block telegram carries the block index (4 hex digits)
	// followed by the block data in hex, two characters per byte.
	MaxPayloadSize  = BlockIndexDigits + 2*MaxBlockSize
	MaxTelegramSize = MinTelegramSize + MaxPayloadSize
)

// Parity configuration. The empty telegram folds to the seed value.
const paritySeed = 0x7F

// Command bytes
const (
	CmdStatusInquiry  = 'a'
	CmdStatusReply    = 'A'
	CmdLineSet        = 'l'
	CmdDestinationSet = 'z'
	CmdProgramBlock   = 'Q'
	CmdProgramAck     = 'q'
)

// Bus addressing. Devices answer on 1..15; address 0 is reserved for
// broadcast and is only valid on outgoing destination-set telegrams.
const (
	AddressBroadcast Address = 0
	AddressMin       Address = 1
	AddressMax       Address = 15
)

// Destination codes are transmitted as three decimal digits.
const (
	MaxDestinationCode = 999
	destinationDigits  = 3
)

// Line numbers share the three-digit encoding, but zero is not a
// selectable line.
const (
	MinLineCode = 1
	MaxLineCode = 999
)

// Database flashing
const (
	// Block index is transmitted as four hex digits.
	BlockIndexDigits = 4
	MaxBlockIndex    = 0xFFFF

	// Largest data block a single program-block telegram can carry.
	MaxBlockSize = 32
)

// Device status codes as reported in a status-reply telegram. Meanings
// beyond ready/ok were never observed documented and are passed through
// uncategorized.
const (
	StatusReadyForData Status = '0'
	StatusOK           Status = '3'
)
