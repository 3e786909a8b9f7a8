// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

import "fmt"

// Command constructors create Telegram structs ready for encoding.
// They validate their arguments so that MustEncode on the result
// cannot fail.

// NewStatusInquiry creates a status-inquiry telegram ('a'). Devices
// answer with a status-reply. Broadcast is not a valid target: every
// device would answer at once on the shared bus.
func NewStatusInquiry(address Address) (*Telegram, error) {
	if err := requireDevice(address); err != nil {
		return nil, err
	}
	return NewTelegram(CmdStatusInquiry, address, nil), nil
}

// NewStatusReply creates a status-reply telegram ('A') carrying one
// status code. Only ever seen device-to-controller; constructed here
// for tests and bus simulation.
func NewStatusReply(address Address, status Status) (*Telegram, error) {
	if err := requireDevice(address); err != nil {
		return nil, err
	}
	return NewTelegram(CmdStatusReply, address, []byte{byte(status)}), nil
}

// NewLineSet creates a line-select telegram ('l') switching the sign
// to the line with the given number, 1-999. The address may be
// broadcast to switch every sign on the bus.
func NewLineSet(address Address, line int) (*Telegram, error) {
	if !address.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrAddressOutOfRange, address)
	}
	if line < MinLineCode || line > MaxLineCode {
		return nil, fmt.Errorf("%w: line %d (valid %d-%d)", ErrCodeOutOfRange, line, MinLineCode, MaxLineCode)
	}
	payload := []byte(fmt.Sprintf("%0*d", destinationDigits, line))
	return NewTelegram(CmdLineSet, address, payload), nil
}

// NewDestinationSet creates a destination-set telegram ('z') selecting
// the destination with the given code, 0-999. The address may be
// broadcast to switch every sign on the bus.
func NewDestinationSet(address Address, code int) (*Telegram, error) {
	if !address.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrAddressOutOfRange, address)
	}
	if code < 0 || code > MaxDestinationCode {
		return nil, fmt.Errorf("%w: %d (valid 0-%d)", ErrCodeOutOfRange, code, MaxDestinationCode)
	}
	payload := []byte(fmt.Sprintf("%0*d", destinationDigits, code))
	return NewTelegram(CmdDestinationSet, address, payload), nil
}

// NewProgramBlock creates a program-block telegram ('Q') carrying one
// block of a sign database image, hex-encoded, for the addressed
// device.
func NewProgramBlock(address Address, index int, data []byte) (*Telegram, error) {
	if err := requireDevice(address); err != nil {
		return nil, err
	}
	if index < 0 || index > MaxBlockIndex {
		return nil, fmt.Errorf("%w: block index %d", ErrCodeOutOfRange, index)
	}
	if len(data) > MaxBlockSize {
		return nil, fmt.Errorf("%w: block of %d bytes (max %d)", ErrPayloadTooLarge, len(data), MaxBlockSize)
	}
	payload := make([]byte, 0, BlockIndexDigits+2*len(data))
	payload = appendHex16(payload, uint16(index))
	for _, b := range data {
		payload = append(payload, hexDigit(b>>4), hexDigit(b&0x0F))
	}
	return NewTelegram(CmdProgramBlock, address, payload), nil
}

// NewProgramAck creates a program-ack telegram ('q') confirming
// receipt of the block with the given index. Only ever seen
// device-to-controller; constructed here for tests and bus simulation.
func NewProgramAck(address Address, index int) (*Telegram, error) {
	if err := requireDevice(address); err != nil {
		return nil, err
	}
	if index < 0 || index > MaxBlockIndex {
		return nil, fmt.Errorf("%w: block index %d", ErrCodeOutOfRange, index)
	}
	return NewTelegram(CmdProgramAck, address, appendHex16(nil, uint16(index))), nil
}

// StatusCode extracts the status code from a status-reply telegram.
func (t *Telegram) StatusCode() (Status, error) {
	if t.command != CmdStatusReply {
		return 0, fmt.Errorf("%w: status code on command 0x%02X", ErrMalformedPayload, t.command)
	}
	if len(t.payload) != 1 {
		return 0, fmt.Errorf("%w: status reply with %d payload bytes", ErrMalformedPayload, len(t.payload))
	}
	return Status(t.payload[0]), nil
}

// DestinationCode extracts the destination code from a
// destination-set telegram.
func (t *Telegram) DestinationCode() (int, error) {
	if t.command != CmdDestinationSet {
		return 0, fmt.Errorf("%w: destination code on command 0x%02X", ErrMalformedPayload, t.command)
	}
	if len(t.payload) != destinationDigits {
		return 0, fmt.Errorf("%w: destination with %d payload bytes", ErrMalformedPayload, len(t.payload))
	}
	code := 0
	for _, b := range t.payload {
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("%w: non-digit 0x%02X in destination", ErrMalformedPayload, b)
		}
		code = code*10 + int(b-'0')
	}
	return code, nil
}

// LineCode extracts the line number from a line-select telegram.
func (t *Telegram) LineCode() (int, error) {
	if t.command != CmdLineSet {
		return 0, fmt.Errorf("%w: line number on command 0x%02X", ErrMalformedPayload, t.command)
	}
	if len(t.payload) != destinationDigits {
		return 0, fmt.Errorf("%w: line select with %d payload bytes", ErrMalformedPayload, len(t.payload))
	}
	line := 0
	for _, b := range t.payload {
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("%w: non-digit 0x%02X in line number", ErrMalformedPayload, b)
		}
		line = line*10 + int(b-'0')
	}
	return line, nil
}

// BlockIndex extracts the block index from a program-block or
// program-ack telegram.
func (t *Telegram) BlockIndex() (int, error) {
	if t.command != CmdProgramBlock && t.command != CmdProgramAck {
		return 0, fmt.Errorf("%w: block index on command 0x%02X", ErrMalformedPayload, t.command)
	}
	if len(t.payload) < BlockIndexDigits {
		return 0, fmt.Errorf("%w: %d payload bytes, need %d index digits", ErrMalformedPayload, len(t.payload), BlockIndexDigits)
	}
	index := 0
	for _, b := range t.payload[:BlockIndexDigits] {
		v, ok := hexValue(b)
		if !ok {
			return 0, fmt.Errorf("%w: non-hex 0x%02X in block index", ErrMalformedPayload, b)
		}
		index = index<<4 | int(v)
	}
	return index, nil
}

// BlockData extracts and hex-decodes the data bytes from a
// program-block telegram.
func (t *Telegram) BlockData() ([]byte, error) {
	if t.command != CmdProgramBlock {
		return nil, fmt.Errorf("%w: block data on command 0x%02X", ErrMalformedPayload, t.command)
	}
	hexData := t.payload
	if len(hexData) < BlockIndexDigits {
		return nil, fmt.Errorf("%w: program block without index", ErrMalformedPayload)
	}
	hexData = hexData[BlockIndexDigits:]
	if len(hexData)%2 != 0 {
		return nil, fmt.Errorf("%w: odd hex data length %d", ErrMalformedPayload, len(hexData))
	}
	data := make([]byte, 0, len(hexData)/2)
	for i := 0; i < len(hexData); i += 2 {
		hi, okHi := hexValue(hexData[i])
		lo, okLo := hexValue(hexData[i+1])
		if !okHi || !okLo {
			return nil, fmt.Errorf("%w: non-hex block data at offset %d", ErrMalformedPayload, i)
		}
		data = append(data, hi<<4|lo)
	}
	return data, nil
}

func requireDevice(address Address) error {
	if address.IsBroadcast() || !address.Valid() {
		return fmt.Errorf("%w: %d (need device address %d-%d)", ErrAddressOutOfRange, address, AddressMin, AddressMax)
	}
	return nil
}

func appendHex16(dst []byte, v uint16) []byte {
	return append(dst,
		hexDigit(byte(v>>12)&0x0F),
		hexDigit(byte(v>>8)&0x0F),
		hexDigit(byte(v>>4)&0x0F),
		hexDigit(byte(v)&0x0F),
	)
}
