// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

import "fmt"

// Address identifies one device on the bus, or all of them when it is
// the reserved broadcast value.
type Address uint8

// IsBroadcast reports whether the address is the reserved broadcast
// value.
func (a Address) IsBroadcast() bool {
	return a == AddressBroadcast
}

// Valid reports whether the address is representable on the wire,
// broadcast included.
func (a Address) Valid() bool {
	return a <= AddressMax
}

// ToWire returns the single hex digit encoding of the address.
func (a Address) ToWire() (byte, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrAddressOutOfRange, a)
	}
	return hexDigit(byte(a)), nil
}

// AddressFromWire decodes an address from its wire digit.
func AddressFromWire(b byte) (Address, error) {
	v, ok := hexValue(b)
	if !ok {
		return 0, fmt.Errorf("%w: wire byte 0x%02X", ErrAddressOutOfRange, b)
	}
	return Address(v), nil
}

func (a Address) String() string {
	if a.IsBroadcast() {
		return "broadcast"
	}
	return fmt.Sprintf("%X", uint8(a))
}

func hexDigit(v byte) byte {
	if v < 10 {
		return '0' + v
	}
	return 'A' + v - 10
}

func hexValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}
