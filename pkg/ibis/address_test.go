// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

import (
	"errors"
	"testing"
)

func TestAddress_ToWire(t *testing.T) {
	tests := []struct {
		name    string
		address Address
		want    byte
		wantErr bool
	}{
		{name: "broadcast", address: AddressBroadcast, want: '0'},
		{name: "lowest device", address: 1, want: '1'},
		{name: "decimal digit", address: 9, want: '9'},
		{name: "hex digit", address: 10, want: 'A'},
		{name: "highest device", address: 15, want: 'F'},
		{name: "out of range", address: 16, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.address.ToWire()
			if tt.wantErr {
				if !errors.Is(err, ErrAddressOutOfRange) {
					t.Fatalf("expected ErrAddressOutOfRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToWire() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToWire() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddressFromWire_RoundTrip(t *testing.T) {
	for a := AddressBroadcast; a <= AddressMax; a++ {
		wire, err := a.ToWire()
		if err != nil {
			t.Fatalf("ToWire(%d) error: %v", a, err)
		}
		back, err := AddressFromWire(wire)
		if err != nil {
			t.Fatalf("AddressFromWire(%q) error: %v", wire, err)
		}
		if back != a {
			t.Errorf("round trip changed address: %d -> %q -> %d", a, wire, back)
		}
	}
}

func TestAddressFromWire_Lowercase(t *testing.T) {
	a, err := AddressFromWire('f')
	if err != nil {
		t.Fatalf("AddressFromWire('f') error: %v", err)
	}
	if a != AddressMax {
		t.Errorf("AddressFromWire('f') = %d, want %d", a, AddressMax)
	}
}

func TestAddressFromWire_Invalid(t *testing.T) {
	for _, b := range []byte{'G', 'z', ' ', 0x00, 0xFF} {
		if _, err := AddressFromWire(b); !errors.Is(err, ErrAddressOutOfRange) {
			t.Errorf("AddressFromWire(0x%02X): expected ErrAddressOutOfRange, got %v", b, err)
		}
	}
}

func TestAddress_IsBroadcast(t *testing.T) {
	if !AddressBroadcast.IsBroadcast() {
		t.Error("AddressBroadcast should report broadcast")
	}
	if Address(3).IsBroadcast() {
		t.Error("device address 3 should not report broadcast")
	}
}
