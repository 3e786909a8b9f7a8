// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

import "testing"

func TestCalculateParity_Empty(t *testing.T) {
	parity := CalculateParity([]byte{})
	if parity != paritySeed {
		t.Errorf("parity of empty data should be the seed 0x7F, got 0x%02X", parity)
	}
}

func TestCalculateParity_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected byte
	}{
		{
			name:     "terminator only",
			data:     []byte{'\r'},
			expected: 0x72,
		},
		{
			name:     "known telegram body",
			data:     []byte{'l', '0', '2', '6', '\r'},
			expected: 0x2A,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parity := CalculateParity(tt.data)
			if parity != tt.expected {
				t.Errorf("parity mismatch: expected 0x%02X, got 0x%02X", tt.expected, parity)
			}
		})
	}
}

func TestCalculateParity_SingleBitSensitivity(t *testing.T) {
	data := []byte{'z', '1', '0', '2', '6', '\r'}
	reference := CalculateParity(data)

	for i := range data {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), data...)
			flipped[i] ^= 1 << bit
			if CalculateParity(flipped) == reference {
				t.Errorf("flipping bit %d of byte %d left the parity unchanged", bit, i)
			}
		}
	}
}
