// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

// CalculateParity computes the IBIS parity byte for the given frame
// bytes. The slice should include the terminating CR; the empty slice
// folds to the seed value 0x7F.
func CalculateParity(data []byte) byte {
	parity := byte(paritySeed)
	for _, b := range data {
		parity ^= b
	}
	return parity
}
