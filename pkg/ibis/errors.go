// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

import "errors"

// Protocol errors. Encode and decode failures wrap one of these
// sentinels so callers can classify outcomes with errors.Is.
var (
	ErrFrameTooShort     = errors.New("ibis: frame too short")
	ErrChecksumMismatch  = errors.New("ibis: checksum mismatch")
	ErrUnknownCommand    = errors.New("ibis: unknown command")
	ErrPayloadTooLarge   = errors.New("ibis: payload too large")
	ErrAddressOutOfRange = errors.New("ibis: address out of range")
	ErrCodeOutOfRange    = errors.New("ibis: destination code out of range")
	ErrMalformedPayload  = errors.New("ibis: malformed payload")
)
