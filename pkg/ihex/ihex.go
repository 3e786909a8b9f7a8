// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

// Package ihex reads Intel HEX sign database images into the flat byte
// slice the flasher transmits. Only data and end-of-file records are
// understood; sign databases use nothing else. Address gaps between
// data records are zero-filled.
package ihex

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrMalformedRecord  = errors.New("ihex: malformed record")
	ErrChecksumMismatch = errors.New("ihex: record checksum mismatch")
	ErrUnsupportedType  = errors.New("ihex: unsupported record type")
	ErrDataAfterEOF     = errors.New("ihex: record after end-of-file")
)

// Record type bytes. Extended addressing types are rejected; sign
// databases fit in the 16-bit address space.
const (
	recordData = 0x00
	recordEOF  = 0x01
)

// Record byte layout after hex decoding: length, two address bytes,
// type, data, checksum.
const overheadBytes = 5

// Decode reads an Intel HEX image until its end-of-file record, or
// until the input runs out if the record is missing. Blank lines are
// skipped; anything else that is not a record is an error. Record
// errors carry the 1-based line number.
func Decode(r io.Reader) ([]byte, error) {
	var image []byte
	eofSeen := false

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if eofSeen {
			return nil, fmt.Errorf("%w: line %d", ErrDataAfterEOF, lineNo)
		}

		record, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d", err, lineNo)
		}

		switch record.kind {
		case recordData:
			image = placeAt(image, int(record.address), record.data)
		case recordEOF:
			eofSeen = true
		default:
			return nil, fmt.Errorf("%w: type 0x%02X on line %d", ErrUnsupportedType, record.kind, lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ihex: read: %w", err)
	}

	// A missing end-of-file record is tolerated; truncated images
	// still flash everything they contain.
	return image, nil
}

type record struct {
	address uint16
	kind    byte
	data    []byte
}

func parseRecord(line string) (*record, error) {
	if line[0] != ':' {
		return nil, ErrMalformedRecord
	}
	raw, err := hex.DecodeString(line[1:])
	if err != nil || len(raw) < overheadBytes {
		return nil, ErrMalformedRecord
	}

	length := int(raw[0])
	if len(raw) != overheadBytes+length {
		return nil, ErrMalformedRecord
	}

	// All record bytes, checksum included, sum to zero modulo 256.
	var sum byte
	for _, b := range raw {
		sum += b
	}
	if sum != 0 {
		return nil, ErrChecksumMismatch
	}

	return &record{
		address: uint16(raw[1])<<8 | uint16(raw[2]),
		kind:    raw[3],
		data:    raw[4 : 4+length],
	}, nil
}

// placeAt writes data into image at the given offset, growing it with
// zeroes as needed. Records may arrive out of address order.
func placeAt(image []byte, offset int, data []byte) []byte {
	if need := offset + len(data); need > len(image) {
		image = append(image, make([]byte, need-len(image))...)
	}
	copy(image[offset:], data)
	return image
}
