// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spec parsing errors.
var (
	ErrBlankSpec       = errors.New("schedule: blank destination spec")
	ErrMalformedRange  = errors.New("schedule: malformed destination range")
	ErrMalformedLine   = errors.New("schedule: malformed line number")
	ErrMalformedWindow = errors.New("schedule: malformed time window")
)

// TimeLayout is the timestamp format accepted in slot specs and plan
// configuration, a local-time ISO 8601 without zone suffix.
const TimeLayout = "2006-01-02T15:04:05"

// ParseSlot parses one command-line slot spec into a Slot.
//
// The spec is a destination number or inclusive range, optionally
// prefixed with the line to select and optionally followed by an
// activation window:
//
//	7                     a single destination, always active
//	0-10                  destinations 0 through 10
//	10-0                  the same range, rotated backwards
//	1:0-10                line 1, destinations 0 through 10
//	5@2026-06-01T08:00:00/2026-06-01T10:00:00
//
// An empty range side defaults to 0, so "-10" counts up from 0 and
// "10-" counts down to 0.
func ParseSlot(spec string) (Slot, error) {
	if spec == "" {
		return Slot{}, ErrBlankSpec
	}

	rangePart := spec
	var windows []Window
	if at := strings.IndexByte(spec, '@'); at >= 0 {
		rangePart = spec[:at]
		window, err := ParseWindow(spec[at+1:])
		if err != nil {
			return Slot{}, err
		}
		windows = []Window{window}
	}

	var line *int
	if colon := strings.IndexByte(rangePart, ':'); colon >= 0 {
		n, err := strconv.Atoi(rangePart[:colon])
		if err != nil {
			return Slot{}, fmt.Errorf("%w: %q", ErrMalformedLine, rangePart[:colon])
		}
		line = &n
		rangePart = rangePart[colon+1:]
	}

	destinations, err := parseRange(rangePart)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Destinations: destinations, Windows: windows, Line: line}, nil
}

// ParseWindow parses a "<start>/<end>" window using TimeLayout for
// both timestamps, interpreted in local time.
func ParseWindow(spec string) (Window, error) {
	parts := strings.Split(spec, "/")
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("%w: %q (expected <start>/<end>)", ErrMalformedWindow, spec)
	}
	start, err := time.ParseInLocation(TimeLayout, parts[0], time.Local)
	if err != nil {
		return Window{}, fmt.Errorf("%w: start %q: %v", ErrMalformedWindow, parts[0], err)
	}
	end, err := time.ParseInLocation(TimeLayout, parts[1], time.Local)
	if err != nil {
		return Window{}, fmt.Errorf("%w: end %q: %v", ErrMalformedWindow, parts[1], err)
	}
	if end.Before(start) {
		return Window{}, fmt.Errorf("%w: end %s before start %s", ErrWindowInverted, parts[1], parts[0])
	}
	return Window{Start: start, End: end}, nil
}

// parseRange expands "N" or "N-M" into the inclusive run of
// destination codes, in spec order. Backward ranges count down.
func parseRange(spec string) ([]int, error) {
	if spec == "" {
		return nil, ErrBlankSpec
	}

	parts := strings.Split(spec, "-")
	switch len(parts) {
	case 1:
		n, err := parseCodeOrZero(parts[0])
		if err != nil || parts[0] == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedRange, spec)
		}
		return []int{n}, nil
	case 2:
		if parts[0] == "" && parts[1] == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedRange, spec)
		}
		from, err := parseCodeOrZero(parts[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedRange, spec)
		}
		to, err := parseCodeOrZero(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedRange, spec)
		}
		return expandRange(from, to), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrMalformedRange, spec)
	}
}

func parseCodeOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func expandRange(from, to int) []int {
	step := 1
	if from > to {
		step = -1
	}
	codes := make([]int, 0, (to-from)*step+1)
	for n := from; ; n += step {
		codes = append(codes, n)
		if n == to {
			return codes
		}
	}
}
