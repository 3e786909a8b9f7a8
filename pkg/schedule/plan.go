// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

// Package schedule decides which destination codes a sign should be
// rotating through at any given moment.
//
// A Plan is an ordered list of Slots. Each Slot groups destination
// codes with optional activation windows; a slot with no windows is
// always active. All time comparisons use timestamps passed in by the
// caller, already normalized to one timezone; the engine never reads
// a wall clock, so replaying the same timestamps reproduces the same
// decisions.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Plan validation errors.
var (
	ErrWindowInverted = errors.New("schedule: window end before start")
	ErrEmptySlot      = errors.New("schedule: slot without destinations")
	ErrCodeOutOfRange = errors.New("schedule: destination code out of range")
	ErrLineOutOfRange = errors.New("schedule: line number out of range")
)

// Destination codes and line numbers are three decimal digits on the
// wire; line zero is not selectable.
const (
	maxDestinationCode = 999
	minLineCode        = 1
	maxLineCode        = 999
)

// Window is one activation interval. The slot is eligible from
// Start-lookahead (inclusive) until End (exclusive). A window with
// Start == End never activates.
type Window struct {
	Start time.Time
	End   time.Time
}

// ActiveAt reports whether the window is open at t with the given
// lookahead. A zero-length window never opens, lookahead or not.
func (w Window) ActiveAt(t time.Time, lookahead time.Duration) bool {
	if !w.End.After(w.Start) {
		return false
	}
	return !t.Before(w.Start.Add(-lookahead)) && t.Before(w.End)
}

// Slot is one plan entry: destination codes shown as a rotating group
// whenever at least one window is open, or always when there are no
// windows. A slot may name the line to select alongside its
// destinations; nil means leave the sign's line untouched.
type Slot struct {
	Destinations []int
	Windows      []Window
	Line         *int
}

// ActiveAt reports whether the slot contributes its destinations at t.
func (s Slot) ActiveAt(t time.Time, lookahead time.Duration) bool {
	if len(s.Windows) == 0 {
		return true
	}
	for _, w := range s.Windows {
		if w.ActiveAt(t, lookahead) {
			return true
		}
	}
	return false
}

// Plan is an ordered sequence of slots. Order is the rotation order
// and the deterministic tie-break; it expresses no priority.
type Plan struct {
	Slots []Slot
}

// Validate checks the plan eagerly so a bad configuration fails
// before the first tick instead of mid-run.
func (p *Plan) Validate() error {
	for i, slot := range p.Slots {
		if len(slot.Destinations) == 0 {
			return fmt.Errorf("%w: slot %d", ErrEmptySlot, i)
		}
		for _, code := range slot.Destinations {
			if code < 0 || code > maxDestinationCode {
				return fmt.Errorf("%w: slot %d, code %d", ErrCodeOutOfRange, i, code)
			}
		}
		if slot.Line != nil && (*slot.Line < minLineCode || *slot.Line > maxLineCode) {
			return fmt.Errorf("%w: slot %d, line %d", ErrLineOutOfRange, i, *slot.Line)
		}
		for j, w := range slot.Windows {
			if w.End.Before(w.Start) {
				return fmt.Errorf("%w: slot %d, window %d (%s / %s)",
					ErrWindowInverted, i, j,
					w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
			}
		}
	}
	return nil
}

// Destination is one rotation entry: the code to display and, when
// the contributing slot names one, the line to select alongside it.
type Destination struct {
	Code int
	Line *int
}

// ActiveDestinations concatenates, in plan order, the destinations of
// every slot active at t. Duplicates are preserved: repeating a code
// weights its share of the rotation.
func (p *Plan) ActiveDestinations(t time.Time, lookahead time.Duration) []Destination {
	var active []Destination
	for _, slot := range p.Slots {
		if !slot.ActiveAt(t, lookahead) {
			continue
		}
		for _, code := range slot.Destinations {
			active = append(active, Destination{Code: code, Line: slot.Line})
		}
	}
	return active
}
