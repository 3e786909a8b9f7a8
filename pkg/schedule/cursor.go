// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package schedule

import "time"

// Cursor rotates through the plan's currently active destinations.
// The active list is recomputed on every tick from the timestamp the
// caller passes in; the cursor holds no clock of its own.
//
// When the active list changes between ticks the rotation index is
// clamped into the new range rather than reset, so an opening or
// closing window disturbs the visible rotation as little as possible.
// The cursor is not safe for concurrent use.
type Cursor struct {
	plan      *Plan
	lookahead time.Duration
	index     int
}

// NewCursor validates the plan and creates a cursor over it. The plan
// is held by reference and never mutated.
func NewCursor(plan *Plan, lookahead time.Duration) (*Cursor, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &Cursor{plan: plan, lookahead: lookahead, index: -1}, nil
}

// Tick advances the rotation by one position and returns the
// destination now under the cursor. ok is false when no slot is
// active at now; whether to blank the display or hold the last code
// is the caller's policy, not the engine's.
func (c *Cursor) Tick(now time.Time) (dest Destination, ok bool) {
	active := c.plan.ActiveDestinations(now, c.lookahead)
	if len(active) == 0 {
		return Destination{}, false
	}
	if c.index >= len(active) {
		c.index = len(active) - 1
	}
	c.index = (c.index + 1) % len(active)
	return active[c.index], true
}
