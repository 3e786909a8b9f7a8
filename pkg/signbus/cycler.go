// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package signbus

import (
	"context"
	"log"
	"time"

	"github.com/signwerk/ibisctl/pkg/ibis"
	"github.com/signwerk/ibisctl/pkg/schedule"
)

// CyclerConfig controls the runtime display loop.
type CyclerConfig struct {
	// Interval between destination switches.
	Interval time.Duration
	// Lookahead advances each window's start for early activation.
	Lookahead time.Duration
	// Addresses lists the signs to drive. Empty means broadcast.
	Addresses []ibis.Address
	// BlankCode, when set, is transmitted while no slot is active.
	// When nil, ticks without an active destination skip transmission
	// and the signs hold whatever they last showed.
	BlankCode *int
	// Logf receives loop events. Defaults to log.Printf.
	Logf func(format string, args ...interface{})

	// now is the clock used for schedule decisions, injectable in
	// tests. Defaults to time.Now.
	now func() time.Time
}

// Cycler drives the signs through the plan's active destinations on a
// fixed interval, forever. Transmission failures are logged and the
// loop keeps retrying on the next tick; unattended installations stay
// up through transient bus faults.
type Cycler struct {
	session *Session
	cursor  *schedule.Cursor
	cfg     CyclerConfig
}

// NewCycler validates the plan and builds the runtime loop.
func NewCycler(session *Session, plan *schedule.Plan, cfg CyclerConfig) (*Cycler, error) {
	cursor, err := schedule.NewCursor(plan, cfg.Lookahead)
	if err != nil {
		return nil, err
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Logf == nil {
		cfg.Logf = log.Printf
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return &Cycler{session: session, cursor: cursor, cfg: cfg}, nil
}

// Run loops until the context is canceled. Cancellation is observed
// at the top of each tick, never mid-telegram, so the bus is left in
// a clean state.
func (c *Cycler) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	// First transmission happens immediately, not one interval in.
	c.tick()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.tick()
		}
	}
}

// tick advances the schedule and transmits the active destination to
// every configured target address. When the slot names a line, the
// line-select goes out before the destination so the sign renders
// both together.
func (c *Cycler) tick() {
	dest, ok := c.cursor.Tick(c.cfg.now())
	if !ok {
		if c.cfg.BlankCode == nil {
			return
		}
		dest = schedule.Destination{Code: *c.cfg.BlankCode}
	}

	targets := c.cfg.Addresses
	if len(targets) == 0 {
		targets = []ibis.Address{ibis.AddressBroadcast}
	}

	for _, address := range targets {
		if dest.Line != nil {
			lineSet, err := ibis.NewLineSet(address, *dest.Line)
			if err != nil {
				c.cfg.Logf("cycler: line %d for %s: %v", *dest.Line, address, err)
			} else if err := c.session.Send(lineSet); err != nil {
				c.cfg.Logf("cycler: send to %s failed: %v", address, err)
			}
		}

		telegram, err := ibis.NewDestinationSet(address, dest.Code)
		if err != nil {
			c.cfg.Logf("cycler: destination %d for %s: %v", dest.Code, address, err)
			continue
		}
		if err := c.session.Send(telegram); err != nil {
			c.cfg.Logf("cycler: send to %s failed: %v", address, err)
		}
	}
}
