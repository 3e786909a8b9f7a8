// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package schedule

import (
	"errors"
	"testing"
	"time"
)

func alwaysActiveSlot(codes ...int) Slot {
	return Slot{Destinations: codes}
}

func TestCursor_RotatesInPlanOrder(t *testing.T) {
	plan := &Plan{Slots: []Slot{
		alwaysActiveSlot(10),
		alwaysActiveSlot(20),
		alwaysActiveSlot(30),
	}}
	cursor, err := NewCursor(plan, 0)
	if err != nil {
		t.Fatalf("NewCursor() error: %v", err)
	}

	want := []int{10, 20, 30, 10, 20, 30}
	now := t0
	for i, expected := range want {
		dest, ok := cursor.Tick(now)
		if !ok {
			t.Fatalf("tick %d: no active destination", i)
		}
		if dest.Code != expected {
			t.Errorf("tick %d: code = %d, want %d", i, dest.Code, expected)
		}
		now = now.Add(time.Second)
	}
}

func TestCursor_DeterministicReplay(t *testing.T) {
	makePlan := func() *Plan {
		return &Plan{Slots: []Slot{
			alwaysActiveSlot(1, 2),
			{Destinations: []int{3}, Windows: []Window{{Start: t0.Add(3 * time.Second), End: t0.Add(6 * time.Second)}}},
		}}
	}

	replay := func() []int {
		cursor, err := NewCursor(makePlan(), time.Second)
		if err != nil {
			t.Fatalf("NewCursor() error: %v", err)
		}
		var codes []int
		for i := 0; i < 10; i++ {
			dest, ok := cursor.Tick(t0.Add(time.Duration(i) * time.Second))
			if ok {
				codes = append(codes, dest.Code)
			}
		}
		return codes
	}

	first := replay()
	second := replay()
	if len(first) != len(second) {
		t.Fatalf("replay lengths differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("replay diverged at tick %d: %v vs %v", i, first, second)
		}
	}
}

func TestCursor_NoActiveDestination(t *testing.T) {
	plan := &Plan{Slots: []Slot{
		{Destinations: []int{7}, Windows: []Window{{Start: t0, End: t1}}},
	}}
	cursor, err := NewCursor(plan, 0)
	if err != nil {
		t.Fatalf("NewCursor() error: %v", err)
	}

	if _, ok := cursor.Tick(t0.Add(-time.Hour)); ok {
		t.Error("expected no active destination before the window")
	}
	if dest, ok := cursor.Tick(t0); !ok || dest.Code != 7 {
		t.Errorf("Tick() inside window = %d, %v; want 7, true", dest.Code, ok)
	}
	if _, ok := cursor.Tick(t1); ok {
		t.Error("expected no active destination at window end")
	}
}

func TestCursor_ClampsWhenActiveListShrinks(t *testing.T) {
	windowed := Window{Start: t0, End: t0.Add(10 * time.Second)}
	plan := &Plan{Slots: []Slot{
		alwaysActiveSlot(1),
		{Destinations: []int{2, 3, 4}, Windows: []Window{windowed}},
	}}
	cursor, err := NewCursor(plan, 0)
	if err != nil {
		t.Fatalf("NewCursor() error: %v", err)
	}

	// Walk the cursor to the end of the four-entry list.
	var last Destination
	for i := 0; i < 4; i++ {
		last, _ = cursor.Tick(t0)
	}
	if last.Code != 4 {
		t.Fatalf("cursor should sit on the last entry, got %d", last.Code)
	}

	// The window closes, only destination 1 remains. The clamped
	// cursor must yield a valid entry, not panic or skip ticks.
	dest, ok := cursor.Tick(t0.Add(time.Minute))
	if !ok || dest.Code != 1 {
		t.Errorf("Tick() after shrink = %d, %v; want 1, true", dest.Code, ok)
	}
}

func TestNewCursor_RejectsInvalidPlan(t *testing.T) {
	plan := &Plan{Slots: []Slot{
		{Destinations: []int{1}, Windows: []Window{{Start: t1, End: t0}}},
	}}
	if _, err := NewCursor(plan, 0); !errors.Is(err, ErrWindowInverted) {
		t.Errorf("expected ErrWindowInverted, got %v", err)
	}
}
