// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package signbus

import (
	"errors"
	"testing"
	"time"

	"github.com/signwerk/ibisctl/pkg/ibis"
)

func TestScan_ClassifiesEachAddress(t *testing.T) {
	// Address 1 answers, 2 stays silent, 3 sends a corrupted frame,
	// 4 answers. One bad device never blocks the rest of the scan.
	corrupt := ibis.MustEncode(statusReply(t, 3, ibis.StatusOK))
	corrupt[len(corrupt)-1] ^= 0xFF // break the parity byte

	transport := newMockTransport().
		receiveTelegram(statusReply(t, 1, ibis.StatusReadyForData)).
		timeOut().
		receive(corrupt).
		receiveTelegram(statusReply(t, 4, ibis.StatusOK))
	bus := NewBus(transport)
	session := bus.Acquire()
	defer session.Release()

	addresses := []ibis.Address{1, 2, 3, 4}
	results, err := Scan(session, addresses, time.Second)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(results) != len(addresses) {
		t.Fatalf("Scan() returned %d results, want %d", len(results), len(addresses))
	}

	if r := results[1]; r.State != ScanPresent || r.Status != ibis.StatusReadyForData {
		t.Errorf("address 1: %+v, want present/ready", r)
	}
	if r := results[2]; r.State != ScanNoReply {
		t.Errorf("address 2: %+v, want no reply", r)
	}
	if r := results[3]; r.State != ScanMalformed || !errors.Is(r.Err, ibis.ErrChecksumMismatch) {
		t.Errorf("address 3: %+v, want malformed with checksum mismatch", r)
	}
	if r := results[4]; r.State != ScanPresent || r.Status != ibis.StatusOK {
		t.Errorf("address 4: %+v, want present/ok", r)
	}

	// One inquiry went out per address, in increasing order.
	written := transport.writtenTelegrams(t)
	if len(written) != len(addresses) {
		t.Fatalf("wrote %d telegrams, want %d", len(written), len(addresses))
	}
	for i, telegram := range written {
		if telegram.Command() != ibis.CmdStatusInquiry {
			t.Errorf("telegram %d: command %q, want status inquiry", i, telegram.Command())
		}
		if telegram.Address() != addresses[i] {
			t.Errorf("telegram %d: address %d, want %d", i, telegram.Address(), addresses[i])
		}
	}
}

func TestScan_AbortsOnWriteFailure(t *testing.T) {
	bus := NewBus(&brokenTransport{newMockTransport()})
	session := bus.Acquire()
	defer session.Release()

	results, err := Scan(session, []ibis.Address{1, 2}, time.Second)
	if err == nil {
		t.Fatal("expected a bus error when the inquiry cannot be written")
	}
	if results != nil {
		t.Errorf("got partial results %v after write failure", results)
	}
}

func TestScan_RejectsBroadcast(t *testing.T) {
	bus := NewBus(newMockTransport())
	session := bus.Acquire()
	defer session.Release()

	_, err := Scan(session, []ibis.Address{ibis.AddressBroadcast}, time.Second)
	if !errors.Is(err, ibis.ErrAddressOutOfRange) {
		t.Errorf("expected ErrAddressOutOfRange for broadcast scan, got %v", err)
	}
}

func TestAllDeviceAddresses(t *testing.T) {
	addresses := AllDeviceAddresses()
	if len(addresses) != 15 {
		t.Fatalf("got %d addresses, want 15", len(addresses))
	}
	if addresses[0] != ibis.AddressMin || addresses[len(addresses)-1] != ibis.AddressMax {
		t.Errorf("range = %d..%d, want %d..%d",
			addresses[0], addresses[len(addresses)-1], ibis.AddressMin, ibis.AddressMax)
	}
	for _, a := range addresses {
		if a.IsBroadcast() {
			t.Error("broadcast address in scan range")
		}
	}
}
