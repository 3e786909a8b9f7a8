// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

// Package signbus runs the active bus operations against IBIS signs:
// scanning for devices, flashing sign databases, and the cycling
// runtime loop.
//
// The bus is half-duplex and shared: every device sees every byte, so
// at most one request/response exchange may be in flight at a time.
// All operations therefore go through a Session, an explicit
// exclusive-ownership token handed out by a Bus. Scan, Flash, and the
// Cycler are mutually exclusive within one process.
package signbus

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/signwerk/ibisctl/pkg/ibis"
)

// Transport is the byte pipe to the bus. Serial ports and the
// WebSocket bridge both satisfy it. After SetReadTimeout, a Read that
// sees no bytes within the timeout returns (0, nil); the callers here
// treat that as "no reply".
type Transport interface {
	io.ReadWriter
	SetReadTimeout(d time.Duration) error
}

// Exchange outcome errors. ErrTimeout means total silence;
// ErrIncompleteReply means bytes arrived but never formed a complete
// frame before the deadline.
var (
	ErrTimeout         = errors.New("signbus: no reply within timeout")
	ErrIncompleteReply = errors.New("signbus: incomplete reply within timeout")
)

// Bus serializes access to one transport.
type Bus struct {
	mu        sync.Mutex
	transport Transport
}

// NewBus wraps a transport. The bus takes ownership: all reads and
// writes must go through sessions acquired from it.
func NewBus(transport Transport) *Bus {
	return &Bus{transport: transport}
}

// Acquire blocks until the bus is free and returns the exclusive
// session token. Release it when the operation is done.
func (b *Bus) Acquire() *Session {
	b.mu.Lock()
	return &Session{bus: b, decoder: ibis.NewDecoder()}
}

// Session is the exclusive right to exchange telegrams on the bus.
// It is not safe for concurrent use; one goroutine drives one session.
type Session struct {
	bus      *Bus
	decoder  *ibis.Decoder
	released bool
}

// Release returns the bus to other would-be owners. The session must
// not be used afterwards.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.released = true
	s.bus.mu.Unlock()
}

// Send encodes and writes one telegram without expecting a reply.
func (s *Session) Send(t *ibis.Telegram) error {
	frame, err := ibis.Encode(t)
	if err != nil {
		return err
	}
	if _, err := s.bus.transport.Write(frame); err != nil {
		return fmt.Errorf("signbus: write: %w", err)
	}
	return nil
}

// Exchange performs one complete round-trip: send the request, then
// read until a telegram decodes or the timeout elapses. A decode
// failure on received bytes is returned as the ibis error; no bytes at
// all is ErrTimeout. The exchange never blocks past the deadline.
func (s *Session) Exchange(request *ibis.Telegram, timeout time.Duration) (*ibis.Telegram, error) {
	if err := s.Send(request); err != nil {
		return nil, err
	}
	return s.receive(timeout)
}

func (s *Session) receive(timeout time.Duration) (*ibis.Telegram, error) {
	s.decoder.Reset()
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 64)
	received := false

	for {
		// Each read only gets the time left until the deadline, so a
		// device trickling bytes cannot stretch the exchange past it.
		remaining := time.Until(deadline)
		if remaining <= 0 {
			if received {
				return nil, ErrIncompleteReply
			}
			return nil, ErrTimeout
		}
		if err := s.bus.transport.SetReadTimeout(remaining); err != nil {
			return nil, fmt.Errorf("signbus: set read timeout: %w", err)
		}

		n, err := s.bus.transport.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("signbus: read: %w", err)
		}
		if n == 0 {
			// Transport timeout with nothing decoded.
			if received {
				return nil, ErrIncompleteReply
			}
			return nil, ErrTimeout
		}
		received = true

		for i := 0; i < n; i++ {
			telegram, err := s.decoder.DecodeByte(buf[i])
			if err != nil {
				return nil, err
			}
			if telegram != nil {
				return telegram, nil
			}
		}
	}
}
