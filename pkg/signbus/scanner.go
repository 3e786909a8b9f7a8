// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package signbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/signwerk/ibisctl/pkg/ibis"
)

// ScanState classifies one device's response to a status inquiry.
type ScanState int

const (
	// ScanPresent means the device answered with a valid status reply.
	ScanPresent ScanState = iota
	// ScanNoReply means the timeout elapsed without any bytes.
	ScanNoReply
	// ScanMalformed means bytes arrived but did not decode to a valid
	// status reply.
	ScanMalformed
)

func (s ScanState) String() string {
	switch s {
	case ScanPresent:
		return "present"
	case ScanNoReply:
		return "no reply"
	case ScanMalformed:
		return "malformed reply"
	default:
		return fmt.Sprintf("ScanState(%d)", int(s))
	}
}

// ScanResult is the outcome for one scanned address.
type ScanResult struct {
	State  ScanState
	Status ibis.Status // valid when State == ScanPresent
	Err    error       // decode failure when State == ScanMalformed
}

// Scan probes each address in increasing order with a status inquiry
// and classifies the response. One device timing out or answering
// garbage never blocks scanning of the rest, but a failure to write
// the inquiry is a bus fault and aborts the sweep. Broadcast is not a
// valid scan target.
func Scan(session *Session, addresses []ibis.Address, timeout time.Duration) (map[ibis.Address]ScanResult, error) {
	results := make(map[ibis.Address]ScanResult, len(addresses))

	for _, address := range addresses {
		inquiry, err := ibis.NewStatusInquiry(address)
		if err != nil {
			return nil, err
		}
		if err := session.Send(inquiry); err != nil {
			return nil, err
		}

		reply, err := session.receive(timeout)
		switch {
		case errors.Is(err, ErrTimeout):
			results[address] = ScanResult{State: ScanNoReply}
			continue
		case err != nil:
			results[address] = ScanResult{State: ScanMalformed, Err: err}
			continue
		}

		status, err := reply.StatusCode()
		if err != nil {
			results[address] = ScanResult{State: ScanMalformed, Err: err}
			continue
		}
		results[address] = ScanResult{State: ScanPresent, Status: status}
	}

	return results, nil
}

// AllDeviceAddresses returns every scannable address, in increasing
// order.
func AllDeviceAddresses() []ibis.Address {
	addresses := make([]ibis.Address, 0, ibis.AddressMax-ibis.AddressMin+1)
	for a := ibis.AddressMin; a <= ibis.AddressMax; a++ {
		addresses = append(addresses, a)
	}
	return addresses
}
