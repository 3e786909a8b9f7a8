// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewStatusInquiry_RejectsBroadcast(t *testing.T) {
	if _, err := NewStatusInquiry(AddressBroadcast); !errors.Is(err, ErrAddressOutOfRange) {
		t.Errorf("expected ErrAddressOutOfRange for broadcast inquiry, got %v", err)
	}
}

func TestNewDestinationSet_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		address Address
		code    int
		wantErr error
	}{
		{name: "lowest code", address: 1, code: 0},
		{name: "highest code", address: 1, code: 999},
		{name: "broadcast allowed", address: AddressBroadcast, code: 5},
		{name: "negative code", address: 1, code: -1, wantErr: ErrCodeOutOfRange},
		{name: "code too large", address: 1, code: 1000, wantErr: ErrCodeOutOfRange},
		{name: "address too large", address: 16, code: 0, wantErr: ErrAddressOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDestinationSet(tt.address, tt.code)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("NewDestinationSet() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewDestinationSet() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLineSet_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		address Address
		line    int
		wantErr error
	}{
		{name: "lowest line", address: 1, line: 1},
		{name: "highest line", address: 1, line: 999},
		{name: "broadcast allowed", address: AddressBroadcast, line: 26},
		{name: "line zero", address: 1, line: 0, wantErr: ErrCodeOutOfRange},
		{name: "line too large", address: 1, line: 1000, wantErr: ErrCodeOutOfRange},
		{name: "address too large", address: 16, line: 1, wantErr: ErrAddressOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLineSet(tt.address, tt.line)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("NewLineSet() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewLineSet() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLineCode(t *testing.T) {
	lineSet, err := NewLineSet(AddressBroadcast, 26)
	if err != nil {
		t.Fatalf("NewLineSet() error: %v", err)
	}
	line, err := lineSet.LineCode()
	if err != nil {
		t.Fatalf("LineCode() error: %v", err)
	}
	if line != 26 {
		t.Errorf("LineCode() = %d, want 26", line)
	}

	destination, err := NewDestinationSet(AddressBroadcast, 26)
	if err != nil {
		t.Fatalf("NewDestinationSet() error: %v", err)
	}
	if _, err := destination.LineCode(); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("LineCode() on destination set: expected ErrMalformedPayload, got %v", err)
	}
}

func TestNewProgramBlock_RejectsOversizedBlock(t *testing.T) {
	_, err := NewProgramBlock(1, 0, make([]byte, MaxBlockSize+1))
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestNewProgramBlock_RejectsBroadcast(t *testing.T) {
	_, err := NewProgramBlock(AddressBroadcast, 0, []byte{0x01})
	if !errors.Is(err, ErrAddressOutOfRange) {
		t.Errorf("expected ErrAddressOutOfRange, got %v", err)
	}
}

func TestStatusCode(t *testing.T) {
	reply, err := NewStatusReply(9, StatusReadyForData)
	if err != nil {
		t.Fatalf("NewStatusReply() error: %v", err)
	}
	status, err := reply.StatusCode()
	if err != nil {
		t.Fatalf("StatusCode() error: %v", err)
	}
	if status != StatusReadyForData {
		t.Errorf("StatusCode() = %v, want ready for data", status)
	}

	inquiry, err := NewStatusInquiry(9)
	if err != nil {
		t.Fatalf("NewStatusInquiry() error: %v", err)
	}
	if _, err := inquiry.StatusCode(); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("StatusCode() on inquiry: expected ErrMalformedPayload, got %v", err)
	}
}

func TestStatus_Uncategorized(t *testing.T) {
	status := Status('7')
	if status.Known() {
		t.Error("status '7' should not be known")
	}
	if StatusOK.String() != "ok" {
		t.Errorf("StatusOK.String() = %q", StatusOK.String())
	}
}

func TestBlockIndexAndData_RoundTrip(t *testing.T) {
	data := []byte{0x00, 0x01, 0xFE, 0xFF, 0x0D, 0x7F}
	block, err := NewProgramBlock(2, 0xBEEF, data)
	if err != nil {
		t.Fatalf("NewProgramBlock() error: %v", err)
	}

	index, err := block.BlockIndex()
	if err != nil {
		t.Fatalf("BlockIndex() error: %v", err)
	}
	if index != 0xBEEF {
		t.Errorf("BlockIndex() = 0x%04X, want 0xBEEF", index)
	}

	decoded, err := block.BlockData()
	if err != nil {
		t.Fatalf("BlockData() error: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("BlockData() = % X, want % X", decoded, data)
	}

	ack, err := NewProgramAck(2, 0xBEEF)
	if err != nil {
		t.Fatalf("NewProgramAck() error: %v", err)
	}
	ackIndex, err := ack.BlockIndex()
	if err != nil || ackIndex != 0xBEEF {
		t.Errorf("ack BlockIndex() = 0x%04X, %v; want 0xBEEF", ackIndex, err)
	}
}

func TestDestinationCode_MalformedPayload(t *testing.T) {
	telegram := NewTelegram(CmdDestinationSet, 1, []byte("1a3"))
	if _, err := telegram.DestinationCode(); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestFormatTelegram(t *testing.T) {
	telegram, err := NewDestinationSet(3, 26)
	if err != nil {
		t.Fatalf("NewDestinationSet() error: %v", err)
	}
	formatted := FormatTelegram(telegram)
	if !bytes.Contains([]byte(formatted), []byte("DESTINATION_SET")) {
		t.Errorf("formatted output missing command name: %q", formatted)
	}
	if !bytes.Contains([]byte(formatted), []byte("code=026")) {
		t.Errorf("formatted output missing code: %q", formatted)
	}
}
