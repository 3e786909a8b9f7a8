// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors

package ibis

import "fmt"

// FormatCommand returns a short name for a command byte.
func FormatCommand(command byte) string {
	switch command {
	case CmdStatusInquiry:
		return "STATUS_INQUIRY"
	case CmdStatusReply:
		return "STATUS_REPLY"
	case CmdLineSet:
		return "LINE_SET"
	case CmdDestinationSet:
		return "DESTINATION_SET"
	case CmdProgramBlock:
		return "PROGRAM_BLOCK"
	case CmdProgramAck:
		return "PROGRAM_ACK"
	default:
		return "UNKNOWN"
	}
}

// FormatTelegram renders one telegram as a single human-readable line
// for the watch command and log output.
func FormatTelegram(t *Telegram) string {
	timestamp := t.Timestamp().Format("15:04:05.000")
	head := fmt.Sprintf("[%s] %s addr=%s", timestamp, FormatCommand(t.command), t.address)

	switch t.command {
	case CmdStatusReply:
		if status, err := t.StatusCode(); err == nil {
			return fmt.Sprintf("%s status=%s", head, status)
		}
	case CmdLineSet:
		if line, err := t.LineCode(); err == nil {
			return fmt.Sprintf("%s line=%03d", head, line)
		}
	case CmdDestinationSet:
		if code, err := t.DestinationCode(); err == nil {
			return fmt.Sprintf("%s code=%03d", head, code)
		}
	case CmdProgramBlock:
		if index, err := t.BlockIndex(); err == nil {
			if data, err := t.BlockData(); err == nil {
				return fmt.Sprintf("%s block=%d len=%d", head, index, len(data))
			}
		}
	case CmdProgramAck:
		if index, err := t.BlockIndex(); err == nil {
			return fmt.Sprintf("%s block=%d", head, index)
		}
	}

	if len(t.payload) == 0 {
		return head
	}
	return fmt.Sprintf("%s payload=%q", head, t.payload)
}
