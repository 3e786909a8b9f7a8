// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The ibisctl authors
//
// Ibisctl - IBIS destination sign controller
//
// A CLI tool for scanning, driving, and flashing IBIS destination signs
// over a shared serial bus.

package main

import (
	"os"

	"github.com/signwerk/ibisctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
