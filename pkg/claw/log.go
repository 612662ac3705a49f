// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"log"
	"os"
)

var diag = log.New(os.Stderr, "", 0)

// logf writes a diagnostic line to stderr. Diagnostics never mix into
// rendered prompts; the prompt itself always goes through explicit
// writers or the receiver.
func logf(format string, args ...any) {
	diag.Printf(format, args...)
}
