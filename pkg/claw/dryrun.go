// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"fmt"
	"io"
	"os"
)

// OutputPrompt writes a rendered prompt to outputFile, or to w when
// outputFile is empty. Stdout output carries no trailing newline so it
// matches the exact LLM input byte for byte.
func OutputPrompt(prompt, outputFile string, w io.Writer) error {
	if outputFile == "" {
		fmt.Fprint(w, prompt)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(prompt), 0o644); err != nil {
		return fmt.Errorf("writing dry run output to %s: %w", outputFile, err)
	}
	fmt.Fprintf(w, "Dry run output written to %s\n", outputFile)
	return nil
}
