// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// binarySniffLen is how many leading bytes are inspected for the
// binary-content heuristic.
const binarySniffLen = 8192

// ContextErrorKind tags the variants of ContextError.
type ContextErrorKind int

const (
	ErrPermissionDenied ContextErrorKind = iota
	ErrFileTooLarge
	ErrTooManyFiles
	ErrBinaryFile
	ErrUTF8
	ErrIO
)

// ContextError is a recoverable per-file validation problem. It is
// never fatal by construction; ResolveContextIssues decides its
// disposition based on the configured mode.
type ContextError struct {
	Kind ContextErrorKind

	// Path is the affected file, or the affected directory for
	// ErrTooManyFiles.
	Path string

	// SizeKB and SizeLimitKB are set for ErrFileTooLarge.
	SizeKB      int64
	SizeLimitKB int64

	// Count and CountLimit are set for ErrTooManyFiles.
	Count      int
	CountLimit int

	// Message carries the underlying error text for ErrIO.
	Message string
}

func (e *ContextError) Error() string {
	switch e.Kind {
	case ErrPermissionDenied:
		return fmt.Sprintf("Permission denied: %s", e.Path)
	case ErrFileTooLarge:
		return fmt.Sprintf("File too large: %s (%d KB exceeds limit of %d KB)", e.Path, e.SizeKB, e.SizeLimitKB)
	case ErrTooManyFiles:
		return fmt.Sprintf("Too many files in directory: %s (%d files exceeds limit of %d)", e.Path, e.Count, e.CountLimit)
	case ErrBinaryFile:
		return fmt.Sprintf("Binary file skipped: %s", e.Path)
	case ErrUTF8:
		return fmt.Sprintf("UTF-8 decoding error: %s", e.Path)
	case ErrIO:
		return fmt.Sprintf("I/O error reading %s: %s", e.Path, e.Message)
	default:
		return fmt.Sprintf("context error: %s", e.Path)
	}
}

// FileContent is a successfully read and decoded context file. Only
// the formatter consumes it.
type FileContent struct {
	Path         string
	RelativePath string
	Content      string
}

// ContextResult is the three-way partition of validation: accepted
// files, recoverable errors, and advisory warnings. Every discovered
// file lands in exactly one of the three.
type ContextResult struct {
	Files    []FileContent
	Errors   []*ContextError
	Warnings []string
}

// ValidateFiles applies size limits, per-directory quotas, binary
// detection, and UTF-8 reading to the discovered files, in discovery
// order.
func ValidateFiles(files []DiscoveredFile, cfg *ContextConfig) *ContextResult {
	result := &ContextResult{}

	// Quota slots are consumed only by files that pass the size check.
	dirCounts := make(map[string]int)

	for _, file := range files {
		sizeKB := file.Size / 1024
		if sizeKB > cfg.MaxFileSizeKB {
			result.Errors = append(result.Errors, &ContextError{
				Kind:        ErrFileTooLarge,
				Path:        file.Path,
				SizeKB:      sizeKB,
				SizeLimitKB: cfg.MaxFileSizeKB,
			})
			continue
		}

		parent := filepath.Dir(file.Path)
		dirCounts[parent]++
		if count := dirCounts[parent]; count > cfg.MaxFilesPerDirectory {
			result.Errors = append(result.Errors, &ContextError{
				Kind:       ErrTooManyFiles,
				Path:       parent,
				Count:      count,
				CountLimit: cfg.MaxFilesPerDirectory,
			})
			continue
		}

		switch binary, err := isBinaryFile(file.Path); {
		case err != nil:
			result.Errors = append(result.Errors, readError(file.Path, err))
			continue
		case binary:
			// Binary exclusion is advisory, not a failure.
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped binary file: %s", file.Path))
			continue
		}

		data, err := os.ReadFile(file.Path)
		if err != nil {
			result.Errors = append(result.Errors, readError(file.Path, err))
			continue
		}
		if !utf8.Valid(data) {
			result.Errors = append(result.Errors, &ContextError{Kind: ErrUTF8, Path: file.Path})
			continue
		}

		result.Files = append(result.Files, FileContent{
			Path:         file.Path,
			RelativePath: file.RelativePath,
			Content:      string(data),
		})
	}

	return result
}

// readError maps an I/O failure to the matching ContextError variant.
func readError(path string, err error) *ContextError {
	if os.IsPermission(err) {
		return &ContextError{Kind: ErrPermissionDenied, Path: path}
	}
	return &ContextError{Kind: ErrIO, Path: path, Message: err.Error()}
}

// isBinaryFile inspects the first 8 KB of a file. A NUL byte anywhere
// in that window classifies the file as binary.
func isBinaryFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, binarySniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}

// ResolveContextIssues decides whether processing continues given the
// validation outcome and the configured mode. It is the single
// mode-dispatch point of the pipeline and, in flexible mode, the only
// place that blocks on user input. Diagnostics go to diagW; the
// confirmation answer is read from stdin.
func ResolveContextIssues(result *ContextResult, mode ErrorHandlingMode, stdin io.Reader, diagW io.Writer) error {
	if len(result.Errors) == 0 {
		return nil
	}

	switch mode {
	case ModeStrict:
		msgs := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("context processing failed with %d error(s):\n  %s",
			len(result.Errors), strings.Join(msgs, "\n  "))

	case ModeFlexible:
		fmt.Fprintln(diagW, "\nContext processing issues detected:")
		fmt.Fprintln(diagW, "===================================")
		printContextReport(result, diagW)
		fmt.Fprintf(diagW, "\nSuccessfully processed %d file(s).\n", len(result.Files))
		fmt.Fprint(diagW, "\nDo you want to continue with the available files? (y/n): ")

		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("context processing aborted: no confirmation received")
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return nil
		}
		return fmt.Errorf("context processing aborted by user")

	case ModeIgnore:
		printContextReport(result, diagW)
		return nil

	default:
		return fmt.Errorf("unknown error handling mode %q", mode)
	}
}

// printContextReport writes the error and warning listings to w.
func printContextReport(result *ContextResult, w io.Writer) {
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", e.Error())
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings (%d):\n", len(result.Warnings))
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
}
