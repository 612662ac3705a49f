// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseIgnoreRules(t *testing.T) {
	content := `
# comment line
*.log

!keep.log
build/
/anchored.txt
docs/drafts
`
	got := parseIgnoreRules(content)

	want := []ignoreRule{
		{pattern: "*.log"},
		{pattern: "keep.log", negate: true},
		{pattern: "build", dirOnly: true},
		{pattern: "anchored.txt", anchored: true},
		{pattern: "docs/drafts", anchored: true},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(ignoreRule{})); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestIgnoreSetBasenameMatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\n")

	s := newIgnoreSet()
	s.load(root)

	if !s.ignored(root, filepath.Join(root, "debug.log"), false) {
		t.Error("top-level *.log not ignored")
	}
	if !s.ignored(root, filepath.Join(root, "deep", "nested", "trace.log"), false) {
		t.Error("nested *.log not ignored")
	}
	if s.ignored(root, filepath.Join(root, "main.go"), false) {
		t.Error("main.go ignored unexpectedly")
	}
}

func TestIgnoreSetAnchoredMatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "/top.txt\ndocs/drafts\n")

	s := newIgnoreSet()
	s.load(root)

	if !s.ignored(root, filepath.Join(root, "top.txt"), false) {
		t.Error("anchored /top.txt not ignored at root")
	}
	if s.ignored(root, filepath.Join(root, "sub", "top.txt"), false) {
		t.Error("anchored /top.txt ignored below root")
	}
	if !s.ignored(root, filepath.Join(root, "docs", "drafts"), true) {
		t.Error("docs/drafts not ignored")
	}
	if s.ignored(root, filepath.Join(root, "other", "docs", "drafts"), true) {
		t.Error("docs/drafts ignored away from its anchor")
	}
}

func TestIgnoreSetDirOnlyRule(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "build/\n")

	s := newIgnoreSet()
	s.load(root)

	if !s.ignored(root, filepath.Join(root, "build"), true) {
		t.Error("build directory not ignored")
	}
	if s.ignored(root, filepath.Join(root, "build"), false) {
		t.Error("plain file named build ignored by a directory-only rule")
	}
}

func TestIgnoreSetNegationLastMatchWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\n!keep.log\n")

	s := newIgnoreSet()
	s.load(root)

	if !s.ignored(root, filepath.Join(root, "debug.log"), false) {
		t.Error("debug.log not ignored")
	}
	if s.ignored(root, filepath.Join(root, "keep.log"), false) {
		t.Error("negated keep.log still ignored")
	}
}

func TestIgnoreSetDeeperFileOverrides(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	writeFile(t, filepath.Join(root, ".gitignore"), "*.tmp\n")
	writeFile(t, filepath.Join(sub, ".gitignore"), "!special.tmp\n")

	s := newIgnoreSet()
	s.load(root)
	s.load(sub)

	if !s.ignored(root, filepath.Join(sub, "scratch.tmp"), false) {
		t.Error("inherited *.tmp rule not applied in subdirectory")
	}
	if s.ignored(root, filepath.Join(sub, "special.tmp"), false) {
		t.Error("deeper negation did not override the parent rule")
	}
}

func TestIgnoreSetDotIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".ignore"), "secret.txt\n")

	s := newIgnoreSet()
	s.load(root)

	if !s.ignored(root, filepath.Join(root, "secret.txt"), false) {
		t.Error(".ignore file rules not honored")
	}
}
