// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeFile creates path (and parent directories) with content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func defaultContextConfig(paths []string, depth *int) ContextConfig {
	var cfg ClawConfig
	cfg.applyDefaults()
	return cfg.ContextConfig(paths, depth)
}

func relPaths(t *testing.T, files []DiscoveredFile) []string {
	t.Helper()
	var rels []string
	for _, f := range files {
		rels = append(rels, filepath.ToSlash(f.RelativePath))
	}
	return rels
}

func TestDiscoverFilesExclusions(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "tool.exe"), "binary")
	writeFile(t, filepath.Join(root, ".hidden"), "secret")
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "x")
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref")
	writeFile(t, filepath.Join(root, "src", "lib.go"), "package lib\n")

	cfg := defaultContextConfig([]string{"."}, nil)
	files, err := DiscoverFiles(&cfg)
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}

	want := []string{"main.go", "src/lib.go"}
	if diff := cmp.Diff(want, relPaths(t, files)); diff != "" {
		t.Errorf("discovered files mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverFilesExplicitFileBypassesPolicy(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	// An extension the directory scan would refuse.
	writeFile(t, filepath.Join(root, "tool.exe"), "binary")

	cfg := defaultContextConfig([]string{"tool.exe"}, nil)
	files, err := DiscoverFiles(&cfg)
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}
	if len(files) != 1 || files[0].RelativePath != "tool.exe" {
		t.Errorf("explicit file not recorded: %+v", files)
	}
}

func TestDiscoverFilesNonexistentPath(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := defaultContextConfig([]string{"no/such/path"}, nil)
	_, err := DiscoverFiles(&cfg)
	if err == nil || !strings.Contains(err.Error(), "path does not exist: no/such/path") {
		t.Errorf("DiscoverFiles error = %v, want path-does-not-exist", err)
	}
}

func TestDiscoverFilesRecursionDepth(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	writeFile(t, filepath.Join(root, "top.txt"), "t")
	writeFile(t, filepath.Join(root, "sub", "mid.txt"), "m")
	writeFile(t, filepath.Join(root, "sub", "nested", "deep.txt"), "d")

	tests := []struct {
		name  string
		depth *int
		want  []string
	}{
		{name: "unlimited", depth: nil, want: []string{"sub/mid.txt", "sub/nested/deep.txt", "top.txt"}},
		{name: "depth zero keeps only root files", depth: intPtr(0), want: []string{"top.txt"}},
		{name: "depth one keeps first level", depth: intPtr(1), want: []string{"sub/mid.txt", "top.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultContextConfig([]string{"."}, tt.depth)
			files, err := DiscoverFiles(&cfg)
			if err != nil {
				t.Fatalf("DiscoverFiles: %v", err)
			}
			if diff := cmp.Diff(tt.want, relPaths(t, files)); diff != "" {
				t.Errorf("depth %s mismatch (-want +got):\n%s", tt.name, diff)
			}
		})
	}
}

func intPtr(n int) *int { return &n }

func TestDiscoverFilesHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\nbuild/\n")
	writeFile(t, filepath.Join(root, "app.go"), "package app\n")
	writeFile(t, filepath.Join(root, "debug.log"), "noise")
	writeFile(t, filepath.Join(root, "build", "out.txt"), "artifact")
	writeFile(t, filepath.Join(root, "src", "trace.log"), "noise")
	writeFile(t, filepath.Join(root, "src", "core.go"), "package src\n")

	cfg := defaultContextConfig([]string{"."}, nil)
	files, err := DiscoverFiles(&cfg)
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}

	want := []string{"app.go", "src/core.go"}
	if diff := cmp.Diff(want, relPaths(t, files)); diff != "" {
		t.Errorf("gitignore filtering mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverFilesDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	for _, name := range []string{"zebra.txt", "alpha.txt", "mid.txt"} {
		writeFile(t, filepath.Join(root, name), name)
	}

	cfg := defaultContextConfig([]string{"."}, nil)
	first, err := DiscoverFiles(&cfg)
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}
	second, err := DiscoverFiles(&cfg)
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}

	want := []string{"alpha.txt", "mid.txt", "zebra.txt"}
	if diff := cmp.Diff(want, relPaths(t, first)); diff != "" {
		t.Errorf("lexical order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(relPaths(t, first), relPaths(t, second)); diff != "" {
		t.Errorf("repeated discovery differs (-first +second):\n%s", diff)
	}
}

func TestDirLevel(t *testing.T) {
	tests := []struct {
		rel  string
		want int
	}{
		{"file.txt", 0},
		{"sub", 0},
		{filepath.Join("sub", "file.txt"), 1},
		{filepath.Join("a", "b", "c"), 2},
	}
	for _, tt := range tests {
		if got := dirLevel(tt.rel); got != tt.want {
			t.Errorf("dirLevel(%q) = %d, want %d", tt.rel, got, tt.want)
		}
	}
}

func TestRelativeTo(t *testing.T) {
	cwd := filepath.Join(string(filepath.Separator), "work", "project")
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(cwd, "src", "a.go"), filepath.Join("src", "a.go")},
		{filepath.Join(string(filepath.Separator), "elsewhere", "b.go"), filepath.Join(string(filepath.Separator), "elsewhere", "b.go")},
	}
	for _, tt := range tests {
		if got := relativeTo(cwd, tt.path); got != tt.want {
			t.Errorf("relativeTo(%q, %q) = %q, want %q", cwd, tt.path, got, tt.want)
		}
	}
}
