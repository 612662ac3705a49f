// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ContextConfig is the immutable policy snapshot for one invocation's
// context processing. Build one with ClawConfig.ContextConfig; it is
// never mutated after construction.
type ContextConfig struct {
	// Paths are the file or directory arguments, in command-line order.
	Paths []string

	// RecurseDepth bounds directory recursion, counted in directory
	// levels below each root. nil means unlimited; 0 means only files
	// directly inside the root.
	RecurseDepth *int

	// MaxFileSizeKB is the per-file size limit in kilobytes.
	MaxFileSizeKB int64

	// MaxFilesPerDirectory caps the files accepted per parent directory.
	MaxFilesPerDirectory int

	// ErrorHandlingMode decides the disposition of validation errors.
	ErrorHandlingMode ErrorHandlingMode

	// ExcludedDirectories are directory names pruned during scanning.
	ExcludedDirectories []string

	// ExcludedExtensions are extensions (without dot) skipped during
	// scanning.
	ExcludedExtensions []string
}

// ContextConfig builds the per-invocation policy snapshot from the
// tool configuration plus the invocation's paths and depth.
func (c *ClawConfig) ContextConfig(paths []string, recurseDepth *int) ContextConfig {
	return ContextConfig{
		Paths:                paths,
		RecurseDepth:         recurseDepth,
		MaxFileSizeKB:        c.MaxFileSizeKB,
		MaxFilesPerDirectory: c.MaxFilesPerDirectory,
		ErrorHandlingMode:    c.ErrorHandlingMode,
		ExcludedDirectories:  c.ExcludedDirectories,
		ExcludedExtensions:   c.ExcludedExtensions,
	}
}

// DiscoveredFile is a candidate context file found on disk. It has no
// identity beyond one invocation; validation consumes and discards it.
type DiscoveredFile struct {
	// Path is the absolute path.
	Path string
	// Size is the file size in bytes.
	Size int64
	// RelativePath is the path relative to the invocation's working
	// directory, or Path unchanged when the file lies outside it.
	RelativePath string
}

// DiscoverFiles walks the configured paths and returns every candidate
// file with its size. Explicit file arguments are recorded
// unconditionally; directories are walked recursively honoring
// .gitignore/.ignore files, the recursion depth, and the exclusion
// policy. A nonexistent path or a walk I/O failure aborts the whole
// discovery.
func DiscoverFiles(cfg *ContextConfig) ([]DiscoveredFile, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}

	var discovered []DiscoveredFile
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", p)
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			// Explicit user intent overrides the exclusion policy.
			discovered = append(discovered, DiscoveredFile{
				Path:         abs,
				Size:         info.Size(),
				RelativePath: relativeTo(cwd, abs),
			})
			continue
		}

		files, err := walkDirectory(abs, cwd, cfg)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
		discovered = append(discovered, files...)
	}

	logf("discoverFiles: %d path(s) -> %d file(s)", len(cfg.Paths), len(discovered))
	return discovered, nil
}

// walkDirectory enumerates root recursively. fs.WalkDir visits entries
// in lexical order, so the result is deterministic for a given
// filesystem snapshot.
func walkDirectory(root, cwd string, cfg *ContextConfig) ([]DiscoveredFile, error) {
	var files []DiscoveredFile
	ignores := newIgnoreSet()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				ignores.load(path)
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if slices.Contains(cfg.ExcludedDirectories, name) {
				return fs.SkipDir
			}
			rel := relWithin(root, path)
			// A directory at level n holds files at level n+1.
			if cfg.RecurseDepth != nil && dirLevel(rel) >= *cfg.RecurseDepth {
				return fs.SkipDir
			}
			if ignores.ignored(root, path, true) {
				return fs.SkipDir
			}
			ignores.load(path)
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
			if slices.Contains(cfg.ExcludedExtensions, ext) {
				return nil
			}
		}
		if hasExcludedAncestor(path, cfg.ExcludedDirectories) {
			return nil
		}
		if ignores.ignored(root, path, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, DiscoveredFile{
			Path:         path,
			Size:         info.Size(),
			RelativePath: relativeTo(cwd, path),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// dirLevel counts how many directory levels below the walk root a
// relative path sits. A direct child is level 0.
func dirLevel(rel string) int {
	return strings.Count(filepath.ToSlash(rel), "/")
}

// relWithin returns path relative to root. The walk only produces
// paths under root, so errors cannot occur in practice.
func relWithin(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// relativeTo returns path relative to cwd when path lies inside cwd,
// otherwise path unchanged.
func relativeTo(cwd, path string) string {
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// hasExcludedAncestor reports whether any component of path's ancestor
// chain is an excluded directory name.
func hasExcludedAncestor(path string, excluded []string) bool {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		name := filepath.Base(dir)
		if slices.Contains(excluded, name) {
			return true
		}
		if parent := filepath.Dir(dir); parent == dir {
			return false
		}
	}
}
