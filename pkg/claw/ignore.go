// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Ignore file names honored during directory walks, in the order they
// are applied within a directory.
var ignoreFileNames = []string{".gitignore", ".ignore"}

// ignoreRule is one parsed line of an ignore file.
type ignoreRule struct {
	pattern  string
	negate   bool // leading "!" re-includes a previously ignored path
	dirOnly  bool // trailing "/" restricts the rule to directories
	anchored bool // pattern contains "/" and matches relative to the ignore file's directory
}

// ignoreFile holds the ordered rules of one directory's ignore files.
type ignoreFile struct {
	base  string // directory the ignore file lives in
	rules []ignoreRule
}

// ignoreSet accumulates ignore files discovered during a walk, keyed
// by directory. Matching applies rule files from the walk root down to
// the file's own directory; the last matching rule wins, so deeper
// files override shallower ones, as git does.
type ignoreSet struct {
	byDir map[string]*ignoreFile
}

func newIgnoreSet() *ignoreSet {
	return &ignoreSet{byDir: make(map[string]*ignoreFile)}
}

// load parses the ignore files present in dir, if any.
func (s *ignoreSet) load(dir string) {
	var rules []ignoreRule
	for _, name := range ignoreFileNames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		rules = append(rules, parseIgnoreRules(string(data))...)
	}
	if len(rules) > 0 {
		s.byDir[dir] = &ignoreFile{base: dir, rules: rules}
	}
}

// ignored reports whether path (under root) is excluded by the
// accumulated ignore rules. isDir selects whether directory-only rules
// apply.
func (s *ignoreSet) ignored(root, path string, isDir bool) bool {
	if len(s.byDir) == 0 {
		return false
	}

	// Order rule files shallow to deep so deeper rules override.
	dirs := make([]string, 0, len(s.byDir))
	for dir := range s.byDir {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			dirs = append(dirs, dir)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) < len(dirs[j]) })

	verdict := false
	for _, dir := range dirs {
		f := s.byDir[dir]
		rel, err := filepath.Rel(f.base, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		base := filepath.Base(path)
		for _, rule := range f.rules {
			if rule.dirOnly && !isDir {
				continue
			}
			candidate := base
			if rule.anchored {
				candidate = rel
			}
			if ok, err := doublestar.Match(rule.pattern, candidate); err == nil && ok {
				verdict = !rule.negate
			}
		}
	}
	return verdict
}

// parseIgnoreRules parses ignore file content into ordered rules.
// Blank lines and comments are skipped. Supported syntax: "!" negation,
// trailing "/" for directory-only rules, and "/"-containing patterns
// anchored to the ignore file's directory. Unanchored patterns match
// the entry's base name at any depth.
func parseIgnoreRules(content string) []ignoreRule {
	var rules []ignoreRule
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule := ignoreRule{}
		if strings.HasPrefix(line, "!") {
			rule.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			rule.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		rule.anchored = strings.HasPrefix(line, "/")
		line = strings.TrimPrefix(line, "/")
		rule.anchored = rule.anchored || strings.Contains(line, "/")
		if line == "" {
			continue
		}
		rule.pattern = line
		rules = append(rules, rule)
	}
	return rules
}
