// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed prompts/context_header.md
var contextHeader string

// FormatContext renders the accepted files and the active policy into
// the context bundle appended to rendered prompts. It is a pure
// function of its inputs: identical result and config always produce
// byte-identical output.
func FormatContext(result *ContextResult, cfg *ContextConfig) string {
	var out strings.Builder
	out.WriteString(strings.TrimRight(contextHeader, "\n"))

	out.WriteString("\n\n## Notes\n")
	fmt.Fprintf(&out, "- Maximum file size: %d KB\n", cfg.MaxFileSizeKB)
	fmt.Fprintf(&out, "- Maximum files per directory: %d\n", cfg.MaxFilesPerDirectory)
	fmt.Fprintf(&out, "- Excluded directories: %s\n", strings.Join(cfg.ExcludedDirectories, ", "))
	fmt.Fprintf(&out, "- Excluded extensions: %s\n", strings.Join(cfg.ExcludedExtensions, ", "))
	fmt.Fprintf(&out, "- Recursion depth: %s\n\n", depthDisplay(cfg.RecurseDepth))

	out.WriteString("---\n\n")
	out.WriteString("## Directory Structure\n\n")
	out.WriteString("```\n")
	out.WriteString(renderFileTree(result.Files))
	out.WriteString("```\n\n")

	out.WriteString("---\n\n")
	out.WriteString("## Files\n\n")
	for _, file := range result.Files {
		fmt.Fprintf(&out, "### %s\n\n", file.RelativePath)
		out.WriteString("```\n")
		out.WriteString(file.Content)
		if !strings.HasSuffix(file.Content, "\n") {
			out.WriteByte('\n')
		}
		out.WriteString("```\n\n")
	}

	return out.String()
}

func depthDisplay(depth *int) string {
	if depth == nil {
		return "unlimited"
	}
	return fmt.Sprintf("%d", *depth)
}

// treeNode is one entry of the nested directory structure. A nil
// children map marks a file leaf; a non-nil map marks a directory.
type treeNode struct {
	children map[string]*treeNode
}

// renderFileTree builds an ASCII tree from the accepted files'
// relative paths. Sibling names are sorted at every level, making the
// output invariant under permutation of discovery order.
func renderFileTree(files []FileContent) string {
	if len(files) == 0 {
		return "(no files)"
	}

	root := &treeNode{children: make(map[string]*treeNode)}
	for _, file := range files {
		insertPath(root, strings.Split(filepath.ToSlash(file.RelativePath), "/"))
	}

	var out strings.Builder
	for _, name := range sortedChildNames(root) {
		child := root.children[name]
		out.WriteString(nodeLabel(name, child))
		out.WriteByte('\n')
		writeSubtree(&out, child, "")
	}
	return out.String()
}

func insertPath(node *treeNode, components []string) {
	if len(components) == 0 {
		return
	}
	name := components[0]
	if len(components) == 1 {
		node.children[name] = &treeNode{}
		return
	}
	child, ok := node.children[name]
	if !ok {
		child = &treeNode{children: make(map[string]*treeNode)}
		node.children[name] = child
	}
	if child.children != nil {
		insertPath(child, components[1:])
	}
}

func nodeLabel(name string, node *treeNode) string {
	if node.children != nil {
		return name + "/"
	}
	return name
}

// sortedChildNames orders siblings by their rendered labels so that
// directories and files interleave the same way on every run.
func sortedChildNames(node *treeNode) []string {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return nodeLabel(names[i], node.children[names[i]]) < nodeLabel(names[j], node.children[names[j]])
	})
	return names
}

func writeSubtree(out *strings.Builder, node *treeNode, prefix string) {
	names := sortedChildNames(node)
	for i, name := range names {
		child := node.children[name]
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(names)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		out.WriteString(prefix)
		out.WriteString(connector)
		out.WriteString(nodeLabel(name, child))
		out.WriteByte('\n')
		if child.children != nil {
			writeSubtree(out, child, childPrefix)
		}
	}
}
