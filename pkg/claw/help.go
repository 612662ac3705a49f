// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"fmt"
	"strings"
)

const helpWrapWidth = 70

// FormatGoalHelp renders the --explain text for a goal: header,
// required and optional parameter listings, the built-in flags, and
// usage examples.
func FormatGoalHelp(goal *LoadedGoal, goalName string) string {
	var out strings.Builder

	fmt.Fprintf(&out, "Goal: %s (%s)\n", goal.Config.Name, goalName)
	if goal.Config.Description != "" {
		fmt.Fprintf(&out, "Description: %s\n", goal.Config.Description)
	}
	out.WriteByte('\n')

	if len(goal.Config.Parameters) == 0 {
		out.WriteString("Usage:\n")
		fmt.Fprintf(&out, "  claw %s [--context <path>] [-- <options>]\n\n", goalName)
		out.WriteString("This goal declares no parameters and accepts arbitrary arguments.\n")
		out.WriteString("Parameters are passed after '--' as --key value or --key=value.\n")
		out.WriteString("\nTo see this help again, run:\n")
		fmt.Fprintf(&out, "  claw %s --explain\n", goalName)
		return out.String()
	}

	var required, optional []GoalParameter
	for _, param := range goal.Config.Parameters {
		if param.Required {
			required = append(required, param)
		} else {
			optional = append(optional, param)
		}
	}

	if len(required) > 0 {
		out.WriteString("Required Parameters:\n")
		for _, param := range required {
			out.WriteString(formatParameter(param))
			out.WriteByte('\n')
		}
	}
	if len(optional) > 0 {
		out.WriteString("Optional Parameters:\n")
		for _, param := range optional {
			out.WriteString(formatParameter(param))
			out.WriteByte('\n')
		}
	}

	out.WriteString("Built-in Claw Flags:\n")
	out.WriteString("  -c, --context <path>        Files or directories to include as context\n")
	out.WriteString("  -d, --recurse-depth <num>   Maximum recursion depth when scanning directories\n")
	out.WriteString("  -e, --explain               Show this help information\n")
	out.WriteByte('\n')

	out.WriteString("Usage Examples:\n")
	fmt.Fprintf(&out, "  claw %s --", goalName)
	for _, param := range required {
		fmt.Fprintf(&out, " --%s <value>", param.Name)
	}
	out.WriteByte('\n')

	fmt.Fprintf(&out, "  claw %s --context ./src --", goalName)
	if len(required) > 0 {
		fmt.Fprintf(&out, " --%s <value>", required[0].Name)
	}
	if len(optional) > 0 {
		fmt.Fprintf(&out, " --%s <value>", optional[0].Name)
	}
	out.WriteByte('\n')

	return out.String()
}

func formatParameter(param GoalParameter) string {
	var out strings.Builder
	fmt.Fprintf(&out, "  --%s", param.Name)
	if param.Type != "" {
		fmt.Fprintf(&out, " <%s>", param.Type)
	}
	if param.Default != nil {
		fmt.Fprintf(&out, "  (default: %q)", *param.Default)
	}
	out.WriteByte('\n')
	for _, line := range wrapText(param.Description, helpWrapWidth) {
		out.WriteString("      ")
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String()
}

// wrapText wraps text to maxWidth, breaking on word boundaries.
func wrapText(text string, maxWidth int) []string {
	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case len(current)+len(word)+1 <= maxWidth:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}
