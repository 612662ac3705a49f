// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"fmt"
	"io"
)

// HandleList prints every discovered goal grouped by source. The
// localOnly/globalOnly flags restrict the listing to one section.
func HandleList(localOnly, globalOnly bool, w io.Writer) error {
	paths, err := NewConfigPaths()
	if err != nil {
		return err
	}
	goals, err := FindAllGoals()
	if err != nil {
		return err
	}

	if len(goals) == 0 {
		fmt.Fprintln(w, "No goals found.")
		fmt.Fprintln(w, "Add a goal using: claw add <goal_name>")
		return nil
	}

	var local, global []DiscoveredGoal
	for _, goal := range goals {
		if goal.Source == SourceLocal {
			local = append(local, goal)
		} else {
			global = append(global, goal)
		}
	}

	if !globalOnly && len(local) > 0 {
		fmt.Fprintf(w, "Local Goals (%s):\n\n", pathOrFallback(paths.Local, "./.claw/"))
		for _, goal := range local {
			printGoalInfo(goal, w)
		}
	}

	if !localOnly && len(global) > 0 {
		if !globalOnly && len(local) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Global Goals (%s):\n\n", pathOrFallback(paths.Global, "~/.config/claw/"))
		for _, goal := range global {
			printGoalInfo(goal, w)
		}
	}

	return nil
}

func pathOrFallback(path, fallback string) string {
	if path != "" {
		return path
	}
	return fallback
}

func printGoalInfo(goal DiscoveredGoal, w io.Writer) {
	fmt.Fprintf(w, "  %s - %s\n", goal.Name, goal.Config.Name)
	if goal.Config.Description != "" {
		fmt.Fprintf(w, "    %s\n", goal.Config.Description)
	}

	required, optional := 0, 0
	for _, param := range goal.Config.Parameters {
		if param.Required {
			required++
		} else {
			optional++
		}
	}

	switch {
	case len(goal.Config.Parameters) == 0:
		fmt.Fprintln(w, "    Parameters: accepts arbitrary parameters")
	case required > 0 && optional > 0:
		fmt.Fprintf(w, "    Parameters: %d required, %d optional\n", required, optional)
	case required > 0:
		fmt.Fprintf(w, "    Parameters: %d required\n", required)
	default:
		fmt.Fprintf(w, "    Parameters: %d optional\n", optional)
	}

	fmt.Fprintln(w)
}
