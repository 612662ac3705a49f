// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command claw is a goal-driven, context-aware wrapper for LLM
// command-line tools.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/claw/pkg/claw"
	"github.com/spf13/cobra"
)

func main() {
	if err := claw.EnsureGlobalConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "claw: %v\n", err)
		os.Exit(1)
	}

	cfg, err := claw.FindClawConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "claw: %v\n", err)
		os.Exit(1)
	}

	root := newRootCmd(&cfg)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "claw: %v\n", err)
		os.Exit(1)
	}
}

// runOptions holds the manually parsed run-style arguments. Flag
// parsing is disabled for the run path so that arbitrary --key flags
// after "--" reach the goal template untouched.
type runOptions struct {
	goalName     string
	contextPaths []string
	recurseDepth *int
	explain      bool
	output       string
	templateArgs []string
}

func newRootCmd(cfg *claw.ClawConfig) *cobra.Command {
	root := &cobra.Command{
		Use:   "claw [goal] [-c path ...] [-d depth] [-e] [-- goal args]",
		Short: "A goal-driven, context-aware wrapper for LLM CLIs",
		Long: `claw discovers user-defined goal templates, renders them with
parameters and optional file context, and hands the result to the
configured LLM command-line tool.`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, showHelp, err := parseRunArgs(args, false)
			if err != nil {
				return err
			}
			if showHelp {
				return cmd.Help()
			}
			return runRoot(cfg, opts)
		},
	}

	root.AddCommand(newAddCmd(cfg), newListCmd(), newPassCmd(cfg), newDryRunCmd(cfg))
	return root
}

func runRoot(cfg *claw.ClawConfig, opts *runOptions) error {
	if opts.goalName == "" {
		fmt.Println("No goal given")
		return claw.HandleList(false, false, os.Stdout)
	}

	if opts.explain {
		goal, err := claw.FindGoal(opts.goalName)
		if err != nil {
			return err
		}
		fmt.Println(claw.FormatGoalHelp(goal, opts.goalName))
		return nil
	}

	prompt, err := claw.RenderGoalPrompt(opts.goalName, cfg, opts.templateArgs,
		opts.contextPaths, opts.recurseDepth, os.Stdin, os.Stderr)
	if err != nil {
		return err
	}

	claw.CheckPromptSizeWarning(prompt, cfg.PromptArgTemplate, os.Stderr)
	return claw.NewReceiver(cfg).SendPrompt(prompt)
}

func newAddCmd(cfg *claw.ClawConfig) *cobra.Command {
	var local, global bool
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new goal with the help of the LLM agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if local && global {
				return fmt.Errorf("--local and --global are mutually exclusive")
			}
			return claw.HandleAdd(args[0], local, global, cfg)
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "create the goal in the local .claw/ directory")
	cmd.Flags().BoolVar(&global, "global", false, "create the goal in the global config directory")
	return cmd
}

func newListCmd() *cobra.Command {
	var local, global bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all available goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if local && global {
				return fmt.Errorf("--local and --global are mutually exclusive")
			}
			return claw.HandleList(local, global, os.Stdout)
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "show only local goals")
	cmd.Flags().BoolVar(&global, "global", false, "show only global goals")
	return cmd
}

func newPassCmd(cfg *claw.ClawConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "pass",
		Short: "Execute the underlying LLM CLI directly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := claw.RunPassThrough(cfg)
			// Mirror the child's exit code rather than reporting an
			// error; the user may have exited the tool non-zero on
			// purpose.
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				os.Exit(exitErr.ExitCode())
			}
			return err
		},
	}
}

func newDryRunCmd(cfg *claw.ClawConfig) *cobra.Command {
	return &cobra.Command{
		Use:                "dry-run <goal> [-o file] [run flags] [-- goal args]",
		Short:              "Render a goal's prompt without executing the LLM",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, showHelp, err := parseRunArgs(args, true)
			if err != nil {
				return err
			}
			if showHelp {
				return cmd.Help()
			}
			if opts.goalName == "" {
				return fmt.Errorf("dry-run requires a goal name")
			}
			prompt, err := claw.RenderGoalPrompt(opts.goalName, cfg, opts.templateArgs,
				opts.contextPaths, opts.recurseDepth, os.Stdin, os.Stderr)
			if err != nil {
				return err
			}
			return claw.OutputPrompt(prompt, opts.output, os.Stdout)
		},
	}
}

// parseRunArgs parses the run-style argument list. Everything after
// "--" is collected verbatim as goal template arguments.
func parseRunArgs(args []string, withOutput bool) (*runOptions, bool, error) {
	opts := &runOptions{}
	i := 0
	for i < len(args) {
		arg := args[i]
		switch {
		case arg == "--":
			opts.templateArgs = append(opts.templateArgs, args[i+1:]...)
			return opts, false, nil

		case arg == "-h" || arg == "--help":
			return nil, true, nil

		case arg == "-c" || arg == "--context":
			i++
			for i < len(args) && !strings.HasPrefix(args[i], "-") {
				opts.contextPaths = append(opts.contextPaths, args[i])
				i++
			}

		case strings.HasPrefix(arg, "--context="):
			opts.contextPaths = append(opts.contextPaths, strings.TrimPrefix(arg, "--context="))
			i++

		case arg == "-d" || arg == "--recurse-depth":
			if i+1 >= len(args) {
				return nil, false, fmt.Errorf("%s requires a value", arg)
			}
			depth, err := parseDepth(args[i+1])
			if err != nil {
				return nil, false, err
			}
			opts.recurseDepth = depth
			i += 2

		case strings.HasPrefix(arg, "--recurse-depth="):
			depth, err := parseDepth(strings.TrimPrefix(arg, "--recurse-depth="))
			if err != nil {
				return nil, false, err
			}
			opts.recurseDepth = depth
			i++

		case arg == "-e" || arg == "--explain":
			opts.explain = true
			i++

		case withOutput && (arg == "-o" || arg == "--output"):
			if i+1 >= len(args) {
				return nil, false, fmt.Errorf("%s requires a value", arg)
			}
			opts.output = args[i+1]
			i += 2

		case withOutput && strings.HasPrefix(arg, "--output="):
			opts.output = strings.TrimPrefix(arg, "--output=")
			i++

		case strings.HasPrefix(arg, "-"):
			return nil, false, fmt.Errorf("unknown flag %q (goal arguments go after --)", arg)

		default:
			if opts.goalName != "" {
				return nil, false, fmt.Errorf("unexpected argument %q", arg)
			}
			opts.goalName = arg
			i++
		}
	}
	return opts, false, nil
}

func parseDepth(value string) (*int, error) {
	depth, err := strconv.Atoi(value)
	if err != nil || depth < 0 {
		return nil, fmt.Errorf("invalid recursion depth %q", value)
	}
	return &depth, nil
}
