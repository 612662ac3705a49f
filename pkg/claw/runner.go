// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/google/shlex"
)

// promptPlaceholder marks where the rendered prompt goes inside
// prompt_arg_template. When absent, the prompt is piped to stdin.
const promptPlaceholder = "{{prompt}}"

// PromptReceiver delivers a fully rendered prompt to its target. The
// interface hides the delivery mechanism: command-line argument, stdin
// pipe, or anything else an implementation chooses.
type PromptReceiver interface {
	// SendPrompt delivers the prompt and blocks until the target
	// finishes.
	SendPrompt(prompt string) error

	// Name identifies the receiver in logs and error messages.
	Name() string
}

// NewReceiver builds the receiver selected by the configuration.
func NewReceiver(cfg *ClawConfig) PromptReceiver {
	switch cfg.ReceiverType {
	case ReceiverClaudeCLI:
		return &ClaudeCLIReceiver{PromptArgTemplate: cfg.PromptArgTemplate}
	default:
		return &GenericReceiver{LLMCommand: cfg.LLMCommand, PromptArgTemplate: cfg.PromptArgTemplate}
	}
}

// GenericReceiver runs an arbitrary LLM command-line tool. When the
// argument template contains {{prompt}}, the prompt is substituted
// into the command line; otherwise it is piped to the command's stdin.
type GenericReceiver struct {
	LLMCommand        string
	PromptArgTemplate string
}

func (r *GenericReceiver) Name() string { return "generic" }

func (r *GenericReceiver) SendPrompt(prompt string) error {
	if strings.Contains(r.PromptArgTemplate, promptPlaceholder) {
		return r.sendViaArgument(prompt)
	}
	return r.sendViaStdin(prompt)
}

func (r *GenericReceiver) resolveCommand() (string, []string, error) {
	executable, err := exec.LookPath(r.LLMCommand)
	if err != nil {
		return "", nil, fmt.Errorf("LLM command %q not found in PATH: %w", r.LLMCommand, err)
	}
	args, err := shlex.Split(r.PromptArgTemplate)
	if err != nil {
		return "", nil, fmt.Errorf("parsing prompt_arg_template: %w", err)
	}
	return executable, args, nil
}

func (r *GenericReceiver) sendViaArgument(prompt string) error {
	executable, templateArgs, err := r.resolveCommand()
	if err != nil {
		return err
	}

	args := make([]string, len(templateArgs))
	for i, arg := range templateArgs {
		args[i] = strings.ReplaceAll(arg, promptPlaceholder, prompt)
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	logf("runner: exec %s (argument mode, promptLen=%d)", executable, len(prompt))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("LLM command %q: %w", executable, err)
	}
	return nil
}

func (r *GenericReceiver) sendViaStdin(prompt string) error {
	executable, templateArgs, err := r.resolveCommand()
	if err != nil {
		return err
	}

	cmd := exec.Command(executable, templateArgs...)
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	logf("runner: exec %s (stdin mode, promptLen=%d)", executable, len(prompt))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("LLM command %q: %w", executable, err)
	}
	return nil
}

// ClaudeCLIReceiver is a convenience receiver that hardcodes the
// claude binary and otherwise behaves like GenericReceiver.
type ClaudeCLIReceiver struct {
	PromptArgTemplate string
}

func (r *ClaudeCLIReceiver) Name() string { return "claude-cli" }

func (r *ClaudeCLIReceiver) SendPrompt(prompt string) error {
	generic := &GenericReceiver{LLMCommand: "claude", PromptArgTemplate: r.PromptArgTemplate}
	return generic.SendPrompt(prompt)
}

// CheckPromptSizeWarning tells users with very large prompts how to
// avoid shell argument length limits.
func CheckPromptSizeWarning(prompt, argTemplate string, w io.Writer) {
	const megabyte = 1024 * 1024
	if strings.Contains(argTemplate, promptPlaceholder) && len(prompt) > megabyte {
		fmt.Fprintln(w, "Warning: the prompt is over 1 MB. Consider removing {{prompt}} from prompt_arg_template so the prompt is piped via stdin instead.")
	}
}

// ExecuteContextScripts runs each named shell command and captures its
// trimmed stdout. Scripts run through "sh -c" so pipes and globbing
// work. Scripts execute in name order for reproducible failures; any
// failing script aborts with its stderr attached.
func ExecuteContextScripts(scripts map[string]string) (map[string]string, error) {
	outputs := make(map[string]string, len(scripts))

	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		command := scripts[name]
		cmd := exec.Command("sh", "-c", command)
		var stderr strings.Builder
		cmd.Stderr = &stderr
		out, err := cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("context script %q (`%s`) failed: %w\n%s", name, command, err, stderr.String())
		}
		outputs[name] = strings.TrimSpace(string(out))
	}

	return outputs, nil
}

// RunPassThrough executes the configured LLM command directly, with no
// prompt rendering at all. The child's exit status is returned as an
// *exec.ExitError so callers can mirror it.
func RunPassThrough(cfg *ClawConfig) error {
	executable, err := exec.LookPath(cfg.LLMCommand)
	if err != nil {
		return fmt.Errorf("LLM command %q not found in PATH: %w", cfg.LLMCommand, err)
	}

	cmd := exec.Command(executable)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
