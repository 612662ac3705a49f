// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"
)

// templateData is the data exposed to goal templates. Args holds the
// validated parameter set; Context holds context-script outputs and is
// empty while the scripts themselves are being rendered.
type templateData struct {
	Args    map[string]string
	Context map[string]string
}

// ParseGoalArgs parses goal arguments into a key/value map. Supported
// forms: --key=value, --key value, and --flag (boolean, stored as
// "true").
func ParseGoalArgs(args []string) (map[string]string, error) {
	parsed := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			return nil, fmt.Errorf("invalid goal argument %q: all goal arguments must be flags starting with --", arg)
		}
		key := arg[2:]
		if k, v, ok := strings.Cut(key, "="); ok {
			parsed[k] = v
			continue
		}
		if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
			parsed[key] = "true"
			continue
		}
		parsed[key] = args[i+1]
		i++
	}
	return parsed, nil
}

// renderTemplate expands one template body with the given data.
// Missing map keys render as empty strings.
func renderTemplate(name, body string, data templateData) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(body)
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", name, err)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("rendering template %q: %w", name, err)
	}
	return out.String(), nil
}

// RenderGoalPrompt performs every step needed to produce the final
// prompt for a goal: loading and validating the goal, validating
// template arguments, rendering and executing context scripts,
// expanding the prompt template, and appending the file-context bundle
// when context paths were given.
//
// stdin and diagW serve the flexible-mode confirmation flow; they are
// the only interactive touchpoints of the pipeline.
func RenderGoalPrompt(goalName string, cfg *ClawConfig, templateArgs, contextPaths []string, recurseDepth *int, stdin io.Reader, diagW io.Writer) (string, error) {
	goal, err := FindGoal(goalName)
	if err != nil {
		return "", err
	}

	parsedArgs, err := ParseGoalArgs(templateArgs)
	if err != nil {
		return "", err
	}

	validator := NewParameterValidator(goal.Config.Parameters, goalName)
	args, err := validator.Validate(parsedArgs)
	if err != nil {
		return "", err
	}

	// Context scripts are themselves templates over Args, so users can
	// parameterize the shell commands before they run.
	scripts := make(map[string]string, len(goal.Config.ContextScripts))
	scriptNames := make([]string, 0, len(goal.Config.ContextScripts))
	for name := range goal.Config.ContextScripts {
		scriptNames = append(scriptNames, name)
	}
	sort.Strings(scriptNames)
	for _, name := range scriptNames {
		rendered, err := renderTemplate("context script "+name, goal.Config.ContextScripts[name], templateData{Args: args})
		if err != nil {
			return "", err
		}
		scripts[name] = rendered
	}

	scriptOutputs, err := ExecuteContextScripts(scripts)
	if err != nil {
		return "", err
	}

	prompt, err := renderTemplate("goal "+goalName, goal.Config.Prompt, templateData{Args: args, Context: scriptOutputs})
	if err != nil {
		return "", err
	}

	if len(contextPaths) == 0 {
		return prompt, nil
	}

	contextCfg := cfg.ContextConfig(contextPaths, recurseDepth)
	files, err := DiscoverFiles(&contextCfg)
	if err != nil {
		return "", err
	}
	result := ValidateFiles(files, &contextCfg)
	if err := ResolveContextIssues(result, contextCfg.ErrorHandlingMode, stdin, diagW); err != nil {
		return "", err
	}

	return prompt + "\n\n" + FormatContext(result, &contextCfg), nil
}
