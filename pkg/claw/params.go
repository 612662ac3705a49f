// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"fmt"
	"strings"
)

// ParameterValidator checks user-supplied template arguments against a
// goal's declared parameter schema.
type ParameterValidator struct {
	parameters []GoalParameter
	goalName   string
}

// ValidationError reports the required parameters missing from a goal
// invocation.
type ValidationError struct {
	GoalName      string
	MissingParams []GoalParameter
}

func (e *ValidationError) Error() string {
	var out strings.Builder
	fmt.Fprintf(&out, "Goal '%s' is missing required parameters:\n\n", e.GoalName)
	for _, param := range e.MissingParams {
		fmt.Fprintf(&out, "  --%s", param.Name)
		if param.Type != "" {
			fmt.Fprintf(&out, " <%s>", param.Type)
		}
		out.WriteByte('\n')
		fmt.Fprintf(&out, "      %s\n", param.Description)
	}
	fmt.Fprintf(&out, "\nRun 'claw %s --explain' for more information.\n", e.GoalName)
	return out.String()
}

// NewParameterValidator creates a validator for the given goal.
func NewParameterValidator(parameters []GoalParameter, goalName string) *ParameterValidator {
	return &ParameterValidator{parameters: parameters, goalName: goalName}
}

// Validate checks args against the schema and returns the resolved
// parameter set with defaults applied.
//
// A goal with no declared parameters accepts arbitrary arguments: the
// user map passes through unchanged. This is a deliberate bypass, not
// a degenerate validation case.
func (v *ParameterValidator) Validate(args map[string]string) (map[string]string, error) {
	if len(v.parameters) == 0 {
		return args, nil
	}

	if missing := v.MissingRequired(args); len(missing) > 0 {
		return nil, &ValidationError{GoalName: v.goalName, MissingParams: missing}
	}

	result := make(map[string]string, len(args))
	for k, val := range args {
		result[k] = val
	}
	for _, param := range v.parameters {
		if _, ok := result[param.Name]; ok {
			continue
		}
		if param.Default != nil {
			result[param.Name] = *param.Default
		}
	}
	return result, nil
}

// MissingRequired returns the required parameters absent from args, in
// schema order.
func (v *ParameterValidator) MissingRequired(args map[string]string) []GoalParameter {
	var missing []GoalParameter
	for _, param := range v.parameters {
		if param.Required {
			if _, ok := args[param.Name]; !ok {
				missing = append(missing, param)
			}
		}
	}
	return missing
}
