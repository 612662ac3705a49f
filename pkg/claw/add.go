// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed prompts/add_meta_prompt.txt
var addMetaPrompt string

// addPromptData is the template data for the goal-creation meta-prompt.
type addPromptData struct {
	GoalName string
	SavePath string
}

// HandleAdd starts an agent session that authors a new goal. The
// meta-prompt instructs the LLM to interview the user and write the
// goal's prompt.yaml into the chosen configuration directory.
func HandleAdd(name string, local, global bool, cfg *ClawConfig) error {
	paths, err := NewConfigPaths()
	if err != nil {
		return err
	}

	var baseDir string
	switch {
	case local:
		baseDir = paths.Local
		if baseDir == "" {
			baseDir = localConfigDirName
		}
		if err := os.MkdirAll(baseDir, 0o755); err != nil {
			return fmt.Errorf("creating local directory %s: %w", baseDir, err)
		}
		fmt.Printf("--local flag used. Goal will be saved in: %s\n", baseDir)
	case global:
		baseDir = paths.Global
		if baseDir == "" {
			return fmt.Errorf("no global configuration directory found; run claw once without flags first")
		}
		fmt.Printf("--global flag used. Goal will be saved in: %s\n", baseDir)
	default:
		baseDir = paths.Local
		if baseDir == "" {
			baseDir = paths.Global
		}
		if baseDir == "" {
			return fmt.Errorf("no configuration directory found")
		}
	}

	savePath := filepath.Join(baseDir, goalsDirName, name)

	prompt, err := renderMetaPrompt(addPromptData{GoalName: name, SavePath: savePath})
	if err != nil {
		return err
	}

	fmt.Printf("\nStarting agent session to create goal %q...\n", name)
	fmt.Printf("The agent will create files in: %s\n", savePath)
	fmt.Println("Please follow the instructions from the assistant.")

	receiver := NewReceiver(cfg)
	if err := receiver.SendPrompt(prompt); err != nil {
		return err
	}

	fmt.Println("\nAgent session finished. Verify that the goal was created successfully.")
	return nil
}

func renderMetaPrompt(data addPromptData) (string, error) {
	tmpl, err := template.New("add meta-prompt").Parse(addMetaPrompt)
	if err != nil {
		return "", fmt.Errorf("parsing add meta-prompt: %w", err)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("rendering add meta-prompt: %w", err)
	}
	return out.String(), nil
}
