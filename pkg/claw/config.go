// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed seed/claw.yaml
var seedClawConfig []byte

//go:embed seed/example_prompt.yaml
var seedExampleGoal []byte

// File and directory names of the configuration cascade.
const (
	localConfigDirName = ".claw"
	globalConfigSubdir = "claw"
	clawConfigFileName = "claw.yaml"
	goalsDirName       = "goals"
	goalFileName       = "prompt.yaml"
)

// ErrorHandlingMode governs how context validation errors affect
// whether the command proceeds.
type ErrorHandlingMode string

const (
	// ModeStrict aborts on any validation error.
	ModeStrict ErrorHandlingMode = "strict"
	// ModeFlexible reports issues and asks for confirmation.
	ModeFlexible ErrorHandlingMode = "flexible"
	// ModeIgnore reports issues but always proceeds.
	ModeIgnore ErrorHandlingMode = "ignore"
)

func (m ErrorHandlingMode) valid() bool {
	switch m {
	case ModeStrict, ModeFlexible, ModeIgnore:
		return true
	}
	return false
}

// ReceiverType selects the prompt delivery implementation.
type ReceiverType string

const (
	// ReceiverGeneric runs the configured llm_command.
	ReceiverGeneric ReceiverType = "generic"
	// ReceiverClaudeCLI always runs the claude binary.
	ReceiverClaudeCLI ReceiverType = "claude-cli"
)

// ClawConfig holds all tool-level settings from claw.yaml. Consuming
// code obtains one from FindClawConfig, which applies the cascade and
// fills defaults; a zero ClawConfig is not usable directly.
type ClawConfig struct {
	// LLMCommand is the executable name of the LLM command-line tool.
	LLMCommand string `yaml:"llm_command"`

	// PromptArgTemplate is the argument template for passing the prompt
	// to the LLM. "{{prompt}}" marks where the rendered prompt goes;
	// without it the prompt is piped to stdin instead.
	PromptArgTemplate string `yaml:"prompt_arg_template"`

	// ReceiverType selects the delivery implementation (default generic).
	ReceiverType ReceiverType `yaml:"receiver_type"`

	// MaxFileSizeKB is the per-file size limit for context files.
	MaxFileSizeKB int64 `yaml:"max_file_size_kb"`

	// MaxFilesPerDirectory caps how many context files a single
	// directory may contribute.
	MaxFilesPerDirectory int `yaml:"max_files_per_directory"`

	// ErrorHandlingMode decides what happens when context validation
	// reports errors (default flexible).
	ErrorHandlingMode ErrorHandlingMode `yaml:"error_handling_mode"`

	// ExcludedDirectories are directory names skipped during scanning.
	ExcludedDirectories []string `yaml:"excluded_directories"`

	// ExcludedExtensions are file extensions (without dot) skipped
	// during scanning.
	ExcludedExtensions []string `yaml:"excluded_extensions"`
}

func (c *ClawConfig) applyDefaults() {
	if c.LLMCommand == "" {
		c.LLMCommand = "claude"
	}
	if c.PromptArgTemplate == "" {
		c.PromptArgTemplate = "{{prompt}}"
	}
	if c.ReceiverType == "" {
		c.ReceiverType = ReceiverGeneric
	}
	if c.MaxFileSizeKB == 0 {
		c.MaxFileSizeKB = 1024
	}
	if c.MaxFilesPerDirectory == 0 {
		c.MaxFilesPerDirectory = 50
	}
	if c.ErrorHandlingMode == "" {
		c.ErrorHandlingMode = ModeFlexible
	}
	if c.ExcludedDirectories == nil {
		c.ExcludedDirectories = []string{".git", "node_modules", "target", ".venv", "__pycache__"}
	}
	if c.ExcludedExtensions == nil {
		c.ExcludedExtensions = []string{"exe", "bin", "so", "dylib", "dll", "o", "a"}
	}
}

func (c *ClawConfig) validate() error {
	if !c.ErrorHandlingMode.valid() {
		return fmt.Errorf("invalid error_handling_mode %q (want strict, flexible, or ignore)", c.ErrorHandlingMode)
	}
	switch c.ReceiverType {
	case ReceiverGeneric, ReceiverClaudeCLI:
	default:
		return fmt.Errorf("invalid receiver_type %q (want generic or claude-cli)", c.ReceiverType)
	}
	return nil
}

// GoalSource records whether a goal came from the local or global
// configuration directory.
type GoalSource string

const (
	SourceLocal  GoalSource = "local"
	SourceGlobal GoalSource = "global"
)

// GoalParameter declares one template parameter of a goal. The Type
// tag is documentation-only and not enforced. Default is meaningful
// only for optional parameters; required parameters are never
// auto-filled.
type GoalParameter struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Required    bool    `yaml:"required"`
	Type        string  `yaml:"type,omitempty"`
	Default     *string `yaml:"default,omitempty"`
}

// GoalConfig is the parsed form of a goal's prompt.yaml.
type GoalConfig struct {
	// Name is the human-friendly goal name.
	Name string `yaml:"name"`

	// Description is an optional one-line summary.
	Description string `yaml:"description,omitempty"`

	// Parameters declares the goal's template parameters. An empty
	// list means the goal accepts arbitrary parameters.
	Parameters []GoalParameter `yaml:"parameters,omitempty"`

	// ContextScripts maps template variable names to shell commands
	// whose trimmed stdout becomes the variable's value.
	ContextScripts map[string]string `yaml:"context_scripts,omitempty"`

	// Prompt is the prompt template body.
	Prompt string `yaml:"prompt"`
}

// LoadedGoal is a goal configuration together with the directory it
// was loaded from.
type LoadedGoal struct {
	Config    GoalConfig
	Directory string
}

// DiscoveredGoal is a goal found while listing the cascade.
type DiscoveredGoal struct {
	Name   string
	Source GoalSource
	Config GoalConfig
}

// ConfigPaths holds the resolved local and global configuration
// directories. Either may be empty when not present on disk.
type ConfigPaths struct {
	Local  string
	Global string
}

// NewConfigPaths locates the configuration cascade: the nearest .claw
// directory in the current directory or any ancestor, and the global
// <UserConfigDir>/claw directory.
func NewConfigPaths() (ConfigPaths, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return ConfigPaths{}, fmt.Errorf("determining working directory: %w", err)
	}
	return ConfigPaths{
		Local:  findLocalConfigDir(cwd),
		Global: findGlobalConfigDir(),
	}, nil
}

// findLocalConfigDir walks upward from dir looking for a .claw directory.
func findLocalConfigDir(dir string) string {
	for {
		candidate := filepath.Join(dir, localConfigDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func findGlobalConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(base, globalConfigSubdir)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}

// LoadGoalConfig loads <baseDir>/goals/<name>/prompt.yaml. It returns
// (nil, nil) when the file does not exist, and an error when the file
// exists but cannot be read or parsed.
func LoadGoalConfig(baseDir, goalName string) (*GoalConfig, error) {
	path := filepath.Join(baseDir, goalsDirName, goalName, goalFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg GoalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// FindGoal implements the configuration cascade for a single goal:
// local .claw/ first, then the global directory.
func FindGoal(goalName string) (*LoadedGoal, error) {
	paths, err := NewConfigPaths()
	if err != nil {
		return nil, err
	}

	if paths.Local != "" {
		cfg, err := LoadGoalConfig(paths.Local, goalName)
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			return &LoadedGoal{Config: *cfg, Directory: filepath.Join(paths.Local, goalsDirName, goalName)}, nil
		}
	}

	if paths.Global != "" {
		cfg, err := LoadGoalConfig(paths.Global, goalName)
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			return &LoadedGoal{Config: *cfg, Directory: filepath.Join(paths.Global, goalsDirName, goalName)}, nil
		}
	}

	return nil, fmt.Errorf("goal %q not found in local or global configuration", goalName)
}

// FindClawConfig loads claw.yaml through the cascade and always
// returns a usable configuration: local, then global, then compiled-in
// defaults.
func FindClawConfig() (ClawConfig, error) {
	paths, err := NewConfigPaths()
	if err != nil {
		return ClawConfig{}, err
	}

	for _, dir := range []string{paths.Local, paths.Global} {
		if dir == "" {
			continue
		}
		cfg, err := loadClawConfigFromDir(dir)
		if err != nil {
			return ClawConfig{}, err
		}
		if cfg != nil {
			return *cfg, nil
		}
	}

	var cfg ClawConfig
	cfg.applyDefaults()
	return cfg, nil
}

func loadClawConfigFromDir(dir string) (*ClawConfig, error) {
	path := filepath.Join(dir, clawConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg ClawConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// FindAllGoals lists every goal in the cascade, local goals shadowing
// global ones of the same name, sorted by goal name.
func FindAllGoals() ([]DiscoveredGoal, error) {
	paths, err := NewConfigPaths()
	if err != nil {
		return nil, err
	}

	var goals []DiscoveredGoal
	seen := make(map[string]bool)

	collect := func(baseDir string, source GoalSource) error {
		goalsDir := filepath.Join(baseDir, goalsDirName)
		entries, err := os.ReadDir(goalsDir)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("listing %s: %w", goalsDir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() || seen[entry.Name()] {
				continue
			}
			cfg, err := LoadGoalConfig(baseDir, entry.Name())
			if err != nil {
				return err
			}
			if cfg == nil {
				continue
			}
			seen[entry.Name()] = true
			goals = append(goals, DiscoveredGoal{Name: entry.Name(), Source: source, Config: *cfg})
		}
		return nil
	}

	if paths.Local != "" {
		if err := collect(paths.Local, SourceLocal); err != nil {
			return nil, err
		}
	}
	if paths.Global != "" {
		if err := collect(paths.Global, SourceGlobal); err != nil {
			return nil, err
		}
	}

	sort.Slice(goals, func(i, j int) bool { return goals[i].Name < goals[j].Name })
	return goals, nil
}

// EnsureGlobalConfig performs first-run bootstrap: when the global
// config directory does not exist yet, it is created and seeded with
// the embedded default claw.yaml and an example goal.
func EnsureGlobalConfig() error {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil // no user config dir on this system; nothing to bootstrap
	}
	configDir := filepath.Join(base, globalConfigSubdir)
	if _, err := os.Stat(configDir); err == nil {
		return nil
	}

	fmt.Printf("Welcome to claw!\nThis looks like your first run. Creating a global config directory at:\n%s\n\n", configDir)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", configDir, err)
	}
	if err := os.WriteFile(filepath.Join(configDir, clawConfigFileName), seedClawConfig, 0o644); err != nil {
		return fmt.Errorf("writing default claw.yaml: %w", err)
	}

	exampleDir := filepath.Join(configDir, goalsDirName, "example")
	if err := os.MkdirAll(exampleDir, 0o755); err != nil {
		return fmt.Errorf("creating example goal directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(exampleDir, goalFileName), seedExampleGoal, 0o644); err != nil {
		return fmt.Errorf("writing example goal: %w", err)
	}

	fmt.Println("Added an example goal. Try it out with:")
	fmt.Println("  claw example -- --topic=\"the history of the Go programming language\"")
	return nil
}
