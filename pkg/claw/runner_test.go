// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package claw

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewReceiverSelection(t *testing.T) {
	var cfg ClawConfig
	cfg.applyDefaults()

	if _, ok := NewReceiver(&cfg).(*GenericReceiver); !ok {
		t.Errorf("default receiver is %T, want *GenericReceiver", NewReceiver(&cfg))
	}

	cfg.ReceiverType = ReceiverClaudeCLI
	if _, ok := NewReceiver(&cfg).(*ClaudeCLIReceiver); !ok {
		t.Errorf("claude-cli receiver is %T, want *ClaudeCLIReceiver", NewReceiver(&cfg))
	}
}

func TestGenericReceiverStdinMode(t *testing.T) {
	// No {{prompt}} placeholder, so the prompt goes to the child's
	// stdin. cat consumes it and exits zero.
	r := &GenericReceiver{LLMCommand: "cat", PromptArgTemplate: ""}
	if err := r.SendPrompt("hello from stdin"); err != nil {
		t.Errorf("SendPrompt: %v", err)
	}
}

func TestGenericReceiverArgumentMode(t *testing.T) {
	r := &GenericReceiver{LLMCommand: "true", PromptArgTemplate: "{{prompt}}"}
	if err := r.SendPrompt("hello as argument"); err != nil {
		t.Errorf("SendPrompt: %v", err)
	}
}

func TestGenericReceiverMissingCommand(t *testing.T) {
	r := &GenericReceiver{LLMCommand: "claw-test-no-such-binary", PromptArgTemplate: "{{prompt}}"}
	err := r.SendPrompt("x")
	if err == nil || !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("err = %v, want not-found-in-PATH", err)
	}
}

func TestCheckPromptSizeWarning(t *testing.T) {
	huge := strings.Repeat("x", 1024*1024+1)

	var out strings.Builder
	CheckPromptSizeWarning(huge, "{{prompt}}", &out)
	if !strings.Contains(out.String(), "over 1 MB") {
		t.Errorf("no warning for huge prompt in argument mode: %q", out.String())
	}

	out.Reset()
	CheckPromptSizeWarning(huge, "", &out)
	if out.Len() != 0 {
		t.Errorf("warning emitted in stdin mode: %q", out.String())
	}

	out.Reset()
	CheckPromptSizeWarning("small", "{{prompt}}", &out)
	if out.Len() != 0 {
		t.Errorf("warning emitted for a small prompt: %q", out.String())
	}
}

func TestExecuteContextScripts(t *testing.T) {
	outputs, err := ExecuteContextScripts(map[string]string{
		"greeting": "echo '  hello  '",
		"count":    "printf 42",
	})
	if err != nil {
		t.Fatalf("ExecuteContextScripts: %v", err)
	}

	want := map[string]string{"greeting": "hello", "count": "42"}
	if diff := cmp.Diff(want, outputs); diff != "" {
		t.Errorf("script outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteContextScriptsFailure(t *testing.T) {
	_, err := ExecuteContextScripts(map[string]string{
		"boom": "echo diagnostics >&2; exit 3",
	})
	if err == nil {
		t.Fatal("ExecuteContextScripts: expected error")
	}
	for _, want := range []string{`context script "boom"`, "diagnostics"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestExecuteContextScriptsEmpty(t *testing.T) {
	outputs, err := ExecuteContextScripts(nil)
	if err != nil {
		t.Fatalf("ExecuteContextScripts: %v", err)
	}
	if len(outputs) != 0 {
		t.Errorf("outputs = %v, want empty", outputs)
	}
}
