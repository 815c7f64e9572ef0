// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"context"
	"strings"
	"testing"

	libtemplate "github.com/ccw-tools/ccw/lib/template"
)

func TestShowPrintsContent(t *testing.T) {
	// NO_COLOR forces the plain output path, so the byte-for-byte
	// assertion holds even when the test runner is a terminal.
	t.Setenv("NO_COLOR", "1")

	registry, err := libtemplate.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	want, err := registry.Get("minimal")
	if err != nil {
		t.Fatal(err)
	}

	for _, args := range [][]string{{"minimal"}, {"--raw", "minimal"}} {
		command := showCommand()
		var runErr error
		output := captureStdout(t, func() {
			runErr = command.Execute(context.Background(), args)
		})
		if runErr != nil {
			t.Fatalf("show %v: %v", args, runErr)
		}
		if output != want.Content {
			t.Errorf("show %v: output does not match template content\ngot:  %q\nwant: %q",
				args, output, want.Content)
		}
	}
}

func TestShowKeepsPlaceholders(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	command := showCommand()
	var runErr error
	output := captureStdout(t, func() {
		runErr = command.Execute(context.Background(), []string{"default"})
	})
	if runErr != nil {
		t.Fatalf("show: %v", runErr)
	}
	if !strings.Contains(output, "${project_name}") {
		t.Errorf("expected ${project_name} placeholder in output, got %q", output)
	}
}

func TestShowUnknownTemplate(t *testing.T) {
	err := showCommand().Execute(context.Background(), []string{"golang"})
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
	if !strings.Contains(err.Error(), "default") {
		t.Errorf("expected available templates in error, got %v", err)
	}
}

func TestShowUsageError(t *testing.T) {
	err := showCommand().Execute(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "usage:") {
		t.Errorf("expected usage error, got %v", err)
	}
}
