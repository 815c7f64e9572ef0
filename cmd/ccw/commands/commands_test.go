// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/ccw-tools/ccw/cmd/ccw/cli"
)

func TestRootTree(t *testing.T) {
	root := Root()

	if root.Name != "ccw" {
		t.Errorf("expected root name ccw, got %q", root.Name)
	}

	var names []string
	for _, sub := range root.Subcommands {
		names = append(names, sub.Name)
	}
	want := []string{"init", "compile", "compile-config", "validate", "doctor", "template", "docs", "version"}
	if len(names) != len(want) {
		t.Fatalf("expected top-level commands %v, got %v", want, names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("subcommand %d: expected %q, got %q", i, name, names[i])
		}
	}
}

// TestCommandTreeSummaries walks the full command tree and validates
// that every command below the root carries a one-line summary, since
// the parent help listing renders it.
func TestCommandTreeSummaries(t *testing.T) {
	walkCommands(Root(), nil, func(command *cli.Command, path []string) {
		if command.Name == "" {
			t.Errorf("%s: command with empty name", strings.Join(path, " "))
		}
		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: command missing summary", strings.Join(path, " "))
		}
		seen := make(map[string]bool)
		for _, sub := range command.Subcommands {
			if seen[sub.Name] {
				t.Errorf("%s: duplicate subcommand %q", strings.Join(path, " "), sub.Name)
			}
			seen[sub.Name] = true
		}
	})
}

func TestVersionCommand(t *testing.T) {
	var runErr error
	output := captureStdout(t, func() {
		runErr = Root().Execute(context.Background(), []string{"version"})
	})
	if runErr != nil {
		t.Fatalf("version: %v", runErr)
	}
	if !strings.HasPrefix(output, "ccw ") {
		t.Errorf("expected version output to start with \"ccw \", got %q", output)
	}
}

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}

// captureStdout captures stdout output during fn execution.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = writer

	fn()

	writer.Close()
	os.Stdout = original

	var buffer bytes.Buffer
	io.Copy(&buffer, reader)
	reader.Close()

	return buffer.String()
}
