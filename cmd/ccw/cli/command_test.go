// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "ccw",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "compile",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "compile"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"compile"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "compile" {
		t.Errorf("dispatched to %q, want %q", called, "compile")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "ccw",
		Subcommands: []*Command{
			{
				Name: "docs",
				Subcommands: []*Command{
					{
						Name: "merge",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							called = "docs merge"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"docs", "merge", "extra-arg"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "docs merge" {
		t.Errorf("dispatched to %q, want %q", called, "docs merge")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra-arg" {
		t.Errorf("args = %v, want [extra-arg]", receivedArgs)
	}
}

func TestCommand_Execute_PassesContextAndLogger(t *testing.T) {
	type markerKey struct{}
	ctx := context.WithValue(context.Background(), markerKey{}, "present")

	var gotMarker any
	var gotLogger *slog.Logger

	command := &Command{
		Name: "compile",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			gotMarker = ctx.Value(markerKey{})
			gotLogger = logger
			return nil
		},
	}

	if err := command.Execute(ctx, nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if gotMarker != "present" {
		t.Error("context value did not reach the Run function")
	}
	if gotLogger == nil {
		t.Error("Run received a nil logger")
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var outputPath string
	var target string

	command := &Command{
		Name: "compile",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("compile", pflag.ContinueOnError)
			flagSet.StringVar(&outputPath, "output", "codecompanion-workspace.json", "artifact path")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--output", "out/workspace.json", ".cc/codecompanion.yaml"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if outputPath != "out/workspace.json" {
		t.Errorf("outputPath = %q, want %q", outputPath, "out/workspace.json")
	}
	if target != ".cc/codecompanion.yaml" {
		t.Errorf("target = %q, want %q", target, ".cc/codecompanion.yaml")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "compile",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("compile", pflag.ContinueOnError)
			flagSet.String("output", "", "artifact path")
			flagSet.Bool("json", false, "output as JSON")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--outptu"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --output") {
		t.Errorf("error = %q, want suggestion for '--output'", errStr)
	}
	// Suggestion should be on the same line as the error, not buried.
	if !strings.Contains(errStr, "outptu") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	// Should include a pointer to --help.
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "compile",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("compile", pflag.ContinueOnError)
			flagSet.Bool("json", false, "output as JSON")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "ccw",
		Subcommands: []*Command{
			{Name: "compile"},
			{Name: "validate"},
			{Name: "version"},
		},
	}

	err := root.Execute(context.Background(), []string{"compiel"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"compile\"") {
		t.Errorf("error = %q, want suggestion for 'compile'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "ccw",
		Subcommands: []*Command{
			{Name: "compile"},
			{Name: "validate"},
		},
	}

	err := root.Execute(context.Background(), []string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "ccw",
				Summary: "CodeCompanion workspace tool",
				Subcommands: []*Command{
					{Name: "compile", Summary: "Compile a workspace config"},
				},
			}

			err := root.Execute(context.Background(), []string{helpArg})
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "ccw",
		Subcommands: []*Command{
			{Name: "compile", Summary: "Compile a workspace config"},
		},
	}

	err := root.Execute(context.Background(), []string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "ccw",
		Description: "CodeCompanion workspace tool.",
		Subcommands: []*Command{
			{Name: "init", Summary: "Initialize a workspace"},
			{Name: "compile", Summary: "Compile a workspace config"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Initialize a workspace in the current directory",
				Command:     "ccw init",
			},
			{
				Description: "Compile the workspace config into an artifact",
				Command:     "ccw compile --output codecompanion-workspace.json",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	// Verify structural elements are present.
	for _, want := range []string{
		"CodeCompanion workspace tool.",
		"Usage:",
		"ccw <command> [flags]",
		"Commands:",
		"init",
		"Initialize a workspace",
		"compile",
		"Compile a workspace config",
		"Examples:",
		"ccw init",
		"ccw compile --output",
		"Run 'ccw <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "merge",
		Summary: "Merge markdown documentation into one file",
		Usage:   "ccw docs merge <source> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("merge", pflag.ContinueOnError)
			flagSet.String("output", "complete_docs.md", "merged output file")
			flagSet.Int("base-level", 1, "heading level for top-level headings")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"ccw docs merge <source> [flags]",
		"Flags:",
		"output",
		"base-level",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "ccw"}
	docs := &Command{Name: "docs", parent: root}
	merge := &Command{Name: "merge", parent: docs}

	if got := root.fullName(); got != "ccw" {
		t.Errorf("root.fullName() = %q, want %q", got, "ccw")
	}
	if got := docs.fullName(); got != "ccw docs" {
		t.Errorf("docs.fullName() = %q, want %q", got, "ccw docs")
	}
	if got := merge.fullName(); got != "ccw docs merge" {
		t.Errorf("merge.fullName() = %q, want %q", got, "ccw docs merge")
	}
}
