// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/ccw-tools/ccw/cmd/ccw/cli"
	"github.com/ccw-tools/ccw/lib/compile"
	"github.com/ccw-tools/ccw/lib/scaffold"
	libworkspace "github.com/ccw-tools/ccw/lib/workspace"
)

// compileParams holds the parameters for the compile command.
type compileParams struct {
	cli.JSONOutput
	Output string `flag:"output,o" desc:"artifact path (default codecompanion-workspace.json under the project root)"`
}

// CompileCommand returns the "compile" command.
func CompileCommand() *cli.Command {
	return newCompileCommand("compile")
}

// CompileConfigCommand returns the "compile-config" alias. Scripts
// written against the original tool invoke this name; it behaves
// identically to "compile".
func CompileConfigCommand() *cli.Command {
	command := newCompileCommand("compile-config")
	command.Summary = "Alias of compile, kept for script compatibility"
	return command
}

func newCompileCommand(name string) *cli.Command {
	var params compileParams

	return &cli.Command{
		Name:    name,
		Summary: "Compile a workspace config into a CodeCompanion artifact",
		Description: `Compile a workspace config into the codecompanion-workspace.json
artifact. Resolves every file spec against the project root, applies
the ignore policy to pattern expansion, verifies that explicitly
referenced files exist, and writes the artifact atomically. A
compilation whose output is byte-identical to the existing artifact
skips the write.

The config defaults to .cc/codecompanion.yaml in the current
directory. The artifact lands at the project root unless --output
says otherwise.`,
		Usage: fmt.Sprintf("ccw %s [config] [flags]", name),
		Examples: []cli.Example{
			{
				Description: "Compile the workspace in the current directory",
				Command:     fmt.Sprintf("ccw %s", name),
			},
			{
				Description: "Compile a specific config to a custom location",
				Command:     fmt.Sprintf("ccw %s configs/docs-only.yaml --output build/workspace.json", name),
			},
			{
				Description: "Emit the compile result as JSON for scripting",
				Command:     fmt.Sprintf("ccw %s --json", name),
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams(name, &params)
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			return runCompile(name, args, &params, logger)
		},
	}
}

func runCompile(name string, args []string, params *compileParams, logger *slog.Logger) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: ccw %s [config]", name)
	}
	configPath := defaultConfigPath()
	if len(args) == 1 {
		configPath = args[0]
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return cli.NotFound("workspace config %s does not exist", configPath).
			WithHint("Run 'ccw init' to create a workspace.")
	}

	result, err := compile.Compile(compile.Options{
		ConfigPath: configPath,
		OutputPath: params.Output,
		Logger:     logger,
	})
	if err != nil {
		return reportCompileError(configPath, err)
	}

	if done, err := params.EmitJSON(result); done {
		return err
	}

	fmt.Printf("✨ Compiled workspace config (%s)\n", result.OutputPath)
	return nil
}

// defaultConfigPath is where a scaffolded workspace keeps its config,
// relative to the current directory.
func defaultConfigPath() string {
	return filepath.Join(scaffold.CCDirName, scaffold.ConfigFileName)
}

// reportCompileError prints the per-item detail for compile failures
// that carry issue lists, then returns a one-line summary error. Other
// errors pass through unchanged.
func reportCompileError(configPath string, err error) error {
	var schemaErr *libworkspace.SchemaError
	if errors.As(err, &schemaErr) && len(schemaErr.Issues) > 0 {
		for _, issue := range schemaErr.Issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
		return fmt.Errorf("%s: %d validation issue(s) found", configPath, len(schemaErr.Issues))
	}

	var validationErr *compile.ValidationError
	if errors.As(err, &validationErr) {
		for _, missing := range validationErr.Missing {
			fmt.Fprintf(os.Stderr, "  - %s\n", missing)
		}
		return fmt.Errorf("%s: %d validation issue(s) found", configPath, len(validationErr.Missing))
	}

	return err
}
