// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ccw-tools/ccw/cmd/ccw/cli"
	"github.com/ccw-tools/ccw/lib/compile"
	libworkspace "github.com/ccw-tools/ccw/lib/workspace"
)

// ValidateCommand returns the "validate" command.
func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Summary: "Validate a workspace config without writing the artifact",
		Description: `Validate a workspace config. Checks that the YAML (or JSONC) is
well-formed and conforms to the workspace schema: a name is present,
every group is named, file spec kinds are known, and symbol entries
are explicit files rather than patterns. Explicitly referenced files
are then checked for existence under the project root.

All issues are collected and reported in one run. Nothing is written;
use "ccw compile" to produce the artifact.`,
		Usage: "ccw validate [config]",
		Examples: []cli.Example{
			{
				Description: "Validate the workspace in the current directory",
				Command:     "ccw validate",
			},
			{
				Description: "Validate a specific config",
				Command:     "ccw validate configs/docs-only.yaml",
			},
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			return runValidate(args)
		},
	}
}

func runValidate(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: ccw validate [config]")
	}
	configPath := defaultConfigPath()
	if len(args) == 1 {
		configPath = args[0]
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return cli.NotFound("workspace config %s does not exist", configPath).
			WithHint("Run 'ccw init' to create a workspace.")
	}

	ws, err := libworkspace.Parse(configPath)
	if err != nil {
		var schemaErr *libworkspace.SchemaError
		if errors.As(err, &schemaErr) && len(schemaErr.Issues) > 0 {
			for _, issue := range schemaErr.Issues {
				fmt.Fprintf(os.Stderr, "  - %s\n", issue)
			}
			return fmt.Errorf("%s: %d validation issue(s) found", configPath, len(schemaErr.Issues))
		}
		return err
	}

	missing := compile.CheckFiles(ws, compile.DefaultBaseDir(configPath))
	if len(missing) > 0 {
		for _, issue := range missing {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
		return fmt.Errorf("%s: %d validation issue(s) found", configPath, len(missing))
	}

	fmt.Fprintf(os.Stdout, "%s: valid\n", configPath)
	return nil
}
