// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete ccw CLI command tree. The ccw
// binary is the only consumer, but keeping the tree in its own package
// keeps main.go down to signal wiring and exit-code handling.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ccw-tools/ccw/cmd/ccw/cli"
	docscmd "github.com/ccw-tools/ccw/cmd/ccw/docs"
	doctorcmd "github.com/ccw-tools/ccw/cmd/ccw/doctor"
	templatecmd "github.com/ccw-tools/ccw/cmd/ccw/template"
	workspacecmd "github.com/ccw-tools/ccw/cmd/ccw/workspace"
	"github.com/ccw-tools/ccw/lib/version"
)

// Root builds and returns the complete ccw CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "ccw",
		Description: `ccw: CodeCompanion workspace tool.

Scaffold a workspace, maintain its config, and compile the
codecompanion-workspace.json artifact that CodeCompanion loads.`,
		Subcommands: []*cli.Command{
			workspacecmd.InitCommand(),
			workspacecmd.CompileCommand(),
			workspacecmd.CompileConfigCommand(),
			workspacecmd.ValidateCommand(),
			doctorcmd.Command(),
			templatecmd.Command(),
			docscmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("ccw %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Initialize a workspace in the current project",
				Command:     "ccw init",
			},
			{
				Description: "Compile the workspace config into the artifact",
				Command:     "ccw compile",
			},
			{
				Description: "Validate the config without writing anything",
				Command:     "ccw validate",
			},
			{
				Description: "Check workspace health and repair what's fixable",
				Command:     "ccw doctor --fix",
			},
			{
				Description: "List the available config templates",
				Command:     "ccw template list",
			},
			{
				Description: "Merge a docs tree into one markdown file",
				Command:     "ccw docs merge docs/",
			},
		},
	}
}
