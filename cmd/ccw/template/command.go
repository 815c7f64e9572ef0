// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package template implements the ccw template subcommands for
// inspecting the workspace config templates that "ccw init" scaffolds
// from. Templates are YAML workspace configs with ${name} and
// ${name:-fallback} placeholders; the built-in set is embedded in the
// ccw binary, so the same binary always scaffolds the same configs.
package template

import (
	"github.com/ccw-tools/ccw/cmd/ccw/cli"
)

// Command returns the "template" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "template",
		Summary: "Inspect workspace config templates",
		Description: `Inspect the workspace config templates available to "ccw init".

A template is a YAML workspace config with ${name} placeholders.
"ccw init" renders one with project_name set to the workspace
directory name and writes the result to .cc/codecompanion.yaml.

Use "list" to see what is available and "show" to print a template's
content. Templates print with their placeholders intact; substitution
happens only when init scaffolds a workspace.`,
		Subcommands: []*cli.Command{
			listCommand(),
			showCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List the available templates",
				Command:     "ccw template list",
			},
			{
				Description: "Show the default template with syntax highlighting",
				Command:     "ccw template show default",
			},
			{
				Description: "Save a template as a starting point for hand editing",
				Command:     "ccw template show --raw minimal > .cc/codecompanion.yaml",
			},
		},
	}
}
