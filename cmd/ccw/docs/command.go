// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package docs implements the ccw docs subcommands for working with a
// project's markdown documentation.
package docs

import (
	"github.com/ccw-tools/ccw/cmd/ccw/cli"
)

// Command returns the "docs" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "docs",
		Summary: "Work with project documentation",
		Description: `Work with a project's markdown documentation.

"merge" combines a directory of markdown files into a single document,
shifting heading levels and rewriting relative links so the result
reads as one coherent file.`,
		Subcommands: []*cli.Command{
			mergeCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Merge the docs/ tree into complete_docs.md",
				Command:     "ccw docs merge docs --yes",
			},
			{
				Description: "Preview which files a merge would include",
				Command:     "ccw docs merge docs --dry-run",
			},
		},
	}
}
