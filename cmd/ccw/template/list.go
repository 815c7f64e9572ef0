// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ccw-tools/ccw/cmd/ccw/cli"
	libtemplate "github.com/ccw-tools/ccw/lib/template"
)

// listParams holds the parameters for the template list command.
type listParams struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON instead of a table"`
}

// listCommand returns the "list" subcommand for listing the available
// templates.
func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List the available templates",
		Description: `List the workspace config templates that "ccw init --template" accepts.
Shows each template's name and description (the first comment line of
the template file).`,
		Usage: "ccw template list [flags]",
		Examples: []cli.Example{
			{
				Description: "List templates as a table",
				Command:     "ccw template list",
			},
			{
				Description: "List templates as JSON",
				Command:     "ccw template list --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 0 {
				return fmt.Errorf("usage: ccw template list [flags]")
			}

			registry, err := libtemplate.NewRegistry()
			if err != nil {
				return err
			}

			type templateEntry struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			}

			templates := registry.Templates()
			entries := make([]templateEntry, 0, len(templates))
			for _, tmpl := range templates {
				entries = append(entries, templateEntry{
					Name:        tmpl.Name,
					Description: tmpl.Description,
				})
			}

			if params.OutputJSON {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal JSON: %w", err)
				}
				fmt.Fprintln(os.Stdout, string(data))
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "NAME\tDESCRIPTION\n")
			for _, entry := range entries {
				fmt.Fprintf(writer, "%s\t%s\n", entry.Name, entry.Description)
			}
			return writer.Flush()
		},
	}
}
