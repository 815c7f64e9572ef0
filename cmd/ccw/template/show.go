// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/ccw-tools/ccw/cmd/ccw/cli"
	libtemplate "github.com/ccw-tools/ccw/lib/template"
)

// showCommand returns the "show" subcommand for printing a template.
func showCommand() *cli.Command {
	var raw bool

	return &cli.Command{
		Name:    "show",
		Summary: "Print a template's content",
		Description: `Print a template's YAML content to stdout. On a color terminal the
output is syntax highlighted; use --raw (or redirect to a file) to get
the exact bytes "ccw init" renders from.`,
		Usage: "ccw template show <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Show the default template",
				Command:     "ccw template show default",
			},
			{
				Description: "Save the minimal template for hand editing",
				Command:     "ccw template show --raw minimal > .cc/codecompanion.yaml",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flagSet.BoolVar(&raw, "raw", false, "print the template without syntax highlighting")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: ccw template show <name> [flags]")
			}

			registry, err := libtemplate.NewRegistry()
			if err != nil {
				return err
			}
			tmpl, err := registry.Get(args[0])
			if err != nil {
				return err
			}

			if raw || termenv.EnvColorProfile() == termenv.Ascii {
				fmt.Fprint(os.Stdout, tmpl.Content)
				return nil
			}

			// Highlight into a buffer so a Chroma error falls back
			// to the plain text instead of partial output.
			var buffer strings.Builder
			if err := quick.Highlight(&buffer, tmpl.Content, "yaml", "terminal256", "monokai"); err != nil {
				fmt.Fprint(os.Stdout, tmpl.Content)
				return nil
			}
			fmt.Fprint(os.Stdout, buffer.String())
			return nil
		},
	}
}
