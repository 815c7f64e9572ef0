// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace implements the workspace lifecycle commands:
// init, compile, compile-config, and validate.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ccw-tools/ccw/cmd/ccw/cli"
	"github.com/ccw-tools/ccw/lib/compile"
	"github.com/ccw-tools/ccw/lib/scaffold"
	"github.com/ccw-tools/ccw/lib/template"
)

// initParams holds the parameters for the init command.
type initParams struct {
	Template    string `flag:"template,t" desc:"workspace template to render (interactive picker when omitted)"`
	SkipCompile bool   `flag:"skip-compile" desc:"stop after writing the config, do not compile"`
	Force       bool   `flag:"force" desc:"overwrite an existing codecompanion.yaml"`
}

// InitCommand returns the "init" command: scaffold the .cc directory,
// render a workspace template, and compile the result.
func InitCommand() *cli.Command {
	var params initParams

	return &cli.Command{
		Name:    "init",
		Summary: "Initialize a CodeCompanion workspace",
		Description: `Initialize a CodeCompanion workspace in a project directory.

Creates the .cc/ directory with a codecompanion.yaml config rendered
from a workspace template, writes the conventions document to
.cc/data/, and compiles the config into codecompanion-workspace.json
at the project root.

When --template is omitted and the terminal is interactive, an
arrow-key picker lists the available templates. On a non-interactive
terminal the "default" template is used.`,
		Usage: "ccw init [path] [flags]",
		Examples: []cli.Example{
			{
				Description: "Initialize the current directory, choosing a template interactively",
				Command:     "ccw init",
			},
			{
				Description: "Initialize a project with the minimal template, skipping compilation",
				Command:     "ccw init ~/src/parser --template minimal --skip-compile",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("init", &params)
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			return runInit(args, &params, logger)
		},
	}
}

func runInit(args []string, params *initParams, logger *slog.Logger) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: ccw init [path]")
	}
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cli.NotFound("project path %s does not exist", root)
		}
		return err
	}
	if !info.IsDir() {
		return cli.Validation("project path %s is not a directory", root)
	}

	registry, err := template.NewRegistry()
	if err != nil {
		return err
	}

	name := params.Template
	if name == "" {
		name, err = chooseTemplate(registry)
		if err != nil {
			return err
		}
	}

	tmpl, err := registry.Get(name)
	if err != nil {
		return err
	}

	// The project name substituted into templates comes from the
	// directory name, which for "." requires the absolute path.
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	rendered, err := tmpl.Render(map[string]string{
		"project_name": filepath.Base(absRoot),
	})
	if err != nil {
		return err
	}

	layout := scaffold.Layout{Root: root}
	if err := layout.Ensure(); err != nil {
		return err
	}
	if err := layout.WriteConfig([]byte(rendered), params.Force); err != nil {
		if errors.Is(err, os.ErrExist) {
			return cli.Conflict("%s already exists", layout.ConfigPath()).
				WithHint("Pass --force to overwrite the existing config.")
		}
		return err
	}

	fmt.Printf("✨ Initialized workspace at %s\n", root)
	fmt.Printf("📁 CCW files stored in %s\n", layout.CCDir())

	if params.SkipCompile {
		return nil
	}

	result, err := compile.Compile(compile.Options{
		ConfigPath: layout.ConfigPath(),
		Logger:     logger,
	})
	if err != nil {
		return reportCompileError(layout.ConfigPath(), err)
	}
	fmt.Printf("✨ Compiled workspace config (%s)\n", result.OutputPath)
	return nil
}

// chooseTemplate picks the template to render when --template was not
// given: the interactive picker on a terminal, the default template
// everywhere else (CI, pipes, scripts).
func chooseTemplate(registry *template.Registry) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return "default", nil
	}
	return pickTemplate(registry.Templates())
}
