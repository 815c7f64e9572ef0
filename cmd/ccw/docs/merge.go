// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package docs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ccw-tools/ccw/cmd/ccw/cli"
	"github.com/ccw-tools/ccw/lib/docmerge"
)

// mergeParams holds the parameters for the docs merge command.
type mergeParams struct {
	Output          string   `flag:"output,o" desc:"path for the merged document" default:"complete_docs.md"`
	Include         []string `flag:"include" desc:"glob patterns for files to merge" default:"*.md"`
	Exclude         []string `flag:"exclude" desc:"glob patterns for files to drop" default:"node_modules/**,.*,assets/**"`
	BaseLevel       int      `flag:"base-level" desc:"heading level the merged document starts at" default:"1"`
	NoAdjustHeaders bool     `flag:"no-adjust-headers" desc:"keep heading levels as written"`
	NoFixLinks      bool     `flag:"no-fix-links" desc:"keep relative link destinations as written"`
	Yes             bool     `flag:"yes,y" desc:"skip the confirmation prompt"`
	DryRun          bool     `flag:"dry-run" desc:"list the files that would be merged and stop"`
}

// mergeCommand returns the "merge" subcommand for combining markdown
// files into one document.
func mergeCommand() *cli.Command {
	var params mergeParams

	return &cli.Command{
		Name:    "merge",
		Summary: "Merge markdown files into one document",
		Description: `Merge a directory's markdown files into a single document.

Files matching the --include patterns (minus --exclude matches) are
concatenated in sorted path order. Heading levels shift so each file's
top heading sits at --base-level, and relative links are rewritten to
stay valid from the merged document's location; --no-adjust-headers
and --no-fix-links switch the rewrites off.

On an interactive terminal the discovered files are listed for
confirmation before anything is written. --yes skips the prompt for
scripted use, and --dry-run prints the file list and stops.`,
		Usage: "ccw docs merge <source> [flags]",
		Examples: []cli.Example{
			{
				Description: "Merge all markdown under docs/ into complete_docs.md",
				Command:     "ccw docs merge docs --yes",
			},
			{
				Description: "Merge into a handbook with headings starting at h2",
				Command:     "ccw docs merge docs --output handbook.md --base-level 2",
			},
			{
				Description: "Merge only the guides, keeping their heading levels",
				Command:     "ccw docs merge docs --include 'guides/**/*.md' --no-adjust-headers",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("merge", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			return runMerge(args, &params)
		},
	}
}

func runMerge(args []string, params *mergeParams) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: ccw docs merge <source> [flags]")
	}
	source := args[0]

	info, err := os.Stat(source)
	if errors.Is(err, os.ErrNotExist) {
		return cli.NotFound("source directory %s does not exist", source)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return cli.Validation("source path %s is not a directory", source)
	}

	config := docmerge.Config{
		Include:       params.Include,
		Exclude:       params.Exclude,
		AdjustHeaders: !params.NoAdjustHeaders,
		FixLinks:      !params.NoFixLinks,
		BaseLevel:     params.BaseLevel,
	}

	files, err := docmerge.Discover(source, config)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return cli.NotFound("no matching files found in %s", source)
	}

	if params.DryRun {
		for _, file := range files {
			fmt.Println(file)
		}
		return nil
	}

	if !params.Yes && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Found files:")
		for _, file := range files {
			fmt.Fprintf(os.Stderr, "  - %s\n", file)
		}
		ok, err := confirm("Proceed with these files? [y/N]: ")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	merged, err := docmerge.Merge(source, files, config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(params.Output, merged, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", params.Output, err)
	}

	fmt.Printf("Successfully merged %d files to %s\n", len(files), params.Output)
	return nil
}

// confirm prints the prompt to stderr and reads one line from stdin.
// Only "y" or "yes" (any case) proceeds; anything else, including an
// empty line or EOF, declines.
func confirm(prompt string) (bool, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
