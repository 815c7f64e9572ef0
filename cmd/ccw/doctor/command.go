// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor implements the ccw doctor command: a series of health
// checks over a workspace (layout, config, referenced files, artifact
// freshness) with optional automatic repair.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ccw-tools/ccw/cmd/ccw/cli"
	"github.com/ccw-tools/ccw/cmd/ccw/cli/doctor"
	"github.com/ccw-tools/ccw/lib/compile"
	"github.com/ccw-tools/ccw/lib/scaffold"
	libworkspace "github.com/ccw-tools/ccw/lib/workspace"
)

// doctorParams holds the parameters for the doctor command.
type doctorParams struct {
	cli.JSONOutput
	Fix    bool `flag:"fix" desc:"automatically repair fixable issues"`
	DryRun bool `flag:"dry-run" desc:"preview repairs without executing (requires --fix)"`
}

// Command returns the "doctor" command for diagnosing workspace health.
func Command() *cli.Command {
	var params doctorParams

	return &cli.Command{
		Name:    "doctor",
		Summary: "Check workspace health",
		Description: `Check the health of a CodeCompanion workspace: the .cc directory
layout, the workspace config, the files it references, and whether the
compiled artifact is up to date with the config.

Fixable issues (missing layout pieces, missing or stale artifact) can
be repaired with --fix; add --dry-run to preview the repairs without
making changes. Zero-length symbol files are reported as warnings
since compilation drops them.

Exits 1 when any check fails. Use --json for machine-readable output
suitable for CI.`,
		Usage: "ccw doctor [path] [flags]",
		Examples: []cli.Example{
			{
				Description: "Check the workspace in the current directory",
				Command:     "ccw doctor",
			},
			{
				Description: "Repair a stale artifact",
				Command:     "ccw doctor --fix",
			},
			{
				Description: "Preview repairs without executing them",
				Command:     "ccw doctor --fix --dry-run",
			},
			{
				Description: "Machine-readable check of another project",
				Command:     "ccw doctor ~/src/parser --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("doctor", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return fmt.Errorf("usage: ccw doctor [path]")
			}
			if params.DryRun && !params.Fix {
				return cli.Validation("--dry-run requires --fix")
			}
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runDoctor(ctx, root, &params, logger)
		},
	}
}

// checkState accumulates discovered state across checks so later
// checks can use results from earlier ones without repeating work.
type checkState struct {
	// layout locates the .cc directory under the project root.
	layout scaffold.Layout

	// baseDir is the directory file specs resolve against.
	baseDir string

	// layoutOK is true when the .cc directory exists.
	layoutOK bool

	// workspace is set when the config parses cleanly.
	workspace *libworkspace.Workspace

	// filesOK is true when every explicitly referenced file exists.
	filesOK bool

	// logger receives the compile library's debug output during
	// artifact checks.
	logger *slog.Logger
}

func runDoctor(ctx context.Context, root string, params *doctorParams, logger *slog.Logger) error {
	const maxFixIterations = 3
	repairedNames := make(map[string]bool)
	var aggregateOutcome doctor.Outcome
	var results []doctor.Result

	for range maxFixIterations {
		results = checkWorkspace(root, logger)

		if !params.Fix {
			break
		}

		for _, result := range results {
			if result.Status == doctor.StatusFail {
				repairedNames[result.Name] = true
			}
		}

		outcome := doctor.ExecuteFixes(ctx, results, params.DryRun)
		if outcome.PermissionDenied {
			aggregateOutcome.PermissionDenied = true
		}
		if outcome.FixedCount == 0 || params.DryRun {
			break
		}
	}

	doctor.MarkRepaired(results, repairedNames)

	if done, err := params.EmitJSON(doctor.BuildJSON(results, params.DryRun, aggregateOutcome)); done {
		if err != nil {
			return err
		}
		for _, result := range results {
			if result.Status == doctor.StatusFail {
				return &cli.ExitError{Code: 1}
			}
		}
		return nil
	}

	return doctor.PrintChecklist(results, params.Fix, params.DryRun, aggregateOutcome)
}

// checkWorkspace runs all health checks against the project root and
// returns their results in report order.
func checkWorkspace(root string, logger *slog.Logger) []doctor.Result {
	state := checkState{
		layout: scaffold.Layout{Root: root},
		logger: logger,
	}
	state.baseDir = compile.DefaultBaseDir(state.layout.ConfigPath())

	var results []doctor.Result
	results = append(results, checkLayout(&state)...)
	results = append(results, checkConfig(&state)...)
	results = append(results, checkReferencedFiles(&state)...)
	results = append(results, checkSymbolFiles(&state)...)
	results = append(results, checkArtifact(&state)...)
	return results
}

// --- Section 1: Workspace layout ---

func checkLayout(state *checkState) []doctor.Result {
	var results []doctor.Result

	ccDir := state.layout.CCDir()
	info, err := os.Stat(ccDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		results = append(results, doctor.FailWithFix(".cc directory",
			fmt.Sprintf("%s does not exist", ccDir),
			"create the .cc directory layout",
			fixLayout(state.layout)))
	case err != nil:
		results = append(results, doctor.Fail(".cc directory",
			fmt.Sprintf("cannot stat %s: %v", ccDir, err)))
	case !info.IsDir():
		results = append(results, doctor.Fail(".cc directory",
			fmt.Sprintf("%s is not a directory", ccDir)))
	default:
		state.layoutOK = true
		results = append(results, doctor.Pass(".cc directory", ccDir))
	}

	if !state.layoutOK {
		results = append(results, doctor.Skip("conventions document", "skipped: no .cc directory"))
		return results
	}

	conventionsPath := state.layout.ConventionsPath()
	if _, err := os.Stat(conventionsPath); errors.Is(err, os.ErrNotExist) {
		results = append(results, doctor.FailWithFix("conventions document",
			fmt.Sprintf("%s does not exist", conventionsPath),
			"write the conventions document",
			fixLayout(state.layout)))
	} else if err != nil {
		results = append(results, doctor.Fail("conventions document",
			fmt.Sprintf("cannot stat %s: %v", conventionsPath, err)))
	} else {
		results = append(results, doctor.Pass("conventions document", conventionsPath))
	}

	return results
}

// fixLayout returns a fix that recreates the missing pieces of the
// .cc directory layout. Ensure is idempotent, so one action serves
// both the directory and conventions checks.
func fixLayout(layout scaffold.Layout) doctor.FixAction {
	return func(_ context.Context) error {
		return layout.Ensure()
	}
}

// --- Section 2: Workspace config ---

func checkConfig(state *checkState) []doctor.Result {
	if !state.layoutOK {
		return []doctor.Result{doctor.Skip("workspace config", "skipped: no .cc directory")}
	}

	configPath := state.layout.ConfigPath()
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return []doctor.Result{doctor.Fail("workspace config",
			fmt.Sprintf("%s does not exist (run \"ccw init\" to scaffold the workspace)", configPath))}
	}

	ws, err := libworkspace.Parse(configPath)
	if err != nil {
		var schemaErr *libworkspace.SchemaError
		if errors.As(err, &schemaErr) && len(schemaErr.Issues) > 0 {
			return []doctor.Result{doctor.Fail("workspace config",
				fmt.Sprintf("%d validation issue(s) (run \"ccw validate\" for the list)", len(schemaErr.Issues)))}
		}
		return []doctor.Result{doctor.Fail("workspace config",
			fmt.Sprintf("cannot parse %s: %v", configPath, err))}
	}

	state.workspace = ws
	return []doctor.Result{doctor.Pass("workspace config",
		fmt.Sprintf("%s (%d group(s))", configPath, len(ws.Groups)))}
}

// --- Section 3: Referenced files ---

func checkReferencedFiles(state *checkState) []doctor.Result {
	if state.workspace == nil {
		return []doctor.Result{doctor.Skip("referenced files", "skipped: config not loaded")}
	}

	missing := compile.CheckFiles(state.workspace, state.baseDir)
	if len(missing) > 0 {
		return []doctor.Result{doctor.Fail("referenced files",
			fmt.Sprintf("%d missing file(s) (run \"ccw validate\" for the list)", len(missing)))}
	}

	state.filesOK = true
	return []doctor.Result{doctor.Pass("referenced files", "all explicitly referenced files exist")}
}

// --- Section 4: Symbol files ---

func checkSymbolFiles(state *checkState) []doctor.Result {
	if state.workspace == nil {
		return []doctor.Result{doctor.Skip("symbol files", "skipped: config not loaded")}
	}

	var empty []string
	total := 0
	for _, group := range state.workspace.Groups {
		for _, symbol := range group.Symbols {
			total++
			info, err := os.Stat(filepath.Join(state.baseDir, filepath.FromSlash(symbol.Path)))
			if err != nil || info.IsDir() {
				// Missing symbol files are the referenced-files
				// check's finding, not a hygiene warning.
				continue
			}
			if info.Size() == 0 {
				empty = append(empty, symbol.Path)
			}
		}
	}

	if total == 0 {
		return []doctor.Result{doctor.Pass("symbol files", "no symbol entries")}
	}
	if len(empty) > 0 {
		return []doctor.Result{doctor.Warn("symbol files",
			fmt.Sprintf("%d zero-length symbol file(s) dropped at compile: %s",
				len(empty), strings.Join(empty, ", ")))}
	}
	return []doctor.Result{doctor.Pass("symbol files",
		fmt.Sprintf("%d symbol file(s) non-empty", total))}
}

// --- Section 5: Artifact ---

func checkArtifact(state *checkState) []doctor.Result {
	if state.workspace == nil {
		return []doctor.Result{doctor.Skip("artifact", "skipped: config not loaded")}
	}
	if !state.filesOK {
		return []doctor.Result{doctor.Skip("artifact", "skipped: config references missing files")}
	}

	// Digest what the config would compile to right now.
	dry, err := compile.Compile(compile.Options{
		ConfigPath: state.layout.ConfigPath(),
		DryRun:     true,
		Logger:     state.logger,
	})
	if err != nil {
		return []doctor.Result{doctor.Fail("artifact",
			fmt.Sprintf("cannot compile config: %v", err))}
	}

	artifactPath := dry.OutputPath
	data, err := os.ReadFile(artifactPath)
	if errors.Is(err, os.ErrNotExist) {
		return []doctor.Result{doctor.FailWithFix("artifact",
			fmt.Sprintf("%s does not exist", artifactPath),
			"compile the workspace config",
			fixCompile(state))}
	}
	if err != nil {
		return []doctor.Result{doctor.Fail("artifact",
			fmt.Sprintf("cannot read %s: %v", artifactPath, err))}
	}

	if compile.Digest(data) != dry.Digest {
		return []doctor.Result{doctor.FailWithFix("artifact",
			"stale: config changed since the last compile",
			"recompile the workspace config",
			fixCompile(state))}
	}

	return []doctor.Result{doctor.Pass("artifact",
		fmt.Sprintf("%s up to date (%d file(s))", artifactPath, dry.FileCount))}
}

// fixCompile returns a fix that compiles the workspace config.
func fixCompile(state *checkState) doctor.FixAction {
	configPath := state.layout.ConfigPath()
	logger := state.logger
	return func(_ context.Context) error {
		_, err := compile.Compile(compile.Options{ConfigPath: configPath, Logger: logger})
		return err
	}
}
