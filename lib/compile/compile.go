// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package compile turns a workspace config into the workspace artifact
// consumed by CodeCompanion. Compilation is a single linear pass:
// parse, resolve every file spec, validate that explicitly referenced
// files exist, then serialize deterministically and write atomically.
// The artifact is either written whole or left at its previous state,
// never partial.
package compile

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/ccw-tools/ccw/lib/ignore"
	"github.com/ccw-tools/ccw/lib/resolve"
	"github.com/ccw-tools/ccw/lib/workspace"
)

// ArtifactFileName is the artifact's filename at the project root.
const ArtifactFileName = "codecompanion-workspace.json"

// Options configures one compilation.
type Options struct {
	// ConfigPath is the workspace config to compile. Required.
	ConfigPath string

	// OutputPath overrides the artifact location. Empty means
	// ArtifactFileName under the base directory.
	OutputPath string

	// BaseDir is the project root that patterns and existence checks
	// run against. Empty derives it from ConfigPath: the parent of the
	// config's directory when that directory is named ".cc", else the
	// config's own directory.
	BaseDir string

	// DryRun resolves, validates, and digests without touching the
	// output file.
	DryRun bool

	// Logger receives debug and warning output. Nil falls back to
	// slog.Default().
	Logger *slog.Logger
}

// Result describes a completed compilation.
type Result struct {
	// OutputPath is where the artifact was (or would be) written.
	OutputPath string `json:"output_path"`

	// Digest is the hex BLAKE3 digest of the artifact bytes.
	Digest string `json:"digest"`

	// FileCount is the total number of resolved files and symbols
	// across all groups.
	FileCount int `json:"file_count"`

	// Unchanged is true when the existing artifact already has
	// identical content and no write happened.
	Unchanged bool `json:"unchanged"`
}

// ValidationError reports explicitly referenced files that do not
// exist under the base directory. Every miss is collected before
// failing, so one run surfaces the full list.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Missing, "; ")
}

// Artifact is the compiled workspace: the config's shape with every
// file spec replaced by its resolved files and the ignore section
// dropped. Field order is the wire order.
type Artifact struct {
	Name          string  `json:"name"`
	Version       string  `json:"version"`
	WorkspaceSpec string  `json:"workspace_spec"`
	Description   string  `json:"description,omitempty"`
	SystemPrompt  string  `json:"system_prompt,omitempty"`
	Groups        []Group `json:"groups"`
}

// Group is one resolved group in the artifact.
type Group struct {
	Name         string                   `json:"name"`
	Description  string                   `json:"description,omitempty"`
	SystemPrompt string                   `json:"system_prompt,omitempty"`
	Files        []workspace.ResolvedFile `json:"files"`
	Symbols      []workspace.ResolvedFile `json:"symbols"`
}

// Compile runs the full pipeline for one workspace config. Parse and
// shape failures surface as *workspace.SchemaError, missing referenced
// files as *ValidationError, and I/O problems as plain wrapped errors.
// Recompiling with an unchanged config and filesystem is a no-op that
// reports Unchanged.
func Compile(options Options) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ws, err := workspace.Parse(options.ConfigPath)
	if err != nil {
		return nil, err
	}

	baseDir := options.BaseDir
	if baseDir == "" {
		baseDir = DefaultBaseDir(options.ConfigPath)
	}

	artifact, fileCount := buildArtifact(ws, baseDir, logger)

	if missing := CheckFiles(ws, baseDir); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	data, err := marshalArtifact(artifact)
	if err != nil {
		return nil, err
	}

	outputPath := options.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(baseDir, ArtifactFileName)
	}

	result := &Result{
		OutputPath: outputPath,
		Digest:     Digest(data),
		FileCount:  fileCount,
	}

	// Identical content means the artifact on disk is already current;
	// skipping the write keeps its mtime stable for downstream tools.
	if existing, err := os.ReadFile(outputPath); err == nil && bytes.Equal(existing, data) {
		result.Unchanged = true
	}

	if options.DryRun || result.Unchanged {
		logger.Debug("compiled workspace",
			"output", outputPath, "files", fileCount,
			"unchanged", result.Unchanged, "dry_run", options.DryRun)
		return result, nil
	}

	if err := writeArtifact(outputPath, data); err != nil {
		return nil, err
	}
	logger.Debug("wrote workspace artifact",
		"output", outputPath, "files", fileCount, "digest", result.Digest)
	return result, nil
}

// DefaultBaseDir derives the project root from a config path: the
// parent of the config's directory when that directory is named ".cc"
// (the scaffolded layout), else the config's own directory.
func DefaultBaseDir(configPath string) string {
	dir := filepath.Dir(configPath)
	if filepath.Base(dir) == ".cc" {
		return filepath.Dir(dir)
	}
	return dir
}

// CheckFiles returns the existence violations for a workspace: every
// symbol entry and every literal (wildcard-free) KindFile entry in
// files must name an existing path under baseDir. Messages are in
// config encounter order. An empty result means the workspace passes.
func CheckFiles(ws *workspace.Workspace, baseDir string) []string {
	var missing []string
	for _, group := range ws.Groups {
		for _, spec := range group.Files {
			if spec.Kind != workspace.KindFile || hasWildcard(spec.Path) {
				continue
			}
			if !pathExists(baseDir, spec.Path) {
				missing = append(missing, "File not found: "+spec.Path)
			}
		}
		for _, spec := range group.Symbols {
			if hasWildcard(spec.Path) {
				continue
			}
			if !pathExists(baseDir, spec.Path) {
				missing = append(missing, "Symbol file not found: "+spec.Path)
			}
		}
	}
	return missing
}

// Digest returns the hex BLAKE3 digest of artifact bytes.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func buildArtifact(ws *workspace.Workspace, baseDir string, logger *slog.Logger) (*Artifact, int) {
	resolver := &resolve.Resolver{
		Base:     baseDir,
		Patterns: ignore.Effective(ws.IgnoreConfig()),
		Logger:   logger,
	}

	fileCount := 0
	groups := make([]Group, 0, len(ws.Groups))
	for _, group := range ws.Groups {
		files := make([]workspace.ResolvedFile, 0, len(group.Files))
		for _, spec := range group.Files {
			files = append(files, resolver.Resolve(spec)...)
		}
		symbols := make([]workspace.ResolvedFile, 0, len(group.Symbols))
		for _, spec := range group.Symbols {
			symbols = append(symbols, resolver.Resolve(spec)...)
		}
		fileCount += len(files) + len(symbols)
		groups = append(groups, Group{
			Name:         group.Name,
			Description:  group.Description,
			SystemPrompt: group.SystemPrompt,
			Files:        files,
			Symbols:      symbols,
		})
	}

	return &Artifact{
		Name:          ws.Name,
		Version:       ws.Version,
		WorkspaceSpec: ws.WorkspaceSpec,
		Description:   ws.Description,
		SystemPrompt:  ws.SystemPrompt,
		Groups:        groups,
	}, fileCount
}

func marshalArtifact(artifact *Artifact) ([]byte, error) {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling workspace artifact: %w", err)
	}
	return append(data, '\n'), nil
}

// writeArtifact writes the artifact atomically: temp file in the same
// directory, write, sync, close, rename. Readers never see a partial
// artifact.
func writeArtifact(path string, data []byte) error {
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating temporary artifact file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary artifact file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary artifact file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary artifact file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming artifact into place: %w", err)
	}
	return nil
}

func hasWildcard(path string) bool {
	return strings.ContainsAny(path, "*?[")
}

func pathExists(baseDir, relativePath string) bool {
	_, err := os.Stat(filepath.Join(baseDir, filepath.FromSlash(relativePath)))
	return err == nil
}
