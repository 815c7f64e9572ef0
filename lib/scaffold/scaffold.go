// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package scaffold creates and describes the on-disk workspace layout:
// the .cc directory with its config and data files, and the artifact
// at the project root. All path conventions live here.
package scaffold

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccw-tools/ccw/lib/compile"
)

// Workspace layout names.
const (
	CCDirName           = ".cc"
	DataDirName         = "data"
	ConfigFileName      = "codecompanion.yaml"
	ConventionsFileName = "CONVENTIONS.md"
)

//go:embed data/CONVENTIONS.md
var conventionsContent []byte

// Layout resolves the workspace paths for a project root.
type Layout struct {
	Root string
}

// CCDir is the workspace directory, <root>/.cc.
func (l Layout) CCDir() string {
	return filepath.Join(l.Root, CCDirName)
}

// DataDir is the supplementary data directory, <root>/.cc/data.
func (l Layout) DataDir() string {
	return filepath.Join(l.CCDir(), DataDirName)
}

// ConfigPath is the workspace config, <root>/.cc/codecompanion.yaml.
func (l Layout) ConfigPath() string {
	return filepath.Join(l.CCDir(), ConfigFileName)
}

// ConventionsPath is the conventions document under the data dir.
func (l Layout) ConventionsPath() string {
	return filepath.Join(l.DataDir(), ConventionsFileName)
}

// ArtifactPath is the compiled artifact at the project root.
func (l Layout) ArtifactPath() string {
	return filepath.Join(l.Root, compile.ArtifactFileName)
}

// Ensure creates the .cc directory structure and seeds the conventions
// document. Idempotent: existing directories are fine and an existing
// conventions file is never overwritten, so local edits survive
// re-initialization.
func (l Layout) Ensure() error {
	if err := os.MkdirAll(l.DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating workspace directories: %w", err)
	}
	path := l.ConventionsPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, conventionsContent, 0o644); err != nil {
		return fmt.Errorf("writing conventions document: %w", err)
	}
	return nil
}

// WriteConfig writes the workspace config. An existing config is only
// replaced when force is set; the refusal wraps os.ErrExist so callers
// can offer their override flag.
func (l Layout) WriteConfig(content []byte, force bool) error {
	path := l.ConfigPath()
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("workspace config already exists at %s: %w", path, os.ErrExist)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing workspace config: %w", err)
	}
	return nil
}
