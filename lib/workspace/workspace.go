// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace defines the workspace configuration model and its
// parser. A workspace config names the project, declares file groups,
// and optionally tunes the ignore policy; it is authored in YAML (or
// JSON/JSONC) and compiled into the workspace artifact by lib/compile.
package workspace

import (
	"github.com/ccw-tools/ccw/lib/ignore"
)

// Kind distinguishes how a file spec's path is interpreted.
type Kind string

const (
	// KindFile names one file explicitly. The path must not be a
	// glob; ignore rules never apply to it.
	KindFile Kind = "file"

	// KindPattern is a glob expanded against the project tree, with
	// the ignore policy applied to every candidate.
	KindPattern Kind = "pattern"
)

// FileSpec is one entry in a group's files or symbols list. A missing
// kind in the wire form means KindFile.
type FileSpec struct {
	Path        string `yaml:"path" json:"path"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Kind        Kind   `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// ResolvedFile is one concrete file produced by resolving a FileSpec.
// Field order is the artifact wire order.
type ResolvedFile struct {
	Description string `json:"description,omitempty"`
	Path        string `json:"path"`
}

// Group is a named collection of file specs. Symbols carry the same
// shape as files but must stay KindFile; shape validation enforces
// that.
type Group struct {
	Name         string     `yaml:"name" json:"name"`
	Description  string     `yaml:"description,omitempty" json:"description,omitempty"`
	SystemPrompt string     `yaml:"system_prompt,omitempty" json:"system_prompt,omitempty"`
	Files        []FileSpec `yaml:"files,omitempty" json:"files,omitempty"`
	Symbols      []FileSpec `yaml:"symbols,omitempty" json:"symbols,omitempty"`
}

// Workspace is a parsed workspace configuration.
type Workspace struct {
	Name          string         `yaml:"name" json:"name"`
	Version       string         `yaml:"version,omitempty" json:"version,omitempty"`
	WorkspaceSpec string         `yaml:"workspace_spec,omitempty" json:"workspace_spec,omitempty"`
	Description   string         `yaml:"description,omitempty" json:"description,omitempty"`
	SystemPrompt  string         `yaml:"system_prompt,omitempty" json:"system_prompt,omitempty"`
	Groups        []Group        `yaml:"groups,omitempty" json:"groups,omitempty"`
	Ignore        *ignore.Config `yaml:"ignore,omitempty" json:"ignore,omitempty"`
}

// IgnoreConfig returns the workspace's ignore configuration, falling
// back to the built-in defaults when the config has no ignore section.
func (w *Workspace) IgnoreConfig() ignore.Config {
	if w.Ignore == nil {
		return ignore.Default()
	}
	return *w.Ignore
}

// applyDefaults fills the wire-format defaults after decoding.
func (w *Workspace) applyDefaults() {
	if w.Version == "" {
		w.Version = "0.1.0"
	}
	if w.WorkspaceSpec == "" {
		w.WorkspaceSpec = "1.0"
	}
	for g := range w.Groups {
		group := &w.Groups[g]
		for f := range group.Files {
			if group.Files[f].Kind == "" {
				group.Files[f].Kind = KindFile
			}
		}
		for s := range group.Symbols {
			if group.Symbols[s].Kind == "" {
				group.Symbols[s].Kind = KindFile
			}
		}
	}
}
