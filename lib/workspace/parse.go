// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// SchemaError reports an unparsable or structurally invalid workspace
// config. A decode failure sets Err; shape violations are collected in
// Issues, each prefixed with its position in the config (for example
// "groups[2].files[0]: ..."). Validation does not stop at the first
// problem, so one run surfaces everything that needs fixing.
type SchemaError struct {
	Path   string
	Issues []string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("workspace config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("workspace config %s: %s", e.Path, strings.Join(e.Issues, "; "))
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Parse reads and parses a workspace config file. The format follows
// the file extension: ".json" and ".jsonc" are decoded as JSON with
// comments and trailing commas allowed, anything else as YAML. Decode
// and shape failures return a *SchemaError; a read failure returns a
// plain wrapped error.
func Parse(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workspace config: %w", err)
	}
	return ParseBytes(path, data)
}

// ParseBytes parses raw config text. The path selects the format by
// extension and names the source in errors; it is not read.
func ParseBytes(path string, data []byte) (*Workspace, error) {
	var ws Workspace
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &ws); err != nil {
			return nil, &SchemaError{Path: path, Err: err}
		}
	default:
		if err := yaml.Unmarshal(data, &ws); err != nil {
			return nil, &SchemaError{Path: path, Err: err}
		}
	}
	ws.applyDefaults()
	if issues := ws.validate(); len(issues) > 0 {
		return nil, &SchemaError{Path: path, Issues: issues}
	}
	return &ws, nil
}

// validate collects every shape violation in the workspace.
func (w *Workspace) validate() []string {
	var issues []string
	if w.Name == "" {
		issues = append(issues, "name is required")
	}
	for g, group := range w.Groups {
		if group.Name == "" {
			issues = append(issues, fmt.Sprintf("groups[%d]: name is required", g))
		}
		for f, spec := range group.Files {
			issues = appendSpecIssues(issues,
				fmt.Sprintf("groups[%d].files[%d]", g, f), spec, false)
		}
		for s, spec := range group.Symbols {
			issues = appendSpecIssues(issues,
				fmt.Sprintf("groups[%d].symbols[%d]", g, s), spec, true)
		}
	}
	return issues
}

func appendSpecIssues(issues []string, position string, spec FileSpec, symbol bool) []string {
	if spec.Path == "" {
		issues = append(issues, position+": path is required")
	}
	switch spec.Kind {
	case KindFile:
	case KindPattern:
		if symbol {
			issues = append(issues, position+": symbols must be files, not patterns")
		}
	default:
		issues = append(issues,
			fmt.Sprintf("%s: unknown kind %q (want %q or %q)",
				position, spec.Kind, KindFile, KindPattern))
	}
	return issues
}
