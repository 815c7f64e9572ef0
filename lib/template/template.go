// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package template provides workspace config templates. Built-in
// templates are embedded at compile time via go:embed; a Registry can
// overlay additional template directories on top of them, with later
// directories winning on name collisions.
//
// A template is raw YAML text with ${name} and ${name:-fallback}
// placeholders. Rendering substitutes variables and returns the config
// text; parsing and validation stay with lib/workspace.
package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

//go:embed templates/*.yaml
var builtinFiles embed.FS

// Template is one named workspace config template.
type Template struct {
	// Name identifies the template, derived from the filename without
	// extension.
	Name string

	// Description is the first leading "# " comment line of the file,
	// empty when the file has none.
	Description string

	// Content is the raw template text.
	Content string
}

var variablePattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// Render substitutes ${name} and ${name:-fallback} placeholders and
// returns the config text. A provided variable wins over a fallback;
// a placeholder with neither is an error naming every unset variable.
func (t Template) Render(vars map[string]string) (string, error) {
	var missing []string
	rendered := variablePattern.ReplaceAllStringFunc(t.Content, func(match string) string {
		parts := variablePattern.FindStringSubmatch(match)
		name := parts[1]
		if value, ok := vars[name]; ok {
			return value
		}
		if strings.Contains(match, ":-") {
			return parts[2]
		}
		if !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
		return match
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("unset template variables: %s", strings.Join(missing, ", "))
	}
	return rendered, nil
}

// Registry holds the available templates by name.
type Registry struct {
	templates map[string]Template
}

// NewRegistry loads the built-in templates and overlays *.yaml and
// *.yml files from each extra directory, in order. A directory that
// does not exist is skipped; a later directory's template replaces an
// earlier one with the same name.
func NewRegistry(extraDirs ...string) (*Registry, error) {
	registry := &Registry{templates: map[string]Template{}}

	entries, err := builtinFiles.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("reading embedded templates: %w", err)
	}
	for _, entry := range entries {
		data, err := builtinFiles.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded template %s: %w", entry.Name(), err)
		}
		registry.add(entry.Name(), data)
	}

	for _, dir := range extraDirs {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading template directory %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := filepath.Ext(entry.Name())
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("reading template %s: %w",
					filepath.Join(dir, entry.Name()), err)
			}
			registry.add(entry.Name(), data)
		}
	}

	return registry, nil
}

// Get returns the named template. The error for an unknown name lists
// what is available.
func (r *Registry) Get(name string) (Template, error) {
	template, ok := r.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("template %q not found (available: %s)",
			name, strings.Join(r.Names(), ", "))
	}
	return template, nil
}

// Names returns the available template names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.templates))
}

// Templates returns all templates, sorted by name.
func (r *Registry) Templates() []Template {
	templates := make([]Template, 0, len(r.templates))
	for _, name := range r.Names() {
		templates = append(templates, r.templates[name])
	}
	return templates
}

func (r *Registry) add(filename string, data []byte) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	r.templates[name] = Template{
		Name:        name,
		Description: description(data),
		Content:     string(data),
	}
}

// description extracts the first "# " comment line of the leading
// comment block.
func description(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, "#"); ok {
			return strings.TrimSpace(rest)
		}
		break
	}
	return ""
}
