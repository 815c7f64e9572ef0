// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolve expands workspace file specs against a project tree.
// Explicit file specs stat a single path; pattern specs walk the tree
// and match candidates segment-wise, with "**" spanning any number of
// directories. Pattern candidates are filtered through the ignore
// policy; explicit files bypass it.
package resolve

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/ccw-tools/ccw/lib/ignore"
	"github.com/ccw-tools/ccw/lib/workspace"
)

// ExpansionError reports a failed pattern walk. The whole pattern
// yields zero matches when this happens; compilation carries on with
// the remaining specs.
type ExpansionError struct {
	Pattern string
	Err     error
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("expand pattern %q: %v", e.Pattern, e.Err)
}

func (e *ExpansionError) Unwrap() error {
	return e.Err
}

// Resolver expands file specs relative to a base directory.
type Resolver struct {
	// Base is the project root patterns are expanded against. Empty
	// means the current directory.
	Base string

	// Patterns is the effective ignore pattern set applied to
	// pattern-derived candidates (see ignore.Effective).
	Patterns []string

	// Logger receives warnings for failed pattern walks. Nil falls
	// back to slog.Default().
	Logger *slog.Logger
}

// Resolve expands one file spec into concrete files.
//
// For KindFile the spec's path is stat'd (following symlinks) and
// yields exactly one file when it names a regular, non-empty file;
// anything else yields nothing. The ignore policy is never consulted.
//
// For KindPattern the project tree is walked and every regular,
// non-empty file whose relative path matches the pattern and survives
// the ignore policy is returned, sorted by path. A walk failure is
// logged and yields zero matches for the whole spec.
func (r *Resolver) Resolve(spec workspace.FileSpec) []workspace.ResolvedFile {
	if spec.Kind == workspace.KindPattern {
		matches, err := r.Expand(spec.Path)
		if err != nil {
			r.logger().Warn("pattern expansion failed",
				"pattern", spec.Path, "error", err)
			return nil
		}
		files := make([]workspace.ResolvedFile, 0, len(matches))
		for _, match := range matches {
			files = append(files, workspace.ResolvedFile{
				Path:        match,
				Description: describe(spec.Description, match),
			})
		}
		return files
	}

	full := filepath.Join(r.base(), filepath.FromSlash(spec.Path))
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return nil
	}
	return []workspace.ResolvedFile{{
		Path:        spec.Path,
		Description: describe(spec.Description, spec.Path),
	}}
}

// Expand walks the base directory and returns the sorted relative
// paths of all regular, non-empty files that match the pattern and are
// not excluded by the resolver's ignore patterns. Dot-directories are
// pruned during the walk; symlinked directories are not descended. Any
// walk failure aborts the expansion and returns an *ExpansionError.
func (r *Resolver) Expand(pattern string) ([]string, error) {
	var matches []string
	base := r.base()
	err := filepath.WalkDir(base, func(candidate string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relative, err := filepath.Rel(base, candidate)
		if err != nil {
			return err
		}
		relative = filepath.ToSlash(relative)
		if entry.IsDir() {
			if relative != "." && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !MatchPattern(pattern, relative) {
			return nil
		}
		// Stat follows symlinks, so a link to a regular file counts.
		// A stat failure here (broken link) skips the candidate, not
		// the walk.
		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
			return nil
		}
		if ignore.Excluded(relative, r.Patterns) {
			return nil
		}
		matches = append(matches, relative)
		return nil
	})
	if err != nil {
		return nil, &ExpansionError{Pattern: pattern, Err: err}
	}
	slices.Sort(matches)
	return matches, nil
}

// MatchPattern reports whether a slash-separated relative path matches
// a glob pattern. Matching is segment-wise: within a segment, "*" and
// "?" follow path.Match and never cross a separator (so "docs/*/*.md"
// matches exactly one intermediate directory). A segment of "**"
// spans zero or more whole segments; adjacent "**" segments collapse,
// as do duplicate slashes. A malformed pattern matches nothing.
func MatchPattern(pattern, relativePath string) bool {
	return matchSegments(patternSegments(pattern), splitPath(relativePath))
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}
	if pattern[0] == "**" {
		rest := pattern[1:]
		for skip := 0; skip <= len(segments); skip++ {
			if matchSegments(rest, segments[skip:]) {
				return true
			}
		}
		return false
	}
	if len(segments) == 0 {
		return false
	}
	matched, err := path.Match(pattern[0], segments[0])
	if err != nil || !matched {
		return false
	}
	return matchSegments(pattern[1:], segments[1:])
}

// patternSegments splits a pattern on "/", dropping empty and "."
// segments and collapsing runs of "**" into one.
func patternSegments(pattern string) []string {
	var segments []string
	for _, segment := range strings.Split(pattern, "/") {
		if segment == "" || segment == "." {
			continue
		}
		if segment == "**" && len(segments) > 0 && segments[len(segments)-1] == "**" {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

func splitPath(relativePath string) []string {
	var segments []string
	for _, segment := range strings.Split(relativePath, "/") {
		if segment == "" || segment == "." {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

// describe returns the spec's description, or a title-cased form of
// the file's stem when the spec has none ("api_reference.md" becomes
// "Api Reference").
func describe(specDescription, relativePath string) string {
	if specDescription != "" {
		return specDescription
	}
	return titleStem(path.Base(relativePath))
}

func titleStem(name string) string {
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func (r *Resolver) base() string {
	if r.Base == "" {
		return "."
	}
	return r.Base
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
