// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package ignore decides which files a workspace pattern may not pull
// in. It holds the built-in ignore categories, computes the effective
// pattern set for a workspace's ignore configuration, and answers
// whether a candidate relative path is excluded.
//
// Exclusion applies only to pattern-derived candidates. Files listed
// explicitly in a workspace config bypass this package entirely; the
// path resolver never consults it for them.
package ignore

import (
	"encoding/json"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config is the ignore section of a workspace config. The YAML keys
// match the on-disk format: "patterns" holds per-category replacement
// lists (Overrides in Go, because a replacement list replaces that
// category's built-in defaults outright, never merging with them).
type Config struct {
	// Enabled turns category and additional pattern matching on or
	// off. Dot-path exclusion is independent of this flag. An absent
	// key in the wire form means enabled.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Categories names the active categories. Each may be a built-in
	// category name or a key of Overrides. An unknown name with no
	// override contributes nothing. A nil slice (absent key) activates
	// every built-in category; an explicit empty list activates none.
	Categories []string `yaml:"categories" json:"categories,omitempty"`

	// Overrides maps a category name to a replacement pattern list.
	// When present for an active category, the built-in defaults for
	// that category are not used at all.
	Overrides map[string][]string `yaml:"patterns" json:"patterns,omitempty"`

	// Additional patterns are appended to the effective set regardless
	// of which categories are active (but only while Enabled).
	Additional []string `yaml:"additional" json:"additional,omitempty"`
}

// UnmarshalYAML decodes a Config with Enabled defaulting to true, so
// an ignore section that only overrides patterns stays active.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	decoded := plain{Enabled: true}
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*c = Config(decoded)
	return nil
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON and JSONC configs.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	decoded := plain{Enabled: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = Config(decoded)
	return nil
}

// Built-in category tables. These are constants in spirit: Effective
// copies patterns out of them and never hands the slices to callers,
// so per-run configuration cannot alias or mutate the defaults.
var (
	categoryOrder = []string{
		"dependencies",
		"ide",
		"temp",
		"packages",
		"workspace",
		"locks",
	}

	categoryPatterns = map[string][]string{
		"dependencies": {
			"node_modules/", "venv/", "__pycache__/", "*.pyc",
			"target/", "dist/", "build/", "coverage/", "htmlcov/",
		},
		"ide": {
			"*.swp", "*.swo", "*.sublime-project", "*.sublime-workspace",
			".DS_Store", ".idea/", ".vscode/",
		},
		"temp": {
			"*.log", "tmp/", "temp/", "*.tmp", "*.bak", "*~",
		},
		"packages": {
			"*.egg-info/", "*.whl", "*.tar.gz", "*.zip",
		},
		"workspace": {
			".cc/", ".git/", ".hg/", ".svn/",
		},
		"locks": {
			"uv.lock", "poetry.lock", "package-lock.json", "yarn.lock",
			"pnpm-lock.yaml", "Cargo.lock", "go.sum", "Gemfile.lock",
			"composer.lock",
		},
	}
)

// CategoryNames returns the built-in category names in table order.
// The returned slice is a fresh copy.
func CategoryNames() []string {
	names := make([]string, len(categoryOrder))
	copy(names, categoryOrder)
	return names
}

// CategoryPatterns returns the built-in default patterns for a
// category, or false if the category is unknown. The returned slice
// is a fresh copy.
func CategoryPatterns(category string) ([]string, bool) {
	patterns, ok := categoryPatterns[category]
	if !ok {
		return nil, false
	}
	result := make([]string, len(patterns))
	copy(result, patterns)
	return result, true
}

// Default returns the ignore configuration used when a workspace
// config has no ignore section: enabled, all built-in categories
// active, no overrides, no additional patterns.
func Default() Config {
	return Config{
		Enabled:    true,
		Categories: CategoryNames(),
	}
}

// Effective computes the active pattern set for a configuration:
// empty when disabled; otherwise, for each active category, the
// override list if present else the category's built-in defaults,
// followed by the additional patterns. Order is stable (category
// declaration order, then additional), so downstream output stays
// deterministic.
func Effective(config Config) []string {
	if !config.Enabled {
		return nil
	}
	categories := config.Categories
	if categories == nil {
		categories = categoryOrder
	}
	var patterns []string
	for _, category := range categories {
		if override, ok := config.Overrides[category]; ok {
			patterns = append(patterns, override...)
			continue
		}
		patterns = append(patterns, categoryPatterns[category]...)
	}
	return append(patterns, config.Additional...)
}

// Excluded reports whether a pattern-derived candidate path is
// excluded under the given effective pattern set.
//
// The path is normalized (leading "./" stripped, duplicate slashes
// collapsed) and checked in two stages:
//
//  1. Any path segment starting with "." excludes the path. This rule
//     is absolute: it holds even with an empty pattern set and cannot
//     be disabled by configuration. Only listing a file explicitly in
//     the workspace config bypasses it.
//  2. Otherwise the path is excluded if any pattern matches. Patterns
//     containing a wildcard use loose glob matching against the full
//     relative path (see [Match]); patterns without a wildcard match
//     as plain substrings. The substring rule is how fixed names like
//     "uv.lock" match at any depth, and it can over-match: a directory
//     named "myuv.lock-backup" is caught too. Existing configs rely on
//     the loose form, so it is not tightened to suffix matching.
func Excluded(relativePath string, patterns []string) bool {
	normalized := normalizePath(relativePath)
	if hasDotSegment(normalized) {
		return true
	}
	for _, pattern := range patterns {
		if matchesPattern(pattern, normalized) {
			return true
		}
	}
	return false
}

// Match reports whether path matches a loose glob pattern: "*" matches
// any run of characters including path separators, "?" matches any
// single character, and "[...]" matches a character class ("[!...]"
// negates). This mirrors the matching the original tool applied to
// ignore patterns, where "*.pyc" catches files at any depth and
// "**/test_*.py" behaves like "*/test_*.py".
//
// A pattern that fails to compile matches nothing.
func Match(pattern, path string) bool {
	expression, err := compiledPattern(pattern)
	if err != nil {
		return false
	}
	return expression.MatchString(path)
}

func matchesPattern(pattern, path string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		return strings.Contains(path, pattern)
	}
	return Match(pattern, path)
}

// normalizePath strips a leading "./" and collapses duplicate
// slashes. Candidate paths are already relative with forward slashes,
// so no further cleaning is needed.
func normalizePath(path string) string {
	path = strings.TrimPrefix(path, "./")
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	return path
}

func hasDotSegment(path string) bool {
	for _, segment := range strings.Split(path, "/") {
		if len(segment) > 0 && segment[0] == '.' {
			return true
		}
	}
	return false
}

// Pattern regexes are cached per pattern string. A compile run checks
// the same few dozen patterns against every candidate file, so
// translating once per pattern matters on large trees.
var (
	patternCacheMutex sync.Mutex
	patternCache      = map[string]*regexp.Regexp{}
)

func compiledPattern(pattern string) (*regexp.Regexp, error) {
	patternCacheMutex.Lock()
	defer patternCacheMutex.Unlock()

	if cached, ok := patternCache[pattern]; ok {
		return cached, nil
	}
	expression, err := regexp.Compile(translatePattern(pattern))
	if err != nil {
		return nil, err
	}
	patternCache[pattern] = expression
	return expression, nil
}

// translatePattern converts a loose glob into an anchored regular
// expression. Character classes pass through with "!" negation mapped
// to "^"; an unterminated "[" is treated as a literal bracket.
func translatePattern(pattern string) string {
	var builder strings.Builder
	builder.WriteString("^")
	for index := 0; index < len(pattern); index++ {
		switch character := pattern[index]; character {
		case '*':
			builder.WriteString(".*")
		case '?':
			builder.WriteString(".")
		case '[':
			end := index + 1
			if end < len(pattern) && (pattern[end] == '!' || pattern[end] == '^') {
				end++
			}
			if end < len(pattern) && pattern[end] == ']' {
				end++
			}
			for end < len(pattern) && pattern[end] != ']' {
				end++
			}
			if end >= len(pattern) {
				builder.WriteString(regexp.QuoteMeta("["))
				continue
			}
			class := pattern[index+1 : end]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			builder.WriteString("[")
			builder.WriteString(class)
			builder.WriteString("]")
			index = end
		default:
			builder.WriteString(regexp.QuoteMeta(string(character)))
		}
	}
	builder.WriteString("$")
	return builder.String()
}
