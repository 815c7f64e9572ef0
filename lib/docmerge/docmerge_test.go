// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package docmerge

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ccw-tools/ccw/lib/resolve"
)

// writeTree materializes a file tree under a fresh temp dir. Keys are
// slash-separated relative paths.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDiscoverDefaults(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"README.md":                  "# Readme",
		"docs/guide.md":              "# Guide",
		"docs/sub/notes.md":          "# Notes",
		"docs/.draft.md":             "# Draft",
		".hidden.md":                 "# Hidden",
		".github/workflows/notes.md": "# CI notes",
		"node_modules/pkg/readme.md": "# Vendored",
		"assets/extra.md":            "# Asset",
		"notes.txt":                  "just text",
		"empty.md":                   "",
	})

	files, err := Discover(root, DefaultConfig())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"README.md", "docs/guide.md", "docs/sub/notes.md"}
	if !slices.Equal(files, want) {
		t.Errorf("Discover = %v, want %v", files, want)
	}
}

func TestDiscoverPathPattern(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"README.md":         "# Readme",
		"docs/guide.md":     "# Guide",
		"docs/sub/notes.md": "# Notes",
		"docs/data.txt":     "text",
	})

	config := DefaultConfig()
	config.Include = []string{"docs/**/*.md"}
	files, err := Discover(root, config)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"docs/guide.md", "docs/sub/notes.md"}
	if !slices.Equal(files, want) {
		t.Errorf("Discover = %v, want %v", files, want)
	}
}

func TestDiscoverCustomExclude(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"README.md":          "# Readme",
		"docs/guide.md":      "# Guide",
		"docs/internal/x.md": "# Internal",
	})

	config := DefaultConfig()
	config.Exclude = append(config.Exclude, "docs/internal/**")
	files, err := Discover(root, config)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"README.md", "docs/guide.md"}
	if !slices.Equal(files, want) {
		t.Errorf("Discover = %v, want %v", files, want)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), DefaultConfig())
	var expansionErr *resolve.ExpansionError
	if !errors.As(err, &expansionErr) {
		t.Fatalf("Discover error = %v, want *resolve.ExpansionError", err)
	}
}

func TestMergeHeadingShift(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"docs/a.md": "# Title\n\n## Section\n\n###### Deep\n\n##\n\n#tag\n",
	})

	config := Config{AdjustHeaders: true, BaseLevel: 2}
	merged, err := Merge(root, []string{"docs/a.md"}, config)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := "## Title\n\n### Section\n\n###### Deep\n\n###\n\n#tag\n"
	if string(merged) != want {
		t.Errorf("Merge = %q, want %q", merged, want)
	}
}

func TestMergeCodeBlocksUntouched(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"docs/guide.md": "# Guide\n\n```sh\n# comment\ncat [a](b.md)\n```\n\nSee [intro](intro.md).\n",
	})

	config := Config{AdjustHeaders: true, FixLinks: true, BaseLevel: 2}
	merged, err := Merge(root, []string{"docs/guide.md"}, config)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := "## Guide\n\n```sh\n# comment\ncat [a](b.md)\n```\n\nSee [intro](docs/intro.md).\n"
	if string(merged) != want {
		t.Errorf("Merge = %q, want %q", merged, want)
	}
}

func TestMergeLinkRewrite(t *testing.T) {
	t.Parallel()
	input := strings.Join([]string{
		"[rel](b.md)",
		"[up](../README.md)",
		"[deep](sub/c.md#sec)",
		"[frag](#local)",
		"[abs](/abs.md)",
		"[url](https://example.com/x.md)",
		"[mail](mailto:dev@example.com)",
		`[titled](b.md "Guide")`,
		"![alt](img/pic.png)",
	}, "\n\n") + "\n"
	root := writeTree(t, map[string]string{"docs/a.md": input})

	config := Config{FixLinks: true, BaseLevel: 1}
	merged, err := Merge(root, []string{"docs/a.md"}, config)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := strings.Join([]string{
		"[rel](docs/b.md)",
		"[up](README.md)",
		"[deep](docs/sub/c.md#sec)",
		"[frag](#local)",
		"[abs](/abs.md)",
		"[url](https://example.com/x.md)",
		"[mail](mailto:dev@example.com)",
		`[titled](docs/b.md "Guide")`,
		"![alt](docs/img/pic.png)",
	}, "\n\n") + "\n"
	if string(merged) != want {
		t.Errorf("Merge = %q, want %q", merged, want)
	}
}

func TestMergeJoinsWithBlankLine(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"a.md":     "Alpha\n",
		"sub/b.md": "Beta\n\n\n",
		"blank.md": "\n\n",
	})

	merged, err := Merge(root, []string{"a.md", "sub/b.md", "blank.md"}, Config{BaseLevel: 1})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := "Alpha\n\nBeta\n"
	if string(merged) != want {
		t.Errorf("Merge = %q, want %q", merged, want)
	}
}

func TestMergeFlagsOff(t *testing.T) {
	t.Parallel()
	body := "# Title\n\n[rel](b.md)\n"
	root := writeTree(t, map[string]string{"docs/a.md": body})

	merged, err := Merge(root, []string{"docs/a.md"}, Config{BaseLevel: 3})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if string(merged) != body {
		t.Errorf("Merge = %q, want %q", merged, body)
	}
}

func TestMergeMissingFile(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{"a.md": "Alpha\n"})

	_, err := Merge(root, []string{"a.md", "missing.md"}, Config{BaseLevel: 1})
	if err == nil {
		t.Fatal("Merge succeeded, want read error")
	}
	if !strings.Contains(err.Error(), "missing.md") {
		t.Errorf("Merge error = %q, want mention of missing.md", err)
	}
}

func TestMergeZeroFiles(t *testing.T) {
	t.Parallel()
	merged, err := Merge(t.TempDir(), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged != nil {
		t.Errorf("Merge = %q, want nil", merged)
	}
}
