// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package ignore

import (
	"encoding/json"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestExcludedDotSegments(t *testing.T) {
	// Dot-path exclusion is absolute: no pattern set, no configuration.
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"dot directory at root", ".git/config", true},
		{"dot directory nested", "src/.cache/data.bin", true},
		{"dot file at leaf", "src/.env", true},
		{"dot file at root", ".envrc", true},
		{"workspace directory", ".cc/codecompanion.yaml", true},
		{"plain path", "src/main.py", false},
		{"dot inside a segment", "src/main.v2.py", false},
		{"leading dot-slash stripped", "./src/main.py", false},
		{"leading dot-slash then dot dir", "./.git/config", true},
		{"duplicate slashes collapsed", "src//main.py", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Excluded(test.path, nil)
			if got != test.want {
				t.Errorf("Excluded(%q, nil) = %v, want %v", test.path, got, test.want)
			}
		})
	}
}

func TestExcludedPatternMatching(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		patterns []string
		want     bool
	}{
		// Substring matching for patterns without wildcards.
		{"lock file at root", "uv.lock", []string{"uv.lock"}, true},
		{"lock file at depth", "sub/project/uv.lock", []string{"uv.lock"}, true},
		{"lock substring over-match", "myuv.lock-backup/readme.txt", []string{"uv.lock"}, true},
		{"directory pattern at root", "node_modules/pkg/index.js", []string{"node_modules/"}, true},
		{"directory pattern at depth", "web/node_modules/pkg/index.js", []string{"node_modules/"}, true},
		{"no substring match", "src/main.py", []string{"node_modules/"}, false},

		// Loose glob matching for patterns with wildcards: * crosses
		// path separators.
		{"extension glob at root", "cache.pyc", []string{"*.pyc"}, true},
		{"extension glob at depth", "src/pkg/cache.pyc", []string{"*.pyc"}, true},
		{"doublestar test glob", "tests/unit/test_unit.py", []string{"**/test_*.py"}, true},
		{"doublestar test glob root miss", "test_main.py", []string{"**/test_*.py"}, false},
		{"doublestar directory glob", "src/pkg/subpkg/module.py", []string{"**/subpkg/**"}, true},
		{"doublestar directory glob miss", "src/pkg/module.py", []string{"**/subpkg/**"}, false},
		{"question mark", "a.tmx", []string{"?.tm?"}, true},
		{"character class", "v1/data", []string{"v[0-9]/*"}, true},
		{"negated character class", "vx/data", []string{"v[!0-9]/*"}, true},
		{"negated character class miss", "v1/data", []string{"v[!0-9]/*"}, false},
		{"malformed class matches nothing", "x", []string{"[invalid"}, false},

		// First match wins; later patterns are irrelevant.
		{"multiple patterns", "logs/run.log", []string{"*.tmp", "*.log"}, true},
		{"no patterns", "src/main.py", nil, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Excluded(test.path, test.patterns)
			if got != test.want {
				t.Errorf("Excluded(%q, %v) = %v, want %v",
					test.path, test.patterns, got, test.want)
			}
		})
	}
}

func TestEffectiveDisabled(t *testing.T) {
	config := Default()
	config.Enabled = false
	config.Additional = []string{"*.log"}

	if got := Effective(config); len(got) != 0 {
		t.Errorf("Effective(disabled) = %v, want empty", got)
	}
}

func TestEffectiveDefaults(t *testing.T) {
	patterns := Effective(Default())

	for _, expected := range []string{"node_modules/", ".git/", "uv.lock", "*.pyc", "go.sum"} {
		if !slices.Contains(patterns, expected) {
			t.Errorf("default effective set missing %q", expected)
		}
	}
}

func TestEffectiveOverrideReplaces(t *testing.T) {
	// An override replaces the category's defaults entirely: patterns
	// not re-added stop matching.
	config := Config{
		Enabled:    true,
		Categories: []string{"dependencies"},
		Overrides:  map[string][]string{"dependencies": {"vendor/"}},
	}

	patterns := Effective(config)
	if !slices.Contains(patterns, "vendor/") {
		t.Errorf("effective set missing override pattern, got %v", patterns)
	}
	if slices.Contains(patterns, "node_modules/") {
		t.Errorf("override did not replace category defaults, got %v", patterns)
	}
}

func TestEffectiveAdditionalAppended(t *testing.T) {
	config := Config{
		Enabled:    true,
		Categories: []string{},
		Additional: []string{"generated/"},
	}

	patterns := Effective(config)
	if len(patterns) != 1 || patterns[0] != "generated/" {
		t.Errorf("Effective = %v, want [generated/]", patterns)
	}
}

func TestEffectiveUnknownCategory(t *testing.T) {
	// An unknown category with no override contributes nothing; with
	// an override it contributes exactly the override list.
	config := Config{Enabled: true, Categories: []string{"custom"}}
	if got := Effective(config); len(got) != 0 {
		t.Errorf("Effective(unknown category) = %v, want empty", got)
	}

	config.Overrides = map[string][]string{"custom": {"**/generated_*.go"}}
	got := Effective(config)
	if len(got) != 1 || got[0] != "**/generated_*.go" {
		t.Errorf("Effective(custom override) = %v, want the override list", got)
	}
}

func TestEffectiveNilCategoriesMeansAll(t *testing.T) {
	// A config that never mentions categories gets every built-in.
	nilCategories := Effective(Config{Enabled: true})
	allCategories := Effective(Default())
	if !slices.Equal(nilCategories, allCategories) {
		t.Errorf("Effective(nil categories) = %v, want the full default set", nilCategories)
	}
}

func TestUnmarshalYAMLDefaults(t *testing.T) {
	// The enabled key defaults to true when absent, so a section that
	// only customizes patterns stays active.
	input := "patterns:\n  custom: [\"*.gen.go\"]\ncategories: [custom]\n"

	var config Config
	if err := yaml.Unmarshal([]byte(input), &config); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if !config.Enabled {
		t.Error("absent enabled key decoded as false, want true")
	}
	if got := Effective(config); len(got) != 1 || got[0] != "*.gen.go" {
		t.Errorf("Effective = %v, want [*.gen.go]", got)
	}

	var disabled Config
	if err := yaml.Unmarshal([]byte("enabled: false\n"), &disabled); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if disabled.Enabled {
		t.Error("explicit enabled: false decoded as true")
	}
}

func TestUnmarshalJSONDefaults(t *testing.T) {
	input := `{"categories": ["locks"], "additional": ["out/"]}`

	var config Config
	if err := json.Unmarshal([]byte(input), &config); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if !config.Enabled {
		t.Error("absent enabled key decoded as false, want true")
	}
	patterns := Effective(config)
	if !slices.Contains(patterns, "uv.lock") || patterns[len(patterns)-1] != "out/" {
		t.Errorf("Effective = %v, want locks defaults then out/", patterns)
	}
}

func TestEffectiveOrderStable(t *testing.T) {
	config := Config{
		Enabled:    true,
		Categories: []string{"temp", "locks"},
		Additional: []string{"extra/"},
	}

	first := Effective(config)
	second := Effective(config)
	if !slices.Equal(first, second) {
		t.Errorf("Effective order unstable: %v vs %v", first, second)
	}
	if first[len(first)-1] != "extra/" {
		t.Errorf("additional patterns not appended last: %v", first)
	}
}

func TestDefaultIsCopied(t *testing.T) {
	// Mutating one Default() result must not leak into the next.
	first := Default()
	first.Categories[0] = "mutated"

	second := Default()
	if second.Categories[0] == "mutated" {
		t.Error("Default() aliases its category table")
	}
}

func TestCategoryPatternsCopied(t *testing.T) {
	patterns, ok := CategoryPatterns("locks")
	if !ok {
		t.Fatal("locks category missing")
	}
	patterns[0] = "mutated"

	again, _ := CategoryPatterns("locks")
	if again[0] == "mutated" {
		t.Error("CategoryPatterns aliases the built-in table")
	}

	if _, ok := CategoryPatterns("nope"); ok {
		t.Error("CategoryPatterns(nope) reported ok")
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"star crosses separator", "build/*", "build/a/b/out.bin", true},
		{"anchored at start", "*.md", "docs/readme.txt", false},
		{"full path literal", "docs/readme.md", "docs/readme.md", true},
		{"literal mismatch", "docs/readme.md", "docs/other.md", false},
		{"question mark single char", "file.??", "file.go", true},
		{"question mark too long", "file.??", "file.yaml", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Match(test.pattern, test.path)
			if got != test.want {
				t.Errorf("Match(%q, %q) = %v, want %v",
					test.pattern, test.path, got, test.want)
			}
		})
	}
}
