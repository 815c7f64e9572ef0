// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package docmerge combines a tree of markdown documents into a single
// file. Files are discovered with the same glob machinery that powers
// workspace pattern groups, then concatenated with their heading levels
// shifted to sit under a common base level and their relative links
// rewritten so they remain valid from the merged document's location.
package docmerge

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/ccw-tools/ccw/lib/ignore"
	"github.com/ccw-tools/ccw/lib/resolve"
)

// Config controls discovery and merging.
type Config struct {
	// Include lists glob patterns for files to merge. A pattern
	// without a path separator matches file names in any directory;
	// a pattern with one is matched against the root-relative path.
	Include []string

	// Exclude lists glob patterns for files to drop after discovery.
	// Each pattern is matched against both the root-relative path and
	// the bare file name.
	Exclude []string

	// AdjustHeaders shifts ATX heading levels so each file's top
	// heading sits at BaseLevel in the merged document.
	AdjustHeaders bool

	// FixLinks rewrites relative link destinations to be relative to
	// the merge root instead of the containing file.
	FixLinks bool

	// BaseLevel is the heading level the merged document starts at.
	// Headings shift by BaseLevel-1 and never go deeper than h6.
	BaseLevel int
}

// DefaultConfig returns the configuration used when the caller
// specifies nothing: all markdown files, minus vendored trees and
// dotfiles, merged without any heading shift.
func DefaultConfig() Config {
	return Config{
		Include:       []string{"*.md"},
		Exclude:       []string{"node_modules/**", ".*", "assets/**"},
		AdjustHeaders: true,
		FixLinks:      true,
		BaseLevel:     1,
	}
}

// Discover expands the Include patterns under root and returns the
// sorted root-relative paths of every regular, non-empty file that
// matches an Include pattern and no Exclude pattern.
func Discover(root string, config Config) ([]string, error) {
	resolver := &resolve.Resolver{Base: root}
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range config.Include {
		expanded, err := resolver.Expand(normalizeInclude(pattern))
		if err != nil {
			return nil, err
		}
		for _, relative := range expanded {
			if seen[relative] || excluded(relative, config.Exclude) {
				continue
			}
			seen[relative] = true
			files = append(files, relative)
		}
	}
	slices.Sort(files)
	return files, nil
}

// Merge reads the given root-relative files and returns them as one
// document. Each file body is transformed per the config and the
// bodies are joined with a blank line. Files whose transformed body is
// empty are dropped. The returned bytes end with a newline; a merge of
// zero non-empty files returns nil.
func Merge(root string, files []string, config Config) ([]byte, error) {
	sections := make([]string, 0, len(files))
	for _, relative := range files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relative)))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", relative, err)
		}
		body := strings.TrimRight(transform(data, relative, config), "\n")
		if body == "" {
			continue
		}
		sections = append(sections, body)
	}
	if len(sections) == 0 {
		return nil, nil
	}
	return []byte(strings.Join(sections, "\n\n") + "\n"), nil
}

// normalizeInclude turns a bare file-name pattern into one that
// matches at any depth. Patterns that already contain a separator are
// taken as written.
func normalizeInclude(pattern string) string {
	if strings.Contains(pattern, "/") {
		return pattern
	}
	return "**/" + pattern
}

func excluded(relative string, patterns []string) bool {
	base := path.Base(relative)
	for _, pattern := range patterns {
		if ignore.Match(pattern, relative) || ignore.Match(pattern, base) {
			return true
		}
	}
	return false
}

// mergeParserInstance is initialized once and reused. The parser
// configuration never changes and a goldmark parser is safe to share
// across calls.
var (
	mergeParserInstance goldmark.Markdown
	mergeParserOnce     sync.Once
)

func getMergeParser() goldmark.Markdown {
	mergeParserOnce.Do(func() {
		mergeParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return mergeParserInstance
}

// transform applies the configured heading shift and link rewrite to
// one file body. Lines that goldmark places inside code or HTML blocks
// are passed through untouched, so fenced examples never get mangled.
func transform(source []byte, relative string, config Config) string {
	shift := config.BaseLevel - 1
	if shift < 0 {
		shift = 0
	}
	adjustHeaders := config.AdjustHeaders && shift > 0
	if !adjustHeaders && !config.FixLinks {
		return string(source)
	}

	protected := protectedLines(source)
	fileDir := path.Dir(relative)
	lines := strings.Split(string(source), "\n")
	for index, line := range lines {
		if index < len(protected) && protected[index] {
			continue
		}
		if adjustHeaders {
			line = shiftHeading(line, shift)
		}
		if config.FixLinks {
			line = rewriteLinks(line, fileDir)
		}
		lines[index] = line
	}
	return strings.Join(lines, "\n")
}

// protectedLines parses the source and marks every line that belongs
// to a fenced code block, an indented code block, or an HTML block.
func protectedLines(source []byte) []bool {
	starts := lineStarts(source)
	marked := make([]bool, len(starts))

	document := getMergeParser().Parser().Parse(text.NewReader(source))
	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
			segments := node.Lines()
			for index := 0; index < segments.Len(); index++ {
				segment := segments.At(index)
				markRange(marked, starts, segment.Start, segment.Stop)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return marked
}

// lineStarts returns the byte offset of each line in source, aligned
// with strings.Split(source, "\n") indexing.
func lineStarts(source []byte) []int {
	starts := []int{0}
	for offset, char := range source {
		if char == '\n' {
			starts = append(starts, offset+1)
		}
	}
	return starts
}

func markRange(marked []bool, starts []int, start, stop int) {
	if stop <= start {
		return
	}
	first := lineIndex(starts, start)
	last := lineIndex(starts, stop-1)
	for index := first; index <= last && index < len(marked); index++ {
		marked[index] = true
	}
}

func lineIndex(starts []int, offset int) int {
	return sort.Search(len(starts), func(index int) bool {
		return starts[index] > offset
	}) - 1
}

// headingPattern matches an ATX heading line: up to three leading
// spaces, one to six '#', then a space or end of line.
var headingPattern = regexp.MustCompile(`^( {0,3})(#{1,6})([ \t].*)?$`)

func shiftHeading(line string, shift int) string {
	match := headingPattern.FindStringSubmatch(line)
	if match == nil {
		return line
	}
	level := len(match[2]) + shift
	if level > 6 {
		level = 6
	}
	return match[1] + strings.Repeat("#", level) + match[3]
}

var (
	// linkPattern matches inline links and the bracketed tail of
	// images. The destination group runs to the closing parenthesis
	// and may carry a quoted title.
	linkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)

	// schemePattern matches a URI scheme prefix such as "https:" or
	// "mailto:".
	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

func rewriteLinks(line, fileDir string) string {
	return linkPattern.ReplaceAllStringFunc(line, func(match string) string {
		parts := linkPattern.FindStringSubmatch(match)
		target := parts[2]
		title := ""
		if index := strings.IndexAny(target, " \t"); index >= 0 {
			target, title = target[:index], target[index:]
		}
		return "[" + parts[1] + "](" + rewriteDestination(target, fileDir) + title + ")"
	})
}

// rewriteDestination resolves a relative link destination against the
// containing file's directory, producing a root-relative destination.
// Absolute paths, URLs, and bare fragments are returned unchanged.
func rewriteDestination(destination, fileDir string) string {
	if destination == "" ||
		strings.HasPrefix(destination, "/") ||
		strings.HasPrefix(destination, "#") ||
		schemePattern.MatchString(destination) {
		return destination
	}
	target, fragment := destination, ""
	if index := strings.Index(destination, "#"); index >= 0 {
		target, fragment = destination[:index], destination[index:]
	}
	return path.Join(fileDir, target) + fragment
}
