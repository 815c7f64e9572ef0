// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the ccw unified CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in cmd/ccw/commands
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Command handlers report failures as [ToolError] values built with the
// category constructors ([Validation], [NotFound], [Conflict],
// [Internal]). A hint attached via [ToolError.WithHint] travels with the
// error and is printed after the message, naming the command that fixes
// the problem.
//
// Parameter structs bind flags declaratively through struct tags (see
// [BindFlags]) and opt into --json output by embedding [JSONOutput].
package cli
