// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

// Ccw is the CodeCompanion workspace tool. It provides subcommands for
// scaffolding a workspace (init, template), compiling and checking the
// workspace artifact (compile, validate, doctor), and merging project
// documentation (docs merge).
package main
