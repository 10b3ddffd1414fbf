// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the declarative command tree for the
// cborstream tool: subcommand dispatch, pflag-based flag parsing,
// help rendering, and "did you mean" suggestions for mistyped
// commands and flags.
package cli
