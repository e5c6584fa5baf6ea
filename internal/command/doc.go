// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package command defines the CLI command set for cached. It wires flags,
// validators, and actions for the subcommands.
package command
