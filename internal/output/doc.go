// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package output renders command results in the supported formats: a lipgloss
// table for text, plus json and yaml emitters.
package output
