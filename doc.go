// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// cachedgo is the main package for the cached command line tool. It wires the
// CLI, delegates to internal packages, and serves as the entry point.
package main
