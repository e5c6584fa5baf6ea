// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package filters parses --filter expressions (key, operator, target) and
// evaluates them against the JSON documents built from cache entries.
package filters
