// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package version holds the build version string, overridden at link time.
package version

// Version is set via -ldflags "-X .../internal/version.Version=v1.2.3".
var Version = "dev"
