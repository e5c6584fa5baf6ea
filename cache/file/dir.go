// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kwvanderlinde/cachedgo/internal/config"
)

// BaseDir resolves the default cache directory.
// Precedence:
//  1. CACHED_CACHE_DIR, if set and non-empty
//  2. the cache.dir config key
//  3. os.UserCacheDir()/cached
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func BaseDir() (string, bool) {
	if c, ok := os.LookupEnv("CACHED_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if c, err := config.GetString("cache.dir"); err == nil && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "cached"), true
	}
	return "", false
}

// Enabled returns true unless CACHED_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("CACHED_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and a
// base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := BaseDir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}
