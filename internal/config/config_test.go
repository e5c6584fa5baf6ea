// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig drops a cached.yaml into a fake HOME and points the
// resolver at it. The global Config is reset to force a reload.
func writeTestConfig(t *testing.T, contents string) {
	t.Helper()

	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "cached.yaml"), []byte(contents), 0o600))

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", home)

	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		contents  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			contents: "dir: /tmp/cache\nbucket: my-bucket\n",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "/tmp/cache", cfg.Data["dir"])
				assert.Equal(t, "my-bucket", cfg.Data["bucket"])
			},
		},
		{
			name:     "nested structure",
			contents: "cache:\n  dir: /var/cache/cached\n  levels: 5\n",
			checkFunc: func(t *testing.T, cfg Type) {
				cache, ok := cfg.Data["cache"].(map[string]interface{})
				assert.True(t, ok, "cache should be a map")
				assert.Equal(t, "/var/cache/cached", cache["dir"])
				assert.Equal(t, 5, cache["levels"])
			},
		},
		{
			name:     "mixed types",
			contents: "name: cached\nversion: 1\nenabled: true\ntimeout: 30.5\n",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "cached", cfg.Data["name"])
				assert.Equal(t, 1, cfg.Data["version"])
				assert.Equal(t, true, cfg.Data["enabled"])
				assert.Equal(t, 30.5, cfg.Data["timeout"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeTestConfig(t, tt.contents)

			cfg, err := Load("")

			assert.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", t.TempDir())
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	_, err := Load("")
	assert.Error(t, err)
}

func TestGetString_NamespaceWins(t *testing.T) {
	writeTestConfig(t, "output: text\nls:\n  output: json\n")

	_, err := Load("ls")
	require.NoError(t, err)

	got, err := GetString("output")
	assert.NoError(t, err)
	assert.Equal(t, "json", got)
}

func TestGetString_FallsBackToBareKey(t *testing.T) {
	writeTestConfig(t, "output: yaml\n")

	_, err := Load("ls")
	require.NoError(t, err)

	got, err := GetString("output")
	assert.NoError(t, err)
	assert.Equal(t, "yaml", got)
}

func TestGetString_Default(t *testing.T) {
	writeTestConfig(t, "output: text\n")

	got, err := GetString("no.such.key", "fallback")
	assert.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestGetInt(t *testing.T) {
	writeTestConfig(t, "cache:\n  clean: 72\n  levels: 5\n")

	got, err := GetInt("cache.clean")
	assert.NoError(t, err)
	assert.Equal(t, 72, got)

	got, err = GetInt("cache.missing", 24)
	assert.NoError(t, err)
	assert.Equal(t, 24, got)

	_, err = GetInt("cache")
	assert.Error(t, err)
}
