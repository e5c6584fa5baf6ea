// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputValidator(t *testing.T) {
	for _, format := range []string{"text", "json", "yaml"} {
		assert.NoError(t, OutputValidator(format))
	}
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(""))
}

func TestJammedFlagValidator(t *testing.T) {
	assert.NoError(t, JammedFlagValidator("value"))
	assert.Error(t, JammedFlagValidator("--jammed"))
}

func TestFlagValidators(t *testing.T) {
	assert.NoError(t, FlagValidators("json", OutputValidator, JammedFlagValidator))
	assert.Error(t, FlagValidators("--json", OutputValidator, JammedFlagValidator))
}
