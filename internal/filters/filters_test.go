// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const entryDoc = `{
	"request": {"method": "GET", "uri": "http://google.ca", "headers": {"Accept": "application/pdf"}},
	"response": {"status": 200, "reason": "OK", "headers": {"ETag": "gibberish"}, "size": 1234}
}`

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected []Filter
	}{
		{
			name:     "empty spec",
			spec:     "",
			expected: nil,
		},
		{
			name: "single equality",
			spec: "request.method=GET",
			expected: []Filter{
				{Key: "request.method", Operand: "=", Target: "GET"},
			},
		},
		{
			name: "negated prefix",
			spec: "request.uri!^https",
			expected: []Filter{
				{Key: "request.uri", Negate: true, Operand: "^", Target: "https"},
			},
		},
		{
			name: "multiple filters",
			spec: "response.status=200,request.method=GET",
			expected: []Filter{
				{Key: "response.status", Operand: "=", Target: "200"},
				{Key: "request.method", Operand: "=", Target: "GET"},
			},
		},
		{
			name:     "garbage is skipped",
			spec:     "no operand here",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildFilters(tt.spec)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected bool
	}{
		{"no filters match everything", "", true},
		{"string equality", "request.method=GET", true},
		{"string equality negated", "request.method!=GET", false},
		{"string mismatch", "request.method=POST", false},
		{"prefix", "request.uri^http://", true},
		{"case-insensitive equality", "request.method~get", true},
		{"substring", "request.uri@google", true},
		{"regex", "request.uri/goo.le", true},
		{"regex negated", "request.uri!/goo.le", false},
		{"numeric equality", "response.status=200", true},
		{"numeric less-than", "response.size<2000", true},
		{"numeric greater-than", "response.size>2000", false},
		{"missing key fails", "response.etag=x", false},
		{"all filters must match", "request.method=GET,response.status=500", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Matches(entryDoc, tt.spec))
		})
	}
}

func TestBuildFilters_DelimiterOverride(t *testing.T) {
	t.Setenv("CACHED_FILTER_DELIM", ";")

	got := BuildFilters("response.status=200;request.method=GET")
	assert.Equal(t, []Filter{
		{Key: "response.status", Operand: "=", Target: "200"},
		{Key: "request.method", Operand: "=", Target: "GET"},
	}, got)
}
