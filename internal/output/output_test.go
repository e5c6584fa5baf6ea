// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Columns: []string{"method", "uri", "status"},
		Rows: []map[string]interface{}{
			{"method": "GET", "uri": "http://google.ca", "status": 200},
			{"method": "GET", "uri": "http://example.com", "status": 301},
		},
	}
}

func TestSpit_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spit(&buf, sampleDataset(), Options{Format: "json"}))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "http://google.ca", rows[0]["uri"])
	assert.Equal(t, float64(200), rows[0]["status"])
}

func TestSpit_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spit(&buf, sampleDataset(), Options{Format: "yaml"}))

	var rows []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "http://example.com", rows[1]["uri"])
}

func TestSpit_TextIncludesCellsAndOptionalTitles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spit(&buf, sampleDataset(), Options{Format: "text"}))
	assert.Contains(t, buf.String(), "http://google.ca")
	assert.NotContains(t, buf.String(), "method", "titles are off by default")

	buf.Reset()
	require.NoError(t, Spit(&buf, sampleDataset(), Options{Format: "text", Titles: true}))
	assert.Contains(t, buf.String(), "method")
	assert.Contains(t, buf.String(), "status")
}

func TestSpit_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Spit(&buf, sampleDataset(), Options{Format: "csv"})
	assert.Error(t, err)
}

func TestSortRows(t *testing.T) {
	rows := []map[string]interface{}{
		{"uri": "http://z.example"},
		{"uri": "http://a.example"},
	}
	SortRows(rows, "uri")
	assert.Equal(t, "http://a.example", rows[0]["uri"])
}
