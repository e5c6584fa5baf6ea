// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"golang.org/x/term"
	yaml "gopkg.in/yaml.v2"
)

// Dataset is an ordered set of columns plus the row maps they index.
type Dataset struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Options control how a dataset is rendered.
type Options struct {
	// Format is one of text, json, yaml.
	Format string
	// Color styles the header row, and only when the writer is a terminal.
	Color bool
	// Titles includes the header row in text output.
	Titles bool
}

// Formats are the supported --output values.
var Formats = []string{"text", "json", "yaml"}

// Spit renders the dataset to w in the requested format.
func Spit(w io.Writer, ds Dataset, opts Options) error {
	switch opts.Format {
	case "json":
		return spitJSON(w, ds)
	case "yaml":
		return spitYAML(w, ds)
	case "text", "":
		return spitText(w, ds, opts)
	}
	return fmt.Errorf("unsupported output format: %s", opts.Format)
}

func spitJSON(w io.Writer, ds Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds.Rows)
}

func spitYAML(w io.Writer, ds Dataset) error {
	// yaml.v2 keeps map keys sorted, which gives stable output.
	out, err := yaml.Marshal(ds.Rows)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func spitText(w io.Writer, ds Dataset, opts Options) error {
	var rows [][]string
	for _, row := range ds.Rows {
		cells := make([]string, 0, len(ds.Columns))
		for _, col := range ds.Columns {
			cells = append(cells, fmt.Sprint(row[col]))
		}
		rows = append(rows, cells)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		Rows(rows...)

	if opts.Titles {
		t = t.Headers(ds.Columns...)
		if opts.Color && isTerminal(w) {
			header := lipgloss.NewStyle().Bold(true)
			t = t.StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}
				return lipgloss.NewStyle()
			})
		}
	}

	_, err := fmt.Fprintln(w, t)
	return err
}

// SortRows orders rows by the given column, ascending.
func SortRows(rows []map[string]interface{}, column string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return fmt.Sprint(rows[i][column]) < fmt.Sprint(rows[j][column])
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
