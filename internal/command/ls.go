// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/kwvanderlinde/cachedgo/internal/filters"
	"github.com/kwvanderlinde/cachedgo/internal/meta"
	"github.com/kwvanderlinde/cachedgo/internal/output"
)

func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := cmd.Metadata["meta"].(meta.Meta)
	log.Debugf("Executing action for %v", meta.Args[1:])

	store := newFileStore(cmd)

	//nolint:prealloc // We don't know how many entries survive the filter.
	var rows []map[string]interface{}

	err := filepath.Walk(store.EntryDir(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).Warnf("failed to read cache entry %s", path)
			return nil
		}

		doc := string(raw)
		if !gjson.Valid(doc) {
			log.Warnf("skipping corrupt cache entry %s", path)
			return nil
		}

		if !filters.Matches(doc, cmd.String("filter")) {
			return nil
		}

		size := gjson.Get(doc, "response.size").Int()
		rows = append(rows, map[string]interface{}{
			"method": gjson.Get(doc, "request.method").String(),
			"uri":    gjson.Get(doc, "request.uri").String(),
			"status": gjson.Get(doc, "response.status").Int(),
			"size":   humanize.Bytes(uint64(max(size, 0))),
			"age":    humanize.Time(info.ModTime()),
		})
		return nil
	})
	if err != nil {
		return err
	}

	sortBy := cmd.String("sort")
	if sortBy == "" {
		sortBy = "uri"
	}
	output.SortRows(rows, sortBy)

	return output.Spit(os.Stdout, output.Dataset{
		Columns: []string{"method", "uri", "status", "size", "age"},
		Rows:    rows,
	}, output.Options{
		Format: cmd.String("output"),
		Color:  cmd.Bool("color"),
		Titles: cmd.Bool("titles"),
	})
}

func LsCommandBuilder(cmd *cli.Command, meta meta.Meta, globalFlags []cli.Flag) *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "list cache entries",
		UsageText: `cached ls [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewCacheDirFlag("ls"),
			NewLevelsFlag("ls"),
		}, NewGlobalFlags("ls")...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := LsCommandValidator(ctx, c, globalFlags); err != nil {
				return err
			}
			return LsCommandAction(ctx, c)
		},
	}
}

func LsCommandValidator(ctx context.Context, cmd *cli.Command, globalFlags []cli.Flag) error {
	return GlobalFlagsValidator(ctx, cmd)
}
