// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/kwvanderlinde/cachedgo/internal/meta"
	"github.com/kwvanderlinde/cachedgo/model"
)

// DiffCommandAction compares the cached JSON body for a URL against a fresh
// fetch that bypasses the cache.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := cmd.Metadata["meta"].(meta.Meta)
	log.Debugf("Executing action for %v", meta.Args[1:])

	url, err := RequireURLArg(cmd)
	if err != nil {
		return err
	}

	store, err := newStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, ok := store.Get(model.Request{
		Method:  http.MethodGet,
		URI:     url,
		Headers: map[string]string{},
	})
	if !ok {
		return fmt.Errorf("no cache entry for %s", url)
	}
	cached, err := io.ReadAll(entry.Response.Body)
	entry.Response.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read cached body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	live, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	diff, err := gojsondiff.New().Compare(cached, live)
	if err != nil {
		return fmt.Errorf("failed to compare bodies (both must be JSON objects): %w", err)
	}

	if !diff.Modified() {
		fmt.Println("cached response is identical to the live one")
		return nil
	}

	var left map[string]interface{}
	if err := json.Unmarshal(cached, &left); err != nil {
		return fmt.Errorf("failed to parse cached body: %w", err)
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       cmd.Bool("color"),
	})
	out, err := f.Format(diff)
	if err != nil {
		return fmt.Errorf("failed to format diff: %w", err)
	}

	fmt.Fprint(os.Stdout, out)
	return nil
}

func DiffCommandBuilder(cmd *cli.Command, meta meta.Meta, globalFlags []cli.Flag) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "diff a cached JSON response against the live one",
		UsageText: `cached diff URL [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			NewCacheDirFlag("diff"),
			NewLevelsFlag("diff"),
		}, NewBucketFlags()...), NewGlobalFlags("diff")...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := DiffCommandValidator(ctx, c, globalFlags); err != nil {
				return err
			}
			return DiffCommandAction(ctx, c)
		},
	}
}

func DiffCommandValidator(ctx context.Context, cmd *cli.Command, globalFlags []cli.Flag) error {
	return GlobalFlagsValidator(ctx, cmd)
}
