// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/kwvanderlinde/cachedgo/cache/file"
	"github.com/kwvanderlinde/cachedgo/internal/meta"
	"github.com/kwvanderlinde/cachedgo/transport"
)

func GetCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := cmd.Metadata["meta"].(meta.Meta)
	log.Debugf("Executing action for %v", meta.Args[1:])

	url, err := RequireURLArg(cmd)
	if err != nil {
		return err
	}

	client := http.DefaultClient
	if file.Enabled() {
		c, err := newCache(ctx, cmd)
		if err != nil {
			return err
		}
		tr := transport.New(c, nil)
		defer tr.Close()
		client = &http.Client{Transport: tr}
	} else {
		log.Debug("caching disabled; going straight to the network")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for _, h := range cmd.StringSlice("header") {
		name, value, found := strings.Cut(h, ":")
		if !found {
			return fmt.Errorf("malformed header (want Name: Value): %s", h)
		}
		req.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	out := io.Writer(os.Stdout)
	if path := cmd.String("output-file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	// The body must be fully drained for the cache entry to become servable.
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server answered %s", resp.Status)
	}

	return nil
}

func GetCommandBuilder(cmd *cli.Command, meta meta.Meta, globalFlags []cli.Flag) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "fetch a URL through the cache",
		UsageText: `cached get URL [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:    "header",
				Aliases: []string{"H"},
				Usage:   "request header as 'Name: Value'. Repeatable",
			},
			&cli.StringFlag{
				Name:    "output-file",
				Aliases: []string{"O"},
				Usage:   "write the response body to a file instead of stdout",
			},
			NewCacheDirFlag("get"),
			NewLevelsFlag("get"),
		}, NewBucketFlags()...), NewGlobalFlags("get")...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := GetCommandValidator(ctx, c, globalFlags); err != nil {
				return err
			}
			return GetCommandAction(ctx, c)
		},
	}
}

func GetCommandValidator(ctx context.Context, cmd *cli.Command, globalFlags []cli.Flag) error {
	return GlobalFlagsValidator(ctx, cmd)
}
