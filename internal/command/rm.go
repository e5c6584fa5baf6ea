// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"net/http"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/kwvanderlinde/cachedgo/internal/meta"
	"github.com/kwvanderlinde/cachedgo/model"
)

func RmCommandAction(ctx context.Context, cmd *cli.Command) error {
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

	// Only the URI matters for deletion; the method is just for symmetry.
	return store.Delete(model.Request{
		Method:  http.MethodGet,
		URI:     url,
		Headers: map[string]string{},
	})
}

func RmCommandBuilder(cmd *cli.Command, meta meta.Meta, globalFlags []cli.Flag) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "remove the cache entry for a URL",
		UsageText: `cached rm URL [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			NewCacheDirFlag("rm"),
			NewLevelsFlag("rm"),
		}, NewBucketFlags()...), NewGlobalFlags("rm")...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := RmCommandValidator(ctx, c, globalFlags); err != nil {
				return err
			}
			return RmCommandAction(ctx, c)
		},
	}
}

func RmCommandValidator(ctx context.Context, cmd *cli.Command, globalFlags []cli.Flag) error {
	return GlobalFlagsValidator(ctx, cmd)
}
