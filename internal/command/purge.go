// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"time"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/kwvanderlinde/cachedgo/internal/meta"
)

func PurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := cmd.Metadata["meta"].(meta.Meta)
	log.Debugf("Executing action for %v", meta.Args[1:])

	hours := cmd.Int("older-than")
	store := newFileStore(cmd)
	return store.Purge(time.Duration(hours) * time.Hour)
}

func PurgeCommandBuilder(cmd *cli.Command, meta meta.Meta, globalFlags []cli.Flag) *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "remove cache files older than a cutoff",
		UsageText: `cached purge [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "older-than",
				Usage: "age cutoff in hours. 0 disables purging",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("purge.older-than", altsrc.StringSourcer(meta.Config.Source)),
					yaml.YAML("cache.clean", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: 0,
			},
			NewCacheDirFlag("purge"),
			NewLevelsFlag("purge"),
		}, NewGlobalFlags("purge")...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := PurgeCommandValidator(ctx, c, globalFlags); err != nil {
				return err
			}
			return PurgeCommandAction(ctx, c)
		},
	}
}

func PurgeCommandValidator(ctx context.Context, cmd *cli.Command, globalFlags []cli.Flag) error {
	return GlobalFlagsValidator(ctx, cmd)
}
