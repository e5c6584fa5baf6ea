// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kwvanderlinde/cachedgo/internal/config"
	"github.com/kwvanderlinde/cachedgo/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the cached
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load(ns)
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "cached",
		Usage: "Memory-efficient HTTP response caching",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "cached version info",
				HideDefault: true,
			},
		},
	}

	globalFlags := NewGlobalFlags("cached")
	app.Commands = append(app.Commands,
		DiffCommandBuilder(app, meta, globalFlags),
		GetCommandBuilder(app, meta, globalFlags),
		LsCommandBuilder(app, meta, globalFlags),
		PurgeCommandBuilder(app, meta, globalFlags),
		RmCommandBuilder(app, meta, globalFlags),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
