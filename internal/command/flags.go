// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/kwvanderlinde/cachedgo/cache/file"
	"github.com/kwvanderlinde/cachedgo/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

// NewGlobalFlags builds the flags shared by every subcommand. params[0] is
// the namespace (the subcommand name) used to prefer namespaced config keys.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "attribute to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewCacheDirFlag constructs the "dir" flag pointing at the cache root.
// params[0] is the namespace. The default comes from the same resolution the
// library uses: CACHED_CACHE_DIR, cache.dir, then the user cache dir.
func NewCacheDirFlag(params ...string) *cli.StringFlag {
	base, _ := file.BaseDir()
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Usage:   "cache directory",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("CACHED_CACHE_DIR"),
			yaml.YAML(params[0]+"."+"dir", altsrc.StringSourcer(cfg.Source)),
			yaml.YAML("cache.dir", altsrc.StringSourcer(cfg.Source)),
		),
		Value: base,
	}
}

// NewLevelsFlag constructs the "levels" flag controlling directory fanout.
func NewLevelsFlag(params ...string) *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "levels",
		Usage: "number of single-character subdirectory levels in the cache",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(params[0]+"."+"levels", altsrc.StringSourcer(cfg.Source)),
			yaml.YAML("cache.levels", altsrc.StringSourcer(cfg.Source)),
		),
		Value: file.DefaultLevels,
	}
}

// NewBucketFlags construct the S3 flags shared by commands that can operate
// against an S3-backed cache instead of the local disk.
func NewBucketFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "bucket",
			Usage: "S3 bucket holding the cache. Selects the S3 store",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("CACHED_BUCKET"),
				yaml.YAML("cache.bucket", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "key prefix within the S3 bucket",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("cache.prefix", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "cached",
		},
		&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region override for the S3 store",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile for the S3 store",
		},
	}
}
