// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	awsx "github.com/kwvanderlinde/cachedgo/internal/aws"
	"github.com/kwvanderlinde/cachedgo/cache"
	"github.com/kwvanderlinde/cachedgo/cache/file"
	"github.com/kwvanderlinde/cachedgo/cache/s3"
)

// newFileStore builds the disk store from the --dir/--levels flags.
func newFileStore(cmd *cli.Command) *file.Store {
	return file.New(cmd.String("dir"), cmd.Int("levels"))
}

// newStore picks the store the flags ask for: the S3 store when --bucket is
// set, the disk store otherwise.
func newStore(ctx context.Context, cmd *cli.Command) (cache.Cache, error) {
	bucket := cmd.String("bucket")
	if bucket == "" {
		return newFileStore(cmd), nil
	}

	var opts []awsx.Option
	if p := cmd.String("profile"); p != "" {
		opts = append(opts, awsx.WithProfile(p))
	}
	if r := cmd.String("region"); r != "" {
		opts = append(opts, awsx.WithRegion(r))
	}

	store, err := s3.New(ctx, bucket, cmd.String("prefix"), cmd.Int("levels"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 store: %w", err)
	}
	log.Debugf("using S3 store s3://%s/%s", bucket, cmd.String("prefix"))
	return store, nil
}

// newCache wraps the selected store with the HTTP rules every network-facing
// command wants.
func newCache(ctx context.Context, cmd *cli.Command) (cache.Cache, error) {
	store, err := newStore(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return cache.NewHTTPAware(store), nil
}
