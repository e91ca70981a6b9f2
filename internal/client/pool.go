package client

import (
	"context"

	"github.com/transync/transync/internal/filesync"
	"golang.org/x/sync/errgroup"
)

type syncFunc func(ctx context.Context, d filesync.FileDescriptor) *filesync.Result

// runPool runs fn for every descriptor with at most limit files in flight.
// Descriptors sharing a LocalPath run one after another in the same worker.
// Results come back in input order.
func runPool(ctx context.Context, limit int, descs []filesync.FileDescriptor, fn syncFunc) []*filesync.Result {
	if limit <= 0 {
		limit = 1
	}

	index := make(map[string]int)
	var groups [][]int
	for i, d := range descs {
		g, ok := index[d.LocalPath]
		if !ok {
			g = len(groups)
			index[d.LocalPath] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}

	results := make([]*filesync.Result, len(descs))

	var eg errgroup.Group
	eg.SetLimit(limit)
	for _, group := range groups {
		eg.Go(func() error {
			for _, i := range group {
				results[i] = fn(ctx, descs[i])
			}
			return nil
		})
	}
	_ = eg.Wait()

	return results
}
