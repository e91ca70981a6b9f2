package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transync/transync/internal/filesync"
)

func TestRunPool_OrderAndLimit(t *testing.T) {
	var descs []filesync.FileDescriptor
	for i := range 20 {
		descs = append(descs, filesync.FileDescriptor{ID: fmt.Sprint(i), LocalPath: fmt.Sprintf("f%d.yml", i)})
	}

	var inFlight, peak atomic.Int32
	results := runPool(context.Background(), 3, descs, func(_ context.Context, d filesync.FileDescriptor) *filesync.Result {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return &filesync.Result{Descriptor: d, OK: true}
	})

	require.Len(t, results, len(descs))
	for i, res := range results {
		assert.Equal(t, descs[i].ID, res.Descriptor.ID)
	}
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRunPool_SamePathSerialized(t *testing.T) {
	descs := []filesync.FileDescriptor{
		{ID: "1", LocalPath: "shared.yml"},
		{ID: "2", LocalPath: "other.yml"},
		{ID: "3", LocalPath: "shared.yml"},
		{ID: "4", LocalPath: "shared.yml"},
	}

	var mu sync.Mutex
	active := map[string]bool{}
	var order []string

	results := runPool(context.Background(), 4, descs, func(_ context.Context, d filesync.FileDescriptor) *filesync.Result {
		mu.Lock()
		assert.False(t, active[d.LocalPath], "concurrent run on %s", d.LocalPath)
		active[d.LocalPath] = true
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		active[d.LocalPath] = false
		if d.LocalPath == "shared.yml" {
			order = append(order, d.ID)
		}
		mu.Unlock()
		return &filesync.Result{Descriptor: d}
	})

	require.Len(t, results, 4)
	assert.Equal(t, []string{"1", "3", "4"}, order)
}

func TestRunPool_Empty(t *testing.T) {
	results := runPool(context.Background(), 0, nil, func(context.Context, filesync.FileDescriptor) *filesync.Result {
		t.Fatal("unexpected call")
		return nil
	})
	assert.Empty(t, results)
}
