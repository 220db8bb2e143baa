package bucket

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewandler/gensrv-go/core/actor"
	"github.com/codewandler/gensrv-go/ports/kv"
)

func newTestBucket(t *testing.T, cfg Config) *Client {
	t.Helper()
	b, err := Start(actor.Options{Context: t.Context()}, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Stop(context.Background()) })
	return b
}

func TestBucket_scenario(t *testing.T) {
	ctx := t.Context()
	b := newTestBucket(t, Config{})

	require.NoError(t, b.Put(ctx, "a", 1))
	require.NoError(t, b.Put(ctx, "b", 2))

	v, ok, err := b.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok, err = b.Get(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, v)

	v, ok, err = b.Get(ctx, "c")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, v)

	snap, err := b.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": 1, "b": 2}, snap)
}

func TestBucket_last_write_wins(t *testing.T) {
	ctx := t.Context()
	b := newTestBucket(t, Config{})

	for i := range 100 {
		require.NoError(t, b.Put(ctx, "k", i))
		v, ok, err := b.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestBucket_snapshot_is_a_copy(t *testing.T) {
	ctx := t.Context()
	b := newTestBucket(t, Config{Seed: map[string]any{"x": "y"}})

	snap, err := b.Snapshot(ctx)
	require.NoError(t, err)
	snap["x"] = "mutated"
	snap["new"] = true

	v, _, err := b.Get(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, "y", v)

	n, err := b.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestBucket_delete(t *testing.T) {
	ctx := t.Context()
	b := newTestBucket(t, Config{Seed: map[string]any{"a": 1}})

	require.NoError(t, b.Delete(ctx, "a"))
	require.NoError(t, b.Delete(ctx, "never-there"))

	_, ok, err := b.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBucket_malformed_requests(t *testing.T) {
	ctx := t.Context()
	b := newTestBucket(t, Config{})

	_, err := b.Ref().Call(ctx, Put{Key: "a", Value: 1})
	require.ErrorIs(t, err, actor.ErrMalformedRequest)

	require.ErrorIs(t, b.Put(ctx, "", 1), actor.ErrMalformedRequest)
	require.NoError(t, b.Ref().Cast(ctx, Put{Key: "", Value: 1}))
	require.NoError(t, b.Ref().Cast(ctx, Get{Key: "a"}))

	// still alive and empty
	n, err := b.Len(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestBucket_init_rejects_empty_seed_key(t *testing.T) {
	b, err := Start(actor.Options{}, Config{Seed: map[string]any{"": 1}})
	require.Nil(t, b)
	require.ErrorIs(t, err, actor.ErrInitFailure)
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestBucket_concurrent_writers(t *testing.T) {
	ctx := t.Context()
	b := newTestBucket(t, Config{})

	const writers, keys = 8, 50
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range keys {
				key := fmt.Sprintf("w%d-k%d", w, k)
				assert.NoError(t, b.Put(ctx, key, k))
				v, ok, err := b.Get(ctx, key)
				assert.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, k, v)
			}
		}()
	}
	wg.Wait()

	n, err := b.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, writers*keys, n)
}

func TestBucket_dead_after_stop(t *testing.T) {
	ctx := t.Context()
	b := newTestBucket(t, Config{})
	require.NoError(t, b.Stop(ctx))

	_, _, err := b.Get(ctx, "a")
	require.ErrorIs(t, err, actor.ErrDeadActor)
	require.ErrorIs(t, b.Put(ctx, "a", 1), actor.ErrDeadActor)
}

func TestBucket_store(t *testing.T) {
	type Foo struct {
		Name string
		Age  int
	}
	ctx := t.Context()
	s := newTestBucket(t, Config{}).Store()

	_, err := kv.Get[Foo](ctx, s, "foobar")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, kv.Put(ctx, s, "p1", Foo{Name: "P1", Age: 10}))
	require.NoError(t, kv.Put(ctx, s, "p2", Foo{Name: "P2", Age: 20}))

	loaded, err := kv.Get[Foo](ctx, s, "p1")
	require.NoError(t, err)
	require.Equal(t, Foo{Name: "P1", Age: 10}, loaded)

	require.NoError(t, s.Delete(ctx, "p1"))
	_, err = kv.Get[Foo](ctx, s, "p1")
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestBucket_store_foreign_value(t *testing.T) {
	ctx := t.Context()
	b := newTestBucket(t, Config{Seed: map[string]any{"raw": 42}})

	_, err := b.Store().Get(ctx, "raw")
	require.ErrorContains(t, err, "not a kv entry")
}
