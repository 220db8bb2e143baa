package bucket

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/gensrv-go/core/actor"
)

func newTestGroup(t *testing.T, reg *actor.Registry, shards int) *Group {
	t.Helper()
	g, err := StartGroup(GroupOptions{
		Context:  t.Context(),
		Registry: reg,
		Prefix:   "test",
		Shards:   shards,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Stop(context.Background()) })
	return g
}

func TestGroup_routes_keys(t *testing.T) {
	ctx := t.Context()
	reg := actor.NewRegistry()
	g := newTestGroup(t, reg, 4)

	require.Equal(t, []string{"test-0", "test-1", "test-2", "test-3"}, reg.Names())
	require.Equal(t, reg.Names(), g.Shards())

	want := map[string]any{}
	for i := range 100 {
		key := fmt.Sprintf("key-%d", i)
		want[key] = i
		require.NoError(t, g.Put(ctx, key, i))
	}

	for key, v := range want {
		got, ok, err := g.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, v, got)

		// the owning shard holds the key on its own
		got, ok, err = g.Shard(key).Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, v, got)
	}

	snap, err := g.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, want, snap)

	n, err := g.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, len(want), n)

	require.NoError(t, g.Delete(ctx, "key-1"))
	_, ok, err := g.Get(ctx, "key-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGroup_joins_running_shards(t *testing.T) {
	ctx := t.Context()
	reg := actor.NewRegistry()
	g1 := newTestGroup(t, reg, 2)
	require.NoError(t, g1.Put(ctx, "shared", "yes"))

	g2 := newTestGroup(t, reg, 2)
	v, ok, err := g2.Get(ctx, "shared")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "yes", v)
}

func TestGroup_stop_unregisters(t *testing.T) {
	reg := actor.NewRegistry()
	g := newTestGroup(t, reg, 3)
	require.Equal(t, 3, reg.Len())

	require.NoError(t, g.Stop(t.Context()))
	require.Zero(t, reg.Len())
}
