package bucket

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"go.uber.org/multierr"

	"github.com/codewandler/gensrv-go/core/actor"
	"github.com/codewandler/gensrv-go/internal/hrw"
)

type GroupOptions struct {
	Context  context.Context
	Logger   *slog.Logger
	Metrics  actor.ActorMetrics
	Registry *actor.Registry
	// Prefix names the shards "<prefix>-<i>". Defaults to "bucket".
	Prefix string
	// Shards is the number of bucket actors. Defaults to 4.
	Shards int
	// Seed namespaces key routing. Defaults to Prefix.
	Seed string
}

// Group spreads keys over a fixed set of bucket actors. Every key is owned
// by exactly one shard, so per-key ordering is that of a single bucket.
type Group struct {
	seed    string
	names   []string
	clients map[string]*Client
}

// StartGroup starts (or joins, if already registered) the shards of a group.
func StartGroup(opts GroupOptions) (*Group, error) {
	if opts.Prefix == "" {
		opts.Prefix = "bucket"
	}
	if opts.Shards <= 0 {
		opts.Shards = 4
	}
	if opts.Seed == "" {
		opts.Seed = opts.Prefix
	}
	if opts.Registry == nil {
		opts.Registry = actor.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	g := &Group{
		seed:    opts.Seed,
		names:   make([]string, 0, opts.Shards),
		clients: make(map[string]*Client, opts.Shards),
	}

	for i := range opts.Shards {
		name := fmt.Sprintf("%s-%d", opts.Prefix, i)
		ref, err := opts.Registry.Ensure(name, func() (*actor.Ref, error) {
			return actor.Start[State](actor.Options{
				Context:  opts.Context,
				Logger:   opts.Logger,
				Metrics:  opts.Metrics,
				Name:     name,
				Registry: opts.Registry,
			}, NewHandler(Config{}))
		})
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("start shard %s: %w", name, err), g.Stop(context.Background()))
		}
		g.names = append(g.names, name)
		g.clients[name] = NewClient(ref)
	}

	opts.Logger.Info("bucket group started", slog.String("prefix", opts.Prefix), slog.Int("shards", opts.Shards))
	return g, nil
}

// Shard returns the client owning key.
func (g *Group) Shard(key string) *Client {
	name, _ := hrw.Pick(key, g.names, g.seed)
	return g.clients[name]
}

// Shards returns the shard names in start order.
func (g *Group) Shards() []string { return append([]string(nil), g.names...) }

func (g *Group) Get(ctx context.Context, key string) (any, bool, error) {
	return g.Shard(key).Get(ctx, key)
}

func (g *Group) Put(ctx context.Context, key string, v any) error {
	return g.Shard(key).Put(ctx, key, v)
}

func (g *Group) Delete(ctx context.Context, key string) error {
	return g.Shard(key).Delete(ctx, key)
}

// Snapshot merges the snapshots of all shards. Shards are read one after
// another, so the result is not a point-in-time view across shards.
func (g *Group) Snapshot(ctx context.Context) (map[string]any, error) {
	out := make(map[string]any)
	for _, name := range g.names {
		snap, err := g.clients[name].Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", name, err)
		}
		maps.Copy(out, snap)
	}
	return out, nil
}

func (g *Group) Len(ctx context.Context) (n int, err error) {
	for _, name := range g.names {
		l, err := g.clients[name].Len(ctx)
		if err != nil {
			return 0, fmt.Errorf("len %s: %w", name, err)
		}
		n += l
	}
	return n, nil
}

// Stop stops every shard and waits for them until ctx is done.
func (g *Group) Stop(ctx context.Context) (err error) {
	for _, name := range g.names {
		if stopErr := g.clients[name].Stop(ctx); stopErr != nil {
			err = multierr.Append(err, fmt.Errorf("stop %s: %w", name, stopErr))
		}
	}
	return err
}
