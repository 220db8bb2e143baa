package bucket

import (
	"context"
	"fmt"

	"github.com/codewandler/gensrv-go/core/actor"
	"github.com/codewandler/gensrv-go/ports/kv"
)

// Client is a typed front-end for a bucket actor. It is safe for
// concurrent use; all methods go through the actor's mailbox.
type Client struct {
	ref *actor.Ref
}

// Start starts a bucket actor and returns a client for it.
func Start(opts actor.Options, cfg Config) (*Client, error) {
	ref, err := actor.Start[State](opts, NewHandler(cfg))
	if err != nil {
		return nil, err
	}
	return NewClient(ref), nil
}

// NewClient wraps a running bucket actor.
func NewClient(ref *actor.Ref) *Client { return &Client{ref: ref} }

func (c *Client) Ref() *actor.Ref { return c.ref }

// Get returns the value under key. ok is false if the key is absent.
func (c *Client) Get(ctx context.Context, key string) (v any, ok bool, err error) {
	res, err := actor.Call[GetResult](ctx, c.ref, Get{Key: key})
	if err != nil {
		return nil, false, err
	}
	return res.Value, res.Found, nil
}

// Put binds key to v. It returns as soon as the write is queued.
func (c *Client) Put(ctx context.Context, key string, v any) error {
	if key == "" {
		return fmt.Errorf("%w: put: %w", actor.ErrMalformedRequest, ErrEmptyKey)
	}
	return c.ref.Cast(ctx, Put{Key: key, Value: v})
}

// Delete removes key. It returns as soon as the delete is queued.
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.ref.Cast(ctx, Delete{Key: key})
}

// Snapshot returns a copy of the whole bucket.
func (c *Client) Snapshot(ctx context.Context) (map[string]any, error) {
	return actor.Call[map[string]any](ctx, c.ref, Snapshot{})
}

// Len returns the number of keys in the bucket.
func (c *Client) Len(ctx context.Context) (int, error) {
	return actor.Call[int](ctx, c.ref, Len{})
}

// Stop stops the bucket actor.
func (c *Client) Stop(ctx context.Context) error { return c.ref.Stop(ctx) }

// Store exposes the bucket through the kv.Store port.
func (c *Client) Store() kv.Store { return store{c} }

type store struct{ c *Client }

func (s store) Put(ctx context.Context, key string, entry kv.Entry) error {
	return s.c.Put(ctx, key, entry)
}

func (s store) Get(ctx context.Context, key string) (kv.Entry, error) {
	v, ok, err := s.c.Get(ctx, key)
	if err != nil {
		return kv.Entry{}, err
	}
	if !ok {
		return kv.Entry{}, kv.ErrNotFound
	}
	entry, ok := v.(kv.Entry)
	if !ok {
		return kv.Entry{}, fmt.Errorf("key %s holds %T, not a kv entry", key, v)
	}
	return entry, nil
}

func (s store) Delete(ctx context.Context, key string) error {
	return s.c.Delete(ctx, key)
}

var _ kv.Store = store{}
