package bucket

import (
	"errors"
	"log/slog"
	"maps"

	"github.com/codewandler/gensrv-go/core/actor"
)

var ErrEmptyKey = errors.New("empty key")

// State is the bucket's map. It is owned by the bucket actor.
type State map[string]any

// Config is the construction-time configuration of a bucket.
type Config struct {
	// Seed is copied into the initial state.
	Seed map[string]any
}

// Handler implements actor.Handler for a bucket.
type Handler struct {
	cfg Config
}

func NewHandler(cfg Config) *Handler { return &Handler{cfg: cfg} }

func (h *Handler) Init(hc actor.HandlerCtx) (State, error) {
	st := make(State, len(h.cfg.Seed))
	for k, v := range h.cfg.Seed {
		if k == "" {
			return nil, ErrEmptyKey
		}
		st[k] = v
	}
	hc.Log().Debug("bucket initialized", slog.Int("keys", len(st)))
	return st, nil
}

func (h *Handler) HandleCall(_ actor.HandlerCtx, req any, st State) (any, State, error) {
	switch m := req.(type) {
	case Get:
		v, ok := st[m.Key]
		return GetResult{Value: v, Found: ok}, st, nil
	case Snapshot:
		return map[string]any(maps.Clone(st)), st, nil
	case Len:
		return len(st), st, nil
	default:
		return nil, st, actor.Malformed("bucket cannot answer %T", req)
	}
}

func (h *Handler) HandleCast(_ actor.HandlerCtx, req any, st State) (State, error) {
	switch m := req.(type) {
	case Put:
		if m.Key == "" {
			return st, actor.Malformed("put: %s", ErrEmptyKey)
		}
		st[m.Key] = m.Value
		return st, nil
	case Delete:
		delete(st, m.Key)
		return st, nil
	default:
		return st, actor.Malformed("bucket cannot apply %T", req)
	}
}

var _ actor.Handler[State] = (*Handler)(nil)
