package actor

import (
	"context"
	"fmt"

	"github.com/codewandler/gensrv-go/internal/reflector"
)

// Call sends req to r and converts the reply to OUT. A nil reply yields the
// zero OUT.
//
//	res, err := actor.Call[bucket.GetResult](ctx, ref, bucket.Get{Key: "a"})
func Call[OUT any](ctx context.Context, r *Ref, req any) (out OUT, err error) {
	res, err := r.Call(ctx, req)
	if err != nil {
		return out, err
	}
	if res == nil {
		return out, nil
	}
	v, ok := res.(OUT)
	if !ok {
		return out, fmt.Errorf("unexpected reply type %T for %s, want %s", res, msgTypeOf(req), reflector.TypeInfoFor[OUT]().Short)
	}
	return v, nil
}

// Cast sends req to r without waiting for it to be processed.
func Cast(ctx context.Context, r *Ref, req any) error {
	return r.Cast(ctx, req)
}
