// Package bucket implements a key/value store as an actor handler.
//
// The bucket's map lives inside a single actor; reads are calls and writes
// are casts, so a caller's own Put followed by Get always observes the Put:
//
//	b, err := bucket.Start(actor.Options{}, bucket.Config{})
//	_ = b.Put(ctx, "a", 1)
//	v, ok, err := b.Get(ctx, "a") // 1, true, nil
//
// A missing key is reported as absent (ok == false), never as an error.
// Unknown requests and empty keys are rejected with
// [actor.ErrMalformedRequest] and leave the bucket running.
//
// [Group] spreads keys over several bucket actors using rendezvous hashing.
package bucket
