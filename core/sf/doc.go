// Package sf provides a typed single-flight group.
//
// Only one execution of a function is in flight for a given key at a time;
// concurrent callers with the same key wait for it and share its result.
// The actor registry uses it so that concurrent lookups of a missing named
// actor start that actor exactly once:
//
//	starts := sf.New[actor.Ref]()
//	ref, err := starts.Do("bucket-0", func() (*actor.Ref, error) {
//	    return actor.Start(opts, handler)
//	})
package sf
