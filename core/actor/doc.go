// Package actor provides a generic, mailbox-based actor runtime.
//
// Each actor:
//   - Runs on its own goroutine and owns a state value of type S
//   - Processes envelopes strictly one at a time, in mailbox (FIFO) order
//   - Delegates behavior to a [Handler] (Init, HandleCall, HandleCast)
//   - Can schedule background tasks via [HandlerCtx.Schedule]
//
// # Starting Actors
//
// [Start] runs Init on the calling goroutine and only then starts the loop:
//
//	ref, err := actor.Start[int](actor.Options{Name: "counter"}, actor.HandlerFuncs[int]{
//	    CallFunc: func(hc actor.HandlerCtx, req any, n int) (any, int, error) {
//	        return n, n, nil
//	    },
//	    CastFunc: func(hc actor.HandlerCtx, req any, n int) (int, error) {
//	        return n + 1, nil
//	    },
//	})
//
// An Init error or panic is returned wrapped in [ErrInitFailure] and leaves
// nothing running.
//
// # Sending Messages
//
// Use [Call] (or [Ref.Call]) to wait for a reply:
//
//	n, err := actor.Call[int](ctx, ref, getCount{})
//
// Use [Cast] (or [Ref.Cast]) to enqueue without waiting. The mailbox is
// unbounded, so Cast never blocks on backlog.
//
// Every call gets its own reply channel. ctx bounds how long the caller
// waits; a call abandoned that way is still processed and its reply dropped.
//
// # Failure Semantics
//
// A handler that returns an error or panics terminates its actor. The caller
// that triggered it receives an error wrapping [ErrHandlerFailure]; every
// queued and later Call or Cast receives [ErrDeadActor]. Errors built with
// [Malformed] (wrapping [ErrMalformedRequest]) are reported to the sender
// and leave the actor and its state untouched.
//
// A handler that calls its own actor through its [HandlerCtx] gets
// [ErrSelfCall] instead of deadlocking.
//
// # Lifecycle
//
// [Ref.Stop] and cancellation of [Options.Context] stop the actor with
// [ErrStopped]. Handlers implementing [Terminator] see the last good state.
// [Ref.Done] is closed after scheduled tasks have returned and the actor
// has left its registry.
//
// # Registry
//
// A [Registry] maps names to running actors. Actors started with
// Options.Name and Options.Registry are registered for their lifetime;
// [Registry.Ensure] starts a named actor at most once under concurrency.
//
// # Background Tasks
//
// Handlers can schedule work that must not block the mailbox:
//
//	hc.Schedule(func(tc actor.HandlerCtx) {
//	    n, err := actor.Call[int](tc, tc.Self(), getCount{})
//	    ...
//	})
//
// Tasks are bounded by Options.MaxConcurrentTasks and awaited on termination.
// A task may call its own actor with the tc it is given.
package actor
