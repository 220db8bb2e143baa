package actor

import "fmt"

type (
	// Handler supplies the domain behavior of an actor. The runtime owns the
	// state value between invocations and hands it to exactly one callback at
	// a time, on the actor's own goroutine.
	Handler[S any] interface {
		// Init produces the initial state. An error aborts Start.
		Init(hc HandlerCtx) (S, error)
		// HandleCall computes the reply to a request and the next state.
		HandleCall(hc HandlerCtx, req any, state S) (any, S, error)
		// HandleCast computes the next state for a fire-and-forget request.
		HandleCast(hc HandlerCtx, req any, state S) (S, error)
	}

	// Terminator is optionally implemented by handlers that need to observe
	// termination. It runs once, on the actor's goroutine, with the last
	// good state.
	Terminator[S any] interface {
		Terminate(hc HandlerCtx, reason error, state S)
	}
)

// HandlerFuncs builds a Handler from plain functions. A nil CallFunc or
// CastFunc rejects the respective requests as malformed.
type HandlerFuncs[S any] struct {
	InitFunc      func(hc HandlerCtx) (S, error)
	CallFunc      func(hc HandlerCtx, req any, state S) (any, S, error)
	CastFunc      func(hc HandlerCtx, req any, state S) (S, error)
	TerminateFunc func(hc HandlerCtx, reason error, state S)
}

func (f HandlerFuncs[S]) Init(hc HandlerCtx) (s S, err error) {
	if f.InitFunc == nil {
		return s, nil
	}
	return f.InitFunc(hc)
}

func (f HandlerFuncs[S]) HandleCall(hc HandlerCtx, req any, state S) (any, S, error) {
	if f.CallFunc == nil {
		return nil, state, fmt.Errorf("%w: no call handler for %s", ErrMalformedRequest, msgTypeOf(req))
	}
	return f.CallFunc(hc, req, state)
}

func (f HandlerFuncs[S]) HandleCast(hc HandlerCtx, req any, state S) (S, error) {
	if f.CastFunc == nil {
		return state, fmt.Errorf("%w: no cast handler for %s", ErrMalformedRequest, msgTypeOf(req))
	}
	return f.CastFunc(hc, req, state)
}

func (f HandlerFuncs[S]) Terminate(hc HandlerCtx, reason error, state S) {
	if f.TerminateFunc != nil {
		f.TerminateFunc(hc, reason, state)
	}
}

// Malformed wraps err so the runtime reports it to the sender without
// terminating the actor.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRequest, fmt.Sprintf(format, args...))
}

var (
	_ Handler[any]    = HandlerFuncs[any]{}
	_ Terminator[any] = HandlerFuncs[any]{}
)
