package actor

import (
	"context"
	"log/slog"
)

type (
	// HandlerCtx is passed to every handler callback. Its context is
	// cancelled when the actor terminates.
	HandlerCtx interface {
		context.Context
		Log() *slog.Logger
		// Self returns the handle of the actor running the handler.
		Self() *Ref
		// Schedule runs f outside the mailbox loop. f must not touch state.
		// It receives its own HandlerCtx, which may Call the actor itself;
		// the handler's hc must not be used for that.
		Schedule(f TaskFunc)
	}

	// TaskFunc is background work started through HandlerCtx.Schedule.
	TaskFunc func(tc HandlerCtx)
)

type selfKey struct{}

type handlerCtx struct {
	context.Context
	// base is the actor context without the self marker
	base  context.Context
	log   *slog.Logger
	self  *Ref
	sched Scheduler
}

// newHandlerCtx returns the context handed to loop callbacks. Calls made
// with it to self are refused, since the loop would wait on itself.
func newHandlerCtx(ctx context.Context, log *slog.Logger, self *Ref, sched Scheduler) *handlerCtx {
	return &handlerCtx{
		Context: context.WithValue(ctx, selfKey{}, self),
		base:    ctx,
		log:     log,
		self:    self,
		sched:   sched,
	}
}

func (hc *handlerCtx) Schedule(f TaskFunc) {
	tc := &handlerCtx{
		Context: hc.base,
		base:    hc.base,
		log:     hc.log,
		self:    hc.self,
		sched:   hc.sched,
	}
	hc.sched.Schedule(func() { f(tc) })
}

func (hc *handlerCtx) Log() *slog.Logger { return hc.log }
func (hc *handlerCtx) Self() *Ref        { return hc.self }

// callerOf reports the actor whose loop derived ctx, if any.
func callerOf(ctx context.Context) *Ref {
	r, _ := ctx.Value(selfKey{}).(*Ref)
	return r
}

var _ HandlerCtx = (*handlerCtx)(nil)
