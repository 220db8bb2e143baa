package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type (
	OnPanic func(recovered any, stack []byte, msg any)
)

type Options struct {
	// Context bounds the actor's lifetime. Cancelling it stops the actor.
	Context context.Context
	Logger  *slog.Logger
	OnPanic OnPanic
	Metrics ActorMetrics
	// MaxConcurrentTasks caps the number of tasks run via HandlerCtx.Schedule.
	// If 0 or negative, it defaults to 32.
	MaxConcurrentTasks int
	// MailboxHint pre-sizes the mailbox. The mailbox itself is unbounded.
	MailboxHint int
	// Name labels the actor. Together with Registry it registers the
	// actor under that name for its lifetime.
	Name     string
	Registry *Registry
}

type binding struct {
	registry *Registry
	name     string
}

// Ref is the handle of a running actor. All copies of a *Ref address the
// same mailbox.
type Ref struct {
	id      string
	name    string
	log     *slog.Logger
	mailbox *mailbox
	metrics ActorMetrics
	onPanic OnPanic

	stopOnce sync.Once
	done     chan struct{}

	mu       sync.Mutex
	err      error
	exited   bool
	bindings []binding
}

// Start runs h.Init on the calling goroutine and, if it succeeds, starts the
// actor's loop. An Init failure is returned wrapped in ErrInitFailure and
// leaves nothing running.
func Start[S any](opts Options, h Handler[S]) (*Ref, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: handler is nil", ErrInitFailure)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopActorMetrics()
	}
	if opts.MaxConcurrentTasks <= 0 {
		opts.MaxConcurrentTasks = 32
	}
	if opts.MailboxHint <= 0 {
		opts.MailboxHint = 64
	}

	id := gonanoid.Must()
	log := opts.Logger.With(slog.String("actor", id))
	if opts.Name != "" {
		log = log.With(slog.String("name", opts.Name))
	}
	if opts.OnPanic == nil {
		opts.OnPanic = func(recovered any, stack []byte, msg any) {
			log.Error("actor panicked", slog.Any("recovered", recovered), slog.String("stack", string(stack)), slog.Any("msg", msg))
		}
	}

	r := &Ref{
		id:      id,
		name:    opts.Name,
		log:     log,
		mailbox: newMailbox(opts.MailboxHint),
		metrics: opts.Metrics,
		onPanic: opts.OnPanic,
		done:    make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(opts.Context)
	sched := newScheduler(ctx, log, opts.MaxConcurrentTasks, id, opts.Metrics)
	hc := newHandlerCtx(ctx, log, r, sched)

	var state S
	err := r.guarded(hc, func(hc HandlerCtx) (err error) {
		state, err = h.Init(hc)
		return err
	})
	if err != nil {
		cancel()
		sched.Wait()
		r.mailbox.dispose()
		log.Debug("actor init failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrInitFailure, err)
	}

	if opts.Registry != nil && opts.Name != "" {
		if err := opts.Registry.Register(opts.Name, r); err != nil {
			cancel()
			sched.Wait()
			r.mailbox.dispose()
			return nil, err
		}
	}

	opts.Metrics.ActorsRunning(1)

	// parent cancellation stops the actor; loop exit cancels ctx too
	context.AfterFunc(ctx, func() { r.terminate(ErrStopped) })

	go run(r, hc, h, state, cancel, sched)

	log.Debug("actor started")
	return r, nil
}

// ID returns the unique id assigned at Start.
func (r *Ref) ID() string { return r.id }

// Name returns the name given in Options, if any.
func (r *Ref) Name() string { return r.name }

// Done is closed when the actor's loop has terminated.
func (r *Ref) Done() <-chan struct{} { return r.done }

// Err returns the reason the actor terminated, or nil while it is running.
func (r *Ref) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Stop terminates the actor. Envelopes still queued are failed with
// ErrDeadActor. Stop waits for the loop to exit or ctx to be done and is
// safe to call more than once.
func (r *Ref) Stop(ctx context.Context) error {
	r.terminate(ErrStopped)
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call sends req and blocks until its reply arrives, the actor dies, or ctx
// is done. A call abandoned through ctx stays queued and is still processed;
// its reply is discarded.
func (r *Ref) Call(ctx context.Context, req any) (any, error) {
	if callerOf(ctx) == r {
		return nil, fmt.Errorf("%w: %s", ErrSelfCall, msgTypeOf(req))
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("call failed: %w", err)
	}

	e := &envelope{kind: kindCall, msg: req, reply: make(chan reply, 1)}
	if err := r.mailbox.push(e); err != nil {
		return nil, err
	}

	select {
	case rep := <-e.reply:
		return rep.result, rep.err
	case <-r.done:
		// replies are always written before done is closed
		select {
		case rep := <-e.reply:
			return rep.result, rep.err
		default:
			return nil, ErrDeadActor
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("call failed: %w", ctx.Err())
	}
}

// Cast enqueues req and returns without waiting for it to be processed.
// It only fails when the actor is no longer running.
func (r *Ref) Cast(ctx context.Context, req any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cast failed: %w", err)
	}
	return r.mailbox.push(&envelope{kind: kindCast, msg: req})
}

func (r *Ref) String() string {
	if r.name != "" {
		return r.name + "/" + r.id
	}
	return r.id
}

// ---- internals ----

// terminate records reason and closes the mailbox. Envelopes that never
// reached the loop are failed with ErrDeadActor.
func (r *Ref) terminate(reason error) {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.err = reason
		r.mu.Unlock()

		for _, e := range r.mailbox.dispose() {
			e.respond(nil, ErrDeadActor)
		}
	})
}

// bind records a registry entry to drop at termination. It fails once the
// loop has exited.
func (r *Ref) bind(reg *Registry, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exited {
		return ErrDeadActor
	}
	r.bindings = append(r.bindings, binding{registry: reg, name: name})
	return nil
}

func (r *Ref) unbindAll() {
	r.mu.Lock()
	r.exited = true
	bs := r.bindings
	r.bindings = nil
	r.mu.Unlock()

	for _, b := range bs {
		b.registry.Unregister(b.name, r)
	}
}

// guarded runs fn, converting a panic into an error.
func (r *Ref) guarded(hc HandlerCtx, fn func(HandlerCtx) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onPanic(rec, debug.Stack(), nil)
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(hc)
}

func run[S any](r *Ref, hc *handlerCtx, h Handler[S], state S, cancel context.CancelFunc, sched Scheduler) {
	defer close(r.done)

	for {
		r.metrics.MailboxDepth(r.id, r.mailbox.len())

		e, err := r.mailbox.pop()
		if err != nil {
			break
		}

		next, err := step(r, hc, h, state, e)
		if err != nil {
			r.log.Error("actor handler failed", slog.Any("error", err))
			r.terminate(err)
			break
		}
		state = next
	}

	reason := r.Err()
	if t, ok := h.(Terminator[S]); ok {
		_ = r.guarded(hc, func(hc HandlerCtx) error {
			t.Terminate(hc, reason, state)
			return nil
		})
	}

	cancel()
	sched.Wait()
	r.unbindAll()
	r.metrics.ActorsRunning(-1)
	r.metrics.ActorTerminated(r.id)

	if errors.Is(reason, ErrStopped) {
		r.log.Debug("actor stopped")
	} else {
		r.log.Info("actor terminated", slog.Any("reason", reason))
	}
}

// step processes exactly one envelope. A non-nil error is fatal to the actor
// and has already been delivered to the envelope's sender.
func step[S any](r *Ref, hc HandlerCtx, h Handler[S], state S, e *envelope) (next S, err error) {
	mt := msgTypeOf(e.msg)
	kind := e.kind.String()
	defer r.metrics.MessageDuration(mt).ObserveDuration()

	defer func() {
		if rec := recover(); rec != nil {
			r.onPanic(rec, debug.Stack(), e.msg)
			r.metrics.MessagePanic(mt)
			r.metrics.MessageProcessed(mt, kind, false)
			err = fmt.Errorf("%w: %s %s panicked: %v", ErrHandlerFailure, kind, mt, rec)
			next = state
			e.respond(nil, err)
		}
	}()

	var (
		result any
		herr   error
	)
	switch e.kind {
	case kindCall:
		result, next, herr = h.HandleCall(hc, e.msg, state)
	default:
		next, herr = h.HandleCast(hc, e.msg, state)
	}

	switch {
	case herr == nil:
		r.metrics.MessageProcessed(mt, kind, true)
		e.respond(result, nil)
		return next, nil
	case errors.Is(herr, ErrMalformedRequest):
		r.metrics.MessageProcessed(mt, kind, false)
		if e.kind == kindCast {
			r.log.Warn("rejected malformed cast", slog.String("msg_type", mt), slog.Any("error", herr))
		}
		e.respond(nil, herr)
		return state, nil
	default:
		r.metrics.MessageProcessed(mt, kind, false)
		err = fmt.Errorf("%w: %s %s: %w", ErrHandlerFailure, kind, mt, herr)
		e.respond(nil, err)
		return state, err
	}
}
