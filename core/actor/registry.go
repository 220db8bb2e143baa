package actor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/codewandler/gensrv-go/core/sf"
)

// Registry maps names to running actors. An actor registered through
// Options.Registry, Register or Ensure is removed again when it terminates.
// The zero value is not usable; create one with NewRegistry.
type Registry struct {
	mu     sync.RWMutex
	refs   map[string]*Ref
	starts *sf.Singleflight[Ref]
}

func NewRegistry() *Registry {
	return &Registry{
		refs:   make(map[string]*Ref),
		starts: sf.New[Ref](),
	}
}

// Register binds name to ref until ref terminates.
func (r *Registry) Register(name string, ref *Ref) error {
	if name == "" {
		return ErrNameEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.refs[name]; ok {
		if cur == ref {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrNameTaken, name)
	}
	if err := ref.bind(r, name); err != nil {
		return err
	}
	r.refs[name] = ref
	return nil
}

// Unregister removes name if it is still bound to ref.
func (r *Registry) Unregister(name string, ref *Ref) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.refs[name]; ok && cur == ref {
		delete(r.refs, name)
	}
}

// Lookup returns the actor registered under name.
func (r *Registry) Lookup(name string) (*Ref, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.refs[name]
	return ref, ok
}

// Names returns all registered names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.refs))
	for name := range r.refs {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered actors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.refs)
}

// Ensure returns the actor registered under name, starting it with start if
// there is none. Concurrent Ensure calls for the same name share a single
// start. The started actor is registered under name if start did not do so.
func (r *Registry) Ensure(name string, start func() (*Ref, error)) (*Ref, error) {
	if ref, ok := r.Lookup(name); ok {
		return ref, nil
	}
	return r.starts.Do(name, func() (*Ref, error) {
		if ref, ok := r.Lookup(name); ok {
			return ref, nil
		}
		ref, err := start()
		if err != nil {
			return nil, err
		}
		if err := r.Register(name, ref); err != nil {
			_ = ref.Stop(context.Background())
			return nil, err
		}
		return ref, nil
	})
}

// StopAll stops every registered actor and returns the combined errors of
// those that did not stop before ctx was done.
func (r *Registry) StopAll(ctx context.Context) (err error) {
	r.mu.RLock()
	refs := make([]*Ref, 0, len(r.refs))
	for _, ref := range r.refs {
		refs = append(refs, ref)
	}
	r.mu.RUnlock()

	for _, ref := range refs {
		ref.terminate(ErrStopped)
	}
	for _, ref := range refs {
		if stopErr := ref.Stop(ctx); stopErr != nil {
			err = multierr.Append(err, fmt.Errorf("stop %s: %w", ref, stopErr))
		}
	}
	return err
}
