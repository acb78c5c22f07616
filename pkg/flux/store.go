package flux

import (
	"context"
	"errors"
)

// AssignFunc combines the current state with an incoming update and returns
// the state to store. It must not mutate either argument.
type AssignFunc[S any] func(old, update S) (S, error)

// Listener receives the state after every change notification.
type Listener[S any] func(state S)

// ChangeHook observes a completed state transition. Hook errors are reported
// to the caller of the update; the transition itself is not rolled back.
type ChangeHook[S any] func(ctx context.Context, previous, next S) error

// Option configures a Store.
type Option[S any] func(*Store[S])

// WithChangeHook appends hook to the hooks run after listeners.
func WithChangeHook[S any](hook ChangeHook[S]) Option[S] {
	return func(s *Store[S]) {
		if hook != nil {
			s.hooks = append(s.hooks, hook)
		}
	}
}

// Store is an observable state holder: one state slot, an update entry point
// that delegates combination to an AssignFunc, and change listeners.
//
// A Store is not safe for concurrent mutation. Callers serialise updates the
// same way a single event loop would.
type Store[S any] struct {
	state     S
	assign    AssignFunc[S]
	listeners []*subscription[S]
	hooks     []ChangeHook[S]
}

type subscription[S any] struct {
	listener Listener[S]
	active   bool
}

// New builds a Store holding initial. A nil assign makes SetState replace the
// state with the update.
func New[S any](initial S, assign AssignFunc[S], opts ...Option[S]) *Store[S] {
	s := &Store[S]{state: initial, assign: assign}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State returns the current state.
func (s *Store[S]) State() S {
	if s == nil {
		var zero S
		return zero
	}
	return s.state
}

// SetState is SetStateContext with a background context.
func (s *Store[S]) SetState(update S) error {
	return s.SetStateContext(context.Background(), update)
}

// SetStateContext replaces the state with assign(state, update) and notifies
// listeners. When assign fails the state is left unchanged and no listener
// runs.
func (s *Store[S]) SetStateContext(ctx context.Context, update S) error {
	if s == nil {
		return errors.New("flux: store is nil")
	}
	next := update
	if s.assign != nil {
		var err error
		next, err = s.assign(s.state, update)
		if err != nil {
			return err
		}
	}
	return s.commit(ctx, next)
}

// ReplaceState stores state as is, bypassing the assign function, and
// notifies listeners.
func (s *Store[S]) ReplaceState(state S) error {
	return s.ReplaceStateContext(context.Background(), state)
}

// ReplaceStateContext is ReplaceState with an explicit context for hooks.
func (s *Store[S]) ReplaceStateContext(ctx context.Context, state S) error {
	if s == nil {
		return errors.New("flux: store is nil")
	}
	return s.commit(ctx, state)
}

// ForceUpdate notifies listeners with the current state without changing it.
func (s *Store[S]) ForceUpdate() {
	if s == nil {
		return
	}
	s.notify(s.state)
}

// Subscribe registers listener and returns a function removing it. The
// returned function is idempotent.
func (s *Store[S]) Subscribe(listener Listener[S]) func() {
	if s == nil || listener == nil {
		return func() {}
	}
	sub := &subscription[S]{listener: listener, active: true}
	s.listeners = append(s.listeners, sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		for i, candidate := range s.listeners {
			if candidate == sub {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				break
			}
		}
	}
}

// ListenerCount returns the number of active listeners.
func (s *Store[S]) ListenerCount() int {
	if s == nil {
		return 0
	}
	return len(s.listeners)
}

func (s *Store[S]) commit(ctx context.Context, next S) error {
	if ctx == nil {
		ctx = context.Background()
	}
	previous := s.state
	s.state = next
	s.notify(next)

	var errs []error
	for _, hook := range s.hooks {
		if err := hook(ctx, previous, next); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store[S]) notify(state S) {
	if len(s.listeners) == 0 {
		return
	}
	snapshot := append([]*subscription[S](nil), s.listeners...)
	for _, sub := range snapshot {
		if sub.active {
			sub.listener(state)
		}
	}
}
