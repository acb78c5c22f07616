package immstore

import (
	"context"
	"reflect"
	"time"

	"github.com/goliatone/go-immutable-store/pkg/activity"
	"github.com/goliatone/go-immutable-store/pkg/flux"
	"github.com/goliatone/go-immutable-store/record"
)

// Store holds its state as a persistent record. Updates merge onto the
// current record and replace it; earlier references remain valid and
// unchanged.
//
// Like the flux holder it wraps, a Store expects serialised access.
type Store struct {
	name     string
	template record.Descriptor
	holder   *flux.Store[*record.Record]
	cfg      storeConfig
	emitter  *activity.Emitter
}

// New validates cfg.StateRecord and returns a Store whose state is a
// default-valued instance of it. Validation runs before any state exists;
// an invalid template yields a *TypeError.
func New(cfg Config, opts ...Option) (*Store, error) {
	name := cfg.Name
	if name == "" {
		name = DefaultStoreName
	}

	template, ok := cfg.StateRecord.(record.Descriptor)
	if !ok || isNilValue(template) {
		return nil, &TypeError{Field: "StateRecord", Value: cfg.StateRecord, Store: name}
	}
	initial := template.New()
	if initial == nil {
		return nil, &TypeError{Field: "StateRecord", Value: cfg.StateRecord, Store: name}
	}

	options := applyOptions(opts)
	return &Store{
		name:     name,
		template: template,
		holder:   flux.New(initial, AssignState),
		cfg:      options,
		emitter:  activity.NewEmitter(options.hooks, options.activity),
	}, nil
}

// AssignState merges newState onto oldState. A nil oldState is first
// replaced by a default instance of newState's kind, so the merge never runs
// against a foreign record. Neither argument is modified.
func AssignState(oldState, newState *record.Record) (*record.Record, error) {
	if newState == nil {
		return oldState, nil
	}
	if oldState == nil {
		oldState = newState.Kind().New()
	}
	return oldState.Merge(newState)
}

// Name returns the configured store name.
func (s *Store) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Template returns the state template the store was built with.
func (s *Store) Template() record.Descriptor {
	if s == nil {
		return nil
	}
	return s.template
}

// State returns the current record, or nil for a Store not built by New.
func (s *Store) State() *record.Record {
	if s == nil {
		return nil
	}
	return s.holder.State()
}

// SetState is SetStateContext with a background context.
func (s *Store) SetState(update any) error {
	return s.SetStateContext(context.Background(), update)
}

// SetStateContext merges update onto the current state. update may be a
// *record.Record, a map or a struct; plain values are deeply converted to
// persistent values first. Fields named by update replace the current ones
// wholesale, other fields are kept.
func (s *Store) SetStateContext(ctx context.Context, update any) error {
	if s == nil || s.holder == nil {
		return ErrNotInitialized
	}
	start := time.Now()
	previous := s.holder.State()

	partial, err := s.partial(previous, update)
	if err == nil {
		err = s.holder.SetStateContext(ctx, partial)
	}
	next := s.holder.State()

	var fields []string
	if err == nil {
		fields = record.Diff(previous, next)
	}
	s.log(OpSetState, next, fields, time.Since(start), err)
	if err != nil {
		return wrapStoreError("set state", s.name, err)
	}
	return s.emitTransition(ctx, activity.VerbStateChanged, previous, next, fields)
}

// ReplaceState is ReplaceStateContext with a background context.
func (s *Store) ReplaceState(state *record.Record) error {
	return s.ReplaceStateContext(context.Background(), state)
}

// ReplaceStateContext stores state as is, without merging, and notifies
// listeners. Passing nil clears the state.
func (s *Store) ReplaceStateContext(ctx context.Context, state *record.Record) error {
	if s == nil || s.holder == nil {
		return ErrNotInitialized
	}
	start := time.Now()
	previous := s.holder.State()
	err := s.holder.ReplaceStateContext(ctx, state)
	fields := record.Diff(previous, state)
	s.log(OpReplaceState, state, fields, time.Since(start), err)
	if err != nil {
		return wrapStoreError("replace state", s.name, err)
	}
	return s.emitTransition(ctx, activity.VerbStateReplaced, previous, state, fields)
}

// ForceUpdate notifies listeners without changing state.
func (s *Store) ForceUpdate() {
	if s == nil {
		return
	}
	s.holder.ForceUpdate()
}

// Subscribe registers listener for state changes and returns a function that
// removes it.
func (s *Store) Subscribe(listener flux.Listener[*record.Record]) func() {
	if s == nil || s.holder == nil {
		return func() {}
	}
	return s.holder.Subscribe(listener)
}

// GetStateAsObject returns a shallow plain map of the state. Nested
// persistent values are the same objects the state holds. It returns nil when
// the state is not a record.
func (s *Store) GetStateAsObject() map[string]any {
	state := s.State()
	if state == nil || state.Kind() == nil {
		return nil
	}
	return state.ToMap()
}

// partial converts update into a record the holder can assign.
func (s *Store) partial(current *record.Record, update any) (*record.Record, error) {
	switch typed := update.(type) {
	case nil:
		return nil, nil
	case *record.Record:
		return typed, nil
	}
	base := s.template.New()
	if current != nil && current.Kind() != nil {
		base = current.Kind().New()
	}
	return base.Merge(update)
}

func (s *Store) log(op string, state *record.Record, fields []string, duration time.Duration, err error) {
	s.cfg.logger.LogStateChange(StateLogEvent{
		Store:    s.name,
		Kind:     state.Kind().Name(),
		Op:       op,
		Fields:   fields,
		Duration: duration,
		Err:      err,
	})
}

func isNilValue(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
