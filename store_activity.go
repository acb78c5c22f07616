package immstore

import (
	"context"

	"github.com/goliatone/go-immutable-store/pkg/activity"
	"github.com/goliatone/go-immutable-store/record"
)

// WithActivityHooks attaches hooks notified after every state transition.
// Nil entries are dropped. Emission is enabled unless WithActivityConfig
// says otherwise.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := activity.CompactHooks(hooks)
	return func(cfg *storeConfig) {
		cfg.hooks = normalized
	}
}

// WithActivityConfig overrides the emission defaults.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *storeConfig) {
		cfg.activity = config
		cfg.activitySet = true
	}
}

// WithActivityActor sets the identity recorded on emitted events.
func WithActivityActor(actor Actor) Option {
	return func(cfg *storeConfig) {
		cfg.actor = actor
	}
}

// ActivityHooks returns a copy of the configured hooks.
func (s *Store) ActivityHooks() activity.Hooks {
	if s == nil {
		return nil
	}
	return activity.CompactHooks(s.cfg.hooks)
}

func (s *Store) emitTransition(ctx context.Context, verb string, previous, next *record.Record, fields []string) error {
	if !s.emitter.Enabled() {
		return nil
	}
	input := activity.StateEventInput{
		ActorID:    s.cfg.actor.ActorID,
		UserID:     s.cfg.actor.UserID,
		TenantID:   s.cfg.actor.TenantID,
		Store:      s.name,
		RecordKind: next.Kind().Name(),
		Fields:     fields,
		OldValues:  plainFields(previous, fields),
		NewValues:  plainFields(next, fields),
	}
	var event activity.Event
	if verb == activity.VerbStateReplaced {
		event = activity.BuildStateReplacedEvent(input)
	} else {
		event = activity.BuildStateChangedEvent(input)
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		return wrapStoreError("activity", s.name, err)
	}
	return nil
}

func plainFields(state *record.Record, fields []string) map[string]any {
	if state == nil || len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		if value, ok := state.Lookup(field); ok {
			out[field] = record.ToPlain(value)
		}
	}
	return out
}
