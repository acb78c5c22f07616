package immstore

import (
	"github.com/goliatone/go-immutable-store/pkg/activity"
)

// DefaultStoreName is used in errors and events when Config.Name is empty.
const DefaultStoreName = "Store"

// Config carries construction-time settings for a Store.
type Config struct {
	// StateRecord must implement record.Descriptor, typically a
	// *record.Template. It is typed as any so misconfiguration surfaces as a
	// TypeError rather than a compile error at dynamic call sites.
	StateRecord any
	// Name identifies the concrete store in errors, logs and events.
	Name string
}

// Actor identifies who performs state updates in emitted activity events.
type Actor struct {
	ActorID  string
	UserID   string
	TenantID string
}

// Option configures optional Store behaviour.
type Option func(*storeConfig)

type storeConfig struct {
	logger      Logger
	hooks       activity.Hooks
	activity    activity.Config
	activitySet bool
	actor       Actor
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{logger: noopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !cfg.activitySet {
		cfg.activity = activity.Config{Enabled: len(cfg.hooks) > 0}
	}
	return cfg
}
