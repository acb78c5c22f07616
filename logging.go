package immstore

import "time"

// Operation names reported in StateLogEvent.Op.
const (
	OpSetState     = "set_state"
	OpReplaceState = "replace_state"
)

// StateLogEvent describes one state update attempt.
type StateLogEvent struct {
	Store    string
	Kind     string
	Op       string
	Fields   []string
	Duration time.Duration
	Err      error
}

// Logger records state update events.
type Logger interface {
	LogStateChange(StateLogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(StateLogEvent)

// LogStateChange implements Logger.
func (f LoggerFunc) LogStateChange(event StateLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogStateChange(StateLogEvent) {}

// WithLogger attaches a logger to the store. A nil logger disables logging.
func WithLogger(logger Logger) Option {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
