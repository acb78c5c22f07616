// Package zerologsink adapts a zerolog.Logger to immstore.Logger.
package zerologsink

import (
	"github.com/rs/zerolog"

	immstore "github.com/goliatone/go-immutable-store"
)

// Message is the log message written for every state update.
const Message = "state update"

// Sink writes StateLogEvents as structured zerolog entries. Successful
// updates are logged at debug level, failures at error level.
type Sink struct {
	logger zerolog.Logger
}

var _ immstore.Logger = (*Sink)(nil)

// New wraps logger.
func New(logger zerolog.Logger) *Sink {
	return &Sink{logger: logger}
}

// LogStateChange implements immstore.Logger.
func (s *Sink) LogStateChange(event immstore.StateLogEvent) {
	if s == nil {
		return
	}
	entry := s.logger.Debug()
	if event.Err != nil {
		entry = s.logger.Error().Err(event.Err)
	}
	entry.
		Str("store", event.Store).
		Str("kind", event.Kind).
		Str("op", event.Op).
		Strs("fields", event.Fields).
		Dur("duration", event.Duration).
		Msg(Message)
}
