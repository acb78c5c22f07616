package activity

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Event describes a store transition. Identity fields are plain strings so
// call sites do not depend on a specific ID type. Fields lists the record
// fields the transition changed.
type Event struct {
	Verb       string
	ActorID    string
	UserID     string
	TenantID   string
	ObjectType string
	ObjectID   string
	Channel    string
	Fields     []string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Valid reports whether the event names a verb and an object.
func (e Event) Valid() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

// Touches reports whether field is among the changed fields.
func (e Event) Touches(field string) bool {
	return slices.Contains(e.Fields, field)
}

// NormalizeEvent returns a trimmed copy of event that shares no slices or maps
// with it. A zero OccurredAt is set to now.
func NormalizeEvent(event Event) Event {
	out := Event{
		Verb:       strings.TrimSpace(event.Verb),
		ActorID:    strings.TrimSpace(event.ActorID),
		UserID:     strings.TrimSpace(event.UserID),
		TenantID:   strings.TrimSpace(event.TenantID),
		ObjectType: strings.TrimSpace(event.ObjectType),
		ObjectID:   strings.TrimSpace(event.ObjectID),
		Channel:    strings.TrimSpace(event.Channel),
		Fields:     cloneFields(event.Fields),
		Metadata:   cloneMap(event.Metadata),
		OccurredAt: event.OccurredAt,
	}
	if out.OccurredAt.IsZero() {
		out.OccurredAt = time.Now()
	}
	return out
}

func cloneFields(fields []string) []string {
	if len(fields) == 0 {
		return nil
	}
	return slices.Clone(fields)
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
