package activity

import (
	"strings"
	"time"
)

const (
	// VerbStateChanged marks a merge of a partial update into store state.
	VerbStateChanged = "store.state.changed"
	// VerbStateReplaced marks a wholesale replacement of store state.
	VerbStateReplaced = "store.state.replaced"
	// ObjectTypeStore is the object type of every store event.
	ObjectTypeStore = "store"
)

// StateEventInput describes a store transition.
type StateEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Store      string
	RecordKind string
	Channel    string
	Fields     []string
	OldValues  map[string]any
	NewValues  map[string]any
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildStateChangedEvent constructs the event emitted after SetState.
func BuildStateChangedEvent(input StateEventInput) Event {
	return buildStateEvent(VerbStateChanged, input)
}

// BuildStateReplacedEvent constructs the event emitted after ReplaceState.
func BuildStateReplacedEvent(input StateEventInput) Event {
	return buildStateEvent(VerbStateReplaced, input)
}

func buildStateEvent(verb string, input StateEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if kind := strings.TrimSpace(input.RecordKind); kind != "" {
		metadata = ensureMetadata(metadata)
		metadata["record_kind"] = kind
	}
	if len(input.OldValues) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["old_values"] = cloneMap(input.OldValues)
	}
	if len(input.NewValues) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["new_values"] = cloneMap(input.NewValues)
	}

	var fields []string
	if len(input.Fields) > 0 {
		fields = append([]string{}, input.Fields...)
	}

	objectID := strings.TrimSpace(input.Store)
	if objectID == "" {
		objectID = strings.TrimSpace(input.RecordKind)
	}
	if objectID == "" {
		objectID = ObjectTypeStore
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeStore,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Fields:     fields,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
