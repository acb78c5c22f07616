// Package usersink records store events in a go-users ActivitySink.
package usersink

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-immutable-store/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// FieldsKey is the ActivityRecord data key holding the changed field names.
const FieldsKey = "fields"

// Hook is an activity.ActivityHook writing to Sink. A nil Sink drops events.
type Hook struct {
	Sink usertypes.ActivitySink
}

var _ activity.ActivityHook = Hook{}

// Notify converts event with ToRecord and logs it.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := ToRecord(event)
	if !ok {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, record)
}

// ToRecord maps a store event onto an ActivityRecord. Identifiers that are not
// UUIDs become uuid.Nil. It reports false for events without a verb or object.
func ToRecord(event activity.Event) (usertypes.ActivityRecord, bool) {
	event = activity.NormalizeEvent(event)
	if !event.Valid() {
		return usertypes.ActivityRecord{}, false
	}

	var data map[string]any
	if len(event.Metadata) > 0 || len(event.Fields) > 0 {
		data = make(map[string]any, len(event.Metadata)+1)
		maps.Copy(data, event.Metadata)
	}
	if len(event.Fields) > 0 {
		data[FieldsKey] = slices.Clone(event.Fields)
	}

	return usertypes.ActivityRecord{
		ActorID:    parseID(event.ActorID),
		UserID:     parseID(event.UserID),
		TenantID:   parseID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}, true
}

func parseID(value string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return id
}
