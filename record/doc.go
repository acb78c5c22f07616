// Package record implements persistent, schema-shaped state values on top of
// github.com/benbjohnson/immutable.
//
// A Template declares a record kind: an ordered set of field names and their
// defaults. Template.New returns a Record with every field at its default.
// Records never change once built; Set and Merge return new records that
// share structure with the original through the underlying persistent map.
//
// Plain Go inputs are converted with FromPlain: slices become persistent
// lists and string-keyed maps become persistent maps, recursively. Record
// merge is shallow per field, so a nested list or map named in an update
// replaces the previous one wholesale.
//
//	kind := record.MustTemplate("Todos",
//		record.Field{Name: "items", Default: immutable.NewList[any]()},
//		record.Field{Name: "filter", Default: "all"},
//	)
//	state := kind.New()
//	next, err := state.Merge(map[string]any{"items": []any{"write docs"}})
//
// ToMap returns a shallow plain view (nested persistent values are shared);
// ToPlain converts the whole tree back into plain slices and maps.
package record
