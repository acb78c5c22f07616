// Package immstore adapts a flux-style observable store to hold its state as
// an immutable record.
//
// A Store is configured with a record template. Construction validates the
// template and initialises state to a default-valued record. SetState accepts
// partial updates, either records or plain Go maps and structs, deeply
// converts plain values to persistent ones and merges them onto the current
// record field by field. Every update produces a new record, so references
// to earlier states never observe later changes.
//
//	todos := record.MustTemplate("Todos",
//		record.Field{Name: "items", Default: immutable.NewList[any]()},
//		record.Field{Name: "filter", Default: "all"},
//	)
//	store, err := immstore.New(immstore.Config{StateRecord: todos, Name: "TodoStore"})
//	if err != nil {
//		return err
//	}
//	err = store.SetState(map[string]any{"items": []any{"write docs"}})
//
// GetStateAsObject returns a shallow plain map for consumers that cannot
// read records; nested lists and maps are handed out as the persistent
// values the state holds.
package immstore
