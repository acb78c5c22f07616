package record

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/benbjohnson/immutable"
)

// Record is an immutable value of a Template kind. Only explicitly assigned
// fields are stored; reads of other fields fall back to the template
// defaults. Every write returns a new *Record and leaves the receiver intact.
type Record struct {
	kind   *Template
	values *immutable.Map[string, any]
}

// Kind returns the template the record was produced from.
func (r *Record) Kind() *Template {
	if r == nil {
		return nil
	}
	return r.kind
}

// Get returns the value of field, or nil when the field is undeclared.
func (r *Record) Get(field string) any {
	value, _ := r.Lookup(field)
	return value
}

// Lookup returns the value of field and whether the template declares it.
func (r *Record) Lookup(field string) (any, bool) {
	if r == nil || !r.kind.Has(field) {
		return nil, false
	}
	if r.values != nil {
		if value, ok := r.values.Get(field); ok {
			return value, true
		}
	}
	return r.kind.Default(field), true
}

// IsSet reports whether field holds an explicitly assigned value.
func (r *Record) IsSet(field string) bool {
	if r == nil || r.values == nil {
		return false
	}
	_, ok := r.values.Get(field)
	return ok
}

// Set returns a copy of the record with field assigned to value.
func (r *Record) Set(field string, value any) (*Record, error) {
	if r == nil {
		return nil, fmt.Errorf("record: set %q on nil record", field)
	}
	if !r.kind.Has(field) {
		return nil, fmt.Errorf("%w %q for %s", ErrUnknownField, field, r.kind.Name())
	}
	return &Record{kind: r.kind, values: r.entries().Set(field, value)}, nil
}

// Merge returns a new record with the fields of each source applied in
// order. A *Record source contributes only its explicitly assigned fields.
// Plain sources (maps, structs) are deeply converted with FromPlain before
// assignment. Each named field is replaced wholesale; nested persistent
// values are never merged recursively. With no sources the receiver is
// returned.
func (r *Record) Merge(sources ...any) (*Record, error) {
	if r == nil {
		return nil, fmt.Errorf("record: merge onto nil record")
	}
	if len(sources) == 0 {
		return r, nil
	}
	values := r.entries()
	for _, source := range sources {
		var err error
		values, err = r.mergeSource(values, source)
		if err != nil {
			return nil, err
		}
	}
	return &Record{kind: r.kind, values: values}, nil
}

func (r *Record) mergeSource(values *immutable.Map[string, any], source any) (*immutable.Map[string, any], error) {
	switch typed := source.(type) {
	case nil:
		return values, nil
	case *Record:
		if typed == nil || typed.values == nil {
			return values, nil
		}
		itr := typed.values.Iterator()
		for !itr.Done() {
			key, value, _ := itr.Next()
			if !r.kind.Has(key) {
				return nil, fmt.Errorf("%w %q for %s (from %s)", ErrUnknownField, key, r.kind.Name(), typed.kind.Name())
			}
			values = values.Set(key, value)
		}
		return values, nil
	case *immutable.Map[string, any]:
		if typed == nil {
			return values, nil
		}
		itr := typed.Iterator()
		for !itr.Done() {
			key, value, _ := itr.Next()
			if !r.kind.Has(key) {
				return nil, fmt.Errorf("%w %q for %s", ErrUnknownField, key, r.kind.Name())
			}
			values = values.Set(key, value)
		}
		return values, nil
	case map[string]any:
		return r.mergePlain(values, typed)
	}

	plain, err := toMapping(source)
	if err != nil {
		return nil, err
	}
	return r.mergePlain(values, plain)
}

func (r *Record) mergePlain(values *immutable.Map[string, any], plain map[string]any) (*immutable.Map[string, any], error) {
	for _, key := range sortedKeys(plain) {
		if !r.kind.Has(key) {
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownField, key, r.kind.Name())
		}
		values = values.Set(key, FromPlain(plain[key]))
	}
	return values, nil
}

// ToMap projects the record into a plain map holding every declared field.
// Nested persistent values are returned as they are stored, not converted.
func (r *Record) ToMap() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.fields()))
	for _, field := range r.fields() {
		out[field] = r.Get(field)
	}
	return out
}

// ToPlain deeply projects the record: nested lists, maps and records are
// converted to plain Go slices and maps.
func (r *Record) ToPlain() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.fields()))
	for _, field := range r.fields() {
		out[field] = ToPlain(r.Get(field))
	}
	return out
}

// Equal reports whether other has the same kind and equal field values.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.kind != other.kind {
		return false
	}
	for _, field := range r.fields() {
		if !valuesEqual(r.Get(field), other.Get(field)) {
			return false
		}
	}
	return true
}

func (r *Record) String() string {
	if r == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(r.fields()))
	for _, field := range r.fields() {
		parts = append(parts, fmt.Sprintf("%s: %v", field, ToPlain(r.Get(field))))
	}
	return fmt.Sprintf("%s{%s}", r.kind.Name(), strings.Join(parts, ", "))
}

func (r *Record) fields() []string {
	if r == nil || r.kind == nil {
		return nil
	}
	return r.kind.fields
}

func (r *Record) entries() *immutable.Map[string, any] {
	if r.values == nil {
		return immutable.NewMap[string, any](nil)
	}
	return r.values
}

func valuesEqual(a, b any) bool {
	switch left := a.(type) {
	case *Record:
		right, ok := b.(*Record)
		return ok && left.Equal(right)
	case *immutable.List[any]:
		right, ok := b.(*immutable.List[any])
		if !ok || left == nil || right == nil {
			return ok && left == right
		}
		if left.Len() != right.Len() {
			return false
		}
		for i := 0; i < left.Len(); i++ {
			if !valuesEqual(left.Get(i), right.Get(i)) {
				return false
			}
		}
		return true
	case *immutable.Map[string, any]:
		right, ok := b.(*immutable.Map[string, any])
		if !ok || left == nil || right == nil {
			return ok && left == right
		}
		if left.Len() != right.Len() {
			return false
		}
		itr := left.Iterator()
		for !itr.Done() {
			key, value, _ := itr.Next()
			other, found := right.Get(key)
			if !found || !valuesEqual(value, other) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// Diff returns the fields of next whose values differ from previous, in
// template order. A nil previous reports every field of next that differs
// from its default.
func Diff(previous, next *Record) []string {
	if next == nil {
		return nil
	}
	var changed []string
	for _, field := range next.fields() {
		var before any
		if previous != nil {
			before = previous.Get(field)
		} else {
			before = next.kind.Default(field)
		}
		if !valuesEqual(before, next.Get(field)) {
			changed = append(changed, field)
		}
	}
	return changed
}
