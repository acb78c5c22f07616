package record

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/benbjohnson/immutable"
	"github.com/mitchellh/mapstructure"
)

// FromPlain deeply converts plain Go collections into persistent values.
// Slices and arrays become *immutable.List[any] and string-keyed maps become
// *immutable.Map[string, any], recursively. Records and persistent values are
// returned unchanged, as are scalars, structs and pointers.
func FromPlain(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case *Record, *immutable.List[any], *immutable.Map[string, any]:
		return typed
	case []byte:
		return typed
	case []any:
		builder := immutable.NewListBuilder[any]()
		for _, item := range typed {
			builder.Append(FromPlain(item))
		}
		return builder.List()
	case map[string]any:
		builder := immutable.NewMapBuilder[string, any](nil)
		for key, item := range typed {
			builder.Set(key, FromPlain(item))
		}
		return builder.Map()
	}
	return fromPlainValue(reflect.ValueOf(value))
}

func fromPlainValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		builder := immutable.NewListBuilder[any]()
		for i := 0; i < v.Len(); i++ {
			builder.Append(FromPlain(v.Index(i).Interface()))
		}
		return builder.List()
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}
		builder := immutable.NewMapBuilder[string, any](nil)
		iter := v.MapRange()
		for iter.Next() {
			builder.Set(iter.Key().String(), FromPlain(iter.Value().Interface()))
		}
		return builder.Map()
	default:
		return v.Interface()
	}
}

// ToPlain deeply converts persistent values back into plain Go values.
// Lists become []any, maps become map[string]any and records become the map
// returned by Record.ToPlain.
func ToPlain(value any) any {
	switch typed := value.(type) {
	case *Record:
		if typed == nil {
			return nil
		}
		return typed.ToPlain()
	case *immutable.List[any]:
		if typed == nil {
			return nil
		}
		out := make([]any, 0, typed.Len())
		itr := typed.Iterator()
		for !itr.Done() {
			_, item := itr.Next()
			out = append(out, ToPlain(item))
		}
		return out
	case *immutable.Map[string, any]:
		if typed == nil {
			return nil
		}
		out := make(map[string]any, typed.Len())
		itr := typed.Iterator()
		for !itr.Done() {
			key, item, _ := itr.Next()
			out[key] = ToPlain(item)
		}
		return out
	default:
		return value
	}
}

// StructToMap decodes a struct, or a pointer to one, into a top-level map
// keyed by `mapstructure` tags. Fields tagged omitempty are left out when
// zero, which lets typed values carry partial updates.
func StructToMap(value any) (map[string]any, error) {
	out := map[string]any{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &out,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(value); err != nil {
		return nil, fmt.Errorf("record: decode %T: %w", value, err)
	}
	return out, nil
}

// toMapping reads source as a plain string-keyed mapping.
func toMapping(source any) (map[string]any, error) {
	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %T", ErrNotMapping, source)
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return StructToMap(source)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: %T", ErrNotMapping, source)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotMapping, source)
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
