package record

import (
	"errors"
	"fmt"
	"sort"

	"github.com/benbjohnson/immutable"
)

var (
	// ErrFieldNameRequired indicates a template field without a name.
	ErrFieldNameRequired = errors.New("record: field name must be provided")
	// ErrDuplicateField indicates a template declaring the same field twice.
	ErrDuplicateField = errors.New("record: field names must be unique")
	// ErrUnknownField indicates a write to a field the template does not declare.
	ErrUnknownField = errors.New("record: unknown field")
	// ErrNotMapping indicates a merge source that cannot be read as key/value pairs.
	ErrNotMapping = errors.New("record: value is not a mapping")
)

// Descriptor is the contract a state template satisfies: it names a record
// kind, declares its fields, and builds default-valued instances.
type Descriptor interface {
	Name() string
	Fields() []string
	New() *Record
}

// Field declares one template field and its default value.
type Field struct {
	Name    string
	Default any
}

// Template is a persistent record kind: an ordered field set with defaults.
// Templates are read-only after construction and safe to share.
type Template struct {
	name     string
	fields   []string
	defaults map[string]any
}

var _ Descriptor = (*Template)(nil)

// NewTemplate builds a template from fields in declaration order. Default
// values are stored as given, so persistent defaults keep their identity in
// every record produced by the template.
func NewTemplate(name string, fields ...Field) (*Template, error) {
	t := &Template{
		name:     name,
		fields:   make([]string, 0, len(fields)),
		defaults: make(map[string]any, len(fields)),
	}
	for _, field := range fields {
		if field.Name == "" {
			return nil, ErrFieldNameRequired
		}
		if _, exists := t.defaults[field.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, field.Name)
		}
		t.fields = append(t.fields, field.Name)
		t.defaults[field.Name] = field.Default
	}
	return t, nil
}

// TemplateFromMap builds a template whose fields are the keys of defaults,
// ordered by name.
func TemplateFromMap(name string, defaults map[string]any) (*Template, error) {
	names := make([]string, 0, len(defaults))
	for key := range defaults {
		names = append(names, key)
	}
	sort.Strings(names)
	fields := make([]Field, len(names))
	for i, key := range names {
		fields[i] = Field{Name: key, Default: defaults[key]}
	}
	return NewTemplate(name, fields...)
}

// MustTemplate is like NewTemplate but panics on error. Intended for package
// level template declarations.
func MustTemplate(name string, fields ...Field) *Template {
	t, err := NewTemplate(name, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the record kind name.
func (t *Template) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Fields returns the declared field names in order. The slice is a copy.
func (t *Template) Fields() []string {
	if t == nil || len(t.fields) == 0 {
		return nil
	}
	return append([]string(nil), t.fields...)
}

// Has reports whether field is declared by the template.
func (t *Template) Has(field string) bool {
	if t == nil {
		return false
	}
	_, ok := t.defaults[field]
	return ok
}

// Default returns the declared default for field, or nil when undeclared.
func (t *Template) Default(field string) any {
	if t == nil {
		return nil
	}
	return t.defaults[field]
}

// New returns a record holding every field at its default.
func (t *Template) New() *Record {
	if t == nil {
		return nil
	}
	return &Record{kind: t, values: immutable.NewMap[string, any](nil)}
}

func (t *Template) String() string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Template(%s)", t.name)
}
