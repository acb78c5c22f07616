package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/benbjohnson/immutable"
	"github.com/google/go-cmp/cmp"
)

func newSongTemplate(t *testing.T) *Template {
	t.Helper()
	tpl, err := NewTemplate("Song",
		Field{Name: "do", Default: "re"},
		Field{Name: "mi", Default: "fa"},
	)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	return tpl
}

func TestNewTemplateValidatesFields(t *testing.T) {
	cases := []struct {
		name   string
		fields []Field
		want   error
	}{
		{name: "empty name", fields: []Field{{Name: ""}}, want: ErrFieldNameRequired},
		{name: "duplicate", fields: []Field{{Name: "a"}, {Name: "a"}}, want: ErrDuplicateField},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTemplate("Bad", tc.fields...)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTemplateFromMapOrdersFields(t *testing.T) {
	tpl, err := TemplateFromMap("State", map[string]any{"react": "iskewl", "initial": "state"})
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if diff := cmp.Diff([]string{"initial", "react"}, tpl.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	got := tpl.New().ToPlain()
	want := map[string]any{"initial": "state", "react": "iskewl"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateFieldsReturnsCopy(t *testing.T) {
	tpl := newSongTemplate(t)
	fields := tpl.Fields()
	fields[0] = "changed"
	if tpl.Fields()[0] != "do" {
		t.Fatalf("expected template fields to be unaffected, got %v", tpl.Fields())
	}
}

func TestNewReturnsDistinctDefaultRecords(t *testing.T) {
	tpl := newSongTemplate(t)
	a, b := tpl.New(), tpl.New()
	if a == b {
		t.Fatalf("expected distinct records")
	}
	if !a.Equal(b) {
		t.Fatalf("expected default records to be equal: %v vs %v", a, b)
	}
	if a.IsSet("do") {
		t.Fatalf("expected default record to have no explicit fields")
	}
}

func TestSetReturnsNewRecord(t *testing.T) {
	tpl := newSongTemplate(t)
	initial := tpl.New()

	next, err := initial.Set("do", "a deer")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if initial.Get("do") != "re" {
		t.Fatalf("expected original untouched, got %v", initial.Get("do"))
	}
	if next.Get("do") != "a deer" || next.Get("mi") != "fa" {
		t.Fatalf("unexpected record after set: %v", next)
	}
	if !next.IsSet("do") || next.IsSet("mi") {
		t.Fatalf("unexpected explicit fields on %v", next)
	}
}

func TestSetUnknownField(t *testing.T) {
	tpl := newSongTemplate(t)
	_, err := tpl.New().Set("so", "la")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if !strings.Contains(err.Error(), `"so"`) {
		t.Fatalf("expected field name in error, got %v", err)
	}
}

func TestLookupUndeclaredField(t *testing.T) {
	tpl := newSongTemplate(t)
	if value, ok := tpl.New().Lookup("nope"); ok || value != nil {
		t.Fatalf("expected undeclared lookup to miss, got %v %v", value, ok)
	}
}

func TestMergeRecordAppliesExplicitFieldsOnly(t *testing.T) {
	tpl := newSongTemplate(t)
	old, _ := tpl.New().Set("mi", "me")
	update, _ := tpl.New().Set("do", "a deer")

	merged, err := old.Merge(update)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := map[string]any{"do": "a deer", "mi": "me"}
	if diff := cmp.Diff(want, merged.ToPlain()); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if merged == old || merged == update {
		t.Fatalf("expected merge to return a distinct record")
	}
	if old.Get("do") != "re" || update.Get("mi") != "fa" {
		t.Fatalf("expected inputs untouched: old=%v update=%v", old, update)
	}
}

func TestMergePlainMapDeepConverts(t *testing.T) {
	tpl, _ := NewTemplate("Lists",
		Field{Name: "a", Default: immutable.NewList[any](1, 2, 3)},
		Field{Name: "b", Default: immutable.NewList[any]("x", "y", "z")},
	)
	initial := tpl.New()
	before := initial.Get("a")

	merged, err := initial.Merge(map[string]any{"b": []any{"x", "LOL", "z"}})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	list, ok := merged.Get("b").(*immutable.List[any])
	if !ok {
		t.Fatalf("expected persistent list, got %T", merged.Get("b"))
	}
	if list.Get(1) != "LOL" {
		t.Fatalf("expected second element LOL, got %v", list.Get(1))
	}
	if merged.Get("a") != before {
		t.Fatalf("expected untouched field to keep identity")
	}
}

func TestMergeIsShallowPerField(t *testing.T) {
	tpl, _ := NewTemplate("Nested", Field{Name: "config", Default: FromPlain(map[string]any{
		"theme": "dark",
		"size":  12,
	})})
	merged, err := tpl.New().Merge(map[string]any{"config": map[string]any{"size": 14}})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := map[string]any{"config": map[string]any{"size": 14}}
	if diff := cmp.Diff(want, merged.ToPlain()); diff != "" {
		t.Fatalf("expected wholesale field replacement (-want +got):\n%s", diff)
	}
}

func TestMergeUnknownFieldFails(t *testing.T) {
	tpl := newSongTemplate(t)
	_, err := tpl.New().Merge(map[string]any{"ti": "do"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestMergeForeignRecordKind(t *testing.T) {
	song := newSongTemplate(t)
	other, _ := NewTemplate("Other", Field{Name: "do"}, Field{Name: "extra"})

	compatible, _ := other.New().Set("do", "doe")
	merged, err := song.New().Merge(compatible)
	if err != nil {
		t.Fatalf("merge compatible: %v", err)
	}
	if merged.Kind() != song || merged.Get("do") != "doe" {
		t.Fatalf("unexpected merge result: %v", merged)
	}

	incompatible, _ := other.New().Set("extra", true)
	if _, err := song.New().Merge(incompatible); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestMergeStructSource(t *testing.T) {
	type update struct {
		Do string `mapstructure:"do,omitempty"`
		Mi string `mapstructure:"mi,omitempty"`
	}
	tpl := newSongTemplate(t)
	merged, err := tpl.New().Merge(update{Mi: "me"})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := map[string]any{"do": "re", "mi": "me"}
	if diff := cmp.Diff(want, merged.ToPlain()); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeRejectsNonMapping(t *testing.T) {
	tpl := newSongTemplate(t)
	if _, err := tpl.New().Merge(42); !errors.Is(err, ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping, got %v", err)
	}
}

func TestMergeSkipsNilSources(t *testing.T) {
	tpl := newSongTemplate(t)
	var none *Record
	merged, err := tpl.New().Merge(nil, none)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !merged.Equal(tpl.New()) {
		t.Fatalf("expected defaults, got %v", merged)
	}
}

func TestMergeWithoutSourcesReturnsReceiver(t *testing.T) {
	state := newSongTemplate(t).New()
	merged, err := state.Merge()
	if err != nil || merged != state {
		t.Fatalf("expected receiver back, got %p %v", merged, err)
	}
}

func TestToMapIsShallow(t *testing.T) {
	foo := immutable.NewList[any](1, 2, 3)
	bar := immutable.NewList[any]("a", "b", "c")
	tpl, _ := NewTemplate("Shallow", Field{Name: "foo", Default: foo}, Field{Name: "bar", Default: bar})

	object := tpl.New().ToMap()
	if len(object) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(object))
	}
	if object["foo"] != foo || object["bar"] != bar {
		t.Fatalf("expected nested values by reference, got %#v", object)
	}
}

func TestEqualComparesPersistentValues(t *testing.T) {
	tpl, _ := NewTemplate("Eq", Field{Name: "items"})
	a, _ := tpl.New().Merge(map[string]any{"items": []any{"x", map[string]any{"k": 1}}})
	b, _ := tpl.New().Merge(map[string]any{"items": []any{"x", map[string]any{"k": 1}}})
	c, _ := tpl.New().Merge(map[string]any{"items": []any{"x", map[string]any{"k": 2}}})

	if !a.Equal(b) {
		t.Fatalf("expected structurally equal records")
	}
	if a.Equal(c) {
		t.Fatalf("expected different records to differ")
	}
	other, _ := NewTemplate("Eq", Field{Name: "items"})
	if tpl.New().Equal(other.New()) {
		t.Fatalf("expected different kinds to differ")
	}
}

func TestRecordString(t *testing.T) {
	tpl := newSongTemplate(t)
	if got := tpl.New().String(); got != "Song{do: re, mi: fa}" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestDiffReportsChangedFields(t *testing.T) {
	tpl := newSongTemplate(t)
	initial := tpl.New()
	next, _ := initial.Merge(map[string]any{"mi": "me", "do": "re"})

	if diff := cmp.Diff([]string{"mi"}, Diff(initial, next)); diff != "" {
		t.Fatalf("diff mismatch (-want +got):\n%s", diff)
	}
	if got := Diff(next, next); got != nil {
		t.Fatalf("expected no changes, got %v", got)
	}
	if diff := cmp.Diff([]string{"mi"}, Diff(nil, next)); diff != "" {
		t.Fatalf("diff against defaults mismatch (-want +got):\n%s", diff)
	}
	if got := Diff(initial, nil); got != nil {
		t.Fatalf("expected nil for nil next, got %v", got)
	}
}
