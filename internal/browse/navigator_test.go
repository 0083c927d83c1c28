package browse

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/lbassi/jsondb/internal/store"
)

// testStore loads a monolithic store with one richly nested document.
func testStore(t *testing.T) store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.json")
	content := `{
		"collezione": {
			"5": {
				"nome": "Foo",
				"descr": "una prova",
				"arr": [
					{"nome": "el0", "sub": [{"k": "v"}]},
					{"nome": "el1"}
				],
				"x": {"y": "deep", "list": [10, 20]},
				"meta": {"a": 1}
			},
			"6": {"titolo": "senza nome"}
		},
		"vuota": {}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	st, err := store.OpenMonolithic(path)
	if err != nil {
		t.Fatalf("failed to open fixture store: %v", err)
	}
	return st
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"", nil},
		{"/", nil},
		{"coll", []string{"coll"}},
		{"/coll/doc/5/", []string{"coll", "doc", "5"}},
		{"coll//doc//5", []string{"coll", "doc", "5"}},
	}
	for _, tt := range tests {
		if got := ParseAddress(tt.path); !slices.Equal(got, tt.want) {
			t.Errorf("ParseAddress(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	st := testStore(t)

	t.Run("TableOnly", func(t *testing.T) {
		res := Resolve(st, ParseAddress("collezione"))
		if res.Truncated {
			t.Fatalf("unexpected truncation, remaining %v", res.Remaining)
		}
		if res.Collection == nil || res.Collection.Len() != 2 {
			t.Error("collection listing expected")
		}
		if res.Root != nil || len(res.Chain) != 0 {
			t.Error("no document should be resolved")
		}
	})

	t.Run("Document", func(t *testing.T) {
		res := Resolve(st, ParseAddress("collezione/doc/5"))
		if res.Truncated || res.Root == nil {
			t.Fatalf("document 5 should resolve, truncated=%v", res.Truncated)
		}
		if res.Root.ID.String() != "5" {
			t.Errorf("root id = %s, want 5", res.Root.ID)
		}
		if res.Value != res.Root.Value {
			t.Error("innermost value should be the document itself")
		}
	})

	t.Run("ArrayElement", func(t *testing.T) {
		res := Resolve(st, ParseAddress("collezione/doc/5/arr/0"))
		if res.Truncated || len(res.Chain) != 1 {
			t.Fatalf("chain = %v, truncated = %v", res.Chain, res.Truncated)
		}
		n := res.Chain[0]
		if n.Kind != NodeArrayElement || n.Index != 0 || n.ArrayField != "arr" {
			t.Errorf("node = %+v", n)
		}
		if nome, _ := res.Value.StringField("nome"); nome != "el0" {
			t.Errorf("innermost nome = %q, want el0", nome)
		}
	})

	t.Run("NestedArrayDescent", func(t *testing.T) {
		res := Resolve(st, ParseAddress("collezione/doc/5/arr/0/sub/0"))
		if res.Truncated || len(res.Chain) != 2 {
			t.Fatalf("chain length = %d, truncated = %v", len(res.Chain), res.Truncated)
		}
		if res.Chain[1].ArrayField != "sub" || res.Chain[1].Index != 0 {
			t.Errorf("second node = %+v", res.Chain[1])
		}
		if k, _ := res.Value.StringField("k"); k != "v" {
			t.Errorf("innermost k = %q, want v", k)
		}
	})

	t.Run("FieldReanchor", func(t *testing.T) {
		// "field" discards the array-descent context and walks from the
		// root document again.
		res := Resolve(st, ParseAddress("collezione/doc/5/arr/0/field/x/y"))
		if res.Truncated || len(res.Chain) != 2 {
			t.Fatalf("chain length = %d, truncated = %v", len(res.Chain), res.Truncated)
		}
		n := res.Chain[1]
		if n.Kind != NodeFieldValue || n.Name != "x" || n.FieldKind != FieldSimple {
			t.Errorf("field node = %+v", n)
		}
		if n.ParentLabel != "Document 5" {
			t.Errorf("ParentLabel = %q", n.ParentLabel)
		}
		if res.Value.Str() != "deep" {
			t.Errorf("innermost = %q, want deep", res.Value.Str())
		}
	})

	t.Run("FieldPathNumericIndex", func(t *testing.T) {
		res := Resolve(st, ParseAddress("collezione/doc/5/field/x/list/1"))
		if res.Truncated {
			t.Fatalf("unexpected truncation at %v", res.Remaining)
		}
		if res.Value.NumberLiteral() != "20" {
			t.Errorf("innermost = %s, want 20", res.Value.NumberLiteral())
		}
	})

	t.Run("PlainFieldAfterArrayElement", func(t *testing.T) {
		res := Resolve(st, ParseAddress("collezione/doc/5/arr/0/nome"))
		if res.Truncated || len(res.Chain) != 2 {
			t.Fatalf("chain length = %d, truncated = %v", len(res.Chain), res.Truncated)
		}
		n := res.Chain[1]
		if n.Kind != NodeFieldValue || n.Name != "nome" || n.ParentLabel != "arr[0]" {
			t.Errorf("field node = %+v", n)
		}
	})

	t.Run("PlainFieldOnDocument", func(t *testing.T) {
		res := Resolve(st, ParseAddress("collezione/doc/5/meta"))
		if res.Truncated || len(res.Chain) != 1 {
			t.Fatalf("chain length = %d, truncated = %v", len(res.Chain), res.Truncated)
		}
		n := res.Chain[0]
		if n.FieldKind != FieldObject || n.ParentLabel != "Document 5" {
			t.Errorf("field node = %+v", n)
		}
	})

	t.Run("ArrayFieldWithoutIndex", func(t *testing.T) {
		res := Resolve(st, ParseAddress("collezione/doc/5/arr"))
		if res.Truncated || len(res.Chain) != 1 {
			t.Fatalf("chain length = %d, truncated = %v", len(res.Chain), res.Truncated)
		}
		if res.Chain[0].FieldKind != FieldArray {
			t.Errorf("field kind = %s, want array", res.Chain[0].FieldKind)
		}
	})

	t.Run("Truncation", func(t *testing.T) {
		tests := []struct {
			path      string
			remaining []string
		}{
			{"sconosciuta", nil},
			{"sconosciuta/doc/1", []string{"doc", "1"}},
			{"collezione/doc/9", []string{"9"}},
			{"collezione/doc/5/arr/9", []string{"arr", "9"}},
			{"collezione/doc/5/niente", []string{"niente"}},
			{"collezione/doc/5/field/niente", []string{"field", "niente"}},
			{"collezione/doc/5/field", []string{"field"}},
			{"collezione/doc", []string{"doc"}},
		}
		for _, tt := range tests {
			res := Resolve(st, ParseAddress(tt.path))
			if !res.Truncated {
				t.Errorf("Resolve(%q) should truncate", tt.path)
				continue
			}
			if !slices.Equal(res.Remaining, tt.remaining) {
				t.Errorf("Resolve(%q) remaining = %v, want %v", tt.path, res.Remaining, tt.remaining)
			}
		}
	})

	t.Run("TruncationKeepsResolvedPrefix", func(t *testing.T) {
		res := Resolve(st, ParseAddress("collezione/doc/5/arr/0/niente/x"))
		if !res.Truncated {
			t.Fatal("should truncate at missing field")
		}
		if len(res.Chain) != 1 || res.Chain[0].Kind != NodeArrayElement {
			t.Errorf("resolved prefix lost: chain = %+v", res.Chain)
		}
		if nome, _ := res.Value.StringField("nome"); nome != "el0" {
			t.Errorf("innermost should stay at last resolved node, nome = %q", nome)
		}
	})
}

func TestIsArrayItemAddress(t *testing.T) {
	tests := []struct {
		path  string
		ok    bool
		index int
		field string
	}{
		{"collezione/doc/5", false, 0, ""},
		{"collezione/doc/5/arr/0", true, 0, "arr"},
		{"collezione/doc/5/field/3", false, 0, ""},
		{"collezione/doc/5/arr/0/sub/12", true, 12, "sub"},
		{"collezione/doc/5/arr/x", false, 0, ""},
		{"collezione", false, 0, ""},
	}
	for _, tt := range tests {
		index, field, ok := IsArrayItemAddress(ParseAddress(tt.path))
		if ok != tt.ok || index != tt.index || field != tt.field {
			t.Errorf("IsArrayItemAddress(%q) = (%d, %q, %v), want (%d, %q, %v)",
				tt.path, index, field, ok, tt.index, tt.field, tt.ok)
		}
	}
}

func TestService(t *testing.T) {
	svc := NewService(testStore(t))

	if got := svc.ListTables(); !slices.Equal(got, []string{"collezione", "vuota"}) {
		t.Errorf("ListTables() = %v", got)
	}

	docs, err := svc.ListDocuments("collezione")
	if err != nil || len(docs) != 2 {
		t.Errorf("ListDocuments = %d docs, err %v", len(docs), err)
	}

	doc, err := svc.GetDocument("collezione", "5")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if nome, _ := doc.Value.StringField("nome"); nome != "Foo" {
		t.Errorf("nome = %q", nome)
	}

	res := svc.Resolve("collezione/doc/5/arr/1")
	if res.Truncated || res.Value == nil {
		t.Errorf("Resolve truncated = %v", res.Truncated)
	}
}
