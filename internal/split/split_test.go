package split

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/lbassi/jsondb/internal/store"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func relFiles(t *testing.T, m *Manifest, base string) []string {
	t.Helper()
	var rel []string
	for _, f := range m.FilesCreated {
		r, err := filepath.Rel(base, f)
		if err != nil {
			t.Fatalf("failed to relativize %s: %v", f, err)
		}
		rel = append(rel, r)
	}
	slices.Sort(rel)
	return rel
}

func TestSplit(t *testing.T) {
	t.Run("SingleRootCollapse", func(t *testing.T) {
		// One wrapper key whose value holds >= threshold children: split at
		// depth 1 with a root config naming the wrapper.
		input := writeInput(t, `{"AREE": {"a": {"nome": "a"}, "b": {"nome": "b"}}}`)
		outDir := t.TempDir()

		m, err := Split(input, outDir, Options{})
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}

		wantLevels := []LevelDecision{{Depth: 1, Key: "AREE", ElementCount: 2, Action: ActionSplit}}
		if !reflect.DeepEqual(m.Levels, wantLevels) {
			t.Errorf("Levels = %+v, want %+v", m.Levels, wantLevels)
		}
		wantFiles := []string{filepath.Join("AREE", "a.json"), filepath.Join("AREE", "b.json"), "root.json"}
		if got := relFiles(t, m, outDir); !slices.Equal(got, wantFiles) {
			t.Errorf("FilesCreated = %v, want %v", got, wantFiles)
		}
		if got := readFile(t, filepath.Join(outDir, "root.json")); got != "{\n  \"path\": \"AREE\"\n}" {
			t.Errorf("root.json = %q", got)
		}
	})

	t.Run("MultiKeyTopLevel", func(t *testing.T) {
		// >= threshold keys at depth 0: the input file stem names the
		// primary directory.
		input := writeInput(t, `{"a": {"n": 1}, "b": {"n": 2}, "c": {"n": 3}}`)
		outDir := t.TempDir()

		m, err := Split(input, outDir, Options{})
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}

		wantLevels := []LevelDecision{{Depth: 0, Key: "input", ElementCount: 3, Action: ActionSplit}}
		if !reflect.DeepEqual(m.Levels, wantLevels) {
			t.Errorf("Levels = %+v, want %+v", m.Levels, wantLevels)
		}
		for _, name := range []string{"a", "b", "c"} {
			if _, err := os.Stat(filepath.Join(outDir, "input", name+".json")); err != nil {
				t.Errorf("missing shard %s: %v", name, err)
			}
		}
		if got := readFile(t, filepath.Join(outDir, "root.json")); got != "{\n  \"path\": \"input\"\n}" {
			t.Errorf("root.json = %q", got)
		}
	})

	t.Run("ContinueThenSaveAsIs", func(t *testing.T) {
		// A single wrapper whose value has fewer children than the
		// threshold collapses once, then the inner level saves verbatim.
		input := writeInput(t, `{"A": {"B": {"x": 1}}}`)
		outDir := t.TempDir()

		m, err := Split(input, outDir, Options{})
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}

		wantLevels := []LevelDecision{
			{Depth: 1, Key: "A", ElementCount: 1, Action: ActionContinue},
			{Depth: 1, Key: "A", ElementCount: 1, Action: ActionSaveAsIs},
		}
		if !reflect.DeepEqual(m.Levels, wantLevels) {
			t.Errorf("Levels = %+v, want %+v", m.Levels, wantLevels)
		}
		if got := relFiles(t, m, outDir); !slices.Equal(got, []string{"A.json"}) {
			t.Errorf("FilesCreated = %v", got)
		}
	})

	t.Run("SingleRootNonObject", func(t *testing.T) {
		input := writeInput(t, `{"lista": [1, 2, 3]}`)
		outDir := t.TempDir()

		m, err := Split(input, outDir, Options{})
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}
		if len(m.Levels) != 0 {
			t.Errorf("Levels = %+v, want none", m.Levels)
		}
		if got := readFile(t, filepath.Join(outDir, "lista.json")); got != "[\n  1,\n  2,\n  3\n]" {
			t.Errorf("lista.json = %q", got)
		}
	})

	t.Run("BelowThreshold", func(t *testing.T) {
		input := writeInput(t, `{"a": {"n": 1}, "b": {"n": 2}}`)
		outDir := t.TempDir()

		m, err := Split(input, outDir, Options{Threshold: 3})
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}
		wantLevels := []LevelDecision{{Depth: 0, Key: "input", ElementCount: 2, Action: ActionSaveAsIs}}
		if !reflect.DeepEqual(m.Levels, wantLevels) {
			t.Errorf("Levels = %+v, want %+v", m.Levels, wantLevels)
		}
		if got := relFiles(t, m, outDir); !slices.Equal(got, []string{"input.json"}) {
			t.Errorf("FilesCreated = %v", got)
		}
	})

	t.Run("MaxDepthCopiesVerbatim", func(t *testing.T) {
		input := writeInput(t, `{"A": {"B": {"x": 1, "y": 2}}}`)
		outDir := t.TempDir()

		m, err := Split(input, outDir, Options{MaxDepth: 1})
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}
		// Depth 0 collapses the single root, then depth 1 is at the
		// analysis limit and saves verbatim.
		wantLevels := []LevelDecision{
			{Depth: 1, Key: "A", ElementCount: 1, Action: ActionContinue},
			{Depth: 1, Key: "A", ElementCount: 1, Action: ActionSaveAsIs},
		}
		if !reflect.DeepEqual(m.Levels, wantLevels) {
			t.Errorf("Levels = %+v, want %+v", m.Levels, wantLevels)
		}
		if got := readFile(t, filepath.Join(outDir, "A.json")); got != "{\n  \"B\": {\n    \"x\": 1,\n    \"y\": 2\n  }\n}" {
			t.Errorf("A.json = %q", got)
		}
	})

	t.Run("Minify", func(t *testing.T) {
		input := writeInput(t, `{"AREE": {"a": {"nome": "a"}, "b": {"nome": "b"}}}`)
		outDir := t.TempDir()

		if _, err := Split(input, outDir, Options{Minify: true}); err != nil {
			t.Fatalf("Split failed: %v", err)
		}
		if got := readFile(t, filepath.Join(outDir, "root.json")); got != `{"path":"AREE"}` {
			t.Errorf("root.json = %q", got)
		}
		if got := readFile(t, filepath.Join(outDir, "AREE", "a.json")); got != `{"nome":"a"}` {
			t.Errorf("a.json = %q", got)
		}
	})

	t.Run("Idempotence", func(t *testing.T) {
		input := writeInput(t, `{"AREE": {"a": {"nome": "a"}, "b": {"nome": "b"}}}`)
		out1 := t.TempDir()
		out2 := t.TempDir()

		m1, err := Split(input, out1, Options{})
		if err != nil {
			t.Fatalf("first Split failed: %v", err)
		}
		m2, err := Split(input, out2, Options{})
		if err != nil {
			t.Fatalf("second Split failed: %v", err)
		}
		if !reflect.DeepEqual(m1.Levels, m2.Levels) {
			t.Errorf("decisions differ: %+v vs %+v", m1.Levels, m2.Levels)
		}
		if !slices.Equal(relFiles(t, m1, out1), relFiles(t, m2, out2)) {
			t.Errorf("file sets differ: %v vs %v", relFiles(t, m1, out1), relFiles(t, m2, out2))
		}
	})

	t.Run("MalformedInput", func(t *testing.T) {
		input := writeInput(t, `{"a": `)
		if _, err := Split(input, t.TempDir(), Options{}); err == nil {
			t.Error("Split should fail on malformed input")
		}
	})
}

func TestRoundTrip(t *testing.T) {
	// A directory produced by a split must load back through the sharded
	// store with one document per shard object and per array element,
	// numbered in directory-listing order.
	input := writeInput(t, `{
		"AREE": {
			"nord": {"nome": "Nord", "citta": ["Milano"]},
			"centro": {"nome": "Centro"},
			"sud": [{"nome": "Sud"}, {"nome": "Isole"}]
		}
	}`)
	outDir := t.TempDir()

	if _, err := Split(input, outDir, Options{}); err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	st, err := store.Open(outDir)
	if err != nil {
		t.Fatalf("failed to load split output: %v", err)
	}
	if got := st.Tables(); !slices.Equal(got, []string{"AREE"}) {
		t.Fatalf("Tables() = %v, want [AREE]", got)
	}
	coll, err := st.Table("AREE")
	if err != nil {
		t.Fatalf("Table(AREE) failed: %v", err)
	}
	// Shards list lexicographically: centro, nord, sud; sud is an array of
	// two documents, so four documents in total.
	if coll.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", coll.Len())
	}
	first, err := coll.Get("1")
	if err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}
	if nome, _ := first.Value.StringField("nome"); nome != "Centro" {
		t.Errorf("doc 1 nome = %q, want Centro", nome)
	}
	last, err := coll.Get("4")
	if err != nil {
		t.Fatalf("Get(4) failed: %v", err)
	}
	if nome, _ := last.Value.StringField("nome"); nome != "Isole" {
		t.Errorf("doc 4 nome = %q, want Isole", nome)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a/b:c", "a_b_c"},
		{"", "unnamed"},
		{"   ", "unnamed"},
		{" nome ", "nome"},
		{`x<>:"\|?*y`, "x________y"},
		{"regioni", "regioni"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	t.Run("SingleRootWouldSplit", func(t *testing.T) {
		input := writeInput(t, `{"AREE": {"a": {}, "b": {}}}`)
		a, err := Analyze(input, 0)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if !a.HasSingleRoot || !a.WouldSplit {
			t.Errorf("analysis = %+v", a)
		}
		if a.LevelOne == nil || a.LevelOne.KeyCount != 2 {
			t.Errorf("level one = %+v", a.LevelOne)
		}
	})

	t.Run("SingleRootScalar", func(t *testing.T) {
		input := writeInput(t, `{"n": 42}`)
		a, err := Analyze(input, 0)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if a.WouldSplit || a.LevelOne == nil || a.LevelOne.ValueType != "number" {
			t.Errorf("analysis = %+v, level one = %+v", a, a.LevelOne)
		}
	})

	t.Run("NonObjectTopLevel", func(t *testing.T) {
		input := writeInput(t, `[1, 2]`)
		a, err := Analyze(input, 0)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if a.KeyCount != 0 || a.WouldSplit {
			t.Errorf("analysis = %+v", a)
		}
	})

	t.Run("DoesNotWrite", func(t *testing.T) {
		dir := t.TempDir()
		input := filepath.Join(dir, "input.json")
		if err := os.WriteFile(input, []byte(`{"a": {}, "b": {}}`), 0o644); err != nil {
			t.Fatalf("failed to write input: %v", err)
		}
		if _, err := Analyze(input, 0); err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to list dir: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("Analyze created files: %v", entries)
		}
	})
}
