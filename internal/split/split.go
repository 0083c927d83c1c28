// Package split decomposes a monolithic JSON object into an on-disk shard
// layout that the sharded directory store loads back as an equivalent
// document collection. Splitting and loading share the same addressing and
// identity rules, so browsing a split database is indistinguishable from
// browsing the original file.
package split

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lbassi/jsondb/internal/jsonval"
	"github.com/lbassi/jsondb/internal/store"
)

// DefaultMaxDepth is the deepest nesting level analyzed before a subtree is
// copied verbatim.
const DefaultMaxDepth = 2

// DefaultThreshold is the minimum child count that triggers splitting a node
// into separate files.
const DefaultThreshold = 2

// Options tune one split run.
type Options struct {
	// MaxDepth bounds the recursive analysis; zero means DefaultMaxDepth.
	MaxDepth int
	// Threshold is the minimum child count that triggers a split; zero
	// means DefaultThreshold.
	Threshold int
	// Minify writes compact shard files instead of indented ones.
	Minify bool
}

func (o Options) withDefaults() Options {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Action is one structural decision taken while splitting.
type Action string

const (
	// ActionSplit wrote each child of a node as its own shard file.
	ActionSplit Action = "split"
	// ActionContinue collapsed a single-key level and descended.
	ActionContinue Action = "continue"
	// ActionSaveAsIs wrote a node verbatim to a single file.
	ActionSaveAsIs Action = "save_as_is"
)

// LevelDecision records one decision of the recursive analysis.
type LevelDecision struct {
	Depth        int    `json:"depth"`
	Key          string `json:"key"`
	ElementCount int    `json:"element_count"`
	Action       Action `json:"action"`
}

// Manifest records every decision and every artifact of one split run. It
// serves both diagnostics and precise test assertions.
type Manifest struct {
	RootName     string          `json:"root_name"`
	Levels       []LevelDecision `json:"levels"`
	FilesCreated []string        `json:"files_created"`
	DirsCreated  []string        `json:"directories_created"`
}

// Split loads a JSON file and decomposes it under outputDir. The input file
// stem serves as the top-level key. On a write failure the recursion aborts
// immediately; files already written stay in place and the partial manifest
// is returned alongside the error.
func Split(inputPath, outputDir string, opts Options) (*Manifest, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", inputPath, err)
	}
	v, err := jsonval.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse input file %s: %w", inputPath, err)
	}
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return SplitValue(v, outputDir, stem, opts)
}

// SplitValue decomposes an in-memory JSON value under outputDir, using key
// as the name of the top level.
func SplitValue(v *jsonval.Value, outputDir, key string, opts Options) (*Manifest, error) {
	opts = opts.withDefaults()
	if abs, err := filepath.Abs(outputDir); err == nil {
		outputDir = abs
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	m := &Manifest{RootName: filepath.Base(outputDir)}
	if err := process(v, outputDir, 0, key, opts, m); err != nil {
		return m, err
	}
	return m, nil
}

// process is the recursive structural decision procedure. It is a pure
// function of (node, depth, key) apart from the manifest accumulator and
// the files it writes.
func process(node *jsonval.Value, outputDir string, depth int, key string, opts Options, m *Manifest) error {
	// Non-objects and subtrees below the analysis depth degrade to a
	// direct copy.
	if !node.IsObject() || depth >= opts.MaxDepth {
		m.Levels = append(m.Levels, LevelDecision{Depth: depth, Key: key, ElementCount: node.Len(), Action: ActionSaveAsIs})
		return writeShard(filepath.Join(outputDir, SanitizeFilename(key)+".json"), node, opts.Minify, m)
	}

	n := node.Len()

	// A single wrapper key at the top level is collapsed: the decision is
	// made about its value instead.
	if depth == 0 && n == 1 {
		singleKey := node.Keys()[0]
		singleValue, _ := node.Field(singleKey)

		if !singleValue.IsObject() {
			return writeShard(filepath.Join(outputDir, SanitizeFilename(singleKey)+".json"), singleValue, opts.Minify, m)
		}

		if singleValue.Len() >= opts.Threshold {
			m.Levels = append(m.Levels, LevelDecision{Depth: 1, Key: singleKey, ElementCount: singleValue.Len(), Action: ActionSplit})
			return splitChildren(singleValue, outputDir, singleKey, true, opts, m)
		}

		m.Levels = append(m.Levels, LevelDecision{Depth: 1, Key: singleKey, ElementCount: singleValue.Len(), Action: ActionContinue})
		return process(singleValue, outputDir, 1, singleKey, opts, m)
	}

	if n >= opts.Threshold {
		m.Levels = append(m.Levels, LevelDecision{Depth: depth, Key: key, ElementCount: n, Action: ActionSplit})
		return splitChildren(node, outputDir, key, depth == 0, opts, m)
	}

	m.Levels = append(m.Levels, LevelDecision{Depth: depth, Key: key, ElementCount: n, Action: ActionSaveAsIs})
	return writeShard(filepath.Join(outputDir, SanitizeFilename(key)+".json"), node, opts.Minify, m)
}

// splitChildren writes every child of node as its own shard file inside a
// subdirectory named after key. At the top level the subdirectory is the
// primary table directory and a root config pointing at it is written too,
// making the output loadable by the sharded directory store.
func splitChildren(node *jsonval.Value, outputDir, key string, top bool, opts Options, m *Manifest) error {
	dir := filepath.Join(outputDir, SanitizeFilename(key))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create shard directory %s: %w", dir, err)
	}
	m.DirsCreated = append(m.DirsCreated, dir)

	if top {
		cfg := jsonval.NewObject()
		cfg.Set("path", jsonval.NewString(key))
		if err := writeShard(filepath.Join(outputDir, store.RootConfigFile), cfg, opts.Minify, m); err != nil {
			return err
		}
	}

	for childKey, child := range node.Fields() {
		path := filepath.Join(dir, SanitizeFilename(childKey)+".json")
		if err := writeShard(path, child, opts.Minify, m); err != nil {
			return err
		}
	}
	return nil
}

// writeShard serializes one value and records the file in the manifest.
func writeShard(path string, v *jsonval.Value, minify bool, m *Manifest) error {
	if err := os.WriteFile(path, v.JSON(minify), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	m.FilesCreated = append(m.FilesCreated, path)
	return nil
}

// invalidFilenameChars are the characters replaced in shard names, the
// union of what Windows and Unix filesystems reject.
const invalidFilenameChars = `<>:"/\|?*`

// SanitizeFilename makes a JSON key safe to use as a file or directory
// name. Invalid characters become underscores, surrounding whitespace is
// trimmed and an empty result falls back to "unnamed".
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilenameChars, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "unnamed"
	}
	return name
}
