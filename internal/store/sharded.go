// Sharded directory store: a root config file plus a directory of JSON
// shard files, each holding one document or an array of documents.

package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lbassi/jsondb/internal/jsonval"
)

// RootConfig names the subdirectory, relative to the store root, that holds
// the shard files. An empty path means the shards live at the root itself.
type RootConfig struct {
	Path string `json:"path"`
}

// Sharded is a store backed by a directory of pre-split JSON shards. All
// shards are loaded once at construction, in lexicographic filename order,
// with a running counter assigning sequential integer identities across the
// whole directory. The store is read-only and never re-reads the disk.
type Sharded struct {
	dir   string
	table string
	coll  *Collection
}

// OpenSharded loads a sharded directory store rooted at dir.
func OpenSharded(dir string) (*Sharded, error) {
	cfg := readRootConfig(dir)
	shardDir := dir
	if cfg.Path != "" {
		shardDir = filepath.Join(dir, cfg.Path)
	}

	entries, err := os.ReadDir(shardDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list shard directory %s: %w", shardDir, err)
	}

	table := cfg.Path
	if table == "" {
		table = filepath.Base(dir)
	}
	coll := &Collection{name: table, idField: true}
	nextID := 1
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") || entry.Name() == RootConfigFile {
			continue
		}
		path := filepath.Join(shardDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read shard %s: %w", path, err)
		}
		v, err := jsonval.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse shard %s: %w", path, err)
		}
		switch {
		case v.IsObject():
			coll.docs = append(coll.docs, &Document{ID: IntID(nextID), Value: v})
			nextID++
		case v.IsArray():
			for _, elem := range v.Elems() {
				coll.docs = append(coll.docs, &Document{ID: IntID(nextID), Value: elem})
				nextID++
			}
		default:
			slog.Warn("Skipping shard with non-document content", "shard", path, "kind", v.Kind().String())
		}
	}

	return &Sharded{dir: dir, table: table, coll: coll}, nil
}

// readRootConfig reads root.json. A missing or malformed config is never
// fatal: the whole directory is then treated as the shard set.
func readRootConfig(dir string) RootConfig {
	var cfg RootConfig
	data, err := os.ReadFile(filepath.Join(dir, RootConfigFile))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read root config, using defaults", "dir", dir, "err", err)
		}
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("Malformed root config, using defaults", "dir", dir, "err", err)
		return RootConfig{}
	}
	return cfg
}

// Tables returns the single table this directory holds.
func (s *Sharded) Tables() []string {
	return []string{s.table}
}

// Table returns the shard-backed collection.
func (s *Sharded) Table(name string) (*Collection, error) {
	if name != s.table {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return s.coll, nil
}
