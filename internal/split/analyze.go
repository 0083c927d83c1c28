// Dry-run structure analysis: reports how a file would be split without
// writing anything.

package split

import (
	"fmt"
	"os"

	"github.com/lbassi/jsondb/internal/jsonval"
)

// LevelOneAnalysis describes the value under a single root key.
type LevelOneAnalysis struct {
	RootKey    string   `json:"root_key"`
	KeyCount   int      `json:"total_keys_level_1,omitempty"`
	Keys       []string `json:"keys_level_1,omitempty"`
	ValueType  string   `json:"type,omitempty"`
	WouldSplit bool     `json:"would_split"`
}

// Analysis is the outcome of a dry run over an input file.
type Analysis struct {
	KeyCount      int               `json:"total_keys_level_0"`
	Keys          []string          `json:"keys_level_0"`
	HasSingleRoot bool              `json:"has_single_root"`
	WouldSplit    bool              `json:"would_split"`
	LevelOne      *LevelOneAnalysis `json:"level_1_analysis,omitempty"`
}

// Analyze inspects the structure of a JSON file and reports how splitting
// would decide, without creating any file or directory.
func Analyze(inputPath string, threshold int) (*Analysis, error) {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", inputPath, err)
	}
	v, err := jsonval.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse input file %s: %w", inputPath, err)
	}

	a := &Analysis{}
	if !v.IsObject() {
		return a, nil
	}
	a.Keys = v.Keys()
	a.KeyCount = len(a.Keys)

	if a.KeyCount == 1 {
		a.HasSingleRoot = true
		rootKey := a.Keys[0]
		rootValue, _ := v.Field(rootKey)
		l1 := &LevelOneAnalysis{RootKey: rootKey}
		if rootValue.IsObject() {
			l1.Keys = rootValue.Keys()
			l1.KeyCount = len(l1.Keys)
			l1.WouldSplit = l1.KeyCount >= threshold
		} else {
			l1.ValueType = rootValue.Kind().String()
		}
		a.LevelOne = l1
		a.WouldSplit = l1.WouldSplit
		return a, nil
	}

	a.WouldSplit = a.KeyCount >= threshold
	return a, nil
}
