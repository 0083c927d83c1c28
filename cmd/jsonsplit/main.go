// Package main is the entry point for the jsonsplit tool.
//
// jsonsplit decomposes a monolithic JSON file into a directory of shards
// that the jsondb server loads back as an equivalent database. With
// -analyze-only it reports the decisions it would take without writing
// anything.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lbassi/jsondb/internal/split"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "jsonsplit: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	maxDepth := flag.Int("max-depth", split.DefaultMaxDepth, "Deepest nesting level analyzed before a subtree is copied verbatim")
	threshold := flag.Int("threshold", split.DefaultThreshold, "Minimum child count that triggers splitting a node into files")
	analyzeOnly := flag.Bool("analyze-only", false, "Report the split decisions without writing anything")
	minify := flag.Bool("minify", false, "Write compact shard files instead of indented ones")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: jsonsplit [flags] input.json [output-dir]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:   level,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		flag.Usage()
		return errors.New("expected an input file and an optional output directory")
	}
	inputPath := args[0]

	if *analyzeOnly {
		a, err := split.Analyze(inputPath, *threshold)
		if err != nil {
			return err
		}
		return printJSON(a)
	}

	outputDir := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "_splitted"
	if len(args) == 2 {
		outputDir = args[1]
	}

	m, err := split.Split(inputPath, outputDir, split.Options{
		MaxDepth:  *maxDepth,
		Threshold: *threshold,
		Minify:    *minify,
	})
	if m != nil {
		for _, l := range m.Levels {
			slog.Debug("Level decision", "depth", l.Depth, "key", l.Key, "elements", l.ElementCount, "action", l.Action)
		}
	}
	if err != nil {
		// Files written before the failure stay in place; the partial
		// manifest shows how far the run got.
		if m != nil {
			_ = printJSON(m)
		}
		return err
	}
	fmt.Fprintf(os.Stderr, "Split %s into %d files under %s\n", inputPath, len(m.FilesCreated), outputDir)
	return printJSON(m)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
