// Package extractor builds a normalized project snapshot from a TypeScript
// project's declared file set.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvp-joe/apidrift/internal/symbols"
)

// ErrInvalidConfig indicates the project configuration could not be read
// or parsed.
var ErrInvalidConfig = errors.New("invalid project configuration")

// Source file extensions the extractor understands. Declaration files are
// skipped; they restate the surface the source already declares.
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
}

// Extractor produces a project snapshot from a tsconfig.json locator.
// Construct one per analysis call; it holds no cross-call state, so
// repeated and concurrent analyses are independent.
type Extractor struct {
	// Progress, when set, is called after each parsed file.
	Progress func(done, total int)
}

// New creates a fresh extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses every file in the project's configured file set and
// returns the populated snapshot. The registry is built during this single
// traversal and never mutated afterward.
func (e *Extractor) Extract(ctx context.Context, tsConfigPath string) (*symbols.ProjectSnapshot, error) {
	absConfig, err := filepath.Abs(tsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg, err := loadTSConfig(absConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	files, err := e.discoverFiles(filepath.Dir(absConfig), cfg)
	if err != nil {
		return nil, err
	}

	registry := symbols.NewRegistry()
	parser := newTypeScriptParser()

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		if err := parser.parseFile(file, source, registry); err != nil {
			return nil, err
		}

		if e.Progress != nil {
			e.Progress(i+1, len(files))
		}
	}

	return symbols.NewSnapshot(registry), nil
}

// discoverFiles walks the project root and returns the sorted absolute
// paths of source files belonging to the configured file set. Dependency
// trees are pruned before pattern matching.
func (e *Extractor) discoverFiles(rootDir string, cfg *TSConfig) ([]string, error) {
	set, err := newFileSet(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var files []string
	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if name == "node_modules" || name == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		if !sourceExtensions[filepath.Ext(path)] || strings.HasSuffix(path, ".d.ts") {
			return nil
		}

		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		if set.Contains(filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering project files: %w", err)
	}

	sort.Strings(files)
	return files, nil
}
