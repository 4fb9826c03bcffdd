package extractor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// TSConfig holds the subset of tsconfig.json that drives file discovery.
type TSConfig struct {
	Files           []string `json:"files"`
	Include         []string `json:"include"`
	Exclude         []string `json:"exclude"`
	CompilerOptions struct {
		OutDir string `json:"outDir"`
	} `json:"compilerOptions"`
}

// loadTSConfig reads and parses a tsconfig.json file. tsconfig allows
// JSONC-style comments, so they are stripped before parsing.
func loadTSConfig(path string) (*TSConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg TSConfig
	if err := json.Unmarshal(stripJSONComments(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// stripJSONComments removes // and /* */ comments outside string literals.
func stripJSONComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	inLine := false
	inBlock := false

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case inLine:
			if c == '\n' {
				inLine = false
				out = append(out, c)
			}
		case inBlock:
			if c == '*' && i+1 < len(data) && data[i+1] == '/' {
				inBlock = false
				i++
			}
		case inString:
			out = append(out, c)
			if c == '\\' && i+1 < len(data) {
				out = append(out, data[i+1])
				i++
			} else if c == '"' {
				inString = false
			}
		default:
			if c == '"' {
				inString = true
				out = append(out, c)
			} else if c == '/' && i+1 < len(data) && data[i+1] == '/' {
				inLine = true
				i++
			} else if c == '/' && i+1 < len(data) && data[i+1] == '*' {
				inBlock = true
				i++
			} else {
				out = append(out, c)
			}
		}
	}
	return out
}

// fileSet decides which project files belong to the configured file set.
type fileSet struct {
	files    map[string]bool
	include  []pattern
	exclude  []pattern
	explicit bool
}

type pattern struct {
	globs  []glob.Glob // any-of; "**/" expansion produces one glob per variant
	prefix string      // set for bare directory patterns, matched as a prefix
}

func (p pattern) match(rel string) bool {
	if p.prefix != "" {
		return rel == p.prefix || strings.HasPrefix(rel, p.prefix+"/")
	}
	for _, g := range p.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// newFileSet compiles the tsconfig file selection into matchers. When both
// "files" and "include" are absent, everything under the project root is
// included. "node_modules" and the configured outDir are always excluded.
func newFileSet(cfg *TSConfig) (*fileSet, error) {
	fs := &fileSet{files: make(map[string]bool)}

	for _, f := range cfg.Files {
		fs.files[filepath.ToSlash(f)] = true
	}
	fs.explicit = len(cfg.Files) > 0 && len(cfg.Include) == 0

	include := cfg.Include
	if len(include) == 0 && len(cfg.Files) == 0 {
		include = []string{"**/*"}
	}
	for _, p := range include {
		compiled, err := compilePattern(p)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		fs.include = append(fs.include, compiled)
	}

	exclude := append([]string{"node_modules/**", ".git/**"}, cfg.Exclude...)
	if out := cfg.CompilerOptions.OutDir; out != "" {
		exclude = append(exclude, strings.TrimSuffix(filepath.ToSlash(out), "/")+"/**")
	}
	for _, p := range exclude {
		compiled, err := compilePattern(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		fs.exclude = append(fs.exclude, compiled)
	}

	return fs, nil
}

// compilePattern turns one tsconfig pattern into a matcher. A pattern with
// no glob metacharacters and no extension names a directory and matches
// everything beneath it.
func compilePattern(p string) (pattern, error) {
	p = strings.TrimSuffix(filepath.ToSlash(p), "/")
	if !strings.ContainsAny(p, "*?[{") && filepath.Ext(p) == "" {
		return pattern{prefix: p}, nil
	}

	var globs []glob.Glob
	for _, variant := range expandDirWildcards(p) {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return pattern{}, err
		}
		globs = append(globs, g)
	}
	return pattern{globs: globs}, nil
}

// expandDirWildcards expands every "**/" path segment into two variants,
// one keeping the segment and one eliding it. "**/" matches zero or more
// directories, but a compiled "**" followed by "/" requires at least one,
// so the elided variant covers the zero-directory case.
func expandDirWildcards(p string) []string {
	i := dirWildcardIndex(p)
	if i < 0 {
		return []string{p}
	}

	var variants []string
	for _, rest := range expandDirWildcards(p[i+3:]) {
		variants = append(variants, p[:i]+"**/"+rest, p[:i]+rest)
	}
	return variants
}

// dirWildcardIndex returns the index of the first "**/" that forms a whole
// path segment, or -1.
func dirWildcardIndex(p string) int {
	if strings.HasPrefix(p, "**/") {
		return 0
	}
	if i := strings.Index(p, "/**/"); i >= 0 {
		return i + 1
	}
	return -1
}

// Contains reports whether the slash-separated relative path belongs to
// the configured file set.
func (fs *fileSet) Contains(rel string) bool {
	if fs.files[rel] {
		return true
	}
	if fs.explicit {
		return false
	}
	for _, p := range fs.exclude {
		if p.match(rel) {
			return false
		}
	}
	for _, p := range fs.include {
		if p.match(rel) {
			return true
		}
	}
	return false
}
