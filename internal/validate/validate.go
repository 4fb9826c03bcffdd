// Package validate gates externally supplied git refs and filesystem paths
// before any command interpolation or file access. Every operation that
// passes a ref to git or opens a path must go through these checks first;
// they are the sole defense against command injection and path traversal.
package validate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyRef indicates an empty or whitespace-only ref.
	ErrEmptyRef = errors.New("empty git ref")

	// ErrRefTooLong indicates a ref exceeding the maximum length.
	ErrRefTooLong = errors.New("git ref too long")

	// ErrRefInvalidCharacter indicates a ref containing a shell
	// metacharacter or control character.
	ErrRefInvalidCharacter = errors.New("invalid character in git ref")

	// ErrEmptyPath indicates an empty path.
	ErrEmptyPath = errors.New("empty path")

	// ErrPathTooLong indicates a path exceeding the maximum length.
	ErrPathTooLong = errors.New("path too long")

	// ErrPathTraversal indicates a path escaping its base directory.
	ErrPathTraversal = errors.New("path escapes base directory")
)

const (
	maxRefLength  = 256
	maxPathLength = 4096
)

// Characters never valid in a ref we are willing to pass to git.
const reservedRefCharacters = "'\"`$\\;|&<>() \t\n\r"

// GitRef validates an externally supplied revision reference and returns
// the trimmed ref. Rejects empty or whitespace-only input, refs longer
// than 256 characters, control characters, and shell metacharacters.
func GitRef(ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", ErrEmptyRef
	}
	if len(trimmed) > maxRefLength {
		return "", fmt.Errorf("%w: %d characters (max %d)", ErrRefTooLong, len(trimmed), maxRefLength)
	}
	for _, r := range trimmed {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("%w: control character 0x%02x", ErrRefInvalidCharacter, r)
		}
		if strings.ContainsRune(reservedRefCharacters, r) {
			return "", fmt.Errorf("%w: %q", ErrRefInvalidCharacter, r)
		}
	}
	return trimmed, nil
}

// Path validates an externally supplied path against a base directory and
// returns the resolved absolute path. The resolved path must stay inside
// baseDir; anything escaping it (via ".." segments or an absolute input
// outside the base) is rejected.
func Path(path, baseDir string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if len(path) > maxPathLength {
		return "", fmt.Errorf("%w: %d characters (max %d)", ErrPathTooLong, len(path), maxPathLength)
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}

	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(base, resolved)
	}
	resolved = filepath.Clean(resolved)

	rel, err := filepath.Rel(base, resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, path)
	}

	return resolved, nil
}
