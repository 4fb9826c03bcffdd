// Package snapshot persists project snapshots as versioned, metadata-wrapped
// JSON documents and loads them back with strict format checks.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mvp-joe/apidrift/internal/symbols"
	"github.com/mvp-joe/apidrift/internal/validate"
)

// FormatVersion is stamped into every snapshot at write time and re-checked
// at read time. A mismatch is a hard failure, never a silent migration.
const FormatVersion = 1

var (
	// ErrNotFound indicates the snapshot file does not exist.
	ErrNotFound = errors.New("snapshot file not found")

	// ErrFormat indicates the snapshot file is not valid JSON or is
	// structurally incomplete.
	ErrFormat = errors.New("malformed snapshot file")
)

// VersionError reports a snapshot whose format version does not match the
// engine's supported version. It always names both versions.
type VersionError struct {
	Found    int
	Expected int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported snapshot format version %d (supported version: %d)", e.Found, e.Expected)
}

// Metadata describes when and from what a snapshot was taken.
type Metadata struct {
	Version      int    `json:"version"`
	CreatedAt    string `json:"createdAt"`
	TSConfigPath string `json:"tsConfigPath"`
	GitRef       string `json:"gitRef,omitempty"`
	GitSha       string `json:"gitSha,omitempty"`
}

// StoredSnapshot is the on-disk envelope: metadata plus the snapshot itself.
type StoredSnapshot struct {
	Metadata Metadata                 `json:"metadata"`
	Snapshot *symbols.ProjectSnapshot `json:"snapshot"`
}

// SaveOptions configures a snapshot save.
type SaveOptions struct {
	// OutputPath is the destination file, absolute or relative to BaseDir.
	OutputPath string
	// BaseDir bounds all path validation. Typically the project root.
	BaseDir string
	// GitRef optionally records the ref the snapshot was taken from.
	GitRef string
	// GitSha optionally records the resolved commit hash for the ref.
	GitSha string
}

// Save writes the snapshot to opts.OutputPath wrapped in a versioned
// envelope. Both the output path and the tsconfig path are validated
// against opts.BaseDir before anything touches the filesystem. Missing
// parent directories are created. The write is atomic: the document goes
// to a temp file in the destination directory, then renamed into place.
func Save(snap *symbols.ProjectSnapshot, tsConfigPath string, opts SaveOptions) (string, error) {
	outputPath, err := validate.Path(opts.OutputPath, opts.BaseDir)
	if err != nil {
		return "", fmt.Errorf("validating output path: %w", err)
	}

	resolvedConfig, err := validate.Path(tsConfigPath, opts.BaseDir)
	if err != nil {
		return "", fmt.Errorf("validating tsconfig path: %w", err)
	}

	stored := StoredSnapshot{
		Metadata: Metadata{
			Version:      FormatVersion,
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
			TSConfigPath: resolvedConfig,
			GitRef:       opts.GitRef,
			GitSha:       opts.GitSha,
		},
		Snapshot: snap,
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".apidrift-snapshot-*")
	if err != nil {
		return "", fmt.Errorf("creating temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing snapshot file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("setting snapshot permissions: %w", err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalizing snapshot file: %w", err)
	}

	return outputPath, nil
}

// LoadOptions configures a snapshot load.
type LoadOptions struct {
	// BaseDir bounds path validation. Typically the project root.
	BaseDir string
}

// envelope mirrors StoredSnapshot with pointer fields so a structurally
// incomplete document can be told apart from an empty one.
type envelope struct {
	Metadata *Metadata                `json:"metadata"`
	Snapshot *symbols.ProjectSnapshot `json:"snapshot"`
}

// Load reads a stored snapshot. Loading is all-or-nothing: a missing file,
// invalid JSON, an incomplete envelope, or a format version mismatch all
// fail without returning a partial result.
func Load(path string, opts LoadOptions) (*StoredSnapshot, error) {
	resolved, err := validate.Path(path, opts.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("validating snapshot path: %w", err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, resolved)
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", ErrFormat, err)
	}
	if env.Metadata == nil {
		return nil, fmt.Errorf("%w: missing metadata", ErrFormat)
	}
	if env.Snapshot == nil {
		return nil, fmt.Errorf("%w: missing snapshot", ErrFormat)
	}
	if env.Metadata.Version != FormatVersion {
		return nil, &VersionError{Found: env.Metadata.Version, Expected: FormatVersion}
	}

	return &StoredSnapshot{Metadata: *env.Metadata, Snapshot: env.Snapshot}, nil
}
