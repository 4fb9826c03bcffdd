// Package resolver produces a project snapshot for an arbitrary named git
// revision via an isolated, non-destructive worktree checkout. The caller's
// working copy is never touched, and the ephemeral checkout is released on
// every exit path.
package resolver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/apidrift/internal/extractor"
	"github.com/mvp-joe/apidrift/internal/git"
	"github.com/mvp-joe/apidrift/internal/snapshot"
	"github.com/mvp-joe/apidrift/internal/symbols"
	"github.com/mvp-joe/apidrift/internal/validate"
)

// ExtractFunc produces a snapshot from a tsconfig locator. A fresh
// extractor is constructed per call by default, so repeated resolutions
// are independent.
type ExtractFunc func(ctx context.Context, tsConfigPath string) (*symbols.ProjectSnapshot, error)

// InstallFunc installs dependencies inside the given directory.
type InstallFunc func(ctx context.Context, dir string) error

// Resolver acquires snapshots for named revisions. Multiple resolutions
// may run concurrently; each uses its own ephemeral worktree and no global
// lock is held.
type Resolver struct {
	repoDir string
	gitOps  git.Operations
	extract ExtractFunc
	install InstallFunc
}

// New creates a resolver for the repository rooted at repoDir, using the
// real git toolchain, a fresh extractor per call, and npm for dependency
// installation.
func New(repoDir string) *Resolver {
	return &Resolver{
		repoDir: repoDir,
		gitOps:  git.NewOperations(),
		extract: func(ctx context.Context, tsConfigPath string) (*symbols.ProjectSnapshot, error) {
			return extractor.New().Extract(ctx, tsConfigPath)
		},
		install: npmInstall,
	}
}

// NewWithDeps creates a resolver with explicit collaborators. Tests use
// this to substitute a mock git toolchain, a fake extractor, or a no-op
// installer.
func NewWithDeps(repoDir string, gitOps git.Operations, extract ExtractFunc, install InstallFunc) *Resolver {
	return &Resolver{
		repoDir: repoDir,
		gitOps:  gitOps,
		extract: extract,
		install: install,
	}
}

// Options configures a resolution.
type Options struct {
	// TSConfigPath is the tsconfig locator relative to the repository
	// root. Defaults to "tsconfig.json".
	TSConfigPath string

	// InstallDeps runs dependency installation inside the ephemeral
	// checkout when a package.json is present there.
	InstallDeps bool
}

// Resolve materializes ref into an ephemeral worktree, extracts its symbol
// surface, and returns the result wrapped in a snapshot envelope carrying
// the ref and its resolved commit hash. File paths in the returned
// registry are rewritten from the ephemeral tree back to the caller's
// repository root, so they stay comparable with snapshots taken from the
// canonical checkout.
func (r *Resolver) Resolve(ctx context.Context, ref string, opts Options) (*snapshot.StoredSnapshot, error) {
	validRef, err := validate.GitRef(ref)
	if err != nil {
		return nil, fmt.Errorf("validating ref: %w", err)
	}

	if !r.gitOps.IsRepository(ctx, r.repoDir) {
		return nil, fmt.Errorf("%w: %s", git.ErrNotARepository, r.repoDir)
	}

	tsConfigRel := opts.TSConfigPath
	if tsConfigRel == "" {
		tsConfigRel = "tsconfig.json"
	}

	worktreeDir := filepath.Join(os.TempDir(), "apidrift-worktree-"+uuid.NewString())

	if err := r.gitOps.AddWorktree(ctx, r.repoDir, worktreeDir, validRef); err != nil {
		os.RemoveAll(worktreeDir)
		return nil, fmt.Errorf("creating isolated checkout for %q: %w", validRef, err)
	}
	defer func() {
		// Release the checkout on every exit path. If git cannot remove
		// its registration, fall back to deleting the tree directly.
		if rmErr := r.gitOps.RemoveWorktree(context.WithoutCancel(ctx), r.repoDir, worktreeDir); rmErr != nil {
			os.RemoveAll(worktreeDir)
		}
	}()

	if opts.InstallDeps {
		if _, statErr := os.Stat(filepath.Join(worktreeDir, "package.json")); statErr == nil {
			if err := r.install(ctx, worktreeDir); err != nil {
				return nil, fmt.Errorf("installing dependencies in checkout: %w", err)
			}
		}
	}

	snap, err := r.extract(ctx, filepath.Join(worktreeDir, tsConfigRel))
	if err != nil {
		return nil, err
	}

	// Reproducibility metadata only: an unresolvable ref omits the hash
	// rather than failing the resolution.
	sha, err := r.gitOps.ResolveCommit(ctx, r.repoDir, validRef)
	if err != nil {
		sha = ""
	}

	return &snapshot.StoredSnapshot{
		Metadata: snapshot.Metadata{
			Version:      snapshot.FormatVersion,
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
			TSConfigPath: filepath.Join(r.repoDir, tsConfigRel),
			GitRef:       validRef,
			GitSha:       sha,
		},
		Snapshot: rewritePaths(snap, worktreeDir, r.repoDir),
	}, nil
}

// SaveOptions configures SaveSnapshotFromRef.
type SaveOptions struct {
	Options

	// OutputPath overrides the ref-derived default filename. Relative
	// paths resolve against the repository root.
	OutputPath string
}

// SaveSnapshotFromRef resolves ref and persists the result through the
// snapshot store. When no output path is given, the filename is derived
// from the ref with non-alphanumeric characters replaced.
func (r *Resolver) SaveSnapshotFromRef(ctx context.Context, ref string, opts SaveOptions) (string, error) {
	stored, err := r.Resolve(ctx, ref, opts.Options)
	if err != nil {
		return "", err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = DefaultSnapshotFilename(stored.Metadata.GitRef)
	}

	return snapshot.Save(stored.Snapshot, stored.Metadata.TSConfigPath, snapshot.SaveOptions{
		OutputPath: outputPath,
		BaseDir:    r.repoDir,
		GitRef:     stored.Metadata.GitRef,
		GitSha:     stored.Metadata.GitSha,
	})
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// DefaultSnapshotFilename derives a snapshot filename from a ref, e.g.
// "origin/main" becomes "snapshot-origin-main.json".
func DefaultSnapshotFilename(ref string) string {
	return "snapshot-" + nonAlphanumeric.ReplaceAllString(ref, "-") + ".json"
}

// rewritePaths rebuilds the registry with every file path moved from the
// ephemeral prefix to the repository prefix. Keys embed file paths, so the
// registry is rebuilt rather than edited in place.
func rewritePaths(snap *symbols.ProjectSnapshot, from, to string) *symbols.ProjectSnapshot {
	rewritten := symbols.NewRegistry()

	for _, sig := range snap.Symbols.Functions {
		sig.FilePath = replacePrefix(sig.FilePath, from, to)
		rewritten.AddFunction(sig)
	}
	for _, def := range snap.Symbols.Interfaces {
		def.FilePath = replacePrefix(def.FilePath, from, to)
		rewritten.AddInterface(def)
	}
	for _, def := range snap.Symbols.Types {
		def.FilePath = replacePrefix(def.FilePath, from, to)
		rewritten.AddType(def)
	}

	return symbols.NewSnapshot(rewritten)
}

func replacePrefix(path, from, to string) string {
	if path == from {
		return to
	}
	if strings.HasPrefix(path, from+string(filepath.Separator)) {
		return filepath.Join(to, path[len(from)+1:])
	}
	return path
}

// npmInstall runs npm in the given directory. Used only inside ephemeral
// checkouts; the caller's working copy is never installed into.
func npmInstall(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, "npm", "install", "--no-audit", "--no-fund")
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("npm install failed: %s", firstLine(output))
	}
	return nil
}

func firstLine(output []byte) string {
	for _, line := range strings.Split(string(output), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return "no output"
}
