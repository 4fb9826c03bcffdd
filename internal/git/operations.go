// Package git wraps the ambient git toolchain behind a narrow interface so
// the resolver can be tested against a deterministic fake instead of a real
// repository.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotARepository indicates the given directory is not inside a git
// working tree.
var ErrNotARepository = errors.New("not a git repository")

// Operations defines the git operations the resolver depends on.
// This allows mocking git commands in tests.
type Operations interface {
	// IsRepository reports whether repoDir is inside a git working tree.
	IsRepository(ctx context.Context, repoDir string) bool

	// AddWorktree materializes ref's file tree into dir as a detached
	// worktree, leaving the primary working copy untouched.
	AddWorktree(ctx context.Context, repoDir, dir, ref string) error

	// RemoveWorktree removes a worktree previously created with AddWorktree,
	// including its registration in the repository.
	RemoveWorktree(ctx context.Context, repoDir, dir string) error

	// ResolveCommit resolves a ref to its full commit hash.
	ResolveCommit(ctx context.Context, repoDir, ref string) (string, error)
}

// gitOps is the real implementation using exec.Command.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func (g *gitOps) IsRepository(ctx context.Context, repoDir string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = repoDir
	output, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(output)) == "true"
}

func (g *gitOps) AddWorktree(ctx context.Context, repoDir, dir, ref string) error {
	cmd := exec.CommandContext(ctx, "git", "worktree", "add", "--detach", dir, ref)
	cmd.Dir = repoDir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git worktree add failed for %q: %s", ref, firstLine(output))
	}
	return nil
}

func (g *gitOps) RemoveWorktree(ctx context.Context, repoDir, dir string) error {
	cmd := exec.CommandContext(ctx, "git", "worktree", "remove", "--force", dir)
	cmd.Dir = repoDir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git worktree remove failed: %s", firstLine(output))
	}
	return nil
}

func (g *gitOps) ResolveCommit(ctx context.Context, repoDir, ref string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", ref)
	cmd.Dir = repoDir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed for %q: %w", ref, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// firstLine trims command output down to its first non-empty line for
// error messages.
func firstLine(output []byte) string {
	for _, line := range strings.Split(string(output), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return "no output"
}
