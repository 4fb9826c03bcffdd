package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// MockGitOps is a mock implementation of Operations for testing.
// AddWorktree materializes Files into the target directory so resolver
// tests exercise real filesystem paths without a git toolchain.
type MockGitOps struct {
	Repository bool
	CommitSha  string

	// Files maps relative paths to contents, written by AddWorktree.
	Files map[string]string

	AddWorktreeError    error
	RemoveWorktreeError error
	ResolveCommitError  error

	// Call records for assertions.
	AddedWorktrees   []string
	RemovedWorktrees []string
	ResolvedRefs     []string
}

// NewMockGitOps creates a mock with sensible defaults.
func NewMockGitOps() *MockGitOps {
	return &MockGitOps{
		Repository: true,
		CommitSha:  "abc1234def5678901234567890abcdef12345678",
		Files:      map[string]string{},
	}
}

func (m *MockGitOps) IsRepository(ctx context.Context, repoDir string) bool {
	return m.Repository
}

func (m *MockGitOps) AddWorktree(ctx context.Context, repoDir, dir, ref string) error {
	if m.AddWorktreeError != nil {
		return m.AddWorktreeError
	}
	m.AddedWorktrees = append(m.AddedWorktrees, dir)
	for rel, content := range m.Files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockGitOps) RemoveWorktree(ctx context.Context, repoDir, dir string) error {
	m.RemovedWorktrees = append(m.RemovedWorktrees, dir)
	if m.RemoveWorktreeError != nil {
		return m.RemoveWorktreeError
	}
	return os.RemoveAll(dir)
}

func (m *MockGitOps) ResolveCommit(ctx context.Context, repoDir, ref string) (string, error) {
	m.ResolvedRefs = append(m.ResolvedRefs, ref)
	if m.ResolveCommitError != nil {
		return "", m.ResolveCommitError
	}
	return m.CommitSha, nil
}

// String returns a human-readable representation of the mock state.
func (m *MockGitOps) String() string {
	return fmt.Sprintf("MockGitOps{repository=%t, sha=%s, files=%d}",
		m.Repository, m.CommitSha, len(m.Files))
}
