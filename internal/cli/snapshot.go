package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/apidrift/internal/config"
	"github.com/mvp-joe/apidrift/internal/extractor"
	"github.com/mvp-joe/apidrift/internal/git"
	"github.com/mvp-joe/apidrift/internal/history"
	"github.com/mvp-joe/apidrift/internal/resolver"
	"github.com/mvp-joe/apidrift/internal/snapshot"
)

var (
	snapshotRefFlag     string
	snapshotOutputFlag  string
	snapshotInstallFlag bool
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Extract and persist an API snapshot",
	Long: `Snapshot extracts the project's public symbol surface and writes it
to a versioned JSON snapshot file.

By default the current working tree is analyzed. With --ref, the named
revision is materialized into an isolated worktree (leaving your working
copy untouched), analyzed there, and cleaned up afterwards.

Examples:
  # Snapshot the working tree
  apidrift snapshot

  # Snapshot a branch without touching the working copy
  apidrift snapshot --ref origin/main

  # Snapshot a tag, installing its dependencies first
  apidrift snapshot --ref v2.1.0 --install
`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVar(&snapshotRefFlag, "ref", "", "git ref (branch/tag/commit) to snapshot instead of the working tree")
	snapshotCmd.Flags().StringVarP(&snapshotOutputFlag, "output", "o", "", "output file (default: derived from the ref under the snapshot directory)")
	snapshotCmd.Flags().BoolVar(&snapshotInstallFlag, "install", false, "run dependency installation inside the isolated checkout")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	root, err := projectRoot()
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var path string
	var meta snapshot.Metadata

	if snapshotRefFlag != "" {
		path, meta, err = snapshotRef(ctx, root, cfg)
	} else {
		path, meta, err = snapshotWorkingTree(ctx, root, cfg)
	}
	if err != nil {
		return err
	}

	recordHistory(root, cfg, path, meta)

	if !quietFlag {
		log.Printf("Snapshot written to %s", path)
	}
	return nil
}

// snapshotRef snapshots an arbitrary revision through the resolver.
func snapshotRef(ctx context.Context, root string, cfg *config.Config) (string, snapshot.Metadata, error) {
	r := resolver.New(root)

	output := snapshotOutputFlag
	if output == "" {
		output = filepath.Join(cfg.Snapshots.Dir, resolver.DefaultSnapshotFilename(snapshotRefFlag))
	}

	path, err := r.SaveSnapshotFromRef(ctx, snapshotRefFlag, resolver.SaveOptions{
		Options: resolver.Options{
			TSConfigPath: cfg.Project.TSConfig,
			InstallDeps:  snapshotInstallFlag || cfg.Resolve.InstallDeps,
		},
		OutputPath: output,
	})
	if err != nil {
		return "", snapshot.Metadata{}, err
	}

	stored, err := snapshot.Load(path, snapshot.LoadOptions{BaseDir: root})
	if err != nil {
		return "", snapshot.Metadata{}, err
	}
	return path, stored.Metadata, nil
}

// snapshotWorkingTree extracts the current working tree directly.
func snapshotWorkingTree(ctx context.Context, root string, cfg *config.Config) (string, snapshot.Metadata, error) {
	e := extractor.New()
	e.Progress = extractProgress(quietFlag)

	snap, err := e.Extract(ctx, filepath.Join(root, cfg.Project.TSConfig))
	if err != nil {
		return "", snapshot.Metadata{}, err
	}

	// Best effort: record the commit the working tree is based on.
	sha := ""
	gitOps := git.NewOperations()
	if gitOps.IsRepository(ctx, root) {
		if resolved, err := gitOps.ResolveCommit(ctx, root, "HEAD"); err == nil {
			sha = resolved
		}
	}

	output := snapshotOutputFlag
	if output == "" {
		output = filepath.Join(cfg.Snapshots.Dir, "snapshot-worktree.json")
	}

	path, err := snapshot.Save(snap, filepath.Join(root, cfg.Project.TSConfig), snapshot.SaveOptions{
		OutputPath: output,
		BaseDir:    root,
		GitSha:     sha,
	})
	if err != nil {
		return "", snapshot.Metadata{}, err
	}

	stored, err := snapshot.Load(path, snapshot.LoadOptions{BaseDir: root})
	if err != nil {
		return "", snapshot.Metadata{}, err
	}
	return path, stored.Metadata, nil
}

// recordHistory appends the saved snapshot to the history index. Failures
// are reported but never fail the snapshot itself.
func recordHistory(root string, cfg *config.Config, path string, meta snapshot.Metadata) {
	store, err := history.Open(filepath.Join(root, cfg.Snapshots.History))
	if err != nil {
		log.Printf("Warning: failed to open snapshot history: %v", err)
		return
	}
	defer store.Close()

	if _, err := store.Record(history.Entry{
		Path:         path,
		GitRef:       meta.GitRef,
		GitSha:       meta.GitSha,
		TSConfigPath: meta.TSConfigPath,
		CreatedAt:    meta.CreatedAt,
	}); err != nil {
		log.Printf("Warning: failed to record snapshot history: %v", err)
	}
}

// signalContext returns a context cancelled by SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	return ctx, cancel
}
