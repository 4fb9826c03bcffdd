package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/apidrift/internal/config"
	"github.com/mvp-joe/apidrift/internal/history"
)

var pruneKeepFlag int

// snapshotsCmd groups snapshot history subcommands.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage the snapshot history index",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded snapshots, newest first",
	RunE:  runSnapshotsList,
}

var snapshotsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old snapshots, keeping the newest N",
	RunE:  runSnapshotsPrune,
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsPruneCmd)
	snapshotsPruneCmd.Flags().IntVar(&pruneKeepFlag, "keep", 10, "number of newest snapshots to keep")
}

func openHistory() (*history.Store, string, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := history.Open(filepath.Join(root, cfg.Snapshots.History))
	if err != nil {
		return nil, "", err
	}
	return store, root, nil
}

func runSnapshotsList(cmd *cobra.Command, args []string) error {
	store, _, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No snapshots recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tREF\tSHA\tPATH")
	for _, e := range entries {
		sha := e.GitSha
		if len(sha) > 12 {
			sha = sha[:12]
		}
		ref := e.GitRef
		if ref == "" {
			ref = "(worktree)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.CreatedAt, ref, sha, e.Path)
	}
	return w.Flush()
}

func runSnapshotsPrune(cmd *cobra.Command, args []string) error {
	store, _, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	pruned, err := store.Prune(pruneKeepFlag)
	if err != nil {
		return err
	}

	for _, path := range pruned {
		// Best effort: the index row is already gone.
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove %s: %v\n", path, err)
		}
	}

	fmt.Printf("Pruned %d snapshot(s), kept the newest %d.\n", len(pruned), pruneKeepFlag)
	return nil
}
