package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/apidrift/internal/config"
	"github.com/mvp-joe/apidrift/internal/drift"
	"github.com/mvp-joe/apidrift/internal/report"
	"github.com/mvp-joe/apidrift/internal/resolver"
	"github.com/mvp-joe/apidrift/internal/snapshot"
	"github.com/mvp-joe/apidrift/internal/symbols"
)

var (
	compareBeforeFlag  string
	compareAfterFlag   string
	compareFormatFlag  string
	compareFailOnFlag  string
	compareVersionFlag string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two API snapshots and report drift",
	Long: `Compare diffs two snapshots and classifies every structural change
as breaking or non-breaking, suggesting a semver bump.

Each side is either a snapshot file or "ref:<gitref>", which resolves the
revision through an isolated checkout on the fly.

Examples:
  # Compare two snapshot files
  apidrift compare --before .apidrift/snapshots/v1.json --after .apidrift/snapshots/v2.json

  # Compare a released tag against the working tree snapshot
  apidrift compare --before ref:v1.4.0 --after .apidrift/snapshots/snapshot-worktree.json

  # Machine-readable output, fail CI on any change
  apidrift compare --before a.json --after b.json --format json --fail-on fail-on-any
`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareBeforeFlag, "before", "", "baseline snapshot file or ref:<gitref> (required)")
	compareCmd.Flags().StringVar(&compareAfterFlag, "after", "", "candidate snapshot file or ref:<gitref> (required)")
	compareCmd.Flags().StringVar(&compareFormatFlag, "format", "", "report format: json, text, or markdown (default from config)")
	compareCmd.Flags().StringVar(&compareFailOnFlag, "fail-on", "", "exit policy: fail-on-any or fail-on-breaking (default from config)")
	compareCmd.Flags().StringVar(&compareVersionFlag, "current-version", "", "current release version; prints the suggested next version")
	compareCmd.MarkFlagRequired("before")
	compareCmd.MarkFlagRequired("after")
}

func runCompare(cmd *cobra.Command, args []string) error {
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

	format := report.Format(cfg.Report.Format)
	if compareFormatFlag != "" {
		format = report.Format(compareFormatFlag)
	}
	policy := report.Policy(cfg.Report.FailOn)
	if compareFailOnFlag != "" {
		policy = report.Policy(compareFailOnFlag)
	}

	before, err := loadSide(ctx, root, cfg, compareBeforeFlag)
	if err != nil {
		return fmt.Errorf("loading baseline: %w", err)
	}
	after, err := loadSide(ctx, root, cfg, compareAfterFlag)
	if err != nil {
		return fmt.Errorf("loading candidate: %w", err)
	}

	result := drift.Compare(before, after)

	if err := report.Render(os.Stdout, result, format); err != nil {
		return err
	}

	if compareVersionFlag != "" {
		next, err := drift.NextVersion(compareVersionFlag, result.SuggestedVersion)
		if err != nil {
			return err
		}
		fmt.Printf("next version: %s\n", next)
	}

	code, err := report.ExitCode(result, policy)
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}

// loadSide loads one comparison side: "ref:<gitref>" resolves the revision
// through an isolated checkout, anything else is a snapshot file.
func loadSide(ctx context.Context, root string, cfg *config.Config, side string) (*symbols.ProjectSnapshot, error) {
	if ref, ok := strings.CutPrefix(side, "ref:"); ok {
		stored, err := resolver.New(root).Resolve(ctx, ref, resolver.Options{
			TSConfigPath: cfg.Project.TSConfig,
			InstallDeps:  cfg.Resolve.InstallDeps,
		})
		if err != nil {
			return nil, err
		}
		return stored.Snapshot, nil
	}

	stored, err := snapshot.Load(side, snapshot.LoadOptions{BaseDir: root})
	if err != nil {
		return nil, err
	}
	return stored.Snapshot, nil
}
