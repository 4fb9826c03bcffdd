package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/apidrift/internal/config"
	"github.com/mvp-joe/apidrift/internal/drift"
	"github.com/mvp-joe/apidrift/internal/extractor"
	"github.com/mvp-joe/apidrift/internal/report"
	"github.com/mvp-joe/apidrift/internal/resolver"
)

var (
	checkAgainstFlag string
	checkFormatFlag  string
	checkFailOnFlag  string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the working tree against a baseline revision",
	Long: `Check is the CI shorthand: it snapshots the working tree, resolves the
baseline revision through an isolated checkout, and fails according to
the exit policy when the surfaces have drifted.

Examples:
  # Gate a pull request against main
  apidrift check --against origin/main

  # Fail on any change, not just breaking ones
  apidrift check --against origin/main --fail-on fail-on-any
`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkAgainstFlag, "against", "origin/main", "baseline git ref to compare the working tree against")
	checkCmd.Flags().StringVar(&checkFormatFlag, "format", "", "report format: json, text, or markdown (default from config)")
	checkCmd.Flags().StringVar(&checkFailOnFlag, "fail-on", "", "exit policy: fail-on-any or fail-on-breaking (default from config)")
}

func runCheck(cmd *cobra.Command, args []string) error {
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
	if checkFormatFlag != "" {
		format = report.Format(checkFormatFlag)
	}
	policy := report.Policy(cfg.Report.FailOn)
	if checkFailOnFlag != "" {
		policy = report.Policy(checkFailOnFlag)
	}

	baseline, err := resolver.New(root).Resolve(ctx, checkAgainstFlag, resolver.Options{
		TSConfigPath: cfg.Project.TSConfig,
		InstallDeps:  cfg.Resolve.InstallDeps,
	})
	if err != nil {
		return fmt.Errorf("resolving baseline %q: %w", checkAgainstFlag, err)
	}

	e := extractor.New()
	e.Progress = extractProgress(quietFlag)
	working, err := e.Extract(ctx, filepath.Join(root, cfg.Project.TSConfig))
	if err != nil {
		return fmt.Errorf("extracting working tree: %w", err)
	}

	result := drift.Compare(baseline.Snapshot, working)

	if err := report.Render(os.Stdout, result, format); err != nil {
		return err
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
