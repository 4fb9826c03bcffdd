// Package cli implements the apidrift command-line surface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dirFlag   string
	quietFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apidrift",
	Short: "Detect structural API drift in TypeScript projects",
	Long: `apidrift snapshots the public surface of a TypeScript project
(functions, methods, interfaces, type aliases) and compares snapshots
across revisions, classifying every change as breaking or non-breaking
to drive semantic versioning and CI gating.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCodeError carries a non-zero exit status up through the cobra error
// path so RunE implementations can return instead of calling os.Exit,
// letting their deferred cleanup run.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// exitStatus maps a command error to a process exit code and reports
// whether the error should be printed. Policy failures carry their own
// code and have already been reported through the rendered output.
func exitStatus(err error) (code int, printable bool) {
	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code, false
	}
	return 1, true
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code, printable := exitStatus(err)
		if printable {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(code)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "project root directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress progress output")
}

// projectRoot resolves the project root from the --dir flag or the current
// working directory.
func projectRoot() (string, error) {
	if dirFlag != "" {
		return filepath.Abs(dirFlag)
	}
	return os.Getwd()
}
