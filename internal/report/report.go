// Package report renders drift reports for machines and humans and maps
// report severity to process exit codes.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mvp-joe/apidrift/internal/drift"
)

// Format selects a rendering of the drift report.
type Format string

const (
	// FormatJSON is the machine-readable rendering.
	FormatJSON Format = "json"
	// FormatText is the human-readable terminal rendering.
	FormatText Format = "text"
	// FormatMarkdown is the document-style rendering.
	FormatMarkdown Format = "markdown"
)

// Policy decides when drift fails the process.
type Policy string

const (
	// PolicyFailOnAny fails when anything changed.
	PolicyFailOnAny Policy = "fail-on-any"
	// PolicyFailOnBreaking fails only on breaking changes.
	PolicyFailOnBreaking Policy = "fail-on-breaking"
)

// Render writes the report to w in the requested format.
func Render(w io.Writer, r *drift.DriftReport, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, r)
	case FormatText:
		return renderText(w, r)
	case FormatMarkdown:
		return renderMarkdown(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// ExitCode maps report severity to a process exit status under the given
// policy. Returns an error for unknown policies so typos in CI configs
// fail loudly instead of silently passing.
func ExitCode(r *drift.DriftReport, policy Policy) (int, error) {
	changed := len(r.AddedFunctions) > 0 || len(r.RemovedFunctions) > 0 || len(r.ModifiedFunctions) > 0

	switch policy {
	case PolicyFailOnAny:
		if changed {
			return 1, nil
		}
		return 0, nil
	case PolicyFailOnBreaking:
		if r.HasBreakingChanges {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown exit policy %q", policy)
	}
}

func renderJSON(w io.Writer, r *drift.DriftReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func renderText(w io.Writer, r *drift.DriftReport) error {
	var b strings.Builder

	if !hasAnyChange(r) {
		b.WriteString("No API drift detected.\n")
	}

	for _, name := range r.AddedFunctions {
		fmt.Fprintf(&b, "+ added    %s\n", name)
	}
	for _, name := range r.RemovedFunctions {
		fmt.Fprintf(&b, "- removed  %s (breaking)\n", name)
	}
	for _, fn := range r.ModifiedFunctions {
		fmt.Fprintf(&b, "~ modified %s (%s)\n", fn.Name, fn.FilePathAfter)
		for _, c := range fn.Changes {
			fmt.Fprintf(&b, "    %s\n", describeChange(c))
		}
	}

	fmt.Fprintf(&b, "\nbreaking changes: %t\n", r.HasBreakingChanges)
	fmt.Fprintf(&b, "suggested bump:   %s\n", r.SuggestedVersion)

	_, err := io.WriteString(w, b.String())
	return err
}

func renderMarkdown(w io.Writer, r *drift.DriftReport) error {
	var b strings.Builder

	b.WriteString("# API Drift Report\n\n")
	fmt.Fprintf(&b, "**Breaking changes:** %t  \n", r.HasBreakingChanges)
	fmt.Fprintf(&b, "**Suggested version bump:** `%s`\n\n", r.SuggestedVersion)

	if !hasAnyChange(r) {
		b.WriteString("No structural drift detected.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if len(r.AddedFunctions) > 0 {
		b.WriteString("## Added\n\n")
		for _, name := range r.AddedFunctions {
			fmt.Fprintf(&b, "- `%s`\n", name)
		}
		b.WriteString("\n")
	}

	if len(r.RemovedFunctions) > 0 {
		b.WriteString("## Removed\n\n")
		for _, name := range r.RemovedFunctions {
			fmt.Fprintf(&b, "- `%s` **(breaking)**\n", name)
		}
		b.WriteString("\n")
	}

	if len(r.ModifiedFunctions) > 0 {
		b.WriteString("## Modified\n\n")
		b.WriteString("| Function | Change | Breaking |\n")
		b.WriteString("|----------|--------|----------|\n")
		for _, fn := range r.ModifiedFunctions {
			for _, c := range fn.Changes {
				fmt.Fprintf(&b, "| `%s` | %s | %t |\n", fn.Name, describeChange(c), c.Breaking)
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func hasAnyChange(r *drift.DriftReport) bool {
	return len(r.AddedFunctions) > 0 || len(r.RemovedFunctions) > 0 || len(r.ModifiedFunctions) > 0
}

// describeChange renders one signature change as a single line.
func describeChange(c drift.SignatureChange) string {
	switch c.Kind {
	case drift.ChangeParameterAdded:
		kind := "required"
		if c.Optional {
			kind = "optional"
		}
		return fmt.Sprintf("parameter %s added (%s: %s)", kind, c.Parameter, c.NewType)
	case drift.ChangeParameterRemoved:
		return fmt.Sprintf("parameter removed (%s: %s)", c.Parameter, c.OldType)
	case drift.ChangeParameterTypeChanged:
		return fmt.Sprintf("parameter %s changed: %s -> %s", c.Parameter, c.OldType, c.NewType)
	case drift.ChangeReturnTypeChanged:
		return fmt.Sprintf("return type changed: %s -> %s", c.OldType, c.NewType)
	default:
		return string(c.Kind)
	}
}
