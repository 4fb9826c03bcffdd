package drift

import (
	"sort"

	"github.com/mvp-joe/apidrift/internal/symbols"
)

// Compare diffs two project snapshots and rolls the per-function changes
// up into a report with a suggested semver bump.
//
// Interfaces and type aliases are present in both registries but are not
// compared; only the function surface drives the report in this version.
func Compare(before, after *symbols.ProjectSnapshot) *DriftReport {
	report := &DriftReport{
		AddedFunctions:    []string{},
		RemovedFunctions:  []string{},
		ModifiedFunctions: []FunctionDrift{},
	}

	for key, sig := range after.Symbols.Functions {
		if _, ok := before.Symbols.Functions[key]; !ok {
			report.AddedFunctions = append(report.AddedFunctions, sig.Name)
		}
	}
	sort.Strings(report.AddedFunctions)

	for key, sig := range before.Symbols.Functions {
		if _, ok := after.Symbols.Functions[key]; !ok {
			report.RemovedFunctions = append(report.RemovedFunctions, sig.Name)
		}
	}
	sort.Strings(report.RemovedFunctions)

	// Shared keys in sorted order so modifiedFunctions is stable across runs.
	sharedKeys := make([]string, 0)
	for key := range before.Symbols.Functions {
		if _, ok := after.Symbols.Functions[key]; ok {
			sharedKeys = append(sharedKeys, key)
		}
	}
	sort.Strings(sharedKeys)

	breakingModification := false
	for _, key := range sharedKeys {
		beforeSig := before.Symbols.Functions[key]
		afterSig := after.Symbols.Functions[key]

		changes := CompareSignatures(beforeSig, afterSig)
		if len(changes) == 0 {
			continue
		}

		for _, c := range changes {
			if c.Breaking {
				breakingModification = true
			}
		}

		report.ModifiedFunctions = append(report.ModifiedFunctions, FunctionDrift{
			Name:           afterSig.Name,
			FilePathBefore: beforeSig.FilePath,
			FilePathAfter:  afterSig.FilePath,
			Changes:        changes,
		})
	}

	removed := len(report.RemovedFunctions) > 0
	report.HasBreakingChanges = removed || breakingModification

	switch {
	case removed:
		report.SuggestedVersion = BumpMajor
	case breakingModification:
		report.SuggestedVersion = BumpMajor
	case len(report.AddedFunctions) > 0 || len(report.ModifiedFunctions) > 0:
		report.SuggestedVersion = BumpMinor
	default:
		report.SuggestedVersion = BumpPatch
	}

	return report
}
