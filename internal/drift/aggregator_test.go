package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/apidrift/internal/symbols"
)

// Test Plan for Compare:
// - Comparing a snapshot to itself yields an empty report with patch bump
// - Added function suggests minor, not breaking
// - Removed function is breaking and suggests major
// - Breaking modification suggests major
// - Non-breaking modification (optional parameter added) suggests minor
// - Added/removed lists are sorted; modified list ordered by key
// - Interfaces and type aliases never influence the report

func snapshotOf(sigs ...symbols.FunctionSignature) *symbols.ProjectSnapshot {
	reg := symbols.NewRegistry()
	for _, s := range sigs {
		reg.AddFunction(s)
	}
	return symbols.NewSnapshot(reg)
}

func TestCompare_SelfComparisonIsEmpty(t *testing.T) {
	snap := snapshotOf(
		sig("greet", "string", param("name", "string")),
		sig("parse", "number", param("input", "string")),
	)

	report := Compare(snap, snap)
	assert.Empty(t, report.AddedFunctions)
	assert.Empty(t, report.RemovedFunctions)
	assert.Empty(t, report.ModifiedFunctions)
	assert.False(t, report.HasBreakingChanges)
	assert.Equal(t, BumpPatch, report.SuggestedVersion)
}

func TestCompare_AddedFunction(t *testing.T) {
	before := snapshotOf(sig("greet", "string", param("name", "string")))
	after := snapshotOf(
		sig("greet", "string", param("name", "string")),
		sig("farewell", "string", param("name", "string")),
	)

	report := Compare(before, after)
	assert.Equal(t, []string{"farewell"}, report.AddedFunctions)
	assert.False(t, report.HasBreakingChanges)
	assert.Equal(t, BumpMinor, report.SuggestedVersion)
}

func TestCompare_RemovedFunction(t *testing.T) {
	before := snapshotOf(sig("f", "void", param("x", "number")))
	after := snapshotOf()

	report := Compare(before, after)
	assert.Equal(t, []string{"f"}, report.RemovedFunctions)
	assert.True(t, report.HasBreakingChanges)
	assert.Equal(t, BumpMajor, report.SuggestedVersion)
}

func TestCompare_OptionalParameterAddedIsMinor(t *testing.T) {
	// greet(name: string): string -> greet(name: string, greeting?: string): string
	before := snapshotOf(sig("greet", "string", param("name", "string")))
	after := snapshotOf(sig("greet", "string", param("name", "string"), optParam("greeting", "string")))

	report := Compare(before, after)
	require.Len(t, report.ModifiedFunctions, 1)
	d := report.ModifiedFunctions[0]
	assert.Equal(t, "greet", d.Name)
	require.Len(t, d.Changes, 1)
	assert.Equal(t, ChangeParameterAdded, d.Changes[0].Kind)
	assert.Equal(t, "greeting", d.Changes[0].Parameter)
	assert.True(t, d.Changes[0].Optional)
	assert.False(t, d.Changes[0].Breaking)

	assert.False(t, report.HasBreakingChanges)
	assert.Equal(t, BumpMinor, report.SuggestedVersion)
}

func TestCompare_BreakingModificationIsMajor(t *testing.T) {
	before := snapshotOf(sig("parse", "number", param("input", "string")))
	after := snapshotOf(sig("parse", "number", param("input", "Buffer")))

	report := Compare(before, after)
	require.Len(t, report.ModifiedFunctions, 1)
	assert.True(t, report.HasBreakingChanges)
	assert.Equal(t, BumpMajor, report.SuggestedVersion)
}

func TestCompare_RemovalDominatesOtherChanges(t *testing.T) {
	before := snapshotOf(
		sig("f", "void", param("x", "number")),
		sig("g", "void"),
	)
	after := snapshotOf(
		sig("g", "void"),
		sig("h", "void"),
	)

	report := Compare(before, after)
	assert.Equal(t, []string{"f"}, report.RemovedFunctions)
	assert.Equal(t, []string{"h"}, report.AddedFunctions)
	assert.True(t, report.HasBreakingChanges)
	assert.Equal(t, BumpMajor, report.SuggestedVersion)
}

func TestCompare_SortedOutput(t *testing.T) {
	before := snapshotOf(sig("keep", "void"))
	after := snapshotOf(
		sig("keep", "void"),
		sig("zeta", "void"),
		sig("alpha", "void"),
		sig("mid", "void"),
	)

	report := Compare(before, after)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, report.AddedFunctions)
}

func TestCompare_ModifiedOrderedByKey(t *testing.T) {
	before := snapshotOf(
		sig("b", "void", param("x", "number")),
		sig("a", "void", param("x", "number")),
	)
	after := snapshotOf(
		sig("b", "void", param("x", "string")),
		sig("a", "void", param("x", "string")),
	)

	report := Compare(before, after)
	require.Len(t, report.ModifiedFunctions, 2)
	assert.Equal(t, "a", report.ModifiedFunctions[0].Name)
	assert.Equal(t, "b", report.ModifiedFunctions[1].Name)
}

func TestCompare_InterfacesAndTypesNotCompared(t *testing.T) {
	beforeReg := symbols.NewRegistry()
	beforeReg.AddInterface(symbols.InterfaceDefinition{Name: "Opts", Properties: []string{"a: string"}, FilePath: "src/t.ts"})
	afterReg := symbols.NewRegistry()
	afterReg.AddInterface(symbols.InterfaceDefinition{Name: "Opts", Properties: []string{"a: number", "b: string"}, FilePath: "src/t.ts"})

	report := Compare(symbols.NewSnapshot(beforeReg), symbols.NewSnapshot(afterReg))
	assert.False(t, report.HasBreakingChanges)
	assert.Equal(t, BumpPatch, report.SuggestedVersion)
}
