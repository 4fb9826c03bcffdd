package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/apidrift/internal/symbols"
)

// Test Plan for CompareSignatures:
// - Identical signatures produce no changes
// - Added optional parameter is non-breaking
// - Added required parameter is breaking
// - Removed parameter is breaking
// - Parameter type change is breaking
// - Optionality-only change is reported as parameter-type-changed
// - Return type change is breaking
// - Change ordering: added, changed, removed, return (groups sorted by name)

func sig(name string, returnType string, params ...symbols.ParameterSignature) symbols.FunctionSignature {
	return symbols.FunctionSignature{
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		FilePath:   "src/api.ts",
		Exported:   true,
	}
}

func param(name, typ string) symbols.ParameterSignature {
	return symbols.ParameterSignature{Name: name, Type: typ}
}

func optParam(name, typ string) symbols.ParameterSignature {
	return symbols.ParameterSignature{Name: name, Type: typ, Optional: true}
}

func TestCompareSignatures_Identical(t *testing.T) {
	s := sig("greet", "string", param("name", "string"))
	assert.Empty(t, CompareSignatures(s, s))
}

func TestCompareSignatures_AddedOptionalParameter(t *testing.T) {
	before := sig("greet", "string", param("name", "string"))
	after := sig("greet", "string", param("name", "string"), optParam("greeting", "string"))

	changes := CompareSignatures(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeParameterAdded, changes[0].Kind)
	assert.Equal(t, "greeting", changes[0].Parameter)
	assert.True(t, changes[0].Optional)
	assert.False(t, changes[0].Breaking)
}

func TestCompareSignatures_AddedRequiredParameter(t *testing.T) {
	before := sig("greet", "string", param("name", "string"))
	after := sig("greet", "string", param("name", "string"), param("greeting", "string"))

	changes := CompareSignatures(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeParameterAdded, changes[0].Kind)
	assert.True(t, changes[0].Breaking)
}

func TestCompareSignatures_RemovedParameter(t *testing.T) {
	before := sig("greet", "string", param("name", "string"), param("greeting", "string"))
	after := sig("greet", "string", param("name", "string"))

	changes := CompareSignatures(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeParameterRemoved, changes[0].Kind)
	assert.Equal(t, "greeting", changes[0].Parameter)
	assert.True(t, changes[0].Breaking)
}

func TestCompareSignatures_ParameterTypeChanged(t *testing.T) {
	before := sig("parse", "number", param("input", "string"))
	after := sig("parse", "number", param("input", "Buffer"))

	changes := CompareSignatures(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeParameterTypeChanged, changes[0].Kind)
	assert.Equal(t, "string", changes[0].OldType)
	assert.Equal(t, "Buffer", changes[0].NewType)
	assert.True(t, changes[0].Breaking)
}

func TestCompareSignatures_OptionalityOnlyChange(t *testing.T) {
	before := sig("parse", "number", optParam("input", "string"))
	after := sig("parse", "number", param("input", "string"))

	changes := CompareSignatures(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeParameterTypeChanged, changes[0].Kind)
	assert.True(t, changes[0].Breaking)
}

func TestCompareSignatures_ReturnTypeChanged(t *testing.T) {
	before := sig("load", "Config")
	after := sig("load", "Promise<Config>")

	changes := CompareSignatures(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeReturnTypeChanged, changes[0].Kind)
	assert.Equal(t, "Config", changes[0].OldType)
	assert.Equal(t, "Promise<Config>", changes[0].NewType)
	assert.True(t, changes[0].Breaking)
}

func TestCompareSignatures_ChangeOrdering(t *testing.T) {
	before := sig("f", "void", param("b", "string"), param("c", "number"))
	after := sig("f", "number", param("a", "string"), param("c", "string"))

	changes := CompareSignatures(before, after)
	require.Len(t, changes, 4)
	assert.Equal(t, ChangeParameterAdded, changes[0].Kind)
	assert.Equal(t, "a", changes[0].Parameter)
	assert.Equal(t, ChangeParameterTypeChanged, changes[1].Kind)
	assert.Equal(t, "c", changes[1].Parameter)
	assert.Equal(t, ChangeParameterRemoved, changes[2].Kind)
	assert.Equal(t, "b", changes[2].Parameter)
	assert.Equal(t, ChangeReturnTypeChanged, changes[3].Kind)
}
