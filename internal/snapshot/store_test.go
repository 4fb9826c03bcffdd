package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/apidrift/internal/symbols"
	"github.com/mvp-joe/apidrift/internal/validate"
)

// Test Plan for snapshot store:
// - Save writes a versioned envelope and returns the resolved path
// - Save creates missing parent directories
// - Save rejects output paths escaping the base directory
// - Load(save(S)).Snapshot is deep-equal to S
// - gitRef/gitSha survive a round trip
// - Load fails with ErrNotFound for a missing file
// - Load fails with ErrFormat for invalid JSON and incomplete envelopes
// - Load fails with VersionError naming found and expected versions

func testSnapshot() *symbols.ProjectSnapshot {
	reg := symbols.NewRegistry()
	reg.AddFunction(symbols.FunctionSignature{
		Name: "greet",
		Parameters: []symbols.ParameterSignature{
			{Name: "name", Type: "string"},
			{Name: "greeting", Type: "string", Optional: true},
		},
		ReturnType: "string",
		FilePath:   "src/api.ts",
		Exported:   true,
	})
	reg.AddInterface(symbols.InterfaceDefinition{
		Name:       "Options",
		Properties: []string{"timeout: number"},
		FilePath:   "src/types.ts",
	})
	reg.AddType(symbols.TypeAliasDefinition{
		Name:       "ID",
		Definition: "string | number",
		FilePath:   "src/types.ts",
	})
	return symbols.NewSnapshot(reg)
}

func writeTsconfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tsconfig.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"include":["src/**/*"]}`), 0644))
	return path
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	base := t.TempDir()
	writeTsconfig(t, base)
	snap := testSnapshot()

	path, err := Save(snap, "tsconfig.json", SaveOptions{
		OutputPath: "snapshots/api.json",
		BaseDir:    base,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "snapshots", "api.json"), path)

	loaded, err := Load(path, LoadOptions{BaseDir: base})
	require.NoError(t, err)
	assert.Equal(t, snap, loaded.Snapshot)
	assert.Equal(t, FormatVersion, loaded.Metadata.Version)
	assert.Equal(t, filepath.Join(base, "tsconfig.json"), loaded.Metadata.TSConfigPath)

	_, err = time.Parse(time.RFC3339, loaded.Metadata.CreatedAt)
	assert.NoError(t, err, "createdAt should be ISO-8601")
}

func TestSaveLoad_PreservesGitMetadata(t *testing.T) {
	base := t.TempDir()
	writeTsconfig(t, base)

	path, err := Save(testSnapshot(), "tsconfig.json", SaveOptions{
		OutputPath: "snap.json",
		BaseDir:    base,
		GitRef:     "origin/main",
		GitSha:     "abc1234def5678",
	})
	require.NoError(t, err)

	loaded, err := Load(path, LoadOptions{BaseDir: base})
	require.NoError(t, err)
	assert.Equal(t, "origin/main", loaded.Metadata.GitRef)
	assert.Equal(t, "abc1234def5678", loaded.Metadata.GitSha)
}

func TestSave_RejectsEscapingOutputPath(t *testing.T) {
	base := t.TempDir()
	writeTsconfig(t, base)

	_, err := Save(testSnapshot(), "tsconfig.json", SaveOptions{
		OutputPath: "../outside.json",
		BaseDir:    base,
	})
	assert.ErrorIs(t, err, validate.ErrPathTraversal)
}

func TestSave_EnvelopeShape(t *testing.T) {
	base := t.TempDir()
	writeTsconfig(t, base)

	path, err := Save(testSnapshot(), "tsconfig.json", SaveOptions{
		OutputPath: "snap.json",
		BaseDir:    base,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "metadata")
	assert.Contains(t, doc, "snapshot")

	var meta map[string]any
	require.NoError(t, json.Unmarshal(doc["metadata"], &meta))
	assert.Equal(t, float64(FormatVersion), meta["version"])

	var snap map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["snapshot"], &snap))
	var syms map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(snap["symbols"], &syms))
	assert.Contains(t, syms, "functions")
	assert.Contains(t, syms, "interfaces")
	assert.Contains(t, syms, "types")
}

func TestLoad_NotFound(t *testing.T) {
	base := t.TempDir()

	_, err := Load("missing.json", LoadOptions{BaseDir: base})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_InvalidJSON(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load("bad.json", LoadOptions{BaseDir: base})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestLoad_IncompleteEnvelope(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{"missing metadata", `{"snapshot":{"symbols":{"functions":{},"interfaces":{},"types":{}}}}`},
		{"missing snapshot", `{"metadata":{"version":1,"createdAt":"2026-01-01T00:00:00Z","tsConfigPath":"tsconfig.json"}}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(base, "incomplete.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))

			_, err := Load("incomplete.json", LoadOptions{BaseDir: base})
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestLoad_VersionMismatch(t *testing.T) {
	base := t.TempDir()
	body := `{"metadata":{"version":99,"createdAt":"2026-01-01T00:00:00Z","tsConfigPath":"tsconfig.json"},` +
		`"snapshot":{"symbols":{"functions":{},"interfaces":{},"types":{}}}}`
	require.NoError(t, os.WriteFile(filepath.Join(base, "v99.json"), []byte(body), 0644))

	_, err := Load("v99.json", LoadOptions{BaseDir: base})
	require.Error(t, err)

	var verr *VersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 99, verr.Found)
	assert.Equal(t, 1, verr.Expected)
	assert.Contains(t, err.Error(), "99")
	assert.Contains(t, err.Error(), "1")
}

func TestSave_NoPartialFileOnSuccess(t *testing.T) {
	base := t.TempDir()
	writeTsconfig(t, base)

	_, err := Save(testSnapshot(), "tsconfig.json", SaveOptions{
		OutputPath: "snap.json",
		BaseDir:    base,
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".apidrift-snapshot-", "temp file should not remain")
	}
}
