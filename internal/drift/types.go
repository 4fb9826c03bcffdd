// Package drift compares project snapshots and classifies structural
// changes as breaking or non-breaking to drive semver inference.
package drift

// ChangeKind tags one structural difference between two signatures.
type ChangeKind string

const (
	ChangeParameterAdded       ChangeKind = "parameter-added"
	ChangeParameterRemoved     ChangeKind = "parameter-removed"
	ChangeParameterTypeChanged ChangeKind = "parameter-type-changed"
	ChangeReturnTypeChanged    ChangeKind = "return-type-changed"
)

// SignatureChange is one tagged difference between two versions of a
// function signature. Parameter and Optional are set for parameter
// changes; OldType/NewType carry the differing type strings where they
// apply.
type SignatureChange struct {
	Kind      ChangeKind `json:"kind"`
	Parameter string     `json:"parameter,omitempty"`
	Optional  bool       `json:"optional,omitempty"`
	OldType   string     `json:"oldType,omitempty"`
	NewType   string     `json:"newType,omitempty"`
	Breaking  bool       `json:"breaking"`
}

// FunctionDrift records all signature changes for one function present in
// both snapshots.
type FunctionDrift struct {
	Name           string            `json:"name"`
	FilePathBefore string            `json:"filePathBefore"`
	FilePathAfter  string            `json:"filePathAfter"`
	Changes        []SignatureChange `json:"changes"`
}

// Bump is a suggested semantic-version increment.
type Bump string

const (
	BumpMajor Bump = "major"
	BumpMinor Bump = "minor"
	BumpPatch Bump = "patch"
)

// DriftReport is the aggregate result of comparing two snapshots.
// Added/removed function names are sorted lexicographically; modified
// entries are ordered by registry key. Both orderings are part of the
// report contract.
type DriftReport struct {
	AddedFunctions     []string        `json:"addedFunctions"`
	RemovedFunctions   []string        `json:"removedFunctions"`
	ModifiedFunctions  []FunctionDrift `json:"modifiedFunctions"`
	HasBreakingChanges bool            `json:"hasBreakingChanges"`
	SuggestedVersion   Bump            `json:"suggestedVersion"`
}
