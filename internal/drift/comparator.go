package drift

import (
	"sort"

	"github.com/mvp-joe/apidrift/internal/symbols"
)

// CompareSignatures diffs two versions of one function signature and
// returns the tagged changes, or an empty slice when the signatures are
// structurally identical.
//
// Change ordering is deterministic: added parameters first, then changed
// parameters, then removed parameters (each group sorted by parameter
// name), then a return-type change if any.
//
// Breaking rules:
//   - added optional parameter: non-breaking
//   - added required parameter: breaking
//   - parameter type or optionality changed: breaking
//   - parameter removed: breaking
//   - return type changed: breaking
func CompareSignatures(before, after symbols.FunctionSignature) []SignatureChange {
	changes := []SignatureChange{}

	beforeParams := paramsByName(before)
	afterParams := paramsByName(after)

	for _, name := range sortedNames(afterParams) {
		if _, ok := beforeParams[name]; !ok {
			p := afterParams[name]
			changes = append(changes, SignatureChange{
				Kind:      ChangeParameterAdded,
				Parameter: p.Name,
				Optional:  p.Optional,
				NewType:   p.Type,
				Breaking:  !p.Optional,
			})
		}
	}

	for _, name := range sortedNames(afterParams) {
		b, ok := beforeParams[name]
		if !ok {
			continue
		}
		a := afterParams[name]
		// An optionality-only change is still reported as a type change.
		if a.Type != b.Type || a.Optional != b.Optional {
			changes = append(changes, SignatureChange{
				Kind:      ChangeParameterTypeChanged,
				Parameter: a.Name,
				Optional:  a.Optional,
				OldType:   b.Type,
				NewType:   a.Type,
				Breaking:  true,
			})
		}
	}

	for _, name := range sortedNames(beforeParams) {
		if _, ok := afterParams[name]; !ok {
			p := beforeParams[name]
			changes = append(changes, SignatureChange{
				Kind:      ChangeParameterRemoved,
				Parameter: p.Name,
				Optional:  p.Optional,
				OldType:   p.Type,
				Breaking:  true,
			})
		}
	}

	if before.ReturnType != after.ReturnType {
		changes = append(changes, SignatureChange{
			Kind:     ChangeReturnTypeChanged,
			OldType:  before.ReturnType,
			NewType:  after.ReturnType,
			Breaking: true,
		})
	}

	return changes
}

func paramsByName(sig symbols.FunctionSignature) map[string]symbols.ParameterSignature {
	params := make(map[string]symbols.ParameterSignature, len(sig.Parameters))
	for _, p := range sig.Parameters {
		params[p.Name] = p
	}
	return params
}

func sortedNames(params map[string]symbols.ParameterSignature) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
