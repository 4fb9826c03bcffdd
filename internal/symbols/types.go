// Package symbols defines the normalized symbol data model shared by the
// extractor, the drift engine, and the snapshot store.
package symbols

import (
	"strings"
)

// ParameterSignature is the structural shape of a single function parameter.
type ParameterSignature struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
}

// FunctionSignature is the structural shape of a function or method.
// For methods, Name is qualified as "ClassName.methodName".
type FunctionSignature struct {
	Name       string               `json:"name"`
	Parameters []ParameterSignature `json:"parameters"`
	ReturnType string               `json:"returnType"`
	FilePath   string               `json:"filePath"`
	Exported   bool                 `json:"exported"`
}

// InterfaceDefinition records an interface's structural body.
// Interfaces are tracked in snapshots but not yet diffed.
type InterfaceDefinition struct {
	Name       string   `json:"name"`
	Properties []string `json:"properties"`
	FilePath   string   `json:"filePath"`
}

// TypeAliasDefinition records a type alias and its normalized definition.
// Type aliases are tracked in snapshots but not yet diffed.
type TypeAliasDefinition struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
	FilePath   string `json:"filePath"`
}

// SymbolRegistry maps deterministic symbol keys to their definitions.
// Keys are unique; insertion order is irrelevant. Duplicate keys overwrite
// (last write wins).
type SymbolRegistry struct {
	Functions  map[string]FunctionSignature   `json:"functions"`
	Interfaces map[string]InterfaceDefinition `json:"interfaces"`
	Types      map[string]TypeAliasDefinition `json:"types"`
}

// NewRegistry returns an empty registry ready for population.
func NewRegistry() *SymbolRegistry {
	return &SymbolRegistry{
		Functions:  make(map[string]FunctionSignature),
		Interfaces: make(map[string]InterfaceDefinition),
		Types:      make(map[string]TypeAliasDefinition),
	}
}

// AddFunction inserts a function signature under its deterministic key.
func (r *SymbolRegistry) AddFunction(sig FunctionSignature) {
	r.Functions[FunctionKey(sig.FilePath, sig.Name)] = sig
}

// AddInterface inserts an interface definition under its deterministic key.
func (r *SymbolRegistry) AddInterface(def InterfaceDefinition) {
	r.Interfaces[InterfaceKey(def.FilePath, def.Name)] = def
}

// AddType inserts a type alias definition under its deterministic key.
func (r *SymbolRegistry) AddType(def TypeAliasDefinition) {
	r.Types[TypeKey(def.FilePath, def.Name)] = def
}

// ProjectSnapshot wraps one registry. Immutable once produced: the
// extractor populates the registry during a single traversal and nothing
// mutates it afterward.
type ProjectSnapshot struct {
	Symbols *SymbolRegistry `json:"symbols"`
}

// NewSnapshot wraps a populated registry in a snapshot.
func NewSnapshot(registry *SymbolRegistry) *ProjectSnapshot {
	return &ProjectSnapshot{Symbols: registry}
}

// Key construction: "<kind>:<filePath>::<qualifiedName>". Embedding the
// file path guarantees two symbols with the same qualified name in
// different files never collide.

// FunctionKey builds the registry key for a function or method.
func FunctionKey(filePath, qualifiedName string) string {
	return "function:" + filePath + "::" + qualifiedName
}

// InterfaceKey builds the registry key for an interface.
func InterfaceKey(filePath, name string) string {
	return "interface:" + filePath + "::" + name
}

// TypeKey builds the registry key for a type alias.
func TypeKey(filePath, name string) string {
	return "type:" + filePath + "::" + name
}

// NormalizeType collapses whitespace runs to a single space and trims,
// so formatting-only differences never produce spurious drift. Case and
// structural syntax are preserved.
func NormalizeType(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
