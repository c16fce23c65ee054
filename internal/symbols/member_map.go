// Package symbols holds MemberMap, the one symbol table this pass needs
// (component C, spec.md §3/§4.C–D), grounded on the teacher's
// internal/symbols/symbol_table_traits.go (RegisterTraitMethod,
// GetTraitAllMethods, GetTraitSuperTraits, GetTraitFunctionalDependencies)
// narrowed to exactly the (module, class) -> TypeClassData shape the
// desugarer needs — no kind inference, no HKT detection, no functional-
// dependency *checking* (all of that belongs to the out-of-scope type
// checker; this pass only stores and forwards functional dependencies).
package symbols

import (
	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// TypeClassData is everything the desugarer needs to know about a class:
// its type arguments, member signatures, superclass constraints, and
// functional dependencies.
type TypeClassData struct {
	Args         []string
	Members      []ast.MemberSig
	Superclasses []typesystem.Constraint
	Deps         []ast.FunctionalDependency
}

type classKey struct {
	module string
	class  string
}

// MemberMap maps (module name, class name) to TypeClassData. Per
// spec.md §3, the mapping is unique per key; insertion order is
// irrelevant, so this is just a plain map with no ordering machinery.
type MemberMap struct {
	entries map[classKey]TypeClassData
}

// NewMemberMap returns an empty map.
func NewMemberMap() *MemberMap {
	return &MemberMap{entries: make(map[classKey]TypeClassData)}
}

func keyOf(module names.ModuleName, class names.ClassName) classKey {
	return classKey{module: module.String(), class: class.String()}
}

// Insert records (or overwrites) the TypeClassData for (module, class).
func (m *MemberMap) Insert(module names.ModuleName, class names.ClassName, data TypeClassData) {
	m.entries[keyOf(module, class)] = data
}

// Lookup finds the TypeClassData for (module, class).
func (m *MemberMap) Lookup(module names.ModuleName, class names.ClassName) (TypeClassData, bool) {
	data, ok := m.entries[keyOf(module, class)]
	return data, ok
}

// LookupQualified is a convenience wrapper over a names.Qualified[ClassName].
func (m *MemberMap) LookupQualified(q names.QualifiedClassName) (TypeClassData, bool) {
	return m.Lookup(q.ByModule, q.Name)
}

// MergeRightBiased returns a new map containing every entry of base, with
// every entry of overrides replacing base's entry at the same key.
// Spec.md §4.C–D: "Duplicate keys are resolved by right-biased union of
// the primitive map with the externs-derived map (externs override
// primitives)."
func MergeRightBiased(base, overrides *MemberMap) *MemberMap {
	merged := NewMemberMap()
	for k, v := range base.entries {
		merged.entries[k] = v
	}
	for k, v := range overrides.entries {
		merged.entries[k] = v
	}
	return merged
}
