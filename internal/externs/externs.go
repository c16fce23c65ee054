// Package externs builds the initial MemberMap (component D, spec.md
// §4.C–D): a hard-coded primitive table seeded under the reserved Prim
// module, right-biased-merged with whatever class declarations show up
// in the externs of previously compiled modules.
package externs

import (
	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/symbols"
)

// Primitives returns the hard-coded primitive classes seeded under Prim.
// Partial mirrors the one real compiler-internal class every PureScript-
// shaped front end needs before any user externs are ingested: it has no
// members and no superclasses, and exists purely so constraints of the
// form `Partial => ...` type-check without a user-visible instance.
func Primitives() *symbols.MemberMap {
	m := symbols.NewMemberMap()
	m.Insert(names.Prim, names.NewProperName[names.ClassNameKind]("Partial"), symbols.TypeClassData{})
	return m
}

// Ingest scans each ExternsFile's declarations for EDClass entries and
// builds a map from them; non-class declarations are ignored. The result
// is right-biased-merged over prims, so externs override primitives on a
// colliding key (which should never actually happen for Prim.Partial,
// but the merge rule is spec'd regardless of whether collisions occur in
// practice).
func Ingest(prims *symbols.MemberMap, files []*ast.ExternsFile) *symbols.MemberMap {
	derived := symbols.NewMemberMap()
	for _, file := range files {
		for _, decl := range file.Decls {
			class, ok := decl.(ast.EDClass)
			if !ok {
				continue
			}
			derived.Insert(file.ModuleName, class.Name, symbols.TypeClassData{
				Args:         class.Args,
				Members:      class.Members,
				Superclasses: class.Implies,
				Deps:         class.Deps,
			})
		}
	}
	return symbols.MergeRightBiased(prims, derived)
}
