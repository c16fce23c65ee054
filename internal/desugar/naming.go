// Package desugar is the heart of the pass: class desugaring (§4.E),
// instance desugaring (§4.F), and output assembly (§4.G), grounded on
// the teacher's internal/analyzer/declarations_instances*.go and
// naming.go — generated names are deterministic as in the teacher, but
// plain (the superclass field "Foo0", "__unused", "undefined") rather
// than the teacher's $-prefixed ones, and the teacher's
// single-dispatch-witness scheme is replaced by the record-dictionary
// scheme this spec calls for.
package desugar

import (
	"strconv"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/names"
)

// SuperclassName is the deterministic superclass-field naming scheme
// spec.md §6 requires: "a stable function of the superclass's qualified
// name and its positional index." Scenario 2 of spec.md §8 fixes the
// exact shape: the zeroth superclass of Sub's Foo constraint is named
// "Foo0", i.e. the superclass's own proper name followed by its index.
func SuperclassName(class names.QualifiedClassName, index int) string {
	return class.Name.String() + strconv.Itoa(index)
}

// unusedParam is the reserved identifier labeling a superclass thunk's
// ignored parameter (spec.md §6: "the reserved identifier __unused").
const unusedParam = names.Ident("__unused")

// undefinedIdent names the unqualified placeholder variable a
// not-yet-scheduled member field is initialized to (spec.md N-1).
const undefinedIdent = names.Ident("undefined")

// IdentityCaseDesugarer is the CaseDesugarer a caller plugs in when its
// instance member bodies are already plain value declarations with no
// case/guard sugar left to eliminate — true of every JSON-decoded module
// cmd/tcdesugar and internal/rpcserver accept, since jsonmodule only ever
// produces bare ValueDeclarations.
func IdentityCaseDesugarer(decls []ast.Declaration) ([]ast.Declaration, error) {
	return decls, nil
}
