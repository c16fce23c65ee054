package desugar

import (
	"sort"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// ClassesFirst stable-sorts decls so every TypeClassDeclaration —
// including ones wrapped in a PositionedDeclaration — precedes every
// other declaration, preserving relative order within each group
// (spec.md §4.F: "declarations of the module are stable-sorted so that
// class declarations precede all others").
func ClassesFirst(decls []ast.Declaration) []ast.Declaration {
	out := make([]ast.Declaration, len(decls))
	copy(out, decls)
	sort.SliceStable(out, func(i, j int) bool {
		return isClassDecl(out[i]) && !isClassDecl(out[j])
	})
	return out
}

func isClassDecl(d ast.Declaration) bool {
	_, ok := unwrapPositioned(d).(*ast.TypeClassDeclaration)
	return ok
}

func unwrapPositioned(d ast.Declaration) ast.Declaration {
	for {
		p, ok := d.(*ast.PositionedDeclaration)
		if !ok {
			return d
		}
		d = p.Decl
	}
}

// classVisible and typeVisible implement the "locally visible" rule of
// spec.md §4.F: a reference to a class or type Q is locally visible
// when either its module differs from the current one (externally
// owned, always visible) or the export list names it explicitly.
func classVisible(current names.ModuleName, exports []ast.ExportRef, class names.QualifiedClassName) bool {
	if !class.ByModule.Equal(current) {
		return true
	}
	for _, ref := range exports {
		if cr, ok := ref.(ast.TypeClassRef); ok && cr.Name.String() == class.Name.String() {
			return true
		}
	}
	return false
}

func typeVisible(current names.ModuleName, exports []ast.ExportRef, ty names.QualifiedTypeName) bool {
	if !ty.ByModule.Equal(current) {
		return true
	}
	for _, ref := range exports {
		if tr, ok := ref.(ast.TypeRef); ok && tr.Name.String() == ty.Name.String() {
			return true
		}
	}
	return false
}

// mentionedTypeConstructors collects every qualified type constructor
// appearing anywhere inside tys — spec.md §4.F's export-visibility check
// reads "every type constructor mentioned in any of tys", which can
// nest arbitrarily deep through type application, rows, and quantifiers.
func mentionedTypeConstructors(tys []typesystem.Type) []names.QualifiedTypeName {
	var out []names.QualifiedTypeName
	var walk func(t typesystem.Type)
	walk = func(t typesystem.Type) {
		switch n := t.(type) {
		case typesystem.TCon:
			out = append(out, n.Name)
		case typesystem.TApp:
			walk(n.Constructor)
			walk(n.Arg)
		case typesystem.ConstrainedType:
			for _, a := range n.Constraint.Args {
				walk(a)
			}
			walk(n.Wrapped)
		case typesystem.RCons:
			walk(n.Head)
			walk(n.Tail)
		case typesystem.RecordT:
			walk(n.Row)
		case typesystem.ForAll:
			walk(n.Body)
		}
	}
	for _, t := range tys {
		walk(t)
	}
	return out
}
