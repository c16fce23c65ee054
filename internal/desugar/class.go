package desugar

import (
	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/symbols"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// DesugarClass implements spec.md §4.E for one TypeClassDeclaration:
// record its metadata in table, emit the dictionary type synonym, and
// emit one Private accessor value declaration per member. Returns the
// three replacement declarations flattened in the order spec.md §4.E
// step 4 fixes: the original class declaration, the synonym, then the
// accessors.
func DesugarClass(currentModule names.ModuleName, decl *ast.TypeClassDeclaration, table *symbols.MemberMap) []ast.Declaration {
	memberSigs := make([]ast.MemberSig, len(decl.Members))
	for i, m := range decl.Members {
		memberSigs[i] = ast.MemberSig{Ident: m.Ident, Type: m.Type}
	}
	table.Insert(currentModule, decl.Name, symbols.TypeClassData{
		Args:         decl.Args,
		Members:      memberSigs,
		Superclasses: decl.Superclasses,
		Deps:         decl.Deps,
	})

	synonym := &ast.TypeSynonymDeclaration{
		Ann:      decl.Ann,
		Name:     names.ClassNameAsTypeName(decl.Name),
		TypeArgs: decl.Args,
		Type:     dictionaryRow(decl),
	}

	classQualified := names.Qualify(currentModule, decl.Name)
	selfArgs := classArgsAsTVars(decl.Args)

	accessors := make([]ast.Declaration, len(decl.Members))
	for i, m := range decl.Members {
		selfConstraint := typesystem.Constraint{Class: classQualified, Args: selfArgs}
		constrained := typesystem.Type(typesystem.ConstrainedType{Constraint: selfConstraint, Wrapped: m.Type})
		quantified := typesystem.ForAllMany(decl.Args, constrained)
		ann := m.Ann.WithoutComments()
		body := &ast.TypeClassDictionaryAccessor{Ann: ann, Class: classQualified, Member: m.Ident}
		typed := &ast.TypedValue{Ann: ann, Checked: true, Value: body, Type: quantified}
		accessors[i] = ast.NewValueDeclaration(m.Ann, m.Ident, ast.Private, typed)
	}

	out := make([]ast.Declaration, 0, 2+len(accessors))
	out = append(out, decl, synonym)
	out = append(out, accessors...)
	return out
}

// dictionaryRow builds the record row of the dictionary type synonym:
// members first in declared order, then one superclass thunk field per
// entry of decl.Superclasses in positional order (spec.md §4.E step 2).
func dictionaryRow(decl *ast.TypeClassDeclaration) typesystem.Type {
	type label struct {
		name string
		typ  typesystem.Type
	}
	labels := make([]label, 0, len(decl.Members)+len(decl.Superclasses))
	for _, m := range decl.Members {
		labels = append(labels, label{name: m.Ident.String(), typ: m.Type})
	}
	for i, sc := range decl.Superclasses {
		base := typesystem.TCon{Name: names.Qualify(sc.Class.ByModule, names.ClassNameAsTypeName(sc.Class.Name))}
		applied := typesystem.TypeApp(base, sc.Args...)
		thunk := typesystem.Fun(typesystem.Unit, applied)
		labels = append(labels, label{name: SuperclassName(sc.Class, i), typ: thunk})
	}

	row := typesystem.Type(typesystem.REmpty{})
	for i := len(labels) - 1; i >= 0; i-- {
		row = typesystem.RCons{Label: labels[i].name, Head: labels[i].typ, Tail: row}
	}
	return row
}

func classArgsAsTVars(args []string) []typesystem.Type {
	out := make([]typesystem.Type, len(args))
	for i, a := range args {
		out[i] = typesystem.TVar{Name: a}
	}
	return out
}
