package desugar

import (
	"strings"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/diagnostics"
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/symbols"
	"github.com/classlang/tcdesugar/internal/token"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// CaseDesugarer is the out-of-scope external collaborator spec.md §1
// names explicitly: "the case-declaration desugarer (consumed as a pure
// function desugarCases)". It takes an ExplicitInstance's raw member
// declarations and returns plain value declarations with guard/binder
// sugar already eliminated.
type CaseDesugarer func([]ast.Declaration) ([]ast.Declaration, error)

// DesugarInstance implements spec.md §4.F for one
// TypeInstanceDeclaration. exports is the owning module's current
// export list, used only to decide whether to synthesize a
// TypeInstanceRef. Returns the replacement declarations and, when the
// visibility rule is satisfied, the additional export reference (nil
// otherwise).
func DesugarInstance(currentModule names.ModuleName, decl *ast.TypeInstanceDeclaration, table *symbols.MemberMap, exports []ast.ExportRef, desugarCases CaseDesugarer) ([]ast.Declaration, ast.ExportRef, error) {
	switch body := decl.Body.(type) {
	case ast.DerivedInstance:
		return nil, nil, diagnostics.Internal(decl.Ann.Span, "derived instance reached the desugaring pass")

	case ast.NewtypeInstanceWithDictionary:
		typed := &ast.TypedValue{Ann: token.GeneratedAnn, Checked: true, Value: body.Dict, Type: instanceDictType(decl)}
		binding := ast.NewValueDeclaration(decl.Ann, decl.Name, ast.Private, typed)
		return []ast.Declaration{decl, binding}, computeExport(currentModule, exports, decl), nil

	case ast.ExplicitInstance:
		out, err := desugarExplicitInstance(decl, body, table, desugarCases)
		if err != nil {
			return nil, nil, diagnostics.InInstance(decl.Class.String(), typesSliceString(decl.Types), err)
		}
		return out, computeExport(currentModule, exports, decl), nil

	default:
		return nil, nil, diagnostics.Internal(decl.Ann.Span, "unrecognized instance body kind")
	}
}

type memberEntry struct {
	name  names.Ident
	value ast.Expr
	deps  map[names.Ident]bool
}

func desugarExplicitInstance(decl *ast.TypeInstanceDeclaration, body ast.ExplicitInstance, table *symbols.MemberMap, desugarCases CaseDesugarer) ([]ast.Declaration, error) {
	plainDecls, err := desugarCases(body.Decls)
	if err != nil {
		return nil, err
	}

	classData, ok := table.LookupQualified(decl.Class)
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUnknownName, decl.Ann.Span, decl.Class.String())
	}

	subst := buildSubst(classData.Args, decl.Types)
	classMemberNames := make(map[names.Ident]bool, len(classData.Members))
	for _, m := range classData.Members {
		classMemberNames[m.Ident] = true
	}

	instanceMemberNames := make(map[names.Ident]bool, len(classData.Members))
	var entries []memberEntry
	for _, d := range plainDecls {
		switch m := unwrapPositioned(d).(type) {
		case *ast.TypeDeclaration:
			continue
		case *ast.ValueDeclaration:
			if !classMemberNames[m.Ident] {
				return nil, diagnostics.New(diagnostics.ErrExtraneousClassMember, m.Ann.Span, m.Ident.String())
			}
			if len(m.Binders) != 0 || len(m.Bodies) != 1 || len(m.Bodies[0].Guards) != 0 {
				return nil, diagnostics.Internal(m.Ann.Span, "instance member must be a single unguarded, unbindered right-hand side")
			}
			instanceMemberNames[m.Ident] = true
			entries = append(entries, memberEntry{name: m.Ident, value: m.Bodies[0].Expr})
		default:
			return nil, diagnostics.Internal(d.Annotation().Span, "instance member is neither a value declaration nor a type declaration")
		}
	}

	for _, m := range classData.Members {
		if !instanceMemberNames[m.Ident] {
			return nil, diagnostics.New(diagnostics.ErrMissingClassMember, decl.Ann.Span, m.Ident.String())
		}
	}

	for i := range entries {
		entries[i].deps = memberDeps(decl.Class.ByModule, classMemberNames, entries[i].value)
	}

	superclassFields := make([]ast.ObjectField, len(classData.Superclasses))
	for i, sc := range classData.Superclasses {
		args := make([]typesystem.Type, len(sc.Args))
		for j, a := range sc.Args {
			args[j] = a.Apply(subst)
		}
		thunk := &ast.Abs{
			Ann:    token.GeneratedAnn,
			Binder: &ast.VarBinder{Ann: token.GeneratedAnn, Name: unusedParam},
			Body:   &ast.DeferredDictionary{Ann: token.GeneratedAnn, Class: sc.Class, Args: args},
		}
		superclassFields[i] = ast.ObjectField{Label: SuperclassName(sc.Class, i), Value: thunk}
	}

	dictExpr, err := scheduleDictionary(decl.Class, entries, superclassFields)
	if err != nil {
		return nil, err
	}

	typed := &ast.TypedValue{Ann: token.GeneratedAnn, Checked: true, Value: dictExpr, Type: instanceDictType(decl)}
	binding := ast.NewValueDeclaration(decl.Ann, decl.Name, ast.Private, typed)
	return []ast.Declaration{decl, binding}, nil
}

// scheduleDictionary implements spec.md §4.F steps 8–9: partition
// members into dependency-ready layers and fold them into an
// ever-growing dictionary expression, starting from a record literal
// (ready members + superclass thunks + undefined placeholders) and
// extending it with one ObjectUpdate per subsequent ready layer.
func scheduleDictionary(class names.QualifiedClassName, entries []memberEntry, superclassFields []ast.ObjectField) (ast.Expr, error) {
	provided := map[names.Ident]bool{}

	ready, notReady := addLayer(provided, entries)
	if len(ready) == 0 {
		return nil, diagnostics.New(diagnostics.ErrOverlappingNamesInLet, token.Generated, namesOf(entries))
	}

	fields := make([]ast.ObjectField, 0, len(ready)+len(superclassFields)+len(notReady))
	for _, e := range ready {
		fields = append(fields, ast.ObjectField{Label: e.name.String(), Value: e.value})
		provided[e.name] = true
	}
	fields = append(fields, superclassFields...)
	for _, e := range notReady {
		undefined := &ast.Var{Ann: token.GeneratedAnn, Name: names.Qualify(names.ModuleName(nil), undefinedIdent)}
		fields = append(fields, ast.ObjectField{Label: e.name.String(), Value: undefined})
	}

	expr := ast.Expr(&ast.TypeClassDictionaryConstructorApp{
		Ann:   token.GeneratedAnn,
		Class: class,
		Expr:  &ast.ObjectLiteral{Ann: token.GeneratedAnn, Fields: fields},
	})

	remaining := notReady
	for len(remaining) > 0 {
		layerReady, layerRest := addLayer(provided, remaining)
		if len(layerReady) == 0 {
			return nil, diagnostics.New(diagnostics.ErrOverlappingNamesInLet, token.Generated, namesOf(remaining))
		}
		updates := make([]ast.ObjectField, len(layerReady))
		for i, e := range layerReady {
			updates[i] = ast.ObjectField{Label: e.name.String(), Value: e.value}
			provided[e.name] = true
		}
		expr = &ast.ObjectUpdate{Ann: token.GeneratedAnn, Object: expr, Updates: updates}
		remaining = layerRest
	}
	return expr, nil
}

// addLayer partitions entries into those whose dependency set is
// already a subset of provided ("ready") and those that still have an
// unmet dependency, preserving relative order within each partition.
func addLayer(provided map[names.Ident]bool, entries []memberEntry) (ready, rest []memberEntry) {
	for _, e := range entries {
		satisfied := true
		for dep := range e.deps {
			if !provided[dep] {
				satisfied = false
				break
			}
		}
		if satisfied {
			ready = append(ready, e)
		} else {
			rest = append(rest, e)
		}
	}
	return ready, rest
}

func namesOf(entries []memberEntry) string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name.String()
	}
	return strings.Join(names, ", ")
}

// memberDeps implements spec.md §4.F step 8 and N-2: a scoped top-down
// fold over value's expression tree, counting a reference to another
// instance member only when it occurs outside a lambda introduced
// during the walk. classModule is the class's own module (not the
// instance's): name resolution qualifies an inter-member reference like
// bar in "foo x = bar x" by the class's module, so that's what a member
// reference must match against, not the module the instance happens to
// live in.
func memberDeps(classModule names.ModuleName, memberNames map[names.Ident]bool, value ast.Expr) map[names.Ident]bool {
	deps := map[names.Ident]bool{}
	var walkExpr func(e ast.Expr, inScope bool)
	var walkDecls func(decls []ast.Declaration, inScope bool)

	walkDecls = func(decls []ast.Declaration, inScope bool) {
		for _, d := range decls {
			if vd, ok := unwrapPositioned(d).(*ast.ValueDeclaration); ok {
				for _, body := range vd.Bodies {
					walkExpr(body.Expr, inScope)
				}
			}
		}
	}

	walkExpr = func(e ast.Expr, inScope bool) {
		switch n := e.(type) {
		case *ast.Var:
			if inScope && n.Name.ByModule.Equal(classModule) && memberNames[n.Name.Name] {
				deps[n.Name.Name] = true
			}
		case *ast.Abs:
			walkExpr(n.Body, false)
		case *ast.App:
			walkExpr(n.Func, inScope)
			walkExpr(n.Arg, inScope)
		case *ast.ArrayLiteral:
			for _, v := range n.Values {
				walkExpr(v, inScope)
			}
		case *ast.ObjectLiteral:
			for _, f := range n.Fields {
				walkExpr(f.Value, inScope)
			}
		case *ast.UnaryMinus:
			walkExpr(n.Value, inScope)
		case *ast.BinaryNoParens:
			walkExpr(n.Op, inScope)
			walkExpr(n.Left, inScope)
			walkExpr(n.Right, inScope)
		case *ast.Parens:
			walkExpr(n.Value, inScope)
		case *ast.Accessor:
			walkExpr(n.Value, inScope)
		case *ast.ObjectUpdate:
			walkExpr(n.Object, inScope)
			for _, u := range n.Updates {
				walkExpr(u.Value, inScope)
			}
		case *ast.IfThenElse:
			walkExpr(n.Cond, inScope)
			walkExpr(n.Then, inScope)
			walkExpr(n.Else, inScope)
		case *ast.Case:
			for _, s := range n.Scrutinees {
				walkExpr(s, inScope)
			}
			for _, a := range n.Alternatives {
				if a.Guard != nil {
					walkExpr(a.Guard, inScope)
				}
				walkExpr(a.Result, inScope)
			}
		case *ast.TypedValue:
			walkExpr(n.Value, inScope)
		case *ast.Let:
			walkDecls(n.Decls, inScope)
			walkExpr(n.Body, inScope)
		case *ast.Do:
			for _, el := range n.Elements {
				switch de := el.(type) {
				case *ast.DoNotationValue:
					walkExpr(de.Value, inScope)
				case *ast.DoNotationBind:
					walkExpr(de.Value, inScope)
				case *ast.DoNotationLet:
					walkDecls(de.Decls, inScope)
				}
			}
		case *ast.TypeClassDictionaryConstructorApp:
			walkExpr(n.Expr, inScope)
		case *ast.PositionedValue:
			walkExpr(n.Value, inScope)
		}
	}

	walkExpr(value, true)
	return deps
}

func buildSubst(classArgs []string, tys []typesystem.Type) typesystem.Subst {
	s := make(typesystem.Subst, len(classArgs))
	for i, a := range classArgs {
		if i < len(tys) {
			s[a] = tys[i]
		}
	}
	return s
}

// instanceDictType builds ∀α. deps => C τ1…τn for an instance's
// dictionary binding, where α ranges over the free type variables
// appearing in the instance head and its local constraints (spec.md
// §4.F steps 1 and 10).
func instanceDictType(decl *ast.TypeInstanceDeclaration) typesystem.Type {
	base := typesystem.TypeApp(classAsType(decl.Class), decl.Types...)
	wrapped := base
	for i := len(decl.Constraints) - 1; i >= 0; i-- {
		wrapped = typesystem.ConstrainedType{Constraint: decl.Constraints[i], Wrapped: wrapped}
	}
	return typesystem.ForAllMany(freeVarNames(decl.Types, decl.Constraints), wrapped)
}

func classAsType(q names.QualifiedClassName) typesystem.Type {
	return typesystem.TCon{Name: names.Qualify(q.ByModule, names.ClassNameAsTypeName(q.Name))}
}

func freeVarNames(tys []typesystem.Type, constraints []typesystem.Constraint) []string {
	seen := map[string]bool{}
	var order []string
	add := func(vars []typesystem.TVar) {
		for _, v := range vars {
			if !seen[v.Name] {
				seen[v.Name] = true
				order = append(order, v.Name)
			}
		}
	}
	for _, t := range tys {
		add(t.FreeTypeVariables())
	}
	for _, c := range constraints {
		for _, a := range c.Args {
			add(a.FreeTypeVariables())
		}
	}
	return order
}

func computeExport(currentModule names.ModuleName, exports []ast.ExportRef, decl *ast.TypeInstanceDeclaration) ast.ExportRef {
	if !classVisible(currentModule, exports, decl.Class) {
		return nil
	}
	for _, ty := range mentionedTypeConstructors(decl.Types) {
		if !typeVisible(currentModule, exports, ty) {
			return nil
		}
	}
	return ast.TypeInstanceRef{Ann: token.GeneratedAnn, Name: decl.Name}
}

func typesSliceString(tys []typesystem.Type) string {
	parts := make([]string, len(tys))
	for i, t := range tys {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
