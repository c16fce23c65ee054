package desugar

import (
	"testing"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/diagnostics"
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/token"
)

func qualLocalVar(mod names.ModuleName, ident string) *ast.Var {
	return &ast.Var{Ann: token.GeneratedAnn, Name: names.Qualify(mod, names.Ident(ident))}
}

func TestScheduleDictionaryOrdersByDependency(t *testing.T) {
	mod := mkModule("Main")
	a := memberEntry{name: "a", value: &ast.StringLiteral{Value: "a-body"}, deps: map[names.Ident]bool{}}
	b := memberEntry{name: "b", value: qualLocalVar(mod, "a"), deps: map[names.Ident]bool{"a": true}}

	class := names.Qualify(mod, names.NewProperName[names.ClassNameKind]("Foo"))
	expr, err := scheduleDictionary(class, []memberEntry{b, a}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	update, ok := expr.(*ast.ObjectUpdate)
	if !ok {
		t.Fatalf("expected a trailing ObjectUpdate once a dependent layer follows, got %T", expr)
	}
	if len(update.Updates) != 1 || update.Updates[0].Label != "b" {
		t.Fatalf("expected the second layer to update field b, got %+v", update.Updates)
	}

	ctorApp, ok := update.Object.(*ast.TypeClassDictionaryConstructorApp)
	if !ok {
		t.Fatalf("expected the base object to be a TypeClassDictionaryConstructorApp, got %T", update.Object)
	}
	record := ctorApp.Expr.(*ast.ObjectLiteral)
	if len(record.Fields) != 2 || record.Fields[0].Label != "a" {
		t.Fatalf("expected the ready member 'a' plus an undefined placeholder for 'b', got %+v", record.Fields)
	}
	if record.Fields[1].Label != "b" {
		t.Fatalf("expected a placeholder field reserving b's slot, got %+v", record.Fields[1])
	}
	if _, ok := record.Fields[1].Value.(*ast.Var); !ok {
		t.Fatalf("expected the not-yet-ready field to hold an undefined placeholder Var, got %T", record.Fields[1].Value)
	}
}

func TestScheduleDictionaryRejectsCyclicDependencies(t *testing.T) {
	a := memberEntry{name: "a", deps: map[names.Ident]bool{"b": true}}
	b := memberEntry{name: "b", deps: map[names.Ident]bool{"a": true}}

	_, err := scheduleDictionary(names.QualifiedClassName{}, []memberEntry{a, b}, nil)
	if err == nil {
		t.Fatalf("expected a cyclic dependency to be rejected")
	}
	de, ok := err.(*diagnostics.DesugarError)
	if !ok || de.Code != diagnostics.ErrOverlappingNamesInLet {
		t.Fatalf("expected ErrOverlappingNamesInLet, got %v", err)
	}
}

func TestMemberDepsExcludesReferencesInsideLambdas(t *testing.T) {
	mod := mkModule("Main")
	memberNames := map[names.Ident]bool{"a": true, "b": true}

	value := &ast.App{
		Func: qualLocalVar(mod, "a"),
		Arg: &ast.Abs{
			Binder: &ast.VarBinder{Name: names.Ident("x")},
			Body:   qualLocalVar(mod, "b"),
		},
	}

	deps := memberDeps(mod, memberNames, value)
	if !deps["a"] {
		t.Fatalf("expected the unguarded reference to a to count as a dependency")
	}
	if deps["b"] {
		t.Fatalf("expected the reference to b inside a lambda to be excluded")
	}
}

func TestMemberDepsMatchesClassModuleNotInstanceModule(t *testing.T) {
	// An instance of an imported class: name resolution qualifies an
	// inter-member reference like bar in "foo x = bar x" by the class's
	// own module (Data.Foo here), never by the module the instance
	// itself lives in.
	classModule := mkModule("Data", "Foo")
	memberNames := map[names.Ident]bool{"a": true}

	sameClassRef := qualLocalVar(classModule, "a")
	deps := memberDeps(classModule, memberNames, sameClassRef)
	if !deps["a"] {
		t.Fatalf("expected a reference qualified to the class's own module to count as a dependency, got %v", deps)
	}

	unrelatedRef := qualLocalVar(mkModule("Other"), "a")
	deps = memberDeps(classModule, memberNames, unrelatedRef)
	if len(deps) != 0 {
		t.Fatalf("expected a reference qualified to an unrelated module not to count, got %v", deps)
	}
}

func TestComputeExportRequiresClassVisibility(t *testing.T) {
	mod := mkModule("Main")
	localClass := names.Qualify(mod, names.NewProperName[names.ClassNameKind]("Show"))
	decl := &ast.TypeInstanceDeclaration{
		Ann:   token.GeneratedAnn,
		Name:  names.Ident("showInt"),
		Class: localClass,
	}

	if computeExport(mod, nil, decl) != nil {
		t.Fatalf("expected no export when the class itself is not visible")
	}

	exports := []ast.ExportRef{ast.TypeClassRef{Name: names.NewProperName[names.ClassNameKind]("Show")}}
	ref := computeExport(mod, exports, decl)
	if ref == nil {
		t.Fatalf("expected an export once the class is visible and the instance head mentions no local hidden types")
	}
	instRef, ok := ref.(ast.TypeInstanceRef)
	if !ok || instRef.Name != names.Ident("showInt") {
		t.Fatalf("expected a TypeInstanceRef named showInt, got %#v", ref)
	}
}
