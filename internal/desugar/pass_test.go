package desugar

import (
	"testing"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/symbols"
	"github.com/classlang/tcdesugar/internal/token"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// TestModuleDesugarsClassAndInstanceEndToEnd exercises spec.md §8 scenario 1
// in miniature: one class declaration and one instance of it in the same
// module, checking that Module assembles the class's three replacement
// declarations, the instance's two replacement declarations, and a
// synthesized export for the instance dictionary.
func TestModuleDesugarsClassAndInstanceEndToEnd(t *testing.T) {
	mod := mkModule("Main")
	classDecl := showClass()

	intT := typesystem.TCon{Name: names.Qualify(names.Prim, names.NewProperName[names.TypeNameKind]("Int"))}
	instanceDecl := &ast.TypeInstanceDeclaration{
		Ann:   token.GeneratedAnn,
		Name:  names.Ident("showInt"),
		Class: names.Qualify(mod, classDecl.Name),
		Types: []typesystem.Type{intT},
		Body: ast.ExplicitInstance{
			Decls: []ast.Declaration{
				ast.NewValueDeclaration(token.GeneratedAnn, names.Ident("show"), ast.Private, &ast.StringLiteral{Value: "hello"}),
			},
		},
	}

	exports := []ast.ExportRef{ast.TypeClassRef{Name: classDecl.Name}}
	module := &ast.Module{
		Ann:     token.GeneratedAnn,
		Name:    mod,
		Decls:   []ast.Declaration{classDecl, instanceDecl},
		Exports: &exports,
	}

	table := symbols.NewMemberMap()
	out, err := Module(module, table, IdentityCaseDesugarer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Decls) != 5 {
		t.Fatalf("expected 3 class declarations + 2 instance declarations, got %d: %#v", len(out.Decls), out.Decls)
	}
	if out.Decls[0] != ast.Declaration(classDecl) {
		t.Fatalf("expected the class declaration to come first")
	}
	if _, ok := out.Decls[1].(*ast.TypeSynonymDeclaration); !ok {
		t.Fatalf("expected the dictionary synonym second, got %T", out.Decls[1])
	}
	if _, ok := out.Decls[2].(*ast.ValueDeclaration); !ok {
		t.Fatalf("expected the show accessor third, got %T", out.Decls[2])
	}
	if out.Decls[3] != ast.Declaration(instanceDecl) {
		t.Fatalf("expected the instance declaration fourth")
	}
	binding, ok := out.Decls[4].(*ast.ValueDeclaration)
	if !ok || binding.Ident != names.Ident("showInt") {
		t.Fatalf("expected the instance dictionary binding fifth, got %#v", out.Decls[4])
	}

	if len(*out.Exports) != 2 {
		t.Fatalf("expected the original class export plus a synthesized instance export, got %#v", *out.Exports)
	}
	instRef, ok := (*out.Exports)[1].(ast.TypeInstanceRef)
	if !ok || instRef.Name != names.Ident("showInt") {
		t.Fatalf("expected the second export to be a TypeInstanceRef for showInt, got %#v", (*out.Exports)[1])
	}

	data, ok := table.Lookup(mod, classDecl.Name)
	if !ok || len(data.Members) != 1 {
		t.Fatalf("expected Module to have populated the MemberMap via class desugaring")
	}
}

func TestModuleRejectsMissingExports(t *testing.T) {
	module := &ast.Module{Ann: token.GeneratedAnn, Name: mkModule("Main"), Decls: nil, Exports: nil}
	_, err := Module(module, symbols.NewMemberMap(), IdentityCaseDesugarer)
	if err == nil {
		t.Fatalf("expected an internal error when Exports has not been elaborated")
	}
}

func TestModulePassesThroughUnrecognizedDeclarations(t *testing.T) {
	exports := []ast.ExportRef{}
	opaque := &ast.OpaqueDeclaration{Ann: token.GeneratedAnn, Tag: "fixity"}
	module := &ast.Module{
		Ann:     token.GeneratedAnn,
		Name:    mkModule("Main"),
		Decls:   []ast.Declaration{opaque},
		Exports: &exports,
	}

	out, err := Module(module, symbols.NewMemberMap(), IdentityCaseDesugarer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Decls) != 1 || out.Decls[0] != ast.Declaration(opaque) {
		t.Fatalf("expected the opaque declaration to pass through unchanged, got %#v", out.Decls)
	}
}

// TestModulePreservesPositionedWrapperComments covers the case where the
// original class/instance declaration arrived wrapped in a
// PositionedDeclaration carrying leading comments: that wrapper must
// survive around the kept original declaration in the output, not just
// its inner SourceAnn.
func TestModulePreservesPositionedWrapperComments(t *testing.T) {
	mod := mkModule("Main")
	classDecl := showClass()
	commentedAnn := token.SourceAnn{
		Span:     token.Generated,
		Comments: []token.Comment{{Text: "-- the Show class"}},
	}
	positionedClass := &ast.PositionedDeclaration{Ann: commentedAnn, Decl: classDecl}

	exports := []ast.ExportRef{ast.TypeClassRef{Name: classDecl.Name}}
	module := &ast.Module{
		Ann:     token.GeneratedAnn,
		Name:    mod,
		Decls:   []ast.Declaration{positionedClass},
		Exports: &exports,
	}

	out, err := Module(module, symbols.NewMemberMap(), IdentityCaseDesugarer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wrapped, ok := out.Decls[0].(*ast.PositionedDeclaration)
	if !ok {
		t.Fatalf("expected the class declaration to stay wrapped in PositionedDeclaration, got %T", out.Decls[0])
	}
	if len(wrapped.Ann.Comments) != 1 || wrapped.Ann.Comments[0].Text != "-- the Show class" {
		t.Fatalf("expected the original wrapper's comments to survive, got %#v", wrapped.Ann.Comments)
	}
	if wrapped.Decl != ast.Declaration(classDecl) {
		t.Fatalf("expected the wrapped declaration to still be the original class decl, got %#v", wrapped.Decl)
	}
	if _, ok := out.Decls[1].(*ast.TypeSynonymDeclaration); !ok {
		t.Fatalf("expected the dictionary synonym unwrapped second, got %T", out.Decls[1])
	}
}
