package desugar

import (
	"testing"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/token"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

func valueDecl(ident string) *ast.ValueDeclaration {
	return ast.NewValueDeclaration(token.GeneratedAnn, names.Ident(ident), ast.Public, &ast.StringLiteral{Value: ident})
}

func TestClassesFirstIsStableAndMovesClassesToFront(t *testing.T) {
	a := valueDecl("a")
	class1 := &ast.TypeClassDeclaration{Ann: token.GeneratedAnn, Name: names.NewProperName[names.ClassNameKind]("Foo")}
	b := valueDecl("b")
	class2 := &ast.TypeClassDeclaration{Ann: token.GeneratedAnn, Name: names.NewProperName[names.ClassNameKind]("Bar")}
	positionedClass := &ast.PositionedDeclaration{Ann: token.GeneratedAnn, Decl: class2}

	out := ClassesFirst([]ast.Declaration{a, class1, b, positionedClass})

	if len(out) != 4 {
		t.Fatalf("expected 4 declarations back, got %d", len(out))
	}
	if out[0] != ast.Declaration(class1) || out[1] != ast.Declaration(positionedClass) {
		t.Fatalf("expected both class declarations first in original relative order, got %#v, %#v", out[0], out[1])
	}
	if out[2] != ast.Declaration(a) || out[3] != ast.Declaration(b) {
		t.Fatalf("expected non-class declarations after, in original relative order")
	}
}

func TestClassVisibleExternalModuleAlwaysVisible(t *testing.T) {
	current := mkModule("Main")
	foreignClass := names.Qualify(mkModule("Data", "Eq"), names.NewProperName[names.ClassNameKind]("Eq"))
	if !classVisible(current, nil, foreignClass) {
		t.Fatalf("expected a class from a different module to always be visible")
	}
}

func TestClassVisibleLocalRequiresExport(t *testing.T) {
	current := mkModule("Main")
	local := names.Qualify(current, names.NewProperName[names.ClassNameKind]("Show"))

	if classVisible(current, nil, local) {
		t.Fatalf("expected a local class absent from exports to be invisible")
	}
	exports := []ast.ExportRef{ast.TypeClassRef{Name: names.NewProperName[names.ClassNameKind]("Show")}}
	if !classVisible(current, exports, local) {
		t.Fatalf("expected a local class present in exports to be visible")
	}
}

func TestTypeVisibleMirrorsClassVisible(t *testing.T) {
	current := mkModule("Main")
	local := names.Qualify(current, names.NewProperName[names.TypeNameKind]("Box"))
	if typeVisible(current, nil, local) {
		t.Fatalf("expected a local unexported type to be invisible")
	}
	exports := []ast.ExportRef{ast.TypeRef{Name: names.NewProperName[names.TypeNameKind]("Box")}}
	if !typeVisible(current, exports, local) {
		t.Fatalf("expected a local exported type to be visible")
	}
}

func TestMentionedTypeConstructorsWalksNestedShapes(t *testing.T) {
	intT := typesystem.TCon{Name: names.Qualify(names.Prim, names.NewProperName[names.TypeNameKind]("Int"))}
	boxT := typesystem.TCon{Name: names.Qualify(mkModule("Main"), names.NewProperName[names.TypeNameKind]("Box"))}
	applied := typesystem.TApp{Constructor: boxT, Arg: intT}
	constrained := typesystem.ConstrainedType{
		Constraint: typesystem.Constraint{
			Class: names.Qualify(mkModule("Data", "Eq"), names.NewProperName[names.ClassNameKind]("Eq")),
			Args:  []typesystem.Type{intT},
		},
		Wrapped: applied,
	}
	row := typesystem.RCons{Label: "x", Head: intT, Tail: typesystem.REmpty{}}
	record := typesystem.RecordT{Row: row}
	forall := typesystem.ForAll{Var: "a", Body: record}

	got := mentionedTypeConstructors([]typesystem.Type{constrained, forall})

	seen := map[string]bool{}
	for _, n := range got {
		seen[n.String()] = true
	}
	if !seen["Prim.Int"] || !seen["Main.Box"] {
		t.Fatalf("expected Prim.Int and Main.Box to be collected, got %v", got)
	}
}
