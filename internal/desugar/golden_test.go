package desugar

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/diagnostics"
	"github.com/classlang/tcdesugar/internal/jsonmodule"
	"github.com/classlang/tcdesugar/internal/symbols"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// loadModuleArchive reads a txtar fixture under testdata/ and decodes its
// "module.json" file into an *ast.Module, the same entry point
// cmd/tcdesugar and internal/rpcserver use on real input.
func loadModuleArchive(t *testing.T, name string) *ast.Module {
	t.Helper()
	arc, err := txtar.ParseFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading archive %s: %v", name, err)
	}
	for _, f := range arc.Files {
		if f.Name == "module.json" {
			mod, err := jsonmodule.DecodeModule(f.Data)
			if err != nil {
				t.Fatalf("decoding %s: %v", name, err)
			}
			return mod
		}
	}
	t.Fatalf("archive %s has no module.json file", name)
	return nil
}

// rowLabels walks an RCons chain in declared order, the same shape
// DesugarClass's dictionaryRow builds.
func rowLabels(t *testing.T, row typesystem.Type) []string {
	t.Helper()
	var labels []string
	for {
		switch r := row.(type) {
		case typesystem.RCons:
			labels = append(labels, r.Label)
			row = r.Tail
		case typesystem.REmpty:
			return labels
		default:
			t.Fatalf("expected an RCons/REmpty row, got %T", row)
			return nil
		}
	}
}

func TestGoldenClassAndInstanceScenario(t *testing.T) {
	mod := loadModuleArchive(t, "basic_class_instance.txtar")

	out, err := Module(mod, symbols.NewMemberMap(), IdentityCaseDesugarer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Decls) != 5 {
		t.Fatalf("expected 5 declarations, got %d: %#v", len(out.Decls), out.Decls)
	}
	synonym, ok := out.Decls[1].(*ast.TypeSynonymDeclaration)
	if !ok {
		t.Fatalf("expected a dictionary synonym second, got %T", out.Decls[1])
	}
	if got := rowLabels(t, synonym.Type); len(got) != 1 || got[0] != "show" {
		t.Fatalf("expected a single show field, got %v", got)
	}

	binding, ok := out.Decls[4].(*ast.ValueDeclaration)
	if !ok {
		t.Fatalf("expected the dictionary binding fifth, got %T", out.Decls[4])
	}
	typed := binding.Bodies[0].Expr.(*ast.TypedValue)
	ctorApp, ok := typed.Value.(*ast.TypeClassDictionaryConstructorApp)
	if !ok {
		t.Fatalf("expected a dictionary constructor application, got %T", typed.Value)
	}
	record := ctorApp.Expr.(*ast.ObjectLiteral)
	if len(record.Fields) != 1 || record.Fields[0].Label != "show" {
		t.Fatalf("expected a single show field in the dictionary literal, got %+v", record.Fields)
	}

	if len(*out.Exports) != 2 {
		t.Fatalf("expected the original export plus a synthesized instance export, got %#v", *out.Exports)
	}
	if _, ok := (*out.Exports)[1].(ast.TypeInstanceRef); !ok {
		t.Fatalf("expected a synthesized TypeInstanceRef, got %#v", (*out.Exports)[1])
	}
}

func TestGoldenSuperclassThunkScenario(t *testing.T) {
	mod := loadModuleArchive(t, "superclass_thunk.txtar")

	out, err := Module(mod, symbols.NewMemberMap(), IdentityCaseDesugarer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	synonym, ok := out.Decls[1].(*ast.TypeSynonymDeclaration)
	if !ok {
		t.Fatalf("expected a dictionary synonym second, got %T", out.Decls[1])
	}
	labels := rowLabels(t, synonym.Type)
	if len(labels) != 2 || labels[0] != "sub" || labels[1] != "Foo0" {
		t.Fatalf("expected [sub Foo0] row labels, got %v", labels)
	}

	binding := out.Decls[4].(*ast.ValueDeclaration)
	typed := binding.Bodies[0].Expr.(*ast.TypedValue)
	ctorApp := typed.Value.(*ast.TypeClassDictionaryConstructorApp)
	record := ctorApp.Expr.(*ast.ObjectLiteral)
	if len(record.Fields) != 2 || record.Fields[0].Label != "sub" || record.Fields[1].Label != "Foo0" {
		t.Fatalf("expected [sub Foo0] dictionary fields, got %+v", record.Fields)
	}
	thunk, ok := record.Fields[1].Value.(*ast.Abs)
	if !ok {
		t.Fatalf("expected the Foo0 field to hold a thunk abstraction, got %T", record.Fields[1].Value)
	}
	if _, ok := thunk.Body.(*ast.DeferredDictionary); !ok {
		t.Fatalf("expected the thunk body to defer to the superclass dictionary, got %T", thunk.Body)
	}
}

func TestGoldenMissingMemberScenario(t *testing.T) {
	mod := loadModuleArchive(t, "missing_member.txtar")

	_, err := Module(mod, symbols.NewMemberMap(), IdentityCaseDesugarer)
	if err == nil {
		t.Fatalf("expected an error for an instance missing its only member")
	}
	var de *diagnostics.DesugarError
	if !errors.As(err, &de) || de.Code != diagnostics.ErrErrorInInstance {
		t.Fatalf("expected an error-in-instance hint at the top, got %v", err)
	}
	cause := errors.Unwrap(err)
	var innerDe *diagnostics.DesugarError
	if !errors.As(cause, &innerDe) || innerDe.Code != diagnostics.ErrMissingClassMember {
		t.Fatalf("expected the wrapped cause to be a missing-class-member error, got %v", cause)
	}
	if !strings.Contains(err.Error(), "eq") {
		t.Fatalf("expected the rendered error to mention the missing member, got %q", err.Error())
	}
}

func TestGoldenExtraneousMemberScenario(t *testing.T) {
	mod := loadModuleArchive(t, "extraneous_member.txtar")

	_, err := Module(mod, symbols.NewMemberMap(), IdentityCaseDesugarer)
	if err == nil {
		t.Fatalf("expected an error for an instance defining a non-member identifier")
	}
	var de *diagnostics.DesugarError
	if !errors.As(err, &de) || de.Code != diagnostics.ErrErrorInInstance {
		t.Fatalf("expected an error-in-instance hint at the top, got %v", err)
	}
	cause := errors.Unwrap(err)
	var innerDe *diagnostics.DesugarError
	if !errors.As(cause, &innerDe) || innerDe.Code != diagnostics.ErrExtraneousClassMember {
		t.Fatalf("expected the wrapped cause to be an extraneous-class-member error, got %v", cause)
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("expected the rendered error to mention the extraneous member, got %q", err.Error())
	}
}
