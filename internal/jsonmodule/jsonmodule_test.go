package jsonmodule

import (
	"strings"
	"testing"

	"github.com/classlang/tcdesugar/internal/ast"
)

const sampleModule = `{
  "name": ["Main"],
  "decls": [
    {
      "kind": "class",
      "class_name": "Show",
      "class_args": ["a"],
      "members": [
        {"ident": "show", "type": {"kind": "con", "module": ["Prim"], "con": "String"}}
      ]
    },
    {
      "kind": "instance",
      "instance_name": "showInt",
      "instance_class": "Show",
      "instance_class_module": ["Main"],
      "instance_types": [{"kind": "con", "module": ["Prim"], "con": "Int"}],
      "instance_members": [
        {"ident": "show", "body_ref": "hello"}
      ]
    },
    {"kind": "other", "tag": "fixity"}
  ],
  "exports": ["Show"]
}`

func TestDecodeModuleBuildsExpectedDeclarations(t *testing.T) {
	mod, err := DecodeModule([]byte(sampleModule))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod.Name.String() != "Main" {
		t.Fatalf("expected module name Main, got %s", mod.Name.String())
	}
	if len(mod.Decls) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(mod.Decls))
	}

	class, ok := mod.Decls[0].(*ast.TypeClassDeclaration)
	if !ok || class.Name.String() != "Show" || len(class.Members) != 1 {
		t.Fatalf("unexpected first declaration: %#v", mod.Decls[0])
	}

	inst, ok := mod.Decls[1].(*ast.TypeInstanceDeclaration)
	if !ok || inst.Name.String() != "showInt" || inst.Class.Name.String() != "Show" {
		t.Fatalf("unexpected second declaration: %#v", mod.Decls[1])
	}
	body, ok := inst.Body.(ast.ExplicitInstance)
	if !ok || len(body.Decls) != 1 {
		t.Fatalf("expected one explicit instance member, got %#v", inst.Body)
	}
	memberDecl, ok := body.Decls[0].(*ast.ValueDeclaration)
	if !ok || memberDecl.Ident.String() != "show" {
		t.Fatalf("unexpected instance member: %#v", body.Decls[0])
	}

	opaque, ok := mod.Decls[2].(*ast.OpaqueDeclaration)
	if !ok || opaque.Tag != "fixity" {
		t.Fatalf("unexpected third declaration: %#v", mod.Decls[2])
	}

	if !mod.HasExports() || len(*mod.Exports) != 1 {
		t.Fatalf("expected one export, got %#v", mod.Exports)
	}
	ref, ok := (*mod.Exports)[0].(ast.TypeClassRef)
	if !ok || ref.Name.String() != "Show" {
		t.Fatalf("unexpected export: %#v", (*mod.Exports)[0])
	}
}

func TestDecodeModuleRejectsUnknownDeclKind(t *testing.T) {
	_, err := DecodeModule([]byte(`{"name":["Main"],"decls":[{"kind":"bogus"}]}`))
	if err == nil || !strings.Contains(err.Error(), "unknown declaration kind") {
		t.Fatalf("expected an unknown-kind error, got %v", err)
	}
}

func TestDecodeExternsBuildsEDClass(t *testing.T) {
	raw := `{
  "module_name": ["Data", "Show"],
  "classes": [
    {
      "kind": "class",
      "class_name": "Show",
      "class_args": ["a"],
      "members": [
        {"ident": "show", "type": {"kind": "con", "module": ["Prim"], "con": "String"}}
      ]
    }
  ]
}`
	file, err := DecodeExterns([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.ModuleName.String() != "Data.Show" {
		t.Fatalf("unexpected module name: %s", file.ModuleName.String())
	}
	if len(file.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(file.Decls))
	}
	class, ok := file.Decls[0].(ast.EDClass)
	if !ok || class.Name.String() != "Show" || len(class.Members) != 1 {
		t.Fatalf("unexpected decoded extern: %#v", file.Decls[0])
	}
}

func TestDecodeExternsRejectsNonClassEntries(t *testing.T) {
	raw := `{"module_name":["Main"],"classes":[{"kind":"other","tag":"x"}]}`
	_, err := DecodeExterns([]byte(raw))
	if err == nil {
		t.Fatalf("expected an error for a non-class externs entry")
	}
}
