package names

import "testing"

func TestProperNameString(t *testing.T) {
	n := NewProperName[ClassNameKind]("Show")
	if n.String() != "Show" {
		t.Fatalf("expected String() to round-trip the text, got %s", n.String())
	}
}

func TestClassNameAsTypeNameSharesText(t *testing.T) {
	class := NewProperName[ClassNameKind]("Show")
	typ := ClassNameAsTypeName(class)
	if typ.String() != class.String() {
		t.Fatalf("expected the type name to share the class's text, got %s vs %s", typ.String(), class.String())
	}
}

func TestModuleNameEqual(t *testing.T) {
	a := NewModuleName("Data", "Show")
	b := NewModuleName("Data", "Show")
	c := NewModuleName("Data", "Eq")
	if !a.Equal(b) {
		t.Fatalf("expected identical segment lists to be equal")
	}
	if a.Equal(c) {
		t.Fatalf("expected different segment lists to be unequal")
	}
	if a.String() != "Data.Show" {
		t.Fatalf("expected dotted string form, got %s", a.String())
	}
}

func TestQualifiedStringOmitsEmptyModule(t *testing.T) {
	unqualified := Qualify(ModuleName(nil), Ident("x"))
	if unqualified.IsQualified() {
		t.Fatalf("expected a nil module name to be unqualified")
	}
	if unqualified.String() != "x" {
		t.Fatalf("expected bare identifier text, got %s", unqualified.String())
	}

	qualified := Qualify(NewModuleName("Main"), Ident("x"))
	if !qualified.IsQualified() {
		t.Fatalf("expected a non-empty module name to be qualified")
	}
	if qualified.String() != "Main.x" {
		t.Fatalf("expected Main.x, got %s", qualified.String())
	}
}
