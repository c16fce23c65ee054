package symbols

import (
	"testing"

	"github.com/classlang/tcdesugar/internal/names"
)

func TestMemberMapInsertAndLookup(t *testing.T) {
	m := NewMemberMap()
	mod := names.NewModuleName("Main")
	class := names.NewProperName[names.ClassNameKind]("Show")

	if _, ok := m.Lookup(mod, class); ok {
		t.Fatalf("expected an empty map to have no entries")
	}

	data := TypeClassData{Args: []string{"a"}}
	m.Insert(mod, class, data)

	got, ok := m.Lookup(mod, class)
	if !ok || len(got.Args) != 1 || got.Args[0] != "a" {
		t.Fatalf("expected the inserted data back, got %+v, %v", got, ok)
	}

	qualified := names.Qualify(mod, class)
	got2, ok := m.LookupQualified(qualified)
	if !ok || got2.Args[0] != "a" {
		t.Fatalf("expected LookupQualified to match Lookup, got %+v, %v", got2, ok)
	}
}

func TestMemberMapDistinguishesModules(t *testing.T) {
	m := NewMemberMap()
	class := names.NewProperName[names.ClassNameKind]("Show")
	m.Insert(names.NewModuleName("A"), class, TypeClassData{Args: []string{"x"}})
	m.Insert(names.NewModuleName("B"), class, TypeClassData{Args: []string{"y"}})

	a, _ := m.Lookup(names.NewModuleName("A"), class)
	b, _ := m.Lookup(names.NewModuleName("B"), class)
	if a.Args[0] != "x" || b.Args[0] != "y" {
		t.Fatalf("expected per-module entries to be distinct, got %+v and %+v", a, b)
	}
}

func TestMergeRightBiasedOverridesOnCollision(t *testing.T) {
	mod := names.NewModuleName("Prim")
	class := names.NewProperName[names.ClassNameKind]("Partial")

	base := NewMemberMap()
	base.Insert(mod, class, TypeClassData{Args: nil})
	overrides := NewMemberMap()
	overrides.Insert(mod, class, TypeClassData{Args: []string{"overridden"}})

	merged := MergeRightBiased(base, overrides)
	got, ok := merged.Lookup(mod, class)
	if !ok || len(got.Args) != 1 || got.Args[0] != "overridden" {
		t.Fatalf("expected overrides to win on collision, got %+v", got)
	}
}

func TestMergeRightBiasedKeepsNonCollidingEntries(t *testing.T) {
	base := NewMemberMap()
	base.Insert(names.NewModuleName("Prim"), names.NewProperName[names.ClassNameKind]("Partial"), TypeClassData{})
	overrides := NewMemberMap()
	overrides.Insert(names.NewModuleName("Main"), names.NewProperName[names.ClassNameKind]("Show"), TypeClassData{})

	merged := MergeRightBiased(base, overrides)
	if _, ok := merged.Lookup(names.NewModuleName("Prim"), names.NewProperName[names.ClassNameKind]("Partial")); !ok {
		t.Fatalf("expected the base entry to survive the merge")
	}
	if _, ok := merged.Lookup(names.NewModuleName("Main"), names.NewProperName[names.ClassNameKind]("Show")); !ok {
		t.Fatalf("expected the override entry to be present in the merge")
	}
}
