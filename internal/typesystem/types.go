package typesystem

import (
	"fmt"
	"strings"

	"github.com/classlang/tcdesugar/internal/names"
)

// Subst is a substitution from type-variable name to the Type replacing
// it, applied by every variant's Apply method.
type Subst map[string]Type

// Type is the interface implemented by every member of the type algebra
// in spec.md §3: type variable, type constructor, type application,
// constrained type, row extension, empty row, record, and forall.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
	Kind() Kind
}

// TVar is a type variable, e.g. 'a' in `class Show a`.
type TVar struct {
	Name    string
	KindVal Kind
}

func (t TVar) String() string { return t.Name }

func (t TVar) Kind() Kind {
	if t.KindVal == nil {
		return Star
	}
	return t.KindVal
}

func (t TVar) Apply(s Subst) Type {
	if replacement, ok := s[t.Name]; ok {
		return replacement
	}
	return t
}

func (t TVar) FreeTypeVariables() []TVar { return []TVar{t} }

// TCon is a type constructor named by a qualified proper name, e.g. Int
// or Data.List.List.
type TCon struct {
	Name    names.QualifiedTypeName
	KindVal Kind
}

func (t TCon) String() string { return t.Name.String() }

func (t TCon) Kind() Kind {
	if t.KindVal == nil {
		return Star
	}
	return t.KindVal
}

func (t TCon) Apply(Subst) Type            { return t }
func (t TCon) FreeTypeVariables() []TVar   { return nil }

// TApp is a curried type application, Constructor applied to one Arg
// (List a is TApp{TCon List, TVar a}; Either a b is
// TApp{TApp{TCon Either, TVar a}, TVar b}).
type TApp struct {
	Constructor Type
	Arg         Type
}

func (t TApp) String() string {
	return fmt.Sprintf("(%s %s)", t.Constructor.String(), t.Arg.String())
}

func (t TApp) Kind() Kind {
	ctorKind := t.Constructor.Kind()
	if arrow, ok := ctorKind.(KArrow); ok {
		return arrow.Right
	}
	return Star
}

func (t TApp) Apply(s Subst) Type {
	return TApp{Constructor: t.Constructor.Apply(s), Arg: t.Arg.Apply(s)}
}

func (t TApp) FreeTypeVariables() []TVar {
	return append(t.Constructor.FreeTypeVariables(), t.Arg.FreeTypeVariables()...)
}

// TypeApp is a convenience constructor for applying a type constructor to
// a sequence of arguments left-to-right, e.g. TypeApp(Either, a, b).
func TypeApp(ctor Type, args ...Type) Type {
	result := ctor
	for _, arg := range args {
		result = TApp{Constructor: result, Arg: arg}
	}
	return result
}

// Constraint is `(class, type arguments, optional data to solve with)`
// from spec.md §3. SolverData is opaque to this pass: it is only ever
// copied through, never inspected (the type checker, out of scope,
// assigns it meaning).
type Constraint struct {
	Class      names.QualifiedClassName
	Args       []Type
	SolverData any
}

func (c Constraint) Apply(s Subst) Constraint {
	newArgs := make([]Type, len(c.Args))
	for i, a := range c.Args {
		newArgs[i] = a.Apply(s)
	}
	return Constraint{Class: c.Class, Args: newArgs, SolverData: c.SolverData}
}

func (c Constraint) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s", c.Class.String(), strings.Join(parts, " "))
}

// ConstrainedType is `Constraint => Type`.
type ConstrainedType struct {
	Constraint Constraint
	Wrapped    Type
}

func (t ConstrainedType) String() string {
	return fmt.Sprintf("%s => %s", t.Constraint.String(), t.Wrapped.String())
}

func (t ConstrainedType) Kind() Kind { return t.Wrapped.Kind() }

func (t ConstrainedType) Apply(s Subst) Type {
	return ConstrainedType{Constraint: t.Constraint.Apply(s), Wrapped: t.Wrapped.Apply(s)}
}

func (t ConstrainedType) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, a := range t.Constraint.Args {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	return append(vars, t.Wrapped.FreeTypeVariables()...)
}

// RCons is a row extension: label : Head, ...Tail.
type RCons struct {
	Label string
	Head  Type
	Tail  Type
}

func (t RCons) String() string {
	return fmt.Sprintf("(%s: %s | %s)", t.Label, t.Head.String(), t.Tail.String())
}

func (t RCons) Kind() Kind { return KRow{Of: t.Head.Kind()} }

func (t RCons) Apply(s Subst) Type {
	return RCons{Label: t.Label, Head: t.Head.Apply(s), Tail: t.Tail.Apply(s)}
}

func (t RCons) FreeTypeVariables() []TVar {
	return append(t.Head.FreeTypeVariables(), t.Tail.FreeTypeVariables()...)
}

// REmpty is the empty row, {}.
type REmpty struct{}

func (REmpty) String() string              { return "()" }
func (REmpty) Kind() Kind                  { return KRow{Of: Star} }
func (REmpty) Apply(Subst) Type            { return REmpty{} }
func (REmpty) FreeTypeVariables() []TVar   { return nil }

// RecordT is a record of a row, { ...Row }.
type RecordT struct {
	Row Type
}

func (t RecordT) String() string { return fmt.Sprintf("{ %s }", t.Row.String()) }
func (t RecordT) Kind() Kind     { return Star }

func (t RecordT) Apply(s Subst) Type {
	return RecordT{Row: t.Row.Apply(s)}
}

func (t RecordT) FreeTypeVariables() []TVar { return t.Row.FreeTypeVariables() }

// ForAll is a rank-1 quantifier introduced by generalization; class
// accessors and instance dictionaries get one ForAll per type variable
// they quantify over, and none when there is no such variable
// (spec.md §4.E step 3, §4.F step 10).
type ForAll struct {
	Var     string
	VarKind Kind
	Body    Type
}

func (t ForAll) String() string {
	return fmt.Sprintf("forall %s. %s", t.Var, t.Body.String())
}

func (t ForAll) Kind() Kind { return t.Body.Kind() }

func (t ForAll) Apply(s Subst) Type {
	// Respect variable capture: don't substitute under a binder of the
	// same name.
	if _, shadowed := s[t.Var]; shadowed {
		inner := make(Subst, len(s)-1)
		for k, v := range s {
			if k != t.Var {
				inner[k] = v
			}
		}
		return ForAll{Var: t.Var, VarKind: t.VarKind, Body: t.Body.Apply(inner)}
	}
	return ForAll{Var: t.Var, VarKind: t.VarKind, Body: t.Body.Apply(s)}
}

func (t ForAll) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, v := range t.Body.FreeTypeVariables() {
		if v.Name != t.Var {
			vars = append(vars, v)
		}
	}
	return vars
}

// ForAllMany wraps body in one ForAll per variable, outermost first,
// mirroring the "quantifiers moved to the front" construction in
// spec.md §4.E step 3.
func ForAllMany(vars []string, body Type) Type {
	result := body
	for i := len(vars) - 1; i >= 0; i-- {
		result = ForAll{Var: vars[i], Body: result}
	}
	return result
}

// Unit is {} used as the argument type of superclass thunks (spec.md §4.E
// step 2: "Unit -> C t1 .. tn").
var Unit Type = RecordT{Row: REmpty{}}

// Function is the reserved two-argument type constructor the arrow type
// desugars to. Spec.md §3's type algebra has no dedicated function-arrow
// variant, matching the source language's own encoding of "a -> b" as an
// ordinary type application of a primitive binary constructor rather than
// a distinct Type case.
var Function Type = TCon{
	Name:    names.Qualify(names.Prim, names.NewProperName[names.TypeNameKind]("Function")),
	KindVal: MakeArrow(Star, Star, Star),
}

// Fun builds the arrow type `arg -> result`.
func Fun(arg, result Type) Type {
	return TypeApp(Function, arg, result)
}
