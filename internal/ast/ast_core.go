// Package ast is the data model of spec.md §3: modules, declarations,
// expressions, binders, and the handful of record types connecting them.
// Every mutually-recursive family is a small interface plus one struct per
// variant, following the teacher's one-struct-per-node style
// (internal/ast/ast_core.go in the teacher) but without the teacher's
// Visitor dispatch: this pass walks the tree with the combinator functions
// in internal/traverse instead of per-node Accept methods.
package ast

import (
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/token"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// Visibility controls whether a generated declaration is exportable.
// Class accessors and instance dictionaries are always Private at the
// point of synthesis (spec.md §4.E step 3, §4.F step 10); visibility is
// only ever widened later by export rewriting (§4.G), never by the
// declaration itself.
type Visibility int

const (
	Public Visibility = iota
	Private
)

// FunctionalDependency is a, b -> c on a class's type arguments.
type FunctionalDependency struct {
	From []string
	To   []string
}

// Declaration is the sum type from spec.md §3. Every variant below
// implements it.
type Declaration interface {
	Annotation() token.SourceAnn
	declNode()
}

type DataConstructorDecl struct {
	Name   names.ConstructorName
	Fields []typesystem.Type
}

type DataDeclaration struct {
	Ann          token.SourceAnn
	Name         names.TypeName
	TypeArgs     []string
	Constructors []DataConstructorDecl
}

func (d *DataDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *DataDeclaration) declNode()                   {}

// DataBindingGroupDeclaration bundles mutually recursive data
// declarations.
type DataBindingGroupDeclaration struct {
	Ann   token.SourceAnn
	Decls []*DataDeclaration
}

func (d *DataBindingGroupDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *DataBindingGroupDeclaration) declNode()                   {}

type TypeSynonymDeclaration struct {
	Ann      token.SourceAnn
	Name     names.TypeName
	TypeArgs []string
	Type     typesystem.Type
}

func (d *TypeSynonymDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *TypeSynonymDeclaration) declNode()                   {}

// TypeDeclaration is a standalone type signature for a value, and also
// the shape every type-class member signature must take (spec.md §4.E
// step 1: "members... must be a type declaration").
type TypeDeclaration struct {
	Ann   token.SourceAnn
	Ident names.Ident
	Type  typesystem.Type
}

func (d *TypeDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *TypeDeclaration) declNode()                   {}

// GuardedExpr is one right-hand side of a value declaration, with an
// optional list of pattern guards (not modeled further — this pass treats
// a ValueDeclaration's bodies opaquely except where §4.F step 6 requires
// exactly one, unguarded).
type GuardedExpr struct {
	Guards []Expr
	Expr   Expr
}

type ValueDeclaration struct {
	Ann        token.SourceAnn
	Ident      names.Ident
	Visibility Visibility
	Binders    []Binder
	Bodies     []GuardedExpr
}

func (d *ValueDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *ValueDeclaration) declNode()                   {}

// NewValueDeclaration is the common case: one binder list, one unguarded
// body. Used throughout class/instance desugaring to build synthesized
// declarations.
func NewValueDeclaration(ann token.SourceAnn, ident names.Ident, vis Visibility, value Expr) *ValueDeclaration {
	return &ValueDeclaration{
		Ann:        ann,
		Ident:      ident,
		Visibility: vis,
		Bodies:     []GuardedExpr{{Expr: value}},
	}
}

type BindingGroupDeclaration struct {
	Ann   token.SourceAnn
	Decls []*ValueDeclaration
}

func (d *BindingGroupDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *BindingGroupDeclaration) declNode()                   {}

type ForeignValueDeclaration struct {
	Ann   token.SourceAnn
	Ident names.Ident
	Type  typesystem.Type
}

func (d *ForeignValueDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *ForeignValueDeclaration) declNode()                   {}

type ForeignDataDeclaration struct {
	Ann  token.SourceAnn
	Name names.TypeName
	Kind typesystem.Kind
}

func (d *ForeignDataDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *ForeignDataDeclaration) declNode()                   {}

type ForeignInstanceDeclaration struct {
	Ann         token.SourceAnn
	Constraints []typesystem.Constraint
	Class       names.QualifiedClassName
	Types       []typesystem.Type
}

func (d *ForeignInstanceDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *ForeignInstanceDeclaration) declNode()                   {}

type Fixity struct {
	Associativity string // "infixl", "infixr", "infix"
	Precedence    int
	Operator      string
	Alias         names.QualifiedIdent
}

type FixityDeclaration struct {
	Ann    token.SourceAnn
	Fixity Fixity
}

func (d *FixityDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *FixityDeclaration) declNode()                   {}

type ImportDeclaration struct {
	Ann    token.SourceAnn
	Module names.ModuleName
	Alias  names.ModuleName // empty if unaliased
}

func (d *ImportDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *ImportDeclaration) declNode()                   {}

// TypeClassDeclaration is the input to §4.E.
type TypeClassDeclaration struct {
	Ann          token.SourceAnn
	Name         names.ClassName
	Args         []string
	Superclasses []typesystem.Constraint
	Deps         []FunctionalDependency
	Members      []*TypeDeclaration
}

func (d *TypeClassDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *TypeClassDeclaration) declNode()                   {}

// InstanceBody is the tagged union from spec.md §3.
type InstanceBody interface {
	instanceBodyNode()
}

// DerivedInstance must never reach this pass (spec.md invariant); kept as
// a type so the pass can detect and reject it rather than silently
// mishandling it.
type DerivedInstance struct{}

func (DerivedInstance) instanceBodyNode() {}

type ExplicitInstance struct {
	Decls []Declaration
}

func (ExplicitInstance) instanceBodyNode() {}

// NewtypeInstanceWithDictionary carries a pre-built dictionary expression
// for a newtype-derived instance. OQ-2: the pass does not re-check Dict
// against the class's members — callers are trusted to supply a valid
// dictionary expression.
type NewtypeInstanceWithDictionary struct {
	Dict Expr
}

func (NewtypeInstanceWithDictionary) instanceBodyNode() {}

// TypeInstanceDeclaration is the input to §4.F.
type TypeInstanceDeclaration struct {
	Ann         token.SourceAnn
	Name        names.Ident
	Constraints []typesystem.Constraint
	Class       names.QualifiedClassName
	Types       []typesystem.Type
	Body        InstanceBody
}

func (d *TypeInstanceDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *TypeInstanceDeclaration) declNode()                   {}

// PositionedDeclaration is a pass-through wrapper carrying comments
// alongside a declaration, kept distinct per spec.md §3/§4.A so traversal
// combinators must explicitly unwrap it.
type PositionedDeclaration struct {
	Ann  token.SourceAnn
	Decl Declaration
}

func (d *PositionedDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *PositionedDeclaration) declNode()                   {}

// OpaqueDeclaration stands in for a declaration kind this pass has no
// reason to model (fixity, foreign imports read from a wire format that
// doesn't bother encoding them, etc). It carries Tag only so a caller
// that decoded it can tell which opaque kind it was; the pass itself
// never inspects Tag and traverse's combinators pass it through
// unchanged via their default case.
type OpaqueDeclaration struct {
	Ann token.SourceAnn
	Tag string
}

func (d *OpaqueDeclaration) Annotation() token.SourceAnn { return d.Ann }
func (d *OpaqueDeclaration) declNode()                   {}
