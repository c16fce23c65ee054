package ast

import (
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/token"
)

// Binder is the pattern sum type from spec.md §3.
type Binder interface {
	Annotation() token.SourceAnn
	binderNode()
}

type NullBinder struct{ Ann token.SourceAnn }

func (b *NullBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *NullBinder) binderNode()                  {}

type BooleanBinder struct {
	Ann   token.SourceAnn
	Value bool
}

func (b *BooleanBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *BooleanBinder) binderNode()                  {}

type StringBinder struct {
	Ann   token.SourceAnn
	Value string
}

func (b *StringBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *StringBinder) binderNode()                  {}

type NumberBinder struct {
	Ann   token.SourceAnn
	Value float64
}

func (b *NumberBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *NumberBinder) binderNode()                  {}

type VarBinder struct {
	Ann  token.SourceAnn
	Name names.Ident
}

func (b *VarBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *VarBinder) binderNode()                  {}

type ConstructorBinder struct {
	Ann  token.SourceAnn
	Name names.Qualified[names.ConstructorName]
	Args []Binder
}

func (b *ConstructorBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *ConstructorBinder) binderNode()                  {}

type ObjectBinderField struct {
	Label  string
	Binder Binder
}

type ObjectBinder struct {
	Ann    token.SourceAnn
	Fields []ObjectBinderField
}

func (b *ObjectBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *ObjectBinder) binderNode()                  {}

type ArrayBinder struct {
	Ann    token.SourceAnn
	Values []Binder
}

func (b *ArrayBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *ArrayBinder) binderNode()                  {}

type ConsBinder struct {
	Ann  token.SourceAnn
	Head Binder
	Tail Binder
}

func (b *ConsBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *ConsBinder) binderNode()                  {}

// NamedBinder is `ident @ sub`.
type NamedBinder struct {
	Ann   token.SourceAnn
	Name  names.Ident
	Inner Binder
}

func (b *NamedBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *NamedBinder) binderNode()                  {}

type PositionedBinder struct {
	Ann   token.SourceAnn
	Inner Binder
}

func (b *PositionedBinder) Annotation() token.SourceAnn { return b.Ann }
func (b *PositionedBinder) binderNode()                  {}

// CaseAlternative is `(binders, optional guard, result expression)`. A
// nil Guard means unguarded.
type CaseAlternative struct {
	Binders []Binder
	Guard   Expr
	Result  Expr
}

// DoNotationElement is the sum type of do-block statements.
type DoNotationElement interface {
	Annotation() token.SourceAnn
	doElementNode()
}

type DoNotationValue struct {
	Ann   token.SourceAnn
	Value Expr
}

func (d *DoNotationValue) Annotation() token.SourceAnn { return d.Ann }
func (d *DoNotationValue) doElementNode()               {}

type DoNotationBind struct {
	Ann    token.SourceAnn
	Binder Binder
	Value  Expr
}

func (d *DoNotationBind) Annotation() token.SourceAnn { return d.Ann }
func (d *DoNotationBind) doElementNode()               {}

type DoNotationLet struct {
	Ann   token.SourceAnn
	Decls []Declaration
}

func (d *DoNotationLet) Annotation() token.SourceAnn { return d.Ann }
func (d *DoNotationLet) doElementNode()               {}

type PositionedDoNotationElement struct {
	Ann   token.SourceAnn
	Inner DoNotationElement
}

func (d *PositionedDoNotationElement) Annotation() token.SourceAnn { return d.Ann }
func (d *PositionedDoNotationElement) doElementNode()               {}
