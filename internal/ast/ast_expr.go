package ast

import (
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/token"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// Expr is the sum type of value-level expressions from spec.md §3,
// including the type-class-specific placeholders this pass introduces
// and later consumes (TypeClassDictionary, SuperclassDictionary,
// TypeClassDictionaryAccessor, TypeClassDictionaryConstructorApp,
// DeferredDictionary).
type Expr interface {
	Annotation() token.SourceAnn
	exprNode()
}

type NumericLiteral struct {
	Ann   token.SourceAnn
	Value float64
}

func (e *NumericLiteral) Annotation() token.SourceAnn { return e.Ann }
func (e *NumericLiteral) exprNode()                   {}

type StringLiteral struct {
	Ann   token.SourceAnn
	Value string
}

func (e *StringLiteral) Annotation() token.SourceAnn { return e.Ann }
func (e *StringLiteral) exprNode()                   {}

type BooleanLiteral struct {
	Ann   token.SourceAnn
	Value bool
}

func (e *BooleanLiteral) Annotation() token.SourceAnn { return e.Ann }
func (e *BooleanLiteral) exprNode()                   {}

type ArrayLiteral struct {
	Ann    token.SourceAnn
	Values []Expr
}

func (e *ArrayLiteral) Annotation() token.SourceAnn { return e.Ann }
func (e *ArrayLiteral) exprNode()                   {}

// ObjectField is a single label/value pair inside an object literal,
// object update, or dictionary literal.
type ObjectField struct {
	Label string
	Value Expr
}

type ObjectLiteral struct {
	Ann    token.SourceAnn
	Fields []ObjectField
}

func (e *ObjectLiteral) Annotation() token.SourceAnn { return e.Ann }
func (e *ObjectLiteral) exprNode()                   {}

type UnaryMinus struct {
	Ann   token.SourceAnn
	Value Expr
}

func (e *UnaryMinus) Annotation() token.SourceAnn { return e.Ann }
func (e *UnaryMinus) exprNode()                   {}

// BinaryNoParens is an operator expression before fixity resolution:
// Op Left Right where Op is itself an expression (usually a Var naming
// the operator function).
type BinaryNoParens struct {
	Ann   token.SourceAnn
	Op    Expr
	Left  Expr
	Right Expr
}

func (e *BinaryNoParens) Annotation() token.SourceAnn { return e.Ann }
func (e *BinaryNoParens) exprNode()                   {}

type Parens struct {
	Ann   token.SourceAnn
	Value Expr
}

func (e *Parens) Annotation() token.SourceAnn { return e.Ann }
func (e *Parens) exprNode()                   {}

type Accessor struct {
	Ann   token.SourceAnn
	Label string
	Value Expr
}

func (e *Accessor) Annotation() token.SourceAnn { return e.Ann }
func (e *Accessor) exprNode()                   {}

type ObjectUpdate struct {
	Ann     token.SourceAnn
	Object  Expr
	Updates []ObjectField
}

func (e *ObjectUpdate) Annotation() token.SourceAnn { return e.Ann }
func (e *ObjectUpdate) exprNode()                   {}

// Abs is a lambda: one parameter binder plus a body.
type Abs struct {
	Ann     token.SourceAnn
	Binder  Binder
	Body    Expr
}

func (e *Abs) Annotation() token.SourceAnn { return e.Ann }
func (e *Abs) exprNode()                   {}

type App struct {
	Ann  token.SourceAnn
	Func Expr
	Arg  Expr
}

func (e *App) Annotation() token.SourceAnn { return e.Ann }
func (e *App) exprNode()                   {}

type Var struct {
	Ann  token.SourceAnn
	Name names.QualifiedIdent
}

func (e *Var) Annotation() token.SourceAnn { return e.Ann }
func (e *Var) exprNode()                   {}

type Constructor struct {
	Ann  token.SourceAnn
	Name names.Qualified[names.ConstructorName]
}

func (e *Constructor) Annotation() token.SourceAnn { return e.Ann }
func (e *Constructor) exprNode()                   {}

type IfThenElse struct {
	Ann  token.SourceAnn
	Cond Expr
	Then Expr
	Else Expr
}

func (e *IfThenElse) Annotation() token.SourceAnn { return e.Ann }
func (e *IfThenElse) exprNode()                   {}

type Case struct {
	Ann          token.SourceAnn
	Scrutinees   []Expr
	Alternatives []CaseAlternative
}

func (e *Case) Annotation() token.SourceAnn { return e.Ann }
func (e *Case) exprNode()                   {}

// TypedValue is `(value :: type)`, possibly marked as not needing
// re-checking (spec.md §4.E step 3: the generated accessor's TypedValue
// is marked this way so the type checker doesn't wrap it in an extra
// lambda).
type TypedValue struct {
	Ann     token.SourceAnn
	Checked bool
	Value   Expr
	Type    typesystem.Type
}

func (e *TypedValue) Annotation() token.SourceAnn { return e.Ann }
func (e *TypedValue) exprNode()                   {}

type Let struct {
	Ann   token.SourceAnn
	Decls []Declaration
	Body  Expr
}

func (e *Let) Annotation() token.SourceAnn { return e.Ann }
func (e *Let) exprNode()                   {}

type Do struct {
	Ann      token.SourceAnn
	Elements []DoNotationElement
}

func (e *Do) Annotation() token.SourceAnn { return e.Ann }
func (e *Do) exprNode()                   {}

// TypeClassDictionary is a placeholder the type checker (out of scope)
// resolves to a concrete dictionary; this pass never constructs one
// directly but must traverse through it (it can appear nested in externs
// or re-desugared input, per §8 P6).
type TypeClassDictionary struct {
	Ann        token.SourceAnn
	Constraint typesystem.Constraint
}

func (e *TypeClassDictionary) Annotation() token.SourceAnn { return e.Ann }
func (e *TypeClassDictionary) exprNode()                   {}

// SuperclassDictionary references the Index'th superclass of Class,
// applied to Args.
type SuperclassDictionary struct {
	Ann   token.SourceAnn
	Class names.QualifiedClassName
	Args  []typesystem.Type
	Index int
}

func (e *SuperclassDictionary) Annotation() token.SourceAnn { return e.Ann }
func (e *SuperclassDictionary) exprNode()                   {}

// TypeClassDictionaryAccessor is the body of every generated member
// accessor (§4.E step 3): projects Member out of whatever dictionary it
// is applied to.
type TypeClassDictionaryAccessor struct {
	Ann    token.SourceAnn
	Class  names.QualifiedClassName
	Member names.Ident
}

func (e *TypeClassDictionaryAccessor) Annotation() token.SourceAnn { return e.Ann }
func (e *TypeClassDictionaryAccessor) exprNode()                   {}

// TypeClassDictionaryConstructorApp wraps the record literal an instance
// builds into a tagged dictionary value for Class (§4.F step 9).
type TypeClassDictionaryConstructorApp struct {
	Ann   token.SourceAnn
	Class names.QualifiedClassName
	Expr  Expr
}

func (e *TypeClassDictionaryConstructorApp) Annotation() token.SourceAnn { return e.Ann }
func (e *TypeClassDictionaryConstructorApp) exprNode()                   {}

// DeferredDictionary names a dictionary to be resolved later (used inside
// superclass thunks, §4.F step 7) rather than constructing one eagerly,
// since the target instance may not exist yet in this module's
// declaration order.
type DeferredDictionary struct {
	Ann   token.SourceAnn
	Class names.QualifiedClassName
	Args  []typesystem.Type
}

func (e *DeferredDictionary) Annotation() token.SourceAnn { return e.Ann }
func (e *DeferredDictionary) exprNode()                   {}

// PositionedValue is a pass-through wrapper carrying comments alongside an
// expression.
type PositionedValue struct {
	Ann   token.SourceAnn
	Value Expr
}

func (e *PositionedValue) Annotation() token.SourceAnn { return e.Ann }
func (e *PositionedValue) exprNode()                   {}
