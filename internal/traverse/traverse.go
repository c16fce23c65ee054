// Package traverse holds the generic tree-rewriting and tree-folding
// combinators spec.md §4.A requires of every mutually recursive family
// (declarations, expressions, binders, case alternatives, do-notation
// elements): "Each family must support three higher-order operations:
// a total rewrite (bottom-up), a short-circuiting rewrite (top-down,
// may fail), and a monoidal fold." There is no teacher equivalent —
// funvibe-funxy dispatches through a hand-written Visitor interface
// with one Accept method per node instead of combinator functions —
// so this package is new code in the surrounding idiom: exported
// higher-order functions over the same one-struct-per-variant AST,
// using type switches instead of double dispatch.
package traverse

import (
	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// DeclFn, ExprFn and BinderFn are the three total node transforms
// EverywhereOnValues takes, one per family that can itself contain a
// declaration, expression or binder as a direct child.
type DeclFn func(ast.Declaration) ast.Declaration
type ExprFn func(ast.Expr) ast.Expr
type BinderFn func(ast.Binder) ast.Binder

// EverywhereOnValues returns a (declaration, expression, binder) triple
// of functions that rewrite a whole tree bottom-up: children are
// rewritten first, the rebuilt node is then passed through f/g/h.
// Case alternatives and do-notation elements are rewritten structurally
// using the same three functions — they carry no data of their own
// that f/g/h wouldn't already see via their binder/expr/decl fields.
func EverywhereOnValues(f DeclFn, g ExprFn, h BinderFn) (
	onDecl func(ast.Declaration) ast.Declaration,
	onExpr func(ast.Expr) ast.Expr,
	onBinder func(ast.Binder) ast.Binder,
) {
	r := &rewriter{f: f, g: g, h: h}
	return r.decl, r.expr, r.binder
}

type rewriter struct {
	f DeclFn
	g ExprFn
	h BinderFn
}

func (r *rewriter) decl(d ast.Declaration) ast.Declaration {
	switch n := d.(type) {
	case *ast.DataBindingGroupDeclaration:
		decls := make([]*ast.DataDeclaration, len(n.Decls))
		for i, dd := range n.Decls {
			decls[i] = asDataDecl(r.decl(dd), dd)
		}
		return r.f(&ast.DataBindingGroupDeclaration{Ann: n.Ann, Decls: decls})
	case *ast.ValueDeclaration:
		binders := make([]ast.Binder, len(n.Binders))
		for i, b := range n.Binders {
			binders[i] = r.binder(b)
		}
		bodies := make([]ast.GuardedExpr, len(n.Bodies))
		for i, body := range n.Bodies {
			guards := make([]ast.Expr, len(body.Guards))
			for j, guard := range body.Guards {
				guards[j] = r.expr(guard)
			}
			bodies[i] = ast.GuardedExpr{Guards: guards, Expr: r.expr(body.Expr)}
		}
		return r.f(&ast.ValueDeclaration{
			Ann: n.Ann, Ident: n.Ident, Visibility: n.Visibility,
			Binders: binders, Bodies: bodies,
		})
	case *ast.BindingGroupDeclaration:
		decls := make([]*ast.ValueDeclaration, len(n.Decls))
		for i, vd := range n.Decls {
			decls[i] = asValueDecl(r.decl(vd), vd)
		}
		return r.f(&ast.BindingGroupDeclaration{Ann: n.Ann, Decls: decls})
	case *ast.TypeClassDeclaration:
		members := make([]*ast.TypeDeclaration, len(n.Members))
		for i, m := range n.Members {
			members[i] = asTypeDecl(r.decl(m), m)
		}
		return r.f(&ast.TypeClassDeclaration{
			Ann: n.Ann, Name: n.Name, Args: n.Args,
			Superclasses: n.Superclasses, Deps: n.Deps, Members: members,
		})
	case *ast.TypeInstanceDeclaration:
		body := n.Body
		switch b := n.Body.(type) {
		case ast.ExplicitInstance:
			decls := make([]ast.Declaration, len(b.Decls))
			for i, dd := range b.Decls {
				decls[i] = r.decl(dd)
			}
			body = ast.ExplicitInstance{Decls: decls}
		case ast.NewtypeInstanceWithDictionary:
			body = ast.NewtypeInstanceWithDictionary{Dict: r.expr(b.Dict)}
		}
		return r.f(&ast.TypeInstanceDeclaration{
			Ann: n.Ann, Name: n.Name, Constraints: n.Constraints,
			Class: n.Class, Types: n.Types, Body: body,
		})
	case *ast.PositionedDeclaration:
		return r.f(&ast.PositionedDeclaration{Ann: n.Ann, Decl: r.decl(n.Decl)})
	default:
		return r.f(d)
	}
}

func (r *rewriter) expr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.ArrayLiteral:
		values := make([]ast.Expr, len(n.Values))
		for i, v := range n.Values {
			values[i] = r.expr(v)
		}
		return r.g(&ast.ArrayLiteral{Ann: n.Ann, Values: values})
	case *ast.ObjectLiteral:
		fields := make([]ast.ObjectField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = ast.ObjectField{Label: f.Label, Value: r.expr(f.Value)}
		}
		return r.g(&ast.ObjectLiteral{Ann: n.Ann, Fields: fields})
	case *ast.UnaryMinus:
		return r.g(&ast.UnaryMinus{Ann: n.Ann, Value: r.expr(n.Value)})
	case *ast.BinaryNoParens:
		return r.g(&ast.BinaryNoParens{Ann: n.Ann, Op: r.expr(n.Op), Left: r.expr(n.Left), Right: r.expr(n.Right)})
	case *ast.Parens:
		return r.g(&ast.Parens{Ann: n.Ann, Value: r.expr(n.Value)})
	case *ast.Accessor:
		return r.g(&ast.Accessor{Ann: n.Ann, Label: n.Label, Value: r.expr(n.Value)})
	case *ast.ObjectUpdate:
		updates := make([]ast.ObjectField, len(n.Updates))
		for i, u := range n.Updates {
			updates[i] = ast.ObjectField{Label: u.Label, Value: r.expr(u.Value)}
		}
		return r.g(&ast.ObjectUpdate{Ann: n.Ann, Object: r.expr(n.Object), Updates: updates})
	case *ast.Abs:
		return r.g(&ast.Abs{Ann: n.Ann, Binder: r.binder(n.Binder), Body: r.expr(n.Body)})
	case *ast.App:
		return r.g(&ast.App{Ann: n.Ann, Func: r.expr(n.Func), Arg: r.expr(n.Arg)})
	case *ast.IfThenElse:
		return r.g(&ast.IfThenElse{Ann: n.Ann, Cond: r.expr(n.Cond), Then: r.expr(n.Then), Else: r.expr(n.Else)})
	case *ast.Case:
		scrutinees := make([]ast.Expr, len(n.Scrutinees))
		for i, s := range n.Scrutinees {
			scrutinees[i] = r.expr(s)
		}
		alts := make([]ast.CaseAlternative, len(n.Alternatives))
		for i, a := range n.Alternatives {
			alts[i] = r.caseAlt(a)
		}
		return r.g(&ast.Case{Ann: n.Ann, Scrutinees: scrutinees, Alternatives: alts})
	case *ast.TypedValue:
		return r.g(&ast.TypedValue{Ann: n.Ann, Checked: n.Checked, Value: r.expr(n.Value), Type: n.Type})
	case *ast.Let:
		decls := make([]ast.Declaration, len(n.Decls))
		for i, d := range n.Decls {
			decls[i] = r.decl(d)
		}
		return r.g(&ast.Let{Ann: n.Ann, Decls: decls, Body: r.expr(n.Body)})
	case *ast.Do:
		elements := make([]ast.DoNotationElement, len(n.Elements))
		for i, el := range n.Elements {
			elements[i] = r.doElem(el)
		}
		return r.g(&ast.Do{Ann: n.Ann, Elements: elements})
	case *ast.TypeClassDictionaryConstructorApp:
		return r.g(&ast.TypeClassDictionaryConstructorApp{Ann: n.Ann, Class: n.Class, Expr: r.expr(n.Expr)})
	case *ast.PositionedValue:
		return r.g(&ast.PositionedValue{Ann: n.Ann, Value: r.expr(n.Value)})
	default:
		return r.g(e)
	}
}

func (r *rewriter) binder(b ast.Binder) ast.Binder {
	switch n := b.(type) {
	case *ast.ConstructorBinder:
		args := make([]ast.Binder, len(n.Args))
		for i, a := range n.Args {
			args[i] = r.binder(a)
		}
		return r.h(&ast.ConstructorBinder{Ann: n.Ann, Name: n.Name, Args: args})
	case *ast.ObjectBinder:
		fields := make([]ast.ObjectBinderField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = ast.ObjectBinderField{Label: f.Label, Binder: r.binder(f.Binder)}
		}
		return r.h(&ast.ObjectBinder{Ann: n.Ann, Fields: fields})
	case *ast.ArrayBinder:
		values := make([]ast.Binder, len(n.Values))
		for i, v := range n.Values {
			values[i] = r.binder(v)
		}
		return r.h(&ast.ArrayBinder{Ann: n.Ann, Values: values})
	case *ast.ConsBinder:
		return r.h(&ast.ConsBinder{Ann: n.Ann, Head: r.binder(n.Head), Tail: r.binder(n.Tail)})
	case *ast.NamedBinder:
		return r.h(&ast.NamedBinder{Ann: n.Ann, Name: n.Name, Inner: r.binder(n.Inner)})
	case *ast.PositionedBinder:
		return r.h(&ast.PositionedBinder{Ann: n.Ann, Inner: r.binder(n.Inner)})
	default:
		return r.h(b)
	}
}

func (r *rewriter) caseAlt(a ast.CaseAlternative) ast.CaseAlternative {
	binders := make([]ast.Binder, len(a.Binders))
	for i, b := range a.Binders {
		binders[i] = r.binder(b)
	}
	var guard ast.Expr
	if a.Guard != nil {
		guard = r.expr(a.Guard)
	}
	return ast.CaseAlternative{Binders: binders, Guard: guard, Result: r.expr(a.Result)}
}

func (r *rewriter) doElem(d ast.DoNotationElement) ast.DoNotationElement {
	switch n := d.(type) {
	case *ast.DoNotationValue:
		return &ast.DoNotationValue{Ann: n.Ann, Value: r.expr(n.Value)}
	case *ast.DoNotationBind:
		return &ast.DoNotationBind{Ann: n.Ann, Binder: r.binder(n.Binder), Value: r.expr(n.Value)}
	case *ast.DoNotationLet:
		decls := make([]ast.Declaration, len(n.Decls))
		for i, dd := range n.Decls {
			decls[i] = r.decl(dd)
		}
		return &ast.DoNotationLet{Ann: n.Ann, Decls: decls}
	case *ast.PositionedDoNotationElement:
		return &ast.PositionedDoNotationElement{Ann: n.Ann, Inner: r.doElem(n.Inner)}
	default:
		return d
	}
}

func asDataDecl(d ast.Declaration, fallback *ast.DataDeclaration) *ast.DataDeclaration {
	if dd, ok := d.(*ast.DataDeclaration); ok {
		return dd
	}
	return fallback
}

func asValueDecl(d ast.Declaration, fallback *ast.ValueDeclaration) *ast.ValueDeclaration {
	if vd, ok := d.(*ast.ValueDeclaration); ok {
		return vd
	}
	return fallback
}

func asTypeDecl(d ast.Declaration, fallback *ast.TypeDeclaration) *ast.TypeDeclaration {
	if td, ok := d.(*ast.TypeDeclaration); ok {
		return td
	}
	return fallback
}

// DeclFnM, ExprFnM and BinderFnM are the effectful counterparts used by
// EverywhereOnValuesTopDownM. The only effect this pass ever threads is
// "may fail with one error" (spec.md §7's linear error discipline), so
// the effect is hard-coded to the stdlib error type rather than
// generalized over an arbitrary monad.
type DeclFnM func(ast.Declaration) (ast.Declaration, error)
type ExprFnM func(ast.Expr) (ast.Expr, error)
type BinderFnM func(ast.Binder) (ast.Binder, error)

// EverywhereOnValuesTopDownM is the short-circuiting, top-down sibling
// of EverywhereOnValues: f/g/h run on a node BEFORE its children, and
// the first error anywhere aborts the whole traversal.
func EverywhereOnValuesTopDownM(f DeclFnM, g ExprFnM, h BinderFnM) (
	onDecl func(ast.Declaration) (ast.Declaration, error),
	onExpr func(ast.Expr) (ast.Expr, error),
	onBinder func(ast.Binder) (ast.Binder, error),
) {
	r := &rewriterM{f: f, g: g, h: h}
	return r.decl, r.expr, r.binder
}

type rewriterM struct {
	f DeclFnM
	g ExprFnM
	h BinderFnM
}

func (r *rewriterM) decl(d ast.Declaration) (ast.Declaration, error) {
	top, err := r.f(d)
	if err != nil {
		return nil, err
	}
	switch n := top.(type) {
	case *ast.DataBindingGroupDeclaration:
		decls := make([]*ast.DataDeclaration, len(n.Decls))
		for i, dd := range n.Decls {
			rewritten, err := r.decl(dd)
			if err != nil {
				return nil, err
			}
			decls[i] = asDataDecl(rewritten, dd)
		}
		return &ast.DataBindingGroupDeclaration{Ann: n.Ann, Decls: decls}, nil
	case *ast.ValueDeclaration:
		binders := make([]ast.Binder, len(n.Binders))
		for i, b := range n.Binders {
			rewritten, err := r.binder(b)
			if err != nil {
				return nil, err
			}
			binders[i] = rewritten
		}
		bodies := make([]ast.GuardedExpr, len(n.Bodies))
		for i, body := range n.Bodies {
			guards := make([]ast.Expr, len(body.Guards))
			for j, guard := range body.Guards {
				rewritten, err := r.expr(guard)
				if err != nil {
					return nil, err
				}
				guards[j] = rewritten
			}
			rhs, err := r.expr(body.Expr)
			if err != nil {
				return nil, err
			}
			bodies[i] = ast.GuardedExpr{Guards: guards, Expr: rhs}
		}
		return &ast.ValueDeclaration{Ann: n.Ann, Ident: n.Ident, Visibility: n.Visibility, Binders: binders, Bodies: bodies}, nil
	case *ast.BindingGroupDeclaration:
		decls := make([]*ast.ValueDeclaration, len(n.Decls))
		for i, vd := range n.Decls {
			rewritten, err := r.decl(vd)
			if err != nil {
				return nil, err
			}
			decls[i] = asValueDecl(rewritten, vd)
		}
		return &ast.BindingGroupDeclaration{Ann: n.Ann, Decls: decls}, nil
	case *ast.TypeClassDeclaration:
		members := make([]*ast.TypeDeclaration, len(n.Members))
		for i, m := range n.Members {
			rewritten, err := r.decl(m)
			if err != nil {
				return nil, err
			}
			members[i] = asTypeDecl(rewritten, m)
		}
		return &ast.TypeClassDeclaration{Ann: n.Ann, Name: n.Name, Args: n.Args, Superclasses: n.Superclasses, Deps: n.Deps, Members: members}, nil
	case *ast.TypeInstanceDeclaration:
		body := n.Body
		switch b := n.Body.(type) {
		case ast.ExplicitInstance:
			decls := make([]ast.Declaration, len(b.Decls))
			for i, dd := range b.Decls {
				rewritten, err := r.decl(dd)
				if err != nil {
					return nil, err
				}
				decls[i] = rewritten
			}
			body = ast.ExplicitInstance{Decls: decls}
		case ast.NewtypeInstanceWithDictionary:
			rewritten, err := r.expr(b.Dict)
			if err != nil {
				return nil, err
			}
			body = ast.NewtypeInstanceWithDictionary{Dict: rewritten}
		}
		return &ast.TypeInstanceDeclaration{Ann: n.Ann, Name: n.Name, Constraints: n.Constraints, Class: n.Class, Types: n.Types, Body: body}, nil
	case *ast.PositionedDeclaration:
		rewritten, err := r.decl(n.Decl)
		if err != nil {
			return nil, err
		}
		return &ast.PositionedDeclaration{Ann: n.Ann, Decl: rewritten}, nil
	default:
		return top, nil
	}
}

func (r *rewriterM) expr(e ast.Expr) (ast.Expr, error) {
	top, err := r.g(e)
	if err != nil {
		return nil, err
	}
	switch n := top.(type) {
	case *ast.ArrayLiteral:
		values := make([]ast.Expr, len(n.Values))
		for i, v := range n.Values {
			rewritten, err := r.expr(v)
			if err != nil {
				return nil, err
			}
			values[i] = rewritten
		}
		return &ast.ArrayLiteral{Ann: n.Ann, Values: values}, nil
	case *ast.ObjectLiteral:
		fields := make([]ast.ObjectField, len(n.Fields))
		for i, f := range n.Fields {
			rewritten, err := r.expr(f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.ObjectField{Label: f.Label, Value: rewritten}
		}
		return &ast.ObjectLiteral{Ann: n.Ann, Fields: fields}, nil
	case *ast.UnaryMinus:
		value, err := r.expr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryMinus{Ann: n.Ann, Value: value}, nil
	case *ast.BinaryNoParens:
		op, err := r.expr(n.Op)
		if err != nil {
			return nil, err
		}
		left, err := r.expr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := r.expr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryNoParens{Ann: n.Ann, Op: op, Left: left, Right: right}, nil
	case *ast.Parens:
		value, err := r.expr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Parens{Ann: n.Ann, Value: value}, nil
	case *ast.Accessor:
		value, err := r.expr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Accessor{Ann: n.Ann, Label: n.Label, Value: value}, nil
	case *ast.ObjectUpdate:
		object, err := r.expr(n.Object)
		if err != nil {
			return nil, err
		}
		updates := make([]ast.ObjectField, len(n.Updates))
		for i, u := range n.Updates {
			rewritten, err := r.expr(u.Value)
			if err != nil {
				return nil, err
			}
			updates[i] = ast.ObjectField{Label: u.Label, Value: rewritten}
		}
		return &ast.ObjectUpdate{Ann: n.Ann, Object: object, Updates: updates}, nil
	case *ast.Abs:
		binder, err := r.binder(n.Binder)
		if err != nil {
			return nil, err
		}
		body, err := r.expr(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Abs{Ann: n.Ann, Binder: binder, Body: body}, nil
	case *ast.App:
		fn, err := r.expr(n.Func)
		if err != nil {
			return nil, err
		}
		arg, err := r.expr(n.Arg)
		if err != nil {
			return nil, err
		}
		return &ast.App{Ann: n.Ann, Func: fn, Arg: arg}, nil
	case *ast.IfThenElse:
		cond, err := r.expr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := r.expr(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := r.expr(n.Else)
		if err != nil {
			return nil, err
		}
		return &ast.IfThenElse{Ann: n.Ann, Cond: cond, Then: then, Else: els}, nil
	case *ast.Case:
		scrutinees := make([]ast.Expr, len(n.Scrutinees))
		for i, s := range n.Scrutinees {
			rewritten, err := r.expr(s)
			if err != nil {
				return nil, err
			}
			scrutinees[i] = rewritten
		}
		alts := make([]ast.CaseAlternative, len(n.Alternatives))
		for i, a := range n.Alternatives {
			rewritten, err := r.caseAlt(a)
			if err != nil {
				return nil, err
			}
			alts[i] = rewritten
		}
		return &ast.Case{Ann: n.Ann, Scrutinees: scrutinees, Alternatives: alts}, nil
	case *ast.TypedValue:
		value, err := r.expr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.TypedValue{Ann: n.Ann, Checked: n.Checked, Value: value, Type: n.Type}, nil
	case *ast.Let:
		decls := make([]ast.Declaration, len(n.Decls))
		for i, d := range n.Decls {
			rewritten, err := r.decl(d)
			if err != nil {
				return nil, err
			}
			decls[i] = rewritten
		}
		body, err := r.expr(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Let{Ann: n.Ann, Decls: decls, Body: body}, nil
	case *ast.Do:
		elements := make([]ast.DoNotationElement, len(n.Elements))
		for i, el := range n.Elements {
			rewritten, err := r.doElem(el)
			if err != nil {
				return nil, err
			}
			elements[i] = rewritten
		}
		return &ast.Do{Ann: n.Ann, Elements: elements}, nil
	case *ast.TypeClassDictionaryConstructorApp:
		inner, err := r.expr(n.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.TypeClassDictionaryConstructorApp{Ann: n.Ann, Class: n.Class, Expr: inner}, nil
	case *ast.PositionedValue:
		value, err := r.expr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.PositionedValue{Ann: n.Ann, Value: value}, nil
	default:
		return top, nil
	}
}

func (r *rewriterM) binder(b ast.Binder) (ast.Binder, error) {
	top, err := r.h(b)
	if err != nil {
		return nil, err
	}
	switch n := top.(type) {
	case *ast.ConstructorBinder:
		args := make([]ast.Binder, len(n.Args))
		for i, a := range n.Args {
			rewritten, err := r.binder(a)
			if err != nil {
				return nil, err
			}
			args[i] = rewritten
		}
		return &ast.ConstructorBinder{Ann: n.Ann, Name: n.Name, Args: args}, nil
	case *ast.ObjectBinder:
		fields := make([]ast.ObjectBinderField, len(n.Fields))
		for i, f := range n.Fields {
			rewritten, err := r.binder(f.Binder)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.ObjectBinderField{Label: f.Label, Binder: rewritten}
		}
		return &ast.ObjectBinder{Ann: n.Ann, Fields: fields}, nil
	case *ast.ArrayBinder:
		values := make([]ast.Binder, len(n.Values))
		for i, v := range n.Values {
			rewritten, err := r.binder(v)
			if err != nil {
				return nil, err
			}
			values[i] = rewritten
		}
		return &ast.ArrayBinder{Ann: n.Ann, Values: values}, nil
	case *ast.ConsBinder:
		head, err := r.binder(n.Head)
		if err != nil {
			return nil, err
		}
		tail, err := r.binder(n.Tail)
		if err != nil {
			return nil, err
		}
		return &ast.ConsBinder{Ann: n.Ann, Head: head, Tail: tail}, nil
	case *ast.NamedBinder:
		inner, err := r.binder(n.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.NamedBinder{Ann: n.Ann, Name: n.Name, Inner: inner}, nil
	case *ast.PositionedBinder:
		inner, err := r.binder(n.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.PositionedBinder{Ann: n.Ann, Inner: inner}, nil
	default:
		return top, nil
	}
}

func (r *rewriterM) caseAlt(a ast.CaseAlternative) (ast.CaseAlternative, error) {
	binders := make([]ast.Binder, len(a.Binders))
	for i, b := range a.Binders {
		rewritten, err := r.binder(b)
		if err != nil {
			return ast.CaseAlternative{}, err
		}
		binders[i] = rewritten
	}
	var guard ast.Expr
	if a.Guard != nil {
		rewritten, err := r.expr(a.Guard)
		if err != nil {
			return ast.CaseAlternative{}, err
		}
		guard = rewritten
	}
	result, err := r.expr(a.Result)
	if err != nil {
		return ast.CaseAlternative{}, err
	}
	return ast.CaseAlternative{Binders: binders, Guard: guard, Result: result}, nil
}

func (r *rewriterM) doElem(d ast.DoNotationElement) (ast.DoNotationElement, error) {
	switch n := d.(type) {
	case *ast.DoNotationValue:
		value, err := r.expr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.DoNotationValue{Ann: n.Ann, Value: value}, nil
	case *ast.DoNotationBind:
		binder, err := r.binder(n.Binder)
		if err != nil {
			return nil, err
		}
		value, err := r.expr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.DoNotationBind{Ann: n.Ann, Binder: binder, Value: value}, nil
	case *ast.DoNotationLet:
		decls := make([]ast.Declaration, len(n.Decls))
		for i, dd := range n.Decls {
			rewritten, err := r.decl(dd)
			if err != nil {
				return nil, err
			}
			decls[i] = rewritten
		}
		return &ast.DoNotationLet{Ann: n.Ann, Decls: decls}, nil
	case *ast.PositionedDoNotationElement:
		inner, err := r.doElem(n.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.PositionedDoNotationElement{Ann: n.Ann, Inner: inner}, nil
	default:
		return d, nil
	}
}

// Fold bundles the combiner and the five per-family contribution
// functions EverythingOnValues needs: one each for Declaration, Expr,
// Binder, CaseAlternative and DoNotationElement, since a fold (unlike
// a rewrite) needs a contribution from visiting a case alternative or
// do-notation element in its own right, not just from its children.
type Fold[R any] struct {
	Combine func(R, R) R
	Decl    func(ast.Declaration) R
	Expr    func(ast.Expr) R
	Binder  func(ast.Binder) R
	Case    func(ast.CaseAlternative) R
	DoElem  func(ast.DoNotationElement) R
}

// EverythingOnValues returns a (declaration, expression, binder,
// case-alternative, do-element) quintuple of fold functions. Each
// folds its own contribution together with every child's contribution
// via Combine, in source order.
func EverythingOnValues[R any](fold Fold[R]) (
	onDecl func(ast.Declaration) R,
	onExpr func(ast.Expr) R,
	onBinder func(ast.Binder) R,
	onCase func(ast.CaseAlternative) R,
	onDoElem func(ast.DoNotationElement) R,
) {
	w := &folder[R]{fold: fold}
	return w.decl, w.expr, w.binder, w.caseAlt, w.doElem
}

type folder[R any] struct {
	fold Fold[R]
}

func (w *folder[R]) decl(d ast.Declaration) R {
	acc := w.fold.Decl(d)
	switch n := d.(type) {
	case *ast.DataBindingGroupDeclaration:
		for _, dd := range n.Decls {
			acc = w.fold.Combine(acc, w.decl(dd))
		}
	case *ast.ValueDeclaration:
		for _, b := range n.Binders {
			acc = w.fold.Combine(acc, w.binder(b))
		}
		for _, body := range n.Bodies {
			for _, g := range body.Guards {
				acc = w.fold.Combine(acc, w.expr(g))
			}
			acc = w.fold.Combine(acc, w.expr(body.Expr))
		}
	case *ast.BindingGroupDeclaration:
		for _, vd := range n.Decls {
			acc = w.fold.Combine(acc, w.decl(vd))
		}
	case *ast.TypeClassDeclaration:
		for _, m := range n.Members {
			acc = w.fold.Combine(acc, w.decl(m))
		}
	case *ast.TypeInstanceDeclaration:
		switch b := n.Body.(type) {
		case ast.ExplicitInstance:
			for _, dd := range b.Decls {
				acc = w.fold.Combine(acc, w.decl(dd))
			}
		case ast.NewtypeInstanceWithDictionary:
			acc = w.fold.Combine(acc, w.expr(b.Dict))
		}
	case *ast.PositionedDeclaration:
		acc = w.fold.Combine(acc, w.decl(n.Decl))
	}
	return acc
}

func (w *folder[R]) expr(e ast.Expr) R {
	acc := w.fold.Expr(e)
	switch n := e.(type) {
	case *ast.ArrayLiteral:
		for _, v := range n.Values {
			acc = w.fold.Combine(acc, w.expr(v))
		}
	case *ast.ObjectLiteral:
		for _, f := range n.Fields {
			acc = w.fold.Combine(acc, w.expr(f.Value))
		}
	case *ast.UnaryMinus:
		acc = w.fold.Combine(acc, w.expr(n.Value))
	case *ast.BinaryNoParens:
		acc = w.fold.Combine(acc, w.expr(n.Op))
		acc = w.fold.Combine(acc, w.expr(n.Left))
		acc = w.fold.Combine(acc, w.expr(n.Right))
	case *ast.Parens:
		acc = w.fold.Combine(acc, w.expr(n.Value))
	case *ast.Accessor:
		acc = w.fold.Combine(acc, w.expr(n.Value))
	case *ast.ObjectUpdate:
		acc = w.fold.Combine(acc, w.expr(n.Object))
		for _, u := range n.Updates {
			acc = w.fold.Combine(acc, w.expr(u.Value))
		}
	case *ast.Abs:
		acc = w.fold.Combine(acc, w.binder(n.Binder))
		acc = w.fold.Combine(acc, w.expr(n.Body))
	case *ast.App:
		acc = w.fold.Combine(acc, w.expr(n.Func))
		acc = w.fold.Combine(acc, w.expr(n.Arg))
	case *ast.IfThenElse:
		acc = w.fold.Combine(acc, w.expr(n.Cond))
		acc = w.fold.Combine(acc, w.expr(n.Then))
		acc = w.fold.Combine(acc, w.expr(n.Else))
	case *ast.Case:
		for _, s := range n.Scrutinees {
			acc = w.fold.Combine(acc, w.expr(s))
		}
		for _, a := range n.Alternatives {
			acc = w.fold.Combine(acc, w.caseAlt(a))
		}
	case *ast.TypedValue:
		acc = w.fold.Combine(acc, w.expr(n.Value))
	case *ast.Let:
		for _, d := range n.Decls {
			acc = w.fold.Combine(acc, w.decl(d))
		}
		acc = w.fold.Combine(acc, w.expr(n.Body))
	case *ast.Do:
		for _, el := range n.Elements {
			acc = w.fold.Combine(acc, w.doElem(el))
		}
	case *ast.TypeClassDictionaryConstructorApp:
		acc = w.fold.Combine(acc, w.expr(n.Expr))
	case *ast.PositionedValue:
		acc = w.fold.Combine(acc, w.expr(n.Value))
	}
	return acc
}

func (w *folder[R]) binder(b ast.Binder) R {
	acc := w.fold.Binder(b)
	switch n := b.(type) {
	case *ast.ConstructorBinder:
		for _, a := range n.Args {
			acc = w.fold.Combine(acc, w.binder(a))
		}
	case *ast.ObjectBinder:
		for _, f := range n.Fields {
			acc = w.fold.Combine(acc, w.binder(f.Binder))
		}
	case *ast.ArrayBinder:
		for _, v := range n.Values {
			acc = w.fold.Combine(acc, w.binder(v))
		}
	case *ast.ConsBinder:
		acc = w.fold.Combine(acc, w.binder(n.Head))
		acc = w.fold.Combine(acc, w.binder(n.Tail))
	case *ast.NamedBinder:
		acc = w.fold.Combine(acc, w.binder(n.Inner))
	case *ast.PositionedBinder:
		acc = w.fold.Combine(acc, w.binder(n.Inner))
	}
	return acc
}

func (w *folder[R]) caseAlt(a ast.CaseAlternative) R {
	acc := w.fold.Case(a)
	for _, b := range a.Binders {
		acc = w.fold.Combine(acc, w.binder(b))
	}
	if a.Guard != nil {
		acc = w.fold.Combine(acc, w.expr(a.Guard))
	}
	acc = w.fold.Combine(acc, w.expr(a.Result))
	return acc
}

func (w *folder[R]) doElem(d ast.DoNotationElement) R {
	acc := w.fold.DoElem(d)
	switch n := d.(type) {
	case *ast.DoNotationValue:
		acc = w.fold.Combine(acc, w.expr(n.Value))
	case *ast.DoNotationBind:
		acc = w.fold.Combine(acc, w.binder(n.Binder))
		acc = w.fold.Combine(acc, w.expr(n.Value))
	case *ast.DoNotationLet:
		for _, dd := range n.Decls {
			acc = w.fold.Combine(acc, w.decl(dd))
		}
	case *ast.PositionedDoNotationElement:
		acc = w.fold.Combine(acc, w.doElem(n.Inner))
	}
	return acc
}

// Pair is the minimal tuple FstM/SndM operate over.
type Pair[A, B any] struct {
	Fst A
	Snd B
}

// FstM lifts an effectful function over a pair's first component,
// leaving the second alone. Mirrors the real compiler's fstM helper
// used throughout its Traversals module for mapping over
// (name, value) pairs where only the value needs rewriting.
func FstM[A, B any](f func(A) (A, error)) func(Pair[A, B]) (Pair[A, B], error) {
	return func(p Pair[A, B]) (Pair[A, B], error) {
		a, err := f(p.Fst)
		if err != nil {
			return Pair[A, B]{}, err
		}
		return Pair[A, B]{Fst: a, Snd: p.Snd}, nil
	}
}

// SndM is FstM's mirror image over the second component.
func SndM[A, B any](f func(B) (B, error)) func(Pair[A, B]) (Pair[A, B], error) {
	return func(p Pair[A, B]) (Pair[A, B], error) {
		b, err := f(p.Snd)
		if err != nil {
			return Pair[A, B]{}, err
		}
		return Pair[A, B]{Fst: p.Fst, Snd: b}, nil
	}
}

// MaybeM lifts an effectful function over an optional value, a nil
// input passing straight through without invoking f. The rewriters in
// this file check the optional CaseAlternative guard inline instead.
func MaybeM[A any](f func(A) (A, error)) func(*A) (*A, error) {
	return func(v *A) (*A, error) {
		if v == nil {
			return nil, nil
		}
		rewritten, err := f(*v)
		if err != nil {
			return nil, err
		}
		return &rewritten, nil
	}
}

// AccumTypes collects every typesystem.Type mentioned anywhere inside
// a declaration: standalone and class-member signatures, data
// constructor fields, type synonyms, foreign imports, instance heads
// and constraints, typed-value annotations, and the argument types
// carried by the dictionary-placeholder expressions this pass
// introduces (TypeClassDictionary, SuperclassDictionary,
// DeferredDictionary). Built directly on EverythingOnValues, the way
// the real compiler's accumTypes is built on everythingWithContextOnValues.
func AccumTypes(d ast.Declaration) []typesystem.Type {
	combine := func(a, b []typesystem.Type) []typesystem.Type { return append(a, b...) }
	onDecl, _, _, _, _ := EverythingOnValues(Fold[[]typesystem.Type]{
		Combine: combine,
		Decl:    declTypes,
		Expr:    exprTypes,
		Binder:  func(ast.Binder) []typesystem.Type { return nil },
		Case:    func(ast.CaseAlternative) []typesystem.Type { return nil },
		DoElem:  func(ast.DoNotationElement) []typesystem.Type { return nil },
	})
	return onDecl(d)
}

func declTypes(d ast.Declaration) []typesystem.Type {
	switch n := d.(type) {
	case *ast.DataDeclaration:
		var types []typesystem.Type
		for _, ctor := range n.Constructors {
			types = append(types, ctor.Fields...)
		}
		return types
	case *ast.TypeSynonymDeclaration:
		return []typesystem.Type{n.Type}
	case *ast.TypeDeclaration:
		return []typesystem.Type{n.Type}
	case *ast.ForeignValueDeclaration:
		return []typesystem.Type{n.Type}
	case *ast.ForeignInstanceDeclaration:
		types := append([]typesystem.Type{}, n.Types...)
		for _, c := range n.Constraints {
			types = append(types, c.Args...)
		}
		return types
	case *ast.TypeInstanceDeclaration:
		types := append([]typesystem.Type{}, n.Types...)
		for _, c := range n.Constraints {
			types = append(types, c.Args...)
		}
		return types
	default:
		return nil
	}
}

func exprTypes(e ast.Expr) []typesystem.Type {
	switch n := e.(type) {
	case *ast.TypedValue:
		return []typesystem.Type{n.Type}
	case *ast.TypeClassDictionary:
		return n.Constraint.Args
	case *ast.SuperclassDictionary:
		return n.Args
	case *ast.DeferredDictionary:
		return n.Args
	default:
		return nil
	}
}
