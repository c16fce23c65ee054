// Package diagnostics is the error taxonomy of spec.md §7, in the
// teacher's phase/code/template shape (internal/diagnostics in the
// mcgru-funxy snapshot of this teacher's lineage).
package diagnostics

import (
	"fmt"

	"github.com/classlang/tcdesugar/internal/token"
)

// Phase names the stage an error came from. The desugaring pass only ever
// raises PhaseDesugar, but the type stays general so a caller stitching
// this pass into a real pipeline can wrap lexer/parser/resolver errors in
// the same shape.
type Phase string

const (
	PhaseLexer      Phase = "lexer"
	PhaseParser     Phase = "parser"
	PhaseResolver   Phase = "resolver"
	PhaseDesugar    Phase = "desugar"
	PhaseTypechecker Phase = "typechecker"
)

type ErrorCode string

const (
	ErrUnknownName             ErrorCode = "D001" // instance references an unknown class
	ErrMissingClassMember      ErrorCode = "D002" // instance lacks a required member
	ErrExtraneousClassMember   ErrorCode = "D003" // instance defines a non-member ident
	ErrOverlappingNamesInLet   ErrorCode = "D004" // member dependency graph has a cycle
	ErrErrorInInstance         ErrorCode = "D005" // hint wrapping another error
	ErrInternal                ErrorCode = "D999" // violated compiler invariant
)

var errorTemplates = map[ErrorCode]string{
	ErrUnknownName:           "unknown class %s",
	ErrMissingClassMember:    "missing class member %q",
	ErrExtraneousClassMember: "extraneous class member %q",
	ErrOverlappingNamesInLet: "overlapping names in let: %s",
	ErrErrorInInstance:       "error in instance %s %s:\n  %s",
	ErrInternal:              "internal error: %s",
}

// DesugarError is the concrete error type the pass raises. It satisfies
// the standard `error` interface and also unwraps to an underlying cause
// when one was wrapped via ErrorInInstance, so %w-style inspection works.
type DesugarError struct {
	Code  ErrorCode
	Phase Phase
	Args  []any
	Span  token.SourceSpan
	cause error
}

func (e *DesugarError) Error() string {
	template, ok := errorTemplates[e.Code]
	if !ok {
		return fmt.Sprintf("unknown error code: %s", e.Code)
	}
	message := fmt.Sprintf(template, e.Args...)
	if e.Span.Name != "" || e.Span.Start.Line > 0 {
		return fmt.Sprintf("%s [%s] %s: %s", e.Phase, e.Code, e.Span, message)
	}
	return fmt.Sprintf("%s [%s] %s", e.Phase, e.Code, message)
}

func (e *DesugarError) Unwrap() error { return e.cause }

// New builds a desugar-phase error at the given span.
func New(code ErrorCode, span token.SourceSpan, args ...any) *DesugarError {
	return &DesugarError{Code: code, Phase: PhaseDesugar, Args: args, Span: span}
}

// Internal builds an error for a violated compiler invariant — these
// indicate a bug in an earlier pass or in this one, never user error.
func Internal(span token.SourceSpan, message string) *DesugarError {
	return New(ErrInternal, span, message)
}

// InInstance wraps err with the ErrorInInstance hint spec.md §7 requires:
// "Hints are attached by a rethrow wrapper that prepends
// ErrorInInstance(class, tys) to any error raised while desugaring a
// given instance."
func InInstance(className string, tys string, err error) *DesugarError {
	de := New(ErrErrorInInstance, spanOf(err), className, tys, err.Error())
	de.cause = err
	return de
}

func spanOf(err error) token.SourceSpan {
	var de *DesugarError
	if e, ok := err.(*DesugarError); ok {
		de = e
	}
	if de != nil {
		return de.Span
	}
	return token.SourceSpan{}
}

// MultipleErrors collects several DesugarErrors into one error value,
// rendering each on its own line. desugar.Module does not use it: it
// stops at the first failing declaration and returns that error alone.
type MultipleErrors struct {
	Errors []*DesugarError
}

func (m *MultipleErrors) Error() string {
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	s := fmt.Sprintf("%d errors:", len(m.Errors))
	for _, e := range m.Errors {
		s += "\n  " + e.Error()
	}
	return s
}

func (m *MultipleErrors) Add(err *DesugarError) {
	m.Errors = append(m.Errors, err)
}

func (m *MultipleErrors) HasErrors() bool { return len(m.Errors) > 0 }
