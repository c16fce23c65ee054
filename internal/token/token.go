// Package token holds the source-position types threaded through the AST.
package token

import "fmt"

// Position is a single point in a source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SourceSpan covers a range of a named input between two Positions.
type SourceSpan struct {
	Name  string
	Start Position
	End   Position
}

func (s SourceSpan) String() string {
	if s.Name == "" {
		return fmt.Sprintf("%s-%s", s.Start, s.End)
	}
	return fmt.Sprintf("%s %s-%s", s.Name, s.Start, s.End)
}

// Generated is the constant span attached to declarations synthesized by
// the pass when no originating SourceAnn can be preserved.
var Generated = SourceSpan{Name: "<generated>"}

// Comment is a single comment attached to a SourceAnn.
type Comment struct {
	Text     string
	IsBlock  bool
	Position Position
}

// SourceAnn is the annotation every declaration and expression carries:
// its span plus any leading comments. Synthesized declarations preserve
// the SourceAnn of the construct they were derived from wherever the
// pass can trace it back, and fall back to Generated otherwise.
type SourceAnn struct {
	Span     SourceSpan
	Comments []Comment
}

// WithoutComments returns ann with comments stripped, used when a
// synthesized declaration should keep the span but not carry forward
// documentation intended for the original declaration.
func (ann SourceAnn) WithoutComments() SourceAnn {
	return SourceAnn{Span: ann.Span}
}

// GeneratedAnn is the SourceAnn used when no original annotation is
// available to preserve (spec.md invariant: "otherwise use a constant
// generated source span").
var GeneratedAnn = SourceAnn{Span: Generated}
