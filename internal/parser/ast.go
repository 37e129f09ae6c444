// Package parser scans JavaScript and TypeScript source for decorated class
// members and produces a token stream plus declaration nodes.
package parser

import "fmt"

// Span is a half-open byte range [Start, End) into the source.
type Span struct {
	Start uint32
	End   uint32
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte. A zero-length
// span overlaps a non-empty span that strictly contains its position.
func (s Span) Overlaps(other Span) bool {
	if s.Len() == 0 && other.Len() == 0 {
		return s.Start == other.Start
	}
	if s.Len() == 0 {
		return other.Start < s.Start && s.Start < other.End
	}
	if other.Len() == 0 {
		return s.Start < other.Start && other.Start < s.End
	}
	return s.Start < other.End && other.Start < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Pos is a source position: 1-indexed line, 0-indexed column counted in runes.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column+1)
}

// Loc is the start and end position of a node or token.
type Loc struct {
	Start Pos
	End   Pos
}

// MultiLine reports whether the location spans more than one line.
func (l Loc) MultiLine() bool {
	return l.Start.Line != l.End.Line
}

// Kind distinguishes property-like from method-like class members.
type Kind int

const (
	// KindProperty is a class field (`foo = 1;`, `foo;`, `accessor foo`).
	KindProperty Kind = iota
	// KindMethod is a method, getter or setter.
	KindMethod
)

func (k Kind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	default:
		return "unknown"
	}
}

// Declaration is a class member carrying one or more decorators.
type Declaration struct {
	Kind       Kind
	Decorators []*Decorator
	Key        Key
	Span       Span // First decorator through the end of the key.
	Loc        Loc
}

// Key is the decorated member name.
type Key struct {
	Name string
	Span Span
	Loc  Loc
}

// Decorator is a single `@expression` annotation. Span and Loc include the
// sigil; the expression carries its own location without it.
type Decorator struct {
	Expression Expression
	Span       Span
	Loc        Loc
}

// Expression is the expression following a decorator sigil. The set of
// implementations is closed: *Identifier, *Call, *Member and *Parenthesized.
type Expression interface {
	// Type names the expression form, e.g. "Identifier" or "CallExpression".
	Type() string
	// Location returns the source location of the expression.
	Location() Loc
	// Range returns the byte span of the expression.
	Range() Span
}

type exprBase struct {
	Span Span
	Loc  Loc
}

// Location returns the source location of the expression.
func (e exprBase) Location() Loc { return e.Loc }

// Range returns the byte span of the expression.
func (e exprBase) Range() Span { return e.Span }

// Identifier is a plain reference such as `tracked`.
type Identifier struct {
	exprBase
	Name string
}

// Type returns "Identifier".
func (*Identifier) Type() string { return "Identifier" }

// Call is a call such as `computed('a', 'b')`.
type Call struct {
	exprBase
	Callee Expression
	Args   int
}

// Type returns "CallExpression".
func (*Call) Type() string { return "CallExpression" }

// Member is a property access such as `service.inject`.
type Member struct {
	exprBase
	Object   Expression
	Property string
}

// Type returns "MemberExpression".
func (*Member) Type() string { return "MemberExpression" }

// Parenthesized is an arbitrary expression in parentheses, `@(expr)`.
type Parenthesized struct {
	exprBase
}

// Type returns "ParenthesizedExpression".
func (*Parenthesized) Type() string { return "ParenthesizedExpression" }
