package parser

// TokenKind classifies a lexical token.
type TokenKind int

const (
	// TokenEOF marks the end of input.
	TokenEOF TokenKind = iota
	// TokenIdent is an identifier or keyword.
	TokenIdent
	// TokenPrivateName is a `#name` class private name.
	TokenPrivateName
	// TokenPunct is an operator or delimiter.
	TokenPunct
	// TokenAt is the decorator sigil.
	TokenAt
	// TokenString is a single- or double-quoted string literal.
	TokenString
	// TokenTemplate is a template literal including any substitutions.
	TokenTemplate
	// TokenNumber is a numeric literal.
	TokenNumber
	// TokenRegexp is a regular expression literal.
	TokenRegexp
	// TokenLineComment is a `//` comment up to the end of the line.
	TokenLineComment
	// TokenBlockComment is a `/* */` comment.
	TokenBlockComment
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "Identifier"
	case TokenPrivateName:
		return "PrivateName"
	case TokenPunct:
		return "Punctuator"
	case TokenAt:
		return "At"
	case TokenString:
		return "String"
	case TokenTemplate:
		return "Template"
	case TokenNumber:
		return "Numeric"
	case TokenRegexp:
		return "RegularExpression"
	case TokenLineComment:
		return "Line"
	case TokenBlockComment:
		return "Block"
	default:
		return "Unknown"
	}
}

// Token is a lexical token with its source range.
type Token struct {
	Kind TokenKind
	Text string
	Span Span
	Loc  Loc
}

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Kind == TokenLineComment || t.Kind == TokenBlockComment
}

// Is reports whether the token is the punctuator or identifier text.
func (t Token) Is(text string) bool {
	return (t.Kind == TokenPunct || t.Kind == TokenIdent) && t.Text == text
}
