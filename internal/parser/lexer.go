package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

// punctuators ordered longest first so the scanner takes the maximal munch.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
}

// regexpKeywords are keywords after which a slash starts a regular expression.
var regexpKeywords = map[string]bool{
	"return":     true,
	"typeof":     true,
	"instanceof": true,
	"in":         true,
	"of":         true,
	"new":        true,
	"delete":     true,
	"void":       true,
	"throw":      true,
	"case":       true,
	"do":         true,
	"else":       true,
	"yield":      true,
	"await":      true,
}

// mark is a saved scanner position.
type mark struct {
	off  int
	line int
	col  int
}

// lexer converts source text into tokens, comments included.
type lexer struct {
	src     string
	off     int
	line    int
	col     int
	tokens  []Token
	lastSig int // Index of the last non-comment token, -1 if none.
}

// Tokenize scans src into tokens. Comments are kept as tokens; whitespace is
// dropped. The result always ends with a TokenEOF.
func Tokenize(src string) ([]Token, error) {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		return nil, fmt.Errorf("source of %d bytes exceeds the addressable range: %w", len(src), err)
	}

	lx := &lexer{src: src, line: 1, lastSig: -1}
	lx.run()
	return lx.tokens, nil
}

func (lx *lexer) run() {
	if strings.HasPrefix(lx.src, "#!") {
		start := lx.mark()
		lx.skipLine()
		lx.emit(TokenLineComment, start)
	}

	for !lx.eof() {
		start := lx.mark()
		c := lx.src[lx.off]
		r, _ := utf8.DecodeRuneInString(lx.src[lx.off:])

		switch {
		case c == '\n' || isSpace(r):
			lx.bump()

		case c == '/' && lx.peek(1) == '/':
			lx.skipLine()
			lx.emit(TokenLineComment, start)

		case c == '/' && lx.peek(1) == '*':
			lx.skipBlockComment()
			lx.emit(TokenBlockComment, start)

		case c == '/' && lx.regexpAllowed():
			lx.scanRegexp()
			lx.emit(TokenRegexp, start)

		case c == '\'' || c == '"':
			lx.scanString(c)
			lx.emit(TokenString, start)

		case c == '`':
			lx.scanTemplate()
			lx.emit(TokenTemplate, start)

		case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
			lx.scanNumber()
			lx.emit(TokenNumber, start)

		case c == '#' && lx.identStartAt(lx.off+1):
			lx.bump()
			lx.scanIdent()
			lx.emit(TokenPrivateName, start)

		case c == '@':
			lx.bump()
			lx.emit(TokenAt, start)

		case isIdentStart(r) || c == '\\':
			lx.scanIdent()
			lx.emit(TokenIdent, start)

		default:
			lx.scanPunct()
			lx.emit(TokenPunct, start)
		}
	}

	lx.emit(TokenEOF, lx.mark())
}

func (lx *lexer) eof() bool {
	return lx.off >= len(lx.src)
}

func (lx *lexer) peek(n int) byte {
	if lx.off+n >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off+n]
}

func (lx *lexer) mark() mark {
	return mark{off: lx.off, line: lx.line, col: lx.col}
}

// bump advances one rune, tracking line and column.
func (lx *lexer) bump() {
	if lx.eof() {
		return
	}
	r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
	lx.off += size
	if r == '\n' {
		lx.line++
		lx.col = 0
		return
	}
	lx.col++
}

func (lx *lexer) emit(kind TokenKind, start mark) {
	// Offsets fit in uint32: Tokenize rejects larger sources.
	tok := Token{
		Kind: kind,
		Text: lx.src[start.off:lx.off],
		Span: Span{Start: uint32(start.off), End: uint32(lx.off)},
		Loc: Loc{
			Start: Pos{Line: start.line, Column: start.col},
			End:   Pos{Line: lx.line, Column: lx.col},
		},
	}
	lx.tokens = append(lx.tokens, tok)
	if !tok.IsComment() {
		lx.lastSig = len(lx.tokens) - 1
	}
}

func (lx *lexer) skipLine() {
	for !lx.eof() && lx.src[lx.off] != '\n' {
		lx.bump()
	}
}

func (lx *lexer) skipBlockComment() {
	lx.bump()
	lx.bump()
	for !lx.eof() {
		if lx.src[lx.off] == '*' && lx.peek(1) == '/' {
			lx.bump()
			lx.bump()
			return
		}
		lx.bump()
	}
}

// regexpAllowed decides whether a slash begins a regular expression by
// looking at the previous significant token.
func (lx *lexer) regexpAllowed() bool {
	if lx.lastSig < 0 {
		return true
	}
	prev := lx.tokens[lx.lastSig]
	switch prev.Kind {
	case TokenPunct:
		return prev.Text != ")" && prev.Text != "]" && prev.Text != "}"
	case TokenIdent:
		return regexpKeywords[prev.Text]
	default:
		return false
	}
}

func (lx *lexer) scanRegexp() {
	lx.bump()
	inClass := false
	for !lx.eof() {
		c := lx.src[lx.off]
		switch {
		case c == '\n':
			return
		case c == '\\':
			lx.bump()
			if !lx.eof() && lx.src[lx.off] != '\n' {
				lx.bump()
			}
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			lx.bump()
			for !lx.eof() && isIdentByte(lx.src[lx.off]) {
				lx.bump()
			}
			return
		}
		lx.bump()
	}
}

// scanString consumes a quoted string. An unterminated string stops at the
// end of the line.
func (lx *lexer) scanString(quote byte) {
	lx.bump()
	for !lx.eof() {
		c := lx.src[lx.off]
		switch c {
		case '\\':
			lx.bump()
			lx.bump()
			continue
		case quote:
			lx.bump()
			return
		case '\n':
			return
		}
		lx.bump()
	}
}

func (lx *lexer) scanTemplate() {
	lx.bump()
	for !lx.eof() {
		c := lx.src[lx.off]
		switch {
		case c == '\\':
			lx.bump()
			lx.bump()
			continue
		case c == '`':
			lx.bump()
			return
		case c == '$' && lx.peek(1) == '{':
			lx.bump()
			lx.bump()
			lx.skipSubstitution()
			continue
		}
		lx.bump()
	}
}

// skipSubstitution consumes the body of a `${ }` up to its closing brace.
func (lx *lexer) skipSubstitution() {
	depth := 1
	for !lx.eof() {
		c := lx.src[lx.off]
		switch {
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				lx.bump()
				return
			}
		case c == '\'' || c == '"':
			lx.scanString(c)
			continue
		case c == '`':
			lx.scanTemplate()
			continue
		case c == '/' && lx.peek(1) == '/':
			lx.skipLine()
			continue
		case c == '/' && lx.peek(1) == '*':
			lx.skipBlockComment()
			continue
		}
		lx.bump()
	}
}

func (lx *lexer) scanNumber() {
	hex := lx.src[lx.off] == '0' && (lx.peek(1) == 'x' || lx.peek(1) == 'X')
	var prev byte
	for !lx.eof() {
		c := lx.src[lx.off]
		exponentSign := (c == '+' || c == '-') && (prev == 'e' || prev == 'E') && !hex
		if !isIdentByte(c) && c != '.' && !exponentSign {
			return
		}
		prev = c
		lx.bump()
	}
}

func (lx *lexer) scanIdent() {
	for !lx.eof() {
		// Unicode escapes (\uXXXX) continue the identifier.
		if lx.src[lx.off] == '\\' {
			lx.bump()
			continue
		}
		r, _ := utf8.DecodeRuneInString(lx.src[lx.off:])
		if !isIdentPart(r) {
			return
		}
		lx.bump()
	}
}

func (lx *lexer) identStartAt(off int) bool {
	if off >= len(lx.src) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(lx.src[off:])
	return isIdentStart(r) || r == '\\'
}

func (lx *lexer) scanPunct() {
	rest := lx.src[lx.off:]
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p) {
			for range len(p) {
				lx.bump()
			}
			return
		}
	}
	lx.bump()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == '\v' ||
		r == 0xFEFF || unicode.IsSpace(r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r) || r == 0x200C || r == 0x200D
}
