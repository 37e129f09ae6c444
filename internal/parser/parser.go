package parser

import (
	"sort"
	"strings"
)

// memberModifiers are words that may precede a class member key.
var memberModifiers = map[string]bool{
	"static":    true,
	"async":     true,
	"get":       true,
	"set":       true,
	"readonly":  true,
	"public":    true,
	"private":   true,
	"protected": true,
	"declare":   true,
	"override":  true,
	"abstract":  true,
	"accessor":  true,
}

// File is a scanned source file.
type File struct {
	Source       string
	Tokens       []Token // Comments included, TokenEOF last.
	Declarations []*Declaration
}

// Parse tokenizes src and collects every decorated class member in source
// order. Class and parameter decorators are not collected.
func Parse(src string) (*File, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	f := &File{Source: src, Tokens: tokens}
	p := &state{
		file:        f,
		frames:      []frame{{}},
		classBodies: make(map[int]bool),
	}
	for i, t := range tokens {
		if !t.IsComment() {
			p.sig = append(p.sig, i)
		}
	}
	p.parse()

	return f, nil
}

// TokenAfter returns the first token starting at or after offset. Comments
// are skipped unless includeComments is set. The end-of-file token is never
// returned.
func (f *File) TokenAfter(offset uint32, includeComments bool) (Token, bool) {
	i := sort.Search(len(f.Tokens), func(i int) bool {
		return f.Tokens[i].Span.Start >= offset
	})
	for ; i < len(f.Tokens); i++ {
		t := f.Tokens[i]
		if t.Kind == TokenEOF {
			return Token{}, false
		}
		if t.IsComment() && !includeComments {
			continue
		}
		return t, true
	}
	return Token{}, false
}

// Line returns the text of the 1-indexed line without its newline.
func (f *File) Line(n int) string {
	return Line(f.Source, n)
}

// Line returns the text of the 1-indexed line n of src without its newline.
// Out-of-range lines are empty.
func Line(src string, n int) string {
	if n < 1 {
		return ""
	}
	for line := 1; line < n; line++ {
		i := strings.IndexByte(src, '\n')
		if i < 0 {
			return ""
		}
		src = src[i+1:]
	}
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		src = src[:i]
	}
	return strings.TrimSuffix(src, "\r")
}

// frame is an open brace. nest counts open parentheses and brackets inside it.
type frame struct {
	class bool
	nest  int
}

// state tracks parser state across significant tokens.
type state struct {
	file        *File
	sig         []int // Indices of non-comment tokens in file.Tokens.
	i           int
	frames      []frame
	classBodies map[int]bool // Significant-token index of each class body "{".
}

func (p *state) parse() {
	for p.i < len(p.sig) {
		t := p.tok(p.i)

		switch {
		case t.Kind == TokenEOF:
			return

		case t.Kind == TokenIdent && t.Text == "class" && !p.tok(p.i-1).Is("."):
			p.markClassBody(p.i + 1)
			p.i++

		case t.Kind == TokenAt && p.inClassBody():
			p.i = p.member(p.i)

		case t.Is("{"):
			p.frames = append(p.frames, frame{class: p.classBodies[p.i]})
			p.i++

		case t.Is("}"):
			// The root frame is never popped so unbalanced input still parses.
			if len(p.frames) > 1 {
				p.frames = p.frames[:len(p.frames)-1]
			}
			p.i++

		case t.Is("(") || t.Is("["):
			p.top().nest++
			p.i++

		case t.Is(")") || t.Is("]"):
			if p.top().nest > 0 {
				p.top().nest--
			}
			p.i++

		default:
			p.i++
		}
	}
}

// tok returns the i-th significant token. Out-of-range indices yield the
// end-of-file token.
func (p *state) tok(i int) Token {
	if i < 0 {
		return Token{}
	}
	if i >= len(p.sig) {
		return p.file.Tokens[len(p.file.Tokens)-1]
	}
	return p.file.Tokens[p.sig[i]]
}

func (p *state) top() *frame {
	return &p.frames[len(p.frames)-1]
}

func (p *state) inClassBody() bool {
	top := p.top()
	return top.class && top.nest == 0
}

// markClassBody finds the "{" that opens the body of a class whose heritage
// starts at index i. Object keys named class (`{ class: 1 }`) are rejected.
// Type parameters and arguments (`<T extends { a: 1 }>`) nest like brackets
// outside parentheses.
func (p *state) markClassBody(i int) {
	switch t := p.tok(i); {
	case t.Is(":"), t.Is("="), t.Is(","), t.Is(")"), t.Is("("):
		return
	}

	nest, angle := 0, 0
	for k := i; ; k++ {
		t := p.tok(k)
		switch {
		case t.Kind == TokenEOF:
			return
		case t.Is("(") || t.Is("["):
			nest++
		case t.Is(")") || t.Is("]"):
			nest--
		case nest <= 0 && t.Is("<"):
			angle++
		case nest <= 0 && (t.Is(">") || t.Is(">>") || t.Is(">>>")):
			angle = max(angle-len(t.Text), 0)
		case t.Is("{") && nest <= 0 && angle == 0:
			p.classBodies[k] = true
			return
		case (t.Is(";") || t.Is("}")) && nest <= 0 && angle == 0:
			return
		}
	}
}

// member parses a decorated class member starting at the "@" at index i and
// records its declaration. It returns the index to resume scanning from.
func (p *state) member(i int) int {
	var decorators []*Decorator
	for p.tok(i).Kind == TokenAt {
		d, next, ok := p.decorator(i)
		if !ok {
			return next
		}
		decorators = append(decorators, d)
		i = next
	}

	kind := KindProperty
	for {
		t := p.tok(i)
		if t.Is("*") {
			kind = KindMethod
			i++
			continue
		}
		if t.Kind != TokenIdent || !memberModifiers[t.Text] || !startsKey(p.tok(i+1)) {
			break
		}
		if t.Text == "get" || t.Text == "set" {
			kind = KindMethod
		}
		i++
	}

	key, next, ok := p.key(i)
	if !ok {
		return i
	}

	after := p.tok(next)
	if after.Is("?") || after.Is("!") {
		after = p.tok(next + 1)
	}
	if after.Is("(") || after.Is("<") {
		kind = KindMethod
	}

	first := decorators[0]
	p.file.Declarations = append(p.file.Declarations, &Declaration{
		Kind:       kind,
		Decorators: decorators,
		Key:        key,
		Span:       Span{Start: first.Span.Start, End: key.Span.End},
		Loc:        Loc{Start: first.Loc.Start, End: key.Loc.End},
	})

	return next
}

func startsKey(t Token) bool {
	switch t.Kind {
	case TokenIdent, TokenPrivateName, TokenString, TokenNumber:
		return true
	case TokenPunct:
		return t.Text == "[" || t.Text == "*"
	default:
		return false
	}
}

// key parses a member key at index i and returns the index after it.
func (p *state) key(i int) (Key, int, bool) {
	t := p.tok(i)
	switch {
	case t.Kind == TokenIdent || t.Kind == TokenPrivateName || t.Kind == TokenString || t.Kind == TokenNumber:
		return Key{Name: t.Text, Span: t.Span, Loc: t.Loc}, i + 1, true

	case t.Is("["):
		end := p.matching(i)
		if end == i+1 || p.tok(end).Kind == TokenEOF {
			return Key{}, end, false
		}
		first, last := p.tok(i+1), p.tok(end-1)
		span := Span{Start: first.Span.Start, End: last.Span.End}
		return Key{
			Name: p.file.Source[span.Start:span.End],
			Span: span,
			Loc:  Loc{Start: first.Loc.Start, End: last.Loc.End},
		}, end + 1, true

	default:
		return Key{}, i, false
	}
}

// decorator parses `@expression` at index i.
func (p *state) decorator(i int) (*Decorator, int, bool) {
	at := p.tok(i)
	expr, next, ok := p.decoratorExpression(i + 1)
	if !ok {
		return nil, next, false
	}
	return &Decorator{
		Expression: expr,
		Span:       Span{Start: at.Span.Start, End: expr.Range().End},
		Loc:        Loc{Start: at.Loc.Start, End: expr.Location().End},
	}, next, true
}

// decoratorExpression parses an identifier or parenthesized expression
// followed by any chain of member accesses and calls.
func (p *state) decoratorExpression(i int) (Expression, int, bool) {
	t := p.tok(i)

	var expr Expression
	switch {
	case t.Kind == TokenIdent:
		expr = &Identifier{exprBase: exprBase{Span: t.Span, Loc: t.Loc}, Name: t.Text}
		i++
	case t.Is("("):
		end := p.matching(i)
		expr = &Parenthesized{exprBase: extend(t.Span, t.Loc, p.tok(end))}
		i = end + 1
	default:
		return nil, i, false
	}

	for {
		t := p.tok(i)
		prop := p.tok(i + 1)
		switch {
		case t.Is(".") && (prop.Kind == TokenIdent || prop.Kind == TokenPrivateName):
			expr = &Member{
				exprBase: extend(expr.Range(), expr.Location(), prop),
				Object:   expr,
				Property: prop.Text,
			}
			i += 2
		case t.Is("("):
			end := p.matching(i)
			expr = &Call{
				exprBase: extend(expr.Range(), expr.Location(), p.tok(end)),
				Callee:   expr,
				Args:     p.countArgs(i, end),
			}
			i = end + 1
		default:
			return expr, i, true
		}
	}
}

// extend returns an exprBase covering span/loc through the end of last.
func extend(span Span, loc Loc, last Token) exprBase {
	return exprBase{
		Span: Span{Start: span.Start, End: last.Span.End},
		Loc:  Loc{Start: loc.Start, End: last.Loc.End},
	}
}

// matching returns the index of the bracket closing the one at open, or the
// end-of-file index when it is unbalanced.
func (p *state) matching(open int) int {
	depth := 0
	for k := open; ; k++ {
		t := p.tok(k)
		switch {
		case t.Kind == TokenEOF:
			return k
		case t.Is("(") || t.Is("[") || t.Is("{"):
			depth++
		case t.Is(")") || t.Is("]") || t.Is("}"):
			depth--
			if depth == 0 {
				return k
			}
		}
	}
}

// countArgs counts the arguments between the parentheses at open and end.
func (p *state) countArgs(open, end int) int {
	if end <= open+1 {
		return 0
	}

	count := 1
	depth := 0
	for k := open + 1; k < end; k++ {
		t := p.tok(k)
		switch {
		case t.Is("(") || t.Is("[") || t.Is("{"):
			depth++
		case t.Is(")") || t.Is("]") || t.Is("}"):
			depth--
		case t.Is(",") && depth == 0:
			count++
		}
	}
	if p.tok(end - 1).Is(",") {
		count--
	}
	return count
}
