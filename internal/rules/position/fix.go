package position

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/linter"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/parser"
)

var errNoTokenAfter = errors.New("no token after decorator")

// Synthesize computes the edit that moves decl's decorator to intent. Only
// the gap between the decorator and the next token is replaced.
//
// For SameLine the gap becomes a single space. A comment in the gap yields a
// nil fix: the gap is not plain whitespace and is left alone.
//
// For DifferentLine the gap, minus its last character, becomes a newline
// plus one space less than the decorator's column, so the kept character
// brings the indentation back to the decorator's column.
func Synthesize(file *parser.File, decl *parser.Declaration, intent Intent) (*linter.Fix, error) {
	dec := decl.Decorators[0]
	next, ok := file.TokenAfter(dec.Span.End, true)
	if !ok {
		return nil, errNoTokenAfter
	}

	if intent == SameLine {
		if next.IsComment() {
			return nil, nil
		}
		return &linter.Fix{
			Span: parser.Span{Start: dec.Span.End, End: next.Span.Start},
			Text: " ",
		}, nil
	}

	padding := strings.Repeat(" ", max(dec.Loc.Start.Column-1, 0))
	if next.Span.Start == dec.Span.End {
		return &linter.Fix{
			Span: parser.Span{Start: dec.Span.End, End: dec.Span.End},
			Text: "\n" + padding + " ",
		}, nil
	}

	_, size := utf8.DecodeLastRuneInString(file.Source[dec.Span.End:next.Span.Start])
	return &linter.Fix{
		Span: parser.Span{Start: dec.Span.End, End: next.Span.Start - uint32(size)},
		Text: "\n" + padding,
	}, nil
}

func message(name string, intent Intent) string {
	if intent == SameLine {
		return "Expected @" + name + " to be inline."
	}
	return "Expected @" + name + " to be on the line above."
}
