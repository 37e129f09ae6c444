package runner

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/linter"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/parser"
)

// printer renders reports as
//
//	path:line:col: message (rule)
//	    source line
//	    ^
type printer struct {
	w io.Writer

	path  *color.Color
	pos   *color.Color
	rule  *color.Color
	caret *color.Color
	total *color.Color
}

func newPrinter(w io.Writer, enabled bool) *printer {
	p := &printer{
		w:     w,
		path:  color.New(color.Bold),
		pos:   color.New(color.FgCyan),
		rule:  color.New(color.Faint),
		caret: color.New(color.FgRed, color.Bold),
		total: color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.path, p.pos, p.rule, p.caret, p.total} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// report prints r against src, the text its position refers to.
func (p *printer) report(path, src string, r linter.Report) {
	fmt.Fprintf(p.w, "%s:%s: %s %s\n",
		p.path.Sprint(path), p.pos.Sprint(r.Pos), r.Message, p.rule.Sprintf("(%s)", r.Rule))

	line := parser.Line(src, r.Pos.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(p.w, "    %s\n    %s%s\n", line, caretPrefix(line, r.Pos.Column), p.caret.Sprint("^"))
}

func (p *printer) summary(problems, fixable int) {
	noun := "problems"
	if problems == 1 {
		noun = "problem"
	}
	fmt.Fprintf(p.w, "\n%s\n", p.total.Sprintf("%d %s (%d fixable)", problems, noun, fixable))
}

// caretPrefix returns blank padding covering the first col runes of line.
// Tabs are kept so the caret lines up under tab-indented source.
func caretPrefix(line string, col int) string {
	var b strings.Builder
	for i, r := range []rune(line) {
		if i >= col {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
