package position

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/parser"
)

// ErrUnsupportedDecorator is returned for decorator expressions that are
// neither a plain reference nor a call, such as `@a.b` or `@(x)`.
var ErrUnsupportedDecorator = errors.New("unsupported decorator expression")

// form is a classified decorator expression. A call whose callee is not a
// plain identifier, `@a.b()`, has no name and matches no rule.
type form struct {
	name  string // As written, empty when unnamed.
	key   string // NFC-normalized name for matching.
	call  bool
	arity int
}

func classify(d *parser.Decorator) (form, error) {
	switch e := d.Expression.(type) {
	case *parser.Identifier:
		return form{name: e.Name, key: norm.NFC.String(e.Name)}, nil
	case *parser.Call:
		if id, ok := e.Callee.(*parser.Identifier); ok {
			return form{name: id.Name, key: norm.NFC.String(id.Name), call: true, arity: e.Args}, nil
		}
		return form{call: true, arity: e.Args}, nil
	}
	return form{}, fmt.Errorf("%w: %s at %s", ErrUnsupportedDecorator, d.Expression.Type(), d.Loc.Start)
}

// Placement describes a decorator against one rule.
type Placement struct {
	SameLine       bool // Expression ends on the key's line.
	MultiLine      bool // Expression spans several lines.
	ArityMatches   bool
	NeedsTransform bool
}

func place(decl *parser.Declaration, f form, r Rule) Placement {
	loc := decl.Decorators[0].Expression.Location()
	p := Placement{
		SameLine:     loc.End.Line == decl.Key.Loc.Start.Line,
		MultiLine:    loc.MultiLine(),
		ArityMatches: r.WithArgs == nil || *r.WithArgs == f.call,
	}

	satisfied := (r.Intent == SameLine) == p.SameLine
	p.NeedsTransform = p.ArityMatches && !satisfied

	// A multi-line decorator cannot be collapsed onto the key's line.
	if r.Intent == SameLine && p.MultiLine {
		p.NeedsTransform = false
	}
	return p
}

// Directive is a required move of a declaration's decorator.
type Directive struct {
	Intent      Intent
	Declaration *parser.Declaration
	Name        string // Decorator name as written, without the sigil.
}

// Resolve decides which transforms the declaration's single decorator
// needs. Overrides naming the decorator are evaluated first, prefer-inline
// then above, and each one that fails yields its own directive. When any
// override names the decorator the kind default is not consulted, even if
// no override's arity matched.
func Resolve(decl *parser.Declaration, s Settings) ([]Directive, error) {
	if len(decl.Decorators) != 1 {
		return nil, nil
	}

	f, err := classify(decl.Decorators[0])
	if err != nil {
		return nil, err
	}
	if f.name == "" {
		return nil, nil
	}

	var directives []Directive
	named := false
	for _, b := range s.buckets() {
		for _, entry := range b.entries {
			r, ok := Canonicalize(entry, b.intent)
			if !ok || r.Name != f.key {
				continue
			}
			named = true
			if place(decl, f, r).NeedsTransform {
				directives = append(directives, Directive{Intent: r.Intent, Declaration: decl, Name: f.name})
			}
		}
	}
	if named {
		return directives, nil
	}

	r := Rule{Name: f.key, Intent: s.KindIntent(decl.Kind)}
	if place(decl, f, r).NeedsTransform {
		directives = append(directives, Directive{Intent: r.Intent, Declaration: decl, Name: f.name})
	}
	return directives, nil
}
