// Package linter provides the lint engine, the rule interface and the fix
// applier.
package linter

import (
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/parser"
)

// Rule checks decorated declarations. Rules are applied in registered order.
type Rule interface {
	// Name returns the rule identifier used in reports (e.g., "decorator-position").
	Name() string

	// Check inspects one declaration and reports violations through ctx.
	// Rules must not mutate the declaration. A returned error means the
	// input is outside what the rule understands; it is not a violation.
	Check(ctx *Context, decl *parser.Declaration) error
}

// Fix replaces the bytes covered by Span with Text.
type Fix struct {
	Span parser.Span
	Text string
}

// Report is a single violation, optionally carrying a fix.
type Report struct {
	Rule    string
	Message string
	Pos     parser.Pos  // Start of the reported declaration.
	Span    parser.Span // Range of the reported declaration.
	Fix     *Fix
}

// Fixable reports whether the report carries a fix.
func (r Report) Fixable() bool {
	return r.Fix != nil
}

// Context is passed to a rule for each declaration it checks.
type Context struct {
	File *parser.File

	rule    string
	reports *[]Report
}

// Report records a violation against decl. fix may be nil.
func (c *Context) Report(decl *parser.Declaration, message string, fix *Fix) {
	*c.reports = append(*c.reports, Report{
		Rule:    c.rule,
		Message: message,
		Pos:     decl.Loc.Start,
		Span:    decl.Span,
		Fix:     fix,
	})
}
