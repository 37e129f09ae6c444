package linter

import (
	"fmt"

	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/parser"
)

// MaxFixPasses bounds the number of parse-check-fix rounds FixLoop runs.
const MaxFixPasses = 10

// Run applies each rule, in order, to every declaration carrying exactly one
// decorator. Declarations with several decorators are not evaluated.
func Run(file *parser.File, rules []Rule) ([]Report, error) {
	var reports []Report
	for _, decl := range file.Declarations {
		if len(decl.Decorators) != 1 {
			continue
		}
		for _, rule := range rules {
			ctx := &Context{File: file, rule: rule.Name(), reports: &reports}
			if err := rule.Check(ctx, decl); err != nil {
				return reports, fmt.Errorf("%s: %s: %w", decl.Loc.Start, rule.Name(), err)
			}
		}
	}
	return reports, nil
}

// Lint parses src and runs rules over it.
func Lint(src string, rules []Rule) ([]Report, error) {
	file, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	return Run(file, rules)
}

// FixResult is the outcome of FixLoop.
type FixResult struct {
	Output  string
	Passes  int      // Passes that applied at least one fix.
	Applied int      // Total fixes applied.
	Reports []Report // Violations left in Output.
}

// FixLoop lints and applies fixes repeatedly until a pass applies nothing or
// MaxFixPasses is reached. Fixes skipped for overlapping get another chance
// on the next pass.
func FixLoop(src string, rules []Rule) (*FixResult, error) {
	res := &FixResult{Output: src}

	for {
		reports, err := Lint(res.Output, rules)
		if err != nil {
			return nil, err
		}
		res.Reports = reports

		if res.Passes == MaxFixPasses {
			return res, nil
		}

		output, stats := ApplyFixes(res.Output, reports)
		if stats.Applied == 0 {
			return res, nil
		}

		res.Output = output
		res.Passes++
		res.Applied += stats.Applied
	}
}
