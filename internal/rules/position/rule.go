package position

import (
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/config"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/linter"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/parser"
)

// Name identifies the rule in reports.
const Name = "decorator-position"

// DecoratorPosition enforces inline or above placement of a member's single
// decorator.
type DecoratorPosition struct {
	settings Settings
}

// New activates the rule with opts normalized over the defaults.
func New(opts config.DecoratorPosition) *DecoratorPosition {
	return &DecoratorPosition{settings: Normalize(opts)}
}

// Name returns "decorator-position".
func (r *DecoratorPosition) Name() string { return Name }

// Settings returns the normalized configuration the rule runs with.
func (r *DecoratorPosition) Settings() Settings { return r.settings }

// Check reports every transform the declaration needs, each with its fix.
func (r *DecoratorPosition) Check(ctx *linter.Context, decl *parser.Declaration) error {
	directives, err := Resolve(decl, r.settings)
	if err != nil {
		return err
	}
	for _, d := range directives {
		fix, err := Synthesize(ctx.File, d.Declaration, d.Intent)
		if err != nil {
			return err
		}
		ctx.Report(d.Declaration, message(d.Name, d.Intent), fix)
	}
	return nil
}
