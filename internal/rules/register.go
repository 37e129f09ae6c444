package rules

import (
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/config"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/linter"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/rules/position"
)

func init() {
	Register(position.Name, func(cfg *config.Config) linter.Rule {
		return position.New(cfg.DecoratorPosition)
	})
}
