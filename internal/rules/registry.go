// Package rules manages registration and activation of lint rules.
package rules

import (
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/config"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/linter"
)

// Factory builds a rule from the loaded configuration.
type Factory func(cfg *config.Config) linter.Rule

type entry struct {
	name    string
	factory Factory
}

var registry []entry

// Register adds a rule factory to the registry.
// Rules are run in the order they are registered.
func Register(name string, factory Factory) {
	registry = append(registry, entry{name: name, factory: factory})
}

// Names returns the registered rule names in execution order.
func Names() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	return names
}

// Activate builds every registered rule once for cfg.
func Activate(cfg *config.Config) []linter.Rule {
	active := make([]linter.Rule, 0, len(registry))
	for _, e := range registry {
		active = append(active, e.factory(cfg))
	}
	return active
}
