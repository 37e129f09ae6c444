// Package position implements the decorator-position rule: it decides whether
// a member's single decorator sits inline or on the line above, and
// synthesizes the whitespace edit that moves it.
package position

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/config"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/parser"
)

// Intent is the placement a rule demands.
type Intent int

const (
	// SameLine places the decorator on the line of the decorated key.
	SameLine Intent = iota
	// DifferentLine places the decorator on the line above the key.
	DifferentLine
)

func (i Intent) String() string {
	switch i {
	case SameLine:
		return config.AlignPreferInline
	case DifferentLine:
		return config.AlignAbove
	default:
		return "unknown"
	}
}

// intentOf maps a config alignment to an Intent, falling back to def for
// unset or unrecognized values.
func intentOf(alignment string, def Intent) Intent {
	switch alignment {
	case config.AlignPreferInline:
		return SameLine
	case config.AlignAbove:
		return DifferentLine
	default:
		return def
	}
}

// Settings is the normalized rule configuration. It is built once per
// activation and only read afterwards.
type Settings struct {
	Properties Intent
	Methods    Intent
	Above      []config.DecoratorEntry
	Inline     []config.DecoratorEntry
}

// Normalize merges user options over the defaults: properties inline,
// methods above, both override buckets empty.
func Normalize(user config.DecoratorPosition) Settings {
	s := Settings{
		Properties: intentOf(user.Properties, SameLine),
		Methods:    intentOf(user.Methods, DifferentLine),
		Above:      []config.DecoratorEntry{},
		Inline:     []config.DecoratorEntry{},
	}
	s.Above = append(s.Above, user.Overrides.Above...)
	s.Inline = append(s.Inline, user.Overrides.PreferInline...)
	return s
}

// KindIntent returns the default intent for a member kind.
func (s Settings) KindIntent(k parser.Kind) Intent {
	if k == parser.KindMethod {
		return s.Methods
	}
	return s.Properties
}

// Config converts the settings back to the config form, with every default
// spelled out.
func (s Settings) Config() config.DecoratorPosition {
	return config.DecoratorPosition{
		Properties: s.Properties.String(),
		Methods:    s.Methods.String(),
		Overrides: config.Overrides{
			Above:        s.Above,
			PreferInline: s.Inline,
		},
	}
}

type bucket struct {
	entries []config.DecoratorEntry
	intent  Intent
}

// buckets lists the override buckets in evaluation order.
func (s Settings) buckets() []bucket {
	return []bucket{
		{entries: s.Inline, intent: SameLine},
		{entries: s.Above, intent: DifferentLine},
	}
}

// Rule is a canonical decorator rule. A nil WithArgs applies regardless of
// arity.
type Rule struct {
	Name     string
	WithArgs *bool
	Intent   Intent
}

// Canonicalize converts an override entry to a Rule for intent. The first
// "@" is stripped from the name, which is then NFC-normalized. It reports
// false for entries without a name.
func Canonicalize(entry config.DecoratorEntry, intent Intent) (Rule, bool) {
	name := canonicalName(entry.Name)
	if name == "" {
		return Rule{}, false
	}
	return Rule{Name: name, WithArgs: entry.WithArgs, Intent: intent}, true
}

func canonicalName(name string) string {
	return norm.NFC.String(strings.Replace(name, "@", "", 1))
}
