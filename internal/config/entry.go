package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const withArgsKey = "withArgs"

// DecoratorEntry is a single override: a decorator name, optionally limited
// to decorators that are (withArgs: true) or are not (withArgs: false) calls.
//
// In a config file an entry is either a name string or a one- or two-item
// list: ["@computed"] or ["computed", {withArgs: true}]. A null entry decodes
// to the zero value, which the rule skips.
type DecoratorEntry struct {
	Name     string
	WithArgs *bool
}

// Entry returns a DecoratorEntry for name with no arity qualifier.
func Entry(name string) DecoratorEntry {
	return DecoratorEntry{Name: name}
}

// EntryWithArgs returns a DecoratorEntry for name qualified by withArgs.
func EntryWithArgs(name string, withArgs bool) DecoratorEntry {
	return DecoratorEntry{Name: name, WithArgs: &withArgs}
}

// UnmarshalYAML decodes the string and list forms of an entry.
func (e *DecoratorEntry) UnmarshalYAML(value *yaml.Node) error {
	*e = DecoratorEntry{}

	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() == "!!null" {
			return nil
		}
		if value.ShortTag() != "!!str" {
			return fmt.Errorf("line %d: decorator name must be a string, got %s", value.Line, value.ShortTag())
		}
		e.Name = value.Value
		return nil

	case yaml.SequenceNode:
		n := len(value.Content)
		if n < 1 || n > 2 {
			return fmt.Errorf("line %d: decorator entry must have 1 or 2 items, got %d", value.Line, n)
		}
		name := value.Content[0]
		if name.Kind != yaml.ScalarNode || name.ShortTag() != "!!str" {
			return fmt.Errorf("line %d: decorator name must be a string", name.Line)
		}
		e.Name = name.Value
		if n == 1 {
			return nil
		}
		return e.decodeYAMLOptions(value.Content[1])

	default:
		return fmt.Errorf("line %d: decorator entry must be a string or a list", value.Line)
	}
}

func (e *DecoratorEntry) decodeYAMLOptions(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: decorator options must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Value != withArgsKey {
			return fmt.Errorf("line %d: unknown decorator option %q", key.Line, key.Value)
		}
		var withArgs bool
		if err := val.Decode(&withArgs); err != nil {
			return fmt.Errorf("line %d: %s: %w", val.Line, withArgsKey, err)
		}
		e.WithArgs = &withArgs
	}
	return nil
}

// MarshalYAML encodes the entry in the shortest form that round-trips.
func (e DecoratorEntry) MarshalYAML() (any, error) {
	if e.WithArgs == nil {
		return e.Name, nil
	}
	return []any{e.Name, map[string]bool{withArgsKey: *e.WithArgs}}, nil
}

// UnmarshalTOML decodes the string and array forms of an entry.
func (e *DecoratorEntry) UnmarshalTOML(data any) error {
	*e = DecoratorEntry{}

	switch v := data.(type) {
	case string:
		e.Name = v
		return nil

	case []any:
		if len(v) < 1 || len(v) > 2 {
			return fmt.Errorf("decorator entry must have 1 or 2 items, got %d", len(v))
		}
		name, ok := v[0].(string)
		if !ok {
			return fmt.Errorf("decorator name must be a string, got %T", v[0])
		}
		e.Name = name
		if len(v) == 1 {
			return nil
		}
		opts, ok := v[1].(map[string]any)
		if !ok {
			return fmt.Errorf("decorator %q: options must be a table, got %T", name, v[1])
		}
		for key, val := range opts {
			if key != withArgsKey {
				return fmt.Errorf("decorator %q: unknown option %q", name, key)
			}
			withArgs, ok := val.(bool)
			if !ok {
				return fmt.Errorf("decorator %q: %s must be a boolean, got %T", name, withArgsKey, val)
			}
			e.WithArgs = &withArgs
		}
		return nil

	default:
		return fmt.Errorf("decorator entry must be a string or an array, got %T", data)
	}
}
