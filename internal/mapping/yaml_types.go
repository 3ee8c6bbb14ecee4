package mapping

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// --- FieldDef YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for FieldDef.
// Accepts either a "doc:/path" string or a mapping.
func (f *FieldDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var ref string

		err := node.Decode(&ref)
		if err != nil {
			return err
		}

		*f = FieldDef{Ref: ref}

		return nil

	case yaml.MappingNode:
		type plain FieldDef

		var def plain

		err := node.Decode(&def)
		if err != nil {
			return err
		}

		*f = FieldDef(def)

		return nil

	default:
		return fmt.Errorf("line %d: expected field string or map, got %v", node.Line, kindName(node.Kind))
	}
}

// DocAndPath splits the field reference into its document id and path.
// An explicit doc or path key wins over the shorthand.
func (f FieldDef) DocAndPath() (string, string) {
	doc, p := splitRef(f.Ref)

	if f.Doc != "" {
		doc = f.Doc
	}

	if f.Path != "" {
		p = f.Path
	}

	return doc, p
}

// splitRef splits "doc:/path" at the first ":/". A reference without a
// document prefix is a bare path.
func splitRef(ref string) (string, string) {
	if i := strings.Index(ref, ":/"); i >= 0 {
		return ref[:i], ref[i+1:]
	}

	return "", ref
}

// --- FieldDefs YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for FieldDefs.
// Accepts:
//   - Single string: "src:/name"
//   - Single map: {field: "src:/name", type: STRING}
//   - Array of strings and maps
func (f *FieldDefs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.MappingNode:
		var def FieldDef

		err := def.UnmarshalYAML(node)
		if err != nil {
			return err
		}

		if def.Ref == "" && node.Kind == yaml.ScalarNode {
			*f = FieldDefs{}
			return nil
		}

		*f = FieldDefs{def}

		return nil

	case yaml.SequenceNode:
		defs := make(FieldDefs, 0, len(node.Content))

		for _, item := range node.Content {
			var def FieldDef

			err := def.UnmarshalYAML(item)
			if err != nil {
				return err
			}

			defs = append(defs, def)
		}

		*f = defs

		return nil

	default:
		return fmt.Errorf("line %d: expected field, map, or array, got %v", node.Line, kindName(node.Kind))
	}
}

// --- ActionDefs YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for ActionDefs.
// Accepts:
//   - Single name: Trim
//   - Array of names and maps: [Trim, {SubString: {startIndex: 0, endIndex: 3}}]
//   - Explicit maps: [{name: Append, parameters: {string: "!"}}]
func (a *ActionDefs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.MappingNode:
		action, err := parseAction(node)
		if err != nil {
			return err
		}

		*a = ActionDefs{action}

		return nil

	case yaml.SequenceNode:
		actions := make(ActionDefs, 0, len(node.Content))

		for _, item := range node.Content {
			action, err := parseAction(item)
			if err != nil {
				return err
			}

			actions = append(actions, action)
		}

		*a = actions

		return nil

	default:
		return fmt.Errorf("line %d: expected action name, map, or array, got %v", node.Line, kindName(node.Kind))
	}
}

// parseAction parses one chain item.
func parseAction(node *yaml.Node) (Action, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string

		err := node.Decode(&name)
		if err != nil {
			return Action{}, err
		}

		if name == "" {
			return Action{}, fmt.Errorf("line %d: empty action name", node.Line)
		}

		return Action{Name: name}, nil

	case yaml.MappingNode:
		if hasKey(node, "name") {
			var action Action

			err := node.Decode(&action)
			if err != nil {
				return Action{}, fmt.Errorf("line %d: invalid action: %w", node.Line, err)
			}

			return action, nil
		}

		return parseActionFromMap(node)

	default:
		return Action{}, fmt.Errorf("line %d: expected action name or map, got %v", node.Line, kindName(node.Kind))
	}
}

// parseActionFromMap parses a single-key mapping like {SubString: {startIndex: 1}}.
func parseActionFromMap(node *yaml.Node) (Action, error) {
	if len(node.Content) != 2 {
		return Action{}, errors.New("expected single key-value map like {SubString: {startIndex: 1}}")
	}

	var action Action

	err := node.Content[0].Decode(&action.Name)
	if err != nil {
		return Action{}, fmt.Errorf("invalid action name: %w", err)
	}

	params := node.Content[1]
	if params.Kind == yaml.ScalarNode && params.Tag == "!!null" {
		return action, nil
	}

	if params.Kind != yaml.MappingNode {
		return Action{}, fmt.Errorf("line %d: parameters of %q must be a map", params.Line, action.Name)
	}

	err = params.Decode(&action.Parameters)
	if err != nil {
		return Action{}, fmt.Errorf("invalid parameters of %q: %w", action.Name, err)
	}

	return action, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}

	return false
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
