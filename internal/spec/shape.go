package spec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v4"
)

// shapeURL only names the in-memory resource; nothing is fetched.
const shapeURL = "https://apidocs.invalid/schemas/document-shape.json"

// shapeSchema is the minimal structure the loader relies on. It is not a
// Swagger/OpenAPI grammar: unknown keys and most value types pass through.
const shapeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["paths"],
  "properties": {
    "paths": {
      "type": "object",
      "additionalProperties": {"type": "object"}
    },
    "tags": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "definitions": {"type": "object"},
    "components": {"type": "object"}
  }
}`

var compileShape = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(shapeSchema), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse shape schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(shapeURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add shape schema: %w", err)
	}
	return compiler.Compile(shapeURL)
})

// maxExpandedNodes bounds the node count of a document with every YAML alias
// replaced by its anchor. Alias-free documents count each node once.
const maxExpandedNodes = 1 << 22

// checkExpansion rejects documents whose aliases expand past
// maxExpandedNodes, and aliases that refer to an enclosing anchor. Each
// distinct node is sized once, so the check is linear in the parsed tree.
func checkExpansion(root *yaml.Node) error {
	sizes := make(map[*yaml.Node]int)

	var size func(n *yaml.Node) (int, error)
	size = func(n *yaml.Node) (int, error) {
		n = deref(n)
		if n == nil {
			return 0, nil
		}
		if s, ok := sizes[n]; ok {
			if s < 0 {
				return 0, fmt.Errorf("%w: alias at line %d refers to an enclosing node", ErrInvalidShape, n.Line)
			}
			return s, nil
		}

		sizes[n] = -1
		total := 1
		for _, c := range n.Content {
			s, err := size(c)
			if err != nil {
				return 0, err
			}
			total += s
			if total > maxExpandedNodes {
				return 0, fmt.Errorf("%w: document expands to more than %d nodes", ErrInvalidShape, maxExpandedNodes)
			}
		}
		sizes[n] = total
		return total, nil
	}

	_, err := size(root)
	return err
}

// checkShape validates the parsed document against shapeSchema.
func checkShape(root *yaml.Node) error {
	schema, err := compileShape()
	if err != nil {
		return err
	}
	if err := schema.Validate(shapeValue(root)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	return nil
}

// shapeValue converts only the keys shapeSchema constrains, and only as deep
// as it looks. Path items and definition tables become empty containers.
func shapeValue(root *yaml.Node) map[string]interface{} {
	v := make(map[string]interface{})
	pairs(root, func(key string, val *yaml.Node) error {
		switch key {
		case "paths":
			if !isMapping(val) {
				v[key] = shallow(val)
				return nil
			}
			byPath := make(map[string]interface{}, len(val.Content)/2)
			pairs(val, func(path string, item *yaml.Node) error {
				byPath[path] = shallow(item)
				return nil
			})
			v[key] = byPath
		case "tags":
			v[key] = toValue(val, 0)
		case "definitions", "components":
			v[key] = shallow(val)
		}
		return nil
	})
	return v
}

// shallow converts n without descending into it.
func shallow(n *yaml.Node) interface{} {
	n = deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		return map[string]interface{}{}
	case yaml.SequenceNode:
		return []interface{}{}
	}
	return toValue(n, 0)
}

// toValue converts a node tree into the plain JSON value model
// (map[string]interface{}, []interface{}, string, float64, bool, nil).
// Mapping keys are always strings, so YAML documents with bare numeric
// response codes still validate.
func toValue(n *yaml.Node, depth int) interface{} {
	n = deref(n)
	if n == nil || depth > maxNesting {
		return nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return toValue(n.Content[0], depth)
	case yaml.MappingNode:
		m := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = toValue(n.Content[i+1], depth+1)
		}
		return m
	case yaml.SequenceNode:
		s := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			s = append(s, toValue(c, depth+1))
		}
		return s
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return n.Value
			}
			return b
		case "!!int", "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return n.Value
			}
			return f
		}
		return n.Value
	}
	return nil
}
