// Package expander renders schema nodes as human-readable type descriptions,
// resolving definition references on demand.
//
// Definitions may refer to themselves or to each other. Expansion is bounded
// by depth instead of tracking visited names: the same definition can show up
// several times as siblings, and each occurrence is expanded in full until
// MaxDepth is reached, after which references print as their bare name.
package expander

import (
	"strings"

	"github.com/apidocs/mcp-server/internal/spec"
)

// MaxDepth is the depth at which references stop being expanded.
const MaxDepth = 4

// Unknown is printed for schemas without any type information.
const Unknown = "any"

// indentUnit is one level of object field indentation.
const indentUnit = "  "

// Expand describes s, starting at depth 0. It never fails: missing, cyclic
// or malformed input yields a best-effort string.
func Expand(s *spec.Schema, defs spec.Definitions) string {
	return ExpandAt(s, defs, 0)
}

// ExpandAt describes s as if nested depth levels deep. Object fields are
// indented by depth.
func ExpandAt(s *spec.Schema, defs spec.Definitions, depth int) string {
	var b strings.Builder
	write(&b, s, defs, depth)
	return b.String()
}

func write(b *strings.Builder, s *spec.Schema, defs spec.Definitions, depth int) {
	if s == nil {
		b.WriteString(Unknown)
		return
	}

	switch s.Kind {
	case spec.ReferenceKind:
		def, ok := defs.Lookup(s.Ref)
		if !ok || depth >= MaxDepth {
			b.WriteString(s.Ref)
			return
		}
		write(b, def, defs, depth+1)

	case spec.ArrayKind:
		b.WriteString("Array<")
		write(b, s.Items, defs, depth+1)
		b.WriteString(">")

	case spec.ObjectKind:
		indent := strings.Repeat(indentUnit, depth)
		b.WriteString("{\n")
		for _, prop := range s.Properties {
			b.WriteString(indent)
			b.WriteString(indentUnit)
			b.WriteString(prop.Name)
			b.WriteString(": ")
			write(b, prop.Schema, defs, depth+1)
			b.WriteString("\n")
		}
		b.WriteString(indent)
		b.WriteString("}")

	default:
		if s.Type == "" {
			b.WriteString(Unknown)
			return
		}
		b.WriteString(s.Type)
	}
}

// ParameterType is the display type of a parameter: its expanded schema when
// it has one, otherwise its declared type, otherwise "string".
func ParameterType(p spec.Parameter, defs spec.Definitions) string {
	if p.Schema != nil {
		return Expand(p.Schema, defs)
	}
	if p.Type != "" {
		return p.Type
	}
	return "string"
}

// ShortType is the one-word type shown in listings, without expansion:
// the declared type, else the type carried by the schema ("object" for
// references and objects), else "string".
func ShortType(p spec.Parameter) string {
	if p.Type != "" {
		return p.Type
	}
	if p.Schema == nil {
		return "string"
	}
	switch p.Schema.Kind {
	case spec.ArrayKind:
		return "array"
	case spec.PrimitiveKind:
		if p.Schema.Type != "" {
			return p.Schema.Type
		}
	}
	return "object"
}
