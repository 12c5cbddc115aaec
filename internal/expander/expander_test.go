package expander

import (
	"strings"
	"testing"

	"github.com/apidocs/mcp-server/internal/spec"
	"github.com/stretchr/testify/assert"
)

func prim(t string) *spec.Schema {
	return &spec.Schema{Kind: spec.PrimitiveKind, Type: t}
}

func ref(name string) *spec.Schema {
	return &spec.Schema{Kind: spec.ReferenceKind, Ref: name, RefPath: "#/definitions/" + name}
}

func array(items *spec.Schema) *spec.Schema {
	return &spec.Schema{Kind: spec.ArrayKind, Type: "array", Items: items}
}

func object(props ...spec.Property) *spec.Schema {
	return &spec.Schema{Kind: spec.ObjectKind, Type: "object", Properties: props}
}

func prop(name string, s *spec.Schema) spec.Property {
	return spec.Property{Name: name, Schema: s}
}

func TestExpand(t *testing.T) {
	defs := spec.Definitions{
		"Pet": object(prop("name", prim("string"))),
	}

	tests := []struct {
		name   string
		schema *spec.Schema
		want   string
	}{
		{name: "nil", schema: nil, want: "any"},
		{name: "primitive", schema: prim("integer"), want: "integer"},
		{name: "untyped", schema: &spec.Schema{}, want: "any"},
		{name: "array of primitive", schema: array(prim("string")), want: "Array<string>"},
		{name: "array without items", schema: array(nil), want: "Array<any>"},
		{name: "nested arrays", schema: array(array(prim("number"))), want: "Array<Array<number>>"},
		{name: "missing definition", schema: ref("Ghost"), want: "Ghost"},
		{
			name:   "object",
			schema: object(prop("id", prim("integer")), prop("tags", array(prim("string")))),
			want:   "{\n  id: integer\n  tags: Array<string>\n}",
		},
		{
			name:   "reference",
			schema: ref("Pet"),
			want:   "{\n    name: string\n  }",
		},
		{
			name:   "array of reference",
			schema: array(ref("Pet")),
			want:   "Array<{\n      name: string\n    }>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.schema, defs))
		})
	}
}

func TestExpand_PropertyOrder(t *testing.T) {
	s := object(prop("zeta", prim("string")), prop("alpha", prim("string")), prop("mid", prim("string")))
	out := Expand(s, nil)

	z := strings.Index(out, "zeta")
	a := strings.Index(out, "alpha")
	m := strings.Index(out, "mid")
	assert.True(t, z < a && a < m, "properties must keep declaration order: %q", out)
}

func TestExpand_SelfReferenceTerminates(t *testing.T) {
	defs := spec.Definitions{
		"Node": object(prop("value", prim("string")), prop("next", ref("Node"))),
	}

	want := "{\n" +
		"    value: string\n" +
		"    next: {\n" +
		"        value: string\n" +
		"        next: Node\n" +
		"      }\n" +
		"  }"
	assert.Equal(t, want, Expand(ref("Node"), defs))
}

func TestExpand_MutualReferenceTerminates(t *testing.T) {
	defs := spec.Definitions{
		"A": object(prop("b", ref("B"))),
		"B": object(prop("a", ref("A"))),
	}

	out := Expand(ref("A"), defs)
	assert.Contains(t, out, "a: A")
	assert.NotContains(t, out, "b: B")
}

func TestExpand_SiblingsExpandIndependently(t *testing.T) {
	defs := spec.Definitions{
		"Money": object(prop("amount", prim("number"))),
	}
	s := object(prop("price", ref("Money")), prop("tax", ref("Money")))

	out := Expand(s, defs)
	assert.Equal(t, 2, strings.Count(out, "amount: number"), out)
}

func TestExpandAt_DepthBound(t *testing.T) {
	defs := spec.Definitions{"Pet": object(prop("name", prim("string")))}

	assert.Equal(t, "Pet", ExpandAt(ref("Pet"), defs, MaxDepth))
	assert.Equal(t, "Pet", ExpandAt(ref("Pet"), defs, MaxDepth+3))
	assert.NotEqual(t, "Pet", ExpandAt(ref("Pet"), defs, MaxDepth-1))
}

func TestExpand_DeepChain(t *testing.T) {
	defs := spec.Definitions{
		"L1": object(prop("next", ref("L2"))),
		"L2": object(prop("next", ref("L3"))),
		"L3": object(prop("next", ref("L4"))),
		"L4": object(prop("next", ref("L5"))),
		"L5": object(prop("leaf", prim("string"))),
	}

	out := Expand(ref("L1"), defs)
	assert.Contains(t, out, "next: L3")
	assert.NotContains(t, out, "leaf")
}

func TestParameterType(t *testing.T) {
	defs := spec.Definitions{"Pet": object(prop("name", prim("string")))}

	tests := []struct {
		name  string
		param spec.Parameter
		want  string
		short string
	}{
		{name: "declared type", param: spec.Parameter{Type: "integer"}, want: "integer", short: "integer"},
		{name: "no type", param: spec.Parameter{}, want: "string", short: "string"},
		{name: "body schema", param: spec.Parameter{In: "body", Schema: ref("Pet")}, want: "{\n    name: string\n  }", short: "object"},
		{name: "inline array", param: spec.Parameter{Type: "array", Schema: array(prim("string"))}, want: "Array<string>", short: "array"},
		{name: "primitive schema", param: spec.Parameter{In: "path", Schema: prim("integer")}, want: "integer", short: "integer"},
		{name: "array schema", param: spec.Parameter{In: "query", Schema: array(prim("string"))}, want: "Array<string>", short: "array"},
		{name: "untyped schema", param: spec.Parameter{In: "query", Schema: &spec.Schema{}}, want: "any", short: "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParameterType(tt.param, defs))
			assert.Equal(t, tt.short, ShortType(tt.param))
		})
	}
}
