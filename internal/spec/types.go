package spec

// Document is a loaded API description. It is built once by Load and must be
// treated as read-only afterwards; every slice and map it exposes is shared by
// all readers.
type Document struct {
	Swagger  string   `json:"swagger,omitempty"`
	OpenAPI  string   `json:"openapi,omitempty"`
	Info     Info     `json:"info"`
	Host     string   `json:"host,omitempty"`
	BasePath string   `json:"basePath,omitempty"`
	Servers  []string `json:"servers,omitempty"`

	// Tags are the declared categories, in source order.
	Tags []Tag `json:"tags"`

	// Paths holds every path item in source declaration order.
	Paths []PathItem `json:"paths"`

	// Definitions is the type table that $ref names resolve against
	// (definitions for Swagger 2.0, components.schemas for OpenAPI 3).
	Definitions Definitions `json:"-"`
}

// Info holds the document metadata block.
type Info struct {
	Title       string `json:"title,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

// Tag is a declared category.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PathItem groups the operations declared under one path.
type PathItem struct {
	Path       string      `json:"path"`
	Operations []Operation `json:"operations"`
}

// Operation is one method entry of a path item.
type Operation struct {
	// Method is the key as declared in the source (any case).
	Method      string                `json:"method"`
	Tags        []string              `json:"tags,omitempty"`
	Summary     string                `json:"summary,omitempty"`
	Description string                `json:"description,omitempty"`
	OperationID string                `json:"operationId,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty"`
	Responses   []Response            `json:"responses,omitempty"`
	Security    []SecurityRequirement `json:"security,omitempty"`
	Deprecated  bool                  `json:"deprecated,omitempty"`
}

// Parameter is an operation input, in declaration order.
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Type        string  `json:"type,omitempty"`
	Format      string  `json:"format,omitempty"`
	Required    bool    `json:"required"`
	Description string  `json:"description,omitempty"`
	Schema      *Schema `json:"-"`
}

// SchemaRef returns the definition name the parameter schema points at, or "".
func (p Parameter) SchemaRef() string {
	return p.Schema.RefName()
}

// Response is one status-code entry of an operation.
type Response struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Schema      *Schema `json:"-"`
}

// SchemaRef returns the definition name the response schema points at, or "".
func (r Response) SchemaRef() string {
	return r.Schema.RefName()
}

// SecurityRequirement maps a security scheme name to its required scopes.
type SecurityRequirement map[string][]string

// Definitions is the named type table.
type Definitions map[string]*Schema

// Lookup returns the named definition.
func (d Definitions) Lookup(name string) (*Schema, bool) {
	s, ok := d[name]
	return s, ok && s != nil
}

// SchemaKind discriminates the Schema variants.
type SchemaKind uint8

const (
	// PrimitiveKind covers scalar types and anything without structure,
	// including schemas that declare no type at all.
	PrimitiveKind SchemaKind = iota
	// ReferenceKind is a $ref into the definitions table.
	ReferenceKind
	// ArrayKind has an element schema in Items (which may be nil).
	ArrayKind
	// ObjectKind has at least one declared property.
	ObjectKind
)

func (k SchemaKind) String() string {
	switch k {
	case ReferenceKind:
		return "reference"
	case ArrayKind:
		return "array"
	case ObjectKind:
		return "object"
	default:
		return "primitive"
	}
}

// Schema is a type description node. Only the field matching Kind is
// meaningful: Ref for references, Items for arrays, Properties for objects,
// Type for primitives.
type Schema struct {
	Kind        SchemaKind
	Type        string
	Format      string
	Ref         string
	RefPath     string
	Items       *Schema
	Properties  []Property
	Description string
}

// Property is a named object field, kept in declaration order.
type Property struct {
	Name   string
	Schema *Schema
}

// RefName returns the referenced definition name for a reference schema.
// It is nil-safe.
func (s *Schema) RefName() string {
	if s == nil || s.Kind != ReferenceKind {
		return ""
	}
	return s.Ref
}
