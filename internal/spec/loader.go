// Package spec loads Swagger 2.0 and OpenAPI 3 documents into an immutable,
// order-preserving in-memory Document.
//
// Documents are parsed through yaml.Node rather than into Go maps so that the
// declaration order of paths, methods, properties, and responses survives
// loading. JSON input is accepted because JSON is valid YAML flow syntax.
package spec

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"
)

var (
	// ErrNotMapping means the payload parsed but its root is not an object.
	ErrNotMapping = errors.New("document root is not an object")

	// ErrMissingPaths means the document has no operations table.
	ErrMissingPaths = errors.New("document has no paths")

	// ErrInvalidShape means the document failed the minimal structure check.
	ErrInvalidShape = errors.New("document has an invalid structure")

	// ErrDuplicateOperation means a (path, method) pair is declared twice.
	ErrDuplicateOperation = errors.New("duplicate operation")
)

// LoadError reports why a document could not be loaded. Callers cannot
// serve queries without a document, so this is fatal at startup.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("failed to load specification: %v", e.Err)
	}
	return fmt.Sprintf("failed to load specification %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// httpMethods are the path item keys that declare operations.
var httpMethods = map[string]bool{
	"get":     true,
	"put":     true,
	"post":    true,
	"delete":  true,
	"options": true,
	"head":    true,
	"patch":   true,
	"trace":   true,
}

// maxRefHops bounds $ref chains between parameters, responses and request bodies.
const maxRefHops = 8

// Load parses a JSON or YAML document.
func Load(data []byte) (*Document, error) {
	return LoadNamed("", data)
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return LoadNamed(path, data)
}

// LoadNamed parses data, using source to label errors.
func LoadNamed(source string, data []byte) (*Document, error) {
	doc, err := parse(data)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return doc, nil
}

func parse(data []byte) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("empty document")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	root := deref(&node)
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = deref(root.Content[0])
	}
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	if child(root, "paths") == nil {
		return nil, ErrMissingPaths
	}
	if err := checkExpansion(root); err != nil {
		return nil, err
	}
	if err := checkShape(root); err != nil {
		return nil, err
	}

	p := &parser{root: root}
	return p.document()
}

// maxNesting bounds schema nesting.
const maxNesting = 128

// parser carries the document root so $refs can be resolved while walking.
type parser struct {
	root  *yaml.Node
	depth int
	// ops holds every "METHOD path" read so far, across repeated path keys.
	ops map[string]bool
}

func (p *parser) document() (*Document, error) {
	root := p.root
	doc := &Document{
		Swagger:  str(child(root, "swagger")),
		OpenAPI:  str(child(root, "openapi")),
		Host:     str(child(root, "host")),
		BasePath: str(child(root, "basePath")),
	}

	if info := child(root, "info"); info != nil {
		doc.Info = Info{
			Title:       str(child(info, "title")),
			Version:     str(child(info, "version")),
			Description: str(child(info, "description")),
		}
	}
	for _, s := range items(child(root, "servers")) {
		if u := str(child(s, "url")); u != "" {
			doc.Servers = append(doc.Servers, u)
		}
	}

	doc.Tags = make([]Tag, 0)
	for _, t := range items(child(root, "tags")) {
		doc.Tags = append(doc.Tags, Tag{
			Name:        str(child(t, "name")),
			Description: str(child(t, "description")),
		})
	}

	doc.Definitions = p.definitions()

	globalSecurity, hasGlobalSecurity := p.security(root)

	// A path key may appear twice in one mapping; its operations merge
	// into the first occurrence.
	p.ops = make(map[string]bool)
	index := make(map[string]int)

	err := pairs(child(root, "paths"), func(path string, item *yaml.Node) error {
		pi, err := p.pathItem(path, item)
		if err != nil {
			return err
		}
		if hasGlobalSecurity {
			for i := range pi.Operations {
				if child(child(item, pi.Operations[i].Method), "security") == nil {
					pi.Operations[i].Security = globalSecurity
				}
			}
		}
		if i, ok := index[path]; ok {
			doc.Paths[i].Operations = append(doc.Paths[i].Operations, pi.Operations...)
			return nil
		}
		index[path] = len(doc.Paths)
		doc.Paths = append(doc.Paths, pi)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// definitions reads the Swagger definitions table, or components.schemas
// for OpenAPI 3 documents.
func (p *parser) definitions() Definitions {
	table := child(p.root, "definitions")
	if table == nil {
		table = child(child(p.root, "components"), "schemas")
	}

	defs := make(Definitions)
	pairs(table, func(name string, val *yaml.Node) error {
		defs[name] = p.schema(val)
		return nil
	})
	return defs
}

func (p *parser) pathItem(path string, item *yaml.Node) (PathItem, error) {
	pi := PathItem{Path: path}

	shared := p.parameters(child(item, "parameters"))
	if p.ops == nil {
		p.ops = make(map[string]bool)
	}

	err := pairs(item, func(key string, val *yaml.Node) error {
		method := strings.ToLower(key)
		if !httpMethods[method] || !isMapping(val) {
			return nil
		}
		id := strings.ToUpper(method) + " " + path
		if p.ops[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateOperation, id)
		}
		p.ops[id] = true

		op := p.operation(key, val)
		op.Parameters = inherit(shared, op.Parameters)
		pi.Operations = append(pi.Operations, op)
		return nil
	})
	return pi, err
}

func (p *parser) operation(method string, n *yaml.Node) Operation {
	op := Operation{
		Method:      method,
		Tags:        stringList(child(n, "tags")),
		Summary:     str(child(n, "summary")),
		Description: str(child(n, "description")),
		OperationID: str(child(n, "operationId")),
		Deprecated:  boolean(child(n, "deprecated")),
		Parameters:  p.parameters(child(n, "parameters")),
	}

	if body := p.requestBody(child(n, "requestBody")); body != nil {
		op.Parameters = append(op.Parameters, *body)
	}

	pairs(child(n, "responses"), func(code string, val *yaml.Node) error {
		op.Responses = append(op.Responses, p.response(code, val))
		return nil
	})

	if sec, ok := p.security(n); ok {
		op.Security = sec
	}
	return op
}

// inherit prepends path-level parameters not overridden by the operation.
func inherit(shared, own []Parameter) []Parameter {
	if len(shared) == 0 {
		return own
	}

	overridden := make(map[string]bool, len(own))
	for _, prm := range own {
		overridden[prm.In+"\x00"+prm.Name] = true
	}

	out := make([]Parameter, 0, len(shared)+len(own))
	for _, prm := range shared {
		if !overridden[prm.In+"\x00"+prm.Name] {
			out = append(out, prm)
		}
	}
	return append(out, own...)
}

func (p *parser) parameters(n *yaml.Node) []Parameter {
	seq := items(n)
	if len(seq) == 0 {
		return nil
	}

	out := make([]Parameter, 0, len(seq))
	for _, raw := range seq {
		pn := p.follow(raw)
		if !isMapping(pn) {
			continue
		}

		prm := Parameter{
			Name:        str(child(pn, "name")),
			In:          str(child(pn, "in")),
			Type:        str(child(pn, "type")),
			Format:      str(child(pn, "format")),
			Required:    boolean(child(pn, "required")),
			Description: str(child(pn, "description")),
		}
		if s := child(pn, "schema"); s != nil {
			prm.Schema = p.schema(s)
		} else if prm.Type == "array" {
			// Swagger 2.0 non-body parameters describe arrays inline.
			prm.Schema = p.schema(pn)
		}
		out = append(out, prm)
	}
	return out
}

// requestBody maps an OpenAPI 3 request body onto a "body" parameter.
func (p *parser) requestBody(n *yaml.Node) *Parameter {
	n = p.follow(n)
	if !isMapping(n) {
		return nil
	}
	return &Parameter{
		Name:        "body",
		In:          "body",
		Required:    boolean(child(n, "required")),
		Description: str(child(n, "description")),
		Schema:      p.mediaSchema(child(n, "content")),
	}
}

func (p *parser) response(code string, n *yaml.Node) Response {
	n = p.follow(n)
	r := Response{
		Code:        code,
		Description: str(child(n, "description")),
	}
	if s := child(n, "schema"); s != nil {
		r.Schema = p.schema(s)
	} else {
		r.Schema = p.mediaSchema(child(n, "content"))
	}
	return r
}

// mediaSchema picks the schema of an OpenAPI 3 content map, preferring JSON.
func (p *parser) mediaSchema(content *yaml.Node) *Schema {
	if content == nil {
		return nil
	}
	if s := child(child(content, "application/json"), "schema"); s != nil {
		return p.schema(s)
	}

	var first *yaml.Node
	pairs(content, func(_ string, media *yaml.Node) error {
		if first == nil {
			first = child(media, "schema")
		}
		return nil
	})
	if first == nil {
		return nil
	}
	return p.schema(first)
}

func (p *parser) security(n *yaml.Node) ([]SecurityRequirement, bool) {
	sec := child(n, "security")
	if sec == nil {
		return nil, false
	}

	reqs := make([]SecurityRequirement, 0, len(sec.Content))
	for _, entry := range items(sec) {
		req := make(SecurityRequirement)
		pairs(entry, func(name string, scopes *yaml.Node) error {
			list := stringList(scopes)
			if list == nil {
				list = []string{}
			}
			req[name] = list
			return nil
		})
		reqs = append(reqs, req)
	}
	return reqs, true
}

// follow resolves local $refs on parameter, response and request body
// objects. Dangling and cyclic references resolve to nil. Schema $refs are
// never followed here; they stay references.
func (p *parser) follow(n *yaml.Node) *yaml.Node {
	for hops := 0; hops < maxRefHops; hops++ {
		ref := str(child(n, "$ref"))
		if ref == "" {
			return n
		}
		n = pointer(p.root, ref)
		if n == nil {
			return nil
		}
	}
	return nil
}

// schema converts a schema node. Its $ref, if any, is kept as a reference
// and resolved lazily by the expander.
func (p *parser) schema(n *yaml.Node) *Schema {
	n = deref(n)
	if !isMapping(n) || p.depth >= maxNesting {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()

	s := &Schema{
		Type:        schemaType(child(n, "type")),
		Format:      str(child(n, "format")),
		Description: str(child(n, "description")),
	}

	if ref := str(child(n, "$ref")); ref != "" {
		s.Kind = ReferenceKind
		s.RefPath = ref
		s.Ref = refName(ref)
		return s
	}

	if s.Type == "array" {
		s.Kind = ArrayKind
		s.Items = p.schema(child(n, "items"))
		return s
	}

	props := child(n, "properties")
	if props != nil && len(props.Content) > 0 && (s.Type == "" || s.Type == "object") {
		s.Kind = ObjectKind
		pairs(props, func(name string, val *yaml.Node) error {
			s.Properties = append(s.Properties, Property{Name: name, Schema: p.schema(val)})
			return nil
		})
		return s
	}

	s.Kind = PrimitiveKind
	return s
}

// schemaType reads "type", accepting the OpenAPI 3.1 list form by taking
// its first non-null entry.
func schemaType(n *yaml.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	for _, t := range stringList(n) {
		if t != "null" {
			return t
		}
	}
	return ""
}
