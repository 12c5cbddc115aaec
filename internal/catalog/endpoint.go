// Package catalog flattens a loaded specification into endpoint records and
// answers queries over them.
//
// The index is built once and never mutated. Every query returns a freshly
// allocated slice, so callers may reorder or truncate results freely, but
// the records themselves (and their Parameters/Responses slices) are shared
// and must be treated as read-only.
package catalog

import (
	"strings"

	"github.com/apidocs/mcp-server/internal/spec"
)

// DefaultTag is assigned to operations that declare no tags.
const DefaultTag = "Other"

// surfaceSep joins the fields of the search surface so a term cannot match
// across the boundary of two adjacent fields.
const surfaceSep = "\n"

// Endpoint is one (method, path) operation.
type Endpoint struct {
	Path        string                     `json:"path"`
	Method      string                     `json:"method"`
	Tag         string                     `json:"tag"`
	Summary     string                     `json:"summary"`
	Description string                     `json:"description"`
	OperationID string                     `json:"operationId,omitempty"`
	Parameters  []spec.Parameter           `json:"parameters,omitempty"`
	Responses   []spec.Response            `json:"responses,omitempty"`
	Security    []spec.SecurityRequirement `json:"security,omitempty"`
	Deprecated  bool                       `json:"deprecated,omitempty"`

	// surface is the case-folded search text, computed at build time.
	surface string
}

// Key is the identity of an endpoint: "METHOD /path".
func (e Endpoint) Key() string {
	return e.Method + " " + e.Path
}

// Build flattens doc into one record per declared (path, method) pair, in
// path declaration order and then method declaration order. Methods are
// upper-cased and the first declared tag, or DefaultTag, becomes the
// endpoint's tag.
func Build(doc *spec.Document) []Endpoint {
	n := 0
	for _, pi := range doc.Paths {
		n += len(pi.Operations)
	}

	endpoints := make([]Endpoint, 0, n)
	for _, pi := range doc.Paths {
		for _, op := range pi.Operations {
			ep := Endpoint{
				Path:        pi.Path,
				Method:      strings.ToUpper(op.Method),
				Tag:         primaryTag(op.Tags),
				Summary:     op.Summary,
				Description: op.Description,
				OperationID: op.OperationID,
				Parameters:  op.Parameters,
				Responses:   op.Responses,
				Security:    op.Security,
				Deprecated:  op.Deprecated,
			}
			ep.surface = searchSurface(ep)
			endpoints = append(endpoints, ep)
		}
	}
	return endpoints
}

func primaryTag(tags []string) string {
	if len(tags) == 0 || tags[0] == "" {
		return DefaultTag
	}
	return tags[0]
}

// searchSurface is the folded concatenation of every field a keyword search
// looks at: path, summary, description, operationId, parameter names and
// descriptions, and response descriptions.
func searchSurface(ep Endpoint) string {
	parts := make([]string, 0, 4+2*len(ep.Parameters)+len(ep.Responses))
	parts = append(parts, ep.Path, ep.Summary, ep.Description, ep.OperationID)
	for _, p := range ep.Parameters {
		parts = append(parts, p.Name, p.Description)
	}
	for _, r := range ep.Responses {
		parts = append(parts, r.Description)
	}
	return fold(strings.Join(parts, surfaceSep))
}
