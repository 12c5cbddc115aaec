package catalog

import (
	"errors"
	"slices"
	"strings"

	"github.com/apidocs/mcp-server/internal/spec"
)

// ErrEmptyTerm is returned by Search for an empty term. Callers wanting
// every endpoint use Endpoints instead.
var ErrEmptyTerm = errors.New("search term must not be empty")

// Querier is the read-only query surface shared by every presenter.
type Querier interface {
	// Search returns endpoints whose search surface contains term,
	// case-insensitively, in index order. A non-empty tag first restricts
	// the candidates to that tag (case-insensitive).
	Search(term, tag string) ([]Endpoint, error)

	// Get returns the endpoint with exactly this path and this method
	// (method compared case-insensitively).
	Get(path, method string) (Endpoint, bool)

	// ListByTag returns the endpoints of a tag (case-insensitive), in index order.
	ListByTag(tag string) []Endpoint

	// ListTags returns one summary per declared category, in declaration order.
	ListTags() []TagSummary

	// Endpoints returns the full index, in index order.
	Endpoints() []Endpoint
}

// TagSummary describes a declared category and how many endpoints carry it.
type TagSummary struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	EndpointCount int    `json:"endpointCount"`
}

// Stats are document-wide counts.
type Stats struct {
	Paths     int `json:"paths"`
	Endpoints int `json:"endpoints"`
	Tags      int `json:"tags"`
}

// Engine answers queries over an immutable endpoint index. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	doc       *spec.Document
	endpoints []Endpoint
	byKey     map[string]int
}

var _ Querier = (*Engine)(nil)

// NewEngine indexes doc.
func NewEngine(doc *spec.Document) *Engine {
	endpoints := Build(doc)

	byKey := make(map[string]int, len(endpoints))
	for i, ep := range endpoints {
		byKey[ep.Key()] = i
	}

	return &Engine{
		doc:       doc,
		endpoints: endpoints,
		byKey:     byKey,
	}
}

// Document returns the specification the engine was built from.
func (e *Engine) Document() *spec.Document {
	return e.doc
}

// Definitions returns the type table used for schema expansion.
func (e *Engine) Definitions() spec.Definitions {
	return e.doc.Definitions
}

func (e *Engine) Search(term, tag string) ([]Endpoint, error) {
	if term == "" {
		return nil, ErrEmptyTerm
	}

	needle := fold(term)
	var wantTag string
	if tag != "" {
		wantTag = fold(tag)
	}

	matches := make([]Endpoint, 0)
	for _, ep := range e.endpoints {
		if tag != "" && fold(ep.Tag) != wantTag {
			continue
		}
		if strings.Contains(ep.surface, needle) {
			matches = append(matches, ep)
		}
	}
	return matches, nil
}

func (e *Engine) Get(path, method string) (Endpoint, bool) {
	i, ok := e.byKey[strings.ToUpper(method)+" "+path]
	if !ok {
		return Endpoint{}, false
	}
	return e.endpoints[i], true
}

func (e *Engine) ListByTag(tag string) []Endpoint {
	want := fold(tag)
	out := make([]Endpoint, 0)
	for _, ep := range e.endpoints {
		if fold(ep.Tag) == want {
			out = append(out, ep)
		}
	}
	return out
}

func (e *Engine) ListTags() []TagSummary {
	counts := make(map[string]int)
	for _, ep := range e.endpoints {
		counts[ep.Tag]++
	}

	out := make([]TagSummary, 0, len(e.doc.Tags))
	for _, t := range e.doc.Tags {
		out = append(out, TagSummary{
			Name:          t.Name,
			Description:   t.Description,
			EndpointCount: counts[t.Name],
		})
	}
	return out
}

func (e *Engine) Endpoints() []Endpoint {
	return slices.Clone(e.endpoints)
}

// Stats returns document-wide counts.
func (e *Engine) Stats() Stats {
	return Stats{
		Paths:     len(e.doc.Paths),
		Endpoints: len(e.endpoints),
		Tags:      len(e.doc.Tags),
	}
}
