package tools

import (
	"github.com/apidocs/mcp-server/internal/catalog"
	"github.com/apidocs/mcp-server/internal/config"
	"github.com/apidocs/mcp-server/internal/expander"
	"github.com/apidocs/mcp-server/internal/fulltext"
	"github.com/apidocs/mcp-server/internal/spec"
)

// Source is the query surface the MCP tools and resources are built on.
type Source interface {
	catalog.Querier
	Definitions() spec.Definitions
	Document() *spec.Document
}

// Service exposes a Source as MCP tools and resources. Every handler is a
// pure read, so one Service can back any number of sessions.
type Service struct {
	src    Source
	ranker *fulltext.Ranker
	cfg    *config.Config
}

// NewService creates a Service. ranker may be nil, in which case
// rank_endpoints is not registered.
func NewService(src Source, ranker *fulltext.Ranker, cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{src: src, ranker: ranker, cfg: cfg}
}

// EndpointSummary is the compact listing form of an endpoint.
type EndpointSummary struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Tag         string `json:"tag"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
}

// ParameterDetail is a parameter with its type expanded.
type ParameterDetail struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Schema      string `json:"schema,omitempty"`
	SchemaRef   string `json:"schema_ref,omitempty"`
}

// ResponseDetail is a response with its schema expanded.
type ResponseDetail struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Schema      string `json:"schema,omitempty"`
	SchemaRef   string `json:"schema_ref,omitempty"`
}

// EndpointDetail is the full form of an endpoint.
type EndpointDetail struct {
	Method      string                     `json:"method"`
	Path        string                     `json:"path"`
	Tag         string                     `json:"tag"`
	Summary     string                     `json:"summary"`
	Description string                     `json:"description"`
	OperationID string                     `json:"operation_id,omitempty"`
	Parameters  []ParameterDetail          `json:"parameters"`
	Responses   []ResponseDetail           `json:"responses"`
	Security    []spec.SecurityRequirement `json:"security,omitempty"`
	Deprecated  bool                       `json:"deprecated"`
}

func summarize(endpoints []catalog.Endpoint, withDescription bool) []EndpointSummary {
	out := make([]EndpointSummary, 0, len(endpoints))
	for _, ep := range endpoints {
		s := EndpointSummary{
			Method:  ep.Method,
			Path:    ep.Path,
			Tag:     ep.Tag,
			Summary: ep.Summary,
		}
		if withDescription {
			s.Description = ep.Description
		}
		out = append(out, s)
	}
	return out
}

func (s *Service) detail(ep catalog.Endpoint) *EndpointDetail {
	defs := s.src.Definitions()

	params := make([]ParameterDetail, 0, len(ep.Parameters))
	for _, p := range ep.Parameters {
		pd := ParameterDetail{
			Name:        p.Name,
			In:          p.In,
			Type:        expander.ShortType(p),
			Required:    p.Required,
			Description: p.Description,
			SchemaRef:   p.SchemaRef(),
		}
		if p.Schema != nil {
			pd.Schema = expander.Expand(p.Schema, defs)
		}
		params = append(params, pd)
	}

	responses := make([]ResponseDetail, 0, len(ep.Responses))
	for _, r := range ep.Responses {
		rd := ResponseDetail{
			Code:        r.Code,
			Description: r.Description,
			SchemaRef:   r.SchemaRef(),
		}
		if r.Schema != nil {
			rd.Schema = expander.Expand(r.Schema, defs)
		}
		responses = append(responses, rd)
	}

	return &EndpointDetail{
		Method:      ep.Method,
		Path:        ep.Path,
		Tag:         ep.Tag,
		Summary:     ep.Summary,
		Description: ep.Description,
		OperationID: ep.OperationID,
		Parameters:  params,
		Responses:   responses,
		Security:    ep.Security,
		Deprecated:  ep.Deprecated,
	}
}

// tagNames lists the declared categories, for not-found hints.
func (s *Service) tagNames() []string {
	tags := s.src.ListTags()
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// ToolNames lists the tools this Service registers, in registration order.
func (s *Service) ToolNames() []string {
	names := []string{"search_endpoints", "get_endpoint_details", "list_categories", "list_endpoints_by_tag"}
	if s.ranker != nil {
		names = append(names, "rank_endpoints")
	}
	return names
}
