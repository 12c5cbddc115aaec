package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/apidocs/mcp-server/internal/catalog"
	"github.com/apidocs/mcp-server/internal/export"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	mimeJSON     = "application/json"
	mimeMarkdown = "text/markdown"
)

func (s *Service) uri(path string) string {
	return s.cfg.URIScheme + "://api/" + path
}

// TagURI is the resource URI listing the endpoints of tag.
func (s *Service) TagURI(tag string) string {
	return s.uri("endpoints/" + url.PathEscape(tag))
}

// Overview is the content of the overview resource.
type Overview struct {
	Title       string          `json:"title"`
	Version     string          `json:"version"`
	Description string          `json:"description,omitempty"`
	Host        string          `json:"host,omitempty"`
	BasePath    string          `json:"basePath,omitempty"`
	Servers     []string        `json:"servers,omitempty"`
	Stats       catalog.Stats   `json:"stats"`
	Groups      []GroupOverview `json:"groups"`
}

// GroupOverview is one tag group in the overview.
type GroupOverview struct {
	Tag      string `json:"tag"`
	Count    int    `json:"count"`
	Resource string `json:"resource,omitempty"`
}

// TagEndpoints is the content of a per-tag resource.
type TagEndpoints struct {
	Tag         string            `json:"tag"`
	Description string            `json:"description,omitempty"`
	Endpoints   []EndpointSummary `json:"endpoints"`
}

func (s *Service) overview() Overview {
	doc := s.src.Document()
	endpoints := s.src.Endpoints()
	tags := s.src.ListTags()

	declared := make(map[string]bool, len(tags))
	for _, t := range tags {
		declared[t.Name] = true
	}

	groups := make([]GroupOverview, 0)
	for _, g := range catalog.GroupByTag(endpoints) {
		ov := GroupOverview{Tag: g.Tag, Count: len(g.Endpoints)}
		if declared[g.Tag] {
			ov.Resource = s.TagURI(g.Tag)
		}
		groups = append(groups, ov)
	}

	return Overview{
		Title:       doc.Info.Title,
		Version:     doc.Info.Version,
		Description: doc.Info.Description,
		Host:        doc.Host,
		BasePath:    doc.BasePath,
		Servers:     doc.Servers,
		Stats: catalog.Stats{
			Paths:     len(doc.Paths),
			Endpoints: len(endpoints),
			Tags:      len(tags),
		},
		Groups: groups,
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: mimeJSON, Text: string(data)},
		},
	}, nil
}

// ReadOverview serves the document summary.
func (s *Service) ReadOverview(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.overview())
}

// ReadTags serves the declared categories with endpoint counts.
func (s *Service) ReadTags(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.src.ListTags())
}

// ReadEndpoints serves every endpoint in index order.
func (s *Service) ReadEndpoints(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, summarize(s.src.Endpoints(), false))
}

// ReadExport serves the full Markdown export.
func (s *Service) ReadExport(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: req.Params.URI, MIMEType: mimeMarkdown, Text: string(export.Markdown(s.src))},
		},
	}, nil
}

func (s *Service) tagReader(tag catalog.TagSummary) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req.Params.URI != s.TagURI(tag.Name) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return jsonResource(req.Params.URI, TagEndpoints{
			Tag:         tag.Name,
			Description: tag.Description,
			Endpoints:   summarize(s.src.ListByTag(tag.Name), false),
		})
	}
}

// RegisterResources registers the overview, navigation and export
// resources plus one resource per declared tag.
func (s *Service) RegisterResources(server *mcp.Server) int {
	title := s.src.Document().Info.Title
	if title == "" {
		title = "API"
	}

	static := []struct {
		resource *mcp.Resource
		handler  mcp.ResourceHandler
	}{
		{
			&mcp.Resource{
				URI:         s.uri("overview"),
				Name:        "overview",
				Description: fmt.Sprintf("Summary of %s: version, servers, counts and tag groups", title),
				MIMEType:    mimeJSON,
			},
			s.ReadOverview,
		},
		{
			&mcp.Resource{
				URI:         s.uri("tags"),
				Name:        "tags",
				Description: "Declared API categories with descriptions and endpoint counts",
				MIMEType:    mimeJSON,
			},
			s.ReadTags,
		},
		{
			&mcp.Resource{
				URI:         s.uri("endpoints"),
				Name:        "endpoints",
				Description: "Every endpoint (method, path, tag, summary) in documentation order",
				MIMEType:    mimeJSON,
			},
			s.ReadEndpoints,
		},
		{
			&mcp.Resource{
				URI:         s.uri("export"),
				Name:        "export",
				Description: "The complete API reference as one Markdown document with expanded schemas",
				MIMEType:    mimeMarkdown,
			},
			s.ReadExport,
		},
	}

	for _, r := range static {
		server.AddResource(r.resource, r.handler)
	}

	tags := s.src.ListTags()
	for _, tag := range tags {
		server.AddResource(&mcp.Resource{
			URI:         s.TagURI(tag.Name),
			Name:        "endpoints-" + tag.Name,
			Description: fmt.Sprintf("Endpoints tagged %s", tag.Name),
			MIMEType:    mimeJSON,
		}, s.tagReader(tag))
	}

	return len(static) + len(tags)
}
