package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchEndpointsInput defines input for search_endpoints tool
type SearchEndpointsInput struct {
	Query string `json:"query" jsonschema:"Search term to find in endpoints"`
	Tag   string `json:"tag,omitempty" jsonschema:"Optional: filter by API tag/category"`
}

// SearchEndpointsOutput defines output for search_endpoints tool
type SearchEndpointsOutput struct {
	Query    string            `json:"query"`
	Tag      string            `json:"tag,omitempty"`
	Total    int               `json:"total"`
	Returned int               `json:"returned"`
	Results  []EndpointSummary `json:"results"`
	Message  string            `json:"message"`
}

// SearchEndpoints runs a keyword search and truncates the matches to the
// configured limit. Total always reports the untruncated count.
func (s *Service) SearchEndpoints(ctx context.Context, req *mcp.CallToolRequest, input SearchEndpointsInput) (*mcp.CallToolResult, SearchEndpointsOutput, error) {
	matches, err := s.src.Search(input.Query, input.Tag)
	if err != nil {
		return nil, SearchEndpointsOutput{}, err
	}

	returned := matches
	if len(returned) > s.cfg.SearchLimit {
		returned = returned[:s.cfg.SearchLimit]
	}

	msg := fmt.Sprintf("Found %d endpoints matching %q", len(matches), input.Query)
	if input.Tag != "" {
		msg += " in " + input.Tag
	}
	if len(returned) < len(matches) {
		msg += fmt.Sprintf(" (showing first %d)", len(returned))
	}

	return nil, SearchEndpointsOutput{
		Query:    input.Query,
		Tag:      input.Tag,
		Total:    len(matches),
		Returned: len(returned),
		Results:  summarize(returned, true),
		Message:  msg,
	}, nil
}

// GetEndpointDetailsInput defines input for get_endpoint_details tool
type GetEndpointDetailsInput struct {
	Path   string `json:"path" jsonschema:"The API endpoint path exactly as documented (e.g. /widgets/{id})"`
	Method string `json:"method" jsonschema:"HTTP method such as GET or POST (case-insensitive)"`
}

// GetEndpointDetailsOutput defines output for get_endpoint_details tool
type GetEndpointDetailsOutput struct {
	Found    bool            `json:"found"`
	Message  string          `json:"message,omitempty"`
	Endpoint *EndpointDetail `json:"endpoint,omitempty"`
}

// GetEndpointDetails looks up one endpoint. A miss is a normal result.
func (s *Service) GetEndpointDetails(ctx context.Context, req *mcp.CallToolRequest, input GetEndpointDetailsInput) (*mcp.CallToolResult, GetEndpointDetailsOutput, error) {
	ep, ok := s.src.Get(input.Path, input.Method)
	if !ok {
		return nil, GetEndpointDetailsOutput{
			Found:   false,
			Message: fmt.Sprintf("Endpoint not found: %s %s", strings.ToUpper(input.Method), input.Path),
		}, nil
	}

	return nil, GetEndpointDetailsOutput{
		Found:    true,
		Endpoint: s.detail(ep),
	}, nil
}

// ListCategoriesInput defines input for list_categories tool
type ListCategoriesInput struct {
	// No input needed - returns all categories
}

// CategorySummary is a declared category with its endpoint count.
type CategorySummary struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	EndpointCount int    `json:"endpoint_count"`
}

// ListCategoriesOutput defines output for list_categories tool
type ListCategoriesOutput struct {
	Categories []CategorySummary `json:"categories"`
	Count      int               `json:"count"`
}

// ListCategories returns every declared category in declaration order.
func (s *Service) ListCategories(ctx context.Context, req *mcp.CallToolRequest, input ListCategoriesInput) (*mcp.CallToolResult, ListCategoriesOutput, error) {
	tags := s.src.ListTags()
	categories := make([]CategorySummary, 0, len(tags))
	for _, t := range tags {
		categories = append(categories, CategorySummary{
			Name:          t.Name,
			Description:   t.Description,
			EndpointCount: t.EndpointCount,
		})
	}

	return nil, ListCategoriesOutput{
		Categories: categories,
		Count:      len(categories),
	}, nil
}

// ListEndpointsByTagInput defines input for list_endpoints_by_tag tool
type ListEndpointsByTagInput struct {
	Tag string `json:"tag" jsonschema:"The API tag/category name (case-insensitive)"`
}

// ListEndpointsByTagOutput defines output for list_endpoints_by_tag tool
type ListEndpointsByTagOutput struct {
	Tag           string            `json:"tag"`
	Found         bool              `json:"found"`
	Count         int               `json:"count"`
	Endpoints     []EndpointSummary `json:"endpoints"`
	AvailableTags []string          `json:"available_tags,omitempty"`
	Message       string            `json:"message"`
}

// ListEndpointsByTag lists a category. An unknown or empty category returns
// the declared category names so the caller can correct the request.
func (s *Service) ListEndpointsByTag(ctx context.Context, req *mcp.CallToolRequest, input ListEndpointsByTagInput) (*mcp.CallToolResult, ListEndpointsByTagOutput, error) {
	endpoints := s.src.ListByTag(input.Tag)

	if len(endpoints) == 0 {
		available := s.tagNames()
		return nil, ListEndpointsByTagOutput{
			Tag:           input.Tag,
			Found:         false,
			Endpoints:     []EndpointSummary{},
			AvailableTags: available,
			Message: fmt.Sprintf("No endpoints found for tag %q. Available tags: %s",
				input.Tag, strings.Join(available, ", ")),
		}, nil
	}

	return nil, ListEndpointsByTagOutput{
		Tag:       input.Tag,
		Found:     true,
		Count:     len(endpoints),
		Endpoints: summarize(endpoints, false),
		Message:   fmt.Sprintf("%d endpoints in %s", len(endpoints), input.Tag),
	}, nil
}

// RegisterEndpointTools registers the query tools with the MCP server
func (s *Service) RegisterEndpointTools(server *mcp.Server) int {
	// Tool 1: search_endpoints
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_endpoints",
			Description: fmt.Sprintf("Search API endpoints by keyword (case-insensitive substring). Searches in path, summary, description, operationId, parameter names and descriptions, and response descriptions. Optionally restrict to one category with tag. Returns at most %d results in documentation order; total reports the full match count.", s.cfg.SearchLimit),
		},
		s.SearchEndpoints,
	)

	// Tool 2: get_endpoint_details
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_endpoint_details",
			Description: "Get full details of a specific API endpoint including all parameters, responses, and expanded schemas. The path must match exactly; the method is case-insensitive.",
		},
		s.GetEndpointDetails,
	)

	// Tool 3: list_categories
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_categories",
			Description: "List all API categories (tags) with their descriptions and endpoint counts, in documentation order.",
		},
		s.ListCategories,
	)

	// Tool 4: list_endpoints_by_tag
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_endpoints_by_tag",
			Description: "List all endpoints for a specific API category/tag. If the category has no endpoints the available categories are returned instead.",
		},
		s.ListEndpointsByTag,
	)

	return 4
}
