package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apidocs/mcp-server/internal/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RankEndpointsInput defines input for rank_endpoints tool
type RankEndpointsInput struct {
	Query      string `json:"query" jsonschema:"Natural language query such as 'cancel an order'"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum results to return (default 10 and max 50)"`
}

// RankedEndpoint is a relevance-scored match.
type RankedEndpoint struct {
	Method  string  `json:"method"`
	Path    string  `json:"path"`
	Tag     string  `json:"tag"`
	Summary string  `json:"summary"`
	Score   float64 `json:"score"`
}

// RankEndpointsOutput defines output for rank_endpoints tool
type RankEndpointsOutput struct {
	Query     string           `json:"query"`
	TotalHits int              `json:"total_hits"`
	Results   []RankedEndpoint `json:"results"`
}

// RankEndpoints returns the endpoints most relevant to a free-text query,
// best first.
func (s *Service) RankEndpoints(ctx context.Context, req *mcp.CallToolRequest, input RankEndpointsInput) (*mcp.CallToolResult, RankEndpointsOutput, error) {
	if s.ranker == nil {
		return nil, RankEndpointsOutput{}, errors.New("ranked search is not available")
	}
	if strings.TrimSpace(input.Query) == "" {
		return nil, RankEndpointsOutput{}, errors.New("query is required")
	}

	size := input.MaxResults
	if size <= 0 {
		size = s.cfg.RankLimit
	}
	if size > config.MaxRankLimit {
		size = config.MaxRankLimit
	}

	hits, total, err := s.ranker.Rank(input.Query, size)
	if err != nil {
		return nil, RankEndpointsOutput{}, fmt.Errorf("ranked search failed: %w", err)
	}

	results := make([]RankedEndpoint, 0, len(hits))
	for _, h := range hits {
		results = append(results, RankedEndpoint{
			Method:  h.Endpoint.Method,
			Path:    h.Endpoint.Path,
			Tag:     h.Endpoint.Tag,
			Summary: h.Endpoint.Summary,
			Score:   h.Score,
		})
	}

	return nil, RankEndpointsOutput{
		Query:     input.Query,
		TotalHits: total,
		Results:   results,
	}, nil
}

// RegisterRankTools registers rank_endpoints when a ranker is available.
func (s *Service) RegisterRankTools(server *mcp.Server) int {
	if s.ranker == nil {
		return 0
	}

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "rank_endpoints",
			Description: "Full-text search across all endpoints ordered by relevance. Unlike search_endpoints it matches individual words of the query. Use it when you do not know the exact wording used in the documentation.",
		},
		s.RankEndpoints,
	)
	return 1
}
