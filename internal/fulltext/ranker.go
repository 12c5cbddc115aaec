// Package fulltext provides relevance-ranked endpoint search backed by an
// in-memory bleve index.
//
// It complements catalog.Engine.Search, which is an order-preserving
// substring filter: results here are ordered by score and may match on
// individual words of a multi-word query.
package fulltext

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apidocs/mcp-server/internal/catalog"
	"github.com/blevesearch/bleve/v2"
)

// batchSize is the number of documents submitted per bleve batch.
const batchSize = 100

// ErrClosed is returned by Rank after Close.
var ErrClosed = errors.New("ranked search index is closed")

// document is the indexed form of an endpoint.
type document struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Tag         string `json:"tag"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	OperationID string `json:"operation_id"`
	Parameters  string `json:"parameters"`
	Responses   string `json:"responses"`
}

func toDocument(ep catalog.Endpoint) document {
	params := make([]string, 0, 2*len(ep.Parameters))
	for _, p := range ep.Parameters {
		params = append(params, p.Name, p.Description)
	}
	responses := make([]string, 0, len(ep.Responses))
	for _, r := range ep.Responses {
		responses = append(responses, r.Description)
	}

	return document{
		Method:      ep.Method,
		Path:        ep.Path,
		Tag:         ep.Tag,
		Summary:     ep.Summary,
		Description: ep.Description,
		OperationID: ep.OperationID,
		Parameters:  strings.Join(params, " "),
		Responses:   strings.Join(responses, " "),
	}
}

// Index is the subset of bleve.Index a Ranker reads from. A bleve.Index
// satisfies it directly; tests substitute canned results.
type Index interface {
	Search(req *bleve.SearchRequest) (*bleve.SearchResult, error)
	DocCount() (uint64, error)
	Close() error
}

var _ Index = (bleve.Index)(nil)

// Hit is a ranked match.
type Hit struct {
	Endpoint catalog.Endpoint `json:"endpoint"`
	Score    float64          `json:"score"`
}

// Ranker answers ranked queries. Searches are lock-free; Close waits for
// in-flight searches before closing the index.
type Ranker struct {
	// current holds the active index (nil once closed)
	current atomic.Pointer[Index]

	// wg tracks in-flight searches so Close can wait for them
	wg sync.WaitGroup

	byKey map[string]catalog.Endpoint
}

// Build indexes endpoints into a new in-memory bleve index.
func Build(endpoints []catalog.Endpoint) (*Ranker, error) {
	startTime := time.Now()

	mapping := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := index.NewBatch()
	for i, ep := range endpoints {
		if err := batch.Index(ep.Key(), toDocument(ep)); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to add endpoint %s to batch: %w", ep.Key(), err)
		}

		// Submit batch every batchSize documents
		if (i+1)%batchSize == 0 {
			if err := index.Batch(batch); err != nil {
				index.Close()
				return nil, fmt.Errorf("failed to index batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}

	// Submit remaining
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index final batch: %w", err)
		}
	}

	log.Printf("✓ Ranked search index built (%d endpoints) in %v",
		len(endpoints), time.Since(startTime).Round(time.Millisecond))

	return NewRanker(index, endpoints), nil
}

// NewRanker serves ranked queries from index, mapping hit IDs (endpoint
// keys) back to endpoints.
func NewRanker(index Index, endpoints []catalog.Endpoint) *Ranker {
	r := &Ranker{byKey: make(map[string]catalog.Endpoint, len(endpoints))}
	for _, ep := range endpoints {
		r.byKey[ep.Key()] = ep
	}
	r.current.Store(&index)
	return r
}

// Rank returns up to size endpoints matching query, best first, and the
// total number of matches.
func (r *Ranker) Rank(query string, size int) ([]Hit, int, error) {
	// Track in-flight searches for graceful cleanup (MUST be before Load)
	r.wg.Add(1)
	defer r.wg.Done()

	indexPtr := r.current.Load()
	if indexPtr == nil {
		return nil, 0, ErrClosed
	}
	index := *indexPtr

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = size

	result, err := index.Search(req)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, match := range result.Hits {
		ep, ok := r.byKey[match.ID]
		if !ok {
			continue
		}
		hits = append(hits, Hit{Endpoint: ep, Score: match.Score})
	}
	return hits, int(result.Total), nil
}

// DocCount returns the number of indexed endpoints.
func (r *Ranker) DocCount() (uint64, error) {
	indexPtr := r.current.Load()
	if indexPtr == nil {
		return 0, ErrClosed
	}
	return (*indexPtr).DocCount()
}

// Close waits for in-flight searches and closes the index. It is safe to
// call more than once.
func (r *Ranker) Close() error {
	indexPtr := r.current.Swap(nil)
	if indexPtr == nil {
		return nil
	}

	r.wg.Wait()
	if err := (*indexPtr).Close(); err != nil {
		return fmt.Errorf("failed to close ranked search index: %w", err)
	}
	log.Printf("✓ Ranked search index closed")
	return nil
}
