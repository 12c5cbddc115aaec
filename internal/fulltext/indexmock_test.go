package fulltext

import (
	"fmt"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
)

// mockIndex is a simple in-memory mock of the Index interface for testing
type mockIndex struct {
	hits        []*search.DocumentMatch
	total       uint64
	searchError error
	closeError  error
	closed      atomic.Bool
	searches    atomic.Int32
}

// newMockIndex returns a mock answering every search with hits
func newMockIndex(hits ...*search.DocumentMatch) *mockIndex {
	return &mockIndex{
		hits:  hits,
		total: uint64(len(hits)),
	}
}

func (m *mockIndex) Search(req *bleve.SearchRequest) (*bleve.SearchResult, error) {
	m.searches.Add(1)
	if m.closed.Load() {
		return nil, fmt.Errorf("index closed")
	}
	if m.searchError != nil {
		return nil, m.searchError
	}

	hits := m.hits
	if req.Size < len(hits) {
		hits = hits[:req.Size]
	}
	return &bleve.SearchResult{
		Request: req,
		Hits:    hits,
		Total:   m.total,
	}, nil
}

func (m *mockIndex) DocCount() (uint64, error) {
	if m.closed.Load() {
		return 0, fmt.Errorf("index closed")
	}
	return m.total, nil
}

func (m *mockIndex) Close() error {
	if m.closed.Load() {
		return fmt.Errorf("already closed")
	}
	m.closed.Store(true)
	return m.closeError
}

// IsClosed returns true if the index has been closed
func (m *mockIndex) IsClosed() bool {
	return m.closed.Load()
}
