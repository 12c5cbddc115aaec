package catalog

import (
	"sync"
	"testing"

	"github.com/apidocs/mcp-server/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetsDoc = `{
  "tags": [
    {"name": "Widgets", "description": "Widget management"},
    {"name": "Orders", "description": "Order tracking"},
    {"name": "Reports", "description": "Nothing here yet"}
  ],
  "paths": {
    "/widgets": {
      "get": {"tags": ["Widgets"], "summary": "List widgets", "operationId": "listWidgets",
        "parameters": [{"name": "limit", "in": "query", "description": "Page size"}],
        "responses": {"200": {"description": "Widget page"}}},
      "post": {"tags": ["Widgets", "Orders"], "summary": "Create widget", "responses": {"201": {"description": "Created"}}}
    },
    "/widgets/{id}": {
      "get": {"tags": ["widgets"], "summary": "Get widget", "responses": {"404": {"description": "Gone fishing"}}},
      "post": {"tags": ["Widgets"], "summary": "Update widget"}
    },
    "/orders": {
      "get": {"tags": ["Orders"], "summary": "List orders", "description": "Orders for widget buyers"},
      "delete": {"summary": "Purge orders"}
    }
  }
}`

func loadEngine(t *testing.T, data string) *Engine {
	t.Helper()
	doc, err := spec.Load([]byte(data))
	require.NoError(t, err)
	return NewEngine(doc)
}

func keys(endpoints []Endpoint) []string {
	out := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		out = append(out, ep.Key())
	}
	return out
}

func TestBuild_UntaggedOperations(t *testing.T) {
	e := loadEngine(t, `{"paths": {
		"/a": {"get": {}, "post": {}},
		"/b": {"get": {"tags": []}, "post": {}}
	}}`)

	endpoints := e.Endpoints()
	require.Len(t, endpoints, 4)
	for _, ep := range endpoints {
		assert.Equal(t, DefaultTag, ep.Tag)
	}
	assert.Equal(t, []string{"GET /a", "POST /a", "GET /b", "POST /b"}, keys(endpoints))

	// No declared categories
	assert.Empty(t, e.ListTags())

	declared := loadEngine(t, `{"tags": [{"name": "Other"}], "paths": {
		"/a": {"get": {}, "post": {}},
		"/b": {"get": {}, "post": {}}
	}}`)
	assert.Equal(t, []TagSummary{{Name: "Other", EndpointCount: 4}}, declared.ListTags())
}

func TestBuild_OneRecordPerOperation(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	got := keys(e.Endpoints())
	assert.Equal(t, []string{
		"GET /widgets",
		"POST /widgets",
		"GET /widgets/{id}",
		"POST /widgets/{id}",
		"GET /orders",
		"DELETE /orders",
	}, got)

	seen := make(map[string]bool)
	for _, k := range got {
		assert.False(t, seen[k], "duplicate %s", k)
		seen[k] = true
	}
}

func TestBuild_PrimaryTag(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	ep, ok := e.Get("/widgets", "POST")
	require.True(t, ok)
	assert.Equal(t, "Widgets", ep.Tag, "first declared tag wins")

	ep, ok = e.Get("/orders", "DELETE")
	require.True(t, ok)
	assert.Equal(t, DefaultTag, ep.Tag)
}

func TestGet(t *testing.T) {
	e := loadEngine(t, `{"paths": {"/widgets/{id}": {"get": {"summary": "Get"}, "post": {"summary": "Update"}}}}`)

	ep, ok := e.Get("/widgets/{id}", "get")
	require.True(t, ok)
	assert.Equal(t, "GET", ep.Method)
	assert.Equal(t, "Get", ep.Summary)

	_, ok = e.Get("/widgets/{id}", "delete")
	assert.False(t, ok)

	// Paths are case-sensitive
	_, ok = e.Get("/Widgets/{id}", "GET")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	tests := []struct {
		name string
		term string
		tag  string
		want []string
	}{
		{name: "path", term: "/orders", want: []string{"GET /orders", "DELETE /orders"}},
		{name: "case-insensitive", term: "WIDGET", want: []string{"GET /widgets", "POST /widgets", "GET /widgets/{id}", "POST /widgets/{id}", "GET /orders"}},
		{name: "operationId", term: "listwidgets", want: []string{"GET /widgets"}},
		{name: "parameter description", term: "page size", want: []string{"GET /widgets"}},
		{name: "response description", term: "fishing", want: []string{"GET /widgets/{id}"}},
		{name: "tag filter", term: "widget", tag: "orders", want: []string{"GET /orders"}},
		{name: "tag filter is case-insensitive", term: "get", tag: "WIDGETS", want: []string{"GET /widgets/{id}"}},
		{name: "no match", term: "zebra", want: []string{}},
		{name: "does not span fields", term: "widgetscreate", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Search(tt.term, tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys(got))
		})
	}
}

func TestSearch_EmptyTerm(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	_, err := e.Search("", "")
	assert.ErrorIs(t, err, ErrEmptyTerm)
}

func TestSearch_PreservesIndexOrder(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	position := make(map[string]int)
	for i, ep := range e.Endpoints() {
		position[ep.Key()] = i
	}

	for _, term := range []string{"widget", "list", "o", "/"} {
		got, err := e.Search(term, "")
		require.NoError(t, err)
		for i := 1; i < len(got); i++ {
			assert.Less(t, position[got[i-1].Key()], position[got[i].Key()], "term %q", term)
		}
	}
}

func TestSearch_FilterCommutes(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	for _, tag := range []string{"Widgets", "orders", "Other", "Reports"} {
		for _, term := range []string{"widget", "list", "e"} {
			filtered, err := e.Search(term, tag)
			require.NoError(t, err)

			all, err := e.Search(term, "")
			require.NoError(t, err)
			var thenTag []Endpoint
			for _, ep := range all {
				if fold(ep.Tag) == fold(tag) {
					thenTag = append(thenTag, ep)
				}
			}

			assert.Equal(t, keys(thenTag), keys(filtered), "tag %q term %q", tag, term)
		}
	}
}

func TestListByTag(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	assert.Equal(t,
		[]string{"GET /widgets", "POST /widgets", "GET /widgets/{id}", "POST /widgets/{id}"},
		keys(e.ListByTag("WIDGETS")))
	assert.Equal(t, []string{"DELETE /orders"}, keys(e.ListByTag("other")))
	assert.Empty(t, e.ListByTag("Reports"))
	assert.Empty(t, e.ListByTag("missing"))
}

func TestListTags(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	assert.Equal(t, []TagSummary{
		// Counts use exact names: "widgets" on GET /widgets/{id} is not counted
		{Name: "Widgets", Description: "Widget management", EndpointCount: 3},
		{Name: "Orders", Description: "Order tracking", EndpointCount: 1},
		{Name: "Reports", Description: "Nothing here yet", EndpointCount: 0},
	}, e.ListTags())
}

func TestListTags_CountsMatchIndex(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	for _, summary := range e.ListTags() {
		n := 0
		for _, ep := range e.Endpoints() {
			if ep.Tag == summary.Name {
				n++
			}
		}
		assert.Equal(t, n, summary.EndpointCount, summary.Name)
	}
}

func TestEndpoints_ReturnsCopy(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	first := e.Endpoints()
	first[0] = Endpoint{Path: "/mutated"}

	assert.Equal(t, "/widgets", e.Endpoints()[0].Path)
}

func TestStats(t *testing.T) {
	e := loadEngine(t, widgetsDoc)
	assert.Equal(t, Stats{Paths: 3, Endpoints: 6, Tags: 3}, e.Stats())
}

func TestGroupByTag(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	groups := GroupByTag(e.Endpoints())
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Tag)
	}
	// Byte-wise order puts upper case before lower case
	assert.Equal(t, []string{"Orders", "Other", "Widgets", "widgets"}, names)

	assert.Equal(t, []string{"GET /widgets", "POST /widgets", "POST /widgets/{id}"}, keys(groups[2].Endpoints))
	assert.Empty(t, GroupByTag(nil))
}

func TestEngine_ConcurrentQueries(t *testing.T) {
	e := loadEngine(t, widgetsDoc)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := e.Search("widget", "")
			assert.NoError(t, err)
			assert.Len(t, got, 5)
			_, ok := e.Get("/orders", []string{"get", "GET"}[i%2])
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
}
