// Package web serves the MCP server over HTTP: a landing page, a health
// probe, and the streamable HTTP transport at /mcp.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/apidocs/mcp-server/internal/catalog"
	"github.com/apidocs/mcp-server/internal/spec"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const shutdownTimeout = 5 * time.Second

// Source is what the landing page and health probe report on.
type Source interface {
	Document() *spec.Document
	ListTags() []catalog.TagSummary
	Stats() catalog.Stats
}

// Info describes the running server.
type Info struct {
	Name    string
	Version string
	Tools   []string
}

var landing = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Info.Name}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #1f2933; }
code { background: #f0f4f8; padding: 0 .25rem; }
.status { color: #0b7a3e; font-weight: 600; }
td, th { text-align: left; padding: .25rem .75rem .25rem 0; }
</style>
</head>
<body>
<h1>{{.Info.Name}} <small>v{{.Info.Version}}</small></h1>
<p class="status">Running</p>
<p>Serving <strong>{{.Title}}</strong>{{with .APIVersion}} ({{.}}){{end}}: {{.Stats.Endpoints}} endpoints across {{.Stats.Paths}} paths in {{.Stats.Tags}} categories.</p>
<p>MCP endpoint: <code>{{.MCPPath}}</code> (streamable HTTP)</p>
<h2>Categories</h2>
<table>
<tr><th>Name</th><th>Endpoints</th><th>Description</th></tr>
{{range .Tags}}<tr><td>{{.Name}}</td><td>{{.EndpointCount}}</td><td>{{.Description}}</td></tr>
{{end}}</table>
<h2>Tools</h2>
<ul>
{{range .Info.Tools}}<li><code>{{.}}</code></li>
{{end}}</ul>
</body>
</html>
`))

type landingData struct {
	Info       Info
	Title      string
	APIVersion string
	Stats      catalog.Stats
	Tags       []catalog.TagSummary
	MCPPath    string
}

// Health is the /health response body.
type Health struct {
	Status    string `json:"status"`
	Paths     int    `json:"paths"`
	Endpoints int    `json:"endpoints"`
}

// NewHandler routes /, /health and /mcp. Every MCP session is served by server.
func NewHandler(server *mcp.Server, src Source, info Info) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		doc := src.Document()
		title := doc.Info.Title
		if title == "" {
			title = "API"
		}
		data := landingData{
			Info:       info,
			Title:      title,
			APIVersion: doc.Info.Version,
			Stats:      src.Stats(),
			Tags:       src.ListTags(),
			MCPPath:    "/mcp",
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := landing.Execute(w, data); err != nil {
			log.Printf("Warning: failed to render landing page: %v", err)
		}
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		stats := src.Stats()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(Health{
			Status:    "ok",
			Paths:     stats.Paths,
			Endpoints: stats.Endpoints,
		}); err != nil {
			log.Printf("Warning: failed to write health response: %v", err)
		}
	})

	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil))

	return mux
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("✓ Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	log.Printf("✓ HTTP server stopped")
	return nil
}
