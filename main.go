package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/apidocs/mcp-server/internal/catalog"
	"github.com/apidocs/mcp-server/internal/config"
	"github.com/apidocs/mcp-server/internal/fulltext"
	"github.com/apidocs/mcp-server/internal/web"
	"github.com/apidocs/mcp-server/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	version     = "0.3.0"
	serverName  = "apidocs-mcp-server"
	description = "MCP server for searching and browsing Swagger/OpenAPI documentation"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		os.Exit(0)
	}

	// Set up logging to stderr (MCP uses stdout for protocol)
	log.SetOutput(os.Stderr)
	log.Printf("%s v%s starting...", serverName, version)

	if err := run(config.Load()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run(cfg *config.Config) error {
	doc, source, err := tools.LoadDocument(cfg.SpecPath, cfg.FallbackEmbedded)
	if err != nil {
		return err
	}
	engine := catalog.NewEngine(doc)
	stats := engine.Stats()
	log.Printf("✓ Loaded %s: %d paths, %d endpoints, %d categories",
		source, stats.Paths, stats.Endpoints, stats.Tags)

	// Ranked search is optional; keyword search works without it
	ranker, err := fulltext.Build(engine.Endpoints())
	if err != nil {
		log.Printf("Warning: Failed to build ranked search index: %v", err)
		log.Printf("rank_endpoints will be unavailable")
	} else {
		defer func() {
			if err := ranker.Close(); err != nil {
				log.Printf("Error closing ranked search: %v", err)
			}
		}()
	}

	svc := tools.NewService(engine, ranker, cfg)
	server := createMCPServer()
	registerTools(server, svc)
	registerResources(server, svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("✓ Server ready and waiting for connections")

	if cfg.Transport == config.TransportHTTP {
		handler := web.NewHandler(server, engine, web.Info{
			Name:    serverName,
			Version: version,
			Tools:   svc.ToolNames(),
		})
		return web.ListenAndServe(ctx, cfg.Addr, handler)
	}

	err = server.Run(ctx, &mcp.StdioTransport{})
	if err != nil && ctx.Err() != nil {
		// interrupted
		return nil
	}
	return err
}

// createMCPServer initializes the MCP server
func createMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: description + ". Start with list_categories or search_endpoints, then get_endpoint_details for full schemas.",
		},
	)

	log.Printf("Server initialized: %s v%s", serverName, version)
	return server
}

// registerTools registers all MCP tools
func registerTools(server *mcp.Server, svc *tools.Service) {
	toolCount := svc.RegisterEndpointTools(server)
	toolCount += svc.RegisterRankTools(server)
	log.Printf("✓ All tools registered: %d tools", toolCount)
}

// registerResources registers all MCP resources
func registerResources(server *mcp.Server, svc *tools.Service) {
	count := svc.RegisterResources(server)
	log.Printf("✓ Resources registered: %d", count)
}
