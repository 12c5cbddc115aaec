package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/apidocs/mcp-server/internal/catalog"
	"github.com/apidocs/mcp-server/internal/export"
	"github.com/apidocs/mcp-server/internal/spec"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <spec-file> <output-file>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nUse - as output-file to write to stdout.\n")
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s swagger.json docs/api-reference.md\n", os.Args[0])
		os.Exit(1)
	}

	specFile := os.Args[1]
	outFile := os.Args[2]

	startTime := time.Now()

	// Step 1: Load specification
	log.Printf("Loading specification: %s", specFile)
	doc, err := spec.LoadFile(specFile)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Step 2: Build the endpoint index
	engine := catalog.NewEngine(doc)
	stats := engine.Stats()
	log.Printf("✓ Indexed %d endpoints across %d paths (%d categories)",
		stats.Endpoints, stats.Paths, stats.Tags)

	// Step 3: Render
	data := export.Markdown(engine)

	if outFile == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		log.Printf("✓ Export complete in %v", time.Since(startTime).Round(time.Millisecond))
		return
	}

	if dir := filepath.Dir(outFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	log.Printf("✓ Export complete: %s (%d bytes) in %v",
		outFile, len(data), time.Since(startTime).Round(time.Millisecond))
}
