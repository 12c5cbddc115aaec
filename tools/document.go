package tools

import (
	"errors"
	"fmt"
	"log"

	"github.com/apidocs/mcp-server/internal/spec"
)

// LoadDocument loads the specification at path. An empty path selects the
// bundled sample. When path fails to load and fallback is set, the failure
// is logged and the bundled sample is served instead; otherwise the load
// error is returned and the caller should treat it as fatal.
//
// The returned string names where the document came from.
func LoadDocument(path string, fallback bool) (*spec.Document, string, error) {
	if path == "" {
		doc, err := loadEmbedded()
		return doc, EmbeddedSpecName, err
	}

	doc, err := spec.LoadFile(path)
	if err == nil {
		return doc, path, nil
	}
	if !fallback {
		return nil, path, err
	}

	log.Printf("Warning: %v", err)
	log.Printf("Warning: serving bundled sample %s instead", EmbeddedSpecName)

	embedded, embErr := loadEmbedded()
	if embErr != nil {
		return nil, path, errors.Join(err, embErr)
	}
	return embedded, EmbeddedSpecName, nil
}

func loadEmbedded() (*spec.Document, error) {
	data, err := defaultDataProvider.ReadFile(EmbeddedSpecName)
	if err != nil {
		return nil, &spec.LoadError{Source: EmbeddedSpecName, Err: fmt.Errorf("failed to read embedded data: %w", err)}
	}
	return spec.LoadNamed(EmbeddedSpecName, data)
}
