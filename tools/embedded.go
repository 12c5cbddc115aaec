package tools

import (
	"embed"
	"io/fs"
)

// Embed the sample specification into the binary so the server answers
// queries even when no APIDOCS_SPEC file is configured or it fails to load.

//go:embed data/endpoints.json
var embeddedFS embed.FS

// EmbeddedSpecName is the path of the bundled sample inside the data root.
const EmbeddedSpecName = "data/endpoints.json"

// embeddedDataProvider implements DataProvider using embed.FS.
type embeddedDataProvider struct {
	fs embed.FS
}

// NewEmbeddedDataProvider creates a production DataProvider that uses embedded files.
func NewEmbeddedDataProvider() DataProvider {
	return &embeddedDataProvider{fs: embeddedFS}
}

// ReadFile reads the named file from the embedded filesystem.
func (p *embeddedDataProvider) ReadFile(name string) ([]byte, error) {
	return p.fs.ReadFile(name)
}

// ReadDir reads the named directory from the embedded filesystem.
func (p *embeddedDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	return p.fs.ReadDir(name)
}

// Default provider used by LoadDocument
var defaultDataProvider DataProvider = NewEmbeddedDataProvider()
