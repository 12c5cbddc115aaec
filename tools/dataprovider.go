package tools

import (
	"io/fs"
)

// DataProvider gives access to bundled data files.
//
// Implementations:
//   - embeddedDataProvider: files compiled into the binary
//   - MockDataProvider: in-memory map for tests
type DataProvider interface {
	// ReadFile reads the named file relative to the data root
	// (e.g. "data/endpoints.json").
	ReadFile(name string) ([]byte, error)

	// ReadDir lists the named directory relative to the data root.
	ReadDir(name string) ([]fs.DirEntry, error)
}
