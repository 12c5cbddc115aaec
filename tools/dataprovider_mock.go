package tools

import (
	"io/fs"
	"testing/fstest"
)

// MockDataProvider is an in-memory DataProvider for tests.
type MockDataProvider struct {
	files fstest.MapFS
}

// NewMockDataProvider creates an empty mock provider.
func NewMockDataProvider() *MockDataProvider {
	return &MockDataProvider{files: fstest.MapFS{}}
}

// AddFile adds a file to the mock provider.
func (m *MockDataProvider) AddFile(name string, content []byte) {
	m.files[name] = &fstest.MapFile{Data: content}
}

// ReadFile reads a file from the mock storage.
func (m *MockDataProvider) ReadFile(name string) ([]byte, error) {
	return m.files.ReadFile(name)
}

// ReadDir lists the files and subdirectories stored under name.
func (m *MockDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	return m.files.ReadDir(name)
}

// SetDefaultDataProvider replaces the provider LoadDocument reads the
// bundled sample from.
func SetDefaultDataProvider(provider DataProvider) {
	defaultDataProvider = provider
}

// ResetDefaultDataProvider restores the embedded provider.
func ResetDefaultDataProvider() {
	defaultDataProvider = NewEmbeddedDataProvider()
}
