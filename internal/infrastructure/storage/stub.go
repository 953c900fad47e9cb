package storage

import (
	"context"
	"errors"
	"sync"

	fiscalapp "github.com/varejo/backend/internal/application/fiscal"
)

// StubDocumentArchive is an in-memory DocumentArchive used when archival is
// disabled and in tests
type StubDocumentArchive struct {
	mu        sync.RWMutex
	documents map[string]string
}

// NewStubDocumentArchive creates a new StubDocumentArchive
func NewStubDocumentArchive() *StubDocumentArchive {
	return &StubDocumentArchive{
		documents: make(map[string]string),
	}
}

// Ensure StubDocumentArchive implements DocumentArchive
var _ fiscalapp.DocumentArchive = (*StubDocumentArchive)(nil)

// Store keeps the raw document in memory
func (a *StubDocumentArchive) Store(ctx context.Context, accessKey string, rawDocument string) error {
	if accessKey == "" {
		return errors.New("access key is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.documents[accessKey] = rawDocument
	return nil
}

// Get returns a stored document, if present
func (a *StubDocumentArchive) Get(accessKey string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	doc, ok := a.documents[accessKey]
	return doc, ok
}
