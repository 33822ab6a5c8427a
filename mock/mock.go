// Package mock provides function-field mock implementations of the
// patternpress service interfaces for testing.
package mock

import (
	"context"

	"github.com/patternpress/patternpress"
)

var _ patternpress.IndexLoader = (*IndexLoader)(nil)

// IndexLoader is a mock implementation of patternpress.IndexLoader.
type IndexLoader struct {
	LoadFn func(ctx context.Context) ([]patternpress.IndexEntry, error)
}

func (l *IndexLoader) Load(ctx context.Context) ([]patternpress.IndexEntry, error) {
	return l.LoadFn(ctx)
}

var _ patternpress.ContentFetcher = (*ContentFetcher)(nil)

// ContentFetcher is a mock implementation of patternpress.ContentFetcher.
type ContentFetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *ContentFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

var _ patternpress.Completer = (*Completer)(nil)

// Completer is a mock implementation of patternpress.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, credential string, messages []patternpress.ChatMessage, onDelta patternpress.DeltaFunc) error
}

func (c *Completer) Complete(ctx context.Context, credential string, messages []patternpress.ChatMessage, onDelta patternpress.DeltaFunc) error {
	return c.CompleteFn(ctx, credential, messages, onDelta)
}

var _ patternpress.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is a mock implementation of patternpress.CredentialStore.
type CredentialStore struct {
	GetFn    func() (string, error)
	SetFn    func(credential string) error
	DeleteFn func() error
}

func (s *CredentialStore) Get() (string, error)           { return s.GetFn() }
func (s *CredentialStore) Set(credential string) error    { return s.SetFn(credential) }
func (s *CredentialStore) Delete() error                  { return s.DeleteFn() }
