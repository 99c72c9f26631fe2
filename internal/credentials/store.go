// Package credentials provides application secret lookups for token validation
package credentials

import (
	"context"
	"sync"

	"github.com/OpsMx/rtc-auth-client/pkg/jwt"
)

// Store is an in-memory map of application keys to base64-encoded secrets
// It is safe for concurrent use
type Store struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{secrets: make(map[string]string)}
}

// Add registers or replaces the secret for an application key
func (s *Store) Add(applicationKey, applicationSecret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[applicationKey] = applicationSecret
}

// Remove deletes an application key
func (s *Store) Remove(applicationKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, applicationKey)
}

// Len returns the number of registered applications
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.secrets)
}

// ResolveSecret implements jwt.SecretResolver
func (s *Store) ResolveSecret(_ context.Context, applicationKey string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	secret, ok := s.secrets[applicationKey]
	if !ok {
		return "", jwt.ErrSecretNotFound
	}
	return secret, nil
}

var _ jwt.SecretResolver = (*Store)(nil)
