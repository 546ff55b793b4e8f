package secretcache

import (
	"context"
	"sync"
)

// Static is an in-memory secret cache for tests and for deployments
// that provision secrets out of band. Refreshes succeed whenever the
// identifier is present.
type Static struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewStatic creates a static cache seeded with the given secrets.
func NewStatic(secrets map[string]string) *Static {
	s := &Static{secrets: make(map[string]string, len(secrets))}
	for id, value := range secrets {
		s.secrets[id] = value
	}
	return s
}

// Set stores or replaces the payload for secretID.
func (s *Static) Set(secretID, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[secretID] = value
}

// Delete removes secretID.
func (s *Static) Delete(secretID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, secretID)
}

// GetSecretString returns the stored payload, or "" when absent.
func (s *Static) GetSecretString(_ context.Context, secretID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secrets[secretID], nil
}

// RefreshNow reports whether secretID is present.
func (s *Static) RefreshNow(_ context.Context, secretID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.secrets[secretID]
	return ok
}
