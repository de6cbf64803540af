package models

import (
	"fmt"
	"sync"
)

// Environment kinds.
const (
	PlatformPromotions = "promotions-engine"
	PlatformCMS        = "cms"
)

// Environment represents a user-configured promotions-engine or CMS instance.
type Environment struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"` // "promotions-engine" or "cms"
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
	Insecure bool   `json:"insecure"` // skip TLS verification
}

// ErrEnvironmentNotFound is returned by Resolve for an unknown environment ID.
type ErrEnvironmentNotFound struct {
	ID int64
}

func (e *ErrEnvironmentNotFound) Error() string {
	return fmt.Sprintf("environment %d not found", e.ID)
}

// EnvironmentStore is an in-memory thread-safe store for environments.
// Credential decryption and caller ownership checks live outside the core;
// this store is the boundary the cloner resolves environments through.
type EnvironmentStore struct {
	mu     sync.RWMutex
	nextID int64
	envs   map[int64]*Environment
}

// NewEnvironmentStore creates an empty environment store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{nextID: 1, envs: make(map[int64]*Environment)}
}

// Create adds a new environment, assigning it the next numeric ID.
func (s *EnvironmentStore) Create(e *Environment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.envs[e.ID] = e
}

// Resolve returns the environment for an ID, or ErrEnvironmentNotFound.
func (s *EnvironmentStore) Resolve(id int64) (*Environment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.envs[id]
	if !ok {
		return nil, &ErrEnvironmentNotFound{ID: id}
	}
	return e, nil
}

// List returns all environments.
func (s *EnvironmentStore) List() []*Environment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Environment, 0, len(s.envs))
	for _, e := range s.envs {
		result = append(result, e)
	}
	return result
}

// Update replaces an existing environment's settings.
func (s *EnvironmentStore) Update(e *Environment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.envs[e.ID]; !ok {
		return false
	}
	s.envs[e.ID] = e
	return true
}

// Delete removes an environment by ID.
func (s *EnvironmentStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.envs[id]; !ok {
		return false
	}
	delete(s.envs, id)
	return true
}
