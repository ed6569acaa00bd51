package repository

import (
	"github.com/krew-solutions/querymap-go/querymap/registry"
	"github.com/krew-solutions/querymap-go/querymap/session"
)

// Manager hands out repositories by logical entity name, resolving models
// through the injected registry. Repositories are cached per entity and
// share the manager's options.
type Manager struct {
	registry *registry.Registry
	pool     session.SessionPool
	options  []Option

	repositories map[string]*Repository
}

func NewManager(reg *registry.Registry, pool session.SessionPool, options ...Option) *Manager {
	return &Manager{
		registry:     reg,
		pool:         pool,
		options:      options,
		repositories: make(map[string]*Repository),
	}
}

// Repository returns the repository for an entity.
func (m *Manager) Repository(entity string) (*Repository, error) {
	if repo, ok := m.repositories[entity]; ok {
		return repo, nil
	}

	model, err := m.registry.Resolve(entity)
	if err != nil {
		return nil, err
	}

	repo := NewRepository(model, m.pool, m.options...)
	m.repositories[entity] = repo
	return repo, nil
}
