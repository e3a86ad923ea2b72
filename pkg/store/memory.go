package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pvlab/sunrack/pkg/errors"
)

// MemoryStore is an in-memory Store for tests and one-shot CLI runs.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]Project
	layouts  map[string]Layout
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]Project),
		layouts:  make(map[string]Layout),
	}
}

// SaveProject inserts or updates a project.
func (s *MemoryStore) SaveProject(ctx context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	} else if existing, ok := s.projects[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.projects[p.ID] = *p
	return nil
}

// Project returns a project by ID.
func (s *MemoryStore) Project(ctx context.Context, id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeProjectNotFound, "project %s not found", id)
	}
	return &p, nil
}

// ListProjects returns all projects, newest first.
func (s *MemoryStore) ListProjects(ctx context.Context) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteProject removes a project and all its layouts.
func (s *MemoryStore) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return errors.New(errors.ErrCodeProjectNotFound, "project %s not found", id)
	}
	delete(s.projects, id)
	for lid, l := range s.layouts {
		if l.ProjectID == id {
			delete(s.layouts, lid)
		}
	}
	return nil
}

// SaveLayout inserts a layout.
func (s *MemoryStore) SaveLayout(ctx context.Context, l *Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	s.layouts[l.ID] = *l
	return nil
}

// Layout returns a layout by ID.
func (s *MemoryStore) Layout(ctx context.Context, id string) (*Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.layouts[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeLayoutNotFound, "layout %s not found", id)
	}
	return &l, nil
}

// LayoutsForProject returns all layouts for a project, newest first.
func (s *MemoryStore) LayoutsForProject(ctx context.Context, projectID string) ([]Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Layout{}
	for _, l := range s.layouts {
		if l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
