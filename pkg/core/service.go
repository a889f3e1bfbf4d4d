package core

import (
	"context"
	"fmt"
	"sync"
)

// Service handles the business logic for user records.
type Service struct {
	repo Repository

	mu              sync.RWMutex
	eventBufferSize int
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, eventBufferSize: 100}
}

// SetEventBufferSize records the buffer size the repository was configured with.
// It is informational and only surfaces through State.
func (s *Service) SetEventBufferSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventBufferSize = n
}

// ReadUser retrieves the record stored under entry.
func (s *Service) ReadUser(ctx context.Context, entry string) (User, error) {
	return s.repo.Read(ctx, entry)
}

// WriteUser stores u under entry.
func (s *Service) WriteUser(ctx context.Context, entry string, u User) error {
	return s.repo.Write(ctx, entry, u)
}

// ListEntries enumerates entries if the repository supports it.
func (s *Service) ListEntries(ctx context.Context, pattern string) ([]string, error) {
	l, ok := s.repo.(Listable)
	if !ok {
		return nil, fmt.Errorf("list: %w", ErrUnsupported)
	}
	return l.List(ctx, pattern)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, fmt.Errorf("watch: %w", ErrUnsupported)
	}
	return w.Watch(ctx, pattern)
}

// Repository exposes the underlying repository.
func (s *Service) Repository() Repository {
	return s.repo
}
