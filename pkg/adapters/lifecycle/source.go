// Package lifecycle exposes a store's Watch stream as a lifecycle.Source, so
// record changes can be plugged into lifecycle-managed applications.
package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/userstore/pkg/core"
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("record source already started")

type watchSource struct {
	repo    core.Watchable
	pattern string
	out     chan lifecycle.Event

	once sync.Once
}

// NewSource creates a lifecycle.Source over repo.Watch(ctx, pattern).
// Watching begins on Start; Events closes when the watch ends or ctx is done.
func NewSource(repo core.Watchable, pattern string) lifecycle.Source {
	return &watchSource{
		repo:    repo,
		pattern: pattern,
		out:     make(chan lifecycle.Event),
	}
}

func (s *watchSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start opens the watch and returns its error unchanged, so a rejected
// pattern stays a caller fault. Starting twice is an error.
func (s *watchSource) Start(ctx context.Context) error {
	started := false
	s.once.Do(func() { started = true })
	if !started {
		return ErrAlreadyStarted
	}

	events, err := s.repo.Watch(ctx, s.pattern)
	if err != nil {
		close(s.out)
		return err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
