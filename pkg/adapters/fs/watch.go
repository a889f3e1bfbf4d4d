package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/userstore/pkg/core"
)

// Watch streams changes to record files matching pattern (empty for all).
// The channel is closed once ctx is done or the underlying watcher fails.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if err := checkPattern(pattern); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.base); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.base, err)
	}

	events := make(chan core.Event, s.config.EventBuffer)
	s.trackWatcher(1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer s.trackWatcher(-1)
		defer watcher.Close()
		if err := s.watchLoop(ctx, watcher, pattern, events); err != nil {
			s.reportWatchError(err)
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		s.reportWatchError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, pattern string, events chan<- core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			e, ok := s.toEvent(ev, pattern)
			if !ok {
				continue
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			s.reportWatchError(wErr)
		}
	}
}

// toEvent maps an fsnotify event to a record event, dropping anything that
// is not a direct child record file matching pattern.
func (s *Store) toEvent(ev fsnotify.Event, pattern string) (core.Event, bool) {
	if filepath.Dir(ev.Name) != s.base {
		return core.Event{}, false
	}
	name := filepath.Base(ev.Name)
	if !s.isRecordName(name) || !matches(pattern, name) {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case ev.Has(fsnotify.Create):
		t = core.EventCreate
	case ev.Has(fsnotify.Write):
		t = core.EventModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}

	if t != core.EventDelete {
		if info, err := os.Lstat(ev.Name); err != nil || !info.Mode().IsRegular() {
			return core.Event{}, false
		}
	}

	if s.config.Logger != nil {
		s.config.Logger.Debug("record changed", "entry", name, "type", t)
	}
	return core.Event{Type: t, Entry: name, Timestamp: time.Now().Unix()}, true
}

func (s *Store) reportWatchError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
		return
	}
	if s.config.Logger != nil {
		s.config.Logger.Error("fsnotify error", "error", err)
	}
}

func (s *Store) trackWatcher(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers += delta
}

// IsWatching reports whether at least one Watch loop is currently running.
func (s *Store) IsWatching() bool {
	return s.ActiveWatchers() > 0
}

// ActiveWatchers returns the number of running Watch loops.
func (s *Store) ActiveWatchers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watchers
}
