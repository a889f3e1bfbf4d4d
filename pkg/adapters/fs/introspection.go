package fs

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Base          string `json:"base"`
	Serializer    string `json:"serializer"`
	Atomic        bool   `json:"atomic"`
	FileMode      string `json:"file_mode"`
	EventBuffer   int    `json:"event_buffer"`
	WatcherActive bool   `json:"watcher_active"`
	Watchers      int    `json:"watchers"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Base:          s.base,
		Serializer:    s.serializer.Name(),
		Atomic:        s.config.Atomic,
		FileMode:      s.config.FileMode.String(),
		EventBuffer:   s.config.EventBuffer,
		WatcherActive: s.watchers > 0,
		Watchers:      s.watchers,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
