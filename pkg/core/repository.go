package core

import "context"

// Repository defines the contract for storing and retrieving user records.
// Implementations validate every entry before touching storage and report
// caller faults as *RejectError.
type Repository interface {
	// Read retrieves the record stored under entry.
	Read(ctx context.Context, entry string) (User, error)

	// Write persists u under entry, creating or fully replacing it.
	Write(ctx context.Context, entry string, u User) error
}

// Listable is implemented by repositories that can enumerate their entries.
type Listable interface {
	// List returns the sorted entry names matching a glob pattern. Empty matches all.
	List(ctx context.Context, pattern string) ([]string, error)
}

// Watchable is implemented by repositories that can notify changes.
type Watchable interface {
	// Watch streams events for entries matching pattern until ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
