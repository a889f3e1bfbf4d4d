package userstore

import (
	"log/slog"
	"os"

	"github.com/aretw0/userstore/internal/platform"
	"github.com/aretw0/userstore/pkg/adapters/fs"
	"github.com/aretw0/userstore/pkg/core"
)

// --- Types ---

// User is the record persisted one file per entry.
type User = core.User

// Store is the filesystem-backed record store.
type Store = fs.Store

// Service is the domain service wrapping a repository.
type Service = core.Service

// RejectError is a caller fault (invalid entry, entry not found, ...).
type RejectError = core.RejectError

// Caller faults, matched with errors.Is.
var (
	ErrInvalidEntry   = core.ErrInvalidEntry
	ErrNotFound       = core.ErrNotFound
	ErrInvalidPattern = core.ErrInvalidPattern
)

// ErrNotDirectory is returned when the base path is not a directory.
var ErrNotDirectory = core.ErrNotDirectory

// IsReject reports whether err is a caller fault rather than a system fault.
func IsReject(err error) bool {
	return core.IsReject(err)
}

// --- Configuration ---

// Option defines a functional option for configuring the store.
type Option = platform.Option

// WithSerializer selects the on-disk format by name ("json" or "yaml").
func WithSerializer(name string) Option {
	return platform.WithSerializer(name)
}

// WithAtomicWrites enables temp-file-and-rename writes.
func WithAtomicWrites(enabled bool) Option {
	return platform.WithAtomicWrites(enabled)
}

// WithFileMode sets the permission bits of record files.
func WithFileMode(mode os.FileMode) Option {
	return platform.WithFileMode(mode)
}

// WithLogger sets the logger for the factory and the watcher.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithEventBuffer allows specifying the size of the watch event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for watcher runtime errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// Open creates a store rooted at the existing directory path.
func Open(path string, opts ...Option) (*Store, error) {
	return platform.Open(path, opts...)
}

// New creates a service over the repository described by opts.
func New(path string, opts ...Option) (*Service, error) {
	return platform.New(path, opts...)
}
