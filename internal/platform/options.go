package platform

import (
	"log/slog"
	"os"

	"github.com/aretw0/userstore/pkg/core"
)

// options holds the internal configuration for the userstore service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	config     map[string]interface{}
}

// Option defines a functional option for configuring the store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

// WithSerializer selects the on-disk record format by name ("json" or "yaml").
// Defaults to "json".
func WithSerializer(name string) Option {
	return func(o *options) {
		o.config["serializer"] = name
	}
}

// WithAtomicWrites makes writes go through a temp file and a rename, so
// readers never observe a partially written record.
func WithAtomicWrites(enabled bool) Option {
	return func(o *options) {
		o.config["atomic"] = enabled
	}
}

// WithFileMode sets the permission bits of record files.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.config["file_mode"] = mode
	}
}

// WithLogger sets the logger used by the factory and the watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter allows specifying the storage adapter to use by name (e.g. "fs").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithEventBuffer allows specifying the size of the watch event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// Watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
