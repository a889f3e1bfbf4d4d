package platform

import (
	"fmt"
	"os"

	"github.com/aretw0/userstore/pkg/adapters/fs"
	"github.com/aretw0/userstore/pkg/core"
)

// Init builds the repository described by opts.
// The 'uri' argument is adapter-specific (a base directory for 'fs').
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := applyOptions(opts)

	if o.repository != nil {
		return o.repository, nil
	}

	switch o.adapter {
	case "fs":
		return initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// Open builds the filesystem store directly.
func Open(path string, opts ...Option) (*fs.Store, error) {
	return initFS(path, applyOptions(opts))
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(path string, o *options) (*fs.Store, error) {
	serializerName, _ := o.config["serializer"].(string)
	atomic, _ := o.config["atomic"].(bool)
	fileMode, _ := o.config["file_mode"].(os.FileMode)
	eventBuffer, _ := o.config["event_buffer"].(int)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	serializer, err := fs.SerializerFor(serializerName)
	if err != nil {
		return nil, err
	}

	store, err := fs.NewStore(fs.Config{
		Path:         path,
		Serializer:   serializer,
		Atomic:       atomic,
		FileMode:     fileMode,
		EventBuffer:  eventBuffer,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
	if err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("store opened",
			"base", store.Base(),
			"serializer", serializer.Name(),
			"atomic", atomic,
		)
	}
	return store, nil
}
