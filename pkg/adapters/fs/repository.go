package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/userstore/pkg/core"
	"github.com/aretw0/userstore/pkg/entry"
)

// DefaultFileMode is the permission used for record files.
const DefaultFileMode os.FileMode = 0644

// Store implements core.Repository with one file per entry directly inside a base directory.
type Store struct {
	base       string
	serializer Serializer
	config     Config

	mu       sync.RWMutex
	watchers int // running Watch loops
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Path         string
	Serializer   Serializer   // defaults to JSON
	Atomic       bool         // write through a temp file and rename
	FileMode     os.FileMode  // defaults to DefaultFileMode
	EventBuffer  int          // Watch channel buffer, defaults to 100
	Logger       *slog.Logger // only used by Watch
	ErrorHandler func(error)  // receives Watch runtime errors
}

// NewStore resolves cfg.Path to an absolute, symlink-free directory path and
// returns a store rooted there. The directory must already exist.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("base path is empty")
	}

	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path %s: %w", cfg.Path, err)
	}
	base, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize base path %s: %w", cfg.Path, err)
	}

	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("failed to stat base path %s: %w", base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", core.ErrNotDirectory, base)
	}

	if cfg.Serializer == nil {
		cfg.Serializer = NewJSONSerializer()
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = DefaultFileMode
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 100
	}

	return &Store{
		base:       base,
		serializer: cfg.Serializer,
		config:     cfg,
	}, nil
}

// Base returns the canonical base directory.
func (s *Store) Base() string {
	return s.base
}

func (s *Store) path(key entry.Key) string {
	return filepath.Join(s.base, key.String())
}

// Read retrieves the record stored under raw.
//
// Workflow:
//  1. Validate the entry; invalid entries never reach the filesystem.
//  2. Stat the target; a missing file is a not-found caller fault.
//  3. Read and decode; failures here are system faults.
func (s *Store) Read(ctx context.Context, raw string) (core.User, error) {
	key, err := entry.Validate(raw)
	if err != nil {
		return core.User{}, err
	}
	path := s.path(key)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return core.User{}, core.Reject(core.ErrNotFound, raw, "")
		}
		return core.User{}, fmt.Errorf("failed to check entry %q: %w", raw, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return core.User{}, fmt.Errorf("failed to read entry %q from filesystem: %w", raw, err)
	}

	u, err := s.serializer.Unmarshal(data)
	if err != nil {
		return core.User{}, fmt.Errorf("failed to deserialize entry %q: %w", raw, err)
	}
	return u, nil
}

// Write persists u under raw, creating the file or replacing its whole content.
func (s *Store) Write(ctx context.Context, raw string, u core.User) error {
	key, err := entry.Validate(raw)
	if err != nil {
		return err
	}
	path := s.path(key)

	data, err := s.serializer.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to serialize entry %q: %w", raw, err)
	}

	if s.config.Atomic {
		err = s.writeAtomic(key, data)
	} else {
		err = os.WriteFile(path, data, s.config.FileMode)
	}
	if err != nil {
		return fmt.Errorf("failed to write entry %q to filesystem: %w", raw, err)
	}
	return nil
}

// List returns the sorted names of record files matching pattern.
// Directories, non-regular files and names that are not valid entries are skipped.
func (s *Store) List(ctx context.Context, pattern string) ([]string, error) {
	if err := checkPattern(pattern); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(s.base)
	if err != nil {
		return nil, fmt.Errorf("failed to list base directory: %w", err)
	}

	names := make([]string, 0, len(dirEntries))
	for _, d := range dirEntries {
		if !d.Type().IsRegular() {
			continue
		}
		name := d.Name()
		if !s.isRecordName(name) || !matches(pattern, name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// isRecordName filters out names that cannot have been produced by Write.
func (s *Store) isRecordName(name string) bool {
	if s.config.Atomic && isTempName(name) {
		return false
	}
	return entry.IsValid(name)
}

func checkPattern(pattern string) error {
	if pattern == "" {
		return nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return core.Reject(core.ErrInvalidPattern, pattern, "malformed glob")
	}
	return nil
}

// matches assumes pattern was accepted by checkPattern.
func matches(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

var (
	_ core.Repository = (*Store)(nil)
	_ core.Listable   = (*Store)(nil)
	_ core.Watchable  = (*Store)(nil)
)
