package fs

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/userstore/pkg/entry"
)

const (
	// TempFilePrefix starts the name of every staging file left by atomic writes.
	TempFilePrefix = ".userstore-tmp-"

	// maxTempKeyLen caps the key part of a staging name so the name stays
	// within common NAME_MAX limits.
	maxTempKeyLen = 128
)

// tempPattern is the os.CreateTemp pattern for staging files of key:
// prefix, key (truncated), a dot, then the random suffix.
func tempPattern(key entry.Key) string {
	k := key.String()
	if len(k) > maxTempKeyLen {
		k = k[:maxTempKeyLen]
	}
	return TempFilePrefix + k + ".*"
}

// isTempName reports whether name looks like a staging file.
func isTempName(name string) bool {
	return strings.HasPrefix(name, TempFilePrefix)
}

// writeAtomic stages data in a temp file named after key inside the base
// directory, then renames it over the record. The staging file is removed
// on every failure path.
func (s *Store) writeAtomic(key entry.Key, data []byte) (err error) {
	tmp, err := os.CreateTemp(s.base, tempPattern(key))
	if err != nil {
		return fmt.Errorf("failed to create staging file for %q: %w", key, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err = tmp.Chmod(s.config.FileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod staging file: %w", err)
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write staging file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync staging file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close staging file: %w", err)
	}

	if err = os.Rename(tmpName, s.path(key)); err != nil {
		return fmt.Errorf("failed to move staging file over %q: %w", key, err)
	}
	return nil
}
