package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileStore keeps the credential record as a JSON file at a fixed path. The
// file is the only cross-process coordination mechanism: every worker reloads
// it on each read so a token refreshed by one worker is visible to the rest.
//
// No locking is performed. Concurrent writers race and the last write wins,
// which is acceptable because the record is re-derivable by one extra refresh
// or login.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a store backed by the file at path. Parent directories
// are created on the first Save.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the record from disk. A missing file and a corrupt file are both
// reported as absence; corruption is logged so the forced re-login is visible.
func (s *FileStore) Load(ctx context.Context) (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("reading token cache")
		}
		return nil, nil
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("corrupt token cache, treating as absent")
		return nil, nil
	}
	return &creds, nil
}

// Save replaces the record on disk.
func (s *FileStore) Save(ctx context.Context, creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token cache directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token cache: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}
	return nil
}

// Clear deletes the backing file.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token cache: %w", err)
	}
	return nil
}
