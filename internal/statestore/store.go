// Package statestore persists the active timer across process restarts.
package statestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrCorruptState indicates the persisted record could not be trusted.
var ErrCorruptState = errors.New("corrupt session state")

// Record is the on-disk form of the session state. ActiveIssueKey and
// ActivatedAt are either both set or both nil.
type Record struct {
	ActiveIssueKey *string    `json:"active_issue_key"`
	ActivatedAt    *time.Time `json:"activated_at"`
}

// IdleRecord returns a record with no active issue.
func IdleRecord() Record {
	return Record{}
}

// ActiveRecord returns a record for an issue activated at since.
func ActiveRecord(key string, since time.Time) Record {
	since = since.Round(0)
	return Record{ActiveIssueKey: &key, ActivatedAt: &since}
}

// Active reports the active issue, if any.
func (r Record) Active() (key string, since time.Time, ok bool) {
	if r.ActiveIssueKey == nil || r.ActivatedAt == nil {
		return "", time.Time{}, false
	}
	return *r.ActiveIssueKey, *r.ActivatedAt, true
}

// Validate checks the co-presence of the key and the timestamp.
func (r Record) Validate() error {
	hasKey := r.ActiveIssueKey != nil
	hasTime := r.ActivatedAt != nil
	switch {
	case hasKey && !hasTime:
		return fmt.Errorf("%w: active_issue_key set without activated_at", ErrCorruptState)
	case hasTime && !hasKey:
		return fmt.Errorf("%w: activated_at set without active_issue_key", ErrCorruptState)
	case hasKey && *r.ActiveIssueKey == "":
		return fmt.Errorf("%w: empty active_issue_key", ErrCorruptState)
	case hasTime && r.ActivatedAt.IsZero():
		return fmt.Errorf("%w: zero activated_at", ErrCorruptState)
	}
	return nil
}

// Store loads and saves the session record.
type Store interface {
	Load() (*Record, error)
	Save(r Record) error
}

// FileStore keeps the record in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store writes to.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the persisted record, or nil when none has been saved yet.
func (s *FileStore) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, s.path, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return &rec, nil
}

// Save replaces the persisted record. The new content is written to a
// temporary file in the same directory and renamed over the old one, so a
// crash leaves either the previous record or the new one.
func (s *FileStore) Save(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	committed = true
	return nil
}
