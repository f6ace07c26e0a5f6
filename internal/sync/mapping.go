// Package sync reconciles Taskwarrior tasks with mirrored GitHub issues.
//
// The reconciler owns the only mutable shared state in taskflow: the
// persisted task-uuid → issue-number mapping. Sync states are derived
// from that document plus the task's current status; the tracker is
// never queried to make a decision, which keeps reconciliation
// offline-auditable.
package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/taskflow-ai/taskflow/internal/types"
)

// Entry is one persisted mapping record. Closed records that the close
// call for this issue has been issued at least once; it is what makes
// SyncedClosed derivable without asking the tracker.
type Entry struct {
	Issue  int  `json:"issue"`
	Closed bool `json:"closed,omitempty"`
}

// UnmarshalJSON accepts both the current object form and the legacy
// plain-number form ("uuid": 42) written by earlier releases.
func (e *Entry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var number int
		if err := json.Unmarshal(trimmed, &number); err != nil {
			return err
		}
		*e = Entry{Issue: number}
		return nil
	}

	type entryAlias Entry
	var alias entryAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*e = Entry(alias)
	return nil
}

// MappingStore persists the task→issue mapping across runs. Entries are
// never deleted, even when the underlying task is, so the terminal issue
// state remains addressable.
type MappingStore struct {
	mu       sync.RWMutex
	filePath string
	entries  map[string]Entry
}

// NewMappingStore loads (or initializes) the mapping document at path.
func NewMappingStore(path string) (*MappingStore, error) {
	ms := &MappingStore{
		filePath: path,
		entries:  make(map[string]Entry),
	}
	if err := ms.load(); err != nil {
		return nil, err
	}
	return ms, nil
}

// Get returns the entry for a task uuid, if one exists.
func (ms *MappingStore) Get(uuid string) (Entry, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	entry, ok := ms.entries[uuid]
	return entry, ok
}

// Put records a freshly created issue for a task uuid and persists the
// document before returning.
func (ms *MappingStore) Put(uuid string, issue int) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.entries[uuid] = Entry{Issue: issue}
	return ms.save()
}

// MarkClosed records that the close call for a task's issue has been
// issued, and persists the document before returning.
func (ms *MappingStore) MarkClosed(uuid string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, ok := ms.entries[uuid]
	if !ok {
		return &types.PersistenceError{Path: ms.filePath, Err: fmt.Errorf("no mapping entry for %s: %w", uuid, types.ErrNotFound)}
	}
	entry.Closed = true
	ms.entries[uuid] = entry
	return ms.save()
}

// Len returns the number of persisted entries.
func (ms *MappingStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return len(ms.entries)
}

// All returns a copy of the mapping.
func (ms *MappingStore) All() map[string]Entry {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make(map[string]Entry, len(ms.entries))
	for k, v := range ms.entries {
		result[k] = v
	}
	return result
}

// Path returns the mapping document location.
func (ms *MappingStore) Path() string {
	return ms.filePath
}

// save writes the document using atomic replace (temp file + rename) so a
// crash mid-write never leaves a partially written mapping on disk.
// Callers hold ms.mu.
func (ms *MappingStore) save() error {
	dir := filepath.Dir(ms.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &types.PersistenceError{Path: ms.filePath, Err: fmt.Errorf("create mapping directory: %w", err)}
	}

	data, err := json.MarshalIndent(ms.entries, "", "  ")
	if err != nil {
		return &types.PersistenceError{Path: ms.filePath, Err: fmt.Errorf("marshal mapping: %w", err)}
	}

	tmpPath := ms.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return &types.PersistenceError{Path: ms.filePath, Err: fmt.Errorf("write temp file: %w", err)}
	}

	if err := os.Rename(tmpPath, ms.filePath); err != nil {
		os.Remove(tmpPath)
		return &types.PersistenceError{Path: ms.filePath, Err: fmt.Errorf("rename temp file: %w", err)}
	}

	return nil
}

// load reads the document from disk. A missing file is an empty mapping,
// not an error.
func (ms *MappingStore) load() error {
	data, err := os.ReadFile(ms.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &types.PersistenceError{Path: ms.filePath, Err: fmt.Errorf("read mapping file: %w", err)}
	}

	entries := make(map[string]Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return &types.PersistenceError{Path: ms.filePath, Err: fmt.Errorf("parse mapping file: %w", err)}
	}

	ms.entries = entries
	return nil
}
