// Package snapshot persists per-path content snapshots so file mutations can
// be undone. Each snapshot is a uuid-named content file plus an index entry;
// the index keeps a stack of snapshots per path, newest last.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const indexName = "index.json"

// Store is a snapshot store rooted at a state directory.
type Store struct {
	dir string
}

type entry struct {
	ID     string `json:"id"`
	Exists bool   `json:"exists"` // false records "file was absent"
}

type index map[string][]entry

// NewStore opens (creating if needed) a store at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save records the current state of path. content nil means the file does
// not exist yet; that fact is itself snapshotted so an undo can remove the
// file again.
func (s *Store) Save(path string, content *string) error {
	idx, err := s.readIndex()
	if err != nil {
		return err
	}

	e := entry{ID: uuid.NewString(), Exists: content != nil}
	if content != nil {
		if err := os.WriteFile(s.contentPath(e.ID), []byte(*content), 0o644); err != nil {
			return fmt.Errorf("writing snapshot content: %w", err)
		}
	}

	idx[path] = append(idx[path], e)
	return s.writeIndex(idx)
}

// Pop removes and returns the newest snapshot for path. The returned content
// is nil when the snapshot recorded an absent file. ok is false when no
// snapshot exists for path.
func (s *Store) Pop(path string) (content *string, ok bool, err error) {
	idx, err := s.readIndex()
	if err != nil {
		return nil, false, err
	}
	stack := idx[path]
	if len(stack) == 0 {
		return nil, false, nil
	}

	e := stack[len(stack)-1]
	if e.Exists {
		raw, readErr := os.ReadFile(s.contentPath(e.ID))
		if readErr != nil {
			return nil, false, fmt.Errorf("reading snapshot content: %w", readErr)
		}
		text := string(raw)
		content = &text
		_ = os.Remove(s.contentPath(e.ID))
	}

	if len(stack) == 1 {
		delete(idx, path)
	} else {
		idx[path] = stack[:len(stack)-1]
	}
	if err := s.writeIndex(idx); err != nil {
		return nil, false, err
	}
	return content, true, nil
}

func (s *Store) contentPath(id string) string {
	return filepath.Join(s.dir, id)
}

func (s *Store) readIndex() (index, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, indexName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return index{}, nil
		}
		return nil, fmt.Errorf("reading snapshot index: %w", err)
	}
	var idx index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("parsing snapshot index: %w", err)
	}
	return idx, nil
}

func (s *Store) writeIndex(idx index) error {
	raw, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, indexName), raw, 0o644); err != nil {
		return fmt.Errorf("writing snapshot index: %w", err)
	}
	return nil
}
