package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrUnavailable is returned when a collection file cannot be read or
// written. The previous on-disk state is always left intact on failure.
var ErrUnavailable = errors.New("storage unavailable")

// Store manages a directory of named JSON collections. Each collection is a
// single file holding a JSON array of records and is guarded by its own
// reader/writer lock, so writers to one collection never block another.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory %q: %w: %v", dir, ErrUnavailable, err)
	}
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.RWMutex),
	}, nil
}

// Dir returns the directory holding the collection files.
func (s *Store) Dir() string {
	return s.dir
}

// lock returns the lock guarding the named collection, creating it on first
// use.
func (s *Store) lock(name string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[name] = l
	}
	return l
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Snapshot copies every registered collection file into dstDir. Each copy is
// made under the collection's read lock, so a snapshot never observes a
// write in progress. Collections that have never been written are skipped.
func (s *Store) Snapshot(dstDir string) error {
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("create snapshot directory %q: %w: %v", dstDir, ErrUnavailable, err)
	}

	s.mu.Lock()
	names := make([]string, 0, len(s.locks))
	for name := range s.locks {
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)

	for _, name := range names {
		if err := s.copyCollection(name, dstDir); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) copyCollection(name, dstDir string) error {
	l := s.lock(name)
	l.RLock()
	defer l.RUnlock()

	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read collection %q: %w: %v", name, ErrUnavailable, err)
	}
	dst := filepath.Join(dstDir, name+".json")
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write snapshot of collection %q: %w: %v", name, ErrUnavailable, err)
	}
	return nil
}

// Collection is a typed view over one named JSON array file. All mutations
// rewrite the whole file; an exclusive lock serializes them so concurrent
// writers cannot lose each other's updates.
type Collection[T any] struct {
	store *Store
	name  string
}

// NewCollection binds a typed collection to the store. Registering the name
// up front makes the collection visible to Snapshot even before first write.
func NewCollection[T any](s *Store, name string) *Collection[T] {
	s.lock(name)
	return &Collection[T]{store: s, name: name}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Load returns all records in stored order. A collection that has never been
// written reads as empty rather than erroring.
func (c *Collection[T]) Load() ([]T, error) {
	l := c.store.lock(c.name)
	l.RLock()
	defer l.RUnlock()
	return c.readLocked()
}

// Append adds one record at the end and persists the whole collection.
func (c *Collection[T]) Append(record T) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	records, err := c.readLocked()
	if err != nil {
		return err
	}
	return c.writeLocked(append(records, record))
}

// ReplaceAll persists the given records as the new full collection contents.
func (c *Collection[T]) ReplaceAll(records []T) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()
	return c.writeLocked(records)
}

// Mutate runs fn over the current records and persists its result, all under
// the collection's exclusive lock. This is the read-modify-write primitive:
// the load, the transformation and the write happen in one critical section,
// so no concurrent mutation can interleave. If fn returns an error, nothing
// is written and the error is returned unchanged.
func (c *Collection[T]) Mutate(fn func(records []T) ([]T, error)) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	records, err := c.readLocked()
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return c.writeLocked(updated)
}

// Find returns the first record (in stored order) satisfying pred.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool, error) {
	var zero T
	records, err := c.Load()
	if err != nil {
		return zero, false, err
	}
	for _, r := range records {
		if pred(r) {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// Filter returns all records satisfying pred, stored order preserved.
func (c *Collection[T]) Filter(pred func(T) bool) ([]T, error) {
	records, err := c.Load()
	if err != nil {
		return nil, err
	}
	matched := make([]T, 0, len(records))
	for _, r := range records {
		if pred(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// readLocked reads and decodes the collection file. Callers must hold the
// collection lock.
func (c *Collection[T]) readLocked() ([]T, error) {
	data, err := os.ReadFile(c.store.path(c.name))
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %q: %w: %v", c.name, ErrUnavailable, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode collection %q: %w: %v", c.name, ErrUnavailable, err)
	}
	return records, nil
}

// writeLocked encodes records to a temp file in the same directory and
// renames it over the collection file. The rename is atomic, so a failure at
// any point leaves the previous contents fully intact. Callers must hold the
// collection lock exclusively.
func (c *Collection[T]) writeLocked(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w: %v", c.name, ErrUnavailable, err)
	}

	tmp, err := os.CreateTemp(c.store.dir, c.name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write collection %q: %w: %v", c.name, ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write collection %q: %w: %v", c.name, ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write collection %q: %w: %v", c.name, ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, c.store.path(c.name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write collection %q: %w: %v", c.name, ErrUnavailable, err)
	}
	return nil
}
