package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Store is the persistence adapter behind the application context. Values
// are plain strings; Subscribe callbacks run after every successful Set.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	Subscribe(fn func(key string, value string)) (unsubscribe func())
}

type subscribers struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(key string, value string)
}

func (s *subscribers) add(fn func(key string, value string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[int]func(key string, value string))
	}

	id := s.nextID
	s.nextID++
	s.fns[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.fns, id)
	}
}

func (s *subscribers) publish(key string, value string) {
	s.mu.Lock()
	fns := make([]func(string, string), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key, value)
	}
}

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	subs   subscribers
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key string, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()

	m.subs.publish(key, value)
	return nil
}

func (m *MemoryStore) Subscribe(fn func(key string, value string)) func() {
	return m.subs.add(fn)
}

// FileStore keeps values in a JSON object on disk. Comments and trailing
// commas are accepted when reading so the file can be edited by hand. Every
// Set rewrites the file atomically.
type FileStore struct {
	path string

	mu     sync.RWMutex
	values map[string]string
	subs   subscribers
}

func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't read session file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return fs, nil
	}

	data, err = hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("can't parse session file: %w", err)
	}

	err = json.Unmarshal(data, &fs.values)
	if err != nil {
		return nil, fmt.Errorf("can't decode session file: %w", err)
	}

	return fs, nil
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FileStore) Set(key string, value string) error {
	f.mu.Lock()

	old, had := f.values[key]
	f.values[key] = value

	data, err := json.MarshalIndent(f.values, "", "  ")
	if err == nil {
		err = atomic.WriteFile(f.path, bytes.NewReader(data))
	}
	if err != nil {
		if had {
			f.values[key] = old
		} else {
			delete(f.values, key)
		}
		f.mu.Unlock()
		return fmt.Errorf("can't write session file: %w", err)
	}

	f.mu.Unlock()

	f.subs.publish(key, value)
	return nil
}

func (f *FileStore) Subscribe(fn func(key string, value string)) func() {
	return f.subs.add(fn)
}
