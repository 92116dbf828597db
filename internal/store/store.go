// Package store is the persisted key-value surface the storefront keeps its
// accessibility preferences in. Values are opaque strings and must round-trip
// exactly.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Storage is a minimal string key-value store.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string)
}

// Memory is an in-process Storage used by tests and by the demo server when
// no storage path is configured.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

// File is a Storage persisted as a single JSON object on disk, written
// through on every Set.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFile opens (or creates) a file-backed store at path. A malformed file is
// not fatal: the error is returned alongside a usable empty store so startup
// can log it and continue with defaults.
func NewFile(path string) (*File, error) {
	f := &File{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("read storage file: %w", err)
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		f.values = make(map[string]string)
		return f, fmt.Errorf("parse storage file %s: %w", path, err)
	}
	return f, nil
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.flushLocked()
}

func (f *File) Remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	_ = f.flushLocked()
}

func (f *File) flushLocked() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	return nil
}
