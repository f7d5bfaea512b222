// Package persist binds in-memory collections to named slots in a durable
// key-value backend. Reads fail soft to a default value and write failures
// are logged and swallowed, so the in-memory value is always authoritative
// for the running session.
package persist

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
)

// Backend is the durable key-value capability a Slot persists through.
// Implemented by storage.Store.
type Backend interface {
	Load(key string) (value string, ok bool, err error)
	Save(key, value string) error
}

// Load returns the value stored under key decoded as T, or def when the key
// is absent, the backend read fails, or the document cannot be decoded.
func Load[T any](b Backend, key string, def T) T {
	raw, ok, err := b.Load(key)
	if err != nil {
		slog.Warn("loading slot failed, using default", "key", key, "error", err)
		return def
	}
	trimmed := bytes.TrimSpace([]byte(raw))
	if !ok || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return def
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		slog.Warn("slot holds malformed data, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Save encodes v and writes it under key. It reports whether the write
// succeeded; failures are logged, never returned.
func Save[T any](b Backend, key string, v T) bool {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("encoding slot failed", "key", key, "error", err)
		return false
	}
	if err := b.Save(key, string(data)); err != nil {
		slog.Warn("saving slot failed, keeping in-memory value", "key", key, "error", err)
		return false
	}
	return true
}

// Slot is an in-memory value of type T mirrored to one backend key.
// Every Set or effective Update is written through before it returns.
type Slot[T any] struct {
	backend Backend
	key     string

	mu    sync.Mutex
	value T
}

// Open loads key from b (falling back to def) and returns the bound slot.
func Open[T any](b Backend, key string, def T) *Slot[T] {
	return &Slot[T]{
		backend: b,
		key:     key,
		value:   Load(b, key, def),
	}
}

// Key returns the backend key the slot is bound to.
func (s *Slot[T]) Key() string { return s.key }

// Get returns the current value. Callers must treat it as read-only.
func (s *Slot[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the value and persists it.
func (s *Slot[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	Save(s.backend, s.key, v)
}

// Update applies fn to the current value. When fn reports a change the new
// value replaces the old one and is persisted. Update returns fn's verdict.
func (s *Slot[T]) Update(fn func(T) (T, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed := fn(s.value)
	if !changed {
		return false
	}
	s.value = next
	Save(s.backend, s.key, next)
	return true
}

// Reload discards the in-memory value and re-reads the slot, falling back to def.
func (s *Slot[T]) Reload(def T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = Load(s.backend, s.key, def)
}
