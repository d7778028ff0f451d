package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const (
	// DefaultSlot is the slot the access token is kept in.
	DefaultSlot = "accessToken"

	// DefaultRefreshSlot is the slot the refresh token is kept in.
	DefaultRefreshSlot = "refreshToken"

	// DefaultTTL is how long a stored token is considered usable when the
	// server does not say otherwise.
	DefaultTTL = time.Hour
)

// Store keeps credentials in named, expiring slots. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the value of a slot. Expired slots read as absent.
	Get(name string) (string, bool)

	// Set stores value in a slot for ttl. A non-positive ttl never expires.
	Set(name, value string, ttl time.Duration) error

	// Delete clears a slot. Clearing an absent slot is not an error.
	Delete(name string) error
}

type slot struct {
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

func (s slot) expired(now time.Time) bool {
	return !s.Expires.IsZero() && !now.Before(s.Expires)
}

func newSlot(value string, ttl time.Duration, now time.Time) slot {
	s := slot{Value: value}
	if ttl > 0 {
		s.Expires = now.Add(ttl)
	}
	return s
}

// MemoryStore keeps slots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]slot
	now   func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[string]slot{}, now: time.Now}
}

func (m *MemoryStore) Get(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[name]
	if !ok || s.expired(m.now()) || s.Value == "" {
		return "", false
	}
	return s.Value, true
}

func (m *MemoryStore) Set(name, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = newSlot(value, ttl, m.now())
	return nil
}

func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, name)
	return nil
}

// FileStore keeps each slot in its own JSON file under a directory. Files
// are written with 0600 permissions since they hold bearer credentials.
type FileStore struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewFileStore returns a store rooted at dir on fs. A nil fs means the
// operating system filesystem.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileStore{fs: fs, dir: dir, now: time.Now}
}

func (f *FileStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid slot name %q", name)
	}
	return filepath.Join(f.dir, name+".json"), nil
}

func (f *FileStore) Get(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.path(name)
	if err != nil {
		return "", false
	}
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", false
	}
	var s slot
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	if s.expired(f.now()) || s.Value == "" {
		return "", false
	}
	return s.Value, true
}

func (f *FileStore) Set(name, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.path(name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(newSlot(value, ttl, f.now()))
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", name, err)
	}
	if err := f.fs.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := afero.WriteFile(f.fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", name, err)
	}
	return nil
}

func (f *FileStore) Delete(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.path(name)
	if err != nil {
		return err
	}
	if err := f.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove slot %s: %w", name, err)
	}
	return nil
}
