package staffclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StorageKey is the well-known key the session is stored under.
const StorageKey = "barangay_staff_session"

// StoredSession is the client-side copy of a staff session.
type StoredSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user,omitempty"`
}

// Store persists the current session between runs.
type Store interface {
	// Load returns nil when nothing is stored or the stored session has expired.
	Load() (*StoredSession, error)
	Save(s StoredSession) error
	Clear() error
}

// FileStore keeps the session in a JSON object on disk under StorageKey.
// Other keys in the same file are preserved.
type FileStore struct {
	path    string
	mu      sync.Mutex
	nowFunc func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, nowFunc: time.Now}
}

func (f *FileStore) Load() (*StoredSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[StorageKey]
	if !ok {
		return nil, nil
	}

	var s StoredSession
	if err := json.Unmarshal(raw, &s); err != nil || s.Token == "" || !s.ExpiresAt.After(f.nowFunc()) {
		delete(doc, StorageKey)
		return nil, f.write(doc)
	}
	return &s, nil
}

func (f *FileStore) Save(s StoredSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	doc[StorageKey] = raw
	return f.write(doc)
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := doc[StorageKey]; !ok {
		return nil
	}
	delete(doc, StorageKey)
	return f.write(doc)
}

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		// Corrupt files are treated as empty.
		return map[string]json.RawMessage{}, nil
	}
	return doc, nil
}

// write replaces the file atomically.
func (f *FileStore) write(doc map[string]json.RawMessage) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	session *StoredSession
	nowFunc func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nowFunc: time.Now}
}

func (m *MemoryStore) Load() (*StoredSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	if !m.session.ExpiresAt.After(m.nowFunc()) {
		m.session = nil
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

func (m *MemoryStore) Save(s StoredSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
