package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// sessionFileName is the well-known name of the persisted session record.
// Absence of the file means "signed out".
const sessionFileName = "session.json"

// Keyring is the persisted-session port: durable storage for exactly one
// serialized Session record.
type Keyring interface {
	Get() (*Session, error)
	Set(s *Session) error
	Clear() error
}

// FileKeyring persists the session as a JSON file. A single active
// process is assumed; writes are last-write-wins.
type FileKeyring struct {
	path string
}

// NewFileKeyring stores the session at path. An empty path selects
// <user config dir>/pfcopilot/session.json.
func NewFileKeyring(path string) (*FileKeyring, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}

		path = filepath.Join(configDir, "pfcopilot", sessionFileName)
	}

	return &FileKeyring{path: path}, nil
}

func (k *FileKeyring) Get() (*Session, error) {
	raw, err := os.ReadFile(k.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}

	return &s, nil
}

func (k *FileKeyring) Set(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(k.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(k.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	return nil
}

func (k *FileKeyring) Clear() error {
	err := os.Remove(k.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	return nil
}

// MemoryKeyring holds the session in memory. Used by tests.
type MemoryKeyring struct {
	mu sync.Mutex
	s  *Session
}

func (k *MemoryKeyring) Get() (*Session, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.s == nil {
		return nil, nil
	}

	copied := *k.s

	return &copied, nil
}

func (k *MemoryKeyring) Set(s *Session) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	copied := *s
	k.s = &copied

	return nil
}

func (k *MemoryKeyring) Clear() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.s = nil

	return nil
}
