package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"resortAdmin/internal/modules/admin/application/port"
)

// MemorySessionStore keeps session values in process. Used by tests and by the
// server when no Redis address is configured.
type MemorySessionStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{values: make(map[string]string)}
}

func (s *MemorySessionStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemorySessionStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FileSessionStore persists session values as a JSON object on disk. The
// command-line client keeps its token here between invocations.
type FileSessionStore struct {
	path string
	mu   sync.Mutex
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: strings.TrimSpace(path)}
}

func (s *FileSessionStore) Path() string { return s.path }

func (s *FileSessionStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.readLocked()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (s *FileSessionStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.readLocked()
	if err != nil {
		return err
	}
	values[key] = value
	return s.writeLocked(values)
}

func (s *FileSessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.readLocked()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.writeLocked(values)
}

func (s *FileSessionStore) readLocked() (map[string]string, error) {
	values := make(map[string]string)
	if s.path == "" {
		return nil, fmt.Errorf("%w: no session file configured", port.ErrSessionStoreUnavailable)
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrSessionStoreUnavailable, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", port.ErrSessionStoreUnavailable, s.path, err)
	}
	return values, nil
}

func (s *FileSessionStore) writeLocked(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// StoreTokenProvider reads the admin token from a session store under a fixed key.
type StoreTokenProvider struct {
	store port.SessionStore
	key   string
}

func NewStoreTokenProvider(store port.SessionStore, key string) *StoreTokenProvider {
	return &StoreTokenProvider{store: store, key: strings.TrimSpace(key)}
}

// Token treats a storage failure as a missing token.
func (p *StoreTokenProvider) Token(ctx context.Context) (string, bool) {
	if p == nil || p.store == nil || p.key == "" {
		return "", false
	}
	value, ok, err := p.store.Get(ctx, p.key)
	if err != nil {
		slog.Warn("session token read failed", slog.String("key", p.key), slog.Any("error", err))
		return "", false
	}
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// StaticTokenProvider serves a token supplied directly with the request.
type StaticTokenProvider string

func (p StaticTokenProvider) Token(context.Context) (string, bool) {
	token := strings.TrimSpace(string(p))
	return token, token != ""
}

// SessionKey composes the per-session key the login flow writes the token under.
func SessionKey(sessionID, tokenKey string) string {
	sessionID = strings.TrimSpace(sessionID)
	tokenKey = strings.TrimSpace(tokenKey)
	if sessionID == "" {
		return tokenKey
	}
	return sessionID + ":" + tokenKey
}

var (
	_ port.SessionStore         = (*MemorySessionStore)(nil)
	_ port.SessionStore         = (*FileSessionStore)(nil)
	_ port.SessionTokenProvider = (*StoreTokenProvider)(nil)
	_ port.SessionTokenProvider = StaticTokenProvider("")
)
