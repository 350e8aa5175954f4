package storage

import (
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	token  string
	expiry time.Time
}

// memoryStore is a process-local TokenStore with the same expiry rules as boltStore.
type memoryStore struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	tokenTTL time.Duration
	now      func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		entries:  make(map[string]memoryEntry),
		tokenTTL: opts.TokenTTL,
		now:      time.Now,
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) SaveToken(profile, token string) error {
	key, err := profileKey(profile)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("token is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, e := range m.entries {
		if !e.expiry.After(now) {
			delete(m.entries, k)
		}
	}
	m.entries[string(key)] = memoryEntry{token: token, expiry: now.Add(m.tokenTTL)}
	return nil
}

func (m *memoryStore) Token(profile string) (string, bool, error) {
	key, err := profileKey(profile)
	if err != nil {
		return "", false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[string(key)]
	if !ok {
		return "", false, nil
	}
	if !e.expiry.After(m.now()) {
		delete(m.entries, string(key))
		return "", false, nil
	}
	return e.token, true, nil
}

func (m *memoryStore) DeleteToken(profile string) error {
	key, err := profileKey(profile)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.entries, string(key))
	m.mu.Unlock()
	return nil
}
