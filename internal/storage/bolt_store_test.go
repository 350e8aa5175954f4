package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func openTestStore(t *testing.T, opts Options) *boltStore {
	t.Helper()
	raw, err := openBolt(filepath.Join(t.TempDir(), "nested", "session.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := raw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreSavesAndExpiresTokens(t *testing.T) {
	store := openTestStore(t, Options{TokenTTL: time.Minute, CleanupInterval: time.Hour})
	now := time.Now()
	store.now = func() time.Time { return now }

	if _, ok, err := store.Token("default"); err != nil || ok {
		t.Fatalf("expected no token, ok=%v err=%v", ok, err)
	}

	if err := store.SaveToken("default", "abc123"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	tok, ok, err := store.Token("default")
	if err != nil || !ok || tok != "abc123" {
		t.Fatalf("expected stored token, got %q ok=%v err=%v", tok, ok, err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, err := store.Token("default"); err != nil || ok {
		t.Fatalf("expected token to expire, ok=%v err=%v", ok, err)
	}
}

func TestBoltStoreCleanupSweepsExpiredProfiles(t *testing.T) {
	store := openTestStore(t, Options{TokenTTL: time.Minute, CleanupInterval: time.Second})
	now := time.Now()
	store.now = func() time.Time { return now }

	if err := store.SaveToken("old", "t1"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if err := store.SaveToken("fresh", "t2"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	var keys int
	if err := store.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(tokenBucket)).ForEach(func(_, _ []byte) error {
			keys++
			return nil
		})
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if keys != 1 {
		t.Fatalf("expected expired profile to be swept, found %d keys", keys)
	}
}

func TestBoltStoreDeleteAndValidation(t *testing.T) {
	store := openTestStore(t, Options{})

	if err := store.SaveToken("p", "tok"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if err := store.DeleteToken("p"); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if _, ok, _ := store.Token("p"); ok {
		t.Fatalf("expected token deleted")
	}
	if err := store.SaveToken(" ", "tok"); err == nil {
		t.Fatalf("expected error for empty profile")
	}
	if err := store.SaveToken("p", ""); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.SaveToken("x", "y"); err != nil {
		t.Fatalf("noop store SaveToken: %v", err)
	}
	if _, ok, _ := store.Token("x"); ok {
		t.Fatalf("noop store should not keep tokens")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
