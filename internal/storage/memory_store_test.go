package storage

import (
	"testing"
	"time"
)

func TestMemoryStoreRoundTripAndExpiry(t *testing.T) {
	store, err := NewStore(TypeMemory, "", Options{TokenTTL: time.Minute})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	mem := store.(*memoryStore)
	now := time.Unix(1_700_000_000, 0)
	mem.now = func() time.Time { return now }

	if err := store.SaveToken("work", "tok-1"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if tok, ok, err := store.Token("work"); err != nil || !ok || tok != "tok-1" {
		t.Fatalf("Token = %q %v %v", tok, ok, err)
	}
	if _, ok, _ := store.Token("home"); ok {
		t.Fatalf("profiles must be isolated")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Token("work"); ok {
		t.Fatalf("expected expired token to be dropped")
	}
	if len(mem.entries) != 0 {
		t.Fatalf("expired entry should be removed on read")
	}
}

func TestMemoryStoreRejectsBadInput(t *testing.T) {
	store, _ := NewStore(TypeMemory, "", Options{})
	if err := store.SaveToken(" ", "tok"); err == nil {
		t.Fatalf("expected empty profile error")
	}
	if err := store.SaveToken("default", ""); err == nil {
		t.Fatalf("expected empty token error")
	}
	if err := store.SaveToken("default", "tok"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if err := store.DeleteToken("default"); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if _, ok, _ := store.Token("default"); ok {
		t.Fatalf("token should be gone after delete")
	}
}
