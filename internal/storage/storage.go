package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage keeps session tokens on behalf of the CLI caller.
// "bbolt" survives across invocations; "memory" lives as long as the process,
// which suits watch loops and demo runs.

// Supported store types.
const (
	TypeNone   = "none"
	TypeMemory = "memory"
	TypeBolt   = "bbolt"
)

// TokenStore persists bearer tokens per profile.
type TokenStore interface {
	Close() error
	SaveToken(profile, token string) error
	Token(profile string) (string, bool, error)
	DeleteToken(profile string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TokenTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTokenTTL        = 30 * time.Minute
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (TokenStore, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeMemory:
		return newMemoryStore(opts), nil
	case TypeBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                       { return nil }
func (noopStore) SaveToken(string, string) error     { return nil }
func (noopStore) Token(string) (string, bool, error) { return "", false, nil }
func (noopStore) DeleteToken(string) error           { return nil }
