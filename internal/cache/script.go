// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// script.go provides a Valkey-backed store of compiled templates (L2).
// Instances behind the same Valkey share compiled output, so a template is
// compiled once per fleet rather than once per process. Writes never
// overwrite an existing entry.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// scriptKeyPrefix is the Valkey key prefix for compiled templates.
	scriptKeyPrefix = "soyjs:"

	// DefaultScriptTTL is how long a compiled template stays in Valkey.
	DefaultScriptTTL = 24 * time.Hour
)

// ScriptStore keeps compiled JavaScript in Valkey, keyed by template path.
type ScriptStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScriptStore creates a store backed by the given Valkey client.
func NewScriptStore(client *redis.Client, ttl time.Duration) *ScriptStore {
	if ttl == 0 {
		ttl = DefaultScriptTTL
	}
	return &ScriptStore{client: client, ttl: ttl}
}

// Get retrieves the compiled source for a template path. A missing key is
// reported as ok == false with a nil error.
func (s *ScriptStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, ScriptKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("script store get %s: %w", key, err)
	}
	slog.Debug("script store hit", "key", key)
	return val, true, nil
}

// PutIfAbsent stores src unless the key already holds a value.
func (s *ScriptStore) PutIfAbsent(ctx context.Context, key, src string) error {
	stored, err := s.client.SetNX(ctx, ScriptKey(key), src, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("script store put %s: %w", key, err)
	}
	slog.Debug("script store put", "key", key, "stored", stored)
	return nil
}

// ScriptKey returns the Valkey key for a template path.
func ScriptKey(path string) string {
	return scriptKeyPrefix + path
}
