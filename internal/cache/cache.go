// Package cache provides the activity cache used to reuse fetch results
// between runs that ask for the same owner, window and profile.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores JSON-serializable values by key.
type Cache interface {
	// Get decodes the cached value for key into value.
	Get(ctx context.Context, key string, value any) error
	// Set stores value under key.
	Set(ctx context.Context, key string, value any) error
}

// KeyBuilder joins key parts with a prefix so different callers do not collide.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a KeyBuilder whose keys all start with prefix.
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{prefix: prefix}
}

// Build returns prefix:part1:part2:...
func (b *KeyBuilder) Build(parts ...any) string {
	var sb strings.Builder
	sb.WriteString(b.prefix)
	for _, part := range parts {
		sb.WriteByte(':')
		fmt.Fprint(&sb, part)
	}
	return sb.String()
}
