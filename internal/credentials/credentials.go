// Package credentials reads the social API credential blob from Redis, one
// lookup per promotion run.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ianfinch/blog-tweet/internal/promo"
)

// Getter is the slice of the Redis client the store needs.
type Getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

// Store looks up credentials under a fixed key.
type Store struct {
	client Getter
	key    string
}

// New creates a credential store reading the given key.
func New(client Getter, key string) *Store {
	return &Store{client: client, key: key}
}

// Get fetches and decodes the credential blob. A missing key is an error:
// the run cannot proceed without credentials.
func (s *Store) Get(ctx context.Context) (promo.Credentials, error) {
	var creds promo.Credentials

	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, goredis.Nil) {
		return creds, fmt.Errorf("no credentials stored under %q", s.key)
	}
	if err != nil {
		return creds, fmt.Errorf("read credentials: %w", err)
	}

	if err := json.Unmarshal([]byte(val), &creds); err != nil {
		return creds, fmt.Errorf("decode credentials: %w", err)
	}
	if creds.APIKey == "" || creds.AccessToken == "" {
		return promo.Credentials{}, fmt.Errorf("credentials under %q are incomplete", s.key)
	}

	return creds, nil
}
