package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed document store. Documents are stored as JSON
// values under a configurable key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "refiler:doc:"

// NewRedisStore creates a Redis store with an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// NewRedisStoreFromURL creates a Redis store from a Redis URL.
// URL format: redis://[user[:password]@]host[:port][/db][?option=value]
func NewRedisStoreFromURL(redisURL, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts), prefix), nil
}

// Get returns the document with the given ID, or ErrNotFound.
func (rs *RedisStore) Get(ctx context.Context, id string) (*Document, error) {
	data, err := rs.client.Get(ctx, rs.makeKey(id)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// Put creates or replaces a document.
func (rs *RedisStore) Put(ctx context.Context, doc *Document) error {
	docCopy := *doc
	if docCopy.UpdatedAt.IsZero() {
		docCopy.UpdatedAt = time.Now()
	}

	data, err := json.Marshal(&docCopy)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := rs.client.Set(ctx, rs.makeKey(docCopy.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes a document.
func (rs *RedisStore) Delete(ctx context.Context, id string) error {
	if err := rs.client.Del(ctx, rs.makeKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// List returns all document IDs under the configured prefix.
func (rs *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := rs.client.Scan(ctx, 0, rs.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(rs.prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan failed: %w", err)
	}
	return ids, nil
}

// Close closes the Redis connection.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

// Ping checks if the Redis connection is healthy.
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// makeKey creates a Redis key with the configured prefix.
func (rs *RedisStore) makeKey(id string) string {
	return rs.prefix + id
}
