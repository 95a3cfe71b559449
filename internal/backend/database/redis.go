package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisFieldName        = "name"
	redisFieldData        = "data"
	redisFieldContentType = "contentType"
)

// RedisDatabase keeps every image in its own hash under "<prefix>:<id>".
type RedisDatabase struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisDatabase accepts either a redis:// URL or a plain host:port address.
func NewRedisDatabase(ctx context.Context, connectionString, keyPrefix string) (DatabaseService, error) {
	opts, err := parseRedisOptions(connectionString)
	if err != nil {
		return nil, err
	}
	if keyPrefix == "" {
		keyPrefix = "images"
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisDatabase{client: rdb, keyPrefix: keyPrefix}, nil
}

func parseRedisOptions(connectionString string) (*redis.Options, error) {
	if strings.HasPrefix(connectionString, "redis://") || strings.HasPrefix(connectionString, "rediss://") {
		opts, err := redis.ParseURL(connectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		return opts, nil
	}
	if connectionString == "" {
		connectionString = "localhost:6379"
	}
	return &redis.Options{Addr: connectionString}, nil
}

func (r *RedisDatabase) key(id string) string {
	return r.keyPrefix + ":" + id
}

// CreateDatabase is a no-op, redis creates keys on first write.
func (r *RedisDatabase) CreateDatabase(ctx context.Context) error {
	return nil
}

func (r *RedisDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisDatabase) Close() error {
	return r.client.Close()
}

func (r *RedisDatabase) CreateImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	id := generateID()
	if data == nil {
		data = []byte{}
	}

	// A single HSET writes all fields at once
	err := r.client.HSet(ctx, r.key(id), map[string]any{
		redisFieldName:        name,
		redisFieldData:        data,
		redisFieldContentType: contentType,
	}).Err()
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return id, nil
}

func (r *RedisDatabase) GetImageByID(ctx context.Context, id string) (*ImageRecord, error) {
	id, ok := normalizeID(id)
	if !ok {
		return nil, ErrNotFound
	}

	fields, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get image %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	return &ImageRecord{
		ID:          id,
		Name:        fields[redisFieldName],
		Data:        []byte(fields[redisFieldData]),
		ContentType: fields[redisFieldContentType],
	}, nil
}
