package naslstorage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
)

// RedisConfig configures RedisStorage, following the teacher's
// internal/web/cache.RedisConfig shape.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DefaultRedisConfig mirrors the teacher's DefaultRedisConfig default
// target.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{Addr: "localhost:6379", DB: 0}
}

// RedisStorage implements naslregister.Storage against a redis
// instance. KB items are stored as a redis list per (scriptKey, name)
// pair so that multiple dispatched values survive for get_kb_item's
// Fork semantics (spec §4.3.1 scenario 5); NVT fields and description
// markers are stored as plain keys.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage dials config.Addr and verifies the connection with a
// bounded Ping, the way the teacher's NewRedisCacheWithConfig does.
func NewRedisStorage(config RedisConfig) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, &naslerr.StorageError{Kind: naslerr.StorageFatal, Err: err}
	}
	return &RedisStorage{client: client}, nil
}

// NewRedisStorageWithClient wraps an already-constructed client, used
// by tests against miniredis.
func NewRedisStorageWithClient(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (s *RedisStorage) Dispatch(key string, field naslregister.Field) error {
	ctx := context.Background()
	if err := s.client.RPush(ctx, kbRedisKey(key, field.Name), encodeValue(field.Value)).Err(); err != nil {
		return wrapRedisErr(err)
	}
	return nil
}

func (s *RedisStorage) DispatchReplace(key string, field naslregister.Field) error {
	ctx := context.Background()
	rk := kbRedisKey(key, field.Name)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, rk)
	pipe.RPush(ctx, rk, encodeValue(field.Value))
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapRedisErr(err)
	}
	return nil
}

func (s *RedisStorage) Retrieve(key string, r naslregister.Retrieve) ([]naslregister.Field, error) {
	if r.Kind != naslregister.RetrieveKB {
		return nil, &naslerr.StorageError{Kind: naslerr.StorageFatal, Err: errors.New("redis storage only retrieves KB items")}
	}
	ctx := context.Background()
	raw, err := s.client.LRange(ctx, kbRedisKey(key, r.Name), 0, -1).Result()
	if err != nil {
		return nil, wrapRedisErr(err)
	}
	out := make([]naslregister.Field, len(raw))
	for i, v := range raw {
		out[i] = naslregister.Field{Name: r.Name, Value: decodeValue(v)}
	}
	return out, nil
}

func (s *RedisStorage) DescriptionScriptFinished(key string) error {
	ctx := context.Background()
	if err := s.client.Set(ctx, "naslrun:desc_done:"+key, "1", 0).Err(); err != nil {
		return wrapRedisErr(err)
	}
	return nil
}

func (s *RedisStorage) CacheNVTField(key string, field naslregister.Field) error {
	ctx := context.Background()
	if err := s.client.Set(ctx, "naslrun:nvt:"+key+":"+field.Name, encodeValue(field.Value), 0).Err(); err != nil {
		return wrapRedisErr(err)
	}
	return nil
}

// FeedVersion reads back the version CacheNVTField published under the
// "version" field name for plugin_feed_info.inc's script key.
func (s *RedisStorage) FeedVersion(key string) (string, bool, error) {
	ctx := context.Background()
	raw, err := s.client.Get(ctx, "naslrun:nvt:"+key+":version").Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapRedisErr(err)
	}
	return decodeValue(raw).String(), true, nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}

func wrapRedisErr(err error) error {
	if errors.Is(err, redis.ErrClosed) || errors.Is(err, context.DeadlineExceeded) {
		return &naslerr.StorageError{Kind: naslerr.StorageRetry, Err: err}
	}
	return &naslerr.StorageError{Kind: naslerr.StorageFatal, Err: err}
}
