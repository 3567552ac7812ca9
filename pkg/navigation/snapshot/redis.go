package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// farFuture scores index members of snapshots that never expire.
const farFuture = 4102444800 // 2100-01-01

// RedisStore persists snapshots in Redis: one hash per session (data and
// saved_at fields) plus a sorted-set index scored by expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	closed atomic.Bool
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL expires snapshots after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix namespaces keys. A trailing ":" is added when missing.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix == "" {
			return
		}
		if !strings.HasSuffix(prefix, ":") {
			prefix += ":"
		}
		s.prefix = prefix
	}
}

// NewRedisStore connects to the Redis server at addr.
func NewRedisStore(addr string, opts ...RedisOption) *RedisStore {
	return NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: addr}), opts...)
}

// NewRedisStoreFromClient creates a store on an existing client. Close
// closes the client.
func NewRedisStoreFromClient(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "navigation:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + "session:" + sessionID
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "index"
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, sessionID string, data []byte) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	score := float64(farFuture)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "data", data, "saved_at", time.Now().UTC().Format(time.RFC3339Nano))
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: score, Member: sessionID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	data, err := s.client.HGet(ctx, s.key(sessionID), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return data, nil
}

// List implements Store. Expired sessions are pruned from the index first.
func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	now := fmt.Sprintf("%d", time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", now).Err(); err != nil {
		return nil, fmt.Errorf("prune snapshot index: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	pipe := s.client.Pipeline()
	fields := make([]*redis.SliceCmd, len(ids))
	for i, id := range ids {
		fields[i] = pipe.HMGet(ctx, s.key(id), "saved_at", "data")
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("stat snapshots: %w", err)
		}
	}

	infos := make([]Info, 0, len(ids))
	for i, id := range ids {
		vals := fields[i].Val()
		savedAt, _ := vals[0].(string)
		data, ok := vals[1].(string)
		if !ok {
			// key expired before the index caught up
			continue
		}
		info := Info{SessionID: id, Size: int64(len(data))}
		info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		infos = append(infos, info)
	}
	sortInfos(infos)
	return infos, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(sessionID))
	pipe.ZRem(ctx, s.indexKey(), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.client.Close()
}
