package session

import (
	"context"
	"fmt"
	"time"

	"smart-fridge/internal/infrastructure/config"
	"smart-fridge/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore Redis 後端的 Session 儲存，供多副本部署使用。
// Session 本身是純資料（歷史、快照、草稿），直接以 JSON 存放。
// WithLock 只在本進程內序列化；跨進程的同用戶並發由部署層
// 的黏性路由保證。
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  *keyedMutex
}

// NewRedisStore 創建 Redis Session 儲存並驗證連線
func NewRedisStore(cfg *config.SessionConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	common.LogInfo("Redis Session 儲存已連線",
		zap.String("位址", cfg.RedisAddr),
		zap.Duration("存活時間", cfg.TTL),
	)

	return &RedisStore{
		client: client,
		ttl:    cfg.TTL,
		locks:  newKeyedMutex(),
	}, nil
}

func sessionKey(userID string) string {
	return fmt.Sprintf("chef:session:%s", userID)
}

// Get 取得 Session，不存在時回傳 (nil, nil)
func (s *RedisStore) Get(ctx context.Context, userID string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, common.WrapError(common.ErrStore, fmt.Errorf("get session: %w", err))
	}

	var sess Session
	if err := common.ParseJSON(data, &sess); err != nil {
		return nil, common.WrapError(common.ErrStore, fmt.Errorf("decode session: %w", err))
	}
	return &sess, nil
}

// Put 寫入 Session，TTL 重新起算
func (s *RedisStore) Put(ctx context.Context, userID string, sess *Session) error {
	data, err := common.ToJSON(sess)
	if err != nil {
		return common.WrapError(common.ErrStore, fmt.Errorf("encode session: %w", err))
	}

	if err := s.client.Set(ctx, sessionKey(userID), data, s.ttl).Err(); err != nil {
		return common.WrapError(common.ErrStore, fmt.Errorf("put session: %w", err))
	}
	return nil
}

// Delete 刪除 Session，不存在時不視為錯誤
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return common.WrapError(common.ErrStore, fmt.Errorf("delete session: %w", err))
	}
	return nil
}

// WithLock 在該用戶的本地鎖內執行 fn
func (s *RedisStore) WithLock(ctx context.Context, userID string, fn func() error) error {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	return fn()
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
