package session

import (
	"context"
	"sync"
	"time"

	"smart-fridge/internal/pkg/common"
)

// Session 一段進行中的食譜對話。
// 完整對話歷史存在這裡（AI 客戶端無狀態），所以 Session 可以
// JSON 序列化，換成 Redis 後端也不需要改任何呼叫端。
// ActiveItems 是生成當下的庫存快照，確認扣除時以它為準，
// 不再重新讀取資料庫。
type Session struct {
	UserID      string                 `json:"user_id"`
	History     []common.ChatMessage   `json:"history"`
	ActiveItems []common.InventoryItem `json:"active_items"`
	Recipe      common.RecipeDraft     `json:"recipe"`
	Revisions   int                    `json:"revisions"`
	CreatedAt   time.Time              `json:"created_at"`
}

// Store Session 儲存介面。Get 在 Session 不存在時回傳 (nil, nil)，
// 由呼叫方決定如何回報。WithLock 對同一個 userID 的操作序列化，
// 防止並發請求交錯讀寫同一段對話。
type Store interface {
	Get(ctx context.Context, userID string) (*Session, error)
	Put(ctx context.Context, userID string, s *Session) error
	Delete(ctx context.Context, userID string) error
	WithLock(ctx context.Context, userID string, fn func() error) error
	Close() error
}

// keyedMutex 按鍵分配互斥鎖，不同用戶互不阻塞
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	lock, exists := k.locks[key]
	if !exists {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}

// MemoryStore 單進程的記憶體 Session 儲存，帶 TTL。
// 多進程或多副本部署時改用 RedisStore。
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	locks    *keyedMutex
	ttl      time.Duration
	done     chan struct{}
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// NewMemoryStore 創建記憶體 Session 儲存
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]memoryEntry),
		locks:    newKeyedMutex(),
		ttl:      ttl,
		done:     make(chan struct{}),
	}

	go s.startCleanup()

	return s
}

// Get 取得 Session，不存在或已過期時回傳 (nil, nil)
func (s *MemoryStore) Get(ctx context.Context, userID string) (*Session, error) {
	s.mu.RLock()
	entry, exists := s.sessions[userID]
	s.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, userID)
		s.mu.Unlock()
		return nil, nil
	}

	return entry.session, nil
}

// Put 寫入 Session，已存在時整個取代，TTL 重新起算
func (s *MemoryStore) Put(ctx context.Context, userID string, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = memoryEntry{
		session:   sess,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete 刪除 Session，不存在時不視為錯誤
func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

// WithLock 在該用戶的鎖內執行 fn
func (s *MemoryStore) WithLock(ctx context.Context, userID string, fn func() error) error {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	return fn()
}

// Close 停止背景清理
func (s *MemoryStore) Close() error {
	close(s.done)
	return nil
}

// startCleanup 定期清掉過期 Session，避免放棄的對話累積
func (s *MemoryStore) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for userID, entry := range s.sessions {
				if now.After(entry.expiresAt) {
					delete(s.sessions, userID)
				}
			}
			s.mu.Unlock()
		}
	}
}
