package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"smart-fridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(userID string) *Session {
	return &Session{
		UserID: userID,
		History: []common.ChatMessage{
			{Role: common.RoleSystem, Content: "persona"},
		},
		Recipe:    common.RecipeDraft{Parsed: &common.ParsedRecipe{RecipeName: "שקשוקה"}},
		CreatedAt: time.Now(),
	}
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	// 不存在時回傳 (nil, nil)
	sess, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, store.Put(ctx, "user-1", testSession("user-1")))

	sess, err = store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "שקשוקה", sess.Recipe.Parsed.RecipeName)

	require.NoError(t, store.Delete(ctx, "user-1"))
	sess, err = store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemoryStoreReplacesExisting(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	first := testSession("user-1")
	require.NoError(t, store.Put(ctx, "user-1", first))

	second := testSession("user-1")
	second.Recipe = common.RecipeDraft{Parsed: &common.ParsedRecipe{RecipeName: "פסטה"}}
	require.NoError(t, store.Put(ctx, "user-1", second))

	sess, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "פסטה", sess.Recipe.Parsed.RecipeName)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "user-1", testSession("user-1")))
	time.Sleep(20 * time.Millisecond)

	sess, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemoryStoreDeleteMissingNotError(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	assert.NoError(t, store.Delete(context.Background(), "ghost"))
}

func TestWithLockSerializesPerUser(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	// 同一用戶的並發操作必須序列化：沒有鎖會交錯覆寫計數
	sess := testSession("user-1")
	sess.Revisions = 0
	require.NoError(t, store.Put(ctx, "user-1", sess))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithLock(ctx, "user-1", func() error {
				current, err := store.Get(ctx, "user-1")
				if err != nil || current == nil {
					return err
				}
				current.Revisions++
				return store.Put(ctx, "user-1", current)
			})
		}()
	}
	wg.Wait()

	final, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, 50, final.Revisions)
}

func TestWithLockDifferentUsersIndependent(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	done := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = store.WithLock(context.Background(), "user-a", func() error {
			close(done)
			<-release
			return nil
		})
	}()

	<-done
	// user-a 持鎖期間 user-b 不被阻塞
	finished := make(chan struct{})
	go func() {
		_ = store.WithLock(context.Background(), "user-b", func() error {
			return nil
		})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("lock for a different user should not block")
	}
	close(release)
}
