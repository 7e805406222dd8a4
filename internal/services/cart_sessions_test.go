package services

import (
	"context"
	"testing"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartSessions_RequiresRepository(t *testing.T) {
	assert.Panics(t, func() { NewCartSessions(nil, logger.NewNop()) })
}

func TestCartSessions_OneStorePerSession(t *testing.T) {
	ctx := context.Background()
	sessions := NewCartSessions(newMemCartRepo(), logger.NewNop())

	a1 := sessions.Get(ctx, "a")
	a2 := sessions.Get(ctx, "a")
	b := sessions.Get(ctx, "b")

	assert.Same(t, a1, a2)
	assert.Equal(t, "a", a1.sessionID)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 2, sessions.Len())

	a1.AddItem(ctx, vape("v", 10, 0), 1)
	assert.Empty(t, b.Snapshot().Items)
}

func TestCartSessions_EvictedStoreRestoresFromStorage(t *testing.T) {
	ctx := context.Background()
	sessions := NewCartSessions(newMemCartRepo(), logger.NewNop())
	first := sessions.Get(ctx, "a")
	first.AddItem(ctx, vape("v", 10, 0), 3)

	require.Equal(t, 1, sessions.EvictIdle(time.Now().Add(time.Hour), time.Minute))
	second := sessions.Get(ctx, "a")

	assert.NotSame(t, first, second)
	assert.Equal(t, 3, second.Snapshot().TotalItems)
}

func TestCartSessions_CancelledFirstRequestKeepsPersistedCart(t *testing.T) {
	repo := newMemCartRepo()
	seed := NewCartStore(context.Background(), "a", repo, logger.NewNop())
	seed.AddItem(context.Background(), qpFlower("q", 400, 0), 5)

	sessions := NewCartSessions(repo, logger.NewNop())
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	store := sessions.Get(cancelled, "a")
	require.Len(t, store.Snapshot().Items, 1)

	store.AddItem(cancelled, vape("v", 30, 0), 1)

	restored, err := repo.LoadItems(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, restored, 2)
	assert.Equal(t, "q", restored[0].ID)
	assert.Equal(t, 5, restored[0].Quantity)
}

// blockingCartRepo holds LoadItems for one session until released.
type blockingCartRepo struct {
	*memCartRepo
	slowID  string
	entered chan struct{}
	release chan struct{}
}

func (r *blockingCartRepo) LoadItems(ctx context.Context, sessionID string) ([]models.LineItem, error) {
	if sessionID == r.slowID {
		r.entered <- struct{}{}
		<-r.release
	}
	return r.memCartRepo.LoadItems(ctx, sessionID)
}

func TestCartSessions_SlowRestoreDoesNotBlockOtherSessions(t *testing.T) {
	repo := &blockingCartRepo{
		memCartRepo: newMemCartRepo(),
		slowID:      "slow",
		entered:     make(chan struct{}, 1),
		release:     make(chan struct{}),
	}
	sessions := NewCartSessions(repo, logger.NewNop())
	ctx := context.Background()

	slow := make(chan *CartStore, 1)
	go func() { slow <- sessions.Get(ctx, "slow") }()
	<-repo.entered

	fast := make(chan *CartStore, 1)
	go func() { fast <- sessions.Get(ctx, "fast") }()
	select {
	case store := <-fast:
		assert.NotNil(t, store)
	case <-time.After(time.Second):
		t.Fatal("registry blocked behind another session's restore")
	}
	assert.Equal(t, 0, sessions.EvictIdle(time.Now(), time.Hour))

	close(repo.release)
	store := <-slow
	assert.Same(t, store, sessions.Get(ctx, "slow"))
	assert.Equal(t, 2, sessions.Len())
}

func TestCartSessions_EvictIdle(t *testing.T) {
	ctx := context.Background()
	sessions := NewCartSessions(newMemCartRepo(), logger.NewNop())
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stale := sessions.Get(ctx, "stale")
	stale.mu.Lock()
	stale.lastAccess = start
	stale.mu.Unlock()

	fresh := sessions.Get(ctx, "fresh")
	fresh.mu.Lock()
	fresh.lastAccess = start.Add(50 * time.Minute)
	fresh.mu.Unlock()

	evicted := sessions.EvictIdle(start.Add(time.Hour), 30*time.Minute)

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, sessions.Len())
	assert.Same(t, fresh, sessions.Get(ctx, "fresh"))
}

func TestCartJanitor_StartStop(t *testing.T) {
	ctx := context.Background()
	sessions := NewCartSessions(newMemCartRepo(), logger.NewNop())
	store := sessions.Get(ctx, "old")
	store.mu.Lock()
	store.lastAccess = time.Now().Add(-time.Hour)
	store.mu.Unlock()

	janitor := NewCartJanitor(sessions, 5*time.Millisecond, time.Minute, logger.NewNop())
	janitor.Start()

	assert.Eventually(t, func() bool { return sessions.Len() == 0 }, time.Second, 5*time.Millisecond)
	janitor.Stop()
}
