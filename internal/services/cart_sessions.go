package services

import (
	"context"
	"sync"
	"time"

	"storefront-backend/internal/repositories"

	"go.uber.org/zap"
)

// CartSessions owns exactly one CartStore per cart session. It is built once
// by the composition root and handed to the services that need carts.
type CartSessions struct {
	mu     sync.Mutex
	stores map[string]*CartStore
	repo   repositories.CartRepository
	logger *zap.Logger
}

func NewCartSessions(repo repositories.CartRepository, logger *zap.Logger) *CartSessions {
	if repo == nil {
		panic("services: NewCartSessions requires a cart repository")
	}
	return &CartSessions{
		stores: make(map[string]*CartStore),
		repo:   repo,
		logger: logger,
	}
}

// Get returns the store for a session, creating and restoring it on first use.
// The restore runs outside the registry lock; when two first uses race, the
// store inserted first wins.
func (r *CartSessions) Get(ctx context.Context, sessionID string) *CartStore {
	r.mu.Lock()
	store, ok := r.stores[sessionID]
	r.mu.Unlock()
	if ok {
		return store
	}

	store = NewCartStore(ctx, sessionID, r.repo, r.logger)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.stores[sessionID]; ok {
		return existing
	}
	r.stores[sessionID] = store
	return store
}

func (r *CartSessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// EvictIdle drops stores that have not been used for at least idle.
func (r *CartSessions) EvictIdle(now time.Time, idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, store := range r.stores {
		if now.Sub(store.LastAccess()) >= idle {
			delete(r.stores, id)
			evicted++
		}
	}
	return evicted
}

// CartJanitor periodically evicts idle cart stores from memory.
type CartJanitor struct {
	sessions *CartSessions
	interval time.Duration
	idle     time.Duration
	logger   *zap.Logger

	ticker   *time.Ticker
	stopChan chan struct{}
	done     chan struct{}
}

func NewCartJanitor(sessions *CartSessions, interval, idle time.Duration, logger *zap.Logger) *CartJanitor {
	return &CartJanitor{
		sessions: sessions,
		interval: interval,
		idle:     idle,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (j *CartJanitor) Start() {
	j.ticker = time.NewTicker(j.interval)

	go func() {
		defer close(j.done)
		for {
			select {
			case now := <-j.ticker.C:
				j.sweep(now)
			case <-j.stopChan:
				return
			}
		}
	}()

	j.logger.Info("cart janitor started",
		zap.Duration("interval", j.interval),
		zap.Duration("idle_timeout", j.idle))
}

func (j *CartJanitor) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.stopChan)
	if j.ticker != nil {
		<-j.done
	}
	j.logger.Info("cart janitor stopped")
}

func (j *CartJanitor) sweep(now time.Time) {
	if evicted := j.sessions.EvictIdle(now, j.idle); evicted > 0 {
		j.logger.Info("evicted idle carts",
			zap.Int("evicted", evicted),
			zap.Int("remaining", j.sessions.Len()))
	}
}
