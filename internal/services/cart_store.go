package services

import (
	"context"
	"sync"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/internal/repositories"

	"go.uber.org/zap"
)

const cartRepoTimeout = 3 * time.Second

// CartStore owns the cart state of one session. Every dispatch runs under the
// store mutex and finishes its state update, totals recomputation and
// persistence write before the next dispatch starts.
type CartStore struct {
	mu        sync.Mutex
	sessionID string
	state     models.CartState
	repo      repositories.CartRepository
	logger    *zap.Logger

	version         uint64
	cachedVersion   uint64
	cachedBreakdown *models.CostBreakdown

	lastAccess time.Time
	now        func() time.Time

	// checkoutMu is held for a whole checkout, from snapshot to clear.
	checkoutMu sync.Mutex
}

// NewCartStore builds the store for a session and restores the persisted item
// list once. Missing or unreadable data leaves the cart empty.
func NewCartStore(ctx context.Context, sessionID string, repo repositories.CartRepository, logger *zap.Logger) *CartStore {
	s := &CartStore{
		sessionID: sessionID,
		state:     models.CartState{Items: []models.LineItem{}},
		repo:      repo,
		logger:    logger.With(zap.String("session_id", sessionID)),
		now:       time.Now,
	}
	s.lastAccess = s.now()
	s.restore(ctx)
	return s
}

func (s *CartStore) restore(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cartRepoTimeout)
	defer cancel()

	items, err := s.repo.LoadItems(loadCtx, s.sessionID)
	if err != nil {
		s.logger.Warn("discarding unreadable persisted cart", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}
	s.state.Items = s.sanitize(items)
	s.recompute()
}

// AddItem increments the quantity of an existing line with the same id or
// appends a new line. Quantity is expected to be positive.
func (s *CartStore) AddItem(ctx context.Context, item models.LineItem, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.state.Items {
		if s.state.Items[i].ID == item.ID {
			s.state.Items[i].Quantity += quantity
			found = true
			break
		}
	}

	if !found {
		item = s.normalize(item)
		item.Quantity = quantity
		s.state.Items = append(s.state.Items, item)
	}

	s.itemsChanged(ctx)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. Unknown ids are ignored.
func (s *CartStore) UpdateQuantity(ctx context.Context, id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.state.Items = removeLine(s.state.Items, id)
	} else {
		for i := range s.state.Items {
			if s.state.Items[i].ID == id {
				s.state.Items[i].Quantity = quantity
				break
			}
		}
	}

	s.itemsChanged(ctx)
}

// RemoveItem deletes a line. Unknown ids are ignored.
func (s *CartStore) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = removeLine(s.state.Items, id)
	s.itemsChanged(ctx)
}

// ClearCart empties the item list. Shipping and payment selections are kept.
func (s *CartStore) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = []models.LineItem{}
	s.itemsChanged(ctx)
}

// LoadCart replaces the item list wholesale.
func (s *CartStore) LoadCart(ctx context.Context, items []models.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = s.sanitize(items)
	s.itemsChanged(ctx)
}

// RemoveOrdered takes the quantities of ordered lines out of the cart. Lines
// added or raised after the order snapshot keep their surplus.
func (s *CartStore) RemoveOrdered(ctx context.Context, ordered []models.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range ordered {
		for i := range s.state.Items {
			if s.state.Items[i].ID == o.ID {
				s.state.Items[i].Quantity -= o.Quantity
				break
			}
		}
	}

	remaining := s.state.Items[:0]
	for _, item := range s.state.Items {
		if item.Quantity > 0 {
			remaining = append(remaining, item)
		}
	}
	s.state.Items = remaining
	s.itemsChanged(ctx)
}

func (s *CartStore) SetShippingCarrier(carrier models.ShippingCarrier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ShippingCarrier = carrier
	s.selectionChanged()
}

func (s *CartStore) SetShippingSpeed(speed models.ShippingSpeed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ShippingSpeed = speed
	s.selectionChanged()
}

func (s *CartStore) SetPaymentMethod(method models.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.PaymentMethod = method
	s.selectionChanged()
}

// Snapshot returns a copy of the current state that the caller may keep.
func (s *CartStore) Snapshot() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccess = s.now()
	return s.snapshotLocked()
}

// CostBreakdown prices the current state. The result is cached until the
// next mutation.
func (s *CartStore) CostBreakdown() models.CostBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccess = s.now()
	if s.cachedBreakdown != nil && s.cachedVersion == s.version {
		return *s.cachedBreakdown
	}
	breakdown := CalculateCostBreakdown(s.snapshotLocked())
	s.cachedBreakdown = &breakdown
	s.cachedVersion = s.version
	return breakdown
}

// SnapshotWithBreakdown returns a state and the breakdown computed from that
// same state.
func (s *CartStore) SnapshotWithBreakdown() (models.CartState, models.CostBreakdown) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccess = s.now()
	state := s.snapshotLocked()
	return state, CalculateCostBreakdown(state)
}

// LastAccess is the time of the most recent dispatch or read.
func (s *CartStore) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

func (s *CartStore) snapshotLocked() models.CartState {
	state := s.state
	state.Items = make([]models.LineItem, len(s.state.Items))
	copy(state.Items, s.state.Items)
	return state
}

func (s *CartStore) itemsChanged(ctx context.Context) {
	s.recompute()
	s.version++
	s.lastAccess = s.now()
	s.persist(ctx)
}

func (s *CartStore) selectionChanged() {
	s.version++
	s.lastAccess = s.now()
}

func (s *CartStore) recompute() {
	totalItems := 0
	for _, item := range s.state.Items {
		totalItems += item.Quantity
	}
	s.state.TotalItems = totalItems
	s.state.TotalPrice = Subtotal(s.state.Items)
}

// persist writes the full item list. Failures are logged and otherwise
// ignored; a request cancellation does not abort the write.
func (s *CartStore) persist(ctx context.Context) {
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cartRepoTimeout)
	defer cancel()

	items := make([]models.LineItem, len(s.state.Items))
	copy(items, s.state.Items)

	if err := s.repo.SaveItems(persistCtx, s.sessionID, items); err != nil {
		s.logger.Error("failed to persist cart", zap.Error(err), zap.Int("items", len(items)))
	}
}

func (s *CartStore) normalize(item models.LineItem) models.LineItem {
	normalized, inferred := models.NormalizeLineItem(item)
	if inferred {
		s.logger.Debug("classified line item from its name",
			zap.String("item_id", normalized.ID),
			zap.String("name", normalized.Name),
			zap.String("unit_type", string(normalized.UnitType)))
	}
	return normalized
}

// sanitize normalises unit types, drops lines with a non-positive quantity
// and merges lines that share an id.
func (s *CartStore) sanitize(items []models.LineItem) []models.LineItem {
	result := make([]models.LineItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if i, ok := index[item.ID]; ok {
			result[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(result)
		result = append(result, s.normalize(item))
	}
	return result
}

func removeLine(items []models.LineItem, id string) []models.LineItem {
	result := items[:0]
	for _, item := range items {
		if item.ID != id {
			result = append(result, item)
		}
	}
	return result
}
