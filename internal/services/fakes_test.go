package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/internal/repositories"
	"storefront-backend/pkg/messaging"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errMiss = errors.New("cache miss")

// memCartRepo is an in-memory CartRepository that round-trips through JSON
// the way the redis implementation does.
type memCartRepo struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	loadErr error
	saveErr error
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{data: make(map[string][]byte)}
}

func (r *memCartRepo) SaveItems(ctx context.Context, sessionID string, items []models.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	r.data[sessionID] = raw
	return nil
}

func (r *memCartRepo) LoadItems(ctx context.Context, sessionID string) ([]models.LineItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	raw, ok := r.data[sessionID]
	if !ok {
		return nil, nil
	}
	var items []models.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *memCartRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// memCache is an in-memory stand-in for the redis cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return errMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
	gets     int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[primitive.ObjectID]models.Product)}
}

func (r *memProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return repositories.ErrNotFound
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) List(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]models.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.Product
	for _, p := range r.products {
		if category != "" && p.Category != category {
			continue
		}
		if availableOnly && !p.IsAvailable {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type memOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]models.Order
	createErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]models.Order)}
}

func (r *memOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

func (r *memOrderRepo) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &o, nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

func (r *memOrderRepo) List(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.Order
	for _, o := range r.orders {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type memAdminRepo struct {
	mu     sync.Mutex
	admins map[uuid.UUID]models.AdminUser
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{admins: make(map[uuid.UUID]models.AdminUser)}
}

func (r *memAdminRepo) Create(ctx context.Context, admin *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[admin.ID] = *admin
	return nil
}

func (r *memAdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (r *memAdminRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memAdminRepo) List(ctx context.Context) ([]models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.AdminUser
	for _, a := range r.admins {
		all = append(all, a)
	}
	return all, nil
}

func (r *memAdminRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.admins, id)
	return nil
}

func (r *memAdminRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.admins)), nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []*messaging.OrderSubmittedEvent
	err    error

	// When set, each call signals entered and then blocks until release is
	// closed.
	entered chan struct{}
	release chan struct{}
}

func (n *recordingNotifier) eventCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func (n *recordingNotifier) NotifyOrderSubmitted(ctx context.Context, event *messaging.OrderSubmittedEvent) error {
	if n.entered != nil {
		n.entered <- struct{}{}
		<-n.release
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

type recordingSink struct {
	orderID string
	text    string
	calls   int
}

func (s *recordingSink) Deliver(ctx context.Context, orderID, text string) error {
	s.orderID = orderID
	s.text = text
	s.calls++
	return nil
}
