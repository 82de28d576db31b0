package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/MaxCernyAlbert/supdopece-cz/internal/metrics"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/storage"
)

type OrderLister interface {
	ListOrders(ctx context.Context) ([]storage.Order, error)
}

// OrderCache keeps orders that still need kitchen attention (new,
// confirmed, ready) in memory so the admin panel does not hit the
// storage files on every poll. Values are copied on the way in and
// out; callers never share a pointer with the cache.
type OrderCache struct {
	mu     sync.RWMutex
	orders map[string]storage.Order
	repo   OrderLister
	logger *zap.Logger
}

func NewOrderCache(repo OrderLister, logger *zap.Logger) *OrderCache {
	return &OrderCache{
		orders: make(map[string]storage.Order),
		repo:   repo,
		logger: logger,
	}
}

func (c *OrderCache) Warm(ctx context.Context) error {
	orders, err := c.repo.ListOrders(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, order := range orders {
		if isActive(order.Status) {
			c.orders[order.ID] = order
		}
	}
	metrics.OrderCacheItems.Set(float64(len(c.orders)))
	c.logger.Info("order cache warmed", zap.Int("active_orders", len(c.orders)))
	return nil
}

func (c *OrderCache) Get(orderID string) (storage.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	order, found := c.orders[orderID]
	return order, found
}

// Set stores an active order and evicts one that left the active
// part of its lifecycle.
func (c *OrderCache) Set(order storage.Order) {
	if !isActive(order.Status) {
		c.Delete(order.ID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders[order.ID] = order
	metrics.OrderCacheItems.Set(float64(len(c.orders)))
}

func (c *OrderCache) Delete(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.orders[orderID]; found {
		delete(c.orders, orderID)
		metrics.OrderCacheItems.Set(float64(len(c.orders)))
	}
}

func isActive(status storage.OrderStatus) bool {
	return status == storage.StatusNew || status == storage.StatusConfirmed || status == storage.StatusReady
}
