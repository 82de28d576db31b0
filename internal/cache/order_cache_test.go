package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MaxCernyAlbert/supdopece-cz/internal/storage"
)

type staticLister struct {
	orders []storage.Order
}

func (l *staticLister) ListOrders(context.Context) ([]storage.Order, error) {
	return l.orders, nil
}

func TestOrderCacheWarm(t *testing.T) {
	lister := &staticLister{orders: []storage.Order{
		{ID: "a", Status: storage.StatusNew},
		{ID: "b", Status: storage.StatusReady},
		{ID: "c", Status: storage.StatusCompleted},
		{ID: "d", Status: storage.StatusCancelled},
	}}

	c := NewOrderCache(lister, zap.NewNop())
	require.NoError(t, c.Warm(context.Background()))

	_, found := c.Get("a")
	assert.True(t, found)
	_, found = c.Get("b")
	assert.True(t, found)
	_, found = c.Get("c")
	assert.False(t, found)
	_, found = c.Get("d")
	assert.False(t, found)
}

func TestOrderCacheSetEvictsInactive(t *testing.T) {
	c := NewOrderCache(&staticLister{}, zap.NewNop())

	c.Set(storage.Order{ID: "a", Status: storage.StatusNew})
	got, found := c.Get("a")
	require.True(t, found)
	assert.Equal(t, storage.StatusNew, got.Status)

	c.Set(storage.Order{ID: "a", Status: storage.StatusConfirmed})
	got, _ = c.Get("a")
	assert.Equal(t, storage.StatusConfirmed, got.Status)

	// Completing the order drops it from the cache.
	c.Set(storage.Order{ID: "a", Status: storage.StatusCompleted})
	_, found = c.Get("a")
	assert.False(t, found)
}

func TestOrderCacheCopies(t *testing.T) {
	c := NewOrderCache(&staticLister{}, zap.NewNop())
	c.Set(storage.Order{ID: "a", Status: storage.StatusNew, CustomerName: "Jana"})

	got, _ := c.Get("a")
	got.CustomerName = "changed"

	again, _ := c.Get("a")
	assert.Equal(t, "Jana", again.CustomerName)
}
