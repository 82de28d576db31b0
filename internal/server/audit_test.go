package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingProducer struct {
	mu     sync.Mutex
	keys   []string
	values [][]byte
	closed bool
}

func (p *capturingProducer) SendMessage(_ context.Context, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, string(key))
	p.values = append(p.values, value)
	return nil
}

func (p *capturingProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *capturingProducer) published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.values)
}

func TestAuditManagerPublishesFullBatch(t *testing.T) {
	producer := &capturingProducer{}
	m := NewAuditManager(producer, zap.NewNop(), 1, 2, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	m.LogEntry(ctx, AuditLogEntry{Method: http.MethodPost, Path: "/api/orders", OrderID: "o1"})
	m.LogEntry(ctx, AuditLogEntry{Method: http.MethodGet, Path: "/api/products"})

	require.Eventually(t, func() bool { return producer.published() == 2 },
		2*time.Second, 10*time.Millisecond)

	producer.mu.Lock()
	defer producer.mu.Unlock()
	// Entries with an order ID are keyed by it, the rest by path.
	assert.Equal(t, []string{"o1", "/api/products"}, producer.keys)

	var entry AuditLogEntry
	require.NoError(t, json.Unmarshal(producer.values[0], &entry))
	assert.Equal(t, "/api/orders", entry.Path)
}

func TestAuditManagerFlushesOnTimeout(t *testing.T) {
	producer := &capturingProducer{}
	m := NewAuditManager(producer, zap.NewNop(), 1, 100, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	m.LogEntry(ctx, AuditLogEntry{Method: http.MethodGet, Path: "/api/availability/dates"})

	require.Eventually(t, func() bool { return producer.published() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestAuditManagerShutdownFlushesPending(t *testing.T) {
	producer := &capturingProducer{}
	m := NewAuditManager(producer, zap.NewNop(), 2, 100, time.Hour)

	ctx := context.Background()
	m.Start(ctx)

	m.LogEntry(ctx, AuditLogEntry{Method: http.MethodGet, Path: "/healthz"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	m.Shutdown(shutdownCtx)

	assert.Equal(t, 1, producer.published())
	assert.True(t, producer.closed)
}
