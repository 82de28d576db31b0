package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	fs.timeNow = func() time.Time {
		return time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	}
	return fs
}

func sampleOrder(id string) Order {
	return Order{
		ID: id,
		Items: []OrderItem{
			{ProductID: "chleb-kvaskovy", Name: "Kváskový chléb", UnitPrice: 95, Quantity: 2},
		},
		TotalPrice:    190,
		PickupDate:    "2026-03-06",
		PickupSlot:    "08:30-09:30",
		CustomerName:  "Jana Nováková",
		CustomerEmail: "jana@example.com",
		CustomerPhone: "+420722987432",
		PaymentMethod: PayQR,
		PaymentStatus: PaymentPending,
		Status:        StatusNew,
	}
}

func TestFileStorage_AddAndGetOrder(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	created, err := fs.AddOrder(ctx, sampleOrder("order-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, created.Number)

	got, err := fs.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "jana@example.com", got.CustomerEmail)
	assert.Equal(t, StatusNew, got.Status)

	_, err = fs.AddOrder(ctx, sampleOrder("order-1"))
	assert.ErrorIs(t, err, ErrOrderExists)

	second, err := fs.AddOrder(ctx, sampleOrder("order-2"))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number)
}

func TestFileStorage_GetOrderNotFound(t *testing.T) {
	fs := newTestStorage(t)

	_, err := fs.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestFileStorage_UpdateOrderStatus(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	_, err := fs.AddOrder(ctx, sampleOrder("order-1"))
	require.NoError(t, err)

	require.NoError(t, fs.UpdateOrderStatus(ctx, "order-1", StatusConfirmed))
	require.NoError(t, fs.UpdateOrderStatus(ctx, "order-1", StatusReady))
	require.NoError(t, fs.UpdateOrderStatus(ctx, "order-1", StatusCompleted))

	// Completed is terminal.
	err = fs.UpdateOrderStatus(ctx, "order-1", StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	history, err := fs.GetOrderHistory(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, StatusNew, history[0].Status)
	assert.Equal(t, StatusCompleted, history[3].Status)
}

func TestFileStorage_InvalidTransitions(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	_, err := fs.AddOrder(ctx, sampleOrder("order-1"))
	require.NoError(t, err)

	// new -> ready skips confirmation.
	assert.ErrorIs(t, fs.UpdateOrderStatus(ctx, "order-1", StatusReady), ErrInvalidStatus)

	require.NoError(t, fs.UpdateOrderStatus(ctx, "order-1", StatusCancelled))
	assert.ErrorIs(t, fs.UpdateOrderStatus(ctx, "order-1", StatusConfirmed), ErrInvalidStatus)
}

func TestFileStorage_UpdatePaymentStatus(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	_, err := fs.AddOrder(ctx, sampleOrder("order-1"))
	require.NoError(t, err)

	require.NoError(t, fs.UpdatePaymentStatus(ctx, "order-1", PaymentPaid))
	got, err := fs.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, got.PaymentStatus)

	assert.ErrorIs(t, fs.UpdatePaymentStatus(ctx, "missing", PaymentPaid), ErrOrderNotFound)
}

func TestFileStorage_ListOrdersByEmail(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	_, err := fs.AddOrder(ctx, sampleOrder("order-1"))
	require.NoError(t, err)
	other := sampleOrder("order-2")
	other.CustomerEmail = "petr@example.com"
	_, err = fs.AddOrder(ctx, other)
	require.NoError(t, err)

	orders, err := fs.ListOrdersByEmail(ctx, "jana@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "order-1", orders[0].ID)

	all, err := fs.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFileStorage_Customers(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	customer := Customer{
		Name:  "Jana Nováková",
		Email: "jana@example.com",
		Phone: "+420722987432",
		Token: "tok-123",
	}
	require.NoError(t, fs.AddCustomer(ctx, customer))
	assert.ErrorIs(t, fs.AddCustomer(ctx, customer), ErrCustomerExists)

	byToken, err := fs.GetCustomerByToken(ctx, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "jana@example.com", byToken.Email)

	byPhone, err := fs.GetCustomerByPhone(ctx, "+420722987432")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", byPhone.Token)

	_, err = fs.GetCustomerByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	customers, err := fs.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestFileStorage_SMSCodes(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()
	now := fs.timeNow()

	code := SMSCode{Phone: "+420722987432", Code: "123456", ExpiresAt: now.Add(5 * time.Minute)}
	require.NoError(t, fs.SaveSMSCode(ctx, code))

	t.Run("wrong code rejected", func(t *testing.T) {
		assert.ErrorIs(t, fs.ConsumeSMSCode(ctx, "+420722987432", "000000"), ErrCodeInvalid)
	})

	t.Run("valid code works once", func(t *testing.T) {
		require.NoError(t, fs.ConsumeSMSCode(ctx, "+420722987432", "123456"))
		assert.ErrorIs(t, fs.ConsumeSMSCode(ctx, "+420722987432", "123456"), ErrCodeInvalid)
	})

	t.Run("expired code rejected", func(t *testing.T) {
		expired := SMSCode{Phone: "+420111222333", Code: "654321", ExpiresAt: now.Add(-time.Minute)}
		require.NoError(t, fs.SaveSMSCode(ctx, expired))
		assert.ErrorIs(t, fs.ConsumeSMSCode(ctx, "+420111222333", "654321"), ErrCodeExpired)
	})

	t.Run("new code replaces old one", func(t *testing.T) {
		first := SMSCode{Phone: "+420999888777", Code: "111111", ExpiresAt: now.Add(5 * time.Minute)}
		second := SMSCode{Phone: "+420999888777", Code: "222222", ExpiresAt: now.Add(5 * time.Minute)}
		require.NoError(t, fs.SaveSMSCode(ctx, first))
		require.NoError(t, fs.SaveSMSCode(ctx, second))
		assert.ErrorIs(t, fs.ConsumeSMSCode(ctx, "+420999888777", "111111"), ErrCodeInvalid)
		require.NoError(t, fs.ConsumeSMSCode(ctx, "+420999888777", "222222"))
	})
}

func TestFileStorage_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStorage(dir)
	require.NoError(t, err)
	_, err = first.AddOrder(ctx, sampleOrder("order-1"))
	require.NoError(t, err)

	second, err := NewFileStorage(dir)
	require.NoError(t, err)
	got, err := second.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "Jana Nováková", got.CustomerName)

	// The file on disk is the indented JSON the admin can read.
	raw, err := os.ReadFile(filepath.Join(dir, "orders.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\"pickup_slot\": \"08:30-09:30\"")
}
