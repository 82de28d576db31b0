package storage

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_db "github.com/MaxCernyAlbert/supdopece-cz/internal/db/mocks"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/repository"
)

func newPostgresUnderTest(t *testing.T, now time.Time) (*PostgresStorage, *mock_db.MockDB, *mock_db.MockTx) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockDB := mock_db.NewMockDB(ctrl)
	mockTx := mock_db.NewMockTx(ctrl)

	s := NewPostgresStorage(mockDB)
	s.timeNow = func() time.Time { return now }
	return s, mockDB, mockTx
}

func TestPostgresConsumeSMSCode(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)

	stored := repository.SMSCodeRow{
		Phone:     "+420777123456",
		Code:      "123456",
		ExpiresAt: now.Add(time.Minute),
	}

	expectGetCode := func(mockTx *mock_db.MockTx, row repository.SMSCodeRow) {
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(row.Phone)).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*repository.SMSCodeRow) = row
				return nil
			})
	}

	t.Run("valid code is marked used", func(t *testing.T) {
		s, mockDB, mockTx := newPostgresUnderTest(t, now)
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		expectGetCode(mockTx, stored)
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(stored.Phone)).Return(nil, nil)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(pgx.ErrTxClosed)

		require.NoError(t, s.ConsumeSMSCode(ctx, stored.Phone, "123456"))
	})

	t.Run("wrong code", func(t *testing.T) {
		s, mockDB, mockTx := newPostgresUnderTest(t, now)
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		expectGetCode(mockTx, stored)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		assert.ErrorIs(t, s.ConsumeSMSCode(ctx, stored.Phone, "999999"), ErrCodeInvalid)
	})

	t.Run("already used", func(t *testing.T) {
		used := stored
		used.Used = true

		s, mockDB, mockTx := newPostgresUnderTest(t, now)
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		expectGetCode(mockTx, used)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		assert.ErrorIs(t, s.ConsumeSMSCode(ctx, used.Phone, "123456"), ErrCodeInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		s, mockDB, mockTx := newPostgresUnderTest(t, now.Add(2*time.Minute))
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		expectGetCode(mockTx, stored)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		assert.ErrorIs(t, s.ConsumeSMSCode(ctx, stored.Phone, "123456"), ErrCodeExpired)
	})

	t.Run("no code on file", func(t *testing.T) {
		s, mockDB, mockTx := newPostgresUnderTest(t, now)
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgx.ErrNoRows)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		assert.ErrorIs(t, s.ConsumeSMSCode(ctx, "+420000000000", "123456"), ErrCodeInvalid)
	})
}

func TestPostgresUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)

	expectGetOrder := func(mockTx *mock_db.MockTx, status string) {
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("order-1")).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*repository.OrderRow) = repository.OrderRow{ID: "order-1", Status: status}
				return nil
			})
	}

	t.Run("allowed transition writes history", func(t *testing.T) {
		s, mockDB, mockTx := newPostgresUnderTest(t, now)
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		expectGetOrder(mockTx, "new")
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Eq("confirmed"), gomock.Eq("order-1")).Return(nil, nil)
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Eq("order-1"), gomock.Eq("confirmed"), gomock.Eq(now)).Return(nil, nil)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(pgx.ErrTxClosed)

		require.NoError(t, s.UpdateOrderStatus(ctx, "order-1", StatusConfirmed))
	})

	t.Run("forbidden transition", func(t *testing.T) {
		s, mockDB, mockTx := newPostgresUnderTest(t, now)
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		expectGetOrder(mockTx, "completed")
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "order-1", StatusNew), ErrInvalidStatus)
	})

	t.Run("unknown order", func(t *testing.T) {
		s, mockDB, mockTx := newPostgresUnderTest(t, now)
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgx.ErrNoRows)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "order-1", StatusConfirmed), ErrOrderNotFound)
	})
}
