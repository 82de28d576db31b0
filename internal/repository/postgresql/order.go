package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/MaxCernyAlbert/supdopece-cz/internal/db"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/repository"
)

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(db db.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// NextNumberTx reserves the next human-facing order number. Runs
// inside the insert transaction so two checkouts cannot share one.
func (r *OrderRepo) NextNumberTx(ctx context.Context, tx db.Tx) (int, error) {
	var number int
	err := tx.ExecQueryRow(ctx,
		"SELECT COALESCE(MAX(number), 0) + 1 FROM orders").Scan(&number)
	return number, err
}

func (r *OrderRepo) CreateTx(ctx context.Context, tx db.Tx, order *repository.OrderRow) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO orders (
            id, number, total_price, pickup_date, pickup_slot,
            customer_name, customer_email, customer_phone, note,
            payment_method, payment_status, status, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `, order.ID, order.Number, order.TotalPrice, order.PickupDate, order.PickupSlot,
		order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.Note,
		order.PaymentMethod, order.PaymentStatus, order.Status, order.CreatedAt, order.UpdatedAt)
	return err
}

func (r *OrderRepo) AddItemTx(ctx context.Context, tx db.Tx, item *repository.OrderItemRow) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO order_items (order_id, product_id, name, unit_price, quantity)
        VALUES ($1, $2, $3, $4, $5)
    `, item.OrderID, item.ProductID, item.Name, item.UnitPrice, item.Quantity)
	return err
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*repository.OrderRow, error) {
	var order repository.OrderRow
	err := r.db.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDTx locks the order row for the duration of the transaction.
func (r *OrderRepo) GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.OrderRow, error) {
	var order repository.OrderRow
	err := tx.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) GetItems(ctx context.Context, orderID string) ([]repository.OrderItemRow, error) {
	var items []repository.OrderItemRow
	err := r.db.Select(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

func (r *OrderRepo) List(ctx context.Context) ([]repository.OrderRow, error) {
	var orders []repository.OrderRow
	err := r.db.Select(ctx, &orders,
		"SELECT * FROM orders ORDER BY created_at DESC")
	return orders, err
}

func (r *OrderRepo) ListByEmail(ctx context.Context, email string) ([]repository.OrderRow, error) {
	var orders []repository.OrderRow
	err := r.db.Select(ctx, &orders,
		"SELECT * FROM orders WHERE customer_email = $1 ORDER BY created_at DESC", email)
	return orders, err
}

func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, id, status string) error {
	_, err := tx.Exec(ctx,
		"UPDATE orders SET status = $1, updated_at = now() WHERE id = $2", status, id)
	return err
}

func (r *OrderRepo) UpdatePaymentStatus(ctx context.Context, id, status string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		"UPDATE orders SET payment_status = $1, updated_at = now() WHERE id = $2", status, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepo) AddHistoryTx(ctx context.Context, tx db.Tx, entry *repository.HistoryRow) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO order_history (order_id, status, changed_at)
        VALUES ($1, $2, $3)
    `, entry.OrderID, entry.Status, entry.ChangedAt)
	return err
}

func (r *OrderRepo) History(ctx context.Context, orderID string) ([]repository.HistoryRow, error) {
	var entries []repository.HistoryRow
	err := r.db.Select(ctx, &entries,
		"SELECT * FROM order_history WHERE order_id = $1 ORDER BY changed_at", orderID)
	return entries, err
}
