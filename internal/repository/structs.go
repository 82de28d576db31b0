package repository

import (
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("not found")

// OrderRow is the orders table shape. Line items live in the
// order_items table and are attached by the storage layer.
type OrderRow struct {
	ID            string    `db:"id"`
	Number        int       `db:"number"`
	TotalPrice    int       `db:"total_price"`
	PickupDate    string    `db:"pickup_date"`
	PickupSlot    string    `db:"pickup_slot"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	CustomerPhone string    `db:"customer_phone"`
	Note          string    `db:"note"`
	PaymentMethod string    `db:"payment_method"`
	PaymentStatus string    `db:"payment_status"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type OrderItemRow struct {
	ID        int64  `db:"id"`
	OrderID   string `db:"order_id"`
	ProductID string `db:"product_id"`
	Name      string `db:"name"`
	UnitPrice int    `db:"unit_price"`
	Quantity  int    `db:"quantity"`
}

type HistoryRow struct {
	ID        int64     `db:"id"`
	OrderID   string    `db:"order_id"`
	Status    string    `db:"status"`
	ChangedAt time.Time `db:"changed_at"`
}

type CustomerRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}

type SMSCodeRow struct {
	Phone     string    `db:"phone"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
}
