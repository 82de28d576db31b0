package storage

import "time"

type OrderStatus string

const (
	StatusNew       OrderStatus = "new"
	StatusConfirmed OrderStatus = "confirmed"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// validTransitions encodes the order lifecycle:
// new -> confirmed -> ready -> completed, with cancellation possible
// until the order is ready.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusNew:       {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
}

func CanTransition(from, to OrderStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PayOnline   PaymentMethod = "online"
	PayQR       PaymentMethod = "qr"
	PayOnPickup PaymentMethod = "on_pickup"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PayOnline || m == PayQR || m == PayOnPickup
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func ValidPaymentStatus(s PaymentStatus) bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentFailed
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID            string        `json:"id"`
	Number        int           `json:"number"`
	Items         []OrderItem   `json:"items"`
	TotalPrice    int           `json:"total_price"`
	PickupDate    string        `json:"pickup_date"` // YYYY-MM-DD
	PickupSlot    string        `json:"pickup_slot"` // HH:MM-HH:MM
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	CustomerPhone string        `json:"customer_phone"`
	Note          string        `json:"note,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type HistoryEntry struct {
	OrderID   string      `json:"order_id"`
	Status    OrderStatus `json:"status"`
	ChangedAt time.Time   `json:"changed_at"`
}

// Customer is a storefront account identified by an opaque token
// delivered via magic link.
type Customer struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// SMSCode is a short-lived single-use login code sent to a phone
// number.
type SMSCode struct {
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}
