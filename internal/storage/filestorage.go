package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	ErrOrderExists      = errors.New("order already exists")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidStatus    = errors.New("invalid status transition")
	ErrCustomerExists   = errors.New("customer already exists")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCodeInvalid      = errors.New("login code invalid")
	ErrCodeExpired      = errors.New("login code expired")
)

type ordersData struct {
	Orders  []Order        `json:"orders"`
	History []HistoryEntry `json:"history"`
}

// FileStorage keeps all shop data in flat JSON files under a data
// directory: orders.json, customers.json and sms-codes.json. Every
// operation re-reads the affected file before mutating it, so the
// files stay usable as the source of truth even when edited by hand
// between requests.
type FileStorage struct {
	dir string
	mu  sync.Mutex

	orders    ordersData
	customers []Customer
	codes     []SMSCode

	timeNow func() time.Time
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fs := &FileStorage{dir: dir, timeNow: time.Now}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.loadAll(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStorage) ordersPath() string    { return filepath.Join(fs.dir, "orders.json") }
func (fs *FileStorage) customersPath() string { return filepath.Join(fs.dir, "customers.json") }
func (fs *FileStorage) codesPath() string     { return filepath.Join(fs.dir, "sms-codes.json") }

func readJSON(path string, v any) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(v)
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (fs *FileStorage) loadAll() error {
	if err := readJSON(fs.ordersPath(), &fs.orders); err != nil {
		return err
	}
	if err := readJSON(fs.customersPath(), &fs.customers); err != nil {
		return err
	}
	return readJSON(fs.codesPath(), &fs.codes)
}

func (fs *FileStorage) addHistory(orderID string, status OrderStatus) {
	fs.orders.History = append(fs.orders.History, HistoryEntry{
		OrderID:   orderID,
		Status:    status,
		ChangedAt: fs.timeNow(),
	})
}

func (fs *FileStorage) AddOrder(_ context.Context, order Order) (Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.ordersPath(), &fs.orders); err != nil {
		return Order{}, err
	}

	number := 0
	for _, o := range fs.orders.Orders {
		if o.ID == order.ID {
			return Order{}, ErrOrderExists
		}
		if o.Number > number {
			number = o.Number
		}
	}
	order.Number = number + 1

	fs.orders.Orders = append(fs.orders.Orders, order)
	fs.addHistory(order.ID, order.Status)
	if err := writeJSON(fs.ordersPath(), &fs.orders); err != nil {
		return Order{}, err
	}
	return order, nil
}

func (fs *FileStorage) GetOrder(_ context.Context, orderID string) (*Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.ordersPath(), &fs.orders); err != nil {
		return nil, err
	}

	for _, o := range fs.orders.Orders {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (fs *FileStorage) ListOrders(_ context.Context) ([]Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.ordersPath(), &fs.orders); err != nil {
		return nil, err
	}
	out := make([]Order, len(fs.orders.Orders))
	copy(out, fs.orders.Orders)
	return out, nil
}

func (fs *FileStorage) ListOrdersByEmail(_ context.Context, email string) ([]Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.ordersPath(), &fs.orders); err != nil {
		return nil, err
	}

	var orders []Order
	for _, o := range fs.orders.Orders {
		if o.CustomerEmail == email {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (fs *FileStorage) UpdateOrderStatus(_ context.Context, orderID string, status OrderStatus) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.ordersPath(), &fs.orders); err != nil {
		return err
	}

	for i := range fs.orders.Orders {
		if fs.orders.Orders[i].ID != orderID {
			continue
		}
		if !CanTransition(fs.orders.Orders[i].Status, status) {
			return ErrInvalidStatus
		}
		fs.orders.Orders[i].Status = status
		fs.orders.Orders[i].UpdatedAt = fs.timeNow()
		fs.addHistory(orderID, status)
		return writeJSON(fs.ordersPath(), &fs.orders)
	}
	return ErrOrderNotFound
}

func (fs *FileStorage) UpdatePaymentStatus(_ context.Context, orderID string, status PaymentStatus) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.ordersPath(), &fs.orders); err != nil {
		return err
	}

	for i := range fs.orders.Orders {
		if fs.orders.Orders[i].ID != orderID {
			continue
		}
		fs.orders.Orders[i].PaymentStatus = status
		fs.orders.Orders[i].UpdatedAt = fs.timeNow()
		return writeJSON(fs.ordersPath(), &fs.orders)
	}
	return ErrOrderNotFound
}

func (fs *FileStorage) GetOrderHistory(_ context.Context, orderID string) ([]HistoryEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.ordersPath(), &fs.orders); err != nil {
		return nil, err
	}

	var history []HistoryEntry
	for _, h := range fs.orders.History {
		if h.OrderID == orderID {
			history = append(history, h)
		}
	}
	return history, nil
}

func (fs *FileStorage) AddCustomer(_ context.Context, customer Customer) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.customersPath(), &fs.customers); err != nil {
		return err
	}

	for _, c := range fs.customers {
		if c.Email == customer.Email {
			return ErrCustomerExists
		}
	}

	fs.customers = append(fs.customers, customer)
	return writeJSON(fs.customersPath(), &fs.customers)
}

func (fs *FileStorage) GetCustomerByToken(_ context.Context, token string) (*Customer, error) {
	return fs.findCustomer(func(c Customer) bool { return c.Token == token })
}

func (fs *FileStorage) GetCustomerByEmail(_ context.Context, email string) (*Customer, error) {
	return fs.findCustomer(func(c Customer) bool { return c.Email == email })
}

func (fs *FileStorage) GetCustomerByPhone(_ context.Context, phone string) (*Customer, error) {
	return fs.findCustomer(func(c Customer) bool { return c.Phone != "" && c.Phone == phone })
}

func (fs *FileStorage) findCustomer(match func(Customer) bool) (*Customer, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.customersPath(), &fs.customers); err != nil {
		return nil, err
	}

	for _, c := range fs.customers {
		if match(c) {
			return &c, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (fs *FileStorage) ListCustomers(_ context.Context) ([]Customer, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.customersPath(), &fs.customers); err != nil {
		return nil, err
	}
	out := make([]Customer, len(fs.customers))
	copy(out, fs.customers)
	return out, nil
}

// SaveSMSCode stores a login code for a phone number, replacing any
// previous code for the same number.
func (fs *FileStorage) SaveSMSCode(_ context.Context, code SMSCode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.codesPath(), &fs.codes); err != nil {
		return err
	}

	kept := fs.codes[:0]
	for _, c := range fs.codes {
		if c.Phone != code.Phone {
			kept = append(kept, c)
		}
	}
	fs.codes = append(kept, code)
	return writeJSON(fs.codesPath(), &fs.codes)
}

// ConsumeSMSCode validates a login code and marks it used. A code
// works exactly once and only before its expiry.
func (fs *FileStorage) ConsumeSMSCode(_ context.Context, phone, code string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := readJSON(fs.codesPath(), &fs.codes); err != nil {
		return err
	}

	for i := range fs.codes {
		if fs.codes[i].Phone != phone || fs.codes[i].Code != code {
			continue
		}
		if fs.codes[i].Used {
			return ErrCodeInvalid
		}
		if fs.timeNow().After(fs.codes[i].ExpiresAt) {
			return ErrCodeExpired
		}
		fs.codes[i].Used = true
		return writeJSON(fs.codesPath(), &fs.codes)
	}
	return ErrCodeInvalid
}
