package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MaxCernyAlbert/supdopece-cz/internal/db"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/repository"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/repository/postgresql"
)

// PostgresStorage is the Postgres-backed counterpart of FileStorage.
// Both expose the same operations and sentinel errors, so callers
// never know which backend is configured.
type PostgresStorage struct {
	db        db.DB
	orders    *postgresql.OrderRepo
	customers *postgresql.CustomerRepo
	codes     *postgresql.SMSCodeRepo

	timeNow func() time.Time
}

func NewPostgresStorage(database db.DB) *PostgresStorage {
	return &PostgresStorage{
		db:        database,
		orders:    postgresql.NewOrderRepo(database),
		customers: postgresql.NewCustomerRepo(database),
		codes:     postgresql.NewSMSCodeRepo(database),
		timeNow:   time.Now,
	}
}

func (s *PostgresStorage) AddOrder(ctx context.Context, order Order) (Order, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	number, err := s.orders.NextNumberTx(ctx, tx)
	if err != nil {
		return Order{}, fmt.Errorf("reserving order number: %w", err)
	}
	order.Number = number

	row := orderToRow(order)
	if err := s.orders.CreateTx(ctx, tx, &row); err != nil {
		return Order{}, fmt.Errorf("inserting order: %w", err)
	}
	for _, item := range order.Items {
		if err := s.orders.AddItemTx(ctx, tx, &repository.OrderItemRow{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}); err != nil {
			return Order{}, fmt.Errorf("inserting order item: %w", err)
		}
	}
	if err := s.orders.AddHistoryTx(ctx, tx, &repository.HistoryRow{
		OrderID:   order.ID,
		Status:    string(order.Status),
		ChangedAt: order.CreatedAt,
	}); err != nil {
		return Order{}, fmt.Errorf("inserting order history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, fmt.Errorf("commit: %w", err)
	}
	return order, nil
}

func (s *PostgresStorage) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	row, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order := orderFromRow(*row)
	if order.Items, err = s.loadItems(ctx, orderID); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *PostgresStorage) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.ordersFromRows(ctx, rows)
}

func (s *PostgresStorage) ListOrdersByEmail(ctx context.Context, email string) ([]Order, error) {
	rows, err := s.orders.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.ordersFromRows(ctx, rows)
}

func (s *PostgresStorage) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row, err := s.orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if !CanTransition(OrderStatus(row.Status), status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, row.Status, status)
	}

	if err := s.orders.UpdateStatusTx(ctx, tx, orderID, string(status)); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	if err := s.orders.AddHistoryTx(ctx, tx, &repository.HistoryRow{
		OrderID:   orderID,
		Status:    string(status),
		ChangedAt: s.timeNow().UTC(),
	}); err != nil {
		return fmt.Errorf("inserting order history: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStorage) UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus) error {
	updated, err := s.orders.UpdatePaymentStatus(ctx, orderID, string(status))
	if err != nil {
		return err
	}
	if !updated {
		return ErrOrderNotFound
	}
	return nil
}

func (s *PostgresStorage) GetOrderHistory(ctx context.Context, orderID string) ([]HistoryEntry, error) {
	rows, err := s.orders.History(ctx, orderID)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, len(rows))
	for i, row := range rows {
		entries[i] = HistoryEntry{
			OrderID:   row.OrderID,
			Status:    OrderStatus(row.Status),
			ChangedAt: row.ChangedAt,
		}
	}
	return entries, nil
}

func (s *PostgresStorage) AddCustomer(ctx context.Context, customer Customer) error {
	if _, err := s.customers.GetByEmail(ctx, customer.Email); err == nil {
		return ErrCustomerExists
	} else if !errors.Is(err, repository.ErrObjectNotFound) {
		return err
	}

	return s.customers.Create(ctx, &repository.CustomerRow{
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Token:     customer.Token,
		CreatedAt: customer.CreatedAt,
	})
}

func (s *PostgresStorage) GetCustomerByToken(ctx context.Context, token string) (*Customer, error) {
	return s.customerFrom(s.customers.GetByToken(ctx, token))
}

func (s *PostgresStorage) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	return s.customerFrom(s.customers.GetByEmail(ctx, email))
}

func (s *PostgresStorage) GetCustomerByPhone(ctx context.Context, phone string) (*Customer, error) {
	return s.customerFrom(s.customers.GetByPhone(ctx, phone))
}

func (s *PostgresStorage) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	customers := make([]Customer, len(rows))
	for i, row := range rows {
		customers[i] = customerFromRow(row)
	}
	return customers, nil
}

func (s *PostgresStorage) SaveSMSCode(ctx context.Context, code SMSCode) error {
	return s.codes.Save(ctx, &repository.SMSCodeRow{
		Phone:     code.Phone,
		Code:      code.Code,
		ExpiresAt: code.ExpiresAt,
	})
}

func (s *PostgresStorage) ConsumeSMSCode(ctx context.Context, phone, code string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row, err := s.codes.GetByPhoneTx(ctx, tx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return ErrCodeInvalid
		}
		return err
	}
	if row.Used || row.Code != code {
		return ErrCodeInvalid
	}
	if s.timeNow().After(row.ExpiresAt) {
		return ErrCodeExpired
	}

	if err := s.codes.MarkUsedTx(ctx, tx, phone); err != nil {
		return fmt.Errorf("marking code used: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStorage) loadItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := s.orders.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items := make([]OrderItem, len(rows))
	for i, row := range rows {
		items[i] = OrderItem{
			ProductID: row.ProductID,
			Name:      row.Name,
			UnitPrice: row.UnitPrice,
			Quantity:  row.Quantity,
		}
	}
	return items, nil
}

func (s *PostgresStorage) ordersFromRows(ctx context.Context, rows []repository.OrderRow) ([]Order, error) {
	orders := make([]Order, len(rows))
	for i, row := range rows {
		order := orderFromRow(row)
		items, err := s.loadItems(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		orders[i] = order
	}
	return orders, nil
}

func (s *PostgresStorage) customerFrom(row *repository.CustomerRow, err error) (*Customer, error) {
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	customer := customerFromRow(*row)
	return &customer, nil
}

func orderToRow(order Order) repository.OrderRow {
	return repository.OrderRow{
		ID:            order.ID,
		Number:        order.Number,
		TotalPrice:    order.TotalPrice,
		PickupDate:    order.PickupDate,
		PickupSlot:    order.PickupSlot,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
		Note:          order.Note,
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentStatus),
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func orderFromRow(row repository.OrderRow) Order {
	return Order{
		ID:            row.ID,
		Number:        row.Number,
		TotalPrice:    row.TotalPrice,
		PickupDate:    row.PickupDate,
		PickupSlot:    row.PickupSlot,
		CustomerName:  row.CustomerName,
		CustomerEmail: row.CustomerEmail,
		CustomerPhone: row.CustomerPhone,
		Note:          row.Note,
		PaymentMethod: PaymentMethod(row.PaymentMethod),
		PaymentStatus: PaymentStatus(row.PaymentStatus),
		Status:        OrderStatus(row.Status),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func customerFromRow(row repository.CustomerRow) Customer {
	return Customer{
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Token:     row.Token,
		CreatedAt: row.CreatedAt,
	}
}
