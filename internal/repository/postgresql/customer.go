package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/MaxCernyAlbert/supdopece-cz/internal/db"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/repository"
)

type CustomerRepo struct {
	db db.DB
}

func NewCustomerRepo(db db.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) Create(ctx context.Context, customer *repository.CustomerRow) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO customers (name, email, phone, token, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, customer.Name, customer.Email, customer.Phone, customer.Token, customer.CreatedAt)
	return err
}

func (r *CustomerRepo) GetByToken(ctx context.Context, token string) (*repository.CustomerRow, error) {
	return r.getBy(ctx, "token", token)
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*repository.CustomerRow, error) {
	return r.getBy(ctx, "email", email)
}

func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*repository.CustomerRow, error) {
	return r.getBy(ctx, "phone", phone)
}

func (r *CustomerRepo) getBy(ctx context.Context, column, value string) (*repository.CustomerRow, error) {
	var customer repository.CustomerRow
	err := r.db.Get(ctx, &customer,
		"SELECT * FROM customers WHERE "+column+" = $1", value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepo) List(ctx context.Context) ([]repository.CustomerRow, error) {
	var customers []repository.CustomerRow
	err := r.db.Select(ctx, &customers,
		"SELECT * FROM customers ORDER BY created_at")
	return customers, err
}
