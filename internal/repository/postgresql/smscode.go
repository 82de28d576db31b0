package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/MaxCernyAlbert/supdopece-cz/internal/db"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/repository"
)

type SMSCodeRepo struct {
	db db.DB
}

func NewSMSCodeRepo(db db.DB) *SMSCodeRepo {
	return &SMSCodeRepo{db: db}
}

// Save keeps at most one pending code per phone number.
func (r *SMSCodeRepo) Save(ctx context.Context, code *repository.SMSCodeRow) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO sms_codes (phone, code, expires_at, used)
        VALUES ($1, $2, $3, false)
        ON CONFLICT (phone) DO UPDATE
        SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, used = false
    `, code.Phone, code.Code, code.ExpiresAt)
	return err
}

func (r *SMSCodeRepo) GetByPhoneTx(ctx context.Context, tx db.Tx, phone string) (*repository.SMSCodeRow, error) {
	var code repository.SMSCodeRow
	err := tx.Get(ctx, &code,
		"SELECT * FROM sms_codes WHERE phone = $1 FOR UPDATE", phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &code, nil
}

func (r *SMSCodeRepo) MarkUsedTx(ctx context.Context, tx db.Tx, phone string) error {
	_, err := tx.Exec(ctx,
		"UPDATE sms_codes SET used = true WHERE phone = $1", phone)
	return err
}
