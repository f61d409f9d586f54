package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"confession-backend/internal/domains/account"
	"confession-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) account.Repository {
	return &postgresRepository{db: db}
}

// FindOrCreateByEmail dùng ON CONFLICT để hai lần exchange đồng thời không tạo 2 account
func (r *postgresRepository) FindOrCreateByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `
		INSERT INTO accounts (id, email, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, created_at
	`

	var acc account.Account
	err := r.db.QueryRow(ctx, query, uuid.New(), email).Scan(&acc.ID, &acc.Email, &acc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find or create account: %w", err)
	}
	return &acc, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `SELECT id, email, created_at FROM accounts WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT id, email, created_at FROM accounts WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg any) (*account.Account, error) {
	var acc account.Account
	err := r.db.QueryRow(ctx, query, arg).Scan(&acc.ID, &acc.Email, &acc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &acc, nil
}
