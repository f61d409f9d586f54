package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"confession-backend/internal/domains/confession"
	"confession-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) confession.Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, m *confession.Message) error {
	query := `
		INSERT INTO confessions (id, profile_id, message, is_read, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
		RETURNING created_at
	`

	if err := r.db.QueryRow(ctx, query, m.ID, m.ProfileID, m.Body).Scan(&m.CreatedAt); err != nil {
		return fmt.Errorf("insert confession: %w", err)
	}
	m.IsRead = false
	return nil
}

func (r *postgresRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]confession.Message, error) {
	query := `
		SELECT id, profile_id, message, is_read, created_at
		FROM confessions
		WHERE profile_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("list confessions: %w", err)
	}
	defer rows.Close()

	messages := make([]confession.Message, 0)
	for rows.Next() {
		var m confession.Message
		if err := rows.Scan(&m.ID, &m.ProfileID, &m.Body, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan confession: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate confessions: %w", err)
	}

	return messages, nil
}

func (r *postgresRepository) CountUnread(ctx context.Context, profileID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM confessions WHERE profile_id = $1 AND is_read = FALSE`

	var count int
	if err := r.db.QueryRow(ctx, query, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountUnreadWithRecentIDs(ctx context.Context, profileID uuid.UUID, recent time.Duration) (int, []string, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(
				array_agg(id::text) FILTER (WHERE created_at >= NOW() - make_interval(secs => $2)),
				'{}'
			)
		FROM confessions
		WHERE profile_id = $1 AND is_read = FALSE
	`

	var (
		count int
		ids   []string
	)
	if err := r.db.QueryRow(ctx, query, profileID, recent.Seconds()).Scan(&count, &ids); err != nil {
		return 0, nil, fmt.Errorf("count unread with recent ids: %w", err)
	}
	return count, ids, nil
}

func (r *postgresRepository) MarkAllRead(ctx context.Context, profileID uuid.UUID) (int64, error) {
	query := `
		UPDATE confessions
		SET is_read = TRUE
		WHERE profile_id = $1 AND is_read = FALSE
	`

	result, err := r.db.Exec(ctx, query, profileID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return result.RowsAffected(), nil
}
