package confession

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create insert message với is_read = false
	Create(ctx context.Context, m *Message) error

	// ListByProfile trả về messages mới nhất trước
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Message, error)

	CountUnread(ctx context.Context, profileID uuid.UUID) (int, error)

	// CountUnreadWithRecentIDs đếm unread và trả về id (dạng text) của các unread
	// được tạo trong khoảng recent gần nhất, cùng một snapshot
	CountUnreadWithRecentIDs(ctx context.Context, profileID uuid.UUID, recent time.Duration) (int, []string, error)

	// MarkAllRead là một batched UPDATE, trả về số rows đã đổi
	MarkAllRead(ctx context.Context, profileID uuid.UUID) (int64, error)
}
