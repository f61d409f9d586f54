package confession

import (
	"context"

	"github.com/google/uuid"

	"confession-backend/internal/domains/profile"
	"confession-backend/internal/infrastructure/realtime"
)

// RecipientResolver resolve slug → profile
type RecipientResolver interface {
	GetBySlug(ctx context.Context, slug string) (*profile.Profile, error)
}

// Publisher đẩy event vào change feed của recipient
type Publisher interface {
	Publish(ctx context.Context, event realtime.Event) error
}

type Service interface {
	// Submit nhận confession ẩn danh. nil nghĩa là Accepted.
	Submit(ctx context.Context, recipientSlug, rawBody string) error

	// ListInbox trả về inbox của owner, mới nhất trước
	ListInbox(ctx context.Context, profileID uuid.UUID) ([]Message, error)
}
