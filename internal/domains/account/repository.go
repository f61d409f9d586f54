package account

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository định nghĩa data access cho bảng accounts
type Repository interface {
	// FindOrCreateByEmail trả về account của email, tạo mới nếu chưa có.
	// Concurrent calls với cùng email luôn trả về cùng một row.
	FindOrCreateByEmail(ctx context.Context, email string) (*Account, error)

	// FindByEmail returns ErrAccountNotFound nếu không tìm thấy
	FindByEmail(ctx context.Context, email string) (*Account, error)

	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
}

// TokenStore lưu one-time token theo hash, mỗi token chỉ consume được một lần
type TokenStore interface {
	Save(ctx context.Context, tokenHash string, token OneTimeToken, ttl time.Duration) error

	// Consume xóa token nếu linkType khớp. Chỉ caller đầu tiên nhận được token,
	// các caller sau nhận ErrInvalidToken.
	Consume(ctx context.Context, tokenHash string, linkType LinkType) (*OneTimeToken, error)
}

// SessionStore giữ danh sách jti đã bị revoke (logout)
type SessionStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
